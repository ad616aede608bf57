// Package rest implements driven.Backend against the document chat HTTP
// server (/health, /chat, /upload, /delete-file).
package rest
