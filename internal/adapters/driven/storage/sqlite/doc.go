// Package sqlite persists the document set and user preferences in a
// local SQLite database (pure Go driver, no CGO).
package sqlite
