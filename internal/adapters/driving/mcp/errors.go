// Package mcp serves the chat session over the Model Context Protocol so
// AI assistants can ask questions and manage the uploaded documents.
package mcp

import "errors"

// ErrMissingSession is returned when the session service is not provided.
var ErrMissingSession = errors.New("mcp: session service is required")

// ErrNotConnected is returned by tools that need the server while the
// session is disconnected.
var ErrNotConnected = errors.New("mcp: document server is not connected; call check_connection to reconnect")
