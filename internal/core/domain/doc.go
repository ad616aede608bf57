// Package domain defines the core business entities for docchat.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - ConnectionState: Reachability of the chat backend
//   - DocumentRecord: A reference document confirmed by the backend
//   - DocumentSet: The ordered documents that accompany each chat turn
//   - ChatMessage: One line of the conversation transcript
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
