// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
//
// Most messages carry presenter notifications from the session into the
// program loop; IntentCompleted reports the end of a dispatched intent.
package messages

import (
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// MessageRendered appends a message to the transcript.
type MessageRendered struct {
	Message domain.ChatMessage
}

// MessageUpdated rewrites an earlier transcript entry with the same ID.
type MessageUpdated struct {
	Message domain.ChatMessage
}

// DocumentsRendered redraws the document list.
type DocumentsRendered struct {
	Documents domain.DocumentSet
}

// ConnectionChanged enables or disables network affordances.
type ConnectionChanged struct {
	Connected bool
}

// UploadStatusChanged replaces the upload status line.
type UploadStatusChanged struct {
	Status domain.UploadStatus
}

// TypingChanged shows or hides the typing indicator.
type TypingChanged struct {
	Typing bool
}

// ThemeChanged applies a colour theme.
type ThemeChanged struct {
	Theme domain.Theme
}

// InputCleared empties the message input.
type InputCleared struct{}

// IntentCompleted is sent when a dispatched intent returns.
type IntentCompleted struct {
	Intent Intent
	Err    error
}

// Intent identifies a user intent dispatched to the session.
type Intent int

const (
	// IntentStart loads persisted state and probes the backend.
	IntentStart Intent = iota
	// IntentSend sends a chat message.
	IntentSend
	// IntentUpload uploads local files.
	IntentUpload
	// IntentDelete removes a document.
	IntentDelete
	// IntentReconnect runs an announced probe.
	IntentReconnect
	// IntentToggleTheme flips the theme.
	IntentToggleTheme
)

// String returns the string representation of the intent.
func (i Intent) String() string {
	switch i {
	case IntentStart:
		return "start"
	case IntentSend:
		return "send"
	case IntentUpload:
		return "upload"
	case IntentDelete:
		return "delete"
	case IntentReconnect:
		return "reconnect"
	case IntentToggleTheme:
		return "toggle_theme"
	default:
		return "unknown"
	}
}

// Focus identifies which component receives key presses.
type Focus int

const (
	// FocusInput is the message input.
	FocusInput Focus = iota
	// FocusDocuments is the document list.
	FocusDocuments
	// FocusUpload is the upload path prompt.
	FocusUpload
)

// String returns the string representation of the focus target.
func (f Focus) String() string {
	switch f {
	case FocusInput:
		return "input"
	case FocusDocuments:
		return "documents"
	case FocusUpload:
		return "upload"
	default:
		return "unknown"
	}
}

// RemoveRequested is emitted by the document list for the selected entry.
type RemoveRequested struct {
	Index int
}
