package driven

import "github.com/custodia-labs/docchat/internal/core/domain"

// Presenter receives one-way notifications from the core.
// Implementations must not call back into the session synchronously.
type Presenter interface {
	// RenderMessage appends a message to the transcript.
	RenderMessage(msg domain.ChatMessage)

	// UpdateMessage rewrites an already rendered message in place.
	// msg.ID matches the ID of the earlier RenderMessage call.
	UpdateMessage(msg domain.ChatMessage)

	// RenderDocumentList redraws the document list.
	RenderDocumentList(docs domain.DocumentSet)

	// SetConnected enables or disables the network-dependent affordances.
	SetConnected(connected bool)

	// SetUploadStatus shows the upload status line. UploadIdle clears it.
	SetUploadStatus(status domain.UploadStatus)

	// SetTyping shows or hides the typing indicator.
	SetTyping(typing bool)

	// SetTheme applies a colour theme.
	SetTheme(theme domain.Theme)

	// ClearInput empties the message input.
	ClearInput()
}
