package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatRequest is the body of a chat turn.
type ChatRequest struct {
	// Message is the user's text.
	Message string

	// Documents is the snapshot of DocumentSet server paths at call time.
	Documents []string
}

// ChatResponse is the decoded reply of a chat turn.
type ChatResponse struct {
	// Reply is the backend answer. Empty when the backend sent no reply field.
	Reply string
}

// Backend is the remote conversational backend.
// Implementations convert every failure into a *domain.TransportError or
// *domain.ServerError before returning it.
type Backend interface {
	// Health performs a single health probe. Nil means reachable.
	Health(ctx context.Context) error

	// Chat sends one chat turn and waits for the reply.
	Chat(ctx context.Context, req ChatRequest) (ChatResponse, error)

	// Upload sends a file payload and returns the server-assigned path.
	Upload(ctx context.Context, file domain.UploadFile) (string, error)

	// DeleteFile asks the backend to delete a previously uploaded file.
	DeleteFile(ctx context.Context, serverPath string) error

	// BaseURL returns the configured backend address, for user-facing hints.
	BaseURL() string
}
