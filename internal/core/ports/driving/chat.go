package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ChatController sequences chat turns against the connection and
// document state.
type ChatController interface {
	// Send records the user's text and sends it. Blank text is a no-op.
	Send(ctx context.Context, text string) error

	// SendToServer sends text without recording a user message and returns
	// the bot reply. An empty reply with a nil error means the backend
	// answered without a reply field.
	SendToServer(ctx context.Context, text string) (string, error)

	// Messages returns a snapshot of the transcript.
	Messages() []domain.ChatMessage
}
