package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// SessionService is the single entry point for presentation layers.
// It accepts the inbound intents (send, upload, delete, reconnect,
// toggle theme) and exposes read-only snapshots of the session state.
type SessionService interface {
	ConnectivityMonitor
	DocumentSync
	ChatController
	PreferenceService

	// Load reads the persisted DocumentSet and theme and renders them.
	Load(ctx context.Context) error

	// Start loads persisted state and performs an announced probe.
	Start(ctx context.Context) error

	// Reconnect performs an announced probe.
	Reconnect(ctx context.Context) domain.ConnectionState

	// Close tears the session down. Later intents fail with
	// domain.ErrSessionClosed.
	Close() error
}
