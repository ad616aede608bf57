package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ConnectivityMonitor tracks whether the backend is reachable.
type ConnectivityMonitor interface {
	// Probe performs one health check and updates the connection state.
	Probe(ctx context.Context) domain.ConnectionState

	// State returns the current connection state without probing.
	State() domain.ConnectionState
}
