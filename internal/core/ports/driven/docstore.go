package driven

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentStore is the durable mirror of the DocumentSet.
// The set is read and written wholesale; there are no partial updates.
type DocumentStore interface {
	// Load returns the persisted set, or an empty set if none was saved.
	Load(ctx context.Context) (domain.DocumentSet, error)

	// Save replaces the persisted set with docs, preserving order.
	Save(ctx context.Context, docs domain.DocumentSet) error
}
