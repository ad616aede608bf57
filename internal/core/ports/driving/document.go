package driving

import (
	"context"

	"github.com/custodia-labs/docchat/internal/core/domain"
)

// DocumentSync keeps the DocumentSet consistent with the backend.
// No local change is committed before the backend confirms it.
type DocumentSync interface {
	// Upload sends one file and appends the confirmed record.
	Upload(ctx context.Context, file domain.UploadFile) (*domain.DocumentRecord, error)

	// UploadPaths uploads local files one after another. A failure does not
	// cancel the remaining files; all failures are joined into the result.
	UploadPaths(ctx context.Context, paths []string) error

	// Remove deletes the document at index. An out-of-range index is a
	// silent no-op that returns nil.
	Remove(ctx context.Context, index int) error

	// RemoveByPath deletes the document identified by its server path.
	RemoveByPath(ctx context.Context, serverPath string) error

	// Documents returns a snapshot of the DocumentSet.
	Documents() domain.DocumentSet
}
