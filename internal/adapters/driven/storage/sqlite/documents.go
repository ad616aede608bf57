package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// documentStore implements driven.DocumentStore.
type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

// Load returns the persisted set in upload order.
func (s *documentStore) Load(ctx context.Context) (domain.DocumentSet, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT name, server_path, uploaded_at
		FROM documents ORDER BY position
	`)
	if err != nil {
		return nil, fmt.Errorf("querying documents: %w", err)
	}
	defer rows.Close()

	docs := domain.DocumentSet{}
	for rows.Next() {
		var (
			record     domain.DocumentRecord
			uploadedAt string
		)
		if err := rows.Scan(&record.Name, &record.ServerPath, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scanning document: %w", err)
		}
		record.UploadedAt, err = time.Parse(time.RFC3339Nano, uploadedAt)
		if err != nil {
			return nil, fmt.Errorf("parsing uploaded_at for %s: %w", record.Name, err)
		}
		docs = append(docs, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating documents: %w", err)
	}
	return docs, nil
}

// Save replaces the persisted set in a single transaction.
func (s *documentStore) Save(ctx context.Context, docs domain.DocumentSet) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, `DELETE FROM documents`); err != nil {
		return fmt.Errorf("clearing documents: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (position, name, server_path, uploaded_at)
		VALUES (?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for i, record := range docs {
		if _, err := stmt.ExecContext(ctx, i, record.Name, record.ServerPath,
			record.UploadedAt.UTC().Format(time.RFC3339Nano)); err != nil {
			return fmt.Errorf("saving document %s: %w", record.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}
