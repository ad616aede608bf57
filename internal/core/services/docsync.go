package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure DocumentSync implements the interface.
var _ driving.DocumentSync = (*DocumentSync)(nil)

// DocumentSync orchestrates uploads and deletes against the backend and
// keeps the DocumentSet consistent with confirmed server state.
//
// Local state changes only after the backend confirms an operation.
// Deletes target a document by its server path, captured when the intent
// arrives and resolved to a position only at commit time.
type DocumentSync struct {
	session *Session
}

// Upload sends one file and, once the backend confirms it, appends the
// record, persists the set and announces the upload.
func (d *DocumentSync) Upload(ctx context.Context, file domain.UploadFile) (*domain.DocumentRecord, error) {
	s := d.session
	if err := s.checkOpen(); err != nil {
		return nil, err
	}
	if file.Name == "" || file.Content == nil {
		return nil, fmt.Errorf("%w: upload needs a file name and content", domain.ErrInvalidInput)
	}

	if !s.isConnected() {
		s.say(domain.OriginError, textNotConnected)
		return nil, domain.ErrNotConnected
	}

	key := "upload:" + file.Name
	if !s.begin(key) {
		s.showStatus(failedStatus(file.Name, fmt.Sprintf(textUploadBusy, file.Name)), s.failureStatus)
		return nil, fmt.Errorf("upload %s: %w", file.Name, domain.ErrOperationInFlight)
	}
	defer s.end(key)

	s.showStatus(domain.UploadStatus{
		FileName: file.Name,
		Text:     fmt.Sprintf(textUploading, file.Name),
		Kind:     domain.Uploading,
	}, 0)

	logger.Debug("uploading %s", file.Name)
	serverPath, err := s.backend.Upload(ctx, file)
	if err != nil {
		logger.Warn("upload %s failed: %v", file.Name, err)
		text := fmt.Sprintf(textUploadFailed, file.Name, errorDetail(err))
		s.showStatus(failedStatus(file.Name, text), s.failureStatus)
		return nil, fmt.Errorf("upload %s: %w", file.Name, err)
	}

	record := domain.DocumentRecord{
		Name:       file.Name,
		ServerPath: serverPath,
		UploadedAt: s.now().UTC(),
	}

	docs, persistErr := s.commit(ctx, func(current domain.DocumentSet) (domain.DocumentSet, error) {
		next := current.Clone()
		return append(next, record), nil
	})

	s.presenter.RenderDocumentList(docs)
	s.showStatus(domain.UploadStatus{
		FileName: file.Name,
		Text:     fmt.Sprintf(textUploadOK, file.Name),
		Kind:     domain.UploadSucceeded,
	}, s.successStatus)
	s.say(domain.OriginUser, fmt.Sprintf(textUploaded, file.Name))

	if persistErr != nil {
		s.reportPersistFailure(persistErr)
		return &record, persistErr
	}
	return &record, nil
}

// UploadPaths uploads local files one after another. A failure does not
// cancel the remaining files.
func (d *DocumentSync) UploadPaths(ctx context.Context, paths []string) error {
	var errs []error
	for _, path := range paths {
		if err := d.uploadPath(ctx, path); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// uploadPath opens a local file and uploads it under its base name.
func (d *DocumentSync) uploadPath(ctx context.Context, path string) error {
	s := d.session
	name := filepath.Base(path)

	f, err := os.Open(path)
	if err != nil {
		text := fmt.Sprintf(textUploadFailed, name, err.Error())
		s.showStatus(failedStatus(name, text), s.failureStatus)
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	_, err = d.Upload(ctx, domain.UploadFile{Name: name, Content: f})
	return err
}

// Remove deletes the document at index. An index outside the DocumentSet
// is a silent no-op: no network call and no message.
func (d *DocumentSync) Remove(ctx context.Context, index int) error {
	s := d.session
	if err := s.checkOpen(); err != nil {
		return err
	}

	s.mu.Lock()
	if !s.documents.InRange(index) {
		size := len(s.documents)
		s.mu.Unlock()
		logger.Debug("remove index %d ignored, %d documents", index, size)
		return nil
	}
	target := s.documents[index]
	s.mu.Unlock()

	return d.remove(ctx, target)
}

// RemoveByPath deletes the document identified by serverPath.
func (d *DocumentSync) RemoveByPath(ctx context.Context, serverPath string) error {
	s := d.session
	if err := s.checkOpen(); err != nil {
		return err
	}

	s.mu.Lock()
	index := s.documents.IndexOf(serverPath)
	var target domain.DocumentRecord
	if index >= 0 {
		target = s.documents[index]
	}
	s.mu.Unlock()

	if index < 0 {
		s.say(domain.OriginError, fmt.Sprintf(textDeleteFailed, serverPath, textDocumentNotFound))
		return fmt.Errorf("delete %s: %w", serverPath, domain.ErrDocumentNotFound)
	}
	return d.remove(ctx, target)
}

// remove deletes target on the backend and commits by identity.
func (d *DocumentSync) remove(ctx context.Context, target domain.DocumentRecord) error {
	s := d.session

	if !s.isConnected() {
		s.say(domain.OriginError, textNotConnected)
		return domain.ErrNotConnected
	}

	key := "delete:" + target.ServerPath
	if !s.begin(key) {
		s.say(domain.OriginError, fmt.Sprintf(textDeleteBusy, target.Name))
		return fmt.Errorf("delete %s: %w", target.Name, domain.ErrOperationInFlight)
	}
	defer s.end(key)

	placeholder := s.say(domain.OriginBot, fmt.Sprintf(textDeleting, target.Name))

	logger.Debug("deleting %s (%s)", target.Name, target.ServerPath)
	if err := s.backend.DeleteFile(ctx, target.ServerPath); err != nil {
		logger.Warn("delete %s failed: %v", target.Name, err)
		s.rewrite(placeholder.ID, domain.OriginError,
			fmt.Sprintf(textDeleteFailed, target.Name, deleteFailureDetail(err)))
		return fmt.Errorf("delete %s: %w", target.Name, err)
	}

	docs, err := s.commit(ctx, func(current domain.DocumentSet) (domain.DocumentSet, error) {
		index := current.IndexOf(target.ServerPath)
		if index < 0 {
			return nil, domain.ErrDocumentNotFound
		}
		return current.Without(index), nil
	})
	if errors.Is(err, domain.ErrDocumentNotFound) {
		s.rewrite(placeholder.ID, domain.OriginError,
			fmt.Sprintf(textDeleteFailed, target.Name, textDeleteVanished))
		return fmt.Errorf("delete %s: %w", target.Name, err)
	}

	s.presenter.RenderDocumentList(docs)
	s.rewrite(placeholder.ID, domain.OriginBot, fmt.Sprintf(textDeleted, target.Name))

	if err != nil {
		s.reportPersistFailure(err)
		return err
	}
	return nil
}

// Documents returns a snapshot of the DocumentSet.
func (d *DocumentSync) Documents() domain.DocumentSet {
	return d.session.Documents()
}

// deleteFailureDetail prefers the server detail and falls back to the
// status code when the server sent none.
func deleteFailureDetail(err error) string {
	if se, ok := domain.AsServerError(err); ok && se.Detail == "" {
		return fmt.Sprintf(textDeleteStatus, se.StatusCode)
	}
	return errorDetail(err)
}

// failedStatus builds an UploadFailed status line.
func failedStatus(name, text string) domain.UploadStatus {
	return domain.UploadStatus{
		FileName: name,
		Text:     text,
		Kind:     domain.UploadFailed,
	}
}
