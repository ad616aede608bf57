package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// ==================== Upload ====================

func TestUpload_Success(t *testing.T) {
	f := newConnectedFixture(t)
	ctx := context.Background()

	record, err := f.session.Upload(ctx, domain.UploadFile{Name: "a.pdf", Content: readerOf("%PDF")})

	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, domain.DocumentRecord{Name: "a.pdf", ServerPath: "/tmp/a.pdf", UploadedAt: testClock}, *record)

	docs := f.session.Documents()
	require.Len(t, docs, 1)
	assert.Equal(t, *record, docs[0])

	persisted, err := f.docs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, docs, persisted)

	assert.Equal(t, docs, f.presenter.lastDocList())

	msgs := f.session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.OriginUser, msgs[0].Origin)
	assert.Equal(t, "He subido el documento: a.pdf", msgs[0].Text)

	require.Len(t, f.presenter.statuses, 2)
	assert.Equal(t, domain.Uploading, f.presenter.statuses[0].Kind)
	assert.Equal(t, "Subiendo a.pdf...", f.presenter.statuses[0].Text)
	assert.Equal(t, domain.UploadSucceeded, f.presenter.statuses[1].Kind)
	assert.Equal(t, "a.pdf subido correctamente", f.presenter.statuses[1].Text)
}

func TestUpload_SuccessStatusClearsAfterThreeSeconds(t *testing.T) {
	f := newConnectedFixture(t)

	_, err := f.session.Upload(context.Background(), domain.UploadFile{Name: "a.pdf", Content: readerOf("x")})
	require.NoError(t, err)

	timer := f.timers.last(t)
	assert.Equal(t, DefaultSuccessStatusDuration, timer.d)

	timer.fire()
	assert.Equal(t, domain.IdleStatus, f.presenter.lastStatus())
}

func TestUpload_Failure(t *testing.T) {
	f := newConnectedFixture(t, doc("old.pdf"))
	f.backend.uploadFn = func(context.Context, domain.UploadFile) (string, error) {
		return "", &domain.ServerError{Op: "upload", StatusCode: 500}
	}

	record, err := f.session.Upload(context.Background(), domain.UploadFile{Name: "a.pdf", Content: readerOf("x")})

	require.Error(t, err)
	assert.Nil(t, record)
	assert.Equal(t, []string{"/tmp/old.pdf"}, f.session.Documents().Paths())
	assert.Equal(t, 0, f.docs.Saves())
	assert.Empty(t, f.session.Messages(), "upload failures surface only in the status line")
	assert.Equal(t, domain.Connected, f.session.State(), "upload failures do not escalate")

	status := f.presenter.lastStatus()
	assert.Equal(t, domain.UploadFailed, status.Kind)
	assert.Equal(t, "Error al subir a.pdf: Error del servidor: 500", status.Text)

	timer := f.timers.last(t)
	assert.Equal(t, DefaultFailureStatusDuration, timer.d)
	timer.fire()
	assert.Equal(t, domain.IdleStatus, f.presenter.lastStatus())
}

func TestUpload_NotConnected(t *testing.T) {
	f := newFixture(t)

	_, err := f.session.Upload(context.Background(), domain.UploadFile{Name: "a.pdf", Content: readerOf("x")})

	assert.ErrorIs(t, err, domain.ErrNotConnected)
	assert.Empty(t, f.backend.uploadCalls())
	assert.Equal(t, []string{textNotConnected}, messageTexts(f.session.Messages()))
}

func TestUpload_InvalidInput(t *testing.T) {
	f := newConnectedFixture(t)

	_, err := f.session.Upload(context.Background(), domain.UploadFile{Name: "", Content: readerOf("x")})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = f.session.Upload(context.Background(), domain.UploadFile{Name: "a.pdf"})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	assert.Empty(t, f.backend.uploadCalls())
}

func TestUpload_SameNameWhileInFlight(t *testing.T) {
	f := newConnectedFixture(t)
	started := make(chan struct{})
	release := make(chan struct{})
	f.backend.uploadFn = func(_ context.Context, file domain.UploadFile) (string, error) {
		close(started)
		<-release
		return "/tmp/" + file.Name, nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = f.session.Upload(context.Background(), domain.UploadFile{Name: "a.pdf", Content: readerOf("1")})
	}()
	<-started

	_, err := f.session.Upload(context.Background(), domain.UploadFile{Name: "a.pdf", Content: readerOf("2")})
	assert.ErrorIs(t, err, domain.ErrOperationInFlight)

	close(release)
	wg.Wait()

	assert.Len(t, f.backend.uploadCalls(), 1)
	assert.Len(t, f.session.Documents(), 1)
}

func TestUpload_NewerStatusSupersedesPendingClear(t *testing.T) {
	f := newConnectedFixture(t)
	ctx := context.Background()

	_, err := f.session.Upload(ctx, domain.UploadFile{Name: "a.pdf", Content: readerOf("x")})
	require.NoError(t, err)
	first := f.timers.last(t)

	_, err = f.session.Upload(ctx, domain.UploadFile{Name: "b.pdf", Content: readerOf("x")})
	require.NoError(t, err)
	second := f.timers.last(t)

	assert.True(t, first.isStopped())
	assert.NotSame(t, first, second)

	// A stale clear that fires anyway must not hide the newer status.
	first.fireLate()
	assert.Equal(t, "b.pdf subido correctamente", f.presenter.lastStatus().Text)

	second.fire()
	assert.Equal(t, domain.IdleStatus, f.presenter.lastStatus())
}

func TestUpload_PersistFailureKeepsMemoryAuthoritative(t *testing.T) {
	f := newConnectedFixture(t)
	f.docs.SaveErr = errors.New("disk full")

	record, err := f.session.Upload(context.Background(), domain.UploadFile{Name: "a.pdf", Content: readerOf("x")})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist documents")
	require.NotNil(t, record)
	assert.Equal(t, []string{"/tmp/a.pdf"}, f.session.Documents().Paths())

	texts := messageTexts(f.session.Messages())
	assert.Contains(t, texts, "He subido el documento: a.pdf")
	assert.Contains(t, texts, fmt.Sprintf(textPersistFailed, "disk full"))
}

func TestUpload_DuplicateNamesAreDistinctRecords(t *testing.T) {
	f := newConnectedFixture(t)
	n := 0
	f.backend.uploadFn = func(_ context.Context, file domain.UploadFile) (string, error) {
		n++
		return fmt.Sprintf("/tmp/%d/%s", n, file.Name), nil
	}

	for i := 0; i < 2; i++ {
		_, err := f.session.Upload(context.Background(), domain.UploadFile{Name: "a.pdf", Content: readerOf("x")})
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"/tmp/1/a.pdf", "/tmp/2/a.pdf"}, f.session.Documents().Paths())
}

func TestUpload_StoredCopyMatchesAfterEachUpload(t *testing.T) {
	tests := []struct {
		name  string
		files []string
	}{
		{name: "no uploads", files: nil},
		{name: "one upload", files: []string{"a.pdf"}},
		{name: "three uploads", files: []string{"c.pdf", "a.pdf", "b.txt"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newConnectedFixture(t)
			ctx := context.Background()

			for _, name := range tt.files {
				_, err := f.session.Upload(ctx, domain.UploadFile{Name: name, Content: readerOf("x")})
				require.NoError(t, err)
			}

			docs := f.session.Documents()
			require.Len(t, docs, len(tt.files))
			for i, name := range tt.files {
				assert.Equal(t, name, docs[i].Name)
				assert.Equal(t, "/tmp/"+name, docs[i].ServerPath)
			}

			persisted, err := f.docs.Load(ctx)
			require.NoError(t, err)
			assert.Equal(t, docs, persisted)
		})
	}
}

func TestUpload_RecordsTimeInUTC(t *testing.T) {
	local := time.Date(2024, 6, 1, 11, 30, 0, 0, time.FixedZone("CEST", 2*60*60))
	s, err := NewSession(SessionDeps{
		Backend:   &mockBackend{},
		Documents: memory.NewDocumentStore(),
		Presenter: &recordingPresenter{},
		Now:       func() time.Time { return local },
		AfterFunc: (&fakeTimers{}).AfterFunc,
	})
	require.NoError(t, err)
	defer s.Close()
	ctx := context.Background()
	require.Equal(t, domain.Connected, s.Probe(ctx))

	record, err := s.Upload(ctx, domain.UploadFile{Name: "a.pdf", Content: readerOf("x")})

	require.NoError(t, err)
	assert.Equal(t, time.UTC, record.UploadedAt.Location())
	assert.True(t, local.Equal(record.UploadedAt))
	assert.Equal(t, testClock, record.UploadedAt)
}

func TestUploadPaths_ContinuesPastFailures(t *testing.T) {
	f := newConnectedFixture(t)
	dir := t.TempDir()
	good := filepath.Join(dir, "good.pdf")
	require.NoError(t, os.WriteFile(good, []byte("%PDF"), 0600))
	missing := filepath.Join(dir, "missing.pdf")

	err := f.session.UploadPaths(context.Background(), []string{missing, good})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
	assert.Equal(t, []string{"good.pdf"}, f.backend.uploadCalls())
	assert.Equal(t, []string{"/tmp/good.pdf"}, f.session.Documents().Paths())
}

// ==================== Remove ====================

func TestRemove_Success(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"), doc("b.pdf"))
	ctx := context.Background()

	require.NoError(t, f.session.Remove(ctx, 0))

	assert.Equal(t, []string{"/tmp/a.pdf"}, f.backend.deleteCalls())
	assert.Equal(t, []string{"/tmp/b.pdf"}, f.session.Documents().Paths())

	persisted, err := f.docs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"/tmp/b.pdf"}, persisted.Paths())
	assert.Equal(t, []string{"/tmp/b.pdf"}, f.presenter.lastDocList().Paths())

	require.Len(t, f.presenter.rendered, 1)
	assert.Equal(t, "Eliminando documento: a.pdf...", f.presenter.rendered[0].Text)
	require.Len(t, f.presenter.updated, 1)
	assert.Equal(t, f.presenter.rendered[0].ID, f.presenter.updated[0].ID)

	msgs := f.session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.OriginBot, msgs[0].Origin)
	assert.Equal(t, "He eliminado el documento: a.pdf", msgs[0].Text)
}

func TestRemove_ServerDetail(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"))
	f.backend.deleteFn = func(context.Context, string) error {
		return &domain.ServerError{Op: "delete", StatusCode: 500, Detail: "locked"}
	}

	err := f.session.Remove(context.Background(), 0)

	require.Error(t, err)
	assert.Equal(t, []string{"/tmp/a.pdf"}, f.session.Documents().Paths())
	assert.Equal(t, 0, f.docs.Saves())

	msgs := f.session.Messages()
	require.Len(t, msgs, 1, "the placeholder is rewritten, not duplicated")
	assert.Equal(t, domain.OriginError, msgs[0].Origin)
	assert.Contains(t, msgs[0].Text, "locked")
	assert.Equal(t, "Error al eliminar el documento a.pdf: locked", msgs[0].Text)
	assert.Equal(t, domain.Connected, f.session.State())
}

func TestRemove_StatusWithoutDetail(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"))
	f.backend.deleteFn = func(context.Context, string) error {
		return &domain.ServerError{Op: "delete", StatusCode: 404}
	}

	require.Error(t, f.session.Remove(context.Background(), 0))

	assert.Equal(t, "Error al eliminar el documento a.pdf: Error 404 al eliminar el archivo",
		f.session.Messages()[0].Text)
}

func TestRemove_OutOfRangeIsSilent(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"))

	for _, index := range []int{-1, 1, 99} {
		require.NoError(t, f.session.Remove(context.Background(), index))
	}

	assert.Empty(t, f.backend.deleteCalls())
	assert.Empty(t, f.session.Messages())
	assert.Len(t, f.session.Documents(), 1)
}

func TestRemove_NotConnected(t *testing.T) {
	f := newFixture(t, doc("a.pdf"))

	err := f.session.Remove(context.Background(), 0)

	assert.ErrorIs(t, err, domain.ErrNotConnected)
	assert.Empty(t, f.backend.deleteCalls())
	assert.Len(t, f.session.Documents(), 1)
}

func TestRemove_CommitsByIdentityAfterConcurrentRemoval(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"), doc("b.pdf"), doc("c.pdf"))
	ctx := context.Background()

	f.backend.deleteFn = func(_ context.Context, serverPath string) error {
		if serverPath == "/tmp/b.pdf" {
			// a.pdf leaves the list while b.pdf's delete is in flight,
			// shifting b.pdf from index 1 to index 0.
			f.backend.deleteFn = nil
			require.NoError(t, f.session.RemoveByPath(ctx, "/tmp/a.pdf"))
		}
		return nil
	}

	require.NoError(t, f.session.Remove(ctx, 1))

	assert.Equal(t, []string{"/tmp/c.pdf"}, f.session.Documents().Paths())
}

func TestRemove_TargetVanished(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"))
	ctx := context.Background()

	f.backend.deleteFn = func(context.Context, string) error {
		_, err := f.session.commit(ctx, func(domain.DocumentSet) (domain.DocumentSet, error) {
			return domain.DocumentSet{}, nil
		})
		return err
	}

	err := f.session.Remove(ctx, 0)

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	msgs := f.session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.OriginError, msgs[0].Origin)
	assert.Contains(t, msgs[0].Text, textDeleteVanished)
}

func TestRemoveByPath_Unknown(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"))

	err := f.session.RemoveByPath(context.Background(), "/tmp/zzz.pdf")

	assert.ErrorIs(t, err, domain.ErrDocumentNotFound)
	assert.Empty(t, f.backend.deleteCalls())
	msgs := f.session.Messages()
	require.Len(t, msgs, 1)
	assert.Equal(t, domain.OriginError, msgs[0].Origin)
}

func TestRemove_SameDocumentWhileInFlight(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"))
	started := make(chan struct{})
	release := make(chan struct{})
	f.backend.deleteFn = func(context.Context, string) error {
		close(started)
		<-release
		return nil
	}

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = f.session.Remove(context.Background(), 0)
	}()
	<-started

	err := f.session.Remove(context.Background(), 0)
	assert.ErrorIs(t, err, domain.ErrOperationInFlight)

	close(release)
	wg.Wait()

	assert.Len(t, f.backend.deleteCalls(), 1)
	assert.Empty(t, f.session.Documents())
}

func TestChatDuringUploadSeesPreUploadSnapshot(t *testing.T) {
	f := newConnectedFixture(t, doc("a.pdf"))
	ctx := context.Background()

	f.backend.uploadFn = func(_ context.Context, file domain.UploadFile) (string, error) {
		require.NoError(t, f.session.Send(ctx, "¿qué hay?"))
		return "/tmp/" + file.Name, nil
	}

	_, err := f.session.Upload(ctx, domain.UploadFile{Name: "b.pdf", Content: readerOf("x")})
	require.NoError(t, err)

	calls := f.backend.chatCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, []string{"/tmp/a.pdf"}, calls[0].Documents)
	assert.Equal(t, []string{"/tmp/a.pdf", "/tmp/b.pdf"}, f.session.Documents().Paths())
}
