package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// testBaseURL is reported by mockBackend.BaseURL.
const testBaseURL = "http://127.0.0.1:8000"

// mockBackend implements driven.Backend for testing.
type mockBackend struct {
	mu sync.Mutex

	healthFn func(ctx context.Context) error
	chatFn   func(ctx context.Context, req driven.ChatRequest) (driven.ChatResponse, error)
	uploadFn func(ctx context.Context, file domain.UploadFile) (string, error)
	deleteFn func(ctx context.Context, serverPath string) error

	healthCalls  int
	chatRequests []driven.ChatRequest
	uploaded     []string
	deleted      []string
}

func (m *mockBackend) Health(ctx context.Context) error {
	m.mu.Lock()
	m.healthCalls++
	fn := m.healthFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx)
	}
	return nil
}

func (m *mockBackend) Chat(ctx context.Context, req driven.ChatRequest) (driven.ChatResponse, error) {
	m.mu.Lock()
	m.chatRequests = append(m.chatRequests, req)
	fn := m.chatFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, req)
	}
	return driven.ChatResponse{Reply: "ok"}, nil
}

func (m *mockBackend) Upload(ctx context.Context, file domain.UploadFile) (string, error) {
	m.mu.Lock()
	m.uploaded = append(m.uploaded, file.Name)
	fn := m.uploadFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, file)
	}
	return "/tmp/" + file.Name, nil
}

func (m *mockBackend) DeleteFile(ctx context.Context, serverPath string) error {
	m.mu.Lock()
	m.deleted = append(m.deleted, serverPath)
	fn := m.deleteFn
	m.mu.Unlock()
	if fn != nil {
		return fn(ctx, serverPath)
	}
	return nil
}

func (m *mockBackend) BaseURL() string { return testBaseURL }

func (m *mockBackend) chatCalls() []driven.ChatRequest {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]driven.ChatRequest(nil), m.chatRequests...)
}

func (m *mockBackend) deleteCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.deleted...)
}

func (m *mockBackend) uploadCalls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.uploaded...)
}

// recordingPresenter implements driven.Presenter and records every call.
type recordingPresenter struct {
	mu sync.Mutex

	rendered  []domain.ChatMessage
	updated   []domain.ChatMessage
	docLists  []domain.DocumentSet
	connected []bool
	statuses  []domain.UploadStatus
	typing    []bool
	themes    []domain.Theme
	clears    int
}

func (p *recordingPresenter) RenderMessage(msg domain.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.rendered = append(p.rendered, msg)
}

func (p *recordingPresenter) UpdateMessage(msg domain.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.updated = append(p.updated, msg)
}

func (p *recordingPresenter) RenderDocumentList(docs domain.DocumentSet) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.docLists = append(p.docLists, docs)
}

func (p *recordingPresenter) SetConnected(connected bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.connected = append(p.connected, connected)
}

func (p *recordingPresenter) SetUploadStatus(status domain.UploadStatus) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.statuses = append(p.statuses, status)
}

func (p *recordingPresenter) SetTyping(typing bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.typing = append(p.typing, typing)
}

func (p *recordingPresenter) SetTheme(theme domain.Theme) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.themes = append(p.themes, theme)
}

func (p *recordingPresenter) ClearInput() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.clears++
}

func (p *recordingPresenter) lastConnected() (bool, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.connected) == 0 {
		return false, false
	}
	return p.connected[len(p.connected)-1], true
}

func (p *recordingPresenter) lastStatus() domain.UploadStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.statuses) == 0 {
		return domain.IdleStatus
	}
	return p.statuses[len(p.statuses)-1]
}

func (p *recordingPresenter) lastDocList() domain.DocumentSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.docLists) == 0 {
		return nil
	}
	return p.docLists[len(p.docLists)-1]
}

// fakeTimers replaces time.AfterFunc with manually fired timers.
type fakeTimers struct {
	mu      sync.Mutex
	pending []*fakeTimer
}

type fakeTimer struct {
	mu      sync.Mutex
	d       time.Duration
	f       func()
	stopped bool
}

func (t *fakeTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	was := !t.stopped
	t.stopped = true
	return was
}

func (t *fakeTimer) isStopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// fire runs the callback unless the timer was stopped.
func (t *fakeTimer) fire() {
	if !t.isStopped() {
		t.f()
	}
}

// fireLate runs the callback even if Stop lost the race against it.
func (t *fakeTimer) fireLate() {
	t.f()
}

func (ft *fakeTimers) AfterFunc(d time.Duration, f func()) Timer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	t := &fakeTimer{d: d, f: f}
	ft.pending = append(ft.pending, t)
	return t
}

func (ft *fakeTimers) all() []*fakeTimer {
	ft.mu.Lock()
	defer ft.mu.Unlock()
	return append([]*fakeTimer(nil), ft.pending...)
}

func (ft *fakeTimers) last(t *testing.T) *fakeTimer {
	t.Helper()
	all := ft.all()
	require.NotEmpty(t, all, "no timer scheduled")
	return all[len(all)-1]
}

// testClock is a fixed clock.
var testClock = time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC)

// sessionFixture bundles a session with its test doubles.
type sessionFixture struct {
	session   *Session
	backend   *mockBackend
	presenter *recordingPresenter
	docs      *memory.DocumentStore
	prefs     *memory.PreferenceStore
	timers    *fakeTimers
}

func newFixture(t *testing.T, initial ...domain.DocumentRecord) *sessionFixture {
	t.Helper()

	f := &sessionFixture{
		backend:   &mockBackend{},
		presenter: &recordingPresenter{},
		docs:      memory.NewDocumentStore(initial...),
		prefs:     memory.NewPreferenceStore(),
		timers:    &fakeTimers{},
	}

	var (
		idMu sync.Mutex
		ids  int
	)
	s, err := NewSession(SessionDeps{
		Backend:     f.backend,
		Documents:   f.docs,
		Preferences: f.prefs,
		Presenter:   f.presenter,
		Now:         func() time.Time { return testClock },
		AfterFunc:   f.timers.AfterFunc,
		NewID: func() string {
			idMu.Lock()
			defer idMu.Unlock()
			ids++
			return fmt.Sprintf("m%d", ids)
		},
	})
	require.NoError(t, err)
	f.session = s

	require.NoError(t, s.Load(context.Background()))
	return f
}

// newConnectedFixture returns a loaded fixture that has probed successfully.
func newConnectedFixture(t *testing.T, initial ...domain.DocumentRecord) *sessionFixture {
	t.Helper()
	f := newFixture(t, initial...)
	require.Equal(t, domain.Connected, f.session.Probe(context.Background()))
	return f
}

func doc(name string) domain.DocumentRecord {
	return domain.DocumentRecord{
		Name:       name,
		ServerPath: "/tmp/" + name,
		UploadedAt: testClock.Add(-time.Hour),
	}
}

// failingDocStore fails every call.
type failingDocStore struct {
	err error
}

func (s failingDocStore) Load(context.Context) (domain.DocumentSet, error) { return nil, s.err }
func (s failingDocStore) Save(context.Context, domain.DocumentSet) error   { return s.err }

// failingPrefStore fails every call.
type failingPrefStore struct {
	err error
}

func (s failingPrefStore) Theme(context.Context) (domain.Theme, error) {
	return domain.ThemeLight, s.err
}
func (s failingPrefStore) SetTheme(context.Context, domain.Theme) error { return s.err }

func readerOf(content string) io.Reader {
	return strings.NewReader(content)
}
