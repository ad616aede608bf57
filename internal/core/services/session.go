package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Session implements the interface.
var _ driving.SessionService = (*Session)(nil)

// Default display intervals of the upload status line.
const (
	DefaultSuccessStatusDuration = 3 * time.Second
	DefaultFailureStatusDuration = 5 * time.Second
)

// chatKey is the in-flight key of the single outstanding chat turn.
const chatKey = "chat"

// Timer is a pending delayed call that can be cancelled.
type Timer interface {
	Stop() bool
}

// SessionDeps holds the collaborators of a Session.
type SessionDeps struct {
	// Backend is the remote chat backend. Required.
	Backend driven.Backend

	// Documents is the durable DocumentSet mirror. Required.
	Documents driven.DocumentStore

	// Preferences persists the theme. Optional; without it the theme
	// lives only as long as the session.
	Preferences driven.PreferenceStore

	// Presenter receives all notifications. Required.
	Presenter driven.Presenter

	// SuccessStatusDuration is how long a success status stays visible.
	SuccessStatusDuration time.Duration

	// FailureStatusDuration is how long a failure status stays visible.
	FailureStatusDuration time.Duration

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time

	// AfterFunc schedules f after d. Defaults to time.AfterFunc.
	AfterFunc func(d time.Duration, f func()) Timer

	// NewID returns a fresh message ID. Defaults to uuid.NewString.
	NewID func() string
}

// Session is the single owner of the client state. It is constructed at
// session start and torn down with Close.
type Session struct {
	backend   driven.Backend
	docStore  driven.DocumentStore
	prefs     driven.PreferenceStore
	presenter driven.Presenter

	successStatus time.Duration
	failureStatus time.Duration
	now           func() time.Time
	afterFunc     func(d time.Duration, f func()) Timer

	log *messageLog

	mu          sync.Mutex
	state       domain.ConnectionState
	documents   domain.DocumentSet
	theme       domain.Theme
	inflight    map[string]struct{}
	statusGen   uint64
	statusTimer Timer
	closed      bool

	connectivity *ConnectivityMonitor
	sync         *DocumentSync
	chat         *ChatController
	preferences  *PreferenceService
}

// NewSession creates a session in the Disconnected state with an empty
// DocumentSet. Call Load or Start to restore persisted state.
func NewSession(deps SessionDeps) (*Session, error) {
	if deps.Backend == nil {
		return nil, ErrMissingBackend
	}
	if deps.Documents == nil {
		return nil, ErrMissingDocumentStore
	}
	if deps.Presenter == nil {
		return nil, ErrMissingPresenter
	}
	if deps.SuccessStatusDuration <= 0 {
		deps.SuccessStatusDuration = DefaultSuccessStatusDuration
	}
	if deps.FailureStatusDuration <= 0 {
		deps.FailureStatusDuration = DefaultFailureStatusDuration
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.AfterFunc == nil {
		deps.AfterFunc = func(d time.Duration, f func()) Timer {
			return time.AfterFunc(d, f)
		}
	}
	if deps.NewID == nil {
		deps.NewID = uuid.NewString
	}

	s := &Session{
		backend:       deps.Backend,
		docStore:      deps.Documents,
		prefs:         deps.Preferences,
		presenter:     deps.Presenter,
		successStatus: deps.SuccessStatusDuration,
		failureStatus: deps.FailureStatusDuration,
		now:           deps.Now,
		afterFunc:     deps.AfterFunc,
		log:           newMessageLog(deps.Now, deps.NewID),
		state:         domain.Disconnected,
		documents:     domain.DocumentSet{},
		theme:         domain.ThemeLight,
		inflight:      make(map[string]struct{}),
	}
	s.connectivity = &ConnectivityMonitor{session: s}
	s.sync = &DocumentSync{session: s}
	s.chat = &ChatController{session: s}
	s.preferences = &PreferenceService{session: s}

	return s, nil
}

// Connectivity returns the connectivity monitor view of the session.
func (s *Session) Connectivity() *ConnectivityMonitor { return s.connectivity }

// Sync returns the document sync view of the session.
func (s *Session) Sync() *DocumentSync { return s.sync }

// Chat returns the chat controller view of the session.
func (s *Session) Chat() *ChatController { return s.chat }

// Preferences returns the preference view of the session.
func (s *Session) Preferences() *PreferenceService { return s.preferences }

// Load reads the persisted DocumentSet and theme once and renders them.
// A failing preference store only costs the theme; a failing document
// store fails the load.
func (s *Session) Load(ctx context.Context) error {
	if err := s.checkOpen(); err != nil {
		return err
	}

	docs, err := s.docStore.Load(ctx)
	if err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	if docs == nil {
		docs = domain.DocumentSet{}
	}

	theme := domain.ThemeLight
	if s.prefs != nil {
		stored, err := s.prefs.Theme(ctx)
		switch {
		case err != nil:
			logger.Warn("load theme preference: %v", err)
		case stored.IsValid():
			theme = stored
		}
	}

	s.mu.Lock()
	s.documents = docs
	s.theme = theme
	s.mu.Unlock()

	logger.Debug("session loaded %d documents, theme %s", len(docs), theme)
	s.presenter.RenderDocumentList(docs.Clone())
	s.presenter.SetTheme(theme)
	return nil
}

// Start loads persisted state and performs an announced probe.
func (s *Session) Start(ctx context.Context) error {
	if err := s.Load(ctx); err != nil {
		return err
	}
	s.Reconnect(ctx)
	return nil
}

// Reconnect performs an announced probe.
func (s *Session) Reconnect(ctx context.Context) domain.ConnectionState {
	return s.connectivity.announcedProbe(ctx)
}

// Close tears the session down and cancels the pending status clear.
func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	if s.statusTimer != nil {
		s.statusTimer.Stop()
		s.statusTimer = nil
	}
	logger.Debug("session closed")
	return nil
}

// Probe delegates to the connectivity monitor.
func (s *Session) Probe(ctx context.Context) domain.ConnectionState {
	return s.connectivity.Probe(ctx)
}

// State returns the current connection state.
func (s *Session) State() domain.ConnectionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Upload delegates to the document sync engine.
func (s *Session) Upload(ctx context.Context, file domain.UploadFile) (*domain.DocumentRecord, error) {
	return s.sync.Upload(ctx, file)
}

// UploadPaths delegates to the document sync engine.
func (s *Session) UploadPaths(ctx context.Context, paths []string) error {
	return s.sync.UploadPaths(ctx, paths)
}

// Remove delegates to the document sync engine.
func (s *Session) Remove(ctx context.Context, index int) error {
	return s.sync.Remove(ctx, index)
}

// RemoveByPath delegates to the document sync engine.
func (s *Session) RemoveByPath(ctx context.Context, serverPath string) error {
	return s.sync.RemoveByPath(ctx, serverPath)
}

// Documents returns a snapshot of the DocumentSet.
func (s *Session) Documents() domain.DocumentSet {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.documents.Clone()
}

// Send delegates to the chat controller.
func (s *Session) Send(ctx context.Context, text string) error {
	return s.chat.Send(ctx, text)
}

// SendToServer delegates to the chat controller.
func (s *Session) SendToServer(ctx context.Context, text string) (string, error) {
	return s.chat.SendToServer(ctx, text)
}

// Messages returns a snapshot of the transcript.
func (s *Session) Messages() []domain.ChatMessage {
	return s.log.snapshot()
}

// Theme returns the active theme.
func (s *Session) Theme() domain.Theme {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.theme
}

// ToggleTheme delegates to the preference service.
func (s *Session) ToggleTheme(ctx context.Context) (domain.Theme, error) {
	return s.preferences.ToggleTheme(ctx)
}

// checkOpen returns ErrSessionClosed after Close.
func (s *Session) checkOpen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return domain.ErrSessionClosed
	}
	return nil
}

// isConnected reports the current state.
func (s *Session) isConnected() bool {
	return s.State().IsConnected()
}

// setState records the connection state and toggles the dependent
// affordances.
func (s *Session) setState(state domain.ConnectionState) {
	s.mu.Lock()
	previous := s.state
	s.state = state
	s.mu.Unlock()

	if previous != state {
		logger.Debug("connection state %s -> %s", previous, state)
	}
	s.presenter.SetConnected(state.IsConnected())
}

// begin marks key as in flight. It returns false if key already is.
func (s *Session) begin(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, busy := s.inflight[key]; busy {
		return false
	}
	s.inflight[key] = struct{}{}
	return true
}

// end clears an in-flight key.
func (s *Session) end(key string) {
	s.mu.Lock()
	delete(s.inflight, key)
	s.mu.Unlock()
}

// busy reports whether key is in flight.
func (s *Session) busy(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[key]
	return ok
}

// say appends a message and renders it.
func (s *Session) say(origin domain.Origin, text string) domain.ChatMessage {
	msg := s.log.append(origin, text)
	s.presenter.RenderMessage(msg)
	return msg
}

// rewrite mutates a rendered message in place.
func (s *Session) rewrite(id string, origin domain.Origin, text string) {
	msg, ok := s.log.update(id, origin, text)
	if !ok {
		logger.Warn("rewrite of unknown message %s", id)
		return
	}
	s.presenter.UpdateMessage(msg)
}

// showStatus shows an upload status line. A positive clearAfter schedules
// it to disappear, unless a newer status replaces it first.
func (s *Session) showStatus(status domain.UploadStatus, clearAfter time.Duration) {
	s.mu.Lock()
	s.statusGen++
	gen := s.statusGen
	if s.statusTimer != nil {
		s.statusTimer.Stop()
		s.statusTimer = nil
	}
	s.mu.Unlock()

	s.presenter.SetUploadStatus(status)

	if clearAfter <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || gen != s.statusGen {
		return
	}
	s.statusTimer = s.afterFunc(clearAfter, func() { s.clearStatus(gen) })
}

// clearStatus hides the status line if it is still generation gen.
func (s *Session) clearStatus(gen uint64) {
	s.mu.Lock()
	if s.closed || gen != s.statusGen {
		s.mu.Unlock()
		return
	}
	s.statusTimer = nil
	s.mu.Unlock()

	s.presenter.SetUploadStatus(domain.IdleStatus)
}

// commit applies mutate to the DocumentSet and mirrors the result to
// durable storage in one step. If mutate fails nothing changes. If the
// durable write fails the in-memory set stays authoritative and the
// returned error wraps the storage failure.
func (s *Session) commit(
	ctx context.Context,
	mutate func(current domain.DocumentSet) (domain.DocumentSet, error),
) (domain.DocumentSet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next, err := mutate(s.documents)
	if err != nil {
		return s.documents.Clone(), err
	}
	s.documents = next

	if err := s.docStore.Save(ctx, next); err != nil {
		logger.Warn("persist %d documents: %v", len(next), err)
		return next.Clone(), fmt.Errorf("persist documents: %w", err)
	}
	logger.Debug("persisted %d documents", len(next))
	return next.Clone(), nil
}

// reportPersistFailure surfaces a failed durable write.
func (s *Session) reportPersistFailure(err error) {
	s.say(domain.OriginError, fmt.Sprintf(textPersistFailed, errorDetail(errors.Unwrap(err))))
}

// errorDetail returns the user-facing detail of a backend failure.
func errorDetail(err error) string {
	if err == nil {
		return ""
	}
	if se, ok := domain.AsServerError(err); ok {
		return se.Error()
	}
	var te *domain.TransportError
	if errors.As(err, &te) && te.Err != nil {
		return te.Err.Error()
	}
	return err.Error()
}
