package mcp

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var _ driving.SessionService = (*mockSession)(nil)

// mockSession is a mock implementation of driving.SessionService.
type mockSession struct {
	mu sync.Mutex

	state     domain.ConnectionState
	probeTo   domain.ConnectionState
	probes    int
	documents domain.DocumentSet
	theme     domain.Theme

	reply    string
	err      error
	sent     []string
	uploaded map[string]string
	removed  []string
}

func newMockSession() *mockSession {
	return &mockSession{
		state:    domain.Connected,
		probeTo:  domain.Connected,
		theme:    domain.ThemeLight,
		uploaded: make(map[string]string),
	}
}

func (m *mockSession) Probe(_ context.Context) domain.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.probes++
	m.state = m.probeTo
	return m.state
}

func (m *mockSession) State() domain.ConnectionState {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *mockSession) Upload(_ context.Context, file domain.UploadFile) (*domain.DocumentRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	data, err := io.ReadAll(file.Content)
	if err != nil {
		return nil, err
	}
	m.uploaded[file.Name] = string(data)
	record := domain.DocumentRecord{
		Name:       file.Name,
		ServerPath: "uploaded_documents/" + file.Name,
		UploadedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
	}
	m.documents = append(m.documents, record)
	return &record, nil
}

func (m *mockSession) UploadPaths(_ context.Context, _ []string) error {
	return m.err
}

func (m *mockSession) Remove(ctx context.Context, index int) error {
	m.mu.Lock()
	if !m.documents.InRange(index) {
		m.mu.Unlock()
		return nil
	}
	path := m.documents[index].ServerPath
	m.mu.Unlock()
	return m.RemoveByPath(ctx, path)
}

func (m *mockSession) RemoveByPath(_ context.Context, serverPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	index := m.documents.IndexOf(serverPath)
	if index < 0 {
		return domain.ErrDocumentNotFound
	}
	m.removed = append(m.removed, serverPath)
	m.documents = m.documents.Without(index)
	return nil
}

func (m *mockSession) Documents() domain.DocumentSet {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.documents.Clone()
}

func (m *mockSession) Send(ctx context.Context, text string) error {
	_, err := m.SendToServer(ctx, text)
	return err
}

func (m *mockSession) SendToServer(_ context.Context, text string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, text)
	return m.reply, m.err
}

func (m *mockSession) Messages() []domain.ChatMessage { return nil }

func (m *mockSession) Theme() domain.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.theme
}

func (m *mockSession) ToggleTheme(_ context.Context) (domain.Theme, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.theme.IsDark() {
		m.theme = domain.ThemeLight
	} else {
		m.theme = domain.ThemeDark
	}
	return m.theme, nil
}

func (m *mockSession) Load(_ context.Context) error  { return nil }
func (m *mockSession) Start(_ context.Context) error { return nil }

func (m *mockSession) Reconnect(ctx context.Context) domain.ConnectionState {
	return m.Probe(ctx)
}

func (m *mockSession) Close() error { return nil }

func sampleDocuments() domain.DocumentSet {
	at := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	return domain.DocumentSet{
		{Name: "a.pdf", ServerPath: "uploaded_documents/a.pdf", UploadedAt: at},
		{Name: "b.pdf", ServerPath: "uploaded_documents/b.pdf", UploadedAt: at.Add(time.Minute)},
	}
}
