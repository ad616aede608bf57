package tui

import (
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// Ensure ProgramPresenter implements the interface.
var _ driven.Presenter = (*ProgramPresenter)(nil)

// Sender delivers messages into a running Bubbletea program.
// *tea.Program satisfies it.
type Sender interface {
	Send(msg tea.Msg)
}

// ProgramPresenter turns session notifications into program messages.
// Notifications raised before a program is attached are queued and
// delivered, in order, on Attach.
type ProgramPresenter struct {
	// deliver serialises delivery so a notification raised while Attach
	// is flushing the queue cannot overtake the queued ones.
	deliver sync.Mutex

	mu       sync.Mutex
	sender   Sender
	pending  []tea.Msg
	detached bool
}

// NewProgramPresenter creates a presenter with no program attached.
func NewProgramPresenter() *ProgramPresenter {
	return &ProgramPresenter{}
}

// Attach starts forwarding to s and flushes queued notifications.
func (p *ProgramPresenter) Attach(s Sender) {
	p.deliver.Lock()
	defer p.deliver.Unlock()

	p.mu.Lock()
	p.sender = s
	p.detached = false
	pending := p.pending
	p.pending = nil
	p.mu.Unlock()

	for _, msg := range pending {
		s.Send(msg)
	}
}

// Detach stops forwarding. Later notifications are dropped.
func (p *ProgramPresenter) Detach() {
	p.mu.Lock()
	p.sender = nil
	p.pending = nil
	p.detached = true
	p.mu.Unlock()
}

func (p *ProgramPresenter) send(msg tea.Msg) {
	p.deliver.Lock()
	defer p.deliver.Unlock()

	p.mu.Lock()
	s := p.sender
	if p.detached {
		p.mu.Unlock()
		return
	}
	if s == nil {
		p.pending = append(p.pending, msg)
		p.mu.Unlock()
		return
	}
	p.mu.Unlock()

	s.Send(msg)
}

// RenderMessage implements driven.Presenter.
func (p *ProgramPresenter) RenderMessage(msg domain.ChatMessage) {
	p.send(messages.MessageRendered{Message: msg})
}

// UpdateMessage implements driven.Presenter.
func (p *ProgramPresenter) UpdateMessage(msg domain.ChatMessage) {
	p.send(messages.MessageUpdated{Message: msg})
}

// RenderDocumentList implements driven.Presenter.
func (p *ProgramPresenter) RenderDocumentList(docs domain.DocumentSet) {
	p.send(messages.DocumentsRendered{Documents: docs.Clone()})
}

// SetConnected implements driven.Presenter.
func (p *ProgramPresenter) SetConnected(connected bool) {
	p.send(messages.ConnectionChanged{Connected: connected})
}

// SetUploadStatus implements driven.Presenter.
func (p *ProgramPresenter) SetUploadStatus(status domain.UploadStatus) {
	p.send(messages.UploadStatusChanged{Status: status})
}

// SetTyping implements driven.Presenter.
func (p *ProgramPresenter) SetTyping(typing bool) {
	p.send(messages.TypingChanged{Typing: typing})
}

// SetTheme implements driven.Presenter.
func (p *ProgramPresenter) SetTheme(theme domain.Theme) {
	p.send(messages.ThemeChanged{Theme: theme})
}

// ClearInput implements driven.Presenter.
func (p *ProgramPresenter) ClearInput() {
	p.send(messages.InputCleared{})
}
