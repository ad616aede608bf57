// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// Status texts shown on the left of the bar.
const (
	ConnectedText    = "Conectado"
	DisconnectedText = "Desconectado"
	TypingText       = "Escribiendo..."
)

// Bar displays connection state, the upload status line, the typing
// indicator and keybinding hints.
type Bar struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	spinner   spinner.Model
	connected bool
	typing    bool
	upload    domain.UploadStatus
	focus     messages.Focus
	width     int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &Bar{
		styles:  s,
		keymap:  km,
		spinner: sp,
		upload:  domain.IdleStatus,
		focus:   messages.FocusInput,
		width:   80,
	}
}

// Init initialises the status bar.
func (s *Bar) Init() tea.Cmd {
	return nil
}

// Update advances the spinner while the typing indicator is visible.
func (s *Bar) Update(msg tea.Msg) (*Bar, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok && s.typing {
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}
	return s, nil
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	leftLen := lipgloss.Width(left)
	rightLen := lipgloss.Width(right)
	padding := s.width - leftLen - rightLen
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders connection, typing and upload status.
func (s *Bar) renderLeft() string {
	parts := make([]string, 0, 3)

	if s.connected {
		parts = append(parts, s.styles.Success.Render("● "+ConnectedText))
	} else {
		parts = append(parts, s.styles.Error.Render("● "+DisconnectedText))
	}

	if s.typing {
		parts = append(parts, s.spinner.View()+s.styles.Muted.Render(TypingText))
	}

	switch s.upload.Kind {
	case domain.Uploading:
		parts = append(parts, s.styles.Warning.Render(s.upload.Text))
	case domain.UploadSucceeded:
		parts = append(parts, s.styles.Success.Render(s.upload.Text))
	case domain.UploadFailed:
		parts = append(parts, s.styles.Error.Render(s.upload.Text))
	case domain.UploadIdle:
	}

	return strings.Join(parts, "  ")
}

// renderRight renders keybinding hints for the focused component.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	switch s.focus {
	case messages.FocusDocuments:
		bindings = s.keymap.DocumentsHelp()
	case messages.FocusUpload:
		bindings = s.keymap.UploadHelp()
	case messages.FocusInput:
		bindings = s.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Muted.Render(strings.Join(hints, " | "))
}

// SetConnected sets the connection indicator.
func (s *Bar) SetConnected(connected bool) {
	s.connected = connected
}

// Connected returns the connection indicator state.
func (s *Bar) Connected() bool {
	return s.connected
}

// SetTyping shows or hides the typing indicator. Showing it returns the
// spinner tick that keeps it animated.
func (s *Bar) SetTyping(typing bool) tea.Cmd {
	s.typing = typing
	if typing {
		return s.spinner.Tick
	}
	return nil
}

// Typing returns whether the typing indicator is visible.
func (s *Bar) Typing() bool {
	return s.typing
}

// SetUploadStatus replaces the upload status line.
func (s *Bar) SetUploadStatus(status domain.UploadStatus) {
	s.upload = status
}

// UploadStatus returns the current upload status line.
func (s *Bar) UploadStatus() domain.UploadStatus {
	return s.upload
}

// SetFocus selects which hints are shown.
func (s *Bar) SetFocus(focus messages.Focus) {
	s.focus = focus
}

// SetStyles swaps the styles after a theme change.
func (s *Bar) SetStyles(st *styles.Styles) {
	s.styles = st
	s.spinner.Style = st.Muted
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
