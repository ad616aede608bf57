// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
)

// Placeholders of the message input.
const (
	MessagePlaceholder  = "Escribe tu mensaje..."
	OfflinePlaceholder  = "Sin conexión. Pulsa ctrl+r para reconectar"
	UploadPlaceholder   = "Rutas de archivos separadas por comas"
	messageLabel        = "Mensaje: "
	uploadLabel         = "Subir: "
	messageCharLimit    = 4096
	uploadCharLimit     = 2048
	minInputWidth       = 20
	labelAndPaddingSize = 12
)

// Mode selects what the input collects.
type Mode int

const (
	// ModeMessage collects a chat message.
	ModeMessage Mode = iota
	// ModeUpload collects comma-separated local file paths.
	ModeUpload
)

// ChatInput wraps a bubbles textinput for chat messages and upload paths.
type ChatInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	mode      Mode
	enabled   bool
	width     int
}

// NewChatInput creates a new, disabled message input. It becomes usable
// once the backend is reachable.
func NewChatInput(s *styles.Styles) *ChatInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = OfflinePlaceholder
	ti.Focus()
	ti.CharLimit = messageCharLimit
	ti.Width = 50

	return &ChatInput{
		textinput: ti,
		styles:    s,
		mode:      ModeMessage,
		width:     50,
	}
}

// Init initialises the input.
func (c *ChatInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages. Key presses are dropped while the
// message input is disabled.
func (c *ChatInput) Update(msg tea.Msg) (*ChatInput, tea.Cmd) {
	if _, ok := msg.(tea.KeyMsg); ok && c.mode == ModeMessage && !c.enabled {
		return c, nil
	}
	var cmd tea.Cmd
	c.textinput, cmd = c.textinput.Update(msg)
	return c, cmd
}

// View renders the input.
func (c *ChatInput) View() string {
	label := messageLabel
	if c.mode == ModeUpload {
		label = uploadLabel
	}
	field := c.styles.InputField.Render(c.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, c.styles.Title.Render(label), field)
}

// Value returns the current input value.
func (c *ChatInput) Value() string {
	return c.textinput.Value()
}

// SetValue sets the input value.
func (c *ChatInput) SetValue(value string) {
	c.textinput.SetValue(value)
}

// SetEnabled toggles whether the message input accepts text.
func (c *ChatInput) SetEnabled(enabled bool) {
	c.enabled = enabled
	if c.mode == ModeMessage {
		c.textinput.Placeholder = c.placeholder()
	}
}

// Enabled reports whether the message input accepts text.
func (c *ChatInput) Enabled() bool {
	return c.enabled
}

// SetMode switches between message and upload entry. The value is
// cleared on every switch.
func (c *ChatInput) SetMode(mode Mode) {
	c.mode = mode
	c.textinput.Reset()
	switch mode {
	case ModeUpload:
		c.textinput.Placeholder = UploadPlaceholder
		c.textinput.CharLimit = uploadCharLimit
	case ModeMessage:
		c.textinput.Placeholder = c.placeholder()
		c.textinput.CharLimit = messageCharLimit
	}
}

// Mode returns the current input mode.
func (c *ChatInput) Mode() Mode {
	return c.mode
}

func (c *ChatInput) placeholder() string {
	if c.enabled {
		return MessagePlaceholder
	}
	return OfflinePlaceholder
}

// Focus sets focus on the input.
func (c *ChatInput) Focus() tea.Cmd {
	return c.textinput.Focus()
}

// Blur removes focus from the input.
func (c *ChatInput) Blur() {
	c.textinput.Blur()
}

// Focused returns whether the input is focused.
func (c *ChatInput) Focused() bool {
	return c.textinput.Focused()
}

// SetStyles swaps the styles after a theme change.
func (c *ChatInput) SetStyles(s *styles.Styles) {
	c.styles = s
}

// SetWidth sets the width of the input.
func (c *ChatInput) SetWidth(width int) {
	c.width = width
	inputWidth := width - labelAndPaddingSize
	if inputWidth < minInputWidth {
		inputWidth = minInputWidth
	}
	c.textinput.Width = inputWidth
}

// Width returns the current width.
func (c *ChatInput) Width() int {
	return c.width
}

// Reset clears the input.
func (c *ChatInput) Reset() {
	c.textinput.Reset()
}

// SplitPaths splits an upload prompt value into trimmed, non-empty paths.
func SplitPaths(value string) []string {
	fields := strings.Split(value, ",")
	paths := make([]string, 0, len(fields))
	for _, f := range fields {
		if p := strings.TrimSpace(f); p != "" {
			paths = append(paths, p)
		}
	}
	return paths
}
