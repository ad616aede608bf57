// Package chat provides the scrolling transcript view for the TUI.
package chat

import (
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Labels that attribute transcript lines.
const (
	UserLabel  = "Tú"
	BotLabel   = "Bot"
	ErrorLabel = "Error"
)

// View renders the append-only transcript. Placeholder rewrites replace
// the entry with the same message ID.
type View struct {
	styles   *styles.Styles
	viewport viewport.Model
	renderer *glamour.TermRenderer

	entries []domain.ChatMessage
	index   map[string]int
	width   int
	height  int
}

// NewView creates an empty transcript.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	v := &View{
		styles:   s,
		viewport: viewport.New(80, 20),
		index:    make(map[string]int),
		width:    80,
		height:   20,
	}
	v.newRenderer()
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update forwards scrolling input to the viewport.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// View renders the transcript viewport.
func (v *View) View() string {
	return v.viewport.View()
}

// Append adds a message to the end of the transcript.
func (v *View) Append(msg domain.ChatMessage) {
	v.index[msg.ID] = len(v.entries)
	v.entries = append(v.entries, msg)
	v.refresh()
}

// Replace rewrites the entry with msg.ID. Unknown IDs are appended.
func (v *View) Replace(msg domain.ChatMessage) {
	i, ok := v.index[msg.ID]
	if !ok {
		v.Append(msg)
		return
	}
	v.entries[i] = msg
	v.refresh()
}

// Entries returns the rendered messages in order.
func (v *View) Entries() []domain.ChatMessage {
	out := make([]domain.ChatMessage, len(v.entries))
	copy(out, v.entries)
	return out
}

// SetDimensions resizes the viewport and re-wraps markdown.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.viewport.Width = width
	v.viewport.Height = height
	v.newRenderer()
	v.refresh()
}

// SetStyles swaps the styles after a theme change.
func (v *View) SetStyles(s *styles.Styles) {
	v.styles = s
	v.newRenderer()
	v.refresh()
}

// ScrollUp pages the transcript up.
func (v *View) ScrollUp() {
	v.viewport.HalfPageUp()
}

// ScrollDown pages the transcript down.
func (v *View) ScrollDown() {
	v.viewport.HalfPageDown()
}

func (v *View) newRenderer() {
	wrap := v.width - 4
	if wrap < 20 {
		wrap = 20
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(v.styles.MarkdownStyle()),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		logger.Warn("markdown renderer unavailable: %v", err)
		v.renderer = nil
		return
	}
	v.renderer = r
}

// refresh re-renders all entries and keeps the newest line visible.
func (v *View) refresh() {
	var b strings.Builder
	for i, msg := range v.entries {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v.renderEntry(msg))
		b.WriteString("\n")
	}
	v.viewport.SetContent(b.String())
	v.viewport.GotoBottom()
}

// renderEntry renders one transcript line with its timestamp and label.
func (v *View) renderEntry(msg domain.ChatMessage) string {
	stamp := v.styles.Muted.Render(msg.Timestamp.Format("15:04"))

	switch msg.Origin {
	case domain.OriginUser:
		return stamp + " " + v.styles.UserLabel.Render(UserLabel+":") + " " + v.styles.Normal.Render(msg.Text)
	case domain.OriginError:
		return stamp + " " + v.styles.Error.Render(ErrorLabel+": "+msg.Text)
	case domain.OriginBot:
		return stamp + " " + v.styles.BotLabel.Render(BotLabel+":") + "\n" + v.renderMarkdown(msg.Text)
	}
	return stamp + " " + msg.Text
}

// renderMarkdown renders bot text, falling back to plain text.
func (v *View) renderMarkdown(text string) string {
	if v.renderer == nil {
		return v.styles.Normal.Render(text)
	}
	out, err := v.renderer.Render(text)
	if err != nil {
		logger.Debug("render markdown: %v", err)
		return v.styles.Normal.Render(text)
	}
	return strings.Trim(out, "\n")
}
