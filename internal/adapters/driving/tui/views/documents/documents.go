// Package documents provides the document list panel for the TUI.
package documents

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// EmptyText is shown when no document has been uploaded.
const EmptyText = "No hay documentos subidos"

// View is the document list panel. It only renders what the session
// sends; removals are requested through messages.RemoveRequested.
type View struct {
	styles *styles.Styles

	documents    domain.DocumentSet
	selected     int
	focused      bool
	enabled      bool
	width        int
	height       int
	scrollOffset int
}

// NewView creates a new document list panel.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		documents: domain.DocumentSet{},
		width:     30,
		height:    10,
	}
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles key presses while the panel has focus.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.DocumentsRendered:
		v.SetDocuments(msg.Documents)
		return v, nil

	case tea.KeyMsg:
		if !v.focused {
			return v, nil
		}
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses in list mode.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.selected > 0 {
			v.selected--
			v.adjustScroll()
		}
	case "down", "j":
		if v.selected < len(v.documents)-1 {
			v.selected++
			v.adjustScroll()
		}
	case "d", "delete":
		if !v.enabled || len(v.documents) == 0 {
			return v, nil
		}
		index := v.selected
		return v, func() tea.Msg {
			return messages.RemoveRequested{Index: index}
		}
	}

	return v, nil
}

// SetDocuments replaces the rendered list and keeps the selection in range.
func (v *View) SetDocuments(docs domain.DocumentSet) {
	v.documents = docs.Clone()
	if v.selected >= len(v.documents) {
		v.selected = len(v.documents) - 1
	}
	if v.selected < 0 {
		v.selected = 0
	}
	v.adjustScroll()
}

// adjustScroll adjusts the scroll offset to keep the selected item visible.
func (v *View) adjustScroll() {
	visibleItems := v.visibleItemCount()
	if v.selected < v.scrollOffset {
		v.scrollOffset = v.selected
	} else if v.selected >= v.scrollOffset+visibleItems {
		v.scrollOffset = v.selected - visibleItems + 1
	}
}

// visibleItemCount returns the number of items that can be displayed.
func (v *View) visibleItemCount() int {
	// title, blank line and scroll indicator
	reserved := 4
	available := v.height - reserved
	if available < 1 {
		available = 1
	}
	return available
}

// View renders the panel.
func (v *View) View() string {
	var b strings.Builder

	b.WriteString(v.styles.Title.Render(fmt.Sprintf("Documentos (%d)", len(v.documents))))
	b.WriteString("\n\n")

	if len(v.documents) == 0 {
		b.WriteString(v.styles.Muted.Render(EmptyText))
		return v.frame(b.String())
	}

	visibleItems := v.visibleItemCount()
	for i := v.scrollOffset; i < len(v.documents) && i < v.scrollOffset+visibleItems; i++ {
		b.WriteString(v.renderDocument(i, v.documents[i]))
		b.WriteString("\n")
	}

	if len(v.documents) > visibleItems {
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("[%d-%d de %d]",
			v.scrollOffset+1,
			min(v.scrollOffset+visibleItems, len(v.documents)),
			len(v.documents))))
	}

	return v.frame(strings.TrimRight(b.String(), "\n"))
}

// frame wraps content in a border that reflects focus.
func (v *View) frame(content string) string {
	border := v.styles.Border
	if v.focused {
		border = v.styles.FocusedBorder
	}
	return border.Width(v.innerWidth()).Render(content)
}

// renderDocument renders a single document line.
func (v *View) renderDocument(index int, doc domain.DocumentRecord) string {
	indicator := "  "
	if index == v.selected && v.focused {
		indicator = "> "
	}

	name := doc.Name
	maxNameLen := v.innerWidth() - 8
	if maxNameLen < 8 {
		maxNameLen = 8
	}
	if len(name) > maxNameLen {
		name = name[:maxNameLen-3] + "..."
	}

	stamp := doc.UploadedAt.Format("15:04")
	if index == v.selected && v.focused {
		return v.styles.Selected.Render(fmt.Sprintf("%s%s", indicator, name)) + " " + v.styles.Muted.Render(stamp)
	}
	return v.styles.Normal.Render(indicator+name) + " " + v.styles.Muted.Render(stamp)
}

func (v *View) innerWidth() int {
	w := v.width - 2
	if w < 10 {
		w = 10
	}
	return w
}

// SetDimensions sets the panel dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.adjustScroll()
}

// SetFocused toggles keyboard focus.
func (v *View) SetFocused(focused bool) {
	v.focused = focused
}

// Focused reports whether the panel has keyboard focus.
func (v *View) Focused() bool {
	return v.focused
}

// SetEnabled toggles whether delete requests are emitted.
func (v *View) SetEnabled(enabled bool) {
	v.enabled = enabled
}

// SetStyles swaps the styles after a theme change.
func (v *View) SetStyles(s *styles.Styles) {
	v.styles = s
}

// Documents returns the rendered list.
func (v *View) Documents() domain.DocumentSet {
	return v.documents
}

// SelectedIndex returns the currently selected document index.
func (v *View) SelectedIndex() int {
	return v.selected
}

// SelectedDocument returns the currently selected document.
func (v *View) SelectedDocument() *domain.DocumentRecord {
	if v.documents.InRange(v.selected) {
		return &v.documents[v.selected]
	}
	return nil
}
