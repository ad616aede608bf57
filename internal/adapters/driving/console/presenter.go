package console

import (
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"

	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Ensure Presenter implements the interface.
var _ driven.Presenter = (*Presenter)(nil)

// Options selects which notifications are printed besides messages.
type Options struct {
	// ShowStatus prints upload status lines.
	ShowStatus bool

	// ShowDocuments prints the document list whenever it changes.
	ShowDocuments bool
}

// Presenter prints chat messages line by line. A rewritten message is
// printed again since lines cannot be edited in place.
type Presenter struct {
	mu   sync.Mutex
	out  io.Writer
	opts Options

	user   func(a ...any) string
	bot    func(a ...any) string
	failed func(a ...any) string
	dim    func(a ...any) string
}

// NewPresenter creates a console presenter writing to out.
func NewPresenter(out io.Writer, opts Options) *Presenter {
	return &Presenter{
		out:    out,
		opts:   opts,
		user:   color.New(color.FgGreen, color.Bold).SprintFunc(),
		bot:    color.New(color.FgCyan, color.Bold).SprintFunc(),
		failed: color.New(color.FgRed, color.Bold).SprintFunc(),
		dim:    color.New(color.Faint).SprintFunc(),
	}
}

// RenderMessage prints a message with its origin label.
func (p *Presenter) RenderMessage(msg domain.ChatMessage) {
	p.printMessage(msg)
}

// UpdateMessage prints the rewritten message.
func (p *Presenter) UpdateMessage(msg domain.ChatMessage) {
	p.printMessage(msg)
}

func (p *Presenter) printMessage(msg domain.ChatMessage) {
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintf(p.out, "%s %s %s\n", p.dim(msg.Timestamp.Format("15:04")), p.label(msg.Origin), msg.Text)
}

func (p *Presenter) label(origin domain.Origin) string {
	switch origin {
	case domain.OriginUser:
		return p.user("Tú:")
	case domain.OriginError:
		return p.failed("Error:")
	default:
		return p.bot("Bot:")
	}
}

// RenderDocumentList prints the list when ShowDocuments is set.
func (p *Presenter) RenderDocumentList(docs domain.DocumentSet) {
	if !p.opts.ShowDocuments {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	WriteDocuments(p.out, docs)
}

// SetConnected logs the new state.
func (p *Presenter) SetConnected(connected bool) {
	logger.Debug("console: connected=%t", connected)
}

// SetUploadStatus prints status lines when ShowStatus is set. Idle is
// not printed.
func (p *Presenter) SetUploadStatus(status domain.UploadStatus) {
	if !p.opts.ShowStatus || status.Kind == domain.UploadIdle {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()

	text := status.Text
	if status.Kind == domain.UploadFailed {
		text = p.failed(text)
	}
	fmt.Fprintf(p.out, "%s %s\n", p.dim("[upload]"), text)
}

// SetTyping is a no-op; the reply follows on its own line.
func (p *Presenter) SetTyping(bool) {}

// SetTheme is a no-op; terminal colours follow the terminal.
func (p *Presenter) SetTheme(domain.Theme) {}

// ClearInput is a no-op.
func (p *Presenter) ClearInput() {}

// WriteDocuments prints one numbered line per document, or the empty
// list text.
func WriteDocuments(w io.Writer, docs domain.DocumentSet) {
	if len(docs) == 0 {
		fmt.Fprintln(w, NoDocumentsText)
		return
	}
	for i, d := range docs {
		fmt.Fprintf(w, "%d. %s  %s  %s\n", i+1, d.Name, d.UploadedAt.Local().Format("15:04"), d.ServerPath)
	}
}

// NoDocumentsText is shown for an empty document list.
const NoDocumentsText = "No hay documentos subidos"
