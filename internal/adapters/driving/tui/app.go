package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/chat"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/views/documents"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/logger"
)

// Layout constants.
const (
	headerHeight     = 2
	inputHeight      = 3
	statusHeight     = 1
	sidebarWidth     = 34
	minWidthForPanel = 70
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// App never mutates session state itself: every key press that changes
// state is dispatched as an intent on a command goroutine, and the
// session answers through the ProgramPresenter.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// presenter forwards session notifications into the program.
	presenter *ProgramPresenter

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	keymap    *keymap.KeyMap
	chatView  *chat.View
	docsView  *documents.View
	input     *input.ChatInput
	statusBar *status.Bar

	// focus tracks which component receives key presses.
	focus messages.Focus

	connected   bool
	showSidebar bool
	theme       domain.Theme

	// err holds the error of the last failed intent.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has received its first window size.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports. The
// presenter must be the one the session was built with.
func NewApp(ports *Ports, presenter *ProgramPresenter) (*App, error) {
	if ports == nil {
		return nil, fmt.Errorf("creating app: %w", ErrInvalidPorts)
	}
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}
	if presenter == nil {
		return nil, fmt.Errorf("creating app: %w", ErrMissingPresenter)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()

	return &App{
		ports:       ports,
		presenter:   presenter,
		ctx:         context.Background(),
		styles:      s,
		keymap:      km,
		chatView:    chat.NewView(s),
		docsView:    documents.NewView(s),
		input:       input.NewChatInput(s),
		statusBar:   status.NewBar(s, km),
		focus:       messages.FocusInput,
		showSidebar: true,
		theme:       domain.ThemeLight,
	}, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
// It starts the session: persisted state is rendered and the backend probed.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("docchat"),
		a.input.Init(),
		a.dispatch(messages.IntentStart, a.ports.Session.Start),
	)
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocyclo // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case tea.MouseMsg:
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case spinner.TickMsg:
		a.statusBar, cmd = a.statusBar.Update(msg)
		return a, cmd

	case messages.MessageRendered:
		a.chatView.Append(msg.Message)
		return a, nil

	case messages.MessageUpdated:
		a.chatView.Replace(msg.Message)
		return a, nil

	case messages.DocumentsRendered:
		a.docsView.SetDocuments(msg.Documents)
		return a, nil

	case messages.ConnectionChanged:
		a.setConnected(msg.Connected)
		return a, nil

	case messages.UploadStatusChanged:
		a.statusBar.SetUploadStatus(msg.Status)
		return a, nil

	case messages.TypingChanged:
		return a, a.statusBar.SetTyping(msg.Typing)

	case messages.ThemeChanged:
		a.applyTheme(msg.Theme)
		return a, nil

	case messages.InputCleared:
		if a.input.Mode() == input.ModeMessage {
			a.input.Reset()
		}
		return a, nil

	case messages.RemoveRequested:
		index := msg.Index
		return a, a.dispatch(messages.IntentDelete, func(ctx context.Context) error {
			return a.ports.Session.Remove(ctx, index)
		})

	case messages.IntentCompleted:
		a.err = msg.Err
		if msg.Err != nil {
			logger.Debug("%s intent: %v", msg.Intent, msg.Err)
		}
		return a, nil
	}

	return a, nil
}

// handleKeyMsg routes a key press to the global bindings first and then
// to the focused component.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	var cmd tea.Cmd

	switch {
	case keymap.Matches(k, a.keymap.Quit):
		return a, tea.Quit

	case keymap.Matches(k, a.keymap.ToggleTheme):
		return a, a.dispatch(messages.IntentToggleTheme, func(ctx context.Context) error {
			_, err := a.ports.Session.ToggleTheme(ctx)
			return err
		})

	case keymap.Matches(k, a.keymap.Reconnect):
		return a, a.dispatch(messages.IntentReconnect, func(ctx context.Context) error {
			a.ports.Session.Reconnect(ctx)
			return nil
		})

	case keymap.Matches(k, a.keymap.ToggleSidebar):
		a.showSidebar = !a.showSidebar
		if !a.showSidebar && a.focus == messages.FocusDocuments {
			a.setFocus(messages.FocusInput)
		}
		a.layout()
		return a, nil

	case keymap.Matches(k, a.keymap.ScrollUp):
		a.chatView.ScrollUp()
		return a, nil

	case keymap.Matches(k, a.keymap.ScrollDown):
		a.chatView.ScrollDown()
		return a, nil
	}

	switch a.focus {
	case messages.FocusUpload:
		return a.handleUploadKey(msg)

	case messages.FocusDocuments:
		if keymap.Matches(k, a.keymap.Focus) || keymap.Matches(k, a.keymap.Cancel) {
			a.setFocus(messages.FocusInput)
			return a, nil
		}
		a.docsView, cmd = a.docsView.Update(msg)
		return a, cmd

	case messages.FocusInput:
		switch {
		case keymap.Matches(k, a.keymap.Upload):
			if a.connected {
				a.setFocus(messages.FocusUpload)
			}
			return a, nil
		case keymap.Matches(k, a.keymap.Focus):
			if a.showSidebar {
				a.setFocus(messages.FocusDocuments)
			}
			return a, nil
		case keymap.Matches(k, a.keymap.Send):
			return a, a.send()
		}
	}

	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleUploadKey handles the upload path prompt.
func (a *App) handleUploadKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, a.keymap.Cancel):
		a.setFocus(messages.FocusInput)
		return a, nil

	case keymap.Matches(k, a.keymap.Send):
		paths := input.SplitPaths(a.input.Value())
		a.setFocus(messages.FocusInput)
		if len(paths) == 0 {
			return a, nil
		}
		return a, a.dispatch(messages.IntentUpload, func(ctx context.Context) error {
			return a.ports.Session.UploadPaths(ctx, paths)
		})
	}

	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// send dispatches the message input. Blank text and a disconnected
// backend leave the input untouched.
func (a *App) send() tea.Cmd {
	text := a.input.Value()
	if !a.connected || strings.TrimSpace(text) == "" {
		return nil
	}
	return a.dispatch(messages.IntentSend, func(ctx context.Context) error {
		return a.ports.Session.Send(ctx, text)
	})
}

// dispatch runs an intent off the program loop and reports its result.
func (a *App) dispatch(intent messages.Intent, run func(ctx context.Context) error) tea.Cmd {
	ctx := a.ctx
	return func() tea.Msg {
		return messages.IntentCompleted{Intent: intent, Err: run(ctx)}
	}
}

// setFocus moves keyboard focus and keeps dependent components in sync.
func (a *App) setFocus(focus messages.Focus) {
	prev := a.focus
	a.focus = focus
	a.docsView.SetFocused(focus == messages.FocusDocuments)
	a.statusBar.SetFocus(focus)

	switch {
	case focus == messages.FocusUpload:
		a.input.SetMode(input.ModeUpload)
	case prev == messages.FocusUpload:
		a.input.SetMode(input.ModeMessage)
	}

	if focus == messages.FocusDocuments {
		a.input.Blur()
	} else {
		a.input.Focus()
	}
}

// setConnected enables or disables the network affordances.
func (a *App) setConnected(connected bool) {
	a.connected = connected
	a.input.SetEnabled(connected)
	a.docsView.SetEnabled(connected)
	a.statusBar.SetConnected(connected)
	if !connected && a.focus == messages.FocusUpload {
		a.setFocus(messages.FocusInput)
	}
}

// applyTheme rebuilds the styles for theme and hands them to every component.
func (a *App) applyTheme(theme domain.Theme) {
	a.theme = theme
	a.styles = styles.NewStyles(styles.ThemeFor(theme))
	a.chatView.SetStyles(a.styles)
	a.docsView.SetStyles(a.styles)
	a.input.SetStyles(a.styles)
	a.statusBar.SetStyles(a.styles)
}

// layout distributes the terminal area between the components.
func (a *App) layout() {
	chatWidth := a.width
	if a.sidebarVisible() {
		chatWidth = a.width - sidebarWidth
	}
	bodyHeight := a.height - headerHeight - inputHeight - statusHeight
	if bodyHeight < 3 {
		bodyHeight = 3
	}

	a.chatView.SetDimensions(chatWidth, bodyHeight)
	a.docsView.SetDimensions(sidebarWidth, bodyHeight-2)
	a.input.SetWidth(a.width)
	a.statusBar.SetWidth(a.width)
}

func (a *App) sidebarVisible() bool {
	return a.showSidebar && a.width >= minWidthForPanel
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Iniciando docchat..."
	}

	header := a.styles.Title.Render("docchat") + a.styles.Muted.Render("  chat con tus documentos")

	body := a.chatView.View()
	if a.sidebarVisible() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, a.docsView.View())
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		header+"\n",
		body,
		a.input.View(),
		a.statusBar.View(),
	)
}

// Run starts the TUI application and blocks until it exits.
func (a *App) Run() error {
	p := tea.NewProgram(a,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(a.ctx),
	)
	a.presenter.Attach(p)
	defer a.presenter.Detach()

	_, err := p.Run()
	return err
}

// Focus returns the component that receives key presses.
func (a *App) Focus() messages.Focus {
	return a.focus
}

// Connected reports whether network affordances are enabled.
func (a *App) Connected() bool {
	return a.connected
}

// Theme returns the applied theme.
func (a *App) Theme() domain.Theme {
	return a.theme
}

// SidebarVisible reports whether the document list is drawn.
func (a *App) SidebarVisible() bool {
	return a.sidebarVisible()
}

// Err returns the error of the last failed intent.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has received its first window size.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.layout()
}
