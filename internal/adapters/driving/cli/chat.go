package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/docchat/internal/adapters/driving/console"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui"
	"github.com/custodia-labs/docchat/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/logger"
)

// lineHelp lists the commands of the line-mode chat.
const lineHelp = `Comandos:
  /upload RUTA[,RUTA...]  subir documentos
  /delete N               eliminar el documento N
  /docs                   listar documentos
  /reconnect              verificar la conexión
  /theme                  cambiar el tema
  /help                   mostrar esta ayuda
  /quit                   salir`

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat",
	Long: `Open the interactive chat.

On a terminal this starts the full-screen interface:
  Enter  - Send message
  Ctrl+O - Upload documents (comma separated paths)
  Tab    - Focus the document list (d to delete)
  Ctrl+R - Reconnect
  Ctrl+T - Toggle light/dark theme
  Ctrl+B - Show/hide the document list
  Ctrl+C - Quit

When input is not a terminal, or with --plain, messages are read one per
line and slash commands are available (type /help).`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

// isTerminal reports whether in is an interactive terminal.
var isTerminal = func(in io.Reader) bool {
	f, ok := in.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func init() {
	chatCmd.Flags().Bool("plain", false, "use the line-based chat even on a terminal")
	rootCmd.Flags().Bool("plain", false, "use the line-based chat even on a terminal")
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	plain, err := cmd.Flags().GetBool("plain")
	if err != nil {
		return fmt.Errorf("getting plain flag: %w", err)
	}

	if !plain && isTerminal(cmd.InOrStdin()) {
		return runTUI(cmd)
	}
	return runLineChat(cmd)
}

func runTUI(cmd *cobra.Command) error {
	// Add panic recovery to get stack traces
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	presenter := tui.NewProgramPresenter()
	session, err := openSession(presenter)
	if err != nil {
		return err
	}
	defer session.Close()

	app, err := tui.NewApp(tui.NewPorts(session), presenter)
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	// The screen belongs to the TUI; the log file keeps every message.
	logger.SetOutput(io.Discard)
	defer logger.SetOutput(os.Stderr)

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func runLineChat(cmd *cobra.Command) error {
	out := cmd.OutOrStdout()
	session, err := openSession(console.NewPresenter(out, console.Options{ShowStatus: true}))
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if err := session.Start(ctx); err != nil {
		return err
	}
	cmd.Println("Escribe /help para ver los comandos.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if quit := handleLine(ctx, cmd, session, line); quit {
			return nil
		}
		if ctx.Err() != nil {
			return nil
		}
	}
	return scanner.Err()
}

// handleLine runs one line of input and reports whether to quit.
// Failures are already rendered by the session, so they are only logged.
func handleLine(ctx context.Context, cmd *cobra.Command, session driving.SessionService, line string) bool {
	if !strings.HasPrefix(line, "/") {
		if err := session.Send(ctx, line); err != nil {
			logger.Debug("send: %v", err)
		}
		return false
	}

	name, arg, _ := strings.Cut(line, " ")
	arg = strings.TrimSpace(arg)

	switch name {
	case "/quit", "/exit":
		return true

	case "/help":
		cmd.Println(lineHelp)

	case "/docs":
		console.WriteDocuments(cmd.OutOrStdout(), session.Documents())

	case "/upload":
		paths := input.SplitPaths(arg)
		if len(paths) == 0 {
			cmd.Println("Uso: /upload RUTA[,RUTA...]")
			return false
		}
		if err := session.UploadPaths(ctx, paths); err != nil {
			logger.Debug("upload: %v", err)
		}

	case "/delete":
		position, err := strconv.Atoi(arg)
		if err != nil {
			cmd.Println("Uso: /delete N")
			return false
		}
		if !session.Documents().InRange(position - 1) {
			cmd.Printf("No existe el documento %d\n", position)
			return false
		}
		if err := session.Remove(ctx, position-1); err != nil {
			logger.Debug("delete: %v", err)
		}

	case "/reconnect":
		session.Reconnect(ctx)

	case "/theme":
		theme, err := session.ToggleTheme(ctx)
		if err != nil {
			cmd.Printf("No se pudo cambiar el tema: %v\n", err)
			return false
		}
		cmd.Printf("Tema: %s\n", theme)

	default:
		cmd.Printf("Comando desconocido: %s (escribe /help)\n", name)
	}
	return false
}
