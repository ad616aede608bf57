// Package cli implements the docchat command line with cobra.
package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/app"
	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

// version is set at build time.
var version = "dev"

// Persistent flag values.
var (
	verbose   bool
	serverURL string
	configDir string
	ephemeral bool
)

// Runtime is the part of the composition root commands use.
type Runtime interface {
	Config() *config.Config
	ConfigStore() driven.ConfigStore
	NewSession(presenter driven.Presenter) (driving.SessionService, error)
	Close() error
}

// newRuntime builds the runtime from the resolved flags.
var newRuntime = func(opts app.Options) (Runtime, error) {
	r, err := app.New(opts)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// activeRuntime is opened on first use and closed after the command.
var activeRuntime Runtime

var rootCmd = &cobra.Command{
	Use:   "docchat",
	Short: "Chat with a document server from the terminal",
	Long: `docchat is a terminal client for a document chat server.

Upload reference documents, then ask questions about them. Every chat
turn carries the server paths of the uploaded documents.

Run without a subcommand to open the interactive chat.`,
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	PersistentPreRunE: resetRuntime,
	RunE:              runChat,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print debug output")
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "server base URL (overrides server.base_url)")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.docchat)")
	rootCmd.PersistentFlags().BoolVar(&ephemeral, "ephemeral", false, "keep documents, theme and settings in memory only")
}

// SetVersion sets the version reported by `docchat version`.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command until it returns or the process is
// interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	defer closeRuntime()

	return rootCmd.ExecuteContext(ctx)
}

// resetRuntime drops a runtime left over from an earlier execution so
// each command sees its own flags.
func resetRuntime(_ *cobra.Command, _ []string) error {
	closeRuntime()
	return nil
}

// getRuntime opens the runtime on first use.
func getRuntime() (Runtime, error) {
	if activeRuntime != nil {
		return activeRuntime, nil
	}
	r, err := newRuntime(app.Options{
		HomeDir:   configDir,
		ServerURL: serverURL,
		Ephemeral: ephemeral,
		Verbose:   verbose,
	})
	if err != nil {
		return nil, err
	}
	activeRuntime = r
	return r, nil
}

func closeRuntime() {
	if activeRuntime == nil {
		return
	}
	_ = activeRuntime.Close()
	activeRuntime = nil
}

// openSession creates a session notifying presenter.
func openSession(presenter driven.Presenter) (driving.SessionService, error) {
	r, err := getRuntime()
	if err != nil {
		return nil, err
	}
	return r.NewSession(presenter)
}
