package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/console"
	"github.com/custodia-labs/docchat/internal/core/domain"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
)

var healthCmd = &cobra.Command{
	Use:   "health",
	Short: "Check that the server is reachable",
	Long: `Probe the server's health endpoint once and print the connection state.

Exits with an error when the server cannot be reached.`,
	Args: cobra.NoArgs,
	RunE: runHealth,
}

func init() {
	rootCmd.AddCommand(healthCmd)
}

func runHealth(cmd *cobra.Command, _ []string) error {
	session, err := openSession(console.Discard{})
	if err != nil {
		return err
	}
	defer session.Close()

	if err := requireConnection(cmd, session); err != nil {
		cmd.Printf("Desconectado (%s)\n", serverAddress())
		return err
	}
	cmd.Printf("Conectado (%s)\n", serverAddress())
	return nil
}

// requireConnection probes once and fails unless the server is up.
func requireConnection(cmd *cobra.Command, session driving.SessionService) error {
	if session.Probe(cmd.Context()) == domain.Connected {
		return nil
	}
	return fmt.Errorf("%w: %s", domain.ErrNotConnected, serverAddress())
}

// serverAddress returns the configured server base URL.
func serverAddress() string {
	r, err := getRuntime()
	if err != nil {
		return ""
	}
	return r.Config().Server.BaseURL
}
