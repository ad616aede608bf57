package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/console"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

// errNoReply is returned when the server answers without a reply.
var errNoReply = errors.New("the server returned no reply")

// askResult is the --json output of ask.
type askResult struct {
	Question  string   `json:"question"`
	Reply     string   `json:"reply"`
	Documents []string `json:"documents"`
}

var askCmd = &cobra.Command{
	Use:   "ask MESSAGE...",
	Short: "Send one message and print the reply",
	Long: `Send one chat message, with every uploaded document attached, and
print the server's reply.

Examples:
  docchat ask "¿De qué trata el informe?"
  docchat ask --json resume el documento`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Bool("json", false, "output as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := strings.TrimSpace(strings.Join(args, " "))
	if question == "" {
		return fmt.Errorf("%w: empty message", domain.ErrInvalidInput)
	}

	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}

	session, err := openSession(console.Discard{})
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if err := session.Load(ctx); err != nil {
		return err
	}
	if err := requireConnection(cmd, session); err != nil {
		return err
	}

	reply, err := session.SendToServer(ctx, question)
	if err != nil {
		return err
	}
	if reply == "" {
		return errNoReply
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(askResult{
			Question:  question,
			Reply:     reply,
			Documents: session.Documents().Paths(),
		})
	}

	fmt.Fprintln(cmd.OutOrStdout(), reply)
	return nil
}
