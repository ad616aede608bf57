package cli

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/console"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

var documentsCmd = &cobra.Command{
	Use:     "documents",
	Aliases: []string{"docs"},
	Short:   "Manage uploaded documents",
	Long:    `List and remove the documents attached to chat turns.`,
}

var documentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List uploaded documents",
	Long: `List uploaded documents in upload order. Positions shown here are
the ones accepted by "documents remove".`,
	Args: cobra.NoArgs,
	RunE: runDocumentsList,
}

var documentsRemoveCmd = &cobra.Command{
	Use:   "remove POSITION|SERVER_PATH",
	Short: "Remove an uploaded document",
	Long: `Delete a document on the server and drop it from the list.

The document is named by its 1-based position from "documents list" or
by its server path.`,
	Args: cobra.ExactArgs(1),
	RunE: runDocumentsRemove,
}

func init() {
	documentsListCmd.Flags().Bool("json", false, "output as JSON")
	documentsCmd.AddCommand(documentsListCmd)
	documentsCmd.AddCommand(documentsRemoveCmd)
	rootCmd.AddCommand(documentsCmd)
}

func runDocumentsList(cmd *cobra.Command, _ []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return fmt.Errorf("getting json flag: %w", err)
	}

	session, err := openSession(console.Discard{})
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Load(cmd.Context()); err != nil {
		return err
	}
	docs := session.Documents()

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(docs.Clone())
	}

	console.WriteDocuments(cmd.OutOrStdout(), docs)
	return nil
}

func runDocumentsRemove(cmd *cobra.Command, args []string) error {
	session, err := openSession(console.NewPresenter(cmd.OutOrStdout(), console.Options{}))
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if err := session.Load(ctx); err != nil {
		return err
	}

	// Positions are checked before probing.
	position, convErr := strconv.Atoi(args[0])
	if convErr == nil && !session.Documents().InRange(position-1) {
		return fmt.Errorf("%w: no document at position %d", domain.ErrDocumentNotFound, position)
	}

	if err := requireConnection(cmd, session); err != nil {
		return err
	}

	if convErr == nil {
		return session.Remove(ctx, position-1)
	}
	return session.RemoveByPath(ctx, args[0])
}
