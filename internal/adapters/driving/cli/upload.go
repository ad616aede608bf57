package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/console"
)

var uploadCmd = &cobra.Command{
	Use:   "upload FILE...",
	Short: "Upload reference documents",
	Long: `Upload one or more files to the server. Files are sent one after
another; a failed file does not stop the rest.

Uploaded documents are attached to every later chat turn.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runUpload,
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}

func runUpload(cmd *cobra.Command, args []string) error {
	for _, path := range args {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("checking %s: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%s is a directory", path)
		}
	}

	session, err := openSession(console.NewPresenter(cmd.OutOrStdout(), console.Options{ShowStatus: true}))
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

	before := len(session.Documents())
	err = session.UploadPaths(ctx, args)
	cmd.Printf("%d de %d documentos subidos\n", len(session.Documents())-before, len(args))
	return err
}
