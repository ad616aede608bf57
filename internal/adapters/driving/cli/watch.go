package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/console"
	"github.com/custodia-labs/docchat/internal/adapters/driving/watch"
)

var watchCmd = &cobra.Command{
	Use:   "watch DIR",
	Short: "Upload files as they appear in a directory",
	Long: `Watch a directory and upload every file created or rewritten in it.
Hidden files and partial downloads are skipped; subdirectories are not
watched. Runs until interrupted.`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	watchCmd.Flags().Bool("existing", false, "also upload files already in the directory")
	watchCmd.Flags().Duration("settle", watch.DefaultSettle, "quiet period before a changed file is uploaded")
	rootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	existing, err := cmd.Flags().GetBool("existing")
	if err != nil {
		return fmt.Errorf("getting existing flag: %w", err)
	}
	settle, err := cmd.Flags().GetDuration("settle")
	if err != nil {
		return fmt.Errorf("getting settle flag: %w", err)
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

	w, err := watch.New(args[0], session, watch.Options{Settle: settle, UploadExisting: existing})
	if err != nil {
		return err
	}

	cmd.Printf("Vigilando %s (Ctrl+C para salir)\n", args[0])
	return w.Run(ctx)
}
