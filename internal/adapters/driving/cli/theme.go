package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/adapters/driving/console"
)

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Show or toggle the chat theme",
	Long:  `Show the light/dark theme used by the interactive chat, or toggle it.`,
	RunE:  runThemeShow,
}

var themeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the current theme",
	Args:  cobra.NoArgs,
	RunE:  runThemeShow,
}

var themeToggleCmd = &cobra.Command{
	Use:   "toggle",
	Short: "Switch between light and dark",
	Args:  cobra.NoArgs,
	RunE:  runThemeToggle,
}

func init() {
	themeCmd.AddCommand(themeShowCmd)
	themeCmd.AddCommand(themeToggleCmd)
	rootCmd.AddCommand(themeCmd)
}

func runThemeShow(cmd *cobra.Command, _ []string) error {
	session, err := openSession(console.Discard{})
	if err != nil {
		return err
	}
	defer session.Close()

	if err := session.Load(cmd.Context()); err != nil {
		return err
	}
	cmd.Printf("Tema: %s\n", session.Theme())
	return nil
}

func runThemeToggle(cmd *cobra.Command, _ []string) error {
	session, err := openSession(console.Discard{})
	if err != nil {
		return err
	}
	defer session.Close()

	ctx := cmd.Context()
	if err := session.Load(ctx); err != nil {
		return err
	}
	theme, err := session.ToggleTheme(ctx)
	if err != nil {
		return err
	}
	cmd.Printf("Tema: %s\n", theme)
	return nil
}
