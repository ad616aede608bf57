package cli

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/domain"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change configuration",
	Long: `Show or change the configuration stored in config.toml.

Values are resolved in this order, later wins: built-in defaults,
config.toml, a .env file, DOCCHAT_* environment variables, flags.
Environment variables use a double underscore between section and key,
for example DOCCHAT_SERVER__BASE_URL.`,
	RunE: runConfigShow,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the resolved configuration",
	Args:  cobra.NoArgs,
	RunE:  runConfigShow,
}

var configSetCmd = &cobra.Command{
	Use:   "set KEY VALUE",
	Short: "Store a configuration value",
	Long: `Store a configuration value in config.toml.

Keys:
  server.base_url, server.timeout, server.requests_per_second,
  storage.data_dir, log.file, log.max_size_mb, log.max_backups,
  log.max_age_days, ui.success_status_seconds, ui.failure_status_seconds`,
	Args: cobra.ExactArgs(2),
	RunE: runConfigSet,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the config file path",
	Args:  cobra.NoArgs,
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, _ []string) error {
	r, err := getRuntime()
	if err != nil {
		return err
	}
	return toml.NewEncoder(cmd.OutOrStdout()).Encode(r.Config())
}

func runConfigSet(cmd *cobra.Command, args []string) error {
	key, raw := args[0], args[1]

	r, err := getRuntime()
	if err != nil {
		return err
	}

	value, err := parseConfigValue(key, raw)
	if err != nil {
		return err
	}

	// Resolve with the new value applied before persisting it.
	if _, err := config.Load(config.Options{
		Store:     r.ConfigStore(),
		Overrides: map[string]any{key: value},
		HomeDir:   configDir,
	}); err != nil {
		return err
	}

	if err := r.ConfigStore().Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	cmd.Printf("%s = %v\n", key, value)
	if ephemeral {
		cmd.Println("(--ephemeral: el cambio no se guarda)")
	}
	return nil
}

func runConfigPath(cmd *cobra.Command, _ []string) error {
	r, err := getRuntime()
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), r.ConfigStore().Path())
	return nil
}

// configKeys returns the known keys in sorted order.
func configKeys() []string {
	defaults := config.Defaults("")
	keys := make([]string, 0, len(defaults))
	for k := range defaults {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseConfigValue converts raw to the type of the key's default.
func parseConfigValue(key, raw string) (any, error) {
	def, ok := config.Defaults("")[key]
	if !ok {
		return nil, fmt.Errorf("%w: unknown key %q (known: %v)", domain.ErrInvalidInput, key, configKeys())
	}

	switch def.(type) {
	case string:
		return raw, nil
	case int:
		if n, err := strconv.Atoi(raw); err == nil {
			return n, nil
		}
		if f, err := strconv.ParseFloat(raw, 64); err == nil {
			return f, nil
		}
		return nil, fmt.Errorf("%w: %s must be a number", domain.ErrInvalidInput, key)
	case bool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %s must be true or false", domain.ErrInvalidInput, key)
		}
		return b, nil
	default:
		return raw, nil
	}
}
