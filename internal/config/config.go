// Package config resolves runtime configuration for docchat using koanf.
//
// Precedence, lowest first: built-in defaults, ~/.docchat/config.toml,
// a .env file, DOCCHAT_* environment variables, command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/v2"

	"github.com/custodia-labs/docchat/internal/core/ports/driven"
)

// EnvPrefix is the prefix of environment variables read into the config.
// A double underscore separates sections: DOCCHAT_SERVER__BASE_URL.
const EnvPrefix = "DOCCHAT_"

// Config holds all runtime configuration.
type Config struct {
	Server  ServerConfig  `koanf:"server" toml:"server"`
	Storage StorageConfig `koanf:"storage" toml:"storage"`
	Log     LogConfig     `koanf:"log" toml:"log"`
	UI      UIConfig      `koanf:"ui" toml:"ui"`
}

// ServerConfig describes the document chat backend.
type ServerConfig struct {
	BaseURL           string  `koanf:"base_url" toml:"base_url" validate:"required,url"`
	Timeout           int     `koanf:"timeout" toml:"timeout" validate:"gte=0"` // seconds, 0 = client default
	RequestsPerSecond float64 `koanf:"requests_per_second" toml:"requests_per_second" validate:"gte=0"`
}

// StorageConfig locates the local state database.
type StorageConfig struct {
	DataDir string `koanf:"data_dir" toml:"data_dir"`
}

// LogConfig configures the rotating log file. An empty File disables it.
type LogConfig struct {
	File       string `koanf:"file" toml:"file"`
	MaxSizeMB  int    `koanf:"max_size_mb" toml:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" toml:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" toml:"max_age_days" validate:"gte=0"`
}

// UIConfig holds presentation timings.
type UIConfig struct {
	SuccessStatusSeconds int `koanf:"success_status_seconds" toml:"success_status_seconds" validate:"gte=0"`
	FailureStatusSeconds int `koanf:"failure_status_seconds" toml:"failure_status_seconds" validate:"gte=0"`
}

// TimeoutDuration returns the request timeout.
func (c ServerConfig) TimeoutDuration() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// SuccessStatus returns how long a success status stays visible.
func (c UIConfig) SuccessStatus() time.Duration {
	return time.Duration(c.SuccessStatusSeconds) * time.Second
}

// FailureStatus returns how long a failure status stays visible.
func (c UIConfig) FailureStatus() time.Duration {
	return time.Duration(c.FailureStatusSeconds) * time.Second
}

// Options controls where Load reads from.
type Options struct {
	// Store supplies values persisted with `docchat config set`.
	Store driven.ConfigStore

	// EnvFile is a dotenv file; a missing file is ignored.
	EnvFile string

	// Environ replaces os.Environ, for tests.
	Environ func() []string

	// Overrides are applied last, typically from flags.
	Overrides map[string]any

	// HomeDir is the docchat directory used for path defaults.
	// Defaults to ~/.docchat.
	HomeDir string
}

// Defaults returns the built-in values keyed in dot notation.
func Defaults(homeDir string) map[string]any {
	return map[string]any{
		"server.base_url":            "http://127.0.0.1:8000",
		"server.timeout":             120,
		"server.requests_per_second": 0,

		"storage.data_dir": filepath.Join(homeDir, "data"),

		"log.file":         filepath.Join(homeDir, "docchat.log"),
		"log.max_size_mb":  10,
		"log.max_backups":  3,
		"log.max_age_days": 28,

		"ui.success_status_seconds": 3,
		"ui.failure_status_seconds": 5,
	}
}

// DefaultHomeDir returns ~/.docchat.
func DefaultHomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".docchat"), nil
}

// Load resolves the configuration from every layer and validates it.
func Load(opts Options) (*Config, error) {
	homeDir := opts.HomeDir
	if homeDir == "" {
		var err error
		if homeDir, err = DefaultHomeDir(); err != nil {
			return nil, err
		}
	}

	k := koanf.New(".")

	for key, value := range Defaults(homeDir) {
		_ = k.Set(key, value)
	}

	if opts.Store != nil {
		for key, value := range opts.Store.All() {
			_ = k.Set(key, value)
		}
	}

	if opts.EnvFile != "" {
		values, err := godotenv.Read(opts.EnvFile)
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("reading %s: %w", opts.EnvFile, err)
		}
		for name, value := range values {
			if key, _ := envKey(name, value); key != "" {
				_ = k.Set(key, value)
			}
		}
	}

	envOpt := env.Opt{
		Prefix:        EnvPrefix,
		TransformFunc: envKey,
		EnvironFunc:   opts.Environ,
	}
	if err := k.Load(env.Provider(".", envOpt), nil); err != nil {
		return nil, fmt.Errorf("loading environment variables: %w", err)
	}

	for key, value := range opts.Overrides {
		_ = k.Set(key, value)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}

	cfg.Server.BaseURL = strings.TrimRight(cfg.Server.BaseURL, "/")

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks field constraints.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// envKey maps DOCCHAT_SERVER__BASE_URL to server.base_url. Names without
// the prefix map to the empty key and are skipped.
func envKey(name, value string) (string, any) {
	if !strings.HasPrefix(name, EnvPrefix) {
		return "", nil
	}
	key := strings.TrimPrefix(name, EnvPrefix)
	key = strings.ToLower(strings.ReplaceAll(key, "__", "."))
	return key, value
}
