// Package app wires configuration, logging, storage and the backend
// client into sessions. It is the composition root shared by every
// command.
package app

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/docchat/internal/adapters/driven/backend/rest"
	"github.com/custodia-labs/docchat/internal/adapters/driven/config/file"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/docchat/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/docchat/internal/config"
	"github.com/custodia-labs/docchat/internal/core/ports/driven"
	"github.com/custodia-labs/docchat/internal/core/ports/driving"
	"github.com/custodia-labs/docchat/internal/core/services"
	"github.com/custodia-labs/docchat/internal/logger"
)

// DefaultEnvFile is the dotenv file read from the working directory.
const DefaultEnvFile = ".env"

// Options are the process-level settings taken from flags.
type Options struct {
	// HomeDir holds config.toml and the default data and log paths.
	// Defaults to ~/.docchat.
	HomeDir string

	// ServerURL overrides server.base_url when set.
	ServerURL string

	// Ephemeral keeps documents, the theme and config changes in memory
	// only. Nothing under HomeDir is created or written, and the log
	// file is disabled.
	Ephemeral bool

	// Verbose enables debug output on stderr.
	Verbose bool

	// EnvFile is the dotenv file to read. Defaults to DefaultEnvFile.
	EnvFile string

	// Environ replaces os.Environ, for tests.
	Environ func() []string

	// HTTPClient replaces the backend HTTP client, for tests.
	HTTPClient *http.Client
}

// Runtime owns the long-lived adapters of one process.
type Runtime struct {
	cfg         *config.Config
	configStore driven.ConfigStore
	backend     *rest.Client
	documents   driven.DocumentStore
	preferences driven.PreferenceStore
	store       *sqlite.Store
}

// New loads the configuration and opens storage.
func New(opts Options) (*Runtime, error) {
	homeDir := opts.HomeDir
	if homeDir == "" {
		var err error
		if homeDir, err = config.DefaultHomeDir(); err != nil {
			return nil, err
		}
	}
	if opts.EnvFile == "" {
		opts.EnvFile = DefaultEnvFile
	}

	configStore, err := openConfigStore(homeDir, opts.Ephemeral)
	if err != nil {
		return nil, err
	}

	overrides := make(map[string]any)
	if opts.ServerURL != "" {
		overrides["server.base_url"] = opts.ServerURL
	}

	cfg, err := config.Load(config.Options{
		Store:     configStore,
		EnvFile:   opts.EnvFile,
		Environ:   opts.Environ,
		Overrides: overrides,
		HomeDir:   homeDir,
	})
	if err != nil {
		return nil, err
	}

	logPath := cfg.Log.File
	if opts.Ephemeral {
		logPath = ""
	}

	logger.SetVerbose(opts.Verbose)
	logger.SetFile(logger.FileOptions{
		Path:       logPath,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	logger.Section("Runtime")
	logger.Debug("config: %s", configStore.Path())
	logger.Debug("server: %s", cfg.Server.BaseURL)

	r := &Runtime{
		cfg:         cfg,
		configStore: configStore,
		backend: rest.NewClient(rest.Config{
			BaseURL:           cfg.Server.BaseURL,
			Timeout:           cfg.Server.TimeoutDuration(),
			RequestsPerSecond: cfg.Server.RequestsPerSecond,
			HTTPClient:        opts.HTTPClient,
		}),
	}

	if opts.Ephemeral {
		logger.Debug("storage: in memory")
		r.documents = memory.NewDocumentStore()
		r.preferences = memory.NewPreferenceStore()
		return r, nil
	}

	store, err := sqlite.NewStore(cfg.Storage.DataDir)
	if err != nil {
		_ = logger.Close()
		return nil, fmt.Errorf("opening state database: %w", err)
	}
	logger.Debug("storage: %s", store.Path())
	r.store = store
	r.documents = store.DocumentStore()
	r.preferences = store.PreferenceStore()
	return r, nil
}

// openConfigStore returns the TOML store under homeDir, or for an
// ephemeral run an in-memory copy of it that leaves homeDir untouched.
func openConfigStore(homeDir string, ephemeral bool) (driven.ConfigStore, error) {
	if ephemeral {
		saved, err := file.ReadValues(homeDir)
		if err != nil {
			return nil, fmt.Errorf("reading saved config: %w", err)
		}
		return memory.NewConfigStore(saved), nil
	}

	store, err := file.NewConfigStore(homeDir)
	if err != nil {
		return nil, fmt.Errorf("opening config store: %w", err)
	}
	return store, nil
}

// Config returns the resolved configuration.
func (r *Runtime) Config() *config.Config {
	return r.cfg
}

// ConfigStore returns the settings store: the config file, or an
// in-memory copy for ephemeral runs.
func (r *Runtime) ConfigStore() driven.ConfigStore {
	return r.configStore
}

// NewSession builds a session that notifies presenter. The caller owns
// the session and must Close it.
func (r *Runtime) NewSession(presenter driven.Presenter) (driving.SessionService, error) {
	return services.NewSession(services.SessionDeps{
		Backend:               r.backend,
		Documents:             r.documents,
		Preferences:           r.preferences,
		Presenter:             presenter,
		SuccessStatusDuration: r.cfg.UI.SuccessStatus(),
		FailureStatusDuration: r.cfg.UI.FailureStatus(),
	})
}

// Close releases storage and flushes the log file.
func (r *Runtime) Close() error {
	var errs []error
	if r.store != nil {
		if err := r.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing state database: %w", err))
		}
	}
	if err := logger.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing log file: %w", err))
	}
	return errors.Join(errs...)
}
