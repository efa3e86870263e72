// Package app provides the application context and dependency management
// for the lexicon CLI. It centralizes configuration, logging, and the
// lifecycle of the translation memory.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/output"
	"github.com/agentstation/lexicon/internal/memory"
	"github.com/agentstation/lexicon/internal/providers/registry"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/translate"
)

// App represents the lexicon application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Translation memory (lazy-initialized, singleton)
	mu     sync.Mutex
	memory *memory.Store
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig("")
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	// Apply any custom options
	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the requested output format, detecting one from
// the terminal when none was given.
func (a *App) OutputFormat() string {
	return string(output.DetectFormat(a.config.Format))
}

// Engine builds an engine from the current configuration. Commands may
// change the configuration between calls, so the engine is not cached.
func (a *App) Engine() (*lexicon.Engine, error) {
	e, err := lexicon.New(a.config.EngineOptions(a.logger)...)
	if err != nil {
		return nil, errors.WrapResource("create", "engine", "", err)
	}
	return e, nil
}

// Provider builds the configured translation provider.
func (a *App) Provider() (translate.Provider, error) {
	p, err := registry.New(a.config.ProviderSettings())
	if err != nil {
		return nil, errors.WrapResource("create", "provider", a.config.Provider, err)
	}
	return p, nil
}

// Memory opens the translation memory on first use. It returns nil when
// no memory path is configured.
func (a *App) Memory() (translate.Memory, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.memory != nil {
		return a.memory, nil
	}
	if a.config.MemoryPath == "" {
		return nil, nil
	}

	store, err := memory.Open(a.config.MemoryPath)
	if err != nil {
		return nil, errors.WrapResource("open", "translation memory", a.config.MemoryPath, err)
	}
	a.memory = store
	return store, nil
}

// Shutdown releases the resources held by the application.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	store := a.memory
	a.memory = nil
	a.mu.Unlock()

	if store != nil {
		if err := store.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close translation memory during shutdown")
			return err
		}
	}
	return nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// Ensure App implements appcontext.Interface at compile time.
var _ appcontext.Interface = (*App)(nil)
