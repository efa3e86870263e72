// Package appcontext provides the shared application context interface
// used by all commands. Commands accept Interface rather than the concrete
// App so they can be tested with Mock.
package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Interface defines the application context that commands need.
type Interface interface {
	// Config returns the loaded configuration. Commands may override fields
	// from their own flags before building an engine or provider.
	Config() *Config

	// Engine builds an engine from the current configuration.
	Engine() (*lexicon.Engine, error)

	// Provider builds the configured translation provider.
	Provider() (translate.Provider, error)

	// Memory returns the translation memory, or nil when none is configured.
	Memory() (translate.Memory, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
