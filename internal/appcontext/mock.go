package appcontext

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Mock provides a mock implementation of Interface for testing.
// Engine is built from Cfg unless EngineFunc is set. Provider and Memory
// return ProviderValue and MemoryValue unless their functions are set.
type Mock struct {
	Cfg           *Config
	LoggerValue   *zerolog.Logger
	ProviderValue translate.Provider
	MemoryValue   translate.Memory
	Format        string

	EngineFunc   func() (*lexicon.Engine, error)
	ProviderFunc func() (translate.Provider, error)
	MemoryFunc   func() (translate.Memory, error)
}

// Config returns Cfg, creating an empty config when nil.
func (m *Mock) Config() *Config {
	if m.Cfg == nil {
		m.Cfg = &Config{}
	}
	return m.Cfg
}

// Engine builds an engine using the mock function or the config.
func (m *Mock) Engine() (*lexicon.Engine, error) {
	if m.EngineFunc != nil {
		return m.EngineFunc()
	}
	return lexicon.New(m.Config().EngineOptions(m.Logger())...)
}

// Provider returns the mock provider.
func (m *Mock) Provider() (translate.Provider, error) {
	if m.ProviderFunc != nil {
		return m.ProviderFunc()
	}
	return m.ProviderValue, nil
}

// Memory returns the mock memory.
func (m *Mock) Memory() (translate.Memory, error) {
	if m.MemoryFunc != nil {
		return m.MemoryFunc()
	}
	return m.MemoryValue, nil
}

// Logger returns LoggerValue or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerValue != nil {
		return m.LoggerValue
	}
	return logging.NewNopLogger()
}

// OutputFormat returns Format or "json".
func (m *Mock) OutputFormat() string {
	if m.Format != "" {
		return m.Format
	}
	return "json"
}

// Version returns "test".
func (m *Mock) Version() string { return "test" }

// Commit returns "test".
func (m *Mock) Commit() string { return "test" }

// Date returns "test".
func (m *Mock) Date() string { return "test" }

// BuiltBy returns "test".
func (m *Mock) BuiltBy() string { return "test" }

// Ensure Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
