package appcontext

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/internal/providers/registry"
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Config holds the CLI configuration loaded from flags, environment
// variables, .env files, and the config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Format  string

	// Config file
	ConfigFile string

	// Locale layout
	BasePath        string
	ReferenceLocale string
	ReferencePath   string
	OutputDir       string
	Locales         []string

	// Comparison
	StrictKeys         bool
	IdenticalAsMissing bool
	Concurrency        int

	// Translation
	Provider        string
	Model           string
	APIBaseURL      string
	ProviderTimeout time.Duration
	BatchSize       int
	MemoryPath      string
	ProductContext  string
	Glossary        map[string]string
	FailOnError     bool

	// Unused-key scan
	SearchPath  string
	ScanExclude []string

	// Logging configuration
	LogLevel  string
	LogFormat string
	LogOutput string
}

// EngineOptions converts the configuration into engine options.
func (c *Config) EngineOptions(logger *zerolog.Logger) []lexicon.Option {
	opts := []lexicon.Option{
		lexicon.WithBasePath(c.BasePath),
		lexicon.WithReferenceLocale(c.ReferenceLocale),
		lexicon.WithStrictKeys(c.StrictKeys),
		lexicon.WithOutputDir(c.OutputDir),
		lexicon.WithDiffer(differ.New(differ.WithIdenticalAsMissing(c.IdenticalAsMissing))),
		lexicon.WithTranslateOptions(
			translate.WithBatchSize(c.BatchSize),
			translate.WithTimeout(c.ProviderTimeout),
			translate.WithPrompt(c.Prompt()),
		),
	}
	if c.ReferencePath != "" {
		opts = append(opts, lexicon.WithReferencePath(c.ReferencePath))
	}
	if len(c.Locales) > 0 {
		opts = append(opts, lexicon.WithLocales(c.Locales...))
	}
	if c.Concurrency > 0 {
		opts = append(opts, lexicon.WithConcurrency(c.Concurrency))
	}
	if logger != nil {
		opts = append(opts, lexicon.WithLogger(logger))
	}
	return opts
}

// Prompt returns the prompt settings for translation requests.
func (c *Config) Prompt() *translate.Prompt {
	return &translate.Prompt{Context: c.ProductContext, Glossary: c.Glossary}
}

// ProviderSettings returns the settings for the configured provider.
func (c *Config) ProviderSettings() registry.Settings {
	return registry.Settings{
		Provider: c.Provider,
		Model:    c.Model,
		BaseURL:  c.APIBaseURL,
		Timeout:  c.ProviderTimeout,
	}
}
