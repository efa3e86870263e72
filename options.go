package lexicon

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/translate"
)

// config holds the engine configuration
type config struct {
	basePath        string
	referenceLocale string
	referencePath   string
	locales         []string
	strictKeys      bool
	concurrency     int
	outputDir       string
	differ          differ.Differ
	logger          *zerolog.Logger
	translateOpts   []translate.Option
}

func defaultConfig() *config {
	return &config{
		basePath:        "locales",
		referenceLocale: constants.DefaultReferenceLocale,
		concurrency:     constants.DefaultConcurrency,
	}
}

// Option is a function that configures an Engine
type Option func(*config) error

// WithBasePath sets the directory holding one subdirectory per locale
func WithBasePath(path string) Option {
	return func(c *config) error {
		if path == "" {
			return errors.NewValidationError("base_path", path, "must not be empty")
		}
		c.basePath = path
		return nil
	}
}

// WithReferenceLocale sets the locale treated as source of truth
func WithReferenceLocale(locale string) Option {
	return func(c *config) error {
		if locale == "" {
			return errors.NewValidationError("reference_locale", locale, "must not be empty")
		}
		c.referenceLocale = locale
		return nil
	}
}

// WithReferencePath reads the reference locale from path instead of
// <base path>/<reference locale>.
func WithReferencePath(path string) Option {
	return func(c *config) error {
		c.referencePath = path
		return nil
	}
}

// WithLocales restricts the run to the given target locales
func WithLocales(locales ...string) Option {
	return func(c *config) error {
		c.locales = append([]string(nil), locales...)
		return nil
	}
}

// WithStrictKeys rejects keys containing the path separator instead of
// warning about them
func WithStrictKeys(strict bool) Option {
	return func(c *config) error {
		c.strictKeys = strict
		return nil
	}
}

// WithConcurrency sets how many locales are processed in parallel
func WithConcurrency(n int) Option {
	return func(c *config) error {
		if n < 1 {
			return errors.NewValidationError("concurrency", n, "must be at least 1")
		}
		c.concurrency = n
		return nil
	}
}

// WithOutputDir sets where intermediate translations are saved. Empty
// disables saving them.
func WithOutputDir(dir string) Option {
	return func(c *config) error {
		c.outputDir = dir
		return nil
	}
}

// WithDiffer replaces the default comparator
func WithDiffer(d differ.Differ) Option {
	return func(c *config) error {
		c.differ = d
		return nil
	}
}

// WithLogger sets the logger used when the context carries none
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithTranslateOptions passes options to the batcher used by Translate
func WithTranslateOptions(opts ...translate.Option) Option {
	return func(c *config) error {
		c.translateOpts = append(c.translateOpts, opts...)
		return nil
	}
}
