// Package constants provides shared constants used throughout the lexicon codebase.
// This includes timeouts, limits, file permissions, report file names, and the
// default values every configurable component falls back to.
package constants

import "time"

// Timeout constants define various timeout durations used in the application
const (
	// DefaultProviderTimeout bounds a single translation provider call
	DefaultProviderTimeout = 60 * time.Second

	// DefaultHTTPTimeout is the transport-level timeout for provider HTTP requests.
	// It is slightly longer than DefaultProviderTimeout so the context deadline fires first.
	DefaultHTTPTimeout = 90 * time.Second

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 30 * time.Minute

	// WatchDebounce is how long compare --watch waits for file events to settle
	WatchDebounce = 500 * time.Millisecond
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Limit constants define various limits and capacities
const (
	// DefaultConcurrency is the number of locales processed in parallel
	DefaultConcurrency = 4

	// DefaultBatchSize of zero sends every missing key of a locale in one request
	DefaultBatchSize = 0

	// MaxScanFileSize is the largest file the unused-key scanner reads (8 MB)
	MaxScanFileSize = 8 * 1024 * 1024

	// MaxErrorBodyLength caps how much of a provider response is kept on errors
	MaxErrorBodyLength = 512
)

// Logging constants
const (
	// LogRotationSizeMB is the maximum size of a log file before rotation
	LogRotationSizeMB = 10

	// LogRotationAgeDays is the maximum age of log files before deletion
	LogRotationAgeDays = 7

	// LogRotationBackups is the maximum number of old log files to retain
	LogRotationBackups = 5
)

// Default values
const (
	// DefaultReferenceLocale is the locale treated as source of truth
	DefaultReferenceLocale = "en"

	// DefaultOutputDir is where reports are written
	DefaultOutputDir = "locale_comparison"

	// DefaultProvider is the translation provider when none is specified
	DefaultProvider = "openai"

	// DefaultOpenAIModel is the default chat completions model
	DefaultOpenAIModel = "gpt-4o-2024-08-06"

	// DefaultOpenAIBaseURL is the OpenAI API root
	DefaultOpenAIBaseURL = "https://api.openai.com/v1"

	// DefaultGeminiModel is the default Gemini model
	DefaultGeminiModel = "gemini-2.0-flash"

	// ConfigFileName is the config file looked up in $HOME and the working directory
	ConfigFileName = ".lexicon"

	// EnvPrefix is the prefix for configuration environment variables
	EnvPrefix = "LEXICON"
)

// Report file names written to the output directory
const (
	ReferenceLabelsFile = "english_labels.csv"
	ComparisonFile      = "locale_key_comparison_consolidated.csv"
	TranslatedFile      = "translated_locale_key_comparison_consolidated.csv"
	IntermediateFile    = "intermediate_translations.json"
	QAFile              = "locale_translation_comparison.csv"
	UnusedKeysFile      = "unused_keys.csv"
)

// Format constants
const (
	// TimeFormatLog is the format used in log files
	TimeFormatLog = "2006-01-02 15:04:05.000"
)
