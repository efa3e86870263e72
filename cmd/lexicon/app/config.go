package app

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
)

// Config holds the application configuration loaded from various sources
// including config files, environment variables, and .env files.
type Config = appcontext.Config

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (applied later by setupCommand)
//  2. Environment variables (LEXICON_ prefix)
//  3. .env files
//  4. Config file (configFile, or .lexicon.yaml in $HOME or the working directory)
//  5. Defaults
func LoadConfig(configFile string) (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	bindAPIKeys(v)

	if configFile == "" {
		configFile = os.Getenv(constants.EnvPrefix + "_CONFIG")
	}
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.NewConfigError("config", "reading "+configFile, err)
		}
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		v.AddConfigPath(".")
		v.SetConfigType("yaml")
		v.SetConfigName(constants.ConfigFileName)

		// Read config file (ignore error if not found)
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, errors.NewConfigError("config", "reading "+v.ConfigFileUsed(), err)
			}
		}
	}

	config := &Config{
		Verbose: v.GetBool("verbose"),
		Quiet:   v.GetBool("quiet"),
		NoColor: v.GetBool("no_color"),
		Format:  v.GetString("format"),

		ConfigFile: v.ConfigFileUsed(),

		BasePath:        v.GetString("base_path"),
		ReferenceLocale: v.GetString("reference_locale"),
		ReferencePath:   v.GetString("reference_path"),
		OutputDir:       v.GetString("output_dir"),
		Locales:         splitList(v.GetStringSlice("locales")),

		StrictKeys:         v.GetBool("strict_keys"),
		IdenticalAsMissing: v.GetBool("identical_as_missing"),
		Concurrency:        v.GetInt("concurrency"),

		Provider:        v.GetString("provider"),
		Model:           v.GetString("model"),
		APIBaseURL:      v.GetString("api_base_url"),
		ProviderTimeout: v.GetDuration("provider_timeout"),
		BatchSize:       v.GetInt("batch_size"),
		MemoryPath:      v.GetString("memory_path"),
		ProductContext:  v.GetString("product_context"),
		Glossary:        v.GetStringMapString("glossary"),
		FailOnError:     v.GetBool("fail_on_error"),

		SearchPath:  v.GetString("search_path"),
		ScanExclude: splitList(v.GetStringSlice("scan_exclude")),

		LogLevel:  v.GetString("log_level"),
		LogFormat: v.GetString("log_format"),
		LogOutput: v.GetString("log_output"),
	}

	return config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("base_path", "locales")
	v.SetDefault("reference_locale", constants.DefaultReferenceLocale)
	v.SetDefault("output_dir", constants.DefaultOutputDir)
	v.SetDefault("identical_as_missing", true)
	v.SetDefault("concurrency", constants.DefaultConcurrency)
	v.SetDefault("provider", constants.DefaultProvider)
	v.SetDefault("provider_timeout", constants.DefaultProviderTimeout)
	v.SetDefault("batch_size", constants.DefaultBatchSize)
	v.SetDefault("search_path", ".")
	v.SetDefault("log_format", "auto")
	v.SetDefault("log_output", "stderr")
}

// UpdateFromFlags applies the persistent flag values that were set.
// Flag values take precedence over config file and env vars.
func UpdateFromFlags(c *Config, flags map[string]string) {
	for name, value := range flags {
		switch name {
		case "format":
			c.Format = value
		case "log-level":
			c.LogLevel = value
		case "base-path":
			c.BasePath = value
		case "reference":
			c.ReferenceLocale = value
		case "output-dir":
			c.OutputDir = value
		}
	}
}

// splitList flattens comma-separated entries and drops blanks.
func splitList(values []string) []string {
	var out []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}

// loadEnvFiles loads environment variables from .env files.
// .env.local is loaded first so its values win, since godotenv never
// overrides a variable that is already set.
func loadEnvFiles() {
	for _, envFile := range []string{".env.local", ".env"} {
		_ = godotenv.Load(envFile)
	}
}

// bindAPIKeys explicitly binds provider API key environment variables.
func bindAPIKeys(v *viper.Viper) {
	apiKeys := []string{
		"OPENAI_API_KEY",
		"GEMINI_API_KEY",
		"GOOGLE_API_KEY",
	}

	for _, key := range apiKeys {
		if err := v.BindEnv(strings.ToLower(key), key); err != nil {
			// Log warning but continue - this isn't critical
			fmt.Fprintf(os.Stderr, "Warning: failed to bind environment variable %s: %v\n", key, err)
		}
	}
}
