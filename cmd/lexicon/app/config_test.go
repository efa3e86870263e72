package app

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/errors"
)

// isolate runs the test in an empty working directory and home so no real
// config or .env file is picked up.
func isolate(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	return dir
}

func TestLoadConfigDefaults(t *testing.T) {
	isolate(t)

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "locales", config.BasePath)
	assert.Equal(t, constants.DefaultReferenceLocale, config.ReferenceLocale)
	assert.Equal(t, constants.DefaultOutputDir, config.OutputDir)
	assert.True(t, config.IdenticalAsMissing)
	assert.Equal(t, constants.DefaultConcurrency, config.Concurrency)
	assert.Equal(t, constants.DefaultProvider, config.Provider)
	assert.Equal(t, constants.DefaultProviderTimeout, config.ProviderTimeout)
	assert.Equal(t, ".", config.SearchPath)
	assert.Empty(t, config.LogLevel)
	assert.Equal(t, "auto", config.LogFormat)
	assert.Empty(t, config.ConfigFile)
}

func TestLoadConfigEnvironment(t *testing.T) {
	isolate(t)
	t.Setenv("LEXICON_BASE_PATH", "public/i18n")
	t.Setenv("LEXICON_LOCALES", "fr, de")
	t.Setenv("LEXICON_BATCH_SIZE", "25")
	t.Setenv("LEXICON_IDENTICAL_AS_MISSING", "false")
	t.Setenv("LEXICON_PROVIDER_TIMEOUT", "2m")
	t.Setenv("LEXICON_LOG_LEVEL", "debug")

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "public/i18n", config.BasePath)
	assert.Equal(t, []string{"fr", "de"}, config.Locales)
	assert.Equal(t, 25, config.BatchSize)
	assert.False(t, config.IdenticalAsMissing)
	assert.Equal(t, 2*time.Minute, config.ProviderTimeout)
	assert.Equal(t, "debug", config.LogLevel)
}

func TestLoadConfigFile(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".lexicon.yaml"), []byte(`
base_path: web/locales
reference_locale: en-US
locales: [fr, ja]
provider: gemini
product_context: A recipe app.
glossary:
  pantry: the list of ingredients the user owns
scan_exclude:
  - "dist/**"
`), 0o644))

	config, err := LoadConfig("")
	require.NoError(t, err)

	assert.Equal(t, "web/locales", config.BasePath)
	assert.Equal(t, "en-US", config.ReferenceLocale)
	assert.Equal(t, []string{"fr", "ja"}, config.Locales)
	assert.Equal(t, "gemini", config.Provider)
	assert.Equal(t, map[string]string{"pantry": "the list of ingredients the user owns"}, config.Glossary)
	assert.Equal(t, []string{"dist/**"}, config.ScanExclude)
	assert.Equal(t, "A recipe app.", config.Prompt().Context)
	assert.NotEmpty(t, config.ConfigFile)

	// environment wins over the file
	t.Setenv("LEXICON_PROVIDER", "openai")
	config, err = LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "openai", config.Provider)
}

func TestLoadConfigExplicitFile(t *testing.T) {
	dir := isolate(t)
	path := filepath.Join(dir, "custom.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output_dir: reports\nconcurrency: 8\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "reports", config.OutputDir)
	assert.Equal(t, 8, config.Concurrency)
	assert.Equal(t, path, config.ConfigFile)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	var cfgErr *errors.ConfigError
	assert.ErrorAs(t, err, &cfgErr)
}

func TestLoadConfigDotEnv(t *testing.T) {
	dir := isolate(t)
	t.Cleanup(func() { os.Unsetenv("LEXICON_MODEL") })
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LEXICON_MODEL=from-env\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env.local"), []byte("LEXICON_MODEL=from-local\n"), 0o644))

	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, "from-local", config.Model)
}

func TestUpdateFromFlags(t *testing.T) {
	config := &Config{BasePath: "locales", ReferenceLocale: "en"}
	UpdateFromFlags(config, map[string]string{
		"base-path":  "i18n",
		"reference":  "de",
		"format":     "yaml",
		"output-dir": "out",
		"log-level":  "warn",
	})
	assert.Equal(t, &Config{
		BasePath:        "i18n",
		ReferenceLocale: "de",
		Format:          "yaml",
		OutputDir:       "out",
		LogLevel:        "warn",
	}, config)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"fr", "de", "ja"}, splitList([]string{"fr,de", " ja ", ""}))
	assert.Nil(t, splitList(nil))
}
