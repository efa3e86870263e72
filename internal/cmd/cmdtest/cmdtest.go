// Package cmdtest provides fixtures for command tests.
package cmdtest

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Locales is a small workspace: fr lacks one key and copies another from
// the reference, de is complete and carries an extra key.
var Locales = map[string]string{
	"en/common.json": `{"greeting": "Hello", "farewell": "Goodbye", "brand": "Lexicon"}`,
	"fr/common.json": `{"greeting": "Hello", "brand": "Lexicon"}`,
	"de/common.json": `{"greeting": "Hallo", "farewell": "Tschüss", "brand": "Lexikon", "old": "alt"}`,
}

// WriteFiles writes files relative to base.
func WriteFiles(t *testing.T, base string, files map[string]string) {
	t.Helper()
	for rel, content := range files {
		p := filepath.Join(base, filepath.FromSlash(rel))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
}

// Fixture is a temporary workspace wired to a mock application.
type Fixture struct {
	Dir    string
	App    *appcontext.Mock
	Logger *logging.TestLogger
}

// New writes Locales under a temp dir and returns a mock application
// pointing at it.
func New(t *testing.T) *Fixture {
	t.Helper()
	dir := t.TempDir()
	WriteFiles(t, filepath.Join(dir, "locales"), Locales)

	tl := logging.NewTestLogger(t)
	return &Fixture{
		Dir:    dir,
		Logger: tl,
		App: &appcontext.Mock{
			Cfg: &appcontext.Config{
				BasePath:           filepath.Join(dir, "locales"),
				ReferenceLocale:    "en",
				OutputDir:          filepath.Join(dir, "out"),
				IdenticalAsMissing: true,
				Concurrency:        2,
				Provider:           "stub",
			},
			LoggerValue: tl.Logger,
			Format:      "json",
		},
	}
}

// Path returns a path inside the fixture directory.
func (f *Fixture) Path(rel ...string) string {
	return filepath.Join(append([]string{f.Dir}, rel...)...)
}

// Run executes cmd with args and returns its standard output. Standard
// error is discarded.
func Run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// Provider translates every item to "<locale>:<text>". Locales listed in
// Fail return Err.
type Provider struct {
	Fail map[string]bool
	Err  error
}

// Name implements translate.Provider.
func (p *Provider) Name() string { return "stub" }

// Translate implements translate.Provider.
func (p *Provider) Translate(_ context.Context, req *translate.Request) (*translate.Response, error) {
	if p.Fail[req.Locale] {
		return nil, p.Err
	}
	resp := &translate.Response{}
	for _, it := range req.Items {
		resp.Result = append(resp.Result, translate.Result{
			Key:             it.Key,
			EN:              it.Text,
			TranslatedValue: req.Locale + ":" + it.Text,
			Locale:          req.Locale,
		})
	}
	return resp, nil
}
