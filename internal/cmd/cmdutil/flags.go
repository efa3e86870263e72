// Package cmdutil provides shared helpers for lexicon commands.
package cmdutil

import (
	"context"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/hints"
	"github.com/agentstation/lexicon/internal/cmd/output"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/report"
)

// LocaleFlags holds the locale filter shared by commands that load a
// workspace.
type LocaleFlags struct {
	Locales []string
}

// AddLocaleFlags adds the --locales flag to a command.
func AddLocaleFlags(cmd *cobra.Command) *LocaleFlags {
	flags := &LocaleFlags{}
	cmd.Flags().StringSliceVarP(&flags.Locales, "locales", "l", nil,
		"Only process these locales (comma separated)")
	return flags
}

// Apply overrides the configured locales when the flag was given.
func (f *LocaleFlags) Apply(cfg *appcontext.Config) {
	if len(f.Locales) > 0 {
		cfg.Locales = f.Locales
	}
}

// Load builds an engine from the app configuration and loads the workspace.
func Load(ctx context.Context, app appcontext.Interface) (*lexicon.Engine, *lexicon.Workspace, error) {
	engine, err := app.Engine()
	if err != nil {
		return nil, nil, err
	}
	ws, err := engine.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	return engine, ws, nil
}

// OutputPath returns the path of a report file inside the output directory.
func OutputPath(app appcontext.Interface, name string) string {
	dir := app.Config().OutputDir
	if dir == "" {
		dir = constants.DefaultOutputDir
	}
	return filepath.Join(dir, name)
}

// WriteReport writes a report file inside the output directory.
func WriteReport(app appcontext.Interface, name string, write func(w io.Writer) error) (string, error) {
	path := OutputPath(app, name)
	if err := report.Save(path, write); err != nil {
		return "", err
	}
	return path, nil
}

// Print writes data to the command output in the app's format. table
// converts data for table output and may be nil.
func Print(cmd *cobra.Command, app appcontext.Interface, data any, table func() output.Data) error {
	format, err := output.ParseFormat(app.OutputFormat())
	if err != nil {
		return err
	}
	return output.Print(cmd.OutOrStdout(), format, data, table)
}

// Hints prints next-step guidance to stderr. Nothing is printed for
// structured output or in quiet mode.
func Hints(cmd *cobra.Command, app appcontext.Interface, hs []*hints.Hint) {
	if app.Config().Quiet || len(hs) == 0 {
		return
	}
	if !IsTable(app) {
		return
	}
	hints.Write(cmd.ErrOrStderr(), hs)
}

// IsTable reports whether the app prints tables rather than structured data.
func IsTable(app appcontext.Interface) bool {
	format, err := output.ParseFormat(app.OutputFormat())
	return err == nil && (format == output.FormatTable || format == "")
}
