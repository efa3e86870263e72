// Package unused provides the unused command implementation.
package unused

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/cmdutil"
	"github.com/agentstation/lexicon/internal/cmd/output"
	"github.com/agentstation/lexicon/internal/scan"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/logging"
	"github.com/agentstation/lexicon/pkg/report"
)

// Flags holds the unused command flags.
type Flags struct {
	SearchPath string
	Exclude    []string
}

// NewCommand creates the unused command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "unused",
		GroupID: "review",
		Short:   "Find reference keys that no source file mentions",
		Long: `Unused searches every file under the search path for each reference key and
writes the keys found nowhere to unused_keys.csv. A key counts as used when
its full dotted path appears anywhere in a file. The locale directories,
.git and node_modules are never searched.`,
		Example: `  lexicon unused --search-path ./src
  lexicon unused --search-path . --exclude "dist/**" --exclude "**/*.min.js"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := app.Config()
			if cmd.Flags().Changed("search-path") {
				cfg.SearchPath = flags.SearchPath
			}
			cfg.ScanExclude = append(cfg.ScanExclude, flags.Exclude...)

			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			engine, ws, err := cmdutil.Load(ctx, app)
			if err != nil {
				return err
			}

			keys, err := engine.Unused(ctx, ws, &scan.Scanner{
				Root:    cfg.SearchPath,
				Exclude: cfg.ScanExclude,
			})
			if err != nil {
				return err
			}

			path, err := cmdutil.WriteReport(app, constants.UnusedKeysFile, func(w io.Writer) error {
				return report.WriteUnusedKeys(w, keys)
			})
			if err != nil {
				return err
			}
			app.Logger().Info().
				Str("file", path).
				Int("unused", len(keys)).
				Int("keys", ws.ReferenceCatalog.Len()).
				Msg("Wrote unused keys")

			if keys == nil {
				keys = []string{}
			}
			return cmdutil.Print(cmd, app, keys, func() output.Data {
				return output.KeysTable("Unused key", keys)
			})
		},
	}

	cmd.Flags().StringVarP(&flags.SearchPath, "search-path", "s", ".",
		"Directory to search for key references")
	cmd.Flags().StringArrayVarP(&flags.Exclude, "exclude", "e", nil,
		"Glob of paths to skip, relative to the search path (repeatable)")

	return cmd
}
