// Package qa provides the qa command implementation.
package qa

import (
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/cmdutil"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/report"
)

// Fill counts how many reference keys a locale has a value for.
type Fill struct {
	Locale string `json:"locale" yaml:"locale"`
	Keys   int    `json:"keys" yaml:"keys"`
	Filled int    `json:"filled" yaml:"filled"`
	Empty  int    `json:"empty" yaml:"empty"`
}

// NewCommand creates the qa command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	var locales *cmdutil.LocaleFlags

	cmd := &cobra.Command{
		Use:     "qa",
		GroupID: "review",
		Short:   "Write a side-by-side review sheet of every locale",
		Long: `QA writes locale_translation_comparison.csv: one row per reference key with
the reference value followed by each locale's value. A locale value appears
only when it lives in the same file as the reference value.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			locales.Apply(app.Config())
			_, ws, err := cmdutil.Load(cmd.Context(), app)
			if err != nil {
				return err
			}

			table := ws.QA()
			path, err := cmdutil.WriteReport(app, constants.QAFile, func(w io.Writer) error {
				return report.WriteQA(w, table)
			})
			if err != nil {
				return err
			}
			app.Logger().Info().Str("file", path).Int("rows", len(table.Rows)).Msg("Wrote review sheet")

			return cmdutil.Print(cmd, app, fills(table), nil)
		},
	}
	locales = cmdutil.AddLocaleFlags(cmd)

	return cmd
}

func fills(table *report.QATable) []Fill {
	out := make([]Fill, 0, len(table.Locales))
	for _, name := range table.Locales {
		f := Fill{Locale: name, Keys: len(table.Rows)}
		for _, row := range table.Rows {
			if _, ok := row.Values[name]; ok {
				f.Filled++
			}
		}
		f.Empty = f.Keys - f.Filled
		out = append(out, f)
	}
	return out
}
