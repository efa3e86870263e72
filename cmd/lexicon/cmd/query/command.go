// Package query provides the query command implementation.
package query

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/cmdutil"
	"github.com/agentstation/lexicon/internal/cmd/output"
	"github.com/agentstation/lexicon/pkg/report"
)

// NewCommand creates the query command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "query <locale> <jsonpath>",
		GroupID: "review",
		Short:   "Evaluate a JSONPath expression against a locale",
		Long: `Query merges every file of a locale into one tree and evaluates a JSONPath
expression against it. Later files win on shared paths.`,
		Example: `  lexicon query en '$.menu.*'
  lexicon query fr '$..title' -o yaml`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			locale, expr := args[0], args[1]

			cfg := app.Config()
			if locale != cfg.ReferenceLocale {
				cfg.Locales = []string{locale}
			}
			_, ws, err := cmdutil.Load(cmd.Context(), app)
			if err != nil {
				return err
			}

			results, err := ws.Query(locale, expr)
			if err != nil {
				return err
			}
			if results == nil {
				results = []any{}
			}
			return cmdutil.Print(cmd, app, results, func() output.Data {
				data := output.Data{Headers: []string{"Value"}}
				for _, r := range results {
					data.Rows = append(data.Rows, []string{report.FormatValue(r)})
				}
				return data
			})
		},
	}
}
