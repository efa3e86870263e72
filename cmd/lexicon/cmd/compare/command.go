// Package compare provides the compare command implementation.
package compare

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/cmdutil"
	"github.com/agentstation/lexicon/internal/cmd/hints"
	"github.com/agentstation/lexicon/internal/cmd/output"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/differ"
	"github.com/agentstation/lexicon/pkg/errors"
	"github.com/agentstation/lexicon/pkg/report"
)

// Flags holds the compare command flags.
type Flags struct {
	Watch   bool
	Details bool
	Only    string
	Locales *cmdutil.LocaleFlags
}

// NewCommand creates the compare command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "compare",
		GroupID: "core",
		Short:   "Compare every locale against the reference locale",
		Long: `Compare diffs each target locale against the reference locale and writes
two reports into the output directory:

  english_labels.csv                       every reference key with its value
  locale_key_comparison_consolidated.csv   missing and extraneous keys per locale

A key counts as missing when it is absent from the locale, or when its value
is identical to the reference (unless identical_as_missing is disabled).`,
		Example: `  lexicon compare                    # Compare all locales
  lexicon compare -l fr,de           # Compare selected locales
  lexicon compare --watch            # Re-run whenever a locale file changes
  lexicon compare --details          # List every missing and extraneous key
  lexicon compare --only missing     # Summarize missing keys only
  lexicon compare -o json            # Print the summary as JSON`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.Locales.Apply(app.Config())
			if err := flags.validate(); err != nil {
				return err
			}
			if flags.Watch {
				return Watch(cmd.Context(), cmd, app, flags)
			}
			return run(cmd.Context(), cmd, app, flags)
		},
	}

	cmd.Flags().BoolVarP(&flags.Watch, "watch", "w", false,
		"Re-run the comparison whenever a locale file changes")
	cmd.Flags().BoolVarP(&flags.Details, "details", "d", false,
		"List every changed key after the summary (table output)")
	cmd.Flags().StringVar(&flags.Only, "only", "",
		"Restrict the printed result to one change type (missing, extraneous)")
	flags.Locales = cmdutil.AddLocaleFlags(cmd)

	return cmd
}

func (f *Flags) validate() error {
	switch differ.ChangeType(f.Only) {
	case "", differ.ChangeTypeMissing, differ.ChangeTypeExtraneous:
		return nil
	default:
		return errors.NewValidationError("only", f.Only, "must be one of: missing, extraneous")
	}
}

// run compares once. Reports always hold every change; --only narrows what
// is printed.
func run(ctx context.Context, cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	_, ws, err := cmdutil.Load(ctx, app)
	if err != nil {
		return err
	}
	cs, _, err := Write(app, ws)
	if err != nil {
		return err
	}
	if flags.Only != "" {
		cs = cs.Filter(differ.ChangeType(flags.Only))
	}
	if err := cmdutil.Print(cmd, app, cs.Summary, func() output.Data {
		return output.ChangesetTable(cs.Summary)
	}); err != nil {
		return err
	}
	if flags.Details && cmdutil.IsTable(app) {
		fmt.Fprintln(cmd.OutOrStdout())
		cs.Print(cmd.OutOrStdout())
	}
	cmdutil.Hints(cmd, app, hints.AfterCompare(cs.Summary))
	return nil
}

// Write compares the workspace and writes both comparison reports. It
// returns the changeset and the rows written to the consolidated report.
func Write(app appcontext.Interface, ws *lexicon.Workspace) (*differ.Changeset, []report.DiffRecord, error) {
	logger := app.Logger()
	cs := ws.Compare()
	records := ws.DiffRecords(cs)

	labels := ws.ReferenceLabels()
	path, err := cmdutil.WriteReport(app, constants.ReferenceLabelsFile, func(w io.Writer) error {
		return report.WriteReferenceLabels(w, labels)
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info().Str("file", path).Int("rows", len(labels)).Msg("Wrote reference labels")

	path, err = cmdutil.WriteReport(app, constants.ComparisonFile, func(w io.Writer) error {
		return report.WriteDiffRecords(w, records)
	})
	if err != nil {
		return nil, nil, err
	}
	logger.Info().
		Str("file", path).
		Int("missing", cs.Summary.TotalMissing).
		Int("extraneous", cs.Summary.TotalExtraneous).
		Msg("Wrote locale comparison")

	return cs, records, nil
}
