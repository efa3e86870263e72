// Package patch provides the patch command implementation.
package patch

import (
	"context"
	"slices"

	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/cmdutil"
	"github.com/agentstation/lexicon/internal/cmd/hints"
	"github.com/agentstation/lexicon/internal/cmd/output"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/reconcile"
	"github.com/agentstation/lexicon/pkg/report"
)

// Flags holds the patch command flags.
type Flags struct {
	Input      string
	DryRun     bool
	NoBaseline bool
	Indent     int
	Locales    *cmdutil.LocaleFlags
}

// NewCommand creates the patch command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "patch",
		GroupID: "core",
		Short:   "Write translations back into the locale files",
		Long: `Patch reconciles every target locale with the reference and applies the
translation records of the input report.

For each reference file the locale file is first completed with every
reference key it lacks (baseline), then the translated values are applied in
report order. When a value's path runs through an existing value, or lands
on an existing object, the patch path wins: the displaced node is dropped and
reported as a conflict. Only changed files are written, so running patch
twice produces no further changes.`,
		Example: `  lexicon patch                                  # Apply the translated report
  lexicon patch --input fixes.csv                # Apply a hand-edited report
  lexicon patch --dry-run                        # Print the files that would change
  lexicon patch --no-baseline                    # Apply translations only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.Locales.Apply(app.Config())
			return run(cmd.Context(), cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Input, "input", "i", "",
		"Translation report to apply (default: translated report in the output directory)")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Reconcile without writing; changed files are printed to stderr")
	cmd.Flags().BoolVar(&flags.NoBaseline, "no-baseline", false,
		"Do not complete locale files with missing reference keys")
	cmd.Flags().IntVar(&flags.Indent, "indent", 2,
		"Indentation of written files")
	flags.Locales = cmdutil.AddLocaleFlags(cmd)

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	engine, ws, err := cmdutil.Load(ctx, app)
	if err != nil {
		return err
	}

	input := flags.Input
	if input == "" {
		input = cmdutil.OutputPath(app, constants.TranslatedFile)
	}
	records, err := report.Open(input, report.ReadTranslationRecords)
	if err != nil {
		return err
	}
	patches := report.Patches(records)
	if len(app.Config().Locales) > 0 {
		patches = slices.DeleteFunc(patches, func(p reconcile.Patch) bool {
			return !slices.Contains(ws.Locales, p.Locale)
		})
	}
	app.Logger().Info().Str("file", input).Int("patches", len(patches)).Msg("Read translation report")

	opts := []lexicon.PatchOption{
		lexicon.WithDryRun(flags.DryRun),
		lexicon.WithNoBaseline(flags.NoBaseline),
		lexicon.WithIndent(flags.Indent),
	}
	if flags.DryRun {
		opts = append(opts, lexicon.WithPreview(cmd.ErrOrStderr()))
	}

	summary, err := engine.Patch(ctx, ws, patches, opts...)
	if err != nil {
		return err
	}
	if err := cmdutil.Print(cmd, app, summary, func() output.Data {
		return output.PatchTable(summary)
	}); err != nil {
		return err
	}
	cmdutil.Hints(cmd, app, hints.AfterPatch(summary))
	return nil
}
