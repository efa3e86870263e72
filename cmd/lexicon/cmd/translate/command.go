// Package translate provides the translate command implementation.
package translate

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon"
	"github.com/agentstation/lexicon/cmd/lexicon/cmd/compare"
	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/cmdutil"
	"github.com/agentstation/lexicon/internal/cmd/hints"
	"github.com/agentstation/lexicon/internal/cmd/output"
	"github.com/agentstation/lexicon/pkg/constants"
	"github.com/agentstation/lexicon/pkg/report"
	"github.com/agentstation/lexicon/pkg/translate"
)

// Flags holds the translate command flags.
type Flags struct {
	Provider    string
	Model       string
	BatchSize   int
	Input       string
	Fresh       bool
	DryRun      bool
	FailOnError bool
	Locales     *cmdutil.LocaleFlags
}

// NewCommand creates the translate command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "translate",
		GroupID: "core",
		Short:   "Translate missing keys with an LLM provider",
		Long: `Translate sends every missing key of the comparison report to the configured
provider, one request stream per locale, and writes:

  translated_locale_key_comparison_consolidated.csv   the report with answers merged in
  intermediate_translations.json                      the raw accepted answers

The comparison report is read from the output directory when present and
computed otherwise. A locale whose provider call fails is skipped; the others
still complete.`,
		Example: `  lexicon translate                          # Translate with the configured provider
  lexicon translate --provider gemini        # Use Gemini
  lexicon translate --batch-size 50          # Split each locale into batches of 50 keys
  lexicon translate --dry-run                # Show what would be sent`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags.apply(cmd, app.Config())
			return run(cmd.Context(), cmd, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.Provider, "provider", "p", "",
		"Translation provider: openai, gemini")
	cmd.Flags().StringVarP(&flags.Model, "model", "m", "",
		"Model name (defaults per provider)")
	cmd.Flags().IntVar(&flags.BatchSize, "batch-size", 0,
		"Keys per provider request (0 sends each locale in one request)")
	cmd.Flags().StringVarP(&flags.Input, "input", "i", "",
		"Comparison report to translate (default: output directory)")
	cmd.Flags().BoolVar(&flags.Fresh, "fresh", false,
		"Recompute the comparison instead of reading the existing report")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"List the keys that would be translated without calling the provider")
	cmd.Flags().BoolVar(&flags.FailOnError, "fail-on-error", false,
		"Exit with an error when every locale failed")
	flags.Locales = cmdutil.AddLocaleFlags(cmd)

	return cmd
}

func (f *Flags) apply(cmd *cobra.Command, cfg *appcontext.Config) {
	f.Locales.Apply(cfg)
	if cmd.Flags().Changed("provider") {
		cfg.Provider = f.Provider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = f.Model
	}
	if cmd.Flags().Changed("batch-size") {
		cfg.BatchSize = f.BatchSize
	}
	if cmd.Flags().Changed("fail-on-error") {
		cfg.FailOnError = f.FailOnError
	}
}

func run(ctx context.Context, cmd *cobra.Command, app appcontext.Interface, flags *Flags) error {
	logger := app.Logger()

	engine, ws, err := cmdutil.Load(ctx, app)
	if err != nil {
		return err
	}

	rows, err := comparison(app, ws, flags)
	if err != nil {
		return err
	}
	rows = filterLocales(rows, ws)
	records := report.FromDiff(rows)

	if flags.DryRun {
		pending := pendingOutcomes(records, ws.ReferenceLocale())
		return cmdutil.Print(cmd, app, pending, func() output.Data {
			return output.OutcomesTable(pending)
		})
	}

	provider, err := app.Provider()
	if err != nil {
		return err
	}
	memory, err := app.Memory()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	translated, outcomes := engine.Translate(ctx, ws, records, provider, memory)

	path, err := cmdutil.WriteReport(app, constants.TranslatedFile, func(w io.Writer) error {
		return report.WriteTranslationRecords(w, translated, true)
	})
	if err != nil {
		return err
	}
	logger.Info().Str("file", path).Int("rows", len(translated)).Msg("Wrote translated report")

	if err := cmdutil.Print(cmd, app, outcomes, func() output.Data {
		return output.OutcomesTable(outcomes)
	}); err != nil {
		return err
	}
	cmdutil.Hints(cmd, app, hints.AfterTranslate(outcomes))

	if app.Config().FailOnError && allFailed(outcomes) {
		return fmt.Errorf("translation failed for every locale (%d)", len(outcomes))
	}
	return nil
}

// comparison returns the consolidated comparison rows, reading the report
// when one exists and computing it otherwise.
func comparison(app appcontext.Interface, ws *lexicon.Workspace, flags *Flags) ([]report.DiffRecord, error) {
	path := flags.Input
	if path == "" && !flags.Fresh {
		path = cmdutil.OutputPath(app, constants.ComparisonFile)
		if _, err := os.Stat(path); err != nil {
			path = ""
		}
	}
	if path != "" {
		app.Logger().Info().Str("file", path).Msg("Reading comparison report")
		return report.Open(path, report.ReadDiffRecords)
	}
	_, rows, err := compare.Write(app, ws)
	return rows, err
}

// filterLocales drops rows of locales outside the loaded workspace, so a
// --locales filter also applies to a report read from disk.
func filterLocales(rows []report.DiffRecord, ws *lexicon.Workspace) []report.DiffRecord {
	loaded := make(map[string]bool, len(ws.Locales))
	for _, l := range ws.Locales {
		loaded[l] = true
	}
	out := rows[:0:0]
	for _, r := range rows {
		if loaded[r.Locale] {
			out = append(out, r)
		}
	}
	return out
}

func pendingOutcomes(records []report.TranslationRecord, reference string) []translate.Outcome {
	var out []translate.Outcome
	index := make(map[string]int)
	for _, r := range records {
		if r.Status != report.StatusMissing || r.Locale == reference {
			continue
		}
		i, ok := index[r.Locale]
		if !ok {
			i = len(out)
			index[r.Locale] = i
			out = append(out, translate.Outcome{Locale: r.Locale})
		}
		out[i].Requested++
	}
	return out
}

func allFailed(outcomes []translate.Outcome) bool {
	if len(outcomes) == 0 {
		return false
	}
	for _, o := range outcomes {
		if !o.Failed {
			return false
		}
	}
	return true
}
