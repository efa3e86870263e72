// Package memory provides the memory command implementation.
package memory

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon/internal/appcontext"
	"github.com/agentstation/lexicon/internal/cmd/cmdutil"
	"github.com/agentstation/lexicon/pkg/errors"
)

// allLocales labels the total row of memory stats.
const allLocales = "all"

// Store is the part of the translation memory these commands manage.
type Store interface {
	Count(ctx context.Context, locale string) (int, error)
	Forget(ctx context.Context, locale string) (int64, error)
}

// Entries counts remembered translations of a locale.
type Entries struct {
	Locale  string `json:"locale" yaml:"locale"`
	Entries int64  `json:"entries" yaml:"entries"`
}

// NewCommand creates the memory command using app context.
func NewCommand(app appcontext.Interface) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "memory",
		GroupID: "review",
		Short:   "Inspect or clear the translation memory",
		Long: `Memory manages the SQLite translation memory configured by memory_path.
Remembered translations are reused for the exact source text they were made
from. Forget a locale to have every key translated again on the next run.`,
		Args: cobra.NoArgs,
	}
	cmd.AddCommand(newStatsCommand(app), newForgetCommand(app))
	return cmd
}

func newStatsCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [locale...]",
		Short: "Count remembered translations",
		Example: `  lexicon memory stats           # Total entries
  lexicon memory stats fr de     # Entries per locale`,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(app)
			if err != nil {
				return err
			}
			if len(args) == 0 {
				args = []string{""}
			}

			rows := make([]Entries, 0, len(args))
			for _, locale := range args {
				n, err := store.Count(cmd.Context(), locale)
				if err != nil {
					return err
				}
				if locale == "" {
					locale = allLocales
				}
				rows = append(rows, Entries{Locale: locale, Entries: int64(n)})
			}
			return cmdutil.Print(cmd, app, rows, nil)
		},
	}
}

func newForgetCommand(app appcontext.Interface) *cobra.Command {
	return &cobra.Command{
		Use:     "forget <locale>...",
		Short:   "Remove every remembered translation of the given locales",
		Example: `  lexicon memory forget fr       # Translate fr from scratch next time`,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := open(app)
			if err != nil {
				return err
			}

			rows := make([]Entries, 0, len(args))
			for _, locale := range args {
				n, err := store.Forget(cmd.Context(), locale)
				if err != nil {
					return err
				}
				app.Logger().Info().Str("locale", locale).Int64("removed", n).Msg("Forgot remembered translations")
				rows = append(rows, Entries{Locale: locale, Entries: n})
			}
			return cmdutil.Print(cmd, app, rows, nil)
		},
	}
}

func open(app appcontext.Interface) (Store, error) {
	m, err := app.Memory()
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, errors.NewConfigError("memory", "no translation memory configured; set memory_path", nil)
	}
	store, ok := m.(Store)
	if !ok {
		return nil, errors.NewConfigError("memory", "translation memory cannot be managed", nil)
	}
	return store, nil
}
