package app

import (
	"runtime"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"

	"github.com/agentstation/lexicon/cmd/lexicon/cmd/compare"
	memorycmd "github.com/agentstation/lexicon/cmd/lexicon/cmd/memory"
	"github.com/agentstation/lexicon/cmd/lexicon/cmd/patch"
	"github.com/agentstation/lexicon/cmd/lexicon/cmd/qa"
	"github.com/agentstation/lexicon/cmd/lexicon/cmd/query"
	"github.com/agentstation/lexicon/cmd/lexicon/cmd/translate"
	"github.com/agentstation/lexicon/cmd/lexicon/cmd/unused"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(compare.NewCommand(a))
	rootCmd.AddCommand(translate.NewCommand(a))
	rootCmd.AddCommand(patch.NewCommand(a))

	// Review commands
	rootCmd.AddCommand(qa.NewCommand(a))
	rootCmd.AddCommand(unused.NewCommand(a))
	rootCmd.AddCommand(query.NewCommand(a))
	rootCmd.AddCommand(memorycmd.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
	rootCmd.AddCommand(a.newManCommand())
}

func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("lexicon version %s\n", a.version)
			cmd.Printf("commit: %s\n", a.commit)
			cmd.Printf("built: %s\n", a.date)
			cmd.Printf("built by: %s\n", a.builtBy)
			cmd.Printf("go version: %s\n", runtime.Version())
			cmd.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

func (a *App) newManCommand() *cobra.Command {
	return &cobra.Command{
		Use:    "man",
		Short:  "Generate man page",
		Long:   `Generate man page for the lexicon CLI tool.`,
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			header := &doc.GenManHeader{
				Title:   "LEXICON",
				Section: "1",
				Source:  "lexicon " + a.version,
				Manual:  "lexicon Manual",
			}
			return doc.GenMan(cmd.Root(), header, cmd.OutOrStdout())
		},
	}
}
