package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/lexicon/internal/cmd/output"
)

// Execute runs the lexicon CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// persistent flags whose values override the loaded configuration
var stringOverrides = []string{"format", "log-level", "base-path", "reference", "output-dir"}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "lexicon",
		Short:   "Translation catalog reconciliation",
		Version: a.version,
		Long: `Lexicon keeps the locale files of an application in step with a reference
locale. It compares every locale against the reference, sends the missing
keys to an LLM translation provider, and writes the answers back into the
locale files without disturbing the rest of their content.

Locale files live under <base-path>/<locale>/ as JSON, YAML or TOML.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "review",
		Title: "Review Commands:",
	})

	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.lexicon.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "output format: table, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")
	flags.String("base-path", "", "directory holding one subdirectory per locale")
	flags.String("reference", "", "reference locale")
	flags.String("output-dir", "", "directory for generated reports")

	rootCmd.SetVersionTemplate("lexicon {{.Version}}\n")

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs. It reloads the config
// when --config is given, applies the persistent flags, and rebuilds the
// logger.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if path := mustGetString(cmd, "config"); path != "" {
		config, err := LoadConfig(path)
		if err != nil {
			return err
		}
		*a.config = *config
	}

	if cmd.Flags().Changed("verbose") {
		a.config.Verbose = mustGetBool(cmd, "verbose")
	}
	if cmd.Flags().Changed("quiet") {
		a.config.Quiet = mustGetBool(cmd, "quiet")
	}
	if cmd.Flags().Changed("no-color") {
		a.config.NoColor = mustGetBool(cmd, "no-color")
	}

	overrides := make(map[string]string)
	for _, name := range stringOverrides {
		if cmd.Flags().Changed(name) {
			overrides[name] = mustGetString(cmd, name)
		}
	}
	UpdateFromFlags(a.config, overrides)

	if _, err := output.ParseFormat(a.config.Format); err != nil {
		return err
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		//nolint:errcheck // Ignoring write error since we're exiting anyway
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
