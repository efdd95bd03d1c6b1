package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/nbcheck/cmd/nbcheck/cmd/check"
	"github.com/agentstation/nbcheck/cmd/nbcheck/cmd/completion"
)

// Execute runs the nbcheck CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "nbcheck",
		Short:   "NetBox interface reconciliation CLI",
		Version: a.version,
		Long: `nbcheck compares the interface data reported by network devices with the
interface records of a NetBox inventory and optionally writes corrections
back to NetBox.

NetBox is reached with NETBOX_URL and NETBOX_TOKEN, read from the
environment, a .env file or ~/.nbcheck.yaml.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	// Defaults are the loaded values so flags only override what they set.
	c := a.config
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&c.ConfigFile, "config", "", "config file (default is $HOME/.nbcheck.yaml)")
	pf.BoolVarP(&c.Verbose, "verbose", "v", c.Verbose, "verbose output (shortcut for --log-level=debug)")
	pf.BoolVarP(&c.Quiet, "quiet", "q", c.Quiet, "minimal output (shortcut for --log-level=warn)")
	pf.BoolVar(&c.NoColor, "no-color", c.NoColor, "disable colored output")
	pf.StringVarP(&c.Format, "format", "o", c.Format, "output format: table, json, yaml")
	pf.StringVar(&c.LogLevel, "log-level", c.LogLevel, "log level: trace, debug, info, warn, error (overrides -v/-q)")

	rootCmd.SetVersionTemplate("nbcheck {{.Version}}\n")

	_ = rootCmd.RegisterFlagCompletionFunc("format", cobra.FixedCompletions(
		[]string{"table", "json", "yaml"}, cobra.ShellCompDirectiveNoFileComp))
	_ = rootCmd.RegisterFlagCompletionFunc("log-level", cobra.FixedCompletions(
		[]string{"trace", "debug", "info", "warn", "error"}, cobra.ShellCompDirectiveNoFileComp))

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	if cmd.Flags().Changed("config") {
		config, err := loadConfigFile(a.config.ConfigFile)
		if err != nil {
			return err
		}
		config.UpdateFromFlags(a.config.Verbose, a.config.Quiet, a.config.NoColor, a.config.Format, a.config.LogLevel)
		a.config = config
	}

	if a.config.NoColor {
		_ = os.Setenv("NO_COLOR", "1")
	}

	logger := NewLogger(a.config)
	a.logger = &logger

	return nil
}

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	rootCmd.AddCommand(check.NewCommand(a))
	rootCmd.AddCommand(a.NewVersionCommand())
	rootCmd.AddCommand(completion.NewCommand())
}

// ExitOnError prints an error on one line and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
}
