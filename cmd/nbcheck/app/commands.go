package app

import (
	"runtime"

	"github.com/spf13/cobra"

	"github.com/agentstation/nbcheck/internal/cmd/output"
)

// versionInfo is the structured form of the version command output.
type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit" yaml:"commit"`
	Date      string `json:"built" yaml:"built"`
	BuiltBy   string `json:"built_by" yaml:"built_by"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := versionInfo{
				Version:   a.version,
				Commit:    a.commit,
				Date:      a.date,
				BuiltBy:   a.builtBy,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}

			if a.config.Format != "" {
				format, err := output.ParseFormat(a.config.Format)
				if err != nil {
					return err
				}
				if format != output.FormatTable {
					return output.NewFormatter(format).Format(cmd.OutOrStdout(), info)
				}
			}

			cmd.Printf("nbcheck %s\n", info.Version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", info.Commit)
				cmd.Printf("  built:    %s\n", info.Date)
				cmd.Printf("  built by: %s\n", info.BuiltBy)
				cmd.Printf("  go:       %s %s\n", info.GoVersion, info.Platform)
			}
			return nil
		},
	}
}
