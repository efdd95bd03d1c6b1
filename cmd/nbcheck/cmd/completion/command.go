// Package completion provides the shell completion command.
package completion

import (
	"fmt"

	"github.com/spf13/cobra"
)

// shells lists the supported shells with the generator for each.
var shells = []struct {
	name  string
	usage string
	gen   func(root *cobra.Command, cmd *cobra.Command) error
}{
	{
		name:  "bash",
		usage: "source <(nbcheck completion bash)",
		gen: func(root, cmd *cobra.Command) error {
			return root.GenBashCompletionV2(cmd.OutOrStdout(), true)
		},
	},
	{
		name:  "zsh",
		usage: `nbcheck completion zsh > "${fpath[1]}/_nbcheck"`,
		gen: func(root, cmd *cobra.Command) error {
			return root.GenZshCompletion(cmd.OutOrStdout())
		},
	},
	{
		name:  "fish",
		usage: "nbcheck completion fish > ~/.config/fish/completions/nbcheck.fish",
		gen: func(root, cmd *cobra.Command) error {
			return root.GenFishCompletion(cmd.OutOrStdout(), true)
		},
	},
	{
		name:  "powershell",
		usage: "nbcheck completion powershell | Out-String | Invoke-Expression",
		gen: func(root, cmd *cobra.Command) error {
			return root.GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
		},
	},
}

// NewCommand creates the completion command. It replaces the one cobra
// generates so the scripts also complete --platform, --format and
// --log-level values.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion",
		Short: "Generate shell completion scripts",
		Long: `Generate a completion script for nbcheck and write it to stdout.

Examples:
  # Load bash completions in the current shell
  source <(nbcheck completion bash)

  # Install zsh completions
  nbcheck completion zsh > "${fpath[1]}/_nbcheck"`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	for _, sh := range shells {
		gen := sh.gen
		cmd.AddCommand(&cobra.Command{
			Use:                   sh.name,
			Short:                 fmt.Sprintf("Generate %s completion script", sh.name),
			Long:                  fmt.Sprintf("Generate the autocompletion script for %s.\n\n  %s", sh.name, sh.usage),
			Args:                  cobra.NoArgs,
			DisableFlagsInUseLine: true,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return gen(cmd.Root(), cmd)
			},
		})
	}

	return cmd
}
