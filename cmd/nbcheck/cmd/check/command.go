// Package check provides the check command.
package check

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/nbcheck/cmd/application"
)

// NewCommand creates the check command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:     "check",
		GroupID: "core",
		Short:   "Compare observed interfaces with the inventory",
		Args:    cobra.NoArgs,
		Long: `Check compares the interfaces reported by live devices with the interface
records in NetBox and prints the differences as a table, JSON or YAML.

The observed file maps each host to its interfaces:

  {"devices": {"leaf1": [{"name": "Ethernet1", "mtu": 9214, ...}]}}

Devices are selected in NetBox by tag (NETBOX_TAG, default "border") and
platform. Without check flags every check runs. With --apply the differing
fields of the selected checks are written back to NetBox, one field per
request, and no table is printed.`,
		Example: `  nbcheck check                               # All checks, Arista devices
  nbcheck check --mtu --description           # Two checks only
  nbcheck check --host 'leaf*' --platform all # Hosts matching a glob
  nbcheck check --all --hide-ok-hosts         # Differences and a summary
  nbcheck check -o yaml                       # Structured output
  nbcheck check --mtu --apply                 # Write MTU differences to NetBox`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			formatSet := cmd.Flags().Changed("format")
			if err := flags.Validate(formatSet); err != nil {
				return err
			}
			return Execute(cmd.Context(), app, flags, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags = addFlags(cmd)

	return cmd
}
