package check

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/nbcheck/internal/matcher"
	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/constants"
	"github.com/agentstation/nbcheck/pkg/errors"
	"github.com/agentstation/nbcheck/pkg/report"
)

// Flags holds the flags of the check command.
type Flags struct {
	// Input
	File     string
	Host     string
	Platform string

	// Checks, one flag per check key
	Checks map[checks.Key]*bool
	All    bool

	// Type reference table
	MTRef   string
	NoMTRef bool

	// Apply
	Apply  bool
	DryRun bool

	// Output
	ShowChange        bool
	HideEmptyNoteCols bool
	HideNoDiffCols    bool
	HideOKHosts       bool
	JSON              bool
}

var checkUsage = map[checks.Key]string{
	checks.IntName:         "compare interface names, resolving name variants",
	checks.Description:     "compare description",
	checks.MediaType:       "compare mediaType with the inventory type",
	checks.Bandwidth:       "compare bandwidth with the inventory speed",
	checks.Duplex:          "compare duplex",
	checks.MAC:             "compare physicalAddress with the inventory MAC address",
	checks.MTU:             "compare mtu",
	checks.TxPower:         "compare txPower with the inventory tx_power",
	checks.ForwardingModel: "compare forwardingModel with the inventory 802.1Q mode",
}

func addFlags(cmd *cobra.Command) *Flags {
	f := &Flags{Checks: make(map[checks.Key]*bool)}
	fs := cmd.Flags()

	fs.StringVarP(&f.File, "file", "f", constants.DefaultInputFile, "observed interfaces file (JSON or YAML)")
	fs.StringVar(&f.Host, "host", "", "only this host: an exact name or a glob")
	fs.StringVar(&f.Platform, "platform", string(matcher.PlatformArista),
		fmt.Sprintf("inventory platform: %s, %s or %s", matcher.PlatformArista, matcher.PlatformJuniper, matcher.PlatformAll))

	for _, k := range checks.Keys() {
		f.Checks[k] = fs.Bool(string(k), false, checkUsage[k])
	}
	fs.BoolVar(&f.All, "all", false, "enable every check")

	fs.StringVar(&f.MTRef, "mt-ref", "", "interface type reference table (default from "+constants.EnvTypeRef+" or "+constants.DefaultTypeRefFile+")")
	fs.BoolVar(&f.NoMTRef, "no-mt-ref", false, "do not load the type reference table")

	fs.BoolVar(&f.Apply, "apply", false, "write differing fields back to the inventory (no table is printed)")
	fs.BoolVar(&f.DryRun, "dry-run", false, "with --apply, log the writes without making them")

	fs.BoolVar(&f.ShowChange, "show-change", false, "add <check>ToSet columns with the values --apply would write")
	fs.BoolVar(&f.HideEmptyNoteCols, "hide-empty-note-cols", false, "hide note columns that are empty in every row")
	fs.BoolVar(&f.HideNoDiffCols, "hide-no-diff-cols", false, "hide the columns of checks without any difference")
	fs.BoolVar(&f.HideOKHosts, "hide-ok-hosts", false, "list hosts without differences instead of their rows and print counts")
	fs.BoolVar(&f.JSON, "json", false, "shortcut for --format json")

	cmd.MarkFlagsMutuallyExclusive("apply", "json")
	cmd.MarkFlagsMutuallyExclusive("mt-ref", "no-mt-ref")

	_ = cmd.MarkFlagFilename("file", "json", "yaml", "yml")
	_ = cmd.MarkFlagFilename("mt-ref", "json")
	_ = cmd.RegisterFlagCompletionFunc("platform", completePlatform)

	return f
}

func completePlatform(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	var names []string
	for _, p := range matcher.Platforms() {
		names = append(names, string(p))
	}
	return names, cobra.ShellCompDirectiveNoFileComp
}

// Selected returns the check keys given on the command line, in registry order.
func (f *Flags) Selected() []checks.Key {
	var keys []checks.Key
	for _, k := range checks.Keys() {
		if v := f.Checks[k]; v != nil && *v {
			keys = append(keys, k)
		}
	}
	return keys
}

// Enabled resolves the checks a run uses.
func (f *Flags) Enabled() checks.Set {
	return checks.Resolve(f.Selected(), f.All, f.Apply, f.HideOKHosts)
}

// Validate checks flag combinations. formatSet reports whether the global
// --format flag was given.
func (f *Flags) Validate(formatSet bool) error {
	if f.Apply && (f.JSON || formatSet) {
		return errors.NewValidationError("apply", true, "--apply cannot be combined with --json or --format")
	}
	if f.JSON && formatSet {
		return errors.NewValidationError("json", true, "--json cannot be combined with --format")
	}
	if f.DryRun && !f.Apply {
		return errors.NewValidationError("dry-run", true, "--dry-run requires --apply")
	}
	if _, err := matcher.ParsePlatform(f.Platform); err != nil {
		return err
	}
	return nil
}

// ReportOptions returns the report layout options.
func (f *Flags) ReportOptions() report.Options {
	return report.Options{
		ShowChange:        f.ShowChange,
		HideEmptyNoteCols: f.HideEmptyNoteCols,
		HideNoDiffCols:    f.HideNoDiffCols,
		HideOKHosts:       f.HideOKHosts,
	}
}
