package apply

import (
	"fmt"

	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/differ"
)

// Applied is one field written to the inventory.
type Applied struct {
	differ.Target
	Check checks.Key `json:"check" yaml:"check"`
	Attr  string     `json:"attr" yaml:"attr"`
	Value any        `json:"value" yaml:"value"`
}

// Result represents the outcome of an apply run. On failure it holds the
// writes made before the failing one.
type Result struct {
	Applied    []Applied `json:"applied" yaml:"applied"`
	MACCreated int       `json:"mac_created" yaml:"mac_created"`
	MACReused  int       `json:"mac_reused" yaml:"mac_reused"`
	Notes      []string  `json:"notes,omitempty" yaml:"notes,omitempty"`
	DryRun     bool      `json:"dry_run,omitempty" yaml:"dry_run,omitempty"`
}

// HasChanges returns true if anything was written.
func (r *Result) HasChanges() bool {
	return len(r.Applied) > 0
}

// Summary returns a human-readable summary of the result.
func (r *Result) Summary() string {
	if !r.HasChanges() {
		return "No changes applied"
	}
	interfaces := make(map[int]struct{})
	for _, a := range r.Applied {
		interfaces[a.InterfaceID] = struct{}{}
	}
	summary := fmt.Sprintf("Applied %d field(s) on %d interface(s)", len(r.Applied), len(interfaces))
	if r.MACCreated > 0 || r.MACReused > 0 {
		summary += fmt.Sprintf(", MAC addresses created=%d reused=%d", r.MACCreated, r.MACReused)
	}
	if r.DryRun {
		summary += " (Dry run)"
	}
	return summary
}

func (r *Result) notef(format string, args ...any) {
	r.Notes = append(r.Notes, fmt.Sprintf(format, args...))
}
