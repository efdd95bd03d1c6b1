package differ

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/agentstation/nbcheck/pkg/checks"
)

// Target identifies the interface a change is written to.
type Target struct {
	Host        string `json:"host" yaml:"host"`
	Interface   string `json:"interface" yaml:"interface"`
	InterfaceID int    `json:"interface_id" yaml:"interface_id"`
}

// FieldChange is a pending write of one field.
type FieldChange struct {
	Check     checks.Key   `json:"check" yaml:"check"`
	Attr      string       `json:"attr" yaml:"attr"`
	Value     any          `json:"value" yaml:"value"`
	Observed  string       `json:"observed" yaml:"observed"`
	Inventory string       `json:"inventory" yaml:"inventory"`
	Notes     checks.Notes `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// InterfaceChanges groups the pending writes of one interface in registry order.
type InterfaceChanges struct {
	Target
	Changes []FieldChange `json:"changes" yaml:"changes"`
}

// Changeset holds every pending write of a run, ordered by interface id.
type Changeset struct {
	Interfaces []InterfaceChanges `json:"interfaces" yaml:"interfaces"`
	// Conflicts lists writes dropped because an earlier observed interface
	// already targeted the same inventory field.
	Conflicts []string         `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
	Summary   ChangesetSummary `json:"summary" yaml:"summary"`
}

// ChangesetSummary provides counts of pending writes.
type ChangesetSummary struct {
	Interfaces int                `json:"interfaces" yaml:"interfaces"`
	Fields     int                `json:"fields" yaml:"fields"`
	ByCheck    map[checks.Key]int `json:"by_check" yaml:"by_check"`
}

// BuildChangeset collects the writes of mismatched rows, restricted to the
// enabled checks. The first observed interface to target an inventory field
// wins; later ones are recorded as conflicts.
func BuildChangeset(results []HostResult, enabled checks.Set) *Changeset {
	type pending struct {
		target Target
		fields map[checks.Key]FieldChange
	}
	byID := make(map[int]*pending)
	cs := &Changeset{Summary: ChangesetSummary{ByCheck: make(map[checks.Key]int)}}

	for _, host := range results {
		for _, iface := range host.Interfaces {
			if !iface.Found {
				continue
			}
			for _, row := range iface.Rows {
				if row.Matches || row.Change == nil || !enabled.Has(row.Check) {
					continue
				}
				p, ok := byID[iface.InventoryID]
				if !ok {
					p = &pending{
						target: Target{Host: host.Host, Interface: iface.InventoryName, InterfaceID: iface.InventoryID},
						fields: make(map[checks.Key]FieldChange),
					}
					byID[iface.InventoryID] = p
				}
				if _, dup := p.fields[row.Check]; dup {
					cs.Conflicts = append(cs.Conflicts, fmt.Sprintf("%s %s: %s already set from another interface",
						host.Host, iface.Name, row.Check))
					continue
				}
				p.fields[row.Check] = FieldChange{
					Check:     row.Check,
					Attr:      row.Change.Attr,
					Value:     row.Change.Value,
					Observed:  row.Observed,
					Inventory: row.Inventory,
					Notes:     row.Notes,
				}
			}
		}
	}

	ids := make([]int, 0, len(byID))
	for id := range byID {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	for _, id := range ids {
		p := byID[id]
		ic := InterfaceChanges{Target: p.target}
		for _, k := range checks.Keys() {
			if fc, ok := p.fields[k]; ok {
				ic.Changes = append(ic.Changes, fc)
				cs.Summary.ByCheck[k]++
			}
		}
		cs.Summary.Fields += len(ic.Changes)
		cs.Interfaces = append(cs.Interfaces, ic)
	}
	cs.Summary.Interfaces = len(cs.Interfaces)

	return cs
}

// IsEmpty reports whether there is nothing to write.
func (c *Changeset) IsEmpty() bool {
	return c == nil || c.Summary.Fields == 0
}

// HasChanges reports whether there is anything to write.
func (c *Changeset) HasChanges() bool {
	return !c.IsEmpty()
}

// Len returns the number of pending field writes.
func (c *Changeset) Len() int {
	if c == nil {
		return 0
	}
	return c.Summary.Fields
}

// Map returns the writes as inventory interface id to field key to value.
func (c *Changeset) Map() map[int]map[checks.Key]any {
	out := make(map[int]map[checks.Key]any)
	if c == nil {
		return out
	}
	for _, ic := range c.Interfaces {
		fields := make(map[checks.Key]any, len(ic.Changes))
		for _, fc := range ic.Changes {
			fields[fc.Check] = fc.Value
		}
		out[ic.InterfaceID] = fields
	}
	return out
}

// String returns a one-line summary.
func (c *Changeset) String() string {
	if c.IsEmpty() {
		return "No changes"
	}
	parts := make([]string, 0, len(c.Summary.ByCheck))
	for _, k := range checks.Keys() {
		if n := c.Summary.ByCheck[k]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s=%d", k, n))
		}
	}
	return fmt.Sprintf("%d field(s) on %d interface(s): %s",
		c.Summary.Fields, c.Summary.Interfaces, strings.Join(parts, ", "))
}

// Print writes every pending change, one per line.
func (c *Changeset) Print(w io.Writer) {
	if c.IsEmpty() {
		_, _ = fmt.Fprintln(w, "No changes")
		return
	}
	for _, ic := range c.Interfaces {
		_, _ = fmt.Fprintf(w, "%s %s (id %d):\n", ic.Host, ic.Interface, ic.InterfaceID)
		for _, fc := range ic.Changes {
			_, _ = fmt.Fprintf(w, "  ~ %s: %q -> %s\n", fc.Attr, fc.Inventory, checks.FormatValue(fc.Value))
		}
	}
	for _, conflict := range c.Conflicts {
		_, _ = fmt.Fprintf(w, "  ! %s\n", conflict)
	}
}
