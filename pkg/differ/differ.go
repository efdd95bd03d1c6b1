// Package differ compares device-reported interfaces with inventory records
// and collects the resulting corrections into a changeset.
package differ

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/ifname"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/logging"
	"github.com/agentstation/nbcheck/pkg/observed"
)

// Differ compares one host at a time.
type Differ interface {
	// Host compares the observed interfaces of a host, in input order,
	// against the host's inventory interfaces.
	Host(device inventory.Device, observed []observed.Interface, inventory []inventory.Interface) HostResult

	// Enabled returns the checks this differ runs.
	Enabled() checks.Set

	// Warnings returns standing warnings that apply to the whole run.
	Warnings() []string
}

// Change is a value to write to one inventory attribute.
// A nil Value writes null.
type Change struct {
	Attr  string `json:"attr" yaml:"attr"`
	Value any    `json:"value" yaml:"value"`
}

// Row is the comparison of one field on one interface.
type Row struct {
	Check     checks.Key   `json:"check" yaml:"check"`
	Observed  string       `json:"observed" yaml:"observed"`
	Inventory string       `json:"inventory" yaml:"inventory"`
	Matches   bool         `json:"matches" yaml:"matches"`
	Notes     checks.Notes `json:"notes,omitempty" yaml:"notes,omitempty"`
	Change    *Change      `json:"change,omitempty" yaml:"change,omitempty"`
}

// InterfaceResult is the comparison of one observed interface.
type InterfaceResult struct {
	Name          string       `json:"name" yaml:"name"`
	Found         bool         `json:"found" yaml:"found"`
	InventoryID   int          `json:"inventory_id,omitempty" yaml:"inventory_id,omitempty"`
	InventoryName string       `json:"inventory_name,omitempty" yaml:"inventory_name,omitempty"`
	Match         ifname.Note  `json:"match" yaml:"match"`
	Notes         checks.Notes `json:"notes,omitempty" yaml:"notes,omitempty"`
	Rows          []Row        `json:"rows,omitempty" yaml:"rows,omitempty"`
}

// HasDifferences reports whether the interface is unmatched or any of its
// fields differ.
func (r *InterfaceResult) HasDifferences() bool {
	if !r.Found {
		return true
	}
	for _, row := range r.Rows {
		if !row.Matches {
			return true
		}
	}
	return false
}

// Row returns the row for a check.
func (r *InterfaceResult) Row(k checks.Key) (Row, bool) {
	for _, row := range r.Rows {
		if row.Check == k {
			return row, true
		}
	}
	return Row{}, false
}

// HostResult is the comparison of one host.
type HostResult struct {
	Host       string            `json:"host" yaml:"host"`
	DeviceID   int               `json:"device_id" yaml:"device_id"`
	Platform   string            `json:"platform,omitempty" yaml:"platform,omitempty"`
	Interfaces []InterfaceResult `json:"interfaces" yaml:"interfaces"`
}

// HasDifferences reports whether any interface of the host differs.
func (h *HostResult) HasDifferences() bool {
	for i := range h.Interfaces {
		if h.Interfaces[i].HasDifferences() {
			return true
		}
	}
	return false
}

// differ is the default implementation of Differ.
type differ struct {
	enabled checks.Set
	checks  []*checks.Check
	env     *checks.Env
	logger  *zerolog.Logger
}

// New creates a Differ running the enabled checks.
func New(enabled checks.Set, opts ...Option) Differ {
	d := &differ{
		enabled: enabled,
		checks:  checks.Enabled(enabled),
		env:     &checks.Env{},
		logger:  logging.NewNopLogger(),
	}

	for _, opt := range opts {
		opt(d)
	}

	return d
}

// Enabled implements Differ.
func (d *differ) Enabled() checks.Set {
	return d.enabled
}

// Warnings implements Differ.
func (d *differ) Warnings() []string {
	return checks.Warnings(d.enabled, d.env)
}

// Host implements Differ.
func (d *differ) Host(device inventory.Device, obs []observed.Interface, inv []inventory.Interface) HostResult {
	byName := make(map[string]*inventory.Interface, len(inv))
	for i := range inv {
		// the first record wins on duplicate names
		if _, ok := byName[inv[i].Name]; !ok {
			byName[inv[i].Name] = &inv[i]
		}
	}

	result := HostResult{
		Host:       device.Name,
		DeviceID:   device.ID,
		Platform:   device.Platform,
		Interfaces: make([]InterfaceResult, 0, len(obs)),
	}
	for i := range obs {
		result.Interfaces = append(result.Interfaces, d.compare(&obs[i], byName))
	}

	d.logger.Debug().
		Str("host", device.Name).
		Int("observed", len(obs)).
		Int("inventory", len(inv)).
		Bool("differs", result.HasDifferences()).
		Msg("compared host")

	return result
}

func (d *differ) compare(o *observed.Interface, byName map[string]*inventory.Interface) InterfaceResult {
	rec, name, match := ifname.Resolve(o.Name, byName)
	out := InterfaceResult{Name: o.Name, Match: match}
	if match == ifname.NotFound {
		note := checks.NoteNoInterface
		if d.enabled.Has(checks.IntName) {
			note = checks.NoteNotFound
		}
		out.Notes = checks.Notes{note}
		return out
	}

	out.Found = true
	out.InventoryID = rec.ID
	out.InventoryName = name
	if match != ifname.Exact {
		out.Notes = checks.Notes{checks.NoteCode(match)}
	}

	pair := checks.Pair{Observed: o, Inventory: rec, Match: match}
	out.Rows = make([]Row, 0, len(d.checks))
	for _, c := range d.checks {
		obs, inv := c.Normalize(d.env, c.ExtractObserved(o), c.ExtractInventory(rec))
		matches := c.Compare(obs, inv)
		row := Row{
			Check:     c.Key,
			Observed:  obs.Display,
			Inventory: inv.Display,
			Matches:   matches,
			Notes:     c.Describe(pair, obs, inv, matches),
		}
		if !matches {
			if value, ok := c.BuildSetter(d.env, obs); ok {
				row.Change = &Change{Attr: c.Attr, Value: value}
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}
