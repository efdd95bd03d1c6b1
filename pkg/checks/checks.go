// Package checks holds the field check registry: one declarative entry per
// interface attribute that can be compared between a device and the
// inventory, plus the normalizers those entries use.
//
// The diff engine walks the registry and calls each entry's functions in
// turn; it has no per-field logic of its own. Adding a field means adding a
// registry entry.
package checks

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/agentstation/nbcheck/pkg/ifname"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/observed"
	"github.com/agentstation/nbcheck/pkg/typeref"
)

// Env carries run-wide, read-only inputs to the checks.
type Env struct {
	Types *typeref.Table
}

func (e *Env) typesLoaded() bool {
	return e != nil && e.Types.Loaded()
}

// Pair is a device interface together with the inventory record it matched.
type Pair struct {
	Observed  *observed.Interface
	Inventory *inventory.Interface
	Match     ifname.Note
}

// Raw is a field value as extracted from one side. Notes carries remarks
// about the record itself rather than the value.
type Raw struct {
	Value   any
	Present bool
	Notes   Notes
}

// Normalized is a comparable field value.
type Normalized struct {
	// Value is comparable with ==; it is a string or an int64.
	Value   any
	Display string
	Present bool
	// Valid is false when a value is present but could not be read.
	Valid bool
	Notes Notes
}

func (n Normalized) usable() bool {
	return n.Present && n.Valid
}

// Check is one registry entry.
type Check struct {
	Key Key
	// Attr is the inventory attribute written by apply.
	Attr string
	// Abbrev prefixes the report columns of the check.
	Abbrev   string
	DiffNote NoteCode
	// Numeric values are right-aligned in the table report.
	Numeric bool

	ExtractObserved  func(o *observed.Interface) Raw
	ExtractInventory func(i *inventory.Interface) Raw
	Normalize        func(env *Env, obs, inv Raw) (Normalized, Normalized)
	Compare          func(obs, inv Normalized) bool

	// DescribeDiff overrides the default notes: the side notes plus DiffNote
	// on a mismatch.
	DescribeDiff func(p Pair, obs, inv Normalized, matches bool) Notes
	// BuildSetter returns the value apply should write. A nil value with
	// ok set means "write null".
	BuildSetter func(env *Env, obs Normalized) (value any, ok bool)
}

// Describe returns the sorted notes for a compared pair.
func (c *Check) Describe(p Pair, obs, inv Normalized, matches bool) Notes {
	if c.DescribeDiff != nil {
		return c.DescribeDiff(p, obs, inv, matches).Normalize()
	}
	notes := append(slices.Clone(obs.Notes), inv.Notes...)
	if !matches && c.DiffNote != 0 {
		notes = append(notes, c.DiffNote)
	}
	return notes.Normalize()
}

// NoteColumn returns the report header of the check's note column.
func (c *Check) NoteColumn() string {
	if c.Key == IntName {
		return "note"
	}
	return "n" + strings.ToUpper(c.Abbrev[:1]) + c.Abbrev[1:]
}

var registry = []*Check{
	{
		Key: IntName, Attr: inventory.AttrName, Abbrev: "int",
		ExtractObserved:  func(o *observed.Interface) Raw { return Raw{Value: o.Name, Present: true} },
		ExtractInventory: func(i *inventory.Interface) Raw { return Raw{Value: i.Name, Present: true} },
		Normalize:        pairOf(trimmed),
		Compare:          strict,
		DescribeDiff: func(p Pair, _, _ Normalized, _ bool) Notes {
			if p.Match == ifname.Exact {
				return nil
			}
			return Notes{NoteCode(p.Match)}
		},
		BuildSetter: observedValue,
	},
	{
		Key: Description, Attr: inventory.AttrDescription, Abbrev: "desc", DiffNote: NoteDescriptionDiff,
		ExtractObserved: func(o *observed.Interface) Raw {
			if o.Description == nil {
				return Raw{Value: "", Present: true}
			}
			return Raw{Value: *o.Description, Present: true}
		},
		ExtractInventory: func(i *inventory.Interface) Raw { return Raw{Value: i.Description, Present: true} },
		Normalize:        pairOf(trimmed),
		Compare:          strict,
		BuildSetter:      observedValue,
	},
	{
		Key: MediaType, Attr: inventory.AttrType, Abbrev: "mt", DiffNote: NoteMediaTypeDiff,
		ExtractObserved:  func(o *observed.Interface) Raw { return optString(o.MediaType) },
		ExtractInventory: func(i *inventory.Interface) Raw { return optString(i.Type) },
		Normalize:        reportedOnly(normalizeMediaType),
		Compare:          reported,
		BuildSetter: func(env *Env, obs Normalized) (any, bool) {
			if !obs.usable() || (env.typesLoaded() && slices.Contains(obs.Notes, NoteObservedNotInRef)) {
				return nil, false
			}
			return obs.Value, true
		},
	},
	{
		Key: Bandwidth, Attr: inventory.AttrSpeed, Abbrev: "bw", DiffNote: NoteBandwidthDiff, Numeric: true,
		ExtractObserved:  func(o *observed.Interface) Raw { return number(o.Bandwidth) },
		ExtractInventory: func(i *inventory.Interface) Raw { return optInt(i.Speed) },
		Normalize: func(_ *Env, obs, inv Raw) (Normalized, Normalized) {
			o := integer(obs, NoteMissingObserved)
			if o.usable() {
				o.Value = BpsToKbps(o.Value.(int64))
				o.Display = strconv.FormatInt(o.Value.(int64), 10)
			}
			return o, integer(inv, NoteMissingInventory)
		},
		Compare:     strict,
		BuildSetter: observedValue,
	},
	{
		Key: Duplex, Attr: inventory.AttrDuplex, Abbrev: "dup", DiffNote: NoteDuplexDiff,
		ExtractObserved:  func(o *observed.Interface) Raw { return optString(o.Duplex) },
		ExtractInventory: func(i *inventory.Interface) Raw { return optStringPtr(i.Duplex) },
		Normalize:        reportedOnly(pairOf(duplex)),
		Compare:          reported,
		BuildSetter: func(_ *Env, obs Normalized) (any, bool) {
			switch obs.Value {
			case "full", "half", "auto":
				return obs.Value, true
			}
			return nil, false
		},
	},
	{
		Key: MAC, Attr: inventory.AttrPrimaryMAC, Abbrev: "mac", DiffNote: NoteMACDiff,
		ExtractObserved: func(o *observed.Interface) Raw { return optString(o.PhysicalAddress) },
		ExtractInventory: func(i *inventory.Interface) Raw {
			r := optString(i.MAC())
			if i.MACAsymmetric() {
				r.Notes = Notes{NoteMACAsymmetric}
			}
			return r
		},
		Normalize: reportedOnly(func(_ *Env, obs, inv Raw) (Normalized, Normalized) {
			o, n := mac(obs, NoteMissingObserved), mac(inv, NoteMissingInventory)
			n.Notes = append(n.Notes, inv.Notes...)
			return o, n
		}),
		Compare:     reported,
		BuildSetter: observedValue,
	},
	{
		Key: MTU, Attr: inventory.AttrMTU, Abbrev: "mtu", DiffNote: NoteMTUDiff, Numeric: true,
		ExtractObserved:  func(o *observed.Interface) Raw { return number(o.MTU) },
		ExtractInventory: func(i *inventory.Interface) Raw { return optInt(i.MTU) },
		Normalize: func(_ *Env, obs, inv Raw) (Normalized, Normalized) {
			return integer(obs, NoteMissingObserved), integer(inv, NoteMissingInventory)
		},
		Compare:     strict,
		BuildSetter: observedValue,
	},
	{
		Key: TxPower, Attr: inventory.AttrTxPower, Abbrev: "txp", DiffNote: NoteTxPowerDiff, Numeric: true,
		ExtractObserved: func(o *observed.Interface) Raw {
			if !o.TxPower.Set {
				return Raw{}
			}
			if !o.TxPower.Valid {
				return Raw{Value: o.TxPower.Raw, Present: true}
			}
			return Raw{Value: RoundTxPower(o.TxPower.Value), Present: true}
		},
		ExtractInventory: func(i *inventory.Interface) Raw { return optInt(i.TxPower) },
		Normalize: func(_ *Env, obs, inv Raw) (Normalized, Normalized) {
			return integer(obs, NoteMissingObserved), integer(inv, NoteMissingInventory)
		},
		Compare:     strict,
		BuildSetter: observedValue,
	},
	{
		Key: ForwardingModel, Attr: inventory.AttrMode, Abbrev: "fwd", DiffNote: NoteForwardingDiff,
		ExtractObserved: func(o *observed.Interface) Raw { return optString(o.ForwardingModel) },
		ExtractInventory: func(i *inventory.Interface) Raw {
			// null is a meaningful mode
			if i.Mode == nil {
				return Raw{Value: "", Present: true}
			}
			return Raw{Value: *i.Mode, Present: true}
		},
		Normalize: func(_ *Env, obs, inv Raw) (Normalized, Normalized) {
			o := Normalized{}
			if obs.Present {
				raw := strings.TrimSpace(obs.Value.(string))
				o = Normalized{Display: raw, Present: true}
				if mode, err := ForwardingMode(raw); err != nil {
					o.Notes = Notes{NoteUnknownForwarding}
				} else {
					o.Valid = true
					o.Value = ""
					if mode != nil {
						o.Value = *mode
					}
				}
			}
			m := strings.ToLower(strings.TrimSpace(inv.Value.(string)))
			return o, Normalized{Value: m, Display: m, Present: true, Valid: true}
		},
		Compare: reported,
		BuildSetter: func(_ *Env, obs Normalized) (any, bool) {
			if !obs.usable() {
				return nil, false
			}
			if obs.Value == "" {
				return nil, true
			}
			return obs.Value, true
		},
	},
}

// Registry returns every check in registry order.
func Registry() []*Check {
	return slices.Clone(registry)
}

// Lookup returns the check for k.
func Lookup(k Key) (*Check, bool) {
	for _, c := range registry {
		if c.Key == k {
			return c, true
		}
	}
	return nil, false
}

// Enabled returns the checks in s, in registry order.
func Enabled(s Set) []*Check {
	var out []*Check
	for _, c := range registry {
		if s.Has(c.Key) {
			out = append(out, c)
		}
	}
	return out
}

// Warnings returns the standing warnings for a run with checks s.
func Warnings(s Set, env *Env) []string {
	if s.Has(MediaType) && !env.typesLoaded() {
		return []string{"no type reference table loaded: mediaType values are compared as raw strings and differences may only be formatting"}
	}
	return nil
}

// FormatValue renders a setter value for display. nil renders as "null".
func FormatValue(v any) string {
	if v == nil {
		return "null"
	}
	return fmt.Sprint(v)
}

// strict matches when both sides hold equal usable values.
func strict(obs, inv Normalized) bool {
	return obs.usable() && inv.usable() && obs.Value == inv.Value
}

// reported is strict, except that a field the device did not report at all
// is not compared.
func reported(obs, inv Normalized) bool {
	if !obs.Present {
		return true
	}
	return strict(obs, inv)
}

func observedValue(_ *Env, obs Normalized) (any, bool) {
	if !obs.usable() {
		return nil, false
	}
	return obs.Value, true
}

// reportedOnly drops the missing-value notes of a field the device did not
// report; such fields are not compared.
func reportedOnly(f func(*Env, Raw, Raw) (Normalized, Normalized)) func(*Env, Raw, Raw) (Normalized, Normalized) {
	return func(env *Env, obs, inv Raw) (Normalized, Normalized) {
		o, n := f(env, obs, inv)
		if !obs.Present {
			o.Notes = nil
			n.Notes = slices.DeleteFunc(n.Notes, func(c NoteCode) bool { return c == NoteMissingInventory })
		}
		return o, n
	}
}

func pairOf(f func(Raw, NoteCode) Normalized) func(*Env, Raw, Raw) (Normalized, Normalized) {
	return func(_ *Env, obs, inv Raw) (Normalized, Normalized) {
		return f(obs, NoteMissingObserved), f(inv, NoteMissingInventory)
	}
}

func trimmed(r Raw, missing NoteCode) Normalized {
	if !r.Present {
		return Normalized{Notes: Notes{missing}}
	}
	s := strings.TrimSpace(r.Value.(string))
	return Normalized{Value: s, Display: s, Present: true, Valid: true}
}

func duplex(r Raw, missing NoteCode) Normalized {
	if !r.Present {
		return Normalized{Notes: Notes{missing}}
	}
	s := NormalizeDuplex(r.Value.(string))
	return Normalized{Value: s, Display: s, Present: true, Valid: true}
}

func mac(r Raw, missing NoteCode) Normalized {
	if !r.Present {
		return Normalized{Notes: Notes{missing}}
	}
	raw := strings.TrimSpace(r.Value.(string))
	canonical, err := CanonicalMAC(raw)
	if err != nil {
		return Normalized{Display: raw, Present: true, Notes: Notes{missing}}
	}
	return Normalized{Value: canonical, Display: canonical, Present: true, Valid: true}
}

func integer(r Raw, missing NoteCode) Normalized {
	if !r.Present {
		return Normalized{Notes: Notes{missing}}
	}
	switch v := r.Value.(type) {
	case int64:
		return Normalized{Value: v, Display: strconv.FormatInt(v, 10), Present: true, Valid: true}
	case string:
		return Normalized{Display: v, Present: true, Notes: Notes{missing}}
	}
	return Normalized{Display: fmt.Sprint(r.Value), Present: true, Notes: Notes{missing}}
}

func normalizeMediaType(env *Env, obs, inv Raw) (Normalized, Normalized) {
	o, n := trimmed(obs, NoteMissingObserved), trimmed(inv, NoteMissingInventory)
	if !env.typesLoaded() {
		return o, n
	}
	mapType := func(v *Normalized, miss NoteCode) {
		if !v.usable() {
			return
		}
		if slug, ok := env.Types.Canonical(v.Value.(string)); ok {
			v.Value = slug
			return
		}
		v.Notes = append(v.Notes, miss)
	}
	mapType(&o, NoteObservedNotInRef)
	mapType(&n, NoteInventoryNotInRef)
	return o, n
}

func optString(s string) Raw {
	s = strings.TrimSpace(s)
	if s == "" {
		return Raw{}
	}
	return Raw{Value: s, Present: true}
}

func optStringPtr(s *string) Raw {
	if s == nil {
		return Raw{}
	}
	return optString(*s)
}

func optInt(v *int64) Raw {
	if v == nil {
		return Raw{}
	}
	return Raw{Value: *v, Present: true}
}

func number(n observed.Number) Raw {
	if !n.Set {
		return Raw{}
	}
	if v, ok := n.Int64(); ok {
		return Raw{Value: v, Present: true}
	}
	return Raw{Value: n.Raw, Present: true}
}
