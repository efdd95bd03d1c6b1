// Package report turns diff results into a table or a structured document.
package report

import (
	"slices"
	"sort"

	"github.com/agentstation/nbcheck/internal/cmd/output"
	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/differ"
)

// NoDifferencesMessage is printed instead of an empty table.
const NoDifferencesMessage = "No differences found."

// Fixed leading columns.
const (
	ColHost          = "host"
	ColInterfaceFile = "intF"
	ColInterfaceNB   = "intN"
	ColNote          = "note"
)

// Options control which rows and columns a report shows.
type Options struct {
	ShowChange        bool
	HideEmptyNoteCols bool
	HideNoDiffCols    bool
	HideOKHosts       bool

	// Context printed ahead of the table.
	Warnings             []string
	HostsOnlyInFile      []string
	HostsOnlyInInventory []string
	Skipped              []Skip
}

// Skip is a host left out of the comparison.
type Skip struct {
	Host   string `json:"host" yaml:"host"`
	Reason string `json:"reason" yaml:"reason"`
}

// Stats counts hosts and interfaces with and without differences.
type Stats struct {
	HostsOK            int `json:"hosts_ok" yaml:"hosts_ok"`
	HostsWithDiff      int `json:"hosts_with_diff" yaml:"hosts_with_diff"`
	InterfacesOK       int `json:"interfaces_ok" yaml:"interfaces_ok"`
	InterfacesWithDiff int `json:"interfaces_with_diff" yaml:"interfaces_with_diff"`
}

// LegendEntry explains one note code.
type LegendEntry struct {
	Code checks.NoteCode `json:"code" yaml:"code"`
	Text string          `json:"text" yaml:"text"`
}

// Report is the rendered form of a run. Alignment holds one entry per
// column for the table renderer.
type Report struct {
	Columns              []string       `json:"columns" yaml:"columns"`
	Rows                 [][]string     `json:"-" yaml:"-"`
	Alignment            []output.Align `json:"-" yaml:"-"`
	OKHosts              []string       `json:"ok_hosts,omitempty" yaml:"ok_hosts,omitempty"`
	Stats                Stats          `json:"stats" yaml:"stats"`
	Legend               []LegendEntry  `json:"note_legend,omitempty" yaml:"note_legend,omitempty"`
	Warnings             []string       `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	HostsOnlyInFile      []string       `json:"hosts_only_in_file,omitempty" yaml:"hosts_only_in_file,omitempty"`
	HostsOnlyInInventory []string       `json:"hosts_only_in_inventory,omitempty" yaml:"hosts_only_in_inventory,omitempty"`
	Skipped              []Skip         `json:"skipped,omitempty" yaml:"skipped,omitempty"`
	NoDifferences        bool           `json:"no_differences" yaml:"no_differences"`

	hideOKHosts bool
}

// Records returns the rows keyed by column name.
func (r *Report) Records() []map[string]string {
	out := make([]map[string]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		rec := make(map[string]string, len(r.Columns))
		for i, col := range r.Columns {
			rec[col] = row[i]
		}
		out = append(out, rec)
	}
	return out
}

// column is a candidate column before suppression.
type column struct {
	name    string
	check   checks.Key // empty for the fixed columns
	note    bool
	numeric bool
}

// line is a candidate row before suppression.
type line struct {
	cells  map[string]string
	notes  map[string]checks.Notes
	differ map[checks.Key]bool
}

// Build lays out the results of a run with the enabled checks.
func Build(results []differ.HostResult, enabled checks.Set, opts Options) *Report {
	r := &Report{
		Warnings:             opts.Warnings,
		HostsOnlyInFile:      opts.HostsOnlyInFile,
		HostsOnlyInInventory: opts.HostsOnlyInInventory,
		Skipped:              opts.Skipped,
		hideOKHosts:          opts.HideOKHosts,
	}

	cols := candidateColumns(enabled, opts.ShowChange)

	var lines []line
	for i := range results {
		host := &results[i]
		hostDiffers := false
		for j := range host.Interfaces {
			if host.Interfaces[j].HasDifferences() {
				r.Stats.InterfacesWithDiff++
				hostDiffers = true
			} else {
				r.Stats.InterfacesOK++
			}
		}
		if hostDiffers {
			r.Stats.HostsWithDiff++
		} else {
			r.Stats.HostsOK++
		}

		if opts.HideOKHosts && !hostDiffers {
			r.OKHosts = append(r.OKHosts, host.Host)
			continue
		}
		for j := range host.Interfaces {
			iface := &host.Interfaces[j]
			if opts.HideOKHosts && !iface.HasDifferences() {
				continue
			}
			lines = append(lines, toLine(host.Host, iface))
		}
	}
	r.NoDifferences = r.Stats.HostsWithDiff == 0

	cols = suppress(cols, lines, opts)
	used := make(map[checks.NoteCode]bool)
	for _, l := range lines {
		row := make([]string, len(cols))
		for i, c := range cols {
			row[i] = l.cells[c.name]
			for _, code := range l.notes[c.name] {
				used[code] = true
			}
		}
		r.Rows = append(r.Rows, row)
	}
	for _, c := range cols {
		r.Columns = append(r.Columns, c.name)
		align := output.AlignLeft
		if c.numeric {
			align = output.AlignRight
		}
		r.Alignment = append(r.Alignment, align)
	}
	r.Legend = legend(used)

	return r
}

func candidateColumns(enabled checks.Set, showChange bool) []column {
	cols := []column{
		{name: ColHost},
		{name: ColInterfaceFile},
		{name: ColInterfaceNB},
		{name: ColNote, note: true},
	}
	for _, c := range checks.Enabled(enabled) {
		if c.Key != checks.IntName {
			cols = append(cols,
				column{name: c.Abbrev + "F", check: c.Key, numeric: c.Numeric},
				column{name: c.Abbrev + "N", check: c.Key, numeric: c.Numeric},
				column{name: c.NoteColumn(), check: c.Key, note: true},
			)
		}
		if showChange {
			cols = append(cols, column{name: c.Abbrev + "ToSet", check: c.Key, numeric: c.Numeric})
		}
	}
	return cols
}

func toLine(host string, iface *differ.InterfaceResult) line {
	l := line{
		cells: map[string]string{
			ColHost:          host,
			ColInterfaceFile: iface.Name,
			ColInterfaceNB:   iface.InventoryName,
			ColNote:          iface.Notes.String(),
		},
		notes:  map[string]checks.Notes{ColNote: iface.Notes},
		differ: make(map[checks.Key]bool),
	}
	for _, row := range iface.Rows {
		c, ok := checks.Lookup(row.Check)
		if !ok {
			continue
		}
		if !row.Matches {
			l.differ[row.Check] = true
		}
		if row.Change != nil {
			l.cells[c.Abbrev+"ToSet"] = checks.FormatValue(row.Change.Value)
		}
		if c.Key == checks.IntName {
			continue
		}
		l.cells[c.Abbrev+"F"] = row.Observed
		l.cells[c.Abbrev+"N"] = row.Inventory
		l.cells[c.NoteColumn()] = row.Notes.String()
		l.notes[c.NoteColumn()] = row.Notes
	}
	return l
}

// suppress drops column groups of checks that never differ and note
// columns that are empty on every row.
func suppress(cols []column, lines []line, opts Options) []column {
	return slices.DeleteFunc(cols, func(c column) bool {
		if opts.HideNoDiffCols && c.check != "" {
			differs := slices.ContainsFunc(lines, func(l line) bool { return l.differ[c.check] })
			if !differs {
				return true
			}
		}
		if opts.HideEmptyNoteCols && c.note {
			return !slices.ContainsFunc(lines, func(l line) bool { return l.cells[c.name] != "" })
		}
		return false
	})
}

func legend(used map[checks.NoteCode]bool) []LegendEntry {
	codes := make([]checks.NoteCode, 0, len(used))
	for code := range used {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	out := make([]LegendEntry, 0, len(codes))
	for _, code := range codes {
		out = append(out, LegendEntry{Code: code, Text: code.Legend()})
	}
	return out
}
