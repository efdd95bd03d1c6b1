package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/agentstation/nbcheck/internal/cmd/output"
)

// document is the structured form of a report.
type document struct {
	Message              string              `json:"message,omitempty" yaml:"message,omitempty"`
	Columns              []string            `json:"columns" yaml:"columns"`
	Rows                 []map[string]string `json:"rows" yaml:"rows"`
	OKHosts              []string            `json:"ok_hosts,omitempty" yaml:"ok_hosts,omitempty"`
	Stats                Stats               `json:"stats" yaml:"stats"`
	Legend               []LegendEntry       `json:"note_legend,omitempty" yaml:"note_legend,omitempty"`
	Warnings             []string            `json:"warnings,omitempty" yaml:"warnings,omitempty"`
	HostsOnlyInFile      []string            `json:"hosts_only_in_file,omitempty" yaml:"hosts_only_in_file,omitempty"`
	HostsOnlyInInventory []string            `json:"hosts_only_in_inventory,omitempty" yaml:"hosts_only_in_inventory,omitempty"`
	Skipped              []Skip              `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Document returns the structured form used by the json and yaml renderers.
func (r *Report) Document() any {
	doc := document{
		Columns:              r.Columns,
		Rows:                 r.Records(),
		OKHosts:              r.OKHosts,
		Stats:                r.Stats,
		Legend:               r.Legend,
		Warnings:             r.Warnings,
		HostsOnlyInFile:      r.HostsOnlyInFile,
		HostsOnlyInInventory: r.HostsOnlyInInventory,
		Skipped:              r.Skipped,
	}
	if r.NoDifferences {
		doc.Message = NoDifferencesMessage
	}
	return doc
}

// Render writes the report in the given format.
func (r *Report) Render(w io.Writer, format output.Format) error {
	switch format {
	case output.FormatJSON, output.FormatYAML:
		return output.NewFormatter(format).Format(w, r.Document())
	case output.FormatTable, "":
		return r.renderTable(w)
	default:
		return fmt.Errorf("unsupported report format %q", format)
	}
}

func (r *Report) renderTable(w io.Writer) error {
	s := newStyles(w)
	r.renderPreamble(w, s)

	if r.NoDifferences {
		_, err := fmt.Fprintln(w, s.success.Render(NoDifferencesMessage))
		return err
	}

	if len(r.Rows) > 0 {
		data := output.Data{Headers: r.Columns, Rows: r.Rows, ColumnAlignment: r.Alignment}
		if err := output.NewFormatter(output.FormatTable).Format(w, data); err != nil {
			return err
		}
	}

	if r.hideOKHosts {
		if len(r.OKHosts) > 0 {
			_, _ = fmt.Fprintln(w, s.heading.Render("OK hosts:"))
			_, _ = fmt.Fprintf(w, "  %s\n", strings.Join(r.OKHosts, ", "))
		}
		_, _ = fmt.Fprintf(w, "hosts OK=%d, hosts with diff=%d\n", r.Stats.HostsOK, r.Stats.HostsWithDiff)
		_, _ = fmt.Fprintf(w, "interfaces OK=%d, interfaces with diff=%d\n", r.Stats.InterfacesOK, r.Stats.InterfacesWithDiff)
	}

	if len(r.Legend) > 0 {
		_, _ = fmt.Fprintln(w, s.heading.Render("Notes:"))
		for _, e := range r.Legend {
			_, _ = fmt.Fprintf(w, "  %2d  %s\n", e.Code, s.muted.Render(e.Text))
		}
	}
	return nil
}

// RenderWarnings writes the standing warnings of the run, one per line.
// They are kept out of Render so a structured report stays parseable.
func (r *Report) RenderWarnings(w io.Writer) {
	s := newStyles(w)
	for _, warning := range r.Warnings {
		_, _ = fmt.Fprintln(w, s.warning.Render("WARNING: "+warning))
	}
}

func (r *Report) renderPreamble(w io.Writer, s styles) {
	if len(r.HostsOnlyInFile) > 0 {
		_, _ = fmt.Fprintf(w, "%s %s\n", s.heading.Render("Hosts only in file:"), strings.Join(r.HostsOnlyInFile, ", "))
	}
	if len(r.HostsOnlyInInventory) > 0 {
		_, _ = fmt.Fprintf(w, "%s %s\n", s.heading.Render("Hosts only in inventory:"), strings.Join(r.HostsOnlyInInventory, ", "))
	}

	caser := cases.Title(language.English)
	var reasons []string
	byReason := make(map[string][]string)
	for _, skip := range r.Skipped {
		if _, ok := byReason[skip.Reason]; !ok {
			reasons = append(reasons, skip.Reason)
		}
		byReason[skip.Reason] = append(byReason[skip.Reason], skip.Host)
	}
	for _, reason := range reasons {
		heading := fmt.Sprintf("Skipped (%s):", caser.String(reason))
		_, _ = fmt.Fprintf(w, "%s %s\n", s.heading.Render(heading), strings.Join(byReason[reason], ", "))
	}
}
