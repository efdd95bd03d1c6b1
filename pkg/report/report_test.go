package report_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbcheck/internal/cmd/output"
	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/differ"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/observed"
	"github.com/agentstation/nbcheck/pkg/report"
)

func ptr[T any](v T) *T { return &v }

// host returns a one-interface host that matches on every check except mtu
// when observedMTU differs from 1500.
func host(t *testing.T, enabled checks.Set, id int, name string, observedMTU float64) differ.HostResult {
	t.Helper()
	obs := []observed.Interface{{
		Name: "Ethernet1", Description: ptr("uplink"),
		Bandwidth: observed.NewNumber(1_000_000_000), Duplex: "full",
		MTU: observed.NewNumber(observedMTU), TxPower: observed.NewNumber(-2),
		ForwardingModel: "routed",
	}}
	inv := []inventory.Interface{{
		ID: id, DeviceID: id, Name: "Ethernet1", Description: "uplink",
		Speed: ptr(int64(1_000_000)), Duplex: ptr("full"), MTU: ptr(int64(1500)), TxPower: ptr(int64(-2)),
	}}
	return differ.New(enabled).Host(inventory.Device{ID: id, Name: name}, obs, inv)
}

func render(t *testing.T, r *report.Report, format output.Format) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, r.Render(&buf, format))
	return buf.String()
}

func TestHideOKHosts(t *testing.T) {
	all := checks.All()
	results := []differ.HostResult{host(t, all, 1, "leaf1", 1500), host(t, all, 2, "leaf2", 9214)}

	r := report.Build(results, all, report.Options{HideOKHosts: true})
	assert.False(t, r.NoDifferences)
	assert.Equal(t, []string{"leaf1"}, r.OKHosts)
	assert.Equal(t, report.Stats{HostsOK: 1, HostsWithDiff: 1, InterfacesOK: 1, InterfacesWithDiff: 1}, r.Stats)
	require.Len(t, r.Rows, 1)
	assert.Equal(t, "leaf2", r.Rows[0][0])

	out := render(t, r, output.FormatTable)
	assert.Contains(t, out, "OK hosts:")
	assert.Contains(t, out, "hosts OK=1, hosts with diff=1")
	assert.Contains(t, out, "interfaces OK=1, interfaces with diff=1")
	assert.Contains(t, out, "leaf2")
	assert.Contains(t, out, "device mtu and inventory mtu differ")
}

func TestNoDifferences(t *testing.T) {
	all := checks.All()
	r := report.Build([]differ.HostResult{host(t, all, 1, "leaf1", 1500)}, all, report.Options{})
	assert.True(t, r.NoDifferences)

	out := render(t, r, output.FormatTable)
	assert.Contains(t, out, report.NoDifferencesMessage)
	assert.NotContains(t, out, "leaf1")

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(render(t, r, output.FormatJSON)), &doc))
	assert.Equal(t, report.NoDifferencesMessage, doc["message"])
}

func TestColumns(t *testing.T) {
	enabled := checks.NewSet(checks.MTU, checks.Duplex)
	results := []differ.HostResult{host(t, enabled, 1, "leaf1", 1500), host(t, enabled, 2, "leaf2", 9214)}

	r := report.Build(results, enabled, report.Options{ShowChange: true})
	assert.Equal(t, []string{
		"host", "intF", "intN", "note",
		"dupF", "dupN", "nDup", "dupToSet",
		"mtuF", "mtuN", "nMtu", "mtuToSet",
	}, r.Columns)
	assert.Equal(t, []string{
		"leaf2", "Ethernet1", "Ethernet1", "",
		"full", "full", "", "",
		"9214", "1500", "13", "9214",
	}, r.Rows[1])

	l, rt := output.AlignLeft, output.AlignRight
	assert.Equal(t, []output.Align{
		l, l, l, l,
		l, l, l, l,
		rt, rt, l, rt,
	}, r.Alignment)
}

func TestNumericColumnsRightAligned(t *testing.T) {
	enabled := checks.NewSet(checks.Bandwidth, checks.TxPower, checks.Description)
	r := report.Build([]differ.HostResult{host(t, enabled, 1, "leaf1", 1500)}, enabled, report.Options{})

	require.Len(t, r.Alignment, len(r.Columns))
	aligned := map[string]output.Align{}
	for i, name := range r.Columns {
		aligned[name] = r.Alignment[i]
	}
	for _, name := range []string{"bwF", "bwN", "txpF", "txpN"} {
		assert.Equal(t, output.AlignRight, aligned[name], name)
	}
	for _, name := range []string{"host", "intF", "descF", "descN", "nBw"} {
		assert.Equal(t, output.AlignLeft, aligned[name], name)
	}
}

func TestColumnSuppression(t *testing.T) {
	enabled := checks.NewSet(checks.MTU, checks.Duplex)
	results := []differ.HostResult{host(t, enabled, 1, "leaf1", 1500), host(t, enabled, 2, "leaf2", 9214)}

	r := report.Build(results, enabled, report.Options{HideEmptyNoteCols: true, HideNoDiffCols: true})
	assert.Equal(t, []string{"host", "intF", "intN", "mtuF", "mtuN", "nMtu"}, r.Columns)
	assert.Equal(t, [][]string{
		{"leaf1", "Ethernet1", "Ethernet1", "1500", "1500", ""},
		{"leaf2", "Ethernet1", "Ethernet1", "9214", "1500", "13"},
	}, r.Rows)
	require.Len(t, r.Legend, 1)
	assert.Equal(t, checks.NoteMTUDiff, r.Legend[0].Code)
	assert.Equal(t, []output.Align{
		output.AlignLeft, output.AlignLeft, output.AlignLeft,
		output.AlignRight, output.AlignRight, output.AlignLeft,
	}, r.Alignment)
}

func TestUnmatchedInterface(t *testing.T) {
	enabled := checks.NewSet(checks.IntName, checks.MTU)
	result := differ.New(enabled).Host(inventory.Device{ID: 1, Name: "leaf1"},
		[]observed.Interface{{Name: "Management1", MTU: observed.NewNumber(1500)}}, nil)

	r := report.Build([]differ.HostResult{result}, enabled, report.Options{})
	require.Len(t, r.Rows, 1)
	assert.Equal(t, []string{"leaf1", "Management1", "", "4", "", "", ""}, r.Rows[0])
	require.Len(t, r.Legend, 1)
	assert.Equal(t, checks.NoteNotFound, r.Legend[0].Code)
}

func TestStructuredOutput(t *testing.T) {
	enabled := checks.NewSet(checks.MTU)
	results := []differ.HostResult{host(t, enabled, 2, "leaf2", 9214)}
	r := report.Build(results, enabled, report.Options{Warnings: []string{"check the cabling"}})

	var doc struct {
		Columns []string             `json:"columns"`
		Rows    []map[string]string  `json:"rows"`
		Stats   report.Stats         `json:"stats"`
		Legend  []report.LegendEntry `json:"note_legend"`
		Message string               `json:"message"`
	}
	require.NoError(t, json.Unmarshal([]byte(render(t, r, output.FormatJSON)), &doc))
	assert.Empty(t, doc.Message)
	require.Len(t, doc.Rows, 1)
	assert.Equal(t, "9214", doc.Rows[0]["mtuF"])
	assert.Equal(t, 1, doc.Stats.HostsWithDiff)
	require.Len(t, doc.Legend, 1)
	assert.Equal(t, checks.NoteMTUDiff, doc.Legend[0].Code)

	yaml := render(t, r, output.FormatYAML)
	assert.Contains(t, yaml, "hosts_with_diff: 1")
	assert.Contains(t, yaml, "check the cabling")
}

func TestPreamble(t *testing.T) {
	enabled := checks.NewSet(checks.MTU)
	r := report.Build([]differ.HostResult{host(t, enabled, 2, "leaf2", 9214)}, enabled, report.Options{
		Warnings:             []string{"no type reference table loaded"},
		HostsOnlyInFile:      []string{"spare1"},
		HostsOnlyInInventory: []string{"leaf9"},
		Skipped: []report.Skip{
			{Host: "a", Reason: "not in inventory"},
			{Host: "b", Reason: "platform mismatch"},
			{Host: "c", Reason: "not in inventory"},
		},
	})

	out := render(t, r, output.FormatTable)
	assert.NotContains(t, out, "WARNING")
	assert.Contains(t, out, "Hosts only in file: spare1")
	assert.Contains(t, out, "Hosts only in inventory: leaf9")
	assert.Contains(t, out, "Skipped (Not In Inventory): a, c")
	assert.Contains(t, out, "Skipped (Platform Mismatch): b")

	assert.Error(t, r.Render(&bytes.Buffer{}, output.Format("xml")))

	var warnings bytes.Buffer
	r.RenderWarnings(&warnings)
	assert.Equal(t, "WARNING: no type reference table loaded\n", warnings.String())
}
