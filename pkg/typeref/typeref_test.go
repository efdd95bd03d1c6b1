package typeref_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbcheck/pkg/typeref"
)

const tableJSON = `{
  "interface_types": [
    {"value": "1000base-t", "label": "1000BASE-T (1GE)"},
    {"value": "100gbase-x-qsfp28", "label": "QSFP28 (100GE)"},
    {"value": "10gbase-x-sfpp", "label": "SFP+ (10GE)"},
    {"value": "", "label": "dropped"}
  ]
}`

func TestCanonical(t *testing.T) {
	table, err := typeref.Parse([]byte(tableJSON))
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{in: "1000base-t", want: "1000base-t", wantOK: true},
		{in: " QSFP28 (100GE) ", want: "100gbase-x-qsfp28", wantOK: true},
		{in: "SFP+", want: "10gbase-x-sfpp", wantOK: true},
		{in: "1000BASE-T (1GE) copper", want: "1000base-t", wantOK: true},
		{in: "CFP2", wantOK: false},
		{in: "", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := table.Canonical(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalFirstEntryWins(t *testing.T) {
	table := typeref.New([]typeref.Entry{
		{Value: "a", Label: "SFP (1GE)"},
		{Value: "b", Label: "SFP+ (10GE)"},
	})
	got, ok := table.Canonical("SFP")
	require.True(t, ok)
	assert.Equal(t, "a", got)
}

func TestNilTable(t *testing.T) {
	var table *typeref.Table
	assert.False(t, table.Loaded())
	assert.Zero(t, table.Len())
	_, ok := table.Canonical("SFP+")
	assert.False(t, ok)
}

func TestParseShapes(t *testing.T) {
	table, err := typeref.Parse([]byte(`["virtual", "lag"]`))
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())

	table, err = typeref.Parse([]byte(`[{"value": "lag", "label": "Link Aggregation Group (LAG)"}]`))
	require.NoError(t, err)
	assert.Equal(t, []typeref.Entry{{Value: "lag", Label: "Link Aggregation Group (LAG)"}}, table.Entries())

	_, err = typeref.Parse([]byte(`{"types": []}`))
	assert.Error(t, err)

	_, err = typeref.Parse([]byte(`{"interface_types": "lag"}`))
	assert.Error(t, err)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	jsonPath := filepath.Join(dir, "types.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(tableJSON), 0o600))
	table, err := typeref.Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, jsonPath, table.Path())

	yamlPath := filepath.Join(dir, "types.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("interface_types:\n  - value: lag\n    label: LAG\n"), 0o600))
	table, err = typeref.Load(yamlPath)
	require.NoError(t, err)
	got, ok := table.Canonical("LAG")
	assert.True(t, ok)
	assert.Equal(t, "lag", got)

	_, err = typeref.Load(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}
