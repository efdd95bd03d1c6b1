// Package typeref loads the interface type reference table and maps
// free-form media type strings onto inventory catalog slugs.
//
// The table file is either {"interface_types": [{"value", "label"}, ...]},
// a bare list of such entries, or a list of plain value strings. Files with
// a .yaml or .yml extension are read as YAML.
package typeref

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/nbcheck/pkg/errors"
)

const typesKey = "interface_types"

// Entry is one catalog type.
type Entry struct {
	Value string `json:"value" yaml:"value"`
	Label string `json:"label" yaml:"label"`
}

// Table is an ordered, read-only type reference table.
// A nil *Table is valid and means no table is loaded.
type Table struct {
	path    string
	entries []Entry
	values  map[string]struct{}
}

// New builds a table from entries. Entries without a value are dropped.
func New(entries []Entry) *Table {
	t := &Table{values: make(map[string]struct{}, len(entries))}
	for _, e := range entries {
		e.Value = strings.TrimSpace(e.Value)
		e.Label = strings.TrimSpace(e.Label)
		if e.Value == "" {
			continue
		}
		t.entries = append(t.entries, e)
		t.values[e.Value] = struct{}{}
	}
	return t
}

// Load reads a table file.
func Load(path string) (*Table, error) {
	data, err := os.ReadFile(path) //nolint:gosec // operator supplied path
	if err != nil {
		return nil, errors.WrapIO("read", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if data, err = yaml.YAMLToJSON(data); err != nil {
			return nil, errors.WrapParse("yaml", path, err)
		}
	}

	t, err := Parse(data)
	if err != nil {
		return nil, errors.WrapParse("json", path, err)
	}
	t.path = path
	return t, nil
}

// Parse decodes a JSON table document.
func Parse(data []byte) (*Table, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if obj, ok := doc.(map[string]any); ok {
		doc, ok = obj[typesKey]
		if !ok {
			return nil, errors.New("expected key '" + typesKey + "' holding a list")
		}
	}

	list, ok := doc.([]any)
	if !ok {
		return nil, errors.New("expected a list of interface types")
	}

	entries := make([]Entry, 0, len(list))
	for _, item := range list {
		switch v := item.(type) {
		case string:
			entries = append(entries, Entry{Value: v})
		case map[string]any:
			value, _ := v["value"].(string)
			label, _ := v["label"].(string)
			entries = append(entries, Entry{Value: value, Label: label})
		}
	}
	return New(entries), nil
}

// Loaded reports whether t holds a table.
func (t *Table) Loaded() bool {
	return t != nil
}

// Len returns the number of entries.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}

// Path returns the file the table was loaded from, if any.
func (t *Table) Path() string {
	if t == nil {
		return ""
	}
	return t.path
}

// Entries returns a copy of the entries in file order.
func (t *Table) Entries() []Entry {
	if t == nil {
		return nil
	}
	return append([]Entry(nil), t.entries...)
}

// Canonical maps s to a catalog slug. An exact value wins; otherwise entries
// are scanned in file order and the first whose label equals s, or is a
// prefix of s, or has s as a prefix, supplies its value.
func (t *Table) Canonical(s string) (string, bool) {
	s = strings.TrimSpace(s)
	if t == nil || s == "" {
		return "", false
	}
	if _, ok := t.values[s]; ok {
		return s, true
	}
	for _, e := range t.entries {
		if e.Label == "" {
			continue
		}
		if s == e.Label || strings.HasPrefix(e.Label, s) || strings.HasPrefix(s, e.Label) {
			return e.Value, true
		}
	}
	return "", false
}
