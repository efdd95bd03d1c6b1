package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbcheck/pkg/checks"
)

func TestParseKey(t *testing.T) {
	k, err := checks.ParseKey(" TX_POWER ")
	require.NoError(t, err)
	assert.Equal(t, checks.TxPower, k)

	_, err = checks.ParseKey("speed")
	assert.Error(t, err)
}

func TestSetOrder(t *testing.T) {
	s := checks.NewSet(checks.MTU, checks.IntName, checks.MAC)
	assert.Equal(t, []checks.Key{checks.IntName, checks.MAC, checks.MTU}, s.Keys())
	assert.Equal(t, "intname,mac,mtu", s.String())
	assert.True(t, s.Has(checks.MAC))
	assert.False(t, s.Has(checks.Duplex))
	assert.Equal(t, checks.Keys(), checks.All().Keys())
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name        string
		selected    []checks.Key
		all         bool
		apply       bool
		hideOKHosts bool
		want        int
	}{
		{name: "nothing selected report run enables all", want: 9},
		{name: "nothing selected apply run enables none", apply: true, want: 0},
		{name: "hide ok hosts alone enables all", apply: true, hideOKHosts: true, want: 9},
		{name: "explicit selection kept", selected: []checks.Key{checks.MTU}, hideOKHosts: true, want: 1},
		{name: "all flag wins", selected: []checks.Key{checks.MTU}, all: true, apply: true, want: 9},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := checks.Resolve(tt.selected, tt.all, tt.apply, tt.hideOKHosts)
			assert.Equal(t, tt.want, got.Len())
		})
	}
}

func TestNotes(t *testing.T) {
	n := checks.Notes{checks.NoteMACAsymmetric, checks.NoteMACDiff, checks.NoteMACDiff}.Normalize()
	assert.Equal(t, "12,16", n.String())
	assert.Nil(t, checks.Notes{}.Normalize())
	assert.Equal(t, "unknown note", checks.NoteCode(99).Legend())
	assert.NotEmpty(t, checks.NoteNotFound.Legend())
}
