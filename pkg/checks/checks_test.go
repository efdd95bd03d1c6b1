package checks_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/ifname"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/observed"
	"github.com/agentstation/nbcheck/pkg/typeref"
)

type outcome struct {
	obs, inv  checks.Normalized
	matches   bool
	notes     string
	setter    any
	hasSetter bool
}

func evaluate(t *testing.T, key checks.Key, env *checks.Env, o observed.Interface, i inventory.Interface, match ifname.Note) outcome {
	t.Helper()
	c, ok := checks.Lookup(key)
	require.True(t, ok)

	obs, inv := c.Normalize(env, c.ExtractObserved(&o), c.ExtractInventory(&i))
	matches := c.Compare(obs, inv)
	out := outcome{
		obs:     obs,
		inv:     inv,
		matches: matches,
		notes:   c.Describe(checks.Pair{Observed: &o, Inventory: &i, Match: match}, obs, inv, matches).String(),
	}
	if !matches {
		out.setter, out.hasSetter = c.BuildSetter(env, obs)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestRegistryOrder(t *testing.T) {
	var keys []checks.Key
	for _, c := range checks.Registry() {
		keys = append(keys, c.Key)
	}
	assert.Equal(t, checks.Keys(), keys)

	enabled := checks.Enabled(checks.NewSet(checks.MTU, checks.Duplex))
	require.Len(t, enabled, 2)
	assert.Equal(t, checks.Duplex, enabled[0].Key)

	c, _ := checks.Lookup(checks.TxPower)
	assert.Equal(t, "nTxp", c.NoteColumn())
	c, _ = checks.Lookup(checks.IntName)
	assert.Equal(t, "note", c.NoteColumn())
}

func TestEqualValuesNeverProduceSetter(t *testing.T) {
	o := observed.Interface{
		Name: "Ethernet1/1", Description: ptr(" uplink "), MediaType: "100gbase-x-qsfp28",
		Bandwidth: observed.NewNumber(100_000_000_000), Duplex: "duplexFull",
		PhysicalAddress: "444c.a8bf.2e91", MTU: observed.NewNumber(9214),
		TxPower: observed.NewNumber(-1.6), ForwardingModel: "routed",
	}
	i := inventory.Interface{
		Name: "Ethernet1/1", Description: "uplink", Type: "100gbase-x-qsfp28",
		Speed: ptr(int64(100_000_000)), Duplex: ptr("full"),
		PrimaryMAC:   &inventory.MACRef{ID: 1, MACAddress: "44:4C:A8:BF:2E:91"},
		MACAddresses: []inventory.MACRef{{ID: 1, MACAddress: "44:4C:A8:BF:2E:91"}},
		MTU:          ptr(int64(9214)), TxPower: ptr(int64(-2)),
	}

	for _, key := range checks.Keys() {
		t.Run(string(key), func(t *testing.T) {
			got := evaluate(t, key, &checks.Env{}, o, i, ifname.Exact)
			assert.True(t, got.matches)
			assert.False(t, got.hasSetter)
			assert.Empty(t, got.notes)
		})
	}
}

func TestBandwidthAndDuplexScenario(t *testing.T) {
	o := observed.Interface{Bandwidth: observed.NewNumber(10_000_000_000), Duplex: "full"}
	i := inventory.Interface{Speed: ptr(int64(9_999_999)), Duplex: ptr("Full-Duplex")}

	bw := evaluate(t, checks.Bandwidth, &checks.Env{}, o, i, ifname.Exact)
	assert.False(t, bw.matches)
	assert.Equal(t, int64(10_000_000), bw.obs.Value)
	assert.Equal(t, "10", bw.notes)
	assert.True(t, bw.hasSetter)
	assert.Equal(t, int64(10_000_000), bw.setter)

	dup := evaluate(t, checks.Duplex, &checks.Env{}, o, i, ifname.Exact)
	assert.True(t, dup.matches)
	assert.Equal(t, "full", dup.inv.Display)
}

func TestBandwidthSetterRoundTrip(t *testing.T) {
	o := observed.Interface{Bandwidth: observed.NewNumber(10_000_000_000)}
	bw := evaluate(t, checks.Bandwidth, &checks.Env{}, o, inventory.Interface{Speed: ptr(int64(1_000_000))}, ifname.Exact)
	require.True(t, bw.hasSetter)

	// writing the setter value makes the next comparison match
	speed := bw.setter.(int64)
	again := evaluate(t, checks.Bandwidth, &checks.Env{}, o, inventory.Interface{Speed: &speed}, ifname.Exact)
	assert.True(t, again.matches)
	assert.False(t, again.hasSetter)
}

func TestMissingNumericValues(t *testing.T) {
	withMTU := observed.Interface{MTU: observed.NewNumber(1500)}

	got := evaluate(t, checks.MTU, &checks.Env{}, withMTU, inventory.Interface{}, ifname.Exact)
	assert.False(t, got.matches)
	assert.Equal(t, "13,18", got.notes)
	assert.Equal(t, int64(1500), got.setter)

	got = evaluate(t, checks.MTU, &checks.Env{}, observed.Interface{}, inventory.Interface{MTU: ptr(int64(1500))}, ifname.Exact)
	assert.False(t, got.matches)
	assert.Equal(t, "13,17", got.notes)
	assert.False(t, got.hasSetter)

	bad := observed.Interface{TxPower: observed.Number{Set: true, Raw: "n/a"}}
	got = evaluate(t, checks.TxPower, &checks.Env{}, bad, inventory.Interface{TxPower: ptr(int64(-3))}, ifname.Exact)
	assert.False(t, got.matches)
	assert.Equal(t, "n/a", got.obs.Display)
	assert.False(t, got.hasSetter)
}

func TestMAC(t *testing.T) {
	o := observed.Interface{PhysicalAddress: "44-4c-a8-bf-2e-91"}

	t.Run("absent inventory mac is a mismatch", func(t *testing.T) {
		got := evaluate(t, checks.MAC, &checks.Env{}, o, inventory.Interface{}, ifname.Exact)
		assert.False(t, got.matches)
		assert.Equal(t, "12,18", got.notes)
		assert.Equal(t, "44:4C:A8:BF:2E:91", got.setter)
	})

	t.Run("unparseable inventory mac is a mismatch", func(t *testing.T) {
		got := evaluate(t, checks.MAC, &checks.Env{}, o, inventory.Interface{MACAddress: "garbage"}, ifname.Exact)
		assert.False(t, got.matches)
		assert.Contains(t, got.notes, "12")
	})

	t.Run("asymmetry is noted on a match", func(t *testing.T) {
		i := inventory.Interface{MACAddresses: []inventory.MACRef{{ID: 4, MACAddress: "44:4C:A8:BF:2E:91"}}}
		got := evaluate(t, checks.MAC, &checks.Env{}, o, i, ifname.Exact)
		assert.True(t, got.matches)
		assert.Equal(t, "16", got.notes)
	})

	t.Run("device without mac is not compared", func(t *testing.T) {
		got := evaluate(t, checks.MAC, &checks.Env{}, observed.Interface{}, inventory.Interface{}, ifname.Exact)
		assert.True(t, got.matches)
		assert.Empty(t, got.notes)
	})
}

func TestForwardingModel(t *testing.T) {
	tests := []struct {
		name      string
		model     string
		mode      *string
		matches   bool
		notes     string
		setter    any
		hasSetter bool
	}{
		{name: "routed on null", model: "routed", matches: true},
		{name: "bridged on tagged", model: "bridged", mode: ptr("tagged"), matches: true},
		{name: "routed on tagged", model: "routed", mode: ptr("tagged"), notes: "15", setter: nil, hasSetter: true},
		{name: "bridged on null", model: "bridged", notes: "15", setter: "tagged", hasSetter: true},
		{name: "bridged on access", model: "bridged", mode: ptr("access"), notes: "15", setter: "tagged", hasSetter: true},
		{name: "unknown model", model: "switched", notes: "15,19"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := evaluate(t, checks.ForwardingModel, &checks.Env{},
				observed.Interface{ForwardingModel: tt.model}, inventory.Interface{Mode: tt.mode}, ifname.Exact)
			assert.Equal(t, tt.matches, got.matches)
			assert.Equal(t, tt.notes, got.notes)
			assert.Equal(t, tt.hasSetter, got.hasSetter)
			assert.Equal(t, tt.setter, got.setter)
		})
	}
}

func TestMediaType(t *testing.T) {
	table := typeref.New([]typeref.Entry{
		{Value: "100gbase-x-qsfp28", Label: "QSFP28 (100GE)"},
		{Value: "10gbase-x-sfpp", Label: "SFP+ (10GE)"},
	})
	withTable := &checks.Env{Types: table}

	t.Run("label and slug map to the same token", func(t *testing.T) {
		got := evaluate(t, checks.MediaType, withTable,
			observed.Interface{MediaType: "QSFP28"}, inventory.Interface{Type: "100gbase-x-qsfp28"}, ifname.Exact)
		assert.True(t, got.matches)
	})

	t.Run("mapped mismatch sets the slug", func(t *testing.T) {
		got := evaluate(t, checks.MediaType, withTable,
			observed.Interface{MediaType: "SFP+"}, inventory.Interface{Type: "100gbase-x-qsfp28"}, ifname.Exact)
		assert.False(t, got.matches)
		assert.Equal(t, "7", got.notes)
		assert.Equal(t, "10gbase-x-sfpp", got.setter)
	})

	t.Run("lookup miss has no setter", func(t *testing.T) {
		got := evaluate(t, checks.MediaType, withTable,
			observed.Interface{MediaType: "CFP2"}, inventory.Interface{Type: "other"}, ifname.Exact)
		assert.False(t, got.matches)
		assert.Equal(t, "7,8,9", got.notes)
		assert.False(t, got.hasSetter)
	})

	t.Run("no table compares raw strings", func(t *testing.T) {
		got := evaluate(t, checks.MediaType, &checks.Env{},
			observed.Interface{MediaType: "QSFP28"}, inventory.Interface{Type: "100gbase-x-qsfp28"}, ifname.Exact)
		assert.False(t, got.matches)
		assert.Equal(t, "QSFP28", got.setter)
	})

	assert.NotEmpty(t, checks.Warnings(checks.All(), &checks.Env{}))
	assert.Empty(t, checks.Warnings(checks.All(), withTable))
	assert.Empty(t, checks.Warnings(checks.NewSet(checks.MTU), nil))
}

func TestIntName(t *testing.T) {
	o := observed.Interface{Name: "Ethernet2/1"}

	got := evaluate(t, checks.IntName, &checks.Env{}, o, inventory.Interface{Name: "ethernet2/1"}, ifname.LowerCase)
	assert.False(t, got.matches)
	assert.Equal(t, "2", got.notes)
	assert.Equal(t, "Ethernet2/1", got.setter)

	got = evaluate(t, checks.IntName, &checks.Env{}, o, inventory.Interface{Name: "Ethernet2/1"}, ifname.Exact)
	assert.True(t, got.matches)
	assert.Empty(t, got.notes)
}

func TestDescriptionAbsentIsEmpty(t *testing.T) {
	got := evaluate(t, checks.Description, &checks.Env{}, observed.Interface{}, inventory.Interface{Description: "  "}, ifname.Exact)
	assert.True(t, got.matches)

	got = evaluate(t, checks.Description, &checks.Env{}, observed.Interface{Description: ptr("core uplink")}, inventory.Interface{}, ifname.Exact)
	assert.False(t, got.matches)
	assert.Equal(t, "5", got.notes)
	assert.Equal(t, "core uplink", got.setter)
}

func TestFormatValue(t *testing.T) {
	assert.Equal(t, "null", checks.FormatValue(nil))
	assert.Equal(t, "9214", checks.FormatValue(int64(9214)))
}
