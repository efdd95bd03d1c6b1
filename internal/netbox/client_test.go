package netbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/nbcheck/pkg/errors"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/logging"
)

// fakeNetBox serves the handful of endpoints the client uses.
type fakeNetBox struct {
	t   *testing.T
	srv *httptest.Server

	mu       sync.Mutex
	patches  map[string]map[string]any
	created  []map[string]any
	gets     map[string]int
	macOwner *int
}

func newFakeNetBox(t *testing.T) *fakeNetBox {
	f := &fakeNetBox{t: t, patches: make(map[string]map[string]any), gets: make(map[string]int)}
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/status/", func(w http.ResponseWriter, _ *http.Request) {
		f.write(w, map[string]any{"netbox-version": "4.3.1"})
	})
	mux.HandleFunc("GET /api/dcim/devices/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "border", r.URL.Query().Get("tag"))
		if r.URL.Query().Get("offset") == "" {
			f.write(w, map[string]any{
				"count": 3,
				"next":  f.srv.URL + "/api/dcim/devices/?tag=border&limit=2&offset=2",
				"results": []any{
					map[string]any{"id": 1, "name": "leaf1", "platform": map[string]any{"id": 5, "name": "Arista EOS"}},
					map[string]any{"id": 2, "name": "leaf2", "platform": map[string]any{"id": 6}},
				},
			})
			return
		}
		f.write(w, map[string]any{
			"count": 3,
			"next":  nil,
			"results": []any{
				map[string]any{"id": 3, "name": "core1", "platform": map[string]any{"id": 6}},
			},
		})
	})
	mux.HandleFunc("GET /api/dcim/platforms/6/", func(w http.ResponseWriter, r *http.Request) {
		f.count(r.URL.Path)
		f.write(w, map[string]any{"id": 6, "name": "Juniper Junos"})
	})
	mux.HandleFunc("GET /api/dcim/interfaces/", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "1", r.URL.Query().Get("device_id"))
		f.write(w, map[string]any{"count": 1, "results": []any{map[string]any{
			"id": 10, "device": map[string]any{"id": 1, "name": "leaf1"}, "name": "Ethernet1",
			"description": "uplink", "type": map[string]any{"value": "10gbase-x-sfpp", "label": "SFP+ (10GE)"},
			"speed": 10000000, "duplex": map[string]any{"value": "full", "label": "Full"},
			"mtu": 9214, "tx_power": nil, "mode": nil,
			"primary_mac_address": map[string]any{"id": 30, "mac_address": "44:4C:A8:BF:2E:91"},
			"mac_addresses":       []any{map[string]any{"id": 30, "mac_address": "44:4C:A8:BF:2E:91"}},
		}}})
	})
	mux.HandleFunc("PATCH /api/dcim/interfaces/{id}/", func(w http.ResponseWriter, r *http.Request) {
		f.record(w, r)
	})
	mux.HandleFunc("GET /api/dcim/mac-addresses/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("mac_address") != "44:4C:A8:BF:2E:91" {
			f.write(w, map[string]any{"count": 0, "results": []any{}})
			return
		}
		f.write(w, map[string]any{"count": 1, "results": []any{map[string]any{
			"id": 30, "mac_address": "44:4C:A8:BF:2E:91",
			"assigned_object_type": "dcim.interface", "assigned_object_id": 10,
		}}})
	})
	mux.HandleFunc("GET /api/dcim/mac-addresses/{id}/", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		owner := f.macOwner
		f.mu.Unlock()
		body := map[string]any{"id": 31, "mac_address": "00:1C:73:AA:BB:CC", "assigned_object_type": nil, "assigned_object_id": nil}
		if owner != nil {
			body["assigned_object_type"] = "dcim.interface"
			body["assigned_object_id"] = *owner
		}
		f.write(w, body)
	})
	mux.HandleFunc("PATCH /api/dcim/mac-addresses/{id}/", func(w http.ResponseWriter, r *http.Request) {
		f.record(w, r)
	})
	mux.HandleFunc("POST /api/dcim/mac-addresses/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		f.mu.Lock()
		f.created = append(f.created, body)
		f.mu.Unlock()
		w.WriteHeader(http.StatusCreated)
		f.write(w, map[string]any{
			"id": 31, "mac_address": body["mac_address"],
			"assigned_object_type": body["assigned_object_type"], "assigned_object_id": body["assigned_object_id"],
		})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)
	return f
}

func (f *fakeNetBox) write(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	require.NoError(f.t, json.NewEncoder(w).Encode(v))
}

func (f *fakeNetBox) count(path string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets[path]++
}

func (f *fakeNetBox) record(w http.ResponseWriter, r *http.Request) {
	var body map[string]any
	require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
	f.mu.Lock()
	f.patches[r.URL.Path] = body
	f.mu.Unlock()
	f.write(w, map[string]any{"id": 1})
}

func newTestClient(t *testing.T, f *fakeNetBox) *Client {
	t.Helper()
	c, err := New(Config{URL: f.srv.URL + "/", Token: "0123456789abcdef"}, WithPageSize(2), WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	return c
}

func TestNewValidatesConfig(t *testing.T) {
	_, err := New(Config{Token: "x"})
	var cfgErr *errors.ConfigError
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "NETBOX_URL")

	_, err = New(Config{URL: "netbox.example.com", Token: "x"})
	assert.Error(t, err)

	_, err = New(Config{URL: "https://netbox.example.com"})
	assert.ErrorContains(t, err, "NETBOX_TOKEN")
}

func TestDevices(t *testing.T) {
	f := newFakeNetBox(t)
	c := newTestClient(t, f)

	devices, err := c.Devices(context.Background(), "border")
	require.NoError(t, err)
	assert.Equal(t, []inventory.Device{
		{ID: 1, Name: "leaf1", Platform: "Arista EOS"},
		{ID: 2, Name: "leaf2", Platform: "Juniper Junos"},
		{ID: 3, Name: "core1", Platform: "Juniper Junos"},
	}, devices)

	// two devices share platform 6, fetched once
	assert.Equal(t, 1, f.gets["/api/dcim/platforms/6/"])
	assert.Equal(t, 2, c.platforms.len())
}

func TestInterfaces(t *testing.T) {
	f := newFakeNetBox(t)
	c := newTestClient(t, f)

	ifaces, err := c.Interfaces(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, ifaces, 1)

	got := ifaces[0]
	assert.Equal(t, 10, got.ID)
	assert.Equal(t, 1, got.DeviceID)
	assert.Equal(t, "10gbase-x-sfpp", got.Type)
	assert.Equal(t, int64(10_000_000), *got.Speed)
	assert.Equal(t, "full", *got.Duplex)
	assert.Nil(t, got.Mode)
	assert.Nil(t, got.TxPower)
	assert.Equal(t, "44:4C:A8:BF:2E:91", got.MAC())
	assert.False(t, got.MACAsymmetric())
}

func TestUpdateInterface(t *testing.T) {
	f := newFakeNetBox(t)
	c := newTestClient(t, f)

	err := c.UpdateInterface(context.Background(), 10, map[string]any{inventory.AttrMode: nil, inventory.AttrMTU: int64(9214)})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"mode": nil, "mtu": float64(9214)}, f.patches["/api/dcim/interfaces/10/"])
}

func TestMACAddresses(t *testing.T) {
	ctx := context.Background()
	f := newFakeNetBox(t)
	c := newTestClient(t, f)

	found, err := c.FindMACAddresses(ctx, "44:4C:A8:BF:2E:91")
	require.NoError(t, err)
	assert.Equal(t, []inventory.MACAddress{{ID: 30, MACAddress: "44:4C:A8:BF:2E:91", AssignedInterfaceID: 10}}, found)

	found, err = c.FindMACAddresses(ctx, "00:1C:73:AA:BB:CC")
	require.NoError(t, err)
	assert.Empty(t, found)

	created, err := c.CreateMACAddress(ctx, "00:1C:73:AA:BB:CC", 11)
	require.NoError(t, err)
	assert.Equal(t, inventory.MACAddress{ID: 31, MACAddress: "00:1C:73:AA:BB:CC", AssignedInterfaceID: 11}, created)
	require.Len(t, f.created, 1)
	assert.Equal(t, "dcim.interface", f.created[0]["assigned_object_type"])

	// unassigned: assign, then point the interface at it
	require.NoError(t, c.SetPrimaryMAC(ctx, 11, 31))
	assert.Equal(t, float64(11), f.patches["/api/dcim/mac-addresses/31/"]["assigned_object_id"])
	assert.Equal(t, float64(31), f.patches["/api/dcim/interfaces/11/"]["primary_mac_address"])

	owner := 12
	f.mu.Lock()
	f.macOwner = &owner
	f.mu.Unlock()
	err = c.SetPrimaryMAC(ctx, 11, 31)
	assert.True(t, errors.IsInvalidInput(err))
}

func TestAuthFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		_, _ = fmt.Fprint(w, `{"detail":"Invalid token"}`)
	}))
	defer srv.Close()

	c, err := New(Config{URL: srv.URL, Token: "nbt_abc.def"}, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)

	_, err = c.Devices(context.Background(), "border")
	assert.True(t, errors.IsAuthError(err))
	assert.True(t, errors.IsAuthError(c.Ping(context.Background())))
}

func TestUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c, err := New(Config{URL: url, Token: "x"}, WithLogger(logging.NewNopLogger()))
	require.NoError(t, err)
	assert.True(t, errors.IsConnectivityError(c.Ping(context.Background())))
}
