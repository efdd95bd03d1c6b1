// Package netbox implements the inventory capability interfaces over the
// NetBox REST API.
package netbox

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/internal/transport"
	"github.com/agentstation/nbcheck/pkg/constants"
	"github.com/agentstation/nbcheck/pkg/errors"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/logging"
)

const system = "netbox"

var _ inventory.Client = (*Client)(nil)

// Config holds the connection settings.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Client talks to one NetBox instance.
type Client struct {
	baseURL    *url.URL
	http       *transport.Client
	httpClient *http.Client
	timeout    time.Duration
	pageSize   int
	platforms  *platformCache
	logger     *zerolog.Logger
}

// New creates a Client. Tokens of the form nbt_<key>.<secret> are sent as
// Bearer tokens, anything else with the legacy Token scheme.
func New(cfg Config, opts ...Option) (*Client, error) {
	if strings.TrimSpace(cfg.URL) == "" {
		return nil, errors.NewConfigError(system, constants.EnvNetBoxURL+" is not set", nil)
	}
	base, err := url.Parse(strings.TrimRight(cfg.URL, "/"))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.NewConfigError(system, fmt.Sprintf("invalid URL %q", cfg.URL), err)
	}
	if strings.TrimSpace(cfg.Token) == "" {
		return nil, errors.NewConfigError(system, constants.EnvNetBoxToken+" is not set", nil)
	}

	c := &Client{
		baseURL:   base,
		timeout:   cfg.Timeout,
		pageSize:  constants.DefaultPageSize,
		platforms: newPlatformCache(constants.CacheTTL, constants.CacheCleanupInterval),
		logger:    logging.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	var auth transport.Authenticator = &transport.TokenAuth{}
	if strings.HasPrefix(cfg.Token, "nbt_") {
		auth = &transport.BearerAuth{}
	}
	c.http = transport.New(system, auth, cfg.Token).WithHTTPClient(c.httpClient)
	c.http.SetTimeout(c.timeout)

	return c, nil
}

// Ping checks that the API is reachable and the token is accepted.
func (c *Client) Ping(ctx context.Context) error {
	resp, err := c.http.Get(ctx, c.endpoint("/api/status/", nil))
	if err != nil {
		return err
	}
	return c.http.DecodeResponse(resp, nil)
}

// Devices implements inventory.Querier. An empty tag lists every device.
func (c *Client) Devices(ctx context.Context, tag string) ([]inventory.Device, error) {
	query := url.Values{}
	if tag != "" {
		query.Set("tag", tag)
	}
	devices, err := list[device](ctx, c, "/api/dcim/devices/", query)
	if err != nil {
		return nil, err
	}

	out := make([]inventory.Device, 0, len(devices))
	for _, d := range devices {
		platform, err := c.platformName(ctx, d.Platform)
		if err != nil {
			return nil, err
		}
		out = append(out, d.toInventory(platform))
	}
	c.logger.Debug().Str("tag", tag).Int("devices", len(out)).Msg("Listed devices")
	return out, nil
}

// Interfaces implements inventory.Querier.
func (c *Client) Interfaces(ctx context.Context, deviceID int) ([]inventory.Interface, error) {
	query := url.Values{"device_id": {strconv.Itoa(deviceID)}}
	ifaces, err := list[iface](ctx, c, "/api/dcim/interfaces/", query)
	if err != nil {
		return nil, err
	}

	out := make([]inventory.Interface, 0, len(ifaces))
	for _, i := range ifaces {
		out = append(out, i.toInventory())
	}
	return out, nil
}

// UpdateInterface implements inventory.Updater.
func (c *Client) UpdateInterface(ctx context.Context, id int, attrs map[string]any) error {
	return c.send(ctx, http.MethodPatch, fmt.Sprintf("/api/dcim/interfaces/%d/", id), attrs, nil)
}

// FindMACAddresses implements inventory.Updater.
func (c *Client) FindMACAddresses(ctx context.Context, mac string) ([]inventory.MACAddress, error) {
	found, err := list[macAddress](ctx, c, "/api/dcim/mac-addresses/", url.Values{"mac_address": {mac}})
	if err != nil {
		return nil, err
	}
	out := make([]inventory.MACAddress, 0, len(found))
	for _, m := range found {
		out = append(out, m.toInventory())
	}
	return out, nil
}

// CreateMACAddress implements inventory.Updater.
func (c *Client) CreateMACAddress(ctx context.Context, mac string, interfaceID int) (inventory.MACAddress, error) {
	body := map[string]any{
		"mac_address":          mac,
		"assigned_object_type": interfaceObjectType,
		"assigned_object_id":   interfaceID,
	}
	var created macAddress
	if err := c.send(ctx, http.MethodPost, "/api/dcim/mac-addresses/", body, &created); err != nil {
		return inventory.MACAddress{}, err
	}
	return created.toInventory(), nil
}

// SetPrimaryMAC implements inventory.Updater. An unassigned entity is first
// assigned to the interface; one assigned elsewhere is refused.
func (c *Client) SetPrimaryMAC(ctx context.Context, interfaceID, macID int) error {
	path := fmt.Sprintf("/api/dcim/mac-addresses/%d/", macID)
	var current macAddress
	if err := c.get(ctx, path, nil, &current); err != nil {
		return err
	}

	switch assigned := current.toInventory().AssignedInterfaceID; assigned {
	case interfaceID:
	case 0:
		body := map[string]any{"assigned_object_type": interfaceObjectType, "assigned_object_id": interfaceID}
		if err := c.send(ctx, http.MethodPatch, path, body, nil); err != nil {
			return err
		}
	default:
		return errors.NewValidationError(inventory.AttrPrimaryMAC, macID,
			fmt.Sprintf("mac address %s is assigned to interface %d", current.MACAddress, assigned))
	}

	return c.UpdateInterface(ctx, interfaceID, map[string]any{inventory.AttrPrimaryMAC: macID})
}

// platformName resolves a nested platform, fetching it when the nested
// representation carries no name.
func (c *Client) platformName(ctx context.Context, ref *nestedRef) (string, error) {
	if ref == nil || ref.ID == 0 {
		return "", nil
	}
	if name, ok := c.platforms.get(ref.ID); ok {
		return name, nil
	}
	name := ref.Name
	if name == "" {
		var p nestedRef
		if err := c.get(ctx, fmt.Sprintf("/api/dcim/platforms/%d/", ref.ID), nil, &p); err != nil {
			return "", err
		}
		name = p.Name
	}
	c.platforms.set(ref.ID, name)
	return name, nil
}

func (c *Client) endpoint(path string, query url.Values) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	if len(query) > 0 {
		u.RawQuery = query.Encode()
	}
	return u.String()
}

func (c *Client) get(ctx context.Context, path string, query url.Values, target any) error {
	return c.getURL(ctx, c.endpoint(path, query), target)
}

func (c *Client) getURL(ctx context.Context, rawURL string, target any) error {
	c.logger.Trace().Str("url", rawURL).Msg("GET")
	resp, err := c.http.Get(ctx, rawURL)
	if err != nil {
		return err
	}
	return c.http.DecodeResponse(resp, target)
}

func (c *Client) send(ctx context.Context, method, path string, body, target any) error {
	c.logger.Trace().Str("method", method).Str("path", path).Interface("body", body).Msg("Write")
	resp, err := c.http.Send(ctx, method, c.endpoint(path, nil), body)
	if err != nil {
		return err
	}
	return c.http.DecodeResponse(resp, target)
}

// list follows pagination until the last page or constants.MaxPages.
func list[T any](ctx context.Context, c *Client, path string, query url.Values) ([]T, error) {
	if query == nil {
		query = url.Values{}
	}
	query.Set("limit", strconv.Itoa(c.pageSize))

	var out []T
	next := c.endpoint(path, query)
	for pages := 0; next != ""; pages++ {
		if pages == constants.MaxPages {
			return nil, errors.NewAPIError(system, 0, fmt.Sprintf("%s: more than %d pages", path, constants.MaxPages))
		}
		var p page[T]
		if err := c.getURL(ctx, next, &p); err != nil {
			return nil, err
		}
		out = append(out, p.Results...)
		next = p.Next
	}
	return out, nil
}
