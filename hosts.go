package nbcheck

import (
	"context"
	"slices"
	"sort"

	"github.com/agentstation/nbcheck/internal/matcher"
	"github.com/agentstation/nbcheck/pkg/errors"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/logging"
	"github.com/agentstation/nbcheck/pkg/observed"
	"github.com/agentstation/nbcheck/pkg/report"
)

// Reasons a host is left out of the comparison.
const (
	SkipNotInInventory = "not in inventory"
	SkipNotAList       = "not a list"
	SkipPlatform       = "platform mismatch"
)

// selection is the set of hosts a run compares.
type selection struct {
	doc             *observed.Document
	devices         []inventory.Device // sorted by name
	skipped         []report.Skip
	onlyInFile      []string
	onlyInInventory []string
}

// selectHosts applies the host filter, pairs file hosts with inventory
// devices and applies the platform filter.
func (c *checker) selectHosts(ctx context.Context, doc *observed.Document) (*selection, error) {
	logger := logging.FromContext(ctx)

	filter, err := matcher.NewHostFilter(c.config.hostFilter)
	if err != nil {
		return nil, err
	}
	if filter != nil {
		hosts := filter.MatchAll(doc.AllHosts()...)
		if len(hosts) == 0 {
			return nil, errors.NewNotFoundError("host", c.config.hostFilter)
		}
		doc = doc.Restrict(hosts)
	}

	devices, err := c.client.Devices(ctx, c.config.tag)
	if err != nil {
		return nil, err
	}
	byName := make(map[string]inventory.Device, len(devices))
	for _, d := range devices {
		if _, ok := byName[d.Name]; !ok {
			byName[d.Name] = d
		}
	}
	logger.Debug().Str("tag", c.config.tag).Int("devices", len(byName)).Msg("Loaded inventory devices")

	sel := &selection{doc: doc}
	if filter == nil {
		sel.onlyInFile, sel.onlyInInventory = c.reconcileHostnames(doc, byName)
	}

	for _, host := range doc.AllHosts() {
		dev, ok := byName[host]
		switch {
		case slices.Contains(doc.Skipped, host):
			c.skip(ctx, sel, host, SkipNotAList)
		case !ok:
			c.skip(ctx, sel, host, SkipNotInInventory)
		case !c.config.platform.Matches(dev.Platform):
			c.skip(ctx, sel, host, SkipPlatform)
		default:
			sel.devices = append(sel.devices, dev)
		}
	}
	return sel, nil
}

// reconcileHostnames lists hosts present on one side only. Inventory-only
// hosts are limited to the selected platform.
func (c *checker) reconcileHostnames(doc *observed.Document, byName map[string]inventory.Device) (onlyFile, onlyInventory []string) {
	inFile := make(map[string]bool)
	for _, host := range doc.AllHosts() {
		inFile[host] = true
		if _, ok := byName[host]; !ok {
			onlyFile = append(onlyFile, host)
		}
	}
	for name, dev := range byName {
		if !inFile[name] && c.config.platform.Matches(dev.Platform) {
			onlyInventory = append(onlyInventory, name)
		}
	}
	sort.Strings(onlyInventory)
	return onlyFile, onlyInventory
}

func (c *checker) skip(ctx context.Context, sel *selection, host, reason string) {
	s := report.Skip{Host: host, Reason: reason}
	sel.skipped = append(sel.skipped, s)
	logging.FromContext(ctx).Info().Str("host", host).Str("reason", reason).Msg("Skipping host")
	c.triggerHostSkipped(s)
}
