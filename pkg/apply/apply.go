// Package apply writes a changeset to the inventory one field at a time.
//
// Each field is its own call, so a failure leaves earlier writes in place
// and the run stops there. MAC addresses are entities in the inventory: the
// executor searches for the canonical value before creating one, so running
// the same changeset twice never duplicates an entity.
package apply

import (
	"context"
	"fmt"
	"slices"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/differ"
	"github.com/agentstation/nbcheck/pkg/errors"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/logging"
)

// Executor applies changesets through an inventory.Updater.
type Executor struct {
	client inventory.Updater
	logger *zerolog.Logger
	dryRun bool
}

// New creates an Executor.
func New(client inventory.Updater, opts ...Option) *Executor {
	e := &Executor{
		client: client,
		logger: logging.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply writes every change in cs, interface by interface in id order and
// field by field in check order. The first failure stops the run and is
// returned as an *errors.ApplyError together with the partial result.
func (e *Executor) Apply(ctx context.Context, cs *differ.Changeset) (*Result, error) {
	result := &Result{DryRun: e.dryRun}
	if cs.IsEmpty() {
		return result, nil
	}
	ctx = logging.WithOperation(logging.WithLogger(ctx, e.logger), "apply")

	for _, ic := range cs.Interfaces {
		ictx := logging.WithInterface(logging.WithHost(ctx, ic.Host), ic.Interface, ic.InterfaceID)
		for _, fc := range ic.Changes {
			if err := ctx.Err(); err != nil {
				return result, errors.NewApplyError(ic.Host, ic.Interface, ic.InterfaceID, string(fc.Check), err)
			}
			fctx := logging.WithCheck(ictx, string(fc.Check))
			if err := e.write(fctx, ic.Target, fc, result); err != nil {
				logging.FromContext(fctx).Error().Err(err).Msg("Write failed")
				return result, errors.NewApplyError(ic.Host, ic.Interface, ic.InterfaceID, string(fc.Check), err)
			}
			result.Applied = append(result.Applied, Applied{Target: ic.Target, Check: fc.Check, Attr: fc.Attr, Value: fc.Value})
		}
	}

	logging.FromContext(ctx).Info().
		Int("fields", len(result.Applied)).
		Int("mac_created", result.MACCreated).
		Int("mac_reused", result.MACReused).
		Bool("dry_run", e.dryRun).
		Msg("Apply completed")

	return result, nil
}

func (e *Executor) write(ctx context.Context, target differ.Target, fc differ.FieldChange, result *Result) error {
	log := logging.FromContext(ctx)
	if fc.Check == checks.MAC {
		return e.writeMAC(ctx, target, fc, result)
	}

	log.Info().
		Str("attr", fc.Attr).
		Str("from", fc.Inventory).
		Str("to", checks.FormatValue(fc.Value)).
		Msg("Updating interface")
	if e.dryRun {
		return nil
	}
	return e.client.UpdateInterface(ctx, target.InterfaceID, map[string]any{fc.Attr: fc.Value})
}

// writeMAC makes the canonical MAC the primary of the target interface,
// reusing an existing entity when one carries the same value.
func (e *Executor) writeMAC(ctx context.Context, target differ.Target, fc differ.FieldChange, result *Result) error {
	log := logging.FromContext(ctx)

	raw, ok := fc.Value.(string)
	if !ok {
		return errors.NewValidationError(fc.Attr, fc.Value, "expected a MAC address string")
	}
	mac, err := checks.CanonicalMAC(raw)
	if err != nil {
		return err
	}
	if slices.Contains(fc.Notes, checks.NoteMACAsymmetric) {
		result.notef("%s %s: %s", target.Host, target.Interface, checks.NoteMACAsymmetric.Legend())
		log.Warn().Msg("MAC assignment is asymmetric; leaving it as is")
	}

	if e.dryRun {
		log.Info().Str("mac", mac).Msg("Setting primary MAC")
		return nil
	}

	found, err := e.client.FindMACAddresses(ctx, mac)
	if err != nil {
		return err
	}

	var entity inventory.MACAddress
	switch idx := pickMAC(found, target.InterfaceID); {
	case idx >= 0:
		entity = found[idx]
		result.MACReused++
		log.Info().Str("mac", mac).Int("mac_id", entity.ID).Msg("Reusing MAC address")
	case len(found) > 0:
		// Every entity with this value belongs to another interface.
		owner := found[0].AssignedInterfaceID
		result.notef("%s %s: MAC %s is assigned to interface %d", target.Host, target.Interface, mac, owner)
		return errors.NewValidationError(fc.Attr, mac, fmt.Sprintf("mac address %s is assigned to interface %d", mac, owner))
	default:
		entity, err = e.client.CreateMACAddress(ctx, mac, target.InterfaceID)
		if err != nil {
			return err
		}
		result.MACCreated++
		log.Info().Str("mac", mac).Int("mac_id", entity.ID).Msg("Created MAC address")
	}

	return e.client.SetPrimaryMAC(ctx, target.InterfaceID, entity.ID)
}

// pickMAC prefers an entity already assigned to the interface, then an
// unassigned one. It returns -1 when neither exists.
func pickMAC(found []inventory.MACAddress, interfaceID int) int {
	if i := slices.IndexFunc(found, func(m inventory.MACAddress) bool { return m.AssignedInterfaceID == interfaceID }); i >= 0 {
		return i
	}
	return slices.IndexFunc(found, func(m inventory.MACAddress) bool { return m.AssignedInterfaceID == 0 })
}
