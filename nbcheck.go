// Package nbcheck reconciles the interface data reported by live devices
// against the interface records of a NetBox inventory and optionally writes
// corrections back.
//
// A run loads nothing by itself: the caller hands it the observed document
// and an inventory client.
//
//	checker, err := nbcheck.New(client, nbcheck.WithChecks(checks.All()))
//	result, err := checker.Check(ctx, doc)
//	result.Report.Render(os.Stdout, output.FormatTable)
package nbcheck

import (
	"context"
	"fmt"

	"github.com/agentstation/nbcheck/pkg/apply"
	"github.com/agentstation/nbcheck/pkg/differ"
	"github.com/agentstation/nbcheck/pkg/inventory"
	"github.com/agentstation/nbcheck/pkg/logging"
	"github.com/agentstation/nbcheck/pkg/observed"
	"github.com/agentstation/nbcheck/pkg/report"
)

// Checker compares observed interfaces with the inventory.
type Checker interface {
	// Check runs one comparison, and the apply step when enabled.
	Check(ctx context.Context, doc *observed.Document) (*Result, error)

	// OnHostCompared registers a callback for compared hosts
	OnHostCompared(HostComparedHook)

	// OnHostSkipped registers a callback for skipped hosts
	OnHostSkipped(HostSkippedHook)

	// OnApplied registers a callback for finished apply runs
	OnApplied(AppliedHook)
}

// Result is the outcome of a run.
type Result struct {
	Hosts     []differ.HostResult
	Changeset *differ.Changeset
	Report    *report.Report
	Warnings  []string

	// Applied is set on apply runs, also when the run failed part way.
	Applied *apply.Result
}

// checker is the default implementation of Checker
type checker struct {
	*hooks
	client inventory.Client
	config *config
}

// New creates a Checker over an inventory client.
func New(client inventory.Client, opts ...Option) (Checker, error) {
	if client == nil {
		return nil, fmt.Errorf("nbcheck: nil inventory client")
	}

	c := &checker{
		hooks:  newHooks(),
		client: client,
		config: defaultConfig(),
	}
	if err := c.config.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	return c, nil
}

// Check implements Checker.
func (c *checker) Check(ctx context.Context, doc *observed.Document) (*Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.config.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.timeout)
		defer cancel()
	}
	ctx = logging.WithLogger(ctx, c.config.logger)
	logger := logging.FromContext(ctx)

	sel, err := c.selectHosts(ctx, doc)
	if err != nil {
		return nil, err
	}

	d := differ.New(c.config.enabled, differ.WithTypeTable(c.config.types), differ.WithLogger(logger))
	warnings := d.Warnings()
	for _, w := range warnings {
		logger.Debug().Msg(w)
	}

	var results []differ.HostResult
	if c.config.enabled.Len() > 0 {
		for _, dev := range sel.devices {
			hostCtx := logging.WithHost(ctx, dev.Name)
			ifaces, err := c.client.Interfaces(hostCtx, dev.ID)
			if err != nil {
				return nil, err
			}
			result := d.Host(dev, sel.doc.Devices[dev.Name], ifaces)
			results = append(results, result)
			c.triggerHostCompared(result)
		}
	} else {
		logger.Info().Msg("No checks enabled, nothing to compare")
	}

	opts := c.config.report
	opts.Warnings = append(append([]string(nil), opts.Warnings...), warnings...)
	opts.HostsOnlyInFile = sel.onlyInFile
	opts.HostsOnlyInInventory = sel.onlyInInventory
	opts.Skipped = sel.skipped

	res := &Result{
		Hosts:     results,
		Changeset: differ.BuildChangeset(results, c.config.enabled),
		Report:    report.Build(results, c.config.enabled, opts),
		Warnings:  warnings,
	}
	logger.Info().
		Int("hosts", len(results)).
		Int("skipped", len(sel.skipped)).
		Str("changes", res.Changeset.String()).
		Msg("Comparison completed")

	if !c.config.apply {
		return res, nil
	}

	executor := apply.New(c.client, apply.WithLogger(logger), apply.WithDryRun(c.config.dryRun))
	res.Applied, err = executor.Apply(ctx, res.Changeset)
	c.triggerApplied(res.Applied, err)
	return res, err
}
