package nbcheck

import (
	"sync"

	"github.com/agentstation/nbcheck/pkg/apply"
	"github.com/agentstation/nbcheck/pkg/differ"
	"github.com/agentstation/nbcheck/pkg/report"
)

// Hook function types for run events
type (
	// HostComparedHook is called after each host has been compared.
	HostComparedHook func(result differ.HostResult)

	// HostSkippedHook is called for each host left out of the comparison.
	HostSkippedHook func(skip report.Skip)

	// AppliedHook is called once an apply run has finished, also on failure.
	AppliedHook func(result *apply.Result, err error)
)

// hooks manages event callbacks for a Checker
type hooks struct {
	mu             sync.RWMutex
	onHostCompared []HostComparedHook
	onHostSkipped  []HostSkippedHook
	onApplied      []AppliedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnHostCompared registers a callback for compared hosts
func (h *hooks) OnHostCompared(fn HostComparedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onHostCompared = append(h.onHostCompared, fn)
}

// OnHostSkipped registers a callback for skipped hosts
func (h *hooks) OnHostSkipped(fn HostSkippedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onHostSkipped = append(h.onHostSkipped, fn)
}

// OnApplied registers a callback for finished apply runs
func (h *hooks) OnApplied(fn AppliedHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onApplied = append(h.onApplied, fn)
}

func (h *hooks) triggerHostCompared(result differ.HostResult) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onHostCompared {
		fn(result)
	}
}

func (h *hooks) triggerHostSkipped(skip report.Skip) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onHostSkipped {
		fn(skip)
	}
}

func (h *hooks) triggerApplied(result *apply.Result, err error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, fn := range h.onApplied {
		fn(result, err)
	}
}
