package apply

import (
	"github.com/rs/zerolog"
)

// Option configures an Executor.
type Option func(*Executor)

// WithLogger sets the logger used for per-write output.
func WithLogger(logger *zerolog.Logger) Option {
	return func(e *Executor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithDryRun logs every write without calling the inventory.
func WithDryRun(dryRun bool) Option {
	return func(e *Executor) {
		e.dryRun = dryRun
	}
}
