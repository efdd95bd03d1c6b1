package differ

import (
	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/pkg/typeref"
)

// Option is a functional option for configuring a Differ.
type Option func(*differ)

// WithTypeTable sets the type reference table used by the mediatype check.
// A nil table means raw strings are compared.
func WithTypeTable(table *typeref.Table) Option {
	return func(d *differ) {
		d.env.Types = table
	}
}

// WithLogger sets the logger used for per-host debug output.
func WithLogger(logger *zerolog.Logger) Option {
	return func(d *differ) {
		if logger != nil {
			d.logger = logger
		}
	}
}
