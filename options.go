package nbcheck

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/internal/matcher"
	"github.com/agentstation/nbcheck/pkg/checks"
	"github.com/agentstation/nbcheck/pkg/constants"
	"github.com/agentstation/nbcheck/pkg/errors"
	"github.com/agentstation/nbcheck/pkg/logging"
	"github.com/agentstation/nbcheck/pkg/report"
	"github.com/agentstation/nbcheck/pkg/typeref"
)

// Option is a function that configures a Checker.
type Option func(*config) error

// config holds the settings of one Checker.
type config struct {
	tag        string
	hostFilter string
	platform   matcher.Platform
	enabled    checks.Set
	types      *typeref.Table
	apply      bool
	dryRun     bool
	timeout    time.Duration
	report     report.Options
	logger     *zerolog.Logger
}

func defaultConfig() *config {
	return &config{
		tag:      constants.DefaultTag,
		platform: matcher.PlatformArista,
		enabled:  checks.All(),
		logger:   logging.Default(),
	}
}

// WithTag selects inventory devices carrying tag.
func WithTag(tag string) Option {
	return func(c *config) error {
		c.tag = tag
		return nil
	}
}

// WithHostFilter limits the run to hosts matching an exact name or a glob.
// Hostname reconciliation is not reported when a filter is set.
func WithHostFilter(pattern string) Option {
	return func(c *config) error {
		c.hostFilter = pattern
		return nil
	}
}

// WithPlatform limits the run to devices of one platform family.
func WithPlatform(p matcher.Platform) Option {
	return func(c *config) error {
		if _, err := matcher.ParsePlatform(string(p)); err != nil {
			return err
		}
		c.platform = p
		return nil
	}
}

// WithChecks sets the enabled checks.
func WithChecks(enabled checks.Set) Option {
	return func(c *config) error {
		c.enabled = enabled
		return nil
	}
}

// WithTypeTable sets the type reference table used by the mediatype check.
func WithTypeTable(table *typeref.Table) Option {
	return func(c *config) error {
		c.types = table
		return nil
	}
}

// WithApply writes the pending changes back to the inventory after the diff.
func WithApply(enabled bool) Option {
	return func(c *config) error {
		c.apply = enabled
		return nil
	}
}

// WithDryRun logs the writes an apply run would make without making them.
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithTimeout bounds a whole run.
func WithTimeout(timeout time.Duration) Option {
	return func(c *config) error {
		if timeout < 0 {
			return errors.NewValidationError("timeout", timeout, "must not be negative")
		}
		c.timeout = timeout
		return nil
	}
}

// WithReportOptions sets the column and row suppression of the report.
func WithReportOptions(opts report.Options) Option {
	return func(c *config) error {
		c.report = opts
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		if logger != nil {
			c.logger = logger
		}
		return nil
	}
}

func (c *config) options(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return err
		}
	}
	return nil
}
