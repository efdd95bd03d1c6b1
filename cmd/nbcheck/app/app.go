// Package app provides the application context and dependency management
// for the nbcheck CLI. It centralizes configuration, logging and the
// inventory connection so commands receive them through one interface.
package app

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/cmd/application"
	"github.com/agentstation/nbcheck/internal/netbox"
	"github.com/agentstation/nbcheck/pkg/inventory"
)

// App represents the nbcheck application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Inventory client (lazy-initialized, singleton)
	mu        sync.Mutex
	inventory inventory.Client
}

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	if app.config == nil {
		config, err := LoadConfig()
		if err != nil {
			return nil, err
		}
		app.config = config
	}

	if app.logger == nil {
		logger := NewLogger(app.config)
		app.logger = &logger
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the format given with --format.
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Tag returns the inventory device tag.
func (a *App) Tag() string {
	return a.config.NetBoxTag
}

// TypeRefPath returns the default type reference table path.
func (a *App) TypeRefPath() string {
	return a.config.TypeRefPath
}

// Timeout returns the bound of a whole run.
func (a *App) Timeout() time.Duration {
	return a.config.CommandTimeout
}

// Inventory returns the NetBox client, creating it on first use. A new
// client is checked against the API before it is handed out.
func (a *App) Inventory(ctx context.Context) (inventory.Client, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.inventory != nil {
		return a.inventory, nil
	}

	client, err := netbox.New(netbox.Config{
		URL:     a.config.NetBoxURL,
		Token:   a.config.NetBoxToken,
		Timeout: a.config.NetBoxTimeout,
	}, netbox.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx); err != nil {
		return nil, err
	}
	a.logger.Debug().Str("url", a.config.NetBoxURL).Msg("Connected to NetBox")

	a.inventory = client
	return client, nil
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithInventory sets a custom inventory client (useful for testing).
func WithInventory(client inventory.Client) Option {
	return func(a *App) error {
		a.inventory = client
		return nil
	}
}
