// Package application provides the application interface for nbcheck commands.
//
// The Application interface defines the contract between the application layer
// and command implementations, so commands can be tested without a live
// inventory.
//
// Usage in Commands:
//
//	func NewCommand(app application.Application) *cobra.Command {
//	    return &cobra.Command{
//	        RunE: func(cmd *cobra.Command, args []string) error {
//	            client, err := app.Inventory(cmd.Context())
//	            if err != nil {
//	                return err
//	            }
//	            // ... use client
//	            return nil
//	        },
//	    }
//	}
//
// Testing with Mocks:
//
//	mock := &application.Mock{
//	    InventoryFunc: func(context.Context) (inventory.Client, error) {
//	        return memory.New(...), nil
//	    },
//	}
//	cmd := check.NewCommand(mock)
package application

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/pkg/inventory"
)

// Application provides what commands need from the running program.
// The App struct from cmd/nbcheck/app implements it.
//
// Thread Safety: All methods must be safe for concurrent access.
type Application interface {
	// Inventory returns the inventory client, connecting on first use.
	// Authentication and connectivity failures are returned here so a run
	// fails before any comparison starts.
	Inventory(ctx context.Context) (inventory.Client, error)

	// Tag returns the inventory tag selecting in-scope devices.
	Tag() string

	// TypeRefPath returns the default type reference table path.
	TypeRefPath() string

	// Timeout bounds a whole run. Zero means no bound.
	Timeout() time.Duration

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the format set with the global --format flag,
	// or "" when none was given.
	OutputFormat() string

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
