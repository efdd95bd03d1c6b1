// Package application provides test doubles for the command application
// interface.
package application

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/agentstation/nbcheck/cmd/application"
	"github.com/agentstation/nbcheck/pkg/constants"
	"github.com/agentstation/nbcheck/pkg/inventory"
)

// Mock provides a mock implementation of application.Application for testing.
// Each method can be customized by setting the corresponding function field.
// If a function field is nil, the method returns a default/zero value.
//
// Example Usage:
//
//	mock := &application.Mock{
//	    InventoryFunc: func(context.Context) (inventory.Client, error) {
//	        return store, nil
//	    },
//	}
//	cmd := check.NewCommand(mock)
type Mock struct {
	InventoryFunc    func(ctx context.Context) (inventory.Client, error)
	TagFunc          func() string
	TypeRefPathFunc  func() string
	TimeoutFunc      func() time.Duration
	LoggerFunc       func() *zerolog.Logger
	OutputFormatFunc func() string
	VersionFunc      func() string
	CommitFunc       func() string
	DateFunc         func() string
	BuiltByFunc      func() string
}

// Inventory returns a client using the mock function or nil.
func (m *Mock) Inventory(ctx context.Context) (inventory.Client, error) {
	if m.InventoryFunc != nil {
		return m.InventoryFunc(ctx)
	}
	return nil, nil
}

// Tag returns the tag using the mock function or the default tag.
func (m *Mock) Tag() string {
	if m.TagFunc != nil {
		return m.TagFunc()
	}
	return constants.DefaultTag
}

// TypeRefPath returns the path using the mock function or "".
func (m *Mock) TypeRefPath() string {
	if m.TypeRefPathFunc != nil {
		return m.TypeRefPathFunc()
	}
	return ""
}

// Timeout returns the timeout using the mock function or zero.
func (m *Mock) Timeout() time.Duration {
	if m.TimeoutFunc != nil {
		return m.TimeoutFunc()
	}
	return 0
}

// Logger returns a logger using the mock function or a no-op logger.
func (m *Mock) Logger() *zerolog.Logger {
	if m.LoggerFunc != nil {
		return m.LoggerFunc()
	}
	logger := zerolog.Nop()
	return &logger
}

// OutputFormat returns output format using the mock function or "".
func (m *Mock) OutputFormat() string {
	if m.OutputFormatFunc != nil {
		return m.OutputFormatFunc()
	}
	return ""
}

// Version returns version using the mock function or "dev".
func (m *Mock) Version() string {
	if m.VersionFunc != nil {
		return m.VersionFunc()
	}
	return "dev"
}

// Commit returns commit using the mock function or "unknown".
func (m *Mock) Commit() string {
	if m.CommitFunc != nil {
		return m.CommitFunc()
	}
	return "unknown"
}

// Date returns date using the mock function or "unknown".
func (m *Mock) Date() string {
	if m.DateFunc != nil {
		return m.DateFunc()
	}
	return "unknown"
}

// BuiltBy returns builtBy using the mock function or "test".
func (m *Mock) BuiltBy() string {
	if m.BuiltByFunc != nil {
		return m.BuiltByFunc()
	}
	return "test"
}

// Ensure Mock implements Application at compile time.
var _ application.Application = (*Mock)(nil)
