// Package errors provides custom error types for the nbcheck system.
// These errors enable programmatic error checking at the CLI boundary
// and keep the identifying context (host, interface, field) attached to
// failures raised deep inside the apply path.
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Is is an alias for the standard library errors.Is.
var Is = errors.Is

// As is an alias for the standard library errors.As.
var As = errors.As

// Common sentinel errors for the nbcheck system
var (
	// ErrNotFound indicates that a requested resource was not found
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnauthorized indicates that the inventory system refused the credentials
	ErrUnauthorized = errors.New("unauthorized")

	// ErrUnavailable indicates that the inventory system could not be reached
	ErrUnavailable = errors.New("inventory unavailable")

	// ErrApplyFailed indicates that a write to the inventory system failed
	ErrApplyFailed = errors.New("apply failed")

	// ErrRateLimited indicates that the API rate limit has been exceeded
	ErrRateLimited = errors.New("rate limited")
)

// NotFoundError represents an error when a resource is not found
type NotFoundError struct {
	Resource string
	ID       string
}

// Error implements the error interface
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s with ID %s not found", e.Resource, e.ID)
}

// Is implements errors.Is support
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// NewNotFoundError creates a new NotFoundError
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// ValidationError represents a validation failure
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation failed for field %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s", e.Message)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// InputError reports an unreadable or malformed observed-interface file.
// It aborts a run before any comparison takes place.
type InputError struct {
	Path    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *InputError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("input %s: %s", e.Path, e.Message)
	}
	return fmt.Sprintf("input: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *InputError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *InputError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewInputError creates a new InputError
func NewInputError(path, message string, err error) *InputError {
	return &InputError{Path: path, Message: message, Err: err}
}

// APIError represents a non-success response from the inventory API
type APIError struct {
	System     string
	StatusCode int
	Message    string
	Endpoint   string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.System, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.System, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	switch {
	case e.StatusCode == 401 || e.StatusCode == 403:
		return target == ErrUnauthorized
	case e.StatusCode == 404:
		return target == ErrNotFound
	case e.StatusCode == 429:
		return target == ErrRateLimited
	case e.StatusCode >= 500:
		return target == ErrUnavailable
	}
	return false
}

// NewAPIError creates a new APIError
func NewAPIError(system string, statusCode int, message string) *APIError {
	return &APIError{
		System:     system,
		StatusCode: statusCode,
		Message:    message,
	}
}

// AuthenticationError represents an authentication/authorization error
type AuthenticationError struct {
	System  string
	Method  string // "token", "basic", ...
	Message string
	Err     error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.System != "" {
		return fmt.Sprintf("authentication error for %s (%s): %s", e.System, e.Method, e.Message)
	}
	return fmt.Sprintf("authentication error (%s): %s", e.Method, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrUnauthorized
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(system, method, message string, err error) *AuthenticationError {
	return &AuthenticationError{
		System:  system,
		Method:  method,
		Message: message,
		Err:     err,
	}
}

// ConnectivityError indicates the inventory system could not be reached at all
type ConnectivityError struct {
	System   string
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *ConnectivityError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("cannot reach %s at %s: %v", e.System, e.Endpoint, e.Err)
	}
	return fmt.Sprintf("cannot reach %s: %v", e.System, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ConnectivityError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ConnectivityError) Is(target error) bool {
	return target == ErrUnavailable
}

// NewConnectivityError creates a new ConnectivityError
func NewConnectivityError(system, endpoint string, err error) *ConnectivityError {
	return &ConnectivityError{System: system, Endpoint: endpoint, Err: err}
}

// ApplyError reports a rejected or failed write of one field on one interface.
// Writes issued before it in the same run are not rolled back.
type ApplyError struct {
	Host        string
	Interface   string
	InterfaceID int
	Field       string
	Err         error
}

// Error implements the error interface
func (e *ApplyError) Error() string {
	return fmt.Sprintf("apply %s on %s %s (id %d): %v", e.Field, e.Host, e.Interface, e.InterfaceID, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ApplyError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ApplyError) Is(target error) bool {
	return target == ErrApplyFailed
}

// NewApplyError creates a new ApplyError
func NewApplyError(host, iface string, id int, field string, err error) *ApplyError {
	return &ApplyError{
		Host:        host,
		Interface:   iface,
		InterfaceID: id,
		Field:       field,
		Err:         err,
	}
}

// ConfigError represents a configuration error
type ConfigError struct {
	Component string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *ConfigError) Error() string {
	if e.Component != "" {
		return fmt.Sprintf("configuration error in %s: %s", e.Component, e.Message)
	}
	return fmt.Sprintf("configuration error: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ConfigError) Unwrap() error {
	return e.Err
}

// NewConfigError creates a new ConfigError
func NewConfigError(component, message string, err error) *ConfigError {
	return &ConfigError{
		Component: component,
		Message:   message,
		Err:       err,
	}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "json", "yaml"
	File    string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.File != "" {
		return fmt.Sprintf("parse error in %s file %s: %s", e.Format, e.File, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, file string, message string, err error) *ParseError {
	return &ParseError{
		Format:  format,
		File:    file,
		Message: message,
		Err:     err,
	}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open"
	Path      string
	Message   string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %s", e.Operation, e.Path, e.Message)
	}
	return fmt.Sprintf("IO error during %s: %s", e.Operation, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// NewIOError creates a new IOError
func NewIOError(operation, path string, err error) *IOError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &IOError{
		Operation: operation,
		Path:      path,
		Message:   message,
		Err:       err,
	}
}

// Helper functions for error checking

// IsNotFound checks if an error is a not found error
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// IsInvalidInput checks if an error is a validation or input error
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}

// IsAuthError checks if an error means the inventory refused our credentials
func IsAuthError(err error) bool {
	return errors.Is(err, ErrUnauthorized)
}

// IsConnectivityError checks if an error means the inventory was unreachable
func IsConnectivityError(err error) bool {
	return errors.Is(err, ErrUnavailable)
}

// IsApplyError checks if an error came from a failed inventory write
func IsApplyError(err error) bool {
	return errors.Is(err, ErrApplyFailed)
}

// Helper wrapping functions for common patterns

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return NewIOError(operation, path, err)
}

// WrapParse wraps an error as a ParseError
func WrapParse(format, file string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, file, err.Error(), err)
}

// WrapAPI wraps an error as an APIError
func WrapAPI(system string, statusCode int, err error) error {
	if err == nil {
		return nil
	}
	return &APIError{
		System:     system,
		StatusCode: statusCode,
		Message:    err.Error(),
		Err:        err,
	}
}
