// Package errors holds error helpers shared across expirywatch packages.
package errors

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound             = errors.New("not found")
	ErrInvalidConfiguration = errors.New("invalid configuration")
)

// WrapError prefixes err with message, returning nil for a nil err.
func WrapError(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// NewError formats a new error; %w verbs wrap as with fmt.Errorf.
func NewError(format string, args ...any) error {
	return fmt.Errorf(format, args...)
}

// ValidationError reports a rejected input value.
type ValidationError struct {
	Field   string
	Value   any
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %v: %s", e.Field, e.Value, e.Message)
}

func NewValidationError(field string, value any, message string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Message: message}
}

// ConfigurationError reports a problem in one configuration section.
// It matches ErrInvalidConfiguration with errors.Is.
type ConfigurationError struct {
	Section string
	Field   string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	where := e.Section
	if e.Field != "" {
		where += "." + e.Field
	}
	return fmt.Sprintf("configuration error in %s: %s", where, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidConfiguration }

func NewConfigurationError(section, field, reason string) *ConfigurationError {
	return &ConfigurationError{Section: section, Field: field, Reason: reason}
}

// MultiError is the combined result of an ErrorCollector holding more than one error.
type MultiError struct {
	Errs []error
}

func (m *MultiError) Error() string {
	parts := make([]string, len(m.Errs))
	for i, err := range m.Errs {
		parts[i] = err.Error()
	}
	return fmt.Sprintf("%d errors: %s", len(m.Errs), strings.Join(parts, "; "))
}

func (m *MultiError) Unwrap() []error { return m.Errs }

// ErrorCollector accumulates per-record errors so a batch can continue past them.
// The zero value is ready to use.
type ErrorCollector struct {
	errs []error
}

func (ec *ErrorCollector) Add(err error) {
	if err != nil {
		ec.errs = append(ec.errs, err)
	}
}

// AddWithContext records err prefixed with a description of the failing record.
func (ec *ErrorCollector) AddWithContext(err error, context string) {
	ec.Add(WrapError(err, context))
}

func (ec *ErrorCollector) Len() int { return len(ec.errs) }

func (ec *ErrorCollector) HasErrors() bool { return len(ec.errs) > 0 }

// Error returns nil, the single collected error, or a *MultiError.
func (ec *ErrorCollector) Error() error {
	switch len(ec.errs) {
	case 0:
		return nil
	case 1:
		return ec.errs[0]
	}
	return &MultiError{Errs: append([]error(nil), ec.errs...)}
}
