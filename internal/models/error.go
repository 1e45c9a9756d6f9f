package models

import (
	"errors"
	"fmt"
)

// ErrForbidden is returned when an on-demand trigger is invoked without a valid token.
var ErrForbidden = errors.New("forbidden")

// ResolverError represents a failure reaching or interpreting the expiry authority.
type ResolverError struct {
	Domain string
	Err    error
}

// Error returns the error message for ResolverError.
func (e *ResolverError) Error() string {
	return fmt.Sprintf("resolve %s: %v", e.Domain, e.Err)
}

func (e *ResolverError) Unwrap() error { return e.Err }

// SendError represents a failed delivery on a single notification channel.
type SendError struct {
	ChannelID int64
	Type      ChannelType
	Err       error
}

// Error returns the error message for SendError.
func (e *SendError) Error() string {
	return fmt.Sprintf("send via %s#%d: %v", e.Type, e.ChannelID, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }

// StoreError represents unavailable persistence. It is fatal to a reconciliation pass.
type StoreError struct {
	Op  string
	Err error
}

// Error returns the error message for StoreError.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }

// NewStoreError wraps err as a StoreError, returning nil for a nil err.
func NewStoreError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StoreError{Op: op, Err: err}
}

// IsStoreError reports whether err is or wraps a StoreError.
func IsStoreError(err error) bool {
	var se *StoreError
	return errors.As(err, &se)
}
