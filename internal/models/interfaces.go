package models

import (
	"context"
	"time"
)

// DomainStore is the persistence contract used by the reconciliation engine.
// Every method fails with a *StoreError when persistence is unavailable.
type DomainStore interface {
	ListDomains(ctx context.Context) ([]Domain, error)
	GetDomain(ctx context.Context, id int64) (*Domain, error)
	UpdateDomain(ctx context.Context, id int64, update DomainUpdate) error
	ListEnabledChannels(ctx context.Context) ([]NotificationChannel, error)
	AppendLog(ctx context.Context, domainID *int64, message string) error
}

// ExpiryResolver looks up the current expiry of a domain.
// A nil time with a nil error means the authority has no expiry for the name.
type ExpiryResolver interface {
	FetchExpiry(ctx context.Context, name string) (*time.Time, error)
}

// Clock returns the current time.
type Clock func() time.Time
