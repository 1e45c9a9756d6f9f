package models

import (
	"strings"
	"time"
)

// DomainMode controls whether a tracked domain is refreshed from the resolver.
type DomainMode string

const (
	DomainModeAuto   DomainMode = "auto"
	DomainModeManual DomainMode = "manual"
)

// DefaultCheckIntervalDays is applied when a domain has no positive check interval.
const DefaultCheckIntervalDays = 7

// Domain is a tracked resource whose expiry date is monitored.
type Domain struct {
	ID                int64      `json:"id" db:"id"`
	Name              string     `json:"domain" db:"domain"`
	Mode              DomainMode `json:"mode" db:"mode"`
	Provider          string     `json:"provider,omitempty" db:"provider"`
	ExpireAt          *time.Time `json:"expire_at,omitempty" db:"expire_at"`
	LastCheck         *time.Time `json:"last_check,omitempty" db:"last_check"`
	AutoRefresh       bool       `json:"auto_refresh" db:"auto_refresh"`
	CheckIntervalDays int        `json:"check_interval" db:"check_interval"`
	Notes             string     `json:"notes,omitempty" db:"notes"`
	GroupName         string     `json:"group_name,omitempty" db:"group_name"`
	CreatedAt         time.Time  `json:"created_at" db:"created_at"`
}

// IsAuto reports whether the domain is eligible for automatic refresh.
func (d Domain) IsAuto() bool {
	return d.Mode == DomainModeAuto && d.AutoRefresh
}

// EffectiveCheckInterval returns the check interval in days, falling back to the default.
func (d Domain) EffectiveCheckInterval() int {
	if d.CheckIntervalDays <= 0 {
		return DefaultCheckIntervalDays
	}
	return d.CheckIntervalDays
}

// DomainUpdate carries the fields a reconciliation pass may change on a domain.
// Nil fields are left untouched.
type DomainUpdate struct {
	ExpireAt  *time.Time
	LastCheck *time.Time
}

// NormalizeDomainName trims and lower-cases a domain name.
func NormalizeDomainName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// ParseDomainMode maps free-form input to a mode; anything but "manual" is auto.
func ParseDomainMode(s string) DomainMode {
	if strings.EqualFold(strings.TrimSpace(s), string(DomainModeManual)) {
		return DomainModeManual
	}
	return DomainModeAuto
}
