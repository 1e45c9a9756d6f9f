package models

import "time"

// LogEntry is an append-only audit record written by the reconciliation engine.
// DomainID is nil for entries not tied to a domain and may reference a deleted domain.
type LogEntry struct {
	ID        int64     `json:"id" db:"id"`
	DomainID  *int64    `json:"domain_id,omitempty" db:"domain_id"`
	Message   string    `json:"message" db:"message"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// PassSource identifies what started a reconciliation pass.
type PassSource string

const (
	PassSourceTimer  PassSource = "timer"
	PassSourceManual PassSource = "manual"
)

// PassResult summarises one reconciliation pass.
// Total is the number of domains loaded, Checked the number processed.
type PassResult struct {
	Total            int `json:"total"`
	Checked          int `json:"checked"`
	Refreshed        int `json:"refreshed"`
	ResolverFailures int `json:"resolver_failures"`
	Warnings         int `json:"warnings"`
	Expired          int `json:"expired"`
	SendFailures     int `json:"send_failures"`
}
