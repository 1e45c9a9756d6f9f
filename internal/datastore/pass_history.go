package datastore

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/aleister1102/expirywatch/internal/models"
)

// Pass statuses recorded in pass_history.
const (
	PassStatusStarted   = "STARTED"
	PassStatusCompleted = "COMPLETED"
	PassStatusFailed    = "FAILED"
)

// PassHistoryEntry represents a record in the pass_history table.
type PassHistoryEntry struct {
	ID               int64          `db:"id"`
	PassID           string         `db:"pass_id"`
	Source           string         `db:"source"`
	StartTime        time.Time      `db:"start_time"`
	EndTime          sql.NullTime   `db:"end_time"`
	Status           string         `db:"status"`
	NumDomains       int            `db:"num_domains"`
	Checked          int            `db:"checked"`
	Refreshed        int            `db:"refreshed"`
	ResolverFailures int            `db:"resolver_failures"`
	Warnings         int            `db:"warnings"`
	Expired          int            `db:"expired"`
	SendFailures     int            `db:"send_failures"`
	LogSummary       sql.NullString `db:"log_summary"`
}

// RecordPassStart inserts a pass_history row with status STARTED and returns its id.
func (s *SQLiteStore) RecordPassStart(ctx context.Context, passID string, source models.PassSource, startTime time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		`INSERT INTO pass_history (pass_id, source, start_time, status) VALUES (?, ?, ?, ?)`,
		passID, string(source), startTime.UTC(), PassStatusStarted,
	)
	if err != nil {
		return 0, storeErr("record pass start", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, storeErr("record pass start", err)
	}
	s.logger.Debug().Int64("db_id", id).Str("pass_id", passID).Msg("Recorded pass start")
	return id, nil
}

// UpdatePassCompletion stores the outcome of a pass.
func (s *SQLiteStore) UpdatePassCompletion(ctx context.Context, dbID int64, endTime time.Time, status string, result models.PassResult, logSummary string) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE pass_history SET
			end_time = ?, status = ?, num_domains = ?, checked = ?, refreshed = ?,
			resolver_failures = ?, warnings = ?, expired = ?, send_failures = ?, log_summary = ?
		WHERE id = ?`,
		endTime.UTC(), status, result.Total, result.Checked, result.Refreshed,
		result.ResolverFailures, result.Warnings, result.Expired, result.SendFailures,
		sql.NullString{String: logSummary, Valid: logSummary != ""}, dbID,
	)
	if err != nil {
		return storeErr("update pass completion", err)
	}
	return nil
}

// GetLastPassTime returns the start time of the most recent completed pass.
// It returns nil, nil when no pass has completed yet.
func (s *SQLiteStore) GetLastPassTime(ctx context.Context) (*time.Time, error) {
	var start time.Time
	err := s.db.GetContext(ctx, &start,
		`SELECT start_time FROM pass_history WHERE status = ? ORDER BY id DESC LIMIT 1`, PassStatusCompleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storeErr("get last pass time", err)
	}
	return &start, nil
}

// ListPassHistory returns the most recent passes, newest first.
func (s *SQLiteStore) ListPassHistory(ctx context.Context, limit int) ([]PassHistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	var entries []PassHistoryEntry
	err := s.db.SelectContext(ctx, &entries, `SELECT * FROM pass_history ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, storeErr("list pass history", err)
	}
	return entries, nil
}
