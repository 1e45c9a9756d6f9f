package datastore

import (
	"context"

	"github.com/aleister1102/expirywatch/internal/models"
)

// AppendLog writes an immutable audit entry. domainID may be nil.
func (s *SQLiteStore) AppendLog(ctx context.Context, domainID *int64, message string) error {
	var ref interface{}
	if domainID != nil {
		ref = *domainID
	}
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO logs (domain_id, message, created_at) VALUES (?, ?, ?)",
		ref, message, s.now().UTC(),
	)
	if err != nil {
		return storeErr("append log", err)
	}
	return nil
}

// ListLogs returns the most recent entries, newest first.
func (s *SQLiteStore) ListLogs(ctx context.Context, limit int) ([]models.LogEntry, error) {
	if limit <= 0 {
		limit = 100
	}
	var entries []models.LogEntry
	err := s.db.SelectContext(ctx, &entries,
		"SELECT id, domain_id, message, created_at FROM logs ORDER BY id DESC LIMIT ?", limit)
	if err != nil {
		return nil, storeErr("list logs", err)
	}
	return entries, nil
}

// CountLogs returns the number of audit entries.
func (s *SQLiteStore) CountLogs(ctx context.Context) (int, error) {
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM logs"); err != nil {
		return 0, storeErr("count logs", err)
	}
	return n, nil
}
