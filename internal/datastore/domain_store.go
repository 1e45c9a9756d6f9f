package datastore

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/aleister1102/expirywatch/internal/models"
)

const domainColumns = `id, domain, mode, provider, expire_at, last_check, auto_refresh,
	check_interval, notes, group_name, created_at`

// ListDomains returns every tracked domain ordered by id.
func (s *SQLiteStore) ListDomains(ctx context.Context) ([]models.Domain, error) {
	var domains []models.Domain
	err := s.db.SelectContext(ctx, &domains, "SELECT "+domainColumns+" FROM domains ORDER BY id")
	if err != nil {
		return nil, storeErr("list domains", err)
	}
	return domains, nil
}

// GetDomain returns one domain by id, or ErrNotFound.
func (s *SQLiteStore) GetDomain(ctx context.Context, id int64) (*models.Domain, error) {
	var d models.Domain
	err := s.db.GetContext(ctx, &d, "SELECT "+domainColumns+" FROM domains WHERE id = ?", id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, storeErr("get domain", err)
	}
	return &d, nil
}

// UpdateDomain writes the non-nil fields of update to a single domain row.
// Updating a domain that no longer exists is not an error.
func (s *SQLiteStore) UpdateDomain(ctx context.Context, id int64, update models.DomainUpdate) error {
	var sets []string
	var args []interface{}

	if update.ExpireAt != nil {
		sets = append(sets, "expire_at = ?")
		args = append(args, update.ExpireAt.UTC())
	}
	if update.LastCheck != nil {
		sets = append(sets, "last_check = ?")
		args = append(args, update.LastCheck.UTC())
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, id)

	result, err := s.db.ExecContext(ctx, "UPDATE domains SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return storeErr("update domain", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		s.logger.Debug().Int64("domain_id", id).Msg("Update matched no domain row")
	}
	return nil
}

// UpsertDomain inserts a domain or updates the existing row with the same name.
// The name is normalized and defaults are applied. It returns the row id.
func (s *SQLiteStore) UpsertDomain(ctx context.Context, d models.Domain) (int64, error) {
	d.Name = models.NormalizeDomainName(d.Name)
	if d.Name == "" {
		return 0, NewValidationError("domain", d.Name, "domain name must not be empty")
	}
	if d.Mode != models.DomainModeManual {
		d.Mode = models.DomainModeAuto
	}
	d.CheckIntervalDays = d.EffectiveCheckInterval()
	if d.CreatedAt.IsZero() {
		d.CreatedAt = s.now()
	}

	var id int64
	err := s.db.QueryRowxContext(ctx, `
		INSERT INTO domains (
			domain, mode, provider, expire_at, last_check, auto_refresh,
			check_interval, notes, group_name, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(domain) DO UPDATE SET
			mode = excluded.mode,
			provider = excluded.provider,
			expire_at = COALESCE(excluded.expire_at, domains.expire_at),
			last_check = COALESCE(excluded.last_check, domains.last_check),
			auto_refresh = excluded.auto_refresh,
			check_interval = excluded.check_interval,
			notes = excluded.notes,
			group_name = excluded.group_name
		RETURNING id`,
		d.Name, string(d.Mode), d.Provider, utcPtr(d.ExpireAt), utcPtr(d.LastCheck), d.AutoRefresh,
		d.CheckIntervalDays, d.Notes, d.GroupName, d.CreatedAt.UTC(),
	).Scan(&id)
	if err != nil {
		return 0, storeErr("upsert domain", err)
	}
	return id, nil
}

// utcPtr converts an optional time for storage, keeping NULL for nil.
func utcPtr(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return t.UTC()
}
