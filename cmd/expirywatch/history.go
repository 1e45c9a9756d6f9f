package main

import (
	"context"

	"github.com/aleister1102/expirywatch/internal/datastore"
	"github.com/rs/zerolog"
)

type passHistoryLister interface {
	ListPassHistory(ctx context.Context, limit int) ([]datastore.PassHistoryEntry, error)
}

// printPassHistory logs the most recent passes, newest first.
func printPassHistory(ctx context.Context, store passHistoryLister, limit int, zLogger zerolog.Logger) error {
	entries, err := store.ListPassHistory(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		zLogger.Info().Msg("No passes recorded yet")
		return nil
	}

	for _, e := range entries {
		event := zLogger.Info().
			Str("pass_id", e.PassID).
			Str("source", e.Source).
			Str("status", e.Status).
			Time("start_time", e.StartTime).
			Int("domains", e.NumDomains).
			Int("checked", e.Checked).
			Int("refreshed", e.Refreshed).
			Int("resolver_failures", e.ResolverFailures).
			Int("warnings", e.Warnings).
			Int("expired", e.Expired).
			Int("send_failures", e.SendFailures)
		if e.EndTime.Valid {
			event = event.Dur("duration", e.EndTime.Time.Sub(e.StartTime))
		}
		if e.LogSummary.Valid {
			event = event.Str("summary", e.LogSummary.String)
		}
		event.Msg("Pass")
	}
	return nil
}
