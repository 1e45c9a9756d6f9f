package models

import "time"

// DateLayout is the calendar date format used in alert messages.
const DateLayout = "2006-01-02"

// FormatDateOptional formats t as a calendar date in UTC.
// If t is nil or zero, it returns an empty string.
func FormatDateOptional(t *time.Time) string {
	if t == nil || t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}
