package scheduler

import (
	"math"
	"time"

	"github.com/aleister1102/expirywatch/internal/models"
)

// Classification is the alert state of a domain's expiry.
type Classification string

const (
	ClassificationOK      Classification = "ok"
	ClassificationWarning Classification = "warning"
	ClassificationExpired Classification = "expired"
)

const day = 24 * time.Hour

// ShouldRecheck reports whether the domain is due for a fresh resolver lookup at now.
// Only auto-mode domains with auto refresh enabled are ever due. A domain that was
// never checked is always due; otherwise whole elapsed days are compared with the
// check interval.
func ShouldRecheck(d models.Domain, now time.Time) bool {
	if !d.IsAuto() {
		return false
	}
	if d.LastCheck == nil {
		return true
	}
	elapsedDays := int(math.Floor(float64(now.Sub(*d.LastCheck)) / float64(day)))
	return elapsedDays >= d.EffectiveCheckInterval()
}

// DaysRemaining returns the number of days until expireAt, rounded up.
// Any positive remainder counts as a full day; zero or negative means expired.
func DaysRemaining(expireAt, now time.Time) int {
	return int(math.Ceil(float64(expireAt.Sub(now)) / float64(day)))
}

// Classify maps an expiry to an alert state using the warning window in days.
func Classify(expireAt, now time.Time, warnDays int) Classification {
	days := DaysRemaining(expireAt, now)
	switch {
	case days <= 0:
		return ClassificationExpired
	case days <= warnDays:
		return ClassificationWarning
	default:
		return ClassificationOK
	}
}
