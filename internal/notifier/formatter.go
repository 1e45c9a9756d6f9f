package notifier

import (
	"fmt"
	"time"

	"github.com/aleister1102/expirywatch/internal/models"
)

// FormatWarningMessage renders the alert for a domain that expires within the warning window.
func FormatWarningMessage(domain string, days int, expireAt time.Time) string {
	return fmt.Sprintf("⚠️ %s expires in %d days (expiry date: %s)", domain, days, expireAt.UTC().Format(models.DateLayout))
}

// FormatExpiredMessage renders the alert for a domain past its expiry.
func FormatExpiredMessage(domain string, expireAt time.Time) string {
	return fmt.Sprintf("🚨 %s has expired! Expiry date: %s", domain, expireAt.UTC().Format(models.DateLayout))
}
