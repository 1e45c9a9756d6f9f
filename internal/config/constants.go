package config

const (
	// Mode values
	ModeOnetime   = "onetime"
	ModeAutomated = "automated"

	// Environment variables
	EnvConfigPath = "EXPIRYWATCH_CONFIG_PATH"
	EnvCronToken  = "EXPIRYWATCH_CRON_TOKEN"

	// Log Defaults
	DefaultLogLevel      = "info"
	DefaultLogFormat     = "console"
	DefaultLogFile       = ""
	DefaultMaxLogSizeMB  = 100
	DefaultMaxLogBackups = 3

	// Storage Defaults
	DefaultStorageSQLiteDBPath = "database/expirywatch.db"

	// Scheduler Defaults
	DefaultSchedulerCycleMinutes      = 1440 // daily
	DefaultSchedulerRetryAttempts     = 2
	DefaultWarnThresholdDays          = 30
	DefaultCheckIntervalDays          = 7
	DefaultSchedulerRetryDelaySeconds = 30

	// Resolver Defaults
	DefaultResolverBootstrapURL   = "https://data.iana.org/rdap/dns.json"
	DefaultResolverTimeoutSeconds = 15
	DefaultResolverUserAgent      = "expirywatch/1.0"

	// Notification Defaults
	DefaultNotificationSendTimeoutSeconds = 10
	DefaultTelegramAPIBaseURL             = "https://api.telegram.org"
	DefaultSendGridAPIURL                 = "https://api.sendgrid.com/v3/mail/send"
	DefaultMailgunAPIBaseURL              = "https://api.mailgun.net/v3"
	DefaultEmailSubject                   = "Domain expiry notification"

	// Trigger Defaults
	DefaultTriggerListenAddr = ":8080"
)
