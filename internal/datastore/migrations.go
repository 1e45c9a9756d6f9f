package datastore

// migration holds a single schema migration with its target version and SQL.
type migration struct {
	version int
	sql     string
}

// migrations is the ordered list of schema migrations.
// Each migration's version must be sequential starting from 1.
var migrations = []migration{
	{
		version: 1,
		sql: `
CREATE TABLE IF NOT EXISTS schema_version (
	version INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS domains (
	id             INTEGER PRIMARY KEY AUTOINCREMENT,
	domain         TEXT NOT NULL UNIQUE,
	mode           TEXT NOT NULL DEFAULT 'auto',
	provider       TEXT NOT NULL DEFAULT '',
	expire_at      DATETIME,
	last_check     DATETIME,
	auto_refresh   INTEGER NOT NULL DEFAULT 1,
	check_interval INTEGER NOT NULL DEFAULT 7,
	notes          TEXT NOT NULL DEFAULT '',
	group_name     TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL
);

CREATE TABLE IF NOT EXISTS notify_channels (
	id      INTEGER PRIMARY KEY AUTOINCREMENT,
	type    TEXT NOT NULL,
	config  TEXT NOT NULL DEFAULT '{}',
	enabled INTEGER NOT NULL DEFAULT 1,
	UNIQUE (type, config)
);

-- domain_id is deliberately not a foreign key: entries outlive deleted domains.
CREATE TABLE IF NOT EXISTS logs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	domain_id  INTEGER,
	message    TEXT NOT NULL,
	created_at DATETIME NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_logs_domain_id ON logs(domain_id);
CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at);

INSERT INTO schema_version (version) VALUES (1);
`,
	},
	{
		version: 2,
		sql: `
CREATE TABLE IF NOT EXISTS pass_history (
	id                INTEGER PRIMARY KEY AUTOINCREMENT,
	pass_id           TEXT NOT NULL UNIQUE,
	source            TEXT NOT NULL,
	start_time        DATETIME NOT NULL,
	end_time          DATETIME,
	status            TEXT NOT NULL,
	num_domains       INTEGER NOT NULL DEFAULT 0,
	checked           INTEGER NOT NULL DEFAULT 0,
	refreshed         INTEGER NOT NULL DEFAULT 0,
	resolver_failures INTEGER NOT NULL DEFAULT 0,
	warnings          INTEGER NOT NULL DEFAULT 0,
	expired           INTEGER NOT NULL DEFAULT 0,
	send_failures     INTEGER NOT NULL DEFAULT 0,
	log_summary       TEXT
);

CREATE INDEX IF NOT EXISTS idx_pass_history_start_time ON pass_history(start_time);

INSERT INTO schema_version (version) VALUES (2);
`,
	},
}
