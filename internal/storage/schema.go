package storage

import (
	"context"
	"database/sql"
)

const schema = `
CREATE TABLE IF NOT EXISTS leads (
    id TEXT PRIMARY KEY,
    name TEXT NOT NULL,
    username TEXT NOT NULL DEFAULT '',
    segment TEXT NOT NULL,
    primary_issue TEXT NOT NULL DEFAULT '',
    scores_json TEXT NOT NULL DEFAULT '{}',
    answers_json TEXT NOT NULL DEFAULT '{}',
    created_at TIMESTAMP NOT NULL,
    processed INTEGER NOT NULL DEFAULT 0,
    processed_at TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_leads_segment ON leads(segment);
CREATE INDEX IF NOT EXISTS idx_leads_created_at ON leads(created_at);

CREATE TABLE IF NOT EXISTS segment_index (
    lead_id TEXT PRIMARY KEY,
    segment TEXT NOT NULL,
    FOREIGN KEY (lead_id) REFERENCES leads(id)
);

CREATE TABLE IF NOT EXISTS audit_log (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    lead_id TEXT NOT NULL,
    old_segment TEXT NOT NULL,
    new_segment TEXT NOT NULL,
    admin_user_id INTEGER NOT NULL,
    timestamp TIMESTAMP NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_audit_log_lead ON audit_log(lead_id);
CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);

CREATE TABLE IF NOT EXISTS callback_usage (
    identifier TEXT PRIMARY KEY,
    count INTEGER NOT NULL DEFAULT 0,
    failures INTEGER NOT NULL DEFAULT 0,
    last_seen TIMESTAMP NOT NULL
);
`

// InitSchema initializes the database schema
func InitSchema(ctx context.Context, queue *DBQueue) error {
	return queue.Execute(ctx, func(db *sql.DB) error {
		_, err := db.Exec(schema)
		return err
	})
}
