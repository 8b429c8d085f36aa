package postgres

import (
	"context"
	"database/sql"
	"fmt"
)

// Schema statements for the report tables, matching what the reporting
// service's ORM creates. Used by the seed utility and integration tests;
// production deployments already have these tables.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS report (
		id BIGSERIAL PRIMARY KEY,
		calendar_week INTEGER NOT NULL,
		year INTEGER NOT NULL,
		user_email TEXT NOT NULL,
		notes TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS report_scores (
		report_id BIGINT NOT NULL REFERENCES report(id),
		category_name TEXT NOT NULL,
		score DOUBLE PRECISION,
		PRIMARY KEY (report_id, category_name)
	)`,
	`CREATE TABLE IF NOT EXISTS chat_message (
		id BIGSERIAL PRIMARY KEY,
		message TEXT NOT NULL,
		sender TEXT NOT NULL,
		report_id BIGINT REFERENCES report(id)
	)`,
	`CREATE INDEX IF NOT EXISTS idx_report_user_email ON report (user_email, calendar_week DESC)`,
}

// EnsureSchema creates the report tables if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply schema statement: %w", err)
		}
	}
	return nil
}
