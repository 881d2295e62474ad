package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// Table names.
const (
	tableRuns      = "fill_runs"
	tableRunSkills = "fill_run_skills"
	tableLLMEvents = "llm_request_events"
)

// ddl lists the statements that bring an empty database up to date. Every
// statement is idempotent so Open can run them unconditionally.
var ddl = []string{
	`CREATE TABLE IF NOT EXISTS fill_runs (
		id           TEXT PRIMARY KEY,
		sequence     INTEGER NOT NULL UNIQUE,
		created_at   TEXT NOT NULL,
		dataset_path TEXT NOT NULL,
		quota        INTEGER NOT NULL,
		skills       INTEGER NOT NULL,
		satisfied    INTEGER NOT NULL,
		added        INTEGER NOT NULL,
		conflicts    INTEGER NOT NULL,
		shortfall    INTEGER NOT NULL,
		status       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS fill_run_skills (
		run_id     TEXT NOT NULL REFERENCES fill_runs(id) ON DELETE CASCADE,
		position   INTEGER NOT NULL,
		skill_id   TEXT NOT NULL,
		prior      INTEGER NOT NULL,
		post       INTEGER NOT NULL,
		added      TEXT NOT NULL,
		conflicts  TEXT NOT NULL,
		shortfall  INTEGER NOT NULL,
		PRIMARY KEY (run_id, position)
	)`,
	`CREATE TABLE IF NOT EXISTS llm_request_events (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		sequence      INTEGER NOT NULL UNIQUE,
		created_at    TEXT NOT NULL,
		provider      TEXT NOT NULL,
		model         TEXT NOT NULL,
		purpose       TEXT NOT NULL,
		subject       TEXT NOT NULL DEFAULT '',
		input_tokens  INTEGER NOT NULL DEFAULT 0,
		output_tokens INTEGER NOT NULL DEFAULT 0,
		latency_ms    INTEGER NOT NULL DEFAULT 0,
		success       INTEGER NOT NULL,
		error_message TEXT NOT NULL DEFAULT '',
		request_body  TEXT NOT NULL DEFAULT '',
		response_body TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS llm_request_events_purpose ON llm_request_events (purpose)`,
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range ddl {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("exec %q: %w", firstLine(stmt), err)
		}
	}
	return nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
