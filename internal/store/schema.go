package store

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema is the full DDL. Statements are idempotent so migration can run on
// every open.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS courses (
		id   TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		ord  INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS units (
		id        TEXT PRIMARY KEY,
		course_id TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		name      TEXT NOT NULL,
		slug      TEXT NOT NULL,
		ord       INTEGER NOT NULL DEFAULT 0,
		UNIQUE(course_id, slug)
	)`,
	`CREATE TABLE IF NOT EXISTS topics (
		id      TEXT PRIMARY KEY,
		unit_id TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
		name    TEXT NOT NULL,
		slug    TEXT NOT NULL,
		ord     INTEGER NOT NULL DEFAULT 0,
		UNIQUE(unit_id, slug)
	)`,
	`CREATE TABLE IF NOT EXISTS questions (
		id               TEXT PRIMARY KEY,
		course_id        TEXT NOT NULL REFERENCES courses(id) ON DELETE CASCADE,
		unit_id          TEXT NOT NULL REFERENCES units(id) ON DELETE CASCADE,
		topic_id         TEXT NOT NULL REFERENCES topics(id) ON DELETE CASCADE,
		prompt_text      TEXT NOT NULL,
		options_json     TEXT NOT NULL,
		correct_option   TEXT NOT NULL,
		explanation_json TEXT,
		difficulty       TEXT NOT NULL DEFAULT 'medium',
		source_type      TEXT NOT NULL DEFAULT '',
		source_ref       TEXT NOT NULL DEFAULT '',
		error_common     TEXT NOT NULL DEFAULT '',
		verification     TEXT NOT NULL DEFAULT '',
		created_at       TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_questions_topic ON questions(topic_id)`,
	`CREATE TABLE IF NOT EXISTS learning_kits (
		id                TEXT PRIMARY KEY,
		topic_id          TEXT NOT NULL UNIQUE REFERENCES topics(id) ON DELETE CASCADE,
		summary_json      TEXT NOT NULL,
		methods_json      TEXT NOT NULL,
		mistakes_json     TEXT NOT NULL,
		verification_json TEXT NOT NULL,
		created_at        TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS attempts (
		id              TEXT PRIMARY KEY,
		session_id      TEXT NOT NULL,
		question_id     TEXT NOT NULL REFERENCES questions(id) ON DELETE CASCADE,
		topic_id        TEXT NOT NULL,
		selected_option TEXT NOT NULL,
		is_correct      INTEGER NOT NULL,
		time_ms         INTEGER NOT NULL,
		created_at      TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_attempts_topic ON attempts(topic_id)`,
	`CREATE TABLE IF NOT EXISTS mastery (
		topic_id   TEXT PRIMARY KEY REFERENCES topics(id) ON DELETE CASCADE,
		score      REAL NOT NULL DEFAULT 0,
		updated_at TEXT NOT NULL
	)`,
}

// migrate applies the schema.
func migrate(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("exec schema statement: %w", err)
		}
	}
	return nil
}
