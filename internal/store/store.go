package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store wraps the SQLite database holding the exam dataset, the course
// catalog, and the LLM usage log.
type Store struct {
	db *sql.DB
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaDDL); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// applyPragmas configures SQLite for single-writer workloads.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS exam_results (
	id                TEXT PRIMARY KEY,
	exam_content_id   TEXT NOT NULL,
	user_id           TEXT NOT NULL,
	attempt_number    INTEGER NOT NULL DEFAULT 1,
	total_attempts    INTEGER NOT NULL DEFAULT 1,
	earned_score      REAL NOT NULL DEFAULT 0,
	total_score       REAL NOT NULL DEFAULT 0,
	duration_taken_ms INTEGER NOT NULL DEFAULT 0,
	status            TEXT NOT NULL DEFAULT '',
	created_at        TEXT NOT NULL DEFAULT ''
);
CREATE INDEX IF NOT EXISTS idx_exam_results_user
	ON exam_results (user_id, exam_content_id);

CREATE TABLE IF NOT EXISTS exam_question_results (
	id             TEXT PRIMARY KEY,
	exam_result_id TEXT NOT NULL,
	question_id    TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_exam_question_results_result
	ON exam_question_results (exam_result_id);

CREATE TABLE IF NOT EXISTS exam_answer_results (
	id                      TEXT PRIMARY KEY,
	exam_result_question_id TEXT NOT NULL,
	value                   TEXT NOT NULL DEFAULT '',
	is_correct              INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_exam_answer_results_question
	ON exam_answer_results (exam_result_question_id);

CREATE TABLE IF NOT EXISTS questions (
	id          TEXT PRIMARY KEY,
	domain      TEXT NOT NULL DEFAULT '',
	question    TEXT NOT NULL DEFAULT '',
	explanation TEXT NOT NULL DEFAULT '',
	difficulty  TEXT NOT NULL DEFAULT '',
	score       REAL NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS answers (
	id          TEXT PRIMARY KEY,
	question_id TEXT NOT NULL,
	value       TEXT NOT NULL DEFAULT '',
	is_correct  INTEGER NOT NULL DEFAULT 0
);
CREATE INDEX IF NOT EXISTS idx_answers_question ON answers (question_id);

CREATE TABLE IF NOT EXISTS courses (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	link        TEXT NOT NULL DEFAULT '',
	metadata    TEXT NOT NULL DEFAULT '{}'
);

CREATE TABLE IF NOT EXISTS llm_usage (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ', 'now')),
	purpose       TEXT NOT NULL DEFAULT '',
	provider      TEXT NOT NULL DEFAULT '',
	model         TEXT NOT NULL DEFAULT '',
	input_tokens  INTEGER NOT NULL DEFAULT 0,
	output_tokens INTEGER NOT NULL DEFAULT 0,
	latency_ms    INTEGER NOT NULL DEFAULT 0,
	success       INTEGER NOT NULL DEFAULT 1,
	error_message TEXT NOT NULL DEFAULT '',
	request_body  TEXT NOT NULL DEFAULT '',
	response_body TEXT NOT NULL DEFAULT ''
);
`

// DefaultDBPath resolves the database file path in priority order:
// 1. EXAMLENS_DB environment variable
// 2. $XDG_DATA_HOME/examlens/examlens.db
// 3. ~/.local/share/examlens/examlens.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("EXAMLENS_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "examlens", "examlens.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}
