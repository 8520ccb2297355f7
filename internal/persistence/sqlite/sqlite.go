// Package sqlite provides the SQLite-backed persistence layer implementation.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/example/timeclock/internal/persistence"
	msqlite "modernc.org/sqlite"
	sqlite3lib "modernc.org/sqlite/lib"
)

// Store persists timeclock state in a SQLite database.
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path and verifies the connection. Use
// Migrate to create the schema before serving requests.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("sqlite: database path is required")
	}
	// The driver only applies pragmas passed as _pragma=name(value); other
	// parameter spellings are ignored without error. Foreign keys back the
	// ON DELETE SET NULL on sessions, and the busy timeout makes concurrent
	// writers queue on the open-session index instead of failing busy.
	dsn := path + "?_pragma=journal_mode(WAL)&_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_pragma=synchronous(NORMAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

const schema = `
CREATE TABLE IF NOT EXISTS organizations (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	subdomain TEXT,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE UNIQUE INDEX IF NOT EXISTS organizations_subdomain
	ON organizations(subdomain) WHERE subdomain IS NOT NULL;

CREATE TABLE IF NOT EXISTS user_profiles (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	email TEXT NOT NULL UNIQUE,
	full_name TEXT,
	role TEXT NOT NULL DEFAULT 'employee',
	password_hash TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS projects (
	id TEXT PRIMARY KEY,
	organization_id TEXT NOT NULL REFERENCES organizations(id),
	name TEXT NOT NULL,
	description TEXT,
	client_name TEXT,
	hourly_rate REAL,
	budget_hours REAL,
	status TEXT NOT NULL DEFAULT 'active',
	color TEXT NOT NULL DEFAULT '#3B82F6',
	created_by TEXT NOT NULL REFERENCES user_profiles(id),
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS work_sessions (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL REFERENCES user_profiles(id),
	project_id TEXT REFERENCES projects(id) ON DELETE SET NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER,
	notes TEXT,
	is_billable INTEGER NOT NULL DEFAULT 1,
	hourly_rate REAL,
	created_at INTEGER NOT NULL
);

-- At most one open session per user. Concurrent clock-ins race on this
-- index instead of on a check-then-insert sequence.
CREATE UNIQUE INDEX IF NOT EXISTS work_sessions_one_open
	ON work_sessions(user_id) WHERE end_time IS NULL;

CREATE INDEX IF NOT EXISTS work_sessions_user_start
	ON work_sessions(user_id, start_time DESC);

CREATE TABLE IF NOT EXISTS breaks (
	id TEXT PRIMARY KEY,
	session_id TEXT NOT NULL REFERENCES work_sessions(id),
	break_type TEXT NOT NULL,
	start_time INTEGER NOT NULL,
	end_time INTEGER,
	notes TEXT,
	created_at INTEGER NOT NULL
);
`

// Migrate creates the schema when it does not exist yet.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}

// execer abstracts over *sql.DB and *sql.Tx so inserts can run standalone or
// inside a transaction.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withTransaction runs fn inside a transaction, rolling back when fn returns
// an error or panics and committing otherwise.
func (s *Store) withTransaction(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction failed (rollback error: %v): %w", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// mapError converts driver errors into persistence sentinel errors.
// Constraint violations are identified by the driver's error code, never by
// message matching.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return persistence.ErrNotFound
	}
	var sqliteErr *msqlite.Error
	if errors.As(err, &sqliteErr) {
		switch sqliteErr.Code() {
		case sqlite3lib.SQLITE_CONSTRAINT_PRIMARYKEY, sqlite3lib.SQLITE_CONSTRAINT_UNIQUE:
			return fmt.Errorf("%w: %v", persistence.ErrConflict, err)
		}
	}
	return err
}

// Timestamps are stored as UTC Unix milliseconds.

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

func nullString(value *string) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *value, Valid: true}
}

func stringPtr(value sql.NullString) *string {
	if !value.Valid {
		return nil
	}
	v := value.String
	return &v
}

func nullFloat(value *float64) sql.NullFloat64 {
	if value == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *value, Valid: true}
}

func floatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	v := value.Float64
	return &v
}

func nullMillis(value *time.Time) sql.NullInt64 {
	if value == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: toMillis(*value), Valid: true}
}

func timePtr(value sql.NullInt64) *time.Time {
	if !value.Valid {
		return nil
	}
	t := fromMillis(value.Int64)
	return &t
}

var (
	_ persistence.SessionRepository   = (*Store)(nil)
	_ persistence.ProjectRepository   = (*Store)(nil)
	_ persistence.DirectoryRepository = (*Store)(nil)
	_ persistence.BreakRepository     = (*Store)(nil)
)
