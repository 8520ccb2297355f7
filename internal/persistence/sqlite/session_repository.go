package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/timeclock/internal/persistence"
)

const sessionColumns = "id, user_id, project_id, start_time, end_time, notes, is_billable, hourly_rate, created_at"

// InsertSession persists a new work session. The partial unique index on
// (user_id) WHERE end_time IS NULL makes the insert itself the invariant
// check: a second open session for the same user fails with ErrConflict.
func (s *Store) InsertSession(ctx context.Context, session persistence.WorkSession) error {
	query := `
		INSERT INTO work_sessions (` + sessionColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		session.ID,
		session.UserID,
		nullString(session.ProjectID),
		toMillis(session.StartTime),
		nullMillis(session.EndTime),
		nullString(session.Notes),
		boolToInt(session.IsBillable),
		nullFloat(session.HourlyRate),
		toMillis(session.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// FindOpenSession returns the user's open session if one exists.
func (s *Store) FindOpenSession(ctx context.Context, userID string) (persistence.WorkSession, bool, error) {
	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE user_id = ? AND end_time IS NULL
	`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.WorkSession{}, false, nil
		}
		return persistence.WorkSession{}, false, mapError(err)
	}
	return session, true, nil
}

// CloseSession sets the end time on an open session. The end_time IS NULL
// guard keeps two concurrent clock-outs from both succeeding; the loser sees
// zero rows affected and reports not found.
func (s *Store) CloseSession(ctx context.Context, sessionID string, endTime time.Time) (persistence.WorkSession, bool, error) {
	result, err := s.db.ExecContext(ctx,
		`UPDATE work_sessions SET end_time = ? WHERE id = ? AND end_time IS NULL`,
		toMillis(endTime), sessionID,
	)
	if err != nil {
		return persistence.WorkSession{}, false, mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.WorkSession{}, false, fmt.Errorf("close session: %w", err)
	}
	if affected == 0 {
		return persistence.WorkSession{}, false, nil
	}

	session, err := s.GetSession(ctx, sessionID)
	if err != nil {
		return persistence.WorkSession{}, false, err
	}
	return session, true, nil
}

// GetSession fetches a session by id.
func (s *Store) GetSession(ctx context.Context, id string) (persistence.WorkSession, error) {
	query := `SELECT ` + sessionColumns + ` FROM work_sessions WHERE id = ?`
	session, err := scanSession(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.WorkSession{}, mapError(err)
	}
	return session, nil
}

// ListSessions returns the user's sessions ordered by start time descending.
func (s *Store) ListSessions(ctx context.Context, userID string, filter persistence.SessionFilter) ([]persistence.WorkSession, error) {
	conditions := []string{"user_id = ?"}
	args := []any{userID}

	if filter.ProjectID != nil {
		conditions = append(conditions, "project_id = ?")
		args = append(args, *filter.ProjectID)
	}
	if filter.DateFrom != nil {
		conditions = append(conditions, "start_time >= ?")
		args = append(args, toMillis(*filter.DateFrom))
	}
	if filter.DateTo != nil {
		conditions = append(conditions, "start_time <= ?")
		args = append(args, toMillis(*filter.DateTo))
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}
	args = append(args, limit, offset)

	query := `
		SELECT ` + sessionColumns + `
		FROM work_sessions
		WHERE ` + strings.Join(conditions, " AND ") + `
		ORDER BY start_time DESC
		LIMIT ? OFFSET ?
	`
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var sessions []persistence.WorkSession
	for rows.Next() {
		session, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("scan session: %w", err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sessions: %w", err)
	}
	return sessions, nil
}

// UserSessionStats aggregates the user's sessions. Only closed sessions
// contribute to duration totals.
func (s *Store) UserSessionStats(ctx context.Context, userID string) (persistence.SessionStats, error) {
	return s.sessionStats(ctx, "user_id = ?", userID)
}

// ProjectSessionStats aggregates every session linked to the project.
func (s *Store) ProjectSessionStats(ctx context.Context, projectID string) (persistence.SessionStats, error) {
	return s.sessionStats(ctx, "project_id = ?", projectID)
}

func (s *Store) sessionStats(ctx context.Context, condition string, arg any) (persistence.SessionStats, error) {
	query := `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN end_time IS NULL THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN end_time IS NOT NULL THEN end_time - start_time ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN end_time IS NOT NULL AND is_billable = 1 THEN end_time - start_time ELSE 0 END), 0)
		FROM work_sessions
		WHERE ` + condition
	var stats persistence.SessionStats
	err := s.db.QueryRowContext(ctx, query, arg).Scan(
		&stats.SessionCount,
		&stats.OpenSessions,
		&stats.TotalMilliseconds,
		&stats.BillableMilliseconds,
	)
	if err != nil {
		return persistence.SessionStats{}, mapError(err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (persistence.WorkSession, error) {
	var (
		session    persistence.WorkSession
		projectID  sql.NullString
		start      int64
		end        sql.NullInt64
		notes      sql.NullString
		billable   int
		hourlyRate sql.NullFloat64
		createdAt  int64
	)
	err := row.Scan(
		&session.ID,
		&session.UserID,
		&projectID,
		&start,
		&end,
		&notes,
		&billable,
		&hourlyRate,
		&createdAt,
	)
	if err != nil {
		return persistence.WorkSession{}, err
	}
	session.ProjectID = stringPtr(projectID)
	session.StartTime = fromMillis(start)
	session.EndTime = timePtr(end)
	session.Notes = stringPtr(notes)
	session.IsBillable = billable != 0
	session.HourlyRate = floatPtr(hourlyRate)
	session.CreatedAt = fromMillis(createdAt)
	return session, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
