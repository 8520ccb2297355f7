package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/timeclock/internal/persistence"
)

// InsertBreak records a break against a session.
func (s *Store) InsertBreak(ctx context.Context, brk persistence.Break) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO breaks (id, session_id, break_type, start_time, end_time, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		brk.ID,
		brk.SessionID,
		brk.BreakType,
		toMillis(brk.StartTime),
		nullMillis(brk.EndTime),
		nullString(brk.Notes),
		toMillis(brk.CreatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// ListBreaks returns the breaks recorded against a session, oldest first.
func (s *Store) ListBreaks(ctx context.Context, sessionID string) ([]persistence.Break, error) {
	query := `
		SELECT id, session_id, break_type, start_time, end_time, notes, created_at
		FROM breaks
		WHERE session_id = ?
		ORDER BY start_time, id
	`
	rows, err := s.db.QueryContext(ctx, query, sessionID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var breaks []persistence.Break
	for rows.Next() {
		var (
			brk       persistence.Break
			start     int64
			end       sql.NullInt64
			notes     sql.NullString
			createdAt int64
		)
		if err := rows.Scan(&brk.ID, &brk.SessionID, &brk.BreakType, &start, &end, &notes, &createdAt); err != nil {
			return nil, fmt.Errorf("scan break: %w", err)
		}
		brk.StartTime = fromMillis(start)
		brk.EndTime = timePtr(end)
		brk.Notes = stringPtr(notes)
		brk.CreatedAt = fromMillis(createdAt)
		breaks = append(breaks, brk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate breaks: %w", err)
	}
	return breaks, nil
}
