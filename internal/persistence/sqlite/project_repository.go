package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/example/timeclock/internal/persistence"
)

const projectColumns = "id, organization_id, name, description, client_name, hourly_rate, budget_hours, status, color, created_by, created_at, updated_at"

// CreateProject inserts a new project.
func (s *Store) CreateProject(ctx context.Context, project persistence.Project) error {
	query := `
		INSERT INTO projects (` + projectColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		project.ID,
		project.OrganizationID,
		project.Name,
		nullString(project.Description),
		nullString(project.ClientName),
		nullFloat(project.HourlyRate),
		nullFloat(project.BudgetHours),
		project.Status,
		project.Color,
		project.CreatedBy,
		toMillis(project.CreatedAt),
		toMillis(project.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetProject fetches a project scoped to an organization. Projects in other
// organizations look identical to missing ones.
func (s *Store) GetProject(ctx context.Context, id, organizationID string) (persistence.Project, error) {
	query := `SELECT ` + projectColumns + ` FROM projects WHERE id = ? AND organization_id = ?`
	project, err := scanProject(s.db.QueryRowContext(ctx, query, id, organizationID))
	if err != nil {
		return persistence.Project{}, mapError(err)
	}
	return project, nil
}

// UpdateProject rewrites the mutable fields of an existing project.
func (s *Store) UpdateProject(ctx context.Context, project persistence.Project) error {
	query := `
		UPDATE projects
		SET name = ?, description = ?, client_name = ?, hourly_rate = ?,
			budget_hours = ?, status = ?, color = ?, updated_at = ?
		WHERE id = ? AND organization_id = ?
	`
	result, err := s.db.ExecContext(ctx, query,
		project.Name,
		nullString(project.Description),
		nullString(project.ClientName),
		nullFloat(project.HourlyRate),
		nullFloat(project.BudgetHours),
		project.Status,
		project.Color,
		toMillis(project.UpdatedAt),
		project.ID,
		project.OrganizationID,
	)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update project: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// DeleteProject removes a project. Sessions referencing it keep a NULL
// project id via ON DELETE SET NULL.
func (s *Store) DeleteProject(ctx context.Context, id, organizationID string) error {
	result, err := s.db.ExecContext(ctx,
		`DELETE FROM projects WHERE id = ? AND organization_id = ?`, id, organizationID)
	if err != nil {
		return mapError(err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}
	return nil
}

// ListProjects returns the organization's projects newest first.
func (s *Store) ListProjects(ctx context.Context, organizationID string) ([]persistence.Project, error) {
	query := `
		SELECT ` + projectColumns + `
		FROM projects
		WHERE organization_id = ?
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var projects []persistence.Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, fmt.Errorf("scan project: %w", err)
		}
		projects = append(projects, project)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate projects: %w", err)
	}
	return projects, nil
}

func scanProject(row rowScanner) (persistence.Project, error) {
	var (
		project     persistence.Project
		description sql.NullString
		clientName  sql.NullString
		hourlyRate  sql.NullFloat64
		budgetHours sql.NullFloat64
		createdAt   int64
		updatedAt   int64
	)
	err := row.Scan(
		&project.ID,
		&project.OrganizationID,
		&project.Name,
		&description,
		&clientName,
		&hourlyRate,
		&budgetHours,
		&project.Status,
		&project.Color,
		&project.CreatedBy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.Project{}, err
	}
	project.Description = stringPtr(description)
	project.ClientName = stringPtr(clientName)
	project.HourlyRate = floatPtr(hourlyRate)
	project.BudgetHours = floatPtr(budgetHours)
	project.CreatedAt = fromMillis(createdAt)
	project.UpdatedAt = fromMillis(updatedAt)
	return project, nil
}
