package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/example/timeclock/internal/persistence"
)

// ProjectRepository captures the persistence interactions needed by the
// project service.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project persistence.Project) error
	GetProject(ctx context.Context, id, organizationID string) (persistence.Project, error)
	UpdateProject(ctx context.Context, project persistence.Project) error
	DeleteProject(ctx context.Context, id, organizationID string) error
	ListProjects(ctx context.Context, organizationID string) ([]persistence.Project, error)
	ProjectSessionStats(ctx context.Context, projectID string) (persistence.SessionStats, error)
}

const (
	ProjectStatusActive    = "active"
	ProjectStatusCompleted = "completed"
	ProjectStatusArchived  = "archived"

	defaultProjectColor = "#3B82F6"
)

var colorPattern = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// ProjectService orchestrates validation and persistence for project
// operations. Every lookup is scoped to the caller's organization.
type ProjectService struct {
	projects    ProjectRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewProjectService wires dependencies for project operations.
func NewProjectService(projects ProjectRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *ProjectService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &ProjectService{
		projects:    projects,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *ProjectService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ProjectService", operation, attrs...)
}

// CreateProject validates the input and persists a new project owned by the
// caller's organization.
func (s *ProjectService) CreateProject(ctx context.Context, params CreateProjectParams) (Project, error) {
	if s == nil || s.projects == nil {
		return Project{}, fmt.Errorf("project service not configured")
	}
	principal := params.Principal
	input := params.Input

	logger := s.loggerWith(ctx, "CreateProject", "user_id", principal.UserID)

	if input.Status == "" {
		input.Status = ProjectStatusActive
	}
	if input.Color == "" {
		input.Color = defaultProjectColor
	}
	if vErr := validateProjectInput(input); vErr.HasErrors() {
		return Project{}, vErr
	}

	now := s.now()
	project := Project{
		ID:             s.idGenerator(),
		OrganizationID: principal.OrganizationID,
		Name:           strings.TrimSpace(input.Name),
		Description:    input.Description,
		ClientName:     input.ClientName,
		HourlyRate:     input.HourlyRate,
		BudgetHours:    input.BudgetHours,
		Status:         input.Status,
		Color:          input.Color,
		CreatedBy:      principal.UserID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.projects.CreateProject(ctx, projectToRecord(project)); err != nil {
		logger.ErrorContext(ctx, "project creation failed", "error", err, "error_kind", ErrorKind(err))
		return Project{}, err
	}

	logger.With("project_id", project.ID).InfoContext(ctx, "project created")
	return project, nil
}

// GetProject fetches a project visible to the caller's organization.
func (s *ProjectService) GetProject(ctx context.Context, principal Principal, projectID string) (Project, error) {
	if s == nil || s.projects == nil {
		return Project{}, fmt.Errorf("project service not configured")
	}
	record, err := s.projects.GetProject(ctx, projectID, principal.OrganizationID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, err
	}
	return projectFromRecord(record), nil
}

// UpdateProject rewrites the mutable fields of an existing project.
func (s *ProjectService) UpdateProject(ctx context.Context, params UpdateProjectParams) (Project, error) {
	if s == nil || s.projects == nil {
		return Project{}, fmt.Errorf("project service not configured")
	}
	principal := params.Principal
	input := params.Input

	existing, err := s.projects.GetProject(ctx, params.ProjectID, principal.OrganizationID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Project{}, ErrProjectNotFound
		}
		return Project{}, err
	}

	if input.Status == "" {
		input.Status = existing.Status
	}
	if input.Color == "" {
		input.Color = existing.Color
	}
	if vErr := validateProjectInput(input); vErr.HasErrors() {
		return Project{}, vErr
	}

	updated := projectFromRecord(existing)
	updated.Name = strings.TrimSpace(input.Name)
	updated.Description = input.Description
	updated.ClientName = input.ClientName
	updated.HourlyRate = input.HourlyRate
	updated.BudgetHours = input.BudgetHours
	updated.Status = input.Status
	updated.Color = input.Color
	updated.UpdatedAt = s.now()

	if err := s.projects.UpdateProject(ctx, projectToRecord(updated)); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return Project{}, ErrProjectNotFound
		}
		s.loggerWith(ctx, "UpdateProject", "project_id", params.ProjectID).
			ErrorContext(ctx, "project update failed", "error", err)
		return Project{}, err
	}
	return updated, nil
}

// DeleteProject removes a project from the caller's organization. Sessions
// that referenced it keep running with a cleared project link.
func (s *ProjectService) DeleteProject(ctx context.Context, principal Principal, projectID string) error {
	if s == nil || s.projects == nil {
		return fmt.Errorf("project service not configured")
	}
	if err := s.projects.DeleteProject(ctx, projectID, principal.OrganizationID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return ErrProjectNotFound
		}
		return err
	}
	s.loggerWith(ctx, "DeleteProject", "project_id", projectID).InfoContext(ctx, "project deleted")
	return nil
}

// ListProjects returns the organization's projects, newest first.
func (s *ProjectService) ListProjects(ctx context.Context, principal Principal) ([]Project, error) {
	if s == nil || s.projects == nil {
		return nil, fmt.Errorf("project service not configured")
	}
	records, err := s.projects.ListProjects(ctx, principal.OrganizationID)
	if err != nil {
		return nil, err
	}
	projects := make([]Project, 0, len(records))
	for _, record := range records {
		projects = append(projects, projectFromRecord(record))
	}
	return projects, nil
}

// ProjectStats aggregates the tracked time recorded against a project.
func (s *ProjectService) ProjectStats(ctx context.Context, principal Principal, projectID string) (TrackedTimeStats, error) {
	if s == nil || s.projects == nil {
		return TrackedTimeStats{}, fmt.Errorf("project service not configured")
	}
	if _, err := s.projects.GetProject(ctx, projectID, principal.OrganizationID); err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return TrackedTimeStats{}, ErrProjectNotFound
		}
		return TrackedTimeStats{}, err
	}
	record, err := s.projects.ProjectSessionStats(ctx, projectID)
	if err != nil {
		return TrackedTimeStats{}, err
	}
	return statsFromRecord(record), nil
}

func validateProjectInput(input ProjectInput) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	if input.HourlyRate != nil && *input.HourlyRate <= 0 {
		vErr.add("hourly_rate", "hourly rate must be positive")
	}
	if input.BudgetHours != nil && *input.BudgetHours <= 0 {
		vErr.add("budget_hours", "budget hours must be positive")
	}
	switch input.Status {
	case ProjectStatusActive, ProjectStatusCompleted, ProjectStatusArchived:
	default:
		vErr.add("status", "status must be active, completed, or archived")
	}
	if !colorPattern.MatchString(input.Color) {
		vErr.add("color", "color must be a hex value like #3B82F6")
	}
	return vErr
}

func projectToRecord(project Project) persistence.Project {
	return persistence.Project{
		ID:             project.ID,
		OrganizationID: project.OrganizationID,
		Name:           project.Name,
		Description:    project.Description,
		ClientName:     project.ClientName,
		HourlyRate:     project.HourlyRate,
		BudgetHours:    project.BudgetHours,
		Status:         project.Status,
		Color:          project.Color,
		CreatedBy:      project.CreatedBy,
		CreatedAt:      project.CreatedAt,
		UpdatedAt:      project.UpdatedAt,
	}
}
