package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/timeclock/internal/application"
)

type projectService interface {
	CreateProject(ctx context.Context, params application.CreateProjectParams) (application.Project, error)
	GetProject(ctx context.Context, principal application.Principal, projectID string) (application.Project, error)
	UpdateProject(ctx context.Context, params application.UpdateProjectParams) (application.Project, error)
	DeleteProject(ctx context.Context, principal application.Principal, projectID string) error
	ListProjects(ctx context.Context, principal application.Principal) ([]application.Project, error)
	ProjectStats(ctx context.Context, principal application.Principal, projectID string) (application.TrackedTimeStats, error)
}

type ProjectHandler struct {
	service   projectService
	responder responder
	logger    *slog.Logger
}

func NewProjectHandler(service projectService, logger *slog.Logger) *ProjectHandler {
	base := defaultLogger(logger)
	return &ProjectHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *ProjectHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "ProjectHandler", operation, attrs...)
}

func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	projects, err := h.service.ListProjects(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list projects", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listProjectsResponse{
		Projects: toProjectDTOs(projects),
		Total:    len(projects),
	})
}

func (h *ProjectHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Create", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode project request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if vErr := validateRequest(req); vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Create", "user_id", principal.UserID)

	project, err := h.service.CreateProject(r.Context(), application.CreateProjectParams{
		Principal: principal,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to create project", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("project_id", project.ID).InfoContext(r.Context(), "project created")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, projectResponse{
		Message: "Project created successfully",
		Project: toProjectDTO(project),
	})
}

func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ProjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	project, err := h.service.GetProject(r.Context(), principal, projectID)
	if err != nil {
		h.log(r.Context(), "Get", "project_id", projectID).ErrorContext(r.Context(), "failed to load project", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, projectResponse{Project: toProjectDTO(project)})
}

func (h *ProjectHandler) Update(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ProjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	var req projectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Update", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode project request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if vErr := validateRequest(req); vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Update", "project_id", projectID)

	project, err := h.service.UpdateProject(r.Context(), application.UpdateProjectParams{
		Principal: principal,
		ProjectID: projectID,
		Input:     req.toInput(),
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "failed to update project", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "project updated")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, projectResponse{
		Message: "Project updated successfully",
		Project: toProjectDTO(project),
	})
}

func (h *ProjectHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ProjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "Delete", "project_id", projectID)

	if err := h.service.DeleteProject(r.Context(), principal, projectID); err != nil {
		logger.ErrorContext(r.Context(), "failed to delete project", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.InfoContext(r.Context(), "project deleted")
	h.responder.writeJSON(r.Context(), w, http.StatusNoContent, nil)
}

func (h *ProjectHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	projectID, ok := ProjectIDFromContext(r.Context())
	if !ok || strings.TrimSpace(projectID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidProjectID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	stats, err := h.service.ProjectStats(r.Context(), principal, projectID)
	if err != nil {
		h.log(r.Context(), "Stats", "project_id", projectID).ErrorContext(r.Context(), "failed to load project stats", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statsResponse{Stats: toStatsDTO(stats)})
}

type projectRequest struct {
	Name        string   `json:"name" validate:"required,max=200"`
	Description *string  `json:"description"`
	ClientName  *string  `json:"client_name"`
	HourlyRate  *float64 `json:"hourly_rate" validate:"omitempty,gte=0"`
	BudgetHours *float64 `json:"budget_hours" validate:"omitempty,gte=0"`
	Status      string   `json:"status" validate:"omitempty,oneof=active completed archived"`
	Color       string   `json:"color"`
}

func (r projectRequest) toInput() application.ProjectInput {
	return application.ProjectInput{
		Name:        strings.TrimSpace(r.Name),
		Description: r.Description,
		ClientName:  r.ClientName,
		HourlyRate:  r.HourlyRate,
		BudgetHours: r.BudgetHours,
		Status:      strings.TrimSpace(r.Status),
		Color:       strings.TrimSpace(r.Color),
	}
}

type projectResponse struct {
	Message string     `json:"message,omitempty"`
	Project projectDTO `json:"project"`
}

type listProjectsResponse struct {
	Projects []projectDTO `json:"projects"`
	Total    int          `json:"total"`
}

type projectDTO struct {
	ID             string   `json:"id"`
	OrganizationID string   `json:"organization_id"`
	Name           string   `json:"name"`
	Description    *string  `json:"description"`
	ClientName     *string  `json:"client_name"`
	HourlyRate     *float64 `json:"hourly_rate"`
	BudgetHours    *float64 `json:"budget_hours"`
	Status         string   `json:"status"`
	Color          string   `json:"color"`
	CreatedBy      string   `json:"created_by"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

func toProjectDTO(project application.Project) projectDTO {
	return projectDTO{
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
		CreatedAt:      project.CreatedAt.UTC().Format(time.RFC3339Nano),
		UpdatedAt:      project.UpdatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toProjectDTOs(projects []application.Project) []projectDTO {
	out := make([]projectDTO, 0, len(projects))
	for _, project := range projects {
		out = append(out, toProjectDTO(project))
	}
	return out
}
