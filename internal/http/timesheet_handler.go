package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/example/timeclock/internal/application"
)

type timesheetService interface {
	ClockIn(ctx context.Context, params application.ClockInParams) (application.WorkSession, error)
	ClockOut(ctx context.Context, principal application.Principal) (application.ClockOutResult, error)
	CurrentSession(ctx context.Context, principal application.Principal) (application.CurrentSessionResult, error)
	ListSessions(ctx context.Context, params application.ListSessionsParams) (application.SessionPage, error)
	SessionBreaks(ctx context.Context, principal application.Principal, sessionID string) ([]application.Break, error)
}

type TimesheetHandler struct {
	service   timesheetService
	responder responder
	logger    *slog.Logger
}

func NewTimesheetHandler(service timesheetService, logger *slog.Logger) *TimesheetHandler {
	base := defaultLogger(logger)
	return &TimesheetHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *TimesheetHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "TimesheetHandler", operation, attrs...)
}

func (h *TimesheetHandler) ClockIn(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req clockInRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log(r.Context(), "ClockIn", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode clock-in request", "error", err)
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
			return
		}
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ClockIn", "user_id", principal.UserID)

	session, err := h.service.ClockIn(r.Context(), application.ClockInParams{
		Principal: principal,
		Input: application.ClockInInput{
			ProjectID:  req.ProjectID,
			Notes:      req.Notes,
			IsBillable: req.IsBillable,
		},
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "clock-in failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", session.ID).InfoContext(r.Context(), "session started")
	h.responder.writeJSON(r.Context(), w, http.StatusCreated, clockInResponse{
		Message: "Clocked in successfully",
		Session: toSessionDTO(session),
	})
}

func (h *TimesheetHandler) ClockOut(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())
	logger := h.log(r.Context(), "ClockOut", "user_id", principal.UserID)

	result, err := h.service.ClockOut(r.Context(), principal)
	if err != nil {
		logger.ErrorContext(r.Context(), "clock-out failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("session_id", result.Session.ID, "duration_ms", result.Duration.Milliseconds).InfoContext(r.Context(), "session closed")
	h.responder.writeJSON(r.Context(), w, http.StatusOK, clockOutResponse{
		Message:  "Clocked out successfully",
		Session:  toSessionDTO(result.Session),
		Duration: toDurationDTO(result.Duration),
	})
}

func (h *TimesheetHandler) CurrentSession(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	result, err := h.service.CurrentSession(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "CurrentSession", "user_id", principal.UserID).ErrorContext(r.Context(), "failed to load current session", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	response := currentSessionResponse{IsActive: result.IsActive}
	if result.Session != nil {
		dto := toSessionViewDTO(*result.Session)
		response.Session = &dto
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, response)
}

func (h *TimesheetHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	page, err := h.service.ListSessions(r.Context(), application.ListSessionsParams{
		Principal: principal,
		Filter:    buildSessionFilter(r.URL.Query()),
	})
	if err != nil {
		h.log(r.Context(), "ListSessions", "user_id", principal.UserID).ErrorContext(r.Context(), "failed to list sessions", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listSessionsResponse{
		Sessions: toSessionViewDTOs(page.Sessions),
		Total:    page.Total,
		HasMore:  page.HasMore,
	})
}

func (h *TimesheetHandler) SessionBreaks(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	sessionID, ok := SessionIDFromContext(r.Context())
	if !ok || strings.TrimSpace(sessionID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSessionID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	breaks, err := h.service.SessionBreaks(r.Context(), principal, sessionID)
	if err != nil {
		h.log(r.Context(), "SessionBreaks", "session_id", sessionID).ErrorContext(r.Context(), "failed to list breaks", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listBreaksResponse{
		Breaks: toBreakDTOs(breaks),
		Total:  len(breaks),
	})
}

func buildSessionFilter(values url.Values) application.ListSessionsFilter {
	var filter application.ListSessionsFilter

	if raw := strings.TrimSpace(values.Get("limit")); raw != "" {
		if limit, err := strconv.Atoi(raw); err == nil && limit > 0 {
			filter.Limit = limit
		}
	}
	if raw := strings.TrimSpace(values.Get("offset")); raw != "" {
		if offset, err := strconv.Atoi(raw); err == nil && offset > 0 {
			filter.Offset = offset
		}
	}
	if projectID := strings.TrimSpace(values.Get("project_id")); projectID != "" {
		filter.ProjectID = &projectID
	}
	if from := parseQueryTime(values.Get("date_from")); from != nil {
		filter.DateFrom = from
	}
	if to := parseQueryTime(values.Get("date_to")); to != nil {
		filter.DateTo = to
	}

	return filter
}

func parseQueryTime(value string) *time.Time {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	if ts, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return &ts
	}
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return &ts
	}
	if ts, err := time.Parse("2006-01-02", value); err == nil {
		return &ts
	}
	return nil
}

type clockInRequest struct {
	ProjectID  *string `json:"project_id"`
	Notes      *string `json:"notes"`
	IsBillable *bool   `json:"is_billable"`
}

type clockInResponse struct {
	Message string     `json:"message"`
	Session sessionDTO `json:"session"`
}

type clockOutResponse struct {
	Message  string      `json:"message"`
	Session  sessionDTO  `json:"session"`
	Duration durationDTO `json:"duration"`
}

type currentSessionResponse struct {
	Session  *sessionViewDTO `json:"session"`
	IsActive bool            `json:"isActive"`
}

type listSessionsResponse struct {
	Sessions []sessionViewDTO `json:"sessions"`
	Total    int              `json:"total"`
	HasMore  bool             `json:"hasMore"`
}

type listBreaksResponse struct {
	Breaks []breakDTO `json:"breaks"`
	Total  int        `json:"total"`
}

type sessionDTO struct {
	ID         string   `json:"id"`
	UserID     string   `json:"user_id"`
	ProjectID  *string  `json:"project_id"`
	StartTime  string   `json:"start_time"`
	EndTime    *string  `json:"end_time"`
	Notes      *string  `json:"notes"`
	IsBillable bool     `json:"is_billable"`
	HourlyRate *float64 `json:"hourly_rate"`
	CreatedAt  string   `json:"created_at"`
}

func toSessionDTO(session application.WorkSession) sessionDTO {
	dto := sessionDTO{
		ID:         session.ID,
		UserID:     session.UserID,
		ProjectID:  session.ProjectID,
		StartTime:  session.StartTime.UTC().Format(time.RFC3339Nano),
		Notes:      session.Notes,
		IsBillable: session.IsBillable,
		HourlyRate: session.HourlyRate,
		CreatedAt:  session.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if session.EndTime != nil {
		end := session.EndTime.UTC().Format(time.RFC3339Nano)
		dto.EndTime = &end
	}
	return dto
}

type sessionViewDTO struct {
	sessionDTO
	Duration durationDTO    `json:"duration"`
	IsActive bool           `json:"isActive"`
	Project  *projectRefDTO `json:"project"`
}

func toSessionViewDTO(view application.SessionView) sessionViewDTO {
	dto := sessionViewDTO{
		sessionDTO: toSessionDTO(view.WorkSession),
		Duration:   toDurationDTO(view.Duration),
		IsActive:   view.IsActive,
	}
	if view.Project != nil {
		dto.Project = &projectRefDTO{
			ID:    view.Project.ID,
			Name:  view.Project.Name,
			Color: view.Project.Color,
		}
	}
	return dto
}

func toSessionViewDTOs(views []application.SessionView) []sessionViewDTO {
	out := make([]sessionViewDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toSessionViewDTO(view))
	}
	return out
}

type projectRefDTO struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Color string `json:"color"`
}

type durationDTO struct {
	Milliseconds         int64   `json:"milliseconds"`
	Hours                float64 `json:"hours"`
	Formatted            string  `json:"formatted"`
	FormattedWithSeconds string  `json:"formattedWithSeconds"`
}

func toDurationDTO(duration application.Duration) durationDTO {
	return durationDTO{
		Milliseconds:         duration.Milliseconds,
		Hours:                duration.Hours,
		Formatted:            duration.Formatted,
		FormattedWithSeconds: duration.FormattedWithSeconds,
	}
}

type breakDTO struct {
	ID        string  `json:"id"`
	SessionID string  `json:"session_id"`
	BreakType string  `json:"break_type"`
	StartTime string  `json:"start_time"`
	EndTime   *string `json:"end_time"`
	Notes     *string `json:"notes"`
	CreatedAt string  `json:"created_at"`
}

func toBreakDTOs(breaks []application.Break) []breakDTO {
	out := make([]breakDTO, 0, len(breaks))
	for _, b := range breaks {
		dto := breakDTO{
			ID:        b.ID,
			SessionID: b.SessionID,
			BreakType: b.BreakType,
			StartTime: b.StartTime.UTC().Format(time.RFC3339Nano),
			Notes:     b.Notes,
			CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339Nano),
		}
		if b.EndTime != nil {
			end := b.EndTime.UTC().Format(time.RFC3339Nano)
			dto.EndTime = &end
		}
		out = append(out, dto)
	}
	return out
}
