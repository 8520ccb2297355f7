package http

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/example/timeclock/internal/application"
)

var (
	errBadRequestBody   = errors.New("invalid request body")
	errInvalidProjectID = errors.New("invalid project id")
	errInvalidMemberID  = errors.New("invalid user id")
	errInvalidSessionID = errors.New("invalid session id")
	errMissingIdentity  = errors.New("authentication required")
)

type errorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type responder struct {
	logger *slog.Logger
}

func newResponder(logger *slog.Logger) responder {
	if logger == nil {
		logger = slog.Default()
	}
	return responder{logger: logger}
}

func (r responder) writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	if w == nil {
		return
	}

	if status == http.StatusNoContent || payload == nil {
		w.WriteHeader(status)
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		r.loggerFor(ctx).ErrorContext(ctx, "failed to encode response", "error", err)
	}
}

func (r responder) writeError(ctx context.Context, w http.ResponseWriter, status int, err error) {
	message := http.StatusText(status)
	if err != nil {
		if msg := strings.TrimSpace(err.Error()); msg != "" {
			message = msg
		}
		r.loggerFor(ctx).ErrorContext(ctx, "request failed", "status", status, "error", err)
	}
	r.writeJSON(ctx, w, status, errorResponse{Error: message})
}

// handleServiceError translates application errors into the response
// taxonomy: domain rule failures become structured 4xx payloads, anything
// unexpected becomes a generic 500 with no internal detail exposed.
func (r responder) handleServiceError(ctx context.Context, w http.ResponseWriter, err error) {
	logger := r.loggerFor(ctx)

	switch {
	case err == nil:
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	case errors.Is(err, application.ErrUnauthenticated), errors.Is(err, application.ErrInvalidCredentials):
		r.writeJSON(ctx, w, http.StatusUnauthorized, errorResponse{Error: "Unauthorized"})
	case errors.Is(err, application.ErrNotFound):
		r.writeJSON(ctx, w, http.StatusNotFound, errorResponse{Error: notFoundMessage(err)})
	case errors.Is(err, application.ErrConflict), errors.Is(err, application.ErrAlreadyExists):
		r.writeJSON(ctx, w, http.StatusConflict, errorResponse{Error: conflictMessage(err)})
	case errors.Is(err, application.ErrIntegrity):
		logger.ErrorContext(ctx, "integrity violation", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	default:
		var vErr *application.ValidationError
		if errors.As(err, &vErr) {
			r.writeJSON(ctx, w, http.StatusBadRequest, errorResponse{
				Error:   "Validation error",
				Details: vErr.FieldErrors,
			})
			return
		}
		logger.ErrorContext(ctx, "request failed", "error", err)
		r.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
	}
}

func (r responder) loggerFor(ctx context.Context) *slog.Logger {
	if logger := LoggerFromContext(ctx); logger != nil {
		return logger
	}
	return r.logger
}

func notFoundMessage(err error) string {
	switch {
	case errors.Is(err, application.ErrNoActiveSession):
		return "No active session found"
	case errors.Is(err, application.ErrProjectNotFound):
		return "Project not found or access denied"
	case errors.Is(err, application.ErrMemberNotFound):
		return "User not found"
	case errors.Is(err, application.ErrSessionNotFound):
		return "Session not found"
	default:
		return "Not found"
	}
}

func conflictMessage(err error) string {
	switch {
	case errors.Is(err, application.ErrActiveSessionExists):
		return "You already have an active session"
	case errors.Is(err, application.ErrSubdomainTaken):
		return "Organization subdomain already taken"
	case errors.Is(err, application.ErrEmailTaken):
		return "Email already registered"
	default:
		return "Conflict"
	}
}
