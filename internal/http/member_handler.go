package http

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/timeclock/internal/application"
)

type memberService interface {
	ListMembers(ctx context.Context, principal application.Principal) ([]application.Member, error)
	GetMember(ctx context.Context, principal application.Principal, memberID string) (application.Member, error)
	MemberStats(ctx context.Context, principal application.Principal, memberID string) (application.TrackedTimeStats, error)
}

type MemberHandler struct {
	service   memberService
	responder responder
	logger    *slog.Logger
}

func NewMemberHandler(service memberService, logger *slog.Logger) *MemberHandler {
	base := defaultLogger(logger)
	return &MemberHandler{service: service, responder: newResponder(base), logger: base}
}

func (h *MemberHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "MemberHandler", operation, attrs...)
}

func (h *MemberHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	members, err := h.service.ListMembers(r.Context(), principal)
	if err != nil {
		h.log(r.Context(), "List").ErrorContext(r.Context(), "failed to list members", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listUsersResponse{
		Users: toUserDTOs(members),
		Total: len(members),
	})
}

func (h *MemberHandler) Get(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	memberID, ok := MemberIDFromContext(r.Context())
	if !ok || strings.TrimSpace(memberID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMemberID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	member, err := h.service.GetMember(r.Context(), principal, memberID)
	if err != nil {
		h.log(r.Context(), "Get", "member_id", memberID).ErrorContext(r.Context(), "failed to load member", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, userResponse{User: toUserDTO(member)})
}

func (h *MemberHandler) Stats(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	memberID, ok := MemberIDFromContext(r.Context())
	if !ok || strings.TrimSpace(memberID) == "" {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidMemberID)
		return
	}

	principal, _ := PrincipalFromContext(r.Context())

	stats, err := h.service.MemberStats(r.Context(), principal, memberID)
	if err != nil {
		h.log(r.Context(), "Stats", "member_id", memberID).ErrorContext(r.Context(), "failed to load member stats", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, statsResponse{Stats: toStatsDTO(stats)})
}

type userDTO struct {
	ID             string  `json:"id"`
	OrganizationID string  `json:"organization_id"`
	Email          string  `json:"email"`
	FullName       *string `json:"full_name"`
	Role           string  `json:"role"`
	CreatedAt      string  `json:"created_at"`
}

func toUserDTO(member application.Member) userDTO {
	return userDTO{
		ID:             member.ID,
		OrganizationID: member.OrganizationID,
		Email:          member.Email,
		FullName:       member.FullName,
		Role:           member.Role,
		CreatedAt:      member.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
}

func toUserDTOs(members []application.Member) []userDTO {
	out := make([]userDTO, 0, len(members))
	for _, member := range members {
		out = append(out, toUserDTO(member))
	}
	return out
}

type listUsersResponse struct {
	Users []userDTO `json:"users"`
	Total int       `json:"total"`
}

type userResponse struct {
	User userDTO `json:"user"`
}

type statsDTO struct {
	SessionCount int         `json:"sessionCount"`
	OpenSessions int         `json:"openSessions"`
	TotalTime    durationDTO `json:"totalTime"`
	BillableTime durationDTO `json:"billableTime"`
}

func toStatsDTO(stats application.TrackedTimeStats) statsDTO {
	return statsDTO{
		SessionCount: stats.SessionCount,
		OpenSessions: stats.OpenSessions,
		TotalTime:    toDurationDTO(stats.TotalTime),
		BillableTime: toDurationDTO(stats.BillableTime),
	}
}

type statsResponse struct {
	Stats statsDTO `json:"stats"`
}
