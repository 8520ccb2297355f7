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

type accountService interface {
	Signup(ctx context.Context, input application.SignupInput) (application.Account, error)
	Login(ctx context.Context, input application.LoginInput) (application.Account, error)
}

type tokenIssuer interface {
	Issue(principal application.Principal) (string, time.Time, error)
}

type AuthHandler struct {
	service   accountService
	tokens    tokenIssuer
	responder responder
	logger    *slog.Logger
}

func NewAuthHandler(service accountService, tokens tokenIssuer, logger *slog.Logger) *AuthHandler {
	base := defaultLogger(logger)
	return &AuthHandler{service: service, tokens: tokens, responder: newResponder(base), logger: base}
}

func (h *AuthHandler) log(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	if h == nil {
		return slog.Default()
	}
	return handlerLogger(ctx, h.logger, "AuthHandler", operation, attrs...)
}

func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil || h.tokens == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Signup", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode signup request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if vErr := validateRequest(req); vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Signup", "subdomain", req.OrganizationSubdomain)

	account, err := h.service.Signup(r.Context(), application.SignupInput{
		FullName:              strings.TrimSpace(req.FullName),
		Email:                 req.Email,
		Password:              req.Password,
		OrganizationName:      strings.TrimSpace(req.OrganizationName),
		OrganizationSubdomain: req.OrganizationSubdomain,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "signup failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("user_id", account.Member.ID, "organization_id", account.OrganizationID).InfoContext(r.Context(), "organization provisioned")
	h.renderAccount(r.Context(), w, account, http.StatusCreated)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil || h.tokens == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.log(r.Context(), "Login", "error_kind", "bad_request").ErrorContext(r.Context(), "failed to decode login request", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}
	if vErr := validateRequest(req); vErr != nil {
		h.responder.handleServiceError(r.Context(), w, vErr)
		return
	}

	logger := h.log(r.Context(), "Login")

	account, err := h.service.Login(r.Context(), application.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		logger.ErrorContext(r.Context(), "login failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger.With("user_id", account.Member.ID).InfoContext(r.Context(), "user authenticated")
	h.renderAccount(r.Context(), w, account, http.StatusOK)
}

func (h *AuthHandler) renderAccount(ctx context.Context, w http.ResponseWriter, account application.Account, status int) {
	token, expiresAt, err := h.tokens.Issue(application.Principal{
		UserID:         account.Member.ID,
		OrganizationID: account.OrganizationID,
		Role:           account.Member.Role,
	})
	if err != nil {
		h.log(ctx, "renderAccount").ErrorContext(ctx, "failed to issue token", "error", err)
		h.responder.writeJSON(ctx, w, http.StatusInternalServerError, errorResponse{Error: "Internal server error"})
		return
	}

	h.responder.writeJSON(ctx, w, status, authResponse{
		Token:     token,
		ExpiresAt: expiresAt.UTC().Format(time.RFC3339Nano),
		User:      toUserDTO(account.Member),
	})
}

type signupRequest struct {
	FullName              string `json:"full_name" validate:"required,max=200"`
	Email                 string `json:"email" validate:"required,email"`
	Password              string `json:"password" validate:"required,min=6"`
	OrganizationName      string `json:"organization_name" validate:"required,max=200"`
	OrganizationSubdomain string `json:"organization_subdomain" validate:"required,min=2,max=63"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type authResponse struct {
	Token     string  `json:"token"`
	ExpiresAt string  `json:"expires_at"`
	User      userDTO `json:"user"`
}
