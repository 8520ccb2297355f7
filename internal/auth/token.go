// Package auth issues and verifies the signed bearer tokens that identify
// API callers.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/example/timeclock/internal/application"
)

// ErrInvalidToken is returned when a token is malformed, expired, or signed
// with the wrong key.
var ErrInvalidToken = errors.New("auth: invalid token")

type tokenClaims struct {
	jwt.RegisteredClaims
	OrganizationID string `json:"organization_id"`
	Role           string `json:"role"`
}

// Tokens signs and verifies HS256 bearer tokens carrying the caller's user
// id, organization, and role.
type Tokens struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokens builds a token codec. The secret must not be empty.
func NewTokens(secret string, ttl time.Duration, now func() time.Time) (*Tokens, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, fmt.Errorf("auth: token secret is required")
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if now == nil {
		now = time.Now
	}
	return &Tokens{secret: []byte(secret), ttl: ttl, now: now}, nil
}

// Issue signs a token for the principal and returns it with its expiry.
func (t *Tokens) Issue(principal application.Principal) (string, time.Time, error) {
	if t == nil {
		return "", time.Time{}, fmt.Errorf("auth: token codec not configured")
	}
	now := t.now()
	expiresAt := now.Add(t.ttl)
	claims := tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   principal.UserID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
		OrganizationID: principal.OrganizationID,
		Role:           principal.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Resolve verifies a token and reconstructs the principal it identifies.
func (t *Tokens) Resolve(token string) (application.Principal, error) {
	if t == nil {
		return application.Principal{}, fmt.Errorf("auth: token codec not configured")
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return application.Principal{}, ErrInvalidToken
	}

	var claims tokenClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return application.Principal{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.Subject == "" || claims.OrganizationID == "" {
		return application.Principal{}, ErrInvalidToken
	}

	return application.Principal{
		UserID:         claims.Subject,
		OrganizationID: claims.OrganizationID,
		Role:           claims.Role,
	}, nil
}
