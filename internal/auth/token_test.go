package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/example/timeclock/internal/application"
)

func TestNewTokens(t *testing.T) {
	if _, err := NewTokens("", time.Hour, nil); err == nil {
		t.Fatal("expected an error for an empty secret")
	}
	if _, err := NewTokens("secret", time.Hour, nil); err != nil {
		t.Fatalf("expected success, got %v", err)
	}
}

func TestTokensRoundTrip(t *testing.T) {
	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	tokens, err := NewTokens("secret", time.Hour, func() time.Time { return now })
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}

	principal := application.Principal{UserID: "user-1", OrganizationID: "org-1", Role: "admin"}

	token, expiresAt, err := tokens.Issue(principal)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	if !expiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("expected expiry %v, got %v", now.Add(time.Hour), expiresAt)
	}

	resolved, err := tokens.Resolve(token)
	if err != nil {
		t.Fatalf("failed to resolve token: %v", err)
	}
	if resolved != principal {
		t.Fatalf("expected %+v, got %+v", principal, resolved)
	}
}

func TestTokensRejectExpired(t *testing.T) {
	issued := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	current := issued

	tokens, err := NewTokens("secret", time.Hour, func() time.Time { return current })
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}

	token, _, err := tokens.Issue(application.Principal{UserID: "user-1", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	current = issued.Add(2 * time.Hour)
	if _, err := tokens.Resolve(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokensRejectWrongSecret(t *testing.T) {
	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	nowFn := func() time.Time { return now }

	issuer, err := NewTokens("secret-a", time.Hour, nowFn)
	if err != nil {
		t.Fatalf("failed to build issuer: %v", err)
	}
	verifier, err := NewTokens("secret-b", time.Hour, nowFn)
	if err != nil {
		t.Fatalf("failed to build verifier: %v", err)
	}

	token, _, err := issuer.Issue(application.Principal{UserID: "user-1", OrganizationID: "org-1"})
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}

	if _, err := verifier.Resolve(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokensRejectGarbage(t *testing.T) {
	tokens, err := NewTokens("secret", time.Hour, nil)
	if err != nil {
		t.Fatalf("failed to build codec: %v", err)
	}

	for _, token := range []string{"", "   ", "not-a-token", "a.b.c"} {
		if _, err := tokens.Resolve(token); !errors.Is(err, ErrInvalidToken) {
			t.Fatalf("expected ErrInvalidToken for %q, got %v", token, err)
		}
	}
}
