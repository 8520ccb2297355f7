package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/timeclock/internal/persistence"
)

// AccountDirectory captures the persistence interactions needed by the
// account service.
type AccountDirectory interface {
	GetOrganizationBySubdomain(ctx context.Context, subdomain string) (persistence.Organization, error)
	// CreateAccount persists the organization and its admin user in one
	// step so a rejected user leaves no orphaned tenant behind.
	CreateAccount(ctx context.Context, org persistence.Organization, profile persistence.UserProfile, passwordHash string) error
	GetUserCredentialsByEmail(ctx context.Context, email string) (persistence.UserCredentials, error)
}

// PasswordHasher derives a storable hash from a password.
type PasswordHasher func(password string) (string, error)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier func(hashedPassword, password string) error

const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleEmployee = "employee"
)

// AccountService provisions organizations with their first admin user and
// verifies login credentials.
type AccountService struct {
	directory      AccountDirectory
	hashPassword   PasswordHasher
	verifyPassword PasswordVerifier
	idGenerator    func() string
	now            func() time.Time
	logger         *slog.Logger
}

// NewAccountService wires dependencies for account operations.
func NewAccountService(directory AccountDirectory, hash PasswordHasher, verify PasswordVerifier, idGenerator func() string, now func() time.Time, logger *slog.Logger) *AccountService {
	if hash == nil {
		hash = func(password string) (string, error) {
			return CreatePasswordHash(password, DefaultArgon2idParams)
		}
	}
	if verify == nil {
		verify = VerifyPassword
	}
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &AccountService{
		directory:      directory,
		hashPassword:   hash,
		verifyPassword: verify,
		idGenerator:    idGenerator,
		now:            now,
		logger:         defaultLogger(logger),
	}
}

func (s *AccountService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AccountService", operation, attrs...)
}

// Signup creates an organization and its admin user. It fails with
// ErrAlreadyExists when the subdomain or the email is taken.
func (s *AccountService) Signup(ctx context.Context, input SignupInput) (account Account, err error) {
	if s == nil || s.directory == nil {
		return Account{}, fmt.Errorf("account service not configured")
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	subdomain := strings.TrimSpace(strings.ToLower(input.OrganizationSubdomain))

	logger := s.loggerWith(ctx, "Signup", "email", email, "subdomain", subdomain)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "signup failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", account.Member.ID, "organization_id", account.OrganizationID).
			InfoContext(ctx, "organization provisioned")
	}()

	if vErr := validateSignupInput(input, email, subdomain); vErr.HasErrors() {
		err = vErr
		return Account{}, err
	}

	if _, lookupErr := s.directory.GetOrganizationBySubdomain(ctx, subdomain); lookupErr == nil {
		err = ErrSubdomainTaken
		return Account{}, err
	} else if !errors.Is(lookupErr, persistence.ErrNotFound) {
		err = lookupErr
		return Account{}, err
	}

	hash, err := s.hashPassword(input.Password)
	if err != nil {
		return Account{}, err
	}

	now := s.now()
	org := persistence.Organization{
		ID:        s.idGenerator(),
		Name:      strings.TrimSpace(input.OrganizationName),
		Subdomain: &subdomain,
		CreatedAt: now,
		UpdatedAt: now,
	}
	fullName := strings.TrimSpace(input.FullName)
	profile := persistence.UserProfile{
		ID:             s.idGenerator(),
		OrganizationID: org.ID,
		Email:          email,
		FullName:       &fullName,
		Role:           RoleAdmin,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err = s.directory.CreateAccount(ctx, org, profile, hash); err != nil {
		switch {
		case errors.Is(err, persistence.ErrEmailConflict):
			err = ErrEmailTaken
		case errors.Is(err, persistence.ErrConflict):
			err = ErrSubdomainTaken
		}
		return Account{}, err
	}

	account = Account{Member: memberFromRecord(profile), OrganizationID: org.ID}
	return account, nil
}

// Login verifies credentials and returns the member's account. Unknown
// emails and wrong passwords are indistinguishable to the caller.
func (s *AccountService) Login(ctx context.Context, input LoginInput) (account Account, err error) {
	if s == nil || s.directory == nil {
		return Account{}, fmt.Errorf("account service not configured")
	}

	email := strings.TrimSpace(strings.ToLower(input.Email))
	logger := s.loggerWith(ctx, "Login", "email", email)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("user_id", account.Member.ID).InfoContext(ctx, "login succeeded")
	}()

	if email == "" || input.Password == "" {
		err = ErrInvalidCredentials
		return Account{}, err
	}

	creds, err := s.directory.GetUserCredentialsByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrInvalidCredentials
		}
		return Account{}, err
	}

	if err = s.verifyPassword(creds.PasswordHash, input.Password); err != nil {
		err = ErrInvalidCredentials
		return Account{}, err
	}

	account = Account{Member: memberFromRecord(creds.Profile), OrganizationID: creds.Profile.OrganizationID}
	return account, nil
}

func validateSignupInput(input SignupInput, email, subdomain string) *ValidationError {
	vErr := &ValidationError{}
	if strings.TrimSpace(input.FullName) == "" {
		vErr.add("full_name", "full name is required")
	}
	if email == "" || !strings.Contains(email, "@") {
		vErr.add("email", "email is invalid")
	}
	if len(input.Password) < 6 {
		vErr.add("password", "password must be at least 6 characters")
	}
	if strings.TrimSpace(input.OrganizationName) == "" {
		vErr.add("organization_name", "organization name is required")
	}
	if subdomain == "" {
		vErr.add("organization_subdomain", "organization subdomain is required")
	}
	return vErr
}
