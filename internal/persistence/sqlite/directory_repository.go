package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/example/timeclock/internal/persistence"
)

// CreateOrganization inserts a new tenant. A taken subdomain surfaces as
// ErrConflict via the partial unique index.
func (s *Store) CreateOrganization(ctx context.Context, org persistence.Organization) error {
	return insertOrganization(ctx, s.db, org)
}

func insertOrganization(ctx context.Context, ex execer, org persistence.Organization) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO organizations (id, name, subdomain, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		org.ID,
		org.Name,
		nullString(org.Subdomain),
		toMillis(org.CreatedAt),
		toMillis(org.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// CreateAccount inserts an organization together with its first member in a
// single transaction, so a rejected member leaves no half-provisioned tenant
// behind. Conflict errors report which uniqueness constraint fired.
func (s *Store) CreateAccount(ctx context.Context, org persistence.Organization, profile persistence.UserProfile, passwordHash string) error {
	return s.withTransaction(ctx, func(tx *sql.Tx) error {
		if err := insertOrganization(ctx, tx, org); err != nil {
			if errors.Is(err, persistence.ErrConflict) {
				return persistence.ErrSubdomainConflict
			}
			return err
		}
		if err := insertUserProfile(ctx, tx, profile, passwordHash); err != nil {
			if errors.Is(err, persistence.ErrConflict) {
				return persistence.ErrEmailConflict
			}
			return err
		}
		return nil
	})
}

// GetOrganizationBySubdomain fetches a tenant by its subdomain.
func (s *Store) GetOrganizationBySubdomain(ctx context.Context, subdomain string) (persistence.Organization, error) {
	var (
		org       persistence.Organization
		sub       sql.NullString
		createdAt int64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, subdomain, created_at, updated_at FROM organizations WHERE subdomain = ?`,
		subdomain,
	).Scan(&org.ID, &org.Name, &sub, &createdAt, &updatedAt)
	if err != nil {
		return persistence.Organization{}, mapError(err)
	}
	org.Subdomain = stringPtr(sub)
	org.CreatedAt = fromMillis(createdAt)
	org.UpdatedAt = fromMillis(updatedAt)
	return org, nil
}

const profileColumns = "id, organization_id, email, full_name, role, created_at, updated_at"

// CreateUserProfile inserts a member together with their password hash.
// Emails are unique across the whole service, not per tenant.
func (s *Store) CreateUserProfile(ctx context.Context, profile persistence.UserProfile, passwordHash string) error {
	return insertUserProfile(ctx, s.db, profile, passwordHash)
}

func insertUserProfile(ctx context.Context, ex execer, profile persistence.UserProfile, passwordHash string) error {
	_, err := ex.ExecContext(ctx,
		`INSERT INTO user_profiles (id, organization_id, email, full_name, role, password_hash, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		profile.ID,
		profile.OrganizationID,
		strings.ToLower(profile.Email),
		nullString(profile.FullName),
		profile.Role,
		passwordHash,
		toMillis(profile.CreatedAt),
		toMillis(profile.UpdatedAt),
	)
	if err != nil {
		return mapError(err)
	}
	return nil
}

// GetUserProfile fetches a member by id.
func (s *Store) GetUserProfile(ctx context.Context, id string) (persistence.UserProfile, error) {
	query := `SELECT ` + profileColumns + ` FROM user_profiles WHERE id = ?`
	profile, err := scanProfile(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return persistence.UserProfile{}, mapError(err)
	}
	return profile, nil
}

// GetUserCredentialsByEmail fetches a member and their password hash for
// login verification.
func (s *Store) GetUserCredentialsByEmail(ctx context.Context, email string) (persistence.UserCredentials, error) {
	var (
		creds     persistence.UserCredentials
		fullName  sql.NullString
		createdAt int64
		updatedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT `+profileColumns+`, password_hash FROM user_profiles WHERE email = ?`,
		strings.ToLower(email),
	).Scan(
		&creds.Profile.ID,
		&creds.Profile.OrganizationID,
		&creds.Profile.Email,
		&fullName,
		&creds.Profile.Role,
		&createdAt,
		&updatedAt,
		&creds.PasswordHash,
	)
	if err != nil {
		return persistence.UserCredentials{}, mapError(err)
	}
	creds.Profile.FullName = stringPtr(fullName)
	creds.Profile.CreatedAt = fromMillis(createdAt)
	creds.Profile.UpdatedAt = fromMillis(updatedAt)
	return creds, nil
}

// ListUserProfiles returns the organization's members newest first.
func (s *Store) ListUserProfiles(ctx context.Context, organizationID string) ([]persistence.UserProfile, error) {
	query := `
		SELECT ` + profileColumns + `
		FROM user_profiles
		WHERE organization_id = ?
		ORDER BY created_at DESC, id
	`
	rows, err := s.db.QueryContext(ctx, query, organizationID)
	if err != nil {
		return nil, mapError(err)
	}
	defer rows.Close()

	var profiles []persistence.UserProfile
	for rows.Next() {
		profile, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}
	return profiles, nil
}

func scanProfile(row rowScanner) (persistence.UserProfile, error) {
	var (
		profile   persistence.UserProfile
		fullName  sql.NullString
		createdAt int64
		updatedAt int64
	)
	err := row.Scan(
		&profile.ID,
		&profile.OrganizationID,
		&profile.Email,
		&fullName,
		&profile.Role,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return persistence.UserProfile{}, err
	}
	profile.FullName = stringPtr(fullName)
	profile.CreatedAt = fromMillis(createdAt)
	profile.UpdatedAt = fromMillis(updatedAt)
	return profile, nil
}
