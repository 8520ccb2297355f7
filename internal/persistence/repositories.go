package persistence

import (
	"context"
	"time"
)

// SessionRepository stores work sessions and enforces the single-open-session
// invariant at insert time.
type SessionRepository interface {
	// InsertSession persists a new session. It returns ErrConflict when the
	// user already has an open session; the check and the insert are atomic.
	InsertSession(ctx context.Context, session WorkSession) error
	// FindOpenSession returns the user's open session if one exists. The
	// boolean distinguishes "no open session" from a query failure.
	FindOpenSession(ctx context.Context, userID string) (WorkSession, bool, error)
	// CloseSession sets the end time on an open session. It reports false when
	// the session does not exist or is already closed.
	CloseSession(ctx context.Context, sessionID string, endTime time.Time) (WorkSession, bool, error)
	// GetSession fetches a session by id.
	GetSession(ctx context.Context, id string) (WorkSession, error)
	// ListSessions returns the user's sessions ordered by start time
	// descending, paginated by the filter's limit and offset.
	ListSessions(ctx context.Context, userID string, filter SessionFilter) ([]WorkSession, error)
	// UserSessionStats aggregates a user's sessions.
	UserSessionStats(ctx context.Context, userID string) (SessionStats, error)
	// ProjectSessionStats aggregates all sessions linked to a project.
	ProjectSessionStats(ctx context.Context, projectID string) (SessionStats, error)
}

// ProjectRepository exposes CRUD operations for projects. All lookups are
// scoped to an organization so cross-tenant records are indistinguishable
// from missing ones.
type ProjectRepository interface {
	CreateProject(ctx context.Context, project Project) error
	GetProject(ctx context.Context, id, organizationID string) (Project, error)
	UpdateProject(ctx context.Context, project Project) error
	DeleteProject(ctx context.Context, id, organizationID string) error
	ListProjects(ctx context.Context, organizationID string) ([]Project, error)
}

// DirectoryRepository stores organizations, member profiles, and their
// credentials.
type DirectoryRepository interface {
	CreateOrganization(ctx context.Context, org Organization) error
	GetOrganizationBySubdomain(ctx context.Context, subdomain string) (Organization, error)
	CreateUserProfile(ctx context.Context, profile UserProfile, passwordHash string) error
	// CreateAccount inserts an organization and its first member atomically.
	// Nothing persists when either insert fails; conflicts surface as
	// ErrSubdomainConflict or ErrEmailConflict.
	CreateAccount(ctx context.Context, org Organization, profile UserProfile, passwordHash string) error
	GetUserProfile(ctx context.Context, id string) (UserProfile, error)
	GetUserCredentialsByEmail(ctx context.Context, email string) (UserCredentials, error)
	ListUserProfiles(ctx context.Context, organizationID string) ([]UserProfile, error)
}

// BreakRepository stores break history recorded against work sessions.
type BreakRepository interface {
	InsertBreak(ctx context.Context, brk Break) error
	ListBreaks(ctx context.Context, sessionID string) ([]Break, error)
}
