package persistence

import "time"

// Organization is the tenant boundary. Users and projects belong to exactly
// one organization.
type Organization struct {
	ID        string
	Name      string
	Subdomain *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// UserProfile represents an organization member.
type UserProfile struct {
	ID             string
	OrganizationID string
	Email          string
	FullName       *string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// UserCredentials pairs a profile with its stored password hash.
type UserCredentials struct {
	Profile      UserProfile
	PasswordHash string
}

// Project is a billable unit of work scoped to an organization.
type Project struct {
	ID             string
	OrganizationID string
	Name           string
	Description    *string
	ClientName     *string
	HourlyRate     *float64
	BudgetHours    *float64
	Status         string
	Color          string
	CreatedBy      string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// WorkSession is one continuous period of tracked work. A nil EndTime means
// the session is still open.
type WorkSession struct {
	ID         string
	UserID     string
	ProjectID  *string
	StartTime  time.Time
	EndTime    *time.Time
	Notes      *string
	IsBillable bool
	HourlyRate *float64
	CreatedAt  time.Time
}

// Break records a pause taken during a work session.
type Break struct {
	ID        string
	SessionID string
	BreakType string
	StartTime time.Time
	EndTime   *time.Time
	Notes     *string
	CreatedAt time.Time
}

// SessionFilter narrows work session listings. Date bounds are inclusive and
// apply to StartTime.
type SessionFilter struct {
	ProjectID *string
	DateFrom  *time.Time
	DateTo    *time.Time
	Limit     int
	Offset    int
}

// SessionStats aggregates tracked time over a user's or project's sessions.
// Open sessions contribute to SessionCount but not to the duration totals.
type SessionStats struct {
	SessionCount         int
	OpenSessions         int
	TotalMilliseconds    int64
	BillableMilliseconds int64
}
