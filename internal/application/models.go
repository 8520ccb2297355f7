package application

import "time"

// Principal represents the authenticated user invoking a service method.
type Principal struct {
	UserID         string
	OrganizationID string
	Role           string
}

// WorkSession represents a persisted work session.
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

// Open reports whether the session is still running.
func (s WorkSession) Open() bool {
	return s.EndTime == nil
}

// ProjectRef carries the minimal project fields attached to session views.
type ProjectRef struct {
	ID    string
	Name  string
	Color string
}

// SessionView is a work session annotated for display: its duration computed
// against the end time when closed or against the query time when open, the
// activity flag, and the linked project if any.
type SessionView struct {
	WorkSession
	Duration Duration
	IsActive bool
	Project  *ProjectRef
}

// ClockInInput captures caller provided clock-in fields.
type ClockInInput struct {
	ProjectID  *string
	Notes      *string
	IsBillable *bool
}

// ClockInParams wraps the data required to start a work session.
type ClockInParams struct {
	Principal Principal
	Input     ClockInInput
}

// ClockOutResult pairs the closed session with its computed duration.
type ClockOutResult struct {
	Session  WorkSession
	Duration Duration
}

// CurrentSessionResult describes the caller's open session, if any. A nil
// Session with IsActive false is the normal idle state, not a failure.
type CurrentSessionResult struct {
	Session  *SessionView
	IsActive bool
}

// ListSessionsFilter narrows session listings. Date bounds are inclusive and
// apply to the session start time.
type ListSessionsFilter struct {
	Limit     int
	Offset    int
	ProjectID *string
	DateFrom  *time.Time
	DateTo    *time.Time
}

// ListSessionsParams wraps the data required to list sessions.
type ListSessionsParams struct {
	Principal Principal
	Filter    ListSessionsFilter
}

// SessionPage is one page of annotated sessions. HasMore is a "more pages
// likely" hint equal to the page being full, not an exact remainder count.
type SessionPage struct {
	Sessions []SessionView
	Total    int
	HasMore  bool
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

// Project represents a billable unit of work scoped to an organization.
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

// ProjectInput captures caller provided project fields.
type ProjectInput struct {
	Name        string
	Description *string
	ClientName  *string
	HourlyRate  *float64
	BudgetHours *float64
	Status      string
	Color       string
}

// CreateProjectParams wraps the data required to create a project.
type CreateProjectParams struct {
	Principal Principal
	Input     ProjectInput
}

// UpdateProjectParams wraps the data required to update a project.
type UpdateProjectParams struct {
	Principal Principal
	ProjectID string
	Input     ProjectInput
}

// TrackedTimeStats aggregates tracked time for a project or a member.
type TrackedTimeStats struct {
	SessionCount int
	OpenSessions int
	TotalTime    Duration
	BillableTime Duration
}

// Member represents an organization member exposed by the member service.
type Member struct {
	ID             string
	OrganizationID string
	Email          string
	FullName       *string
	Role           string
	CreatedAt      time.Time
}

// SignupInput captures the fields required to provision an organization and
// its first (admin) user.
type SignupInput struct {
	FullName              string
	Email                 string
	Password              string
	OrganizationName      string
	OrganizationSubdomain string
}

// LoginInput captures login credentials.
type LoginInput struct {
	Email    string
	Password string
}

// Account pairs a member with their organization after signup or login.
type Account struct {
	Member         Member
	OrganizationID string
}
