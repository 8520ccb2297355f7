package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/timeclock/internal/persistence"
)

var (
	organizationCounter uint64
	profileCounter      uint64
	projectCounter      uint64
	sessionCounter      uint64
	breakCounter        uint64
)

var referenceTime = time.Date(2024, time.January, 2, 15, 4, 5, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// OrganizationOption configures the generated organization fixture.
type OrganizationOption func(*persistence.Organization)

// NewOrganization returns a deterministic organization record with optional
// overrides.
func NewOrganization(opts ...OrganizationOption) persistence.Organization {
	idx := atomic.AddUint64(&organizationCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	subdomain := fmt.Sprintf("org-%03d", idx)
	org := persistence.Organization{
		ID:        fmt.Sprintf("org-%03d", idx),
		Name:      fmt.Sprintf("Organization %03d", idx),
		Subdomain: &subdomain,
		CreatedAt: created,
		UpdatedAt: created,
	}
	for _, opt := range opts {
		opt(&org)
	}
	return org
}

// ProfileOption configures the generated user profile fixture.
type ProfileOption func(*persistence.UserProfile)

// ProfileInOrganization assigns the profile to the given organization.
func ProfileInOrganization(organizationID string) ProfileOption {
	return func(p *persistence.UserProfile) {
		p.OrganizationID = organizationID
	}
}

// ProfileWithRole overrides the profile role.
func ProfileWithRole(role string) ProfileOption {
	return func(p *persistence.UserProfile) {
		p.Role = role
	}
}

// NewProfile returns a deterministic user profile with optional overrides.
func NewProfile(opts ...ProfileOption) persistence.UserProfile {
	idx := atomic.AddUint64(&profileCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	name := fmt.Sprintf("User %03d", idx)
	profile := persistence.UserProfile{
		ID:             fmt.Sprintf("user-%03d", idx),
		OrganizationID: "org-001",
		Email:          fmt.Sprintf("user-%03d@example.com", idx),
		FullName:       &name,
		Role:           "employee",
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&profile)
	}
	return profile
}

// ProjectOption configures the generated project fixture.
type ProjectOption func(*persistence.Project)

// ProjectInOrganization assigns the project to the given organization.
func ProjectInOrganization(organizationID string) ProjectOption {
	return func(p *persistence.Project) {
		p.OrganizationID = organizationID
	}
}

// ProjectCreatedBy overrides the creator id.
func ProjectCreatedBy(userID string) ProjectOption {
	return func(p *persistence.Project) {
		p.CreatedBy = userID
	}
}

// NewProject returns a deterministic project record with optional overrides.
func NewProject(opts ...ProjectOption) persistence.Project {
	idx := atomic.AddUint64(&projectCounter, 1)
	created := referenceTime.Add(time.Duration(idx) * time.Minute)
	project := persistence.Project{
		ID:             fmt.Sprintf("project-%03d", idx),
		OrganizationID: "org-001",
		Name:           fmt.Sprintf("Project %03d", idx),
		Status:         "active",
		Color:          "#3B82F6",
		CreatedBy:      "user-001",
		CreatedAt:      created,
		UpdatedAt:      created,
	}
	for _, opt := range opts {
		opt(&project)
	}
	return project
}

// SessionOption configures the generated work session fixture.
type SessionOption func(*persistence.WorkSession)

// SessionForUser assigns the session to the given user.
func SessionForUser(userID string) SessionOption {
	return func(s *persistence.WorkSession) {
		s.UserID = userID
	}
}

// SessionForProject links the session to the given project.
func SessionForProject(projectID string) SessionOption {
	return func(s *persistence.WorkSession) {
		s.ProjectID = &projectID
	}
}

// SessionStartingAt overrides the session start time.
func SessionStartingAt(start time.Time) SessionOption {
	return func(s *persistence.WorkSession) {
		s.StartTime = start
	}
}

// SessionClosedAt marks the session as closed at the given time.
func SessionClosedAt(end time.Time) SessionOption {
	return func(s *persistence.WorkSession) {
		s.EndTime = &end
	}
}

// NewSession returns a deterministic open work session with optional
// overrides.
func NewSession(opts ...SessionOption) persistence.WorkSession {
	idx := atomic.AddUint64(&sessionCounter, 1)
	started := referenceTime.Add(time.Duration(idx) * time.Hour)
	session := persistence.WorkSession{
		ID:         fmt.Sprintf("session-%03d", idx),
		UserID:     "user-001",
		StartTime:  started,
		IsBillable: true,
		CreatedAt:  started,
	}
	for _, opt := range opts {
		opt(&session)
	}
	return session
}

// BreakOption configures the generated break fixture.
type BreakOption func(*persistence.Break)

// BreakForSession assigns the break to the given session.
func BreakForSession(sessionID string) BreakOption {
	return func(b *persistence.Break) {
		b.SessionID = sessionID
	}
}

// NewBreak returns a deterministic break record with optional overrides.
func NewBreak(opts ...BreakOption) persistence.Break {
	idx := atomic.AddUint64(&breakCounter, 1)
	started := referenceTime.Add(time.Duration(idx) * time.Hour)
	pause := persistence.Break{
		ID:        fmt.Sprintf("break-%03d", idx),
		SessionID: "session-001",
		BreakType: "break",
		StartTime: started,
		CreatedAt: started,
	}
	for _, opt := range opts {
		opt(&pause)
	}
	return pause
}
