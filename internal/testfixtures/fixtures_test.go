package testfixtures

import "testing"

func TestNewSessionDefaults(t *testing.T) {
	session := NewSession()

	if session.UserID != "user-001" {
		t.Errorf("expected default user, got %q", session.UserID)
	}
	if session.EndTime != nil {
		t.Errorf("expected an open session, got end time %v", session.EndTime)
	}
	if !session.IsBillable {
		t.Error("expected sessions to default to billable")
	}
	if !session.CreatedAt.Equal(session.StartTime) {
		t.Errorf("expected created_at to match start, got %v and %v", session.CreatedAt, session.StartTime)
	}
}

func TestFixtureOptionsOverrideDefaults(t *testing.T) {
	org := NewOrganization()
	profile := NewProfile(ProfileInOrganization(org.ID), ProfileWithRole("admin"))
	project := NewProject(ProjectInOrganization(org.ID), ProjectCreatedBy(profile.ID))
	session := NewSession(SessionForUser(profile.ID), SessionForProject(project.ID))
	pause := NewBreak(BreakForSession(session.ID))

	if profile.OrganizationID != org.ID || project.OrganizationID != org.ID {
		t.Errorf("expected records scoped to %q, got %q and %q", org.ID, profile.OrganizationID, project.OrganizationID)
	}
	if profile.Role != "admin" {
		t.Errorf("expected admin role, got %q", profile.Role)
	}
	if project.CreatedBy != profile.ID {
		t.Errorf("expected creator %q, got %q", profile.ID, project.CreatedBy)
	}
	if session.UserID != profile.ID {
		t.Errorf("expected session user %q, got %q", profile.ID, session.UserID)
	}
	if session.ProjectID == nil || *session.ProjectID != project.ID {
		t.Errorf("expected session project %q, got %v", project.ID, session.ProjectID)
	}
	if pause.SessionID != session.ID {
		t.Errorf("expected break session %q, got %q", session.ID, pause.SessionID)
	}
}

func TestFixturesGenerateUniqueIDs(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		session := NewSession()
		if seen[session.ID] {
			t.Fatalf("duplicate session id %q", session.ID)
		}
		seen[session.ID] = true
	}
}
