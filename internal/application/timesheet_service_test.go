package application

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/example/timeclock/internal/persistence"
)

type sessionStoreStub struct {
	open      *persistence.WorkSession
	findErr   error
	insertErr error
	inserted  []persistence.WorkSession

	closed    persistence.WorkSession
	closedOK  bool
	closeErr  error
	closedIDs []string

	session persistence.WorkSession
	getErr  error

	list    []persistence.WorkSession
	listErr error
	filter  persistence.SessionFilter
}

func (s *sessionStoreStub) InsertSession(ctx context.Context, session persistence.WorkSession) error {
	if s.insertErr != nil {
		return s.insertErr
	}
	s.inserted = append(s.inserted, session)
	return nil
}

func (s *sessionStoreStub) FindOpenSession(ctx context.Context, userID string) (persistence.WorkSession, bool, error) {
	if s.findErr != nil {
		return persistence.WorkSession{}, false, s.findErr
	}
	if s.open == nil {
		return persistence.WorkSession{}, false, nil
	}
	return *s.open, true, nil
}

func (s *sessionStoreStub) CloseSession(ctx context.Context, sessionID string, endTime time.Time) (persistence.WorkSession, bool, error) {
	if s.closeErr != nil {
		return persistence.WorkSession{}, false, s.closeErr
	}
	s.closedIDs = append(s.closedIDs, sessionID)
	if !s.closedOK {
		return persistence.WorkSession{}, false, nil
	}
	closed := s.closed
	if closed.EndTime == nil {
		closed.EndTime = &endTime
	}
	return closed, true, nil
}

func (s *sessionStoreStub) GetSession(ctx context.Context, id string) (persistence.WorkSession, error) {
	if s.getErr != nil {
		return persistence.WorkSession{}, s.getErr
	}
	return s.session, nil
}

func (s *sessionStoreStub) ListSessions(ctx context.Context, userID string, filter persistence.SessionFilter) ([]persistence.WorkSession, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	s.filter = filter
	out := make([]persistence.WorkSession, len(s.list))
	copy(out, s.list)
	return out, nil
}

type projectCatalogStub struct {
	project persistence.Project
	getErr  error

	list    []persistence.Project
	listErr error
}

func (p *projectCatalogStub) GetProject(ctx context.Context, id, organizationID string) (persistence.Project, error) {
	if p.getErr != nil {
		return persistence.Project{}, p.getErr
	}
	if p.project.ID == "" || p.project.ID != id || p.project.OrganizationID != organizationID {
		return persistence.Project{}, persistence.ErrNotFound
	}
	return p.project, nil
}

func (p *projectCatalogStub) ListProjects(ctx context.Context, organizationID string) ([]persistence.Project, error) {
	if p.listErr != nil {
		return nil, p.listErr
	}
	out := make([]persistence.Project, len(p.list))
	copy(out, p.list)
	return out, nil
}

type breakHistoryStub struct {
	breaks  []persistence.Break
	listErr error
}

func (b *breakHistoryStub) ListBreaks(ctx context.Context, sessionID string) ([]persistence.Break, error) {
	if b.listErr != nil {
		return nil, b.listErr
	}
	out := make([]persistence.Break, len(b.breaks))
	copy(out, b.breaks)
	return out, nil
}

func newTimesheetFixture(store *sessionStoreStub, projects *projectCatalogStub, now time.Time) *TimesheetService {
	counter := 0
	return NewTimesheetService(store, projects, &breakHistoryStub{}, func() string {
		counter++
		return fmt.Sprintf("session-%d", counter)
	}, func() time.Time { return now }, nil)
}

func TestTimesheetService_ClockIn(t *testing.T) {
	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	principal := Principal{UserID: "user-1", OrganizationID: "org-1"}

	t.Run("starts a session with defaults", func(t *testing.T) {
		store := &sessionStoreStub{}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		session, err := svc.ClockIn(context.Background(), ClockInParams{Principal: principal})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if session.UserID != "user-1" {
			t.Fatalf("expected session owner user-1, got %q", session.UserID)
		}
		if !session.StartTime.Equal(now) {
			t.Fatalf("expected start time %v, got %v", now, session.StartTime)
		}
		if session.EndTime != nil {
			t.Fatalf("expected open session, got end time %v", session.EndTime)
		}
		if !session.IsBillable {
			t.Fatal("expected sessions to default to billable")
		}
		if len(store.inserted) != 1 {
			t.Fatalf("expected one insert, got %d", len(store.inserted))
		}
	})

	t.Run("rejects a second open session", func(t *testing.T) {
		open := persistence.WorkSession{ID: "session-0", UserID: "user-1", StartTime: now.Add(-time.Hour)}
		store := &sessionStoreStub{open: &open}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		_, err := svc.ClockIn(context.Background(), ClockInParams{Principal: principal})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if len(store.inserted) != 0 {
			t.Fatalf("expected no insert, got %d", len(store.inserted))
		}
	})

	t.Run("maps a losing race to a conflict", func(t *testing.T) {
		store := &sessionStoreStub{insertErr: persistence.ErrConflict}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		_, err := svc.ClockIn(context.Background(), ClockInParams{Principal: principal})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("links an owned project", func(t *testing.T) {
		store := &sessionStoreStub{}
		projects := &projectCatalogStub{project: persistence.Project{ID: "project-1", OrganizationID: "org-1", Name: "Website"}}
		svc := newTimesheetFixture(store, projects, now)

		projectID := "project-1"
		session, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: principal,
			Input:     ClockInInput{ProjectID: &projectID},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if session.ProjectID == nil || *session.ProjectID != "project-1" {
			t.Fatalf("expected project-1 linkage, got %v", session.ProjectID)
		}
	})

	t.Run("rejects a project from another organization", func(t *testing.T) {
		store := &sessionStoreStub{}
		projects := &projectCatalogStub{project: persistence.Project{ID: "project-1", OrganizationID: "org-2"}}
		svc := newTimesheetFixture(store, projects, now)

		projectID := "project-1"
		_, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: principal,
			Input:     ClockInInput{ProjectID: &projectID},
		})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if len(store.inserted) != 0 {
			t.Fatalf("expected no insert, got %d", len(store.inserted))
		}
	})

	t.Run("honors an explicit non-billable flag", func(t *testing.T) {
		store := &sessionStoreStub{}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		billable := false
		session, err := svc.ClockIn(context.Background(), ClockInParams{
			Principal: principal,
			Input:     ClockInInput{IsBillable: &billable},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if session.IsBillable {
			t.Fatal("expected non-billable session")
		}
	})
}

func TestTimesheetService_ClockOut(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	now := start.Add(time.Hour + 23*time.Minute + 45*time.Second)
	principal := Principal{UserID: "user-1", OrganizationID: "org-1"}

	t.Run("closes the open session and computes its duration", func(t *testing.T) {
		open := persistence.WorkSession{ID: "session-1", UserID: "user-1", StartTime: start}
		store := &sessionStoreStub{
			open:     &open,
			closedOK: true,
			closed:   open,
		}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		result, err := svc.ClockOut(context.Background(), principal)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(store.closedIDs) != 1 || store.closedIDs[0] != "session-1" {
			t.Fatalf("expected session-1 to be closed, got %v", store.closedIDs)
		}
		if result.Duration.Milliseconds != 5_025_000 {
			t.Fatalf("expected 5025000 milliseconds, got %d", result.Duration.Milliseconds)
		}
		if result.Duration.Formatted != "1h 23m" {
			t.Fatalf("expected 1h 23m, got %q", result.Duration.Formatted)
		}
		if result.Duration.FormattedWithSeconds != "01:23:45" {
			t.Fatalf("expected 01:23:45, got %q", result.Duration.FormattedWithSeconds)
		}
		if result.Session.EndTime == nil || !result.Session.EndTime.Equal(now) {
			t.Fatalf("expected end time %v, got %v", now, result.Session.EndTime)
		}
	})

	t.Run("fails without an open session", func(t *testing.T) {
		store := &sessionStoreStub{}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		_, err := svc.ClockOut(context.Background(), principal)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
		if len(store.closedIDs) != 0 {
			t.Fatalf("expected no close attempts, got %v", store.closedIDs)
		}
	})

	t.Run("reports a lost close race as missing", func(t *testing.T) {
		open := persistence.WorkSession{ID: "session-1", UserID: "user-1", StartTime: start}
		store := &sessionStoreStub{open: &open, closedOK: false}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		_, err := svc.ClockOut(context.Background(), principal)
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestTimesheetService_CurrentSession(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	now := start.Add(30 * time.Minute)
	principal := Principal{UserID: "user-1", OrganizationID: "org-1"}

	t.Run("idle users are reported without error", func(t *testing.T) {
		svc := newTimesheetFixture(&sessionStoreStub{}, &projectCatalogStub{}, now)

		result, err := svc.CurrentSession(context.Background(), principal)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.IsActive || result.Session != nil {
			t.Fatalf("expected inactive result, got %+v", result)
		}
	})

	t.Run("annotates the open session with a live duration", func(t *testing.T) {
		projectID := "project-1"
		open := persistence.WorkSession{ID: "session-1", UserID: "user-1", ProjectID: &projectID, StartTime: start}
		projects := &projectCatalogStub{project: persistence.Project{ID: "project-1", OrganizationID: "org-1", Name: "Website", Color: "#3B82F6"}}
		svc := newTimesheetFixture(&sessionStoreStub{open: &open}, projects, now)

		result, err := svc.CurrentSession(context.Background(), principal)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if !result.IsActive || result.Session == nil {
			t.Fatalf("expected active result, got %+v", result)
		}
		if result.Session.Duration.Milliseconds != 30*60*1000 {
			t.Fatalf("expected live duration of 30 minutes, got %d ms", result.Session.Duration.Milliseconds)
		}
		if result.Session.Project == nil || result.Session.Project.Name != "Website" {
			t.Fatalf("expected project annotation, got %+v", result.Session.Project)
		}
	})

	t.Run("tolerates a vanished project reference", func(t *testing.T) {
		projectID := "project-ghost"
		open := persistence.WorkSession{ID: "session-1", UserID: "user-1", ProjectID: &projectID, StartTime: start}
		svc := newTimesheetFixture(&sessionStoreStub{open: &open}, &projectCatalogStub{}, now)

		result, err := svc.CurrentSession(context.Background(), principal)
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if result.Session == nil || result.Session.Project != nil {
			t.Fatalf("expected session without project annotation, got %+v", result.Session)
		}
	})
}

func TestTimesheetService_ListSessions(t *testing.T) {
	start := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	now := start.Add(8 * time.Hour)
	principal := Principal{UserID: "user-1", OrganizationID: "org-1"}

	closedEnd := start.Add(2 * time.Hour)
	closed := persistence.WorkSession{ID: "session-1", UserID: "user-1", StartTime: start, EndTime: &closedEnd}
	open := persistence.WorkSession{ID: "session-2", UserID: "user-1", StartTime: start.Add(3 * time.Hour)}

	t.Run("annotates each session", func(t *testing.T) {
		store := &sessionStoreStub{list: []persistence.WorkSession{open, closed}}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		page, err := svc.ListSessions(context.Background(), ListSessionsParams{Principal: principal})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if page.Total != 2 {
			t.Fatalf("expected total 2, got %d", page.Total)
		}
		if !page.Sessions[0].IsActive {
			t.Fatal("expected first session to be active")
		}
		if page.Sessions[0].Duration.Milliseconds != 5*3_600_000 {
			t.Fatalf("expected live duration of 5 hours, got %d ms", page.Sessions[0].Duration.Milliseconds)
		}
		if page.Sessions[1].IsActive {
			t.Fatal("expected second session to be closed")
		}
		if page.Sessions[1].Duration.Milliseconds != 2*3_600_000 {
			t.Fatalf("expected closed duration of 2 hours, got %d ms", page.Sessions[1].Duration.Milliseconds)
		}
	})

	t.Run("applies the default page size", func(t *testing.T) {
		store := &sessionStoreStub{}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		if _, err := svc.ListSessions(context.Background(), ListSessionsParams{Principal: principal}); err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if store.filter.Limit != DefaultSessionPageSize {
			t.Fatalf("expected limit %d, got %d", DefaultSessionPageSize, store.filter.Limit)
		}
	})

	t.Run("signals further pages when the page is full", func(t *testing.T) {
		store := &sessionStoreStub{list: []persistence.WorkSession{open, closed}}
		svc := newTimesheetFixture(store, &projectCatalogStub{}, now)

		page, err := svc.ListSessions(context.Background(), ListSessionsParams{
			Principal: principal,
			Filter:    ListSessionsFilter{Limit: 2},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if !page.HasMore {
			t.Fatal("expected HasMore for a full page")
		}

		page, err = svc.ListSessions(context.Background(), ListSessionsParams{
			Principal: principal,
			Filter:    ListSessionsFilter{Limit: 3},
		})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if page.HasMore {
			t.Fatal("expected HasMore to be false for a partial page")
		}
	})

	t.Run("resolves project references in bulk", func(t *testing.T) {
		projectID := "project-1"
		linked := open
		linked.ProjectID = &projectID
		store := &sessionStoreStub{list: []persistence.WorkSession{linked}}
		projects := &projectCatalogStub{list: []persistence.Project{{ID: "project-1", OrganizationID: "org-1", Name: "Website", Color: "#FF5733"}}}
		svc := newTimesheetFixture(store, projects, now)

		page, err := svc.ListSessions(context.Background(), ListSessionsParams{Principal: principal})
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if page.Sessions[0].Project == nil || page.Sessions[0].Project.Color != "#FF5733" {
			t.Fatalf("expected project annotation, got %+v", page.Sessions[0].Project)
		}
	})
}

func TestTimesheetService_SessionBreaks(t *testing.T) {
	now := time.Date(2024, time.March, 14, 9, 0, 0, 0, time.UTC)
	principal := Principal{UserID: "user-1", OrganizationID: "org-1"}

	t.Run("lists breaks for an owned session", func(t *testing.T) {
		store := &sessionStoreStub{session: persistence.WorkSession{ID: "session-1", UserID: "user-1", StartTime: now}}
		breaks := &breakHistoryStub{breaks: []persistence.Break{{ID: "break-1", SessionID: "session-1", BreakType: "lunch", StartTime: now}}}
		svc := NewTimesheetService(store, &projectCatalogStub{}, breaks, nil, func() time.Time { return now }, nil)

		records, err := svc.SessionBreaks(context.Background(), principal, "session-1")
		if err != nil {
			t.Fatalf("expected success, got %v", err)
		}
		if len(records) != 1 || records[0].BreakType != "lunch" {
			t.Fatalf("expected one lunch break, got %+v", records)
		}
	})

	t.Run("hides sessions owned by other users", func(t *testing.T) {
		store := &sessionStoreStub{session: persistence.WorkSession{ID: "session-1", UserID: "user-2", StartTime: now}}
		svc := NewTimesheetService(store, &projectCatalogStub{}, &breakHistoryStub{}, nil, func() time.Time { return now }, nil)

		_, err := svc.SessionBreaks(context.Background(), principal, "session-1")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("reports missing sessions", func(t *testing.T) {
		store := &sessionStoreStub{getErr: persistence.ErrNotFound}
		svc := NewTimesheetService(store, &projectCatalogStub{}, &breakHistoryStub{}, nil, func() time.Time { return now }, nil)

		_, err := svc.SessionBreaks(context.Background(), principal, "session-missing")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})
}
