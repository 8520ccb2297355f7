package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/timeclock/internal/persistence"
)

// SessionStore captures the persistence interactions needed by the timesheet
// service.
type SessionStore interface {
	InsertSession(ctx context.Context, session persistence.WorkSession) error
	FindOpenSession(ctx context.Context, userID string) (persistence.WorkSession, bool, error)
	CloseSession(ctx context.Context, sessionID string, endTime time.Time) (persistence.WorkSession, bool, error)
	GetSession(ctx context.Context, id string) (persistence.WorkSession, error)
	ListSessions(ctx context.Context, userID string, filter persistence.SessionFilter) ([]persistence.WorkSession, error)
}

// ProjectCatalog exposes the project lookups the timesheet service needs for
// linkage checks and session enrichment.
type ProjectCatalog interface {
	GetProject(ctx context.Context, id, organizationID string) (persistence.Project, error)
	ListProjects(ctx context.Context, organizationID string) ([]persistence.Project, error)
}

// BreakHistory reads break records attached to sessions.
type BreakHistory interface {
	ListBreaks(ctx context.Context, sessionID string) ([]persistence.Break, error)
}

// DefaultSessionPageSize is applied when a listing request carries no limit.
const DefaultSessionPageSize = 50

// TimesheetService enforces the work session lifecycle: at most one open
// session per user, project linkage within the caller's organization, and
// duration computation for closed and live sessions.
type TimesheetService struct {
	sessions    SessionStore
	projects    ProjectCatalog
	breaks      BreakHistory
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewTimesheetService wires dependencies for session lifecycle operations.
func NewTimesheetService(sessions SessionStore, projects ProjectCatalog, breaks BreakHistory, idGenerator func() string, now func() time.Time, logger *slog.Logger) *TimesheetService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &TimesheetService{
		sessions:    sessions,
		projects:    projects,
		breaks:      breaks,
		idGenerator: idGenerator,
		now:         now,
		logger:      defaultLogger(logger),
	}
}

func (s *TimesheetService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "TimesheetService", operation, attrs...)
}

// ClockIn opens a new work session for the caller. It fails with ErrConflict
// when an open session already exists and with ErrNotFound when the linked
// project is missing or belongs to another organization. The store's unique
// index backs the conflict check, so concurrent clock-ins cannot both
// succeed even if both pass the pre-check here.
func (s *TimesheetService) ClockIn(ctx context.Context, params ClockInParams) (session WorkSession, err error) {
	if s == nil || s.sessions == nil {
		return WorkSession{}, fmt.Errorf("timesheet service not configured")
	}
	principal := params.Principal
	input := params.Input

	logger := s.loggerWith(ctx, "ClockIn", "user_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "clock-in failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", session.ID).InfoContext(ctx, "session started")
	}()

	if input.ProjectID != nil {
		if s.projects == nil {
			return WorkSession{}, fmt.Errorf("project catalog not configured")
		}
		if _, err = s.projects.GetProject(ctx, *input.ProjectID, principal.OrganizationID); err != nil {
			if errors.Is(err, persistence.ErrNotFound) {
				err = ErrProjectNotFound
			}
			return WorkSession{}, err
		}
	}

	// Friendly pre-check; the insert below is the authoritative one.
	if _, found, checkErr := s.sessions.FindOpenSession(ctx, principal.UserID); checkErr != nil {
		err = checkErr
		return WorkSession{}, err
	} else if found {
		err = ErrActiveSessionExists
		return WorkSession{}, err
	}

	billable := true
	if input.IsBillable != nil {
		billable = *input.IsBillable
	}

	now := s.now()
	session = WorkSession{
		ID:         s.idGenerator(),
		UserID:     principal.UserID,
		ProjectID:  input.ProjectID,
		StartTime:  now,
		Notes:      input.Notes,
		IsBillable: billable,
		CreatedAt:  now,
	}

	if err = s.sessions.InsertSession(ctx, sessionToRecord(session)); err != nil {
		if errors.Is(err, persistence.ErrConflict) {
			err = ErrActiveSessionExists
		}
		return WorkSession{}, err
	}
	return session, nil
}

// ClockOut closes the caller's open session and computes its duration. It
// fails with ErrNotFound when no open session exists.
func (s *TimesheetService) ClockOut(ctx context.Context, principal Principal) (result ClockOutResult, err error) {
	if s == nil || s.sessions == nil {
		return ClockOutResult{}, fmt.Errorf("timesheet service not configured")
	}

	logger := s.loggerWith(ctx, "ClockOut", "user_id", principal.UserID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "clock-out failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("session_id", result.Session.ID, "duration_ms", result.Duration.Milliseconds).
			InfoContext(ctx, "session ended")
	}()

	open, found, err := s.sessions.FindOpenSession(ctx, principal.UserID)
	if err != nil {
		return ClockOutResult{}, err
	}
	if !found {
		err = ErrNoActiveSession
		return ClockOutResult{}, err
	}

	closed, ok, err := s.sessions.CloseSession(ctx, open.ID, s.now())
	if err != nil {
		return ClockOutResult{}, err
	}
	if !ok {
		// Lost a race with another clock-out of the same session.
		err = ErrNoActiveSession
		return ClockOutResult{}, err
	}
	if closed.EndTime == nil {
		err = fmt.Errorf("%w: closed session has no end time", ErrIntegrity)
		return ClockOutResult{}, err
	}

	duration, err := ComputeDuration(closed.StartTime, *closed.EndTime)
	if err != nil {
		return ClockOutResult{}, err
	}

	result = ClockOutResult{Session: sessionFromRecord(closed), Duration: duration}
	return result, nil
}

// CurrentSession returns the caller's open session annotated with a live
// duration, or an explicit inactive result when none exists. It never
// mutates state.
func (s *TimesheetService) CurrentSession(ctx context.Context, principal Principal) (CurrentSessionResult, error) {
	if s == nil || s.sessions == nil {
		return CurrentSessionResult{}, fmt.Errorf("timesheet service not configured")
	}

	open, found, err := s.sessions.FindOpenSession(ctx, principal.UserID)
	if err != nil {
		s.loggerWith(ctx, "CurrentSession", "user_id", principal.UserID).
			ErrorContext(ctx, "open session lookup failed", "error", err)
		return CurrentSessionResult{}, err
	}
	if !found {
		return CurrentSessionResult{Session: nil, IsActive: false}, nil
	}

	view, err := s.annotateSession(ctx, principal, open)
	if err != nil {
		return CurrentSessionResult{}, err
	}
	return CurrentSessionResult{Session: &view, IsActive: true}, nil
}

// ListSessions returns one page of the caller's sessions, newest first, each
// annotated with its duration and activity flag. It never mutates state.
func (s *TimesheetService) ListSessions(ctx context.Context, params ListSessionsParams) (SessionPage, error) {
	if s == nil || s.sessions == nil {
		return SessionPage{}, fmt.Errorf("timesheet service not configured")
	}
	principal := params.Principal
	filter := params.Filter

	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultSessionPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	records, err := s.sessions.ListSessions(ctx, principal.UserID, persistence.SessionFilter{
		ProjectID: filter.ProjectID,
		DateFrom:  filter.DateFrom,
		DateTo:    filter.DateTo,
		Limit:     limit,
		Offset:    offset,
	})
	if err != nil {
		s.loggerWith(ctx, "ListSessions", "user_id", principal.UserID).
			ErrorContext(ctx, "session listing failed", "error", err)
		return SessionPage{}, err
	}

	refs, err := s.projectRefs(ctx, principal, records)
	if err != nil {
		return SessionPage{}, err
	}

	now := s.now()
	views := make([]SessionView, 0, len(records))
	for _, record := range records {
		view, err := annotateWithRefs(record, refs, now)
		if err != nil {
			return SessionPage{}, err
		}
		views = append(views, view)
	}

	return SessionPage{
		Sessions: views,
		Total:    len(views),
		HasMore:  len(views) == limit,
	}, nil
}

// SessionBreaks returns the break history of a session owned by the caller.
// Sessions owned by other users are reported as missing.
func (s *TimesheetService) SessionBreaks(ctx context.Context, principal Principal, sessionID string) ([]Break, error) {
	if s == nil || s.sessions == nil || s.breaks == nil {
		return nil, fmt.Errorf("timesheet service not configured")
	}

	session, err := s.sessions.GetSession(ctx, sessionID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, ErrSessionNotFound
		}
		return nil, err
	}
	if session.UserID != principal.UserID {
		return nil, ErrSessionNotFound
	}

	records, err := s.breaks.ListBreaks(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	breaks := make([]Break, 0, len(records))
	for _, record := range records {
		breaks = append(breaks, breakFromRecord(record))
	}
	return breaks, nil
}

// annotateSession builds a view for a single session, resolving its project
// reference individually.
func (s *TimesheetService) annotateSession(ctx context.Context, principal Principal, record persistence.WorkSession) (SessionView, error) {
	refs := map[string]ProjectRef{}
	if record.ProjectID != nil && s.projects != nil {
		project, err := s.projects.GetProject(ctx, *record.ProjectID, principal.OrganizationID)
		if err == nil {
			refs[project.ID] = ProjectRef{ID: project.ID, Name: project.Name, Color: project.Color}
		} else if !errors.Is(err, persistence.ErrNotFound) {
			return SessionView{}, err
		}
	}
	return annotateWithRefs(record, refs, s.now())
}

// projectRefs loads the organization's projects once so listings avoid a
// lookup per session.
func (s *TimesheetService) projectRefs(ctx context.Context, principal Principal, records []persistence.WorkSession) (map[string]ProjectRef, error) {
	linked := false
	for _, record := range records {
		if record.ProjectID != nil {
			linked = true
			break
		}
	}
	if !linked || s.projects == nil {
		return nil, nil
	}

	projects, err := s.projects.ListProjects(ctx, principal.OrganizationID)
	if err != nil {
		return nil, err
	}
	refs := make(map[string]ProjectRef, len(projects))
	for _, project := range projects {
		refs[project.ID] = ProjectRef{ID: project.ID, Name: project.Name, Color: project.Color}
	}
	return refs, nil
}

func annotateWithRefs(record persistence.WorkSession, refs map[string]ProjectRef, now time.Time) (SessionView, error) {
	end := now
	active := record.EndTime == nil
	if !active {
		end = *record.EndTime
	}
	duration, err := ComputeDuration(record.StartTime, end)
	if err != nil {
		return SessionView{}, err
	}

	view := SessionView{
		WorkSession: sessionFromRecord(record),
		Duration:    duration,
		IsActive:    active,
	}
	if record.ProjectID != nil {
		if ref, ok := refs[*record.ProjectID]; ok {
			view.Project = &ref
		}
	}
	return view, nil
}
