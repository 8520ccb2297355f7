package application

import "github.com/example/timeclock/internal/persistence"

func sessionFromRecord(record persistence.WorkSession) WorkSession {
	return WorkSession{
		ID:         record.ID,
		UserID:     record.UserID,
		ProjectID:  record.ProjectID,
		StartTime:  record.StartTime,
		EndTime:    record.EndTime,
		Notes:      record.Notes,
		IsBillable: record.IsBillable,
		HourlyRate: record.HourlyRate,
		CreatedAt:  record.CreatedAt,
	}
}

func sessionToRecord(session WorkSession) persistence.WorkSession {
	return persistence.WorkSession{
		ID:         session.ID,
		UserID:     session.UserID,
		ProjectID:  session.ProjectID,
		StartTime:  session.StartTime,
		EndTime:    session.EndTime,
		Notes:      session.Notes,
		IsBillable: session.IsBillable,
		HourlyRate: session.HourlyRate,
		CreatedAt:  session.CreatedAt,
	}
}

func projectFromRecord(record persistence.Project) Project {
	return Project{
		ID:             record.ID,
		OrganizationID: record.OrganizationID,
		Name:           record.Name,
		Description:    record.Description,
		ClientName:     record.ClientName,
		HourlyRate:     record.HourlyRate,
		BudgetHours:    record.BudgetHours,
		Status:         record.Status,
		Color:          record.Color,
		CreatedBy:      record.CreatedBy,
		CreatedAt:      record.CreatedAt,
		UpdatedAt:      record.UpdatedAt,
	}
}

func memberFromRecord(record persistence.UserProfile) Member {
	return Member{
		ID:             record.ID,
		OrganizationID: record.OrganizationID,
		Email:          record.Email,
		FullName:       record.FullName,
		Role:           record.Role,
		CreatedAt:      record.CreatedAt,
	}
}

func breakFromRecord(record persistence.Break) Break {
	return Break{
		ID:        record.ID,
		SessionID: record.SessionID,
		BreakType: record.BreakType,
		StartTime: record.StartTime,
		EndTime:   record.EndTime,
		Notes:     record.Notes,
		CreatedAt: record.CreatedAt,
	}
}

func statsFromRecord(record persistence.SessionStats) TrackedTimeStats {
	return TrackedTimeStats{
		SessionCount: record.SessionCount,
		OpenSessions: record.OpenSessions,
		TotalTime:    DurationFromMillis(record.TotalMilliseconds),
		BillableTime: DurationFromMillis(record.BillableMilliseconds),
	}
}
