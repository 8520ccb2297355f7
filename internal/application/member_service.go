package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/example/timeclock/internal/persistence"
)

// MemberDirectory captures the persistence interactions needed by the member
// service.
type MemberDirectory interface {
	GetUserProfile(ctx context.Context, id string) (persistence.UserProfile, error)
	ListUserProfiles(ctx context.Context, organizationID string) ([]persistence.UserProfile, error)
	UserSessionStats(ctx context.Context, userID string) (persistence.SessionStats, error)
}

// MemberService exposes organization member listings and per-member tracked
// time statistics. Members of other organizations are indistinguishable from
// missing ones.
type MemberService struct {
	directory MemberDirectory
	logger    *slog.Logger
}

// NewMemberService wires dependencies for member operations.
func NewMemberService(directory MemberDirectory, logger *slog.Logger) *MemberService {
	return &MemberService{directory: directory, logger: defaultLogger(logger)}
}

// ListMembers returns the caller's organization members, newest first.
func (s *MemberService) ListMembers(ctx context.Context, principal Principal) ([]Member, error) {
	if s == nil || s.directory == nil {
		return nil, fmt.Errorf("member service not configured")
	}
	records, err := s.directory.ListUserProfiles(ctx, principal.OrganizationID)
	if err != nil {
		serviceLogger(ctx, s.logger, "MemberService", "ListMembers").
			ErrorContext(ctx, "member listing failed", "error", err)
		return nil, err
	}
	members := make([]Member, 0, len(records))
	for _, record := range records {
		members = append(members, memberFromRecord(record))
	}
	return members, nil
}

// GetMember fetches a member of the caller's organization.
func (s *MemberService) GetMember(ctx context.Context, principal Principal, memberID string) (Member, error) {
	if s == nil || s.directory == nil {
		return Member{}, fmt.Errorf("member service not configured")
	}
	record, err := s.memberInOrganization(ctx, principal, memberID)
	if err != nil {
		return Member{}, err
	}
	return memberFromRecord(record), nil
}

// MemberStats aggregates a member's tracked time.
func (s *MemberService) MemberStats(ctx context.Context, principal Principal, memberID string) (TrackedTimeStats, error) {
	if s == nil || s.directory == nil {
		return TrackedTimeStats{}, fmt.Errorf("member service not configured")
	}
	if _, err := s.memberInOrganization(ctx, principal, memberID); err != nil {
		return TrackedTimeStats{}, err
	}
	record, err := s.directory.UserSessionStats(ctx, memberID)
	if err != nil {
		return TrackedTimeStats{}, err
	}
	return statsFromRecord(record), nil
}

func (s *MemberService) memberInOrganization(ctx context.Context, principal Principal, memberID string) (persistence.UserProfile, error) {
	record, err := s.directory.GetUserProfile(ctx, memberID)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return persistence.UserProfile{}, ErrMemberNotFound
		}
		return persistence.UserProfile{}, err
	}
	if record.OrganizationID != principal.OrganizationID {
		return persistence.UserProfile{}, ErrMemberNotFound
	}
	return record, nil
}
