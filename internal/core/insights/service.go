// Package insights derives dashboard content from the stored records: free
// time, ranked academic gaps, slot-to-gap suggestions, and study partner
// matches. Every call recomputes from scratch; nothing is cached.
package insights

import (
	"context"
	"time"

	"unitime-backend/internal/core/freetime"
	"unitime-backend/internal/core/gaps"
	"unitime-backend/internal/core/peers"
	"unitime-backend/internal/core/timetable"
	"unitime-backend/internal/model"
	"unitime-backend/internal/store"
)

// Service computes derived views over the store.
type Service struct {
	store store.Store
}

// NewService creates a new insights service.
func NewService(st store.Store) *Service {
	return &Service{store: st}
}

// FreeTime detects the free slots in a user's schedule for the weekday of at.
func (s *Service) FreeTime(ctx context.Context, userID string, at time.Time) ([]model.FreeTimeSlot, error) {
	if userID == "" {
		return nil, timetable.NewValidationError("userID", "user ID is required")
	}
	acts, err := s.store.Activities().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return freetime.Detect(deref(acts), at), nil
}

// CurrentFreeTime returns the slot containing at, or nil.
func (s *Service) CurrentFreeTime(ctx context.Context, userID string, at time.Time) (*model.FreeTimeSlot, error) {
	if userID == "" {
		return nil, timetable.NewValidationError("userID", "user ID is required")
	}
	acts, err := s.store.Activities().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return freetime.Current(deref(acts), at), nil
}

// AcademicGaps produces the ranked attention list for a user. Missing record
// categories are treated as empty, never as errors.
func (s *Service) AcademicGaps(ctx context.Context, userID string, at time.Time) ([]model.AcademicGap, error) {
	if userID == "" {
		return nil, timetable.NewValidationError("userID", "user ID is required")
	}
	assignments, err := s.store.Assignments().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	scores, err := s.store.Scores().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return gaps.Analyze(deref(assignments), deref(scores), at), nil
}

// SuggestionForSlot joins one free-time slot to its best-matching gap.
func (s *Service) SuggestionForSlot(ctx context.Context, userID string, slot model.FreeTimeSlot, at time.Time) (*model.AcademicGap, error) {
	gs, err := s.AcademicGaps(ctx, userID, at)
	if err != nil {
		return nil, err
	}
	return gaps.MapSlot(slot, gs), nil
}

// StudyPartners ranks every other user as a study partner candidate.
func (s *Service) StudyPartners(ctx context.Context, userID string, at time.Time) ([]model.PeerMatch, error) {
	if userID == "" {
		return nil, timetable.NewValidationError("userID", "user ID is required")
	}
	users, err := s.store.Users().List(ctx)
	if err != nil {
		return nil, err
	}
	selfActs, err := s.store.Activities().List(ctx, userID)
	if err != nil {
		return nil, err
	}
	schedules := make(map[string][]model.ScheduledActivity, len(users))
	for _, u := range users {
		if u.UserID == userID {
			continue
		}
		acts, err := s.store.Activities().List(ctx, u.UserID)
		if err != nil {
			return nil, err
		}
		schedules[u.UserID] = deref(acts)
	}
	return peers.FindStudyPartners(userID, derefUsers(users), deref(selfActs), schedules, at), nil
}

func deref[T any](in []*T) []T {
	out := make([]T, 0, len(in))
	for _, p := range in {
		out = append(out, *p)
	}
	return out
}

func derefUsers(in []*model.User) []model.User { return deref(in) }
