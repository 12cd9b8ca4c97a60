// Package peers ranks candidate study partners by overlapping free time and
// shared subjects.
package peers

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"unitime-backend/internal/core/clock"
	"unitime-backend/internal/core/freetime"
	"unitime-backend/internal/model"
)

// OverlapToleranceMinutes is the start-time tolerance used to call two free
// slots "overlapping". This is a coarse symmetric match on slot starts, not a
// true interval intersection.
const OverlapToleranceMinutes = 30

// Match score weights per overlap category.
const (
	slotWeight       = 10
	subjectWeight    = 15
	assignmentWeight = 20
)

// FindStudyPartners scores every other user against selfID and returns all of
// them sorted by match score descending. schedules maps each user ID to that
// user's activities; a missing entry is an empty schedule.
func FindStudyPartners(selfID string, users []model.User, selfSchedule []model.ScheduledActivity, schedules map[string][]model.ScheduledActivity, now time.Time) []model.PeerMatch {
	self := findUser(users, selfID)
	if self == nil {
		return nil
	}
	selfFree := freetime.Detect(selfSchedule, now)

	var matches []model.PeerMatch
	for _, u := range users {
		if u.UserID == selfID {
			continue
		}
		theirSchedule := schedules[u.UserID]
		theirFree := freetime.Detect(theirSchedule, now)

		overlaps := overlappingSlots(selfFree, theirFree)
		subjects := subjectOverlap(selfSchedule, theirSchedule)
		// Assignment overlap is a stated placeholder: no shared-assignment
		// data source exists yet, so the list stays empty while its score
		// weight is kept.
		var assignments []string

		score := len(overlaps)*slotWeight + len(subjects)*subjectWeight + len(assignments)*assignmentWeight

		matches = append(matches, model.PeerMatch{
			UserID:             u.UserID,
			UserName:           displayName(u),
			UserEmail:          u.Email,
			OverlappingSlots:   overlaps,
			SubjectOverlap:     subjects,
			AssignmentOverlap:  assignments,
			MatchScore:         score,
			AvailableNow:       AvailableNow(theirFree, now),
			CollaborationModes: suggestModes(subjects, assignments),
		})
	}

	sort.SliceStable(matches, func(i, j int) bool { return matches[i].MatchScore > matches[j].MatchScore })
	return matches
}

// AvailableNow reports whether any of the given slots contains now.
func AvailableNow(slots []model.FreeTimeSlot, now time.Time) bool {
	nowMinutes := clock.Minutes(now.Hour()*60 + now.Minute())
	for _, slot := range slots {
		start, err := clock.Parse(slot.StartTime)
		if err != nil {
			continue
		}
		end := start + clock.Minutes(slot.DurationMinutes)
		if nowMinutes >= start && nowMinutes <= end {
			return true
		}
	}
	return false
}

func overlappingSlots(mine, theirs []model.FreeTimeSlot) []model.OverlapSlot {
	var out []model.OverlapSlot
	for _, a := range mine {
		aStart, err := clock.Parse(a.StartTime)
		if err != nil {
			continue
		}
		for _, b := range theirs {
			bStart, err := clock.Parse(b.StartTime)
			if err != nil {
				continue
			}
			diff := int(aStart - bStart)
			if diff < 0 {
				diff = -diff
			}
			if diff > OverlapToleranceMinutes {
				continue
			}
			out = append(out, model.OverlapSlot{
				StartTime:       a.StartTime,
				DurationMinutes: min(a.DurationMinutes, b.DurationMinutes),
				CurrentContext:  a.Context,
				PartnerContext:  b.Context,
			})
		}
	}
	return out
}

func subjectOverlap(mine, theirs []model.ScheduledActivity) []string {
	theirSubjects := make(map[string]bool, len(theirs))
	for _, a := range theirs {
		theirSubjects[a.Subject] = true
	}
	seen := make(map[string]bool)
	var out []string
	for _, a := range mine {
		if theirSubjects[a.Subject] && !seen[a.Subject] {
			seen[a.Subject] = true
			out = append(out, a.Subject)
		}
	}
	return out
}

func suggestModes(subjects, assignments []string) []model.CollaborationMode {
	var modes []model.CollaborationMode
	if len(subjects) > 0 {
		modes = append(modes,
			model.CollaborationMode{
				Mode:        "group_revision",
				Description: fmt.Sprintf("Group revision for %s", strings.Join(subjects, ", ")),
				Priority:    "high",
			},
			model.CollaborationMode{
				Mode:        "doubt_solving",
				Description: "Doubt-solving session",
				Priority:    "medium",
			})
	}
	if len(assignments) > 0 {
		modes = append(modes,
			model.CollaborationMode{
				Mode:        "pair_programming",
				Description: "Pair programming session",
				Priority:    "medium",
			},
			model.CollaborationMode{
				Mode:        "brainstorming",
				Description: "Brainstorming discussion",
				Priority:    "medium",
			})
	}
	return modes
}

func findUser(users []model.User, id string) *model.User {
	for i := range users {
		if users[i].UserID == id {
			return &users[i]
		}
	}
	return nil
}

func displayName(u model.User) string {
	if u.DisplayName != nil && *u.DisplayName != "" {
		return *u.DisplayName
	}
	return u.Email
}
