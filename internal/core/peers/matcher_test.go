package peers

import (
	"testing"
	"time"

	"unitime-backend/internal/model"
)

var aMonday = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func user(id string) model.User {
	return model.User{UserID: id, Email: id + "@uni.test"}
}

func sched(subjects ...[2]string) []model.ScheduledActivity {
	var out []model.ScheduledActivity
	for _, s := range subjects {
		out = append(out, model.ScheduledActivity{Day: "Monday", Subject: s[0], StartTime: s[1]})
	}
	return out
}

func TestFindStudyPartnersSharedSubjectAndSlot(t *testing.T) {
	// Both schedules leave a free gap starting 2:00 PM-ish and share Math.
	mine := sched([2]string{"Math", "1:00 PM"}, [2]string{"History", "3:00 PM"})
	theirs := sched([2]string{"Math", "1:15 PM"}, [2]string{"Biology", "3:30 PM"})

	users := []model.User{user("me"), user("them")}
	matches := FindStudyPartners("me", users, mine, map[string][]model.ScheduledActivity{"them": theirs}, aMonday)
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	m := matches[0]
	if m.UserID != "them" {
		t.Fatalf("unexpected match %+v", m)
	}
	if len(m.SubjectOverlap) != 1 || m.SubjectOverlap[0] != "Math" {
		t.Errorf("subjectOverlap = %v, want [Math]", m.SubjectOverlap)
	}
	// My gap starts 2:00 PM, theirs 2:15 PM: within the 30-minute tolerance.
	if len(m.OverlappingSlots) != 1 {
		t.Errorf("overlappingSlots = %d, want 1", len(m.OverlappingSlots))
	}
	if m.MatchScore < 25 {
		t.Errorf("matchScore = %d, want >= 25", m.MatchScore)
	}
	if len(m.CollaborationModes) == 0 || m.CollaborationModes[0].Mode != "group_revision" {
		t.Errorf("modes = %+v, want group_revision first", m.CollaborationModes)
	}
	if m.AvailableNow {
		t.Error("9:00 AM is before their 2:15 PM gap, expected not available")
	}

	midGap := time.Date(2026, 3, 2, 14, 30, 0, 0, time.UTC)
	matches = FindStudyPartners("me", users, mine, map[string][]model.ScheduledActivity{"them": theirs}, midGap)
	if len(matches) != 1 || !matches[0].AvailableNow {
		t.Errorf("2:30 PM sits inside their 2:15-3:30 gap, expected available")
	}
}

func TestFindStudyPartnersNoOverlapStillListed(t *testing.T) {
	mine := sched([2]string{"Math", "9:00 AM"})
	theirs := sched([2]string{"Biology", "9:00 AM"})
	users := []model.User{user("me"), user("them")}
	matches := FindStudyPartners("me", users, mine, map[string][]model.ScheduledActivity{"them": theirs}, aMonday)
	if len(matches) != 1 {
		t.Fatalf("score 0 users are still listed, got %d matches", len(matches))
	}
	if matches[0].MatchScore != 0 {
		t.Errorf("matchScore = %d, want 0", matches[0].MatchScore)
	}
}

func TestFindStudyPartnersSortedByScore(t *testing.T) {
	mine := sched([2]string{"Math", "9:00 AM"}, [2]string{"Physics", "11:00 AM"})
	strong := sched([2]string{"Math", "9:00 AM"}, [2]string{"Physics", "11:00 AM"})
	weak := sched([2]string{"Math", "8:00 AM"})

	users := []model.User{user("me"), user("weak"), user("strong")}
	matches := FindStudyPartners("me", users, mine, map[string][]model.ScheduledActivity{
		"weak":   weak,
		"strong": strong,
	}, aMonday)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].UserID != "strong" {
		t.Errorf("first match = %s, want strong", matches[0].UserID)
	}
	if matches[0].MatchScore <= matches[1].MatchScore {
		t.Errorf("matches not sorted: %d <= %d", matches[0].MatchScore, matches[1].MatchScore)
	}
}

func TestFindStudyPartnersUnknownSelf(t *testing.T) {
	if m := FindStudyPartners("ghost", []model.User{user("a")}, nil, nil, aMonday); m != nil {
		t.Fatalf("unknown self should yield nil, got %+v", m)
	}
}

func TestAvailableNow(t *testing.T) {
	slots := []model.FreeTimeSlot{{StartTime: "8:30 AM", DurationMinutes: 60}}
	if !AvailableNow(slots, aMonday) {
		t.Error("9:00 falls inside 8:30-9:30, expected available")
	}
	later := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	if AvailableNow(slots, later) {
		t.Error("10:00 is outside 8:30-9:30, expected unavailable")
	}
}
