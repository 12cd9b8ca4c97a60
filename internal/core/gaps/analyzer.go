// Package gaps ranks the areas of a student's academic life that need
// attention: low scores, overdue and soon-due assignments, and subjects that
// accumulate repeated issues. Gaps are derived views, recomputed from the raw
// records on every call.
package gaps

import (
	"fmt"
	"sort"
	"time"

	"unitime-backend/internal/model"
)

const (
	lowScoreRatio      = 0.6
	highSeverityRatio  = 0.5
	pendingWindowDays  = 3
	overduePriority    = 10
	pendingPriority    = 7
	weakSubjectIssues  = 3
	weakSubjectHighAt  = 5
	weakSubjectPerItem = 1.5
)

// ScoreDetail summarizes one low score inside a gap's details.
type ScoreDetail struct {
	Topic    string    `json:"topic,omitempty"`
	Score    float64   `json:"score"`
	MaxScore float64   `json:"maxScore"`
	Date     time.Time `json:"date"`
}

// Analyze evaluates every rule independently and returns all resulting gaps
// sorted by priority descending (stable on ties). Empty inputs are valid and
// simply contribute no gaps.
func Analyze(assignments []model.AssignmentRecord, scores []model.ScoreRecord, now time.Time) []model.AcademicGap {
	var out []model.AcademicGap

	// Missed-lecture analysis is deliberately absent: a static weekly
	// schedule cannot encode attendance history.

	out = append(out, lowScoreGaps(scores)...)
	out = append(out, assignmentGaps(assignments, now)...)
	out = append(out, weakSubjectGaps(out)...)

	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority > out[j].Priority })
	return out
}

func lowScoreGaps(scores []model.ScoreRecord) []model.AcademicGap {
	type stats struct {
		sum  float64
		n    int
		lows []ScoreDetail
	}
	bySubject := map[string]*stats{}
	var order []string
	for _, s := range scores {
		max := s.MaxScore
		if max == 0 {
			max = 100
		}
		st, ok := bySubject[s.Subject]
		if !ok {
			st = &stats{}
			bySubject[s.Subject] = st
			order = append(order, s.Subject)
		}
		ratio := s.Score / max
		st.sum += ratio
		st.n++
		if ratio < lowScoreRatio {
			st.lows = append(st.lows, ScoreDetail{Topic: s.Topic, Score: s.Score, MaxScore: max, Date: s.Date})
		}
	}

	var out []model.AcademicGap
	for _, subject := range order {
		st := bySubject[subject]
		mean := st.sum / float64(st.n)
		if mean >= lowScoreRatio {
			continue
		}
		severity := model.SeverityMedium
		if mean < highSeverityRatio {
			severity = model.SeverityHigh
		}
		details := make([]any, 0, len(st.lows))
		for _, d := range st.lows {
			details = append(details, d)
		}
		out = append(out, model.AcademicGap{
			Kind:     model.GapLowScores,
			Subject:  subject,
			Severity: severity,
			AvgScore: fmt.Sprintf("%.1f", mean*100),
			Count:    len(st.lows),
			Details:  details,
			Insight:  fmt.Sprintf("Low performance in %s: %.1f%% average", subject, mean*100),
			Priority: (100 - mean*100) / 10,
		})
	}
	return out
}

func assignmentGaps(assignments []model.AssignmentRecord, now time.Time) []model.AcademicGap {
	var overdue, pending []any
	for _, a := range assignments {
		if a.DueDate == nil {
			// No due date: fall back to the free-form status field.
			if a.Status == "pending" {
				pending = append(pending, a)
			}
			continue
		}
		if a.DueDate.Before(now) {
			if !a.Completed {
				overdue = append(overdue, a)
			}
			continue
		}
		daysUntil := a.DueDate.Sub(now).Hours() / 24
		if !a.Completed && daysUntil <= pendingWindowDays {
			pending = append(pending, a)
		}
	}

	var out []model.AcademicGap
	if len(overdue) > 0 {
		out = append(out, model.AcademicGap{
			Kind:     model.GapOverdueAssignments,
			Severity: model.SeverityHigh,
			Count:    len(overdue),
			Details:  overdue,
			Insight:  fmt.Sprintf("You have %d overdue assignment%s", len(overdue), plural(len(overdue))),
			Priority: overduePriority,
		})
	}
	if len(pending) > 0 {
		out = append(out, model.AcademicGap{
			Kind:     model.GapPendingAssignments,
			Severity: model.SeverityMedium,
			Count:    len(pending),
			Details:  pending,
			Insight:  fmt.Sprintf("You have %d assignment%s due soon", len(pending), plural(len(pending))),
			Priority: pendingPriority,
		})
	}
	return out
}

// weakSubjectGaps flags subjects whose per-subject gaps accumulate enough
// combined issues. With the missed-lecture signal disabled, only low-score
// counts feed the total.
func weakSubjectGaps(existing []model.AcademicGap) []model.AcademicGap {
	type weakness struct {
		lowScores int
		total     int
	}
	bySubject := map[string]*weakness{}
	var order []string
	for _, g := range existing {
		if g.Subject == "" {
			continue
		}
		w, ok := bySubject[g.Subject]
		if !ok {
			w = &weakness{}
			bySubject[g.Subject] = w
			order = append(order, g.Subject)
		}
		if g.Kind == model.GapLowScores {
			w.lowScores += g.Count
		}
		w.total += g.Count
	}

	var out []model.AcademicGap
	for _, subject := range order {
		w := bySubject[subject]
		if w.total < weakSubjectIssues {
			continue
		}
		severity := model.SeverityMedium
		if w.total >= weakSubjectHighAt {
			severity = model.SeverityHigh
		}
		out = append(out, model.AcademicGap{
			Kind:      model.GapWeakSubject,
			Subject:   subject,
			Severity:  severity,
			Count:     w.total,
			LowScores: w.lowScores,
			Insight:   fmt.Sprintf("%s needs attention: %d low scores", subject, w.lowScores),
			Priority:  float64(w.total) * weakSubjectPerItem,
		})
	}
	return out
}

func plural(n int) string {
	if n > 1 {
		return "s"
	}
	return ""
}
