package gaps

import "unitime-backend/internal/model"

// Mapper bonuses applied on top of a gap's own priority.
const (
	bonusPreviousSubject = 5
	bonusNextSubject     = 3
	bonusHighSeverity    = 3
	bonusOverdue         = 10
)

// MapSlot joins a free-time slot to the most relevant academic gap. Ties
// resolve to the first-seen highest scorer; nil when gaps is empty or nothing
// scores above zero.
func MapSlot(slot model.FreeTimeSlot, gaps []model.AcademicGap) *model.AcademicGap {
	var best *model.AcademicGap
	bestScore := 0.0

	for i := range gaps {
		g := &gaps[i]
		score := g.Priority
		if g.Subject != "" {
			if g.Subject == slot.Context.PreviousSubject {
				score += bonusPreviousSubject
			}
			if g.Subject == slot.Context.NextSubject {
				score += bonusNextSubject
			}
		}
		if g.Severity == model.SeverityHigh {
			score += bonusHighSeverity
		}
		if g.Kind == model.GapOverdueAssignments {
			score += bonusOverdue
		}
		if score > bestScore {
			bestScore = score
			best = g
		}
	}
	return best
}
