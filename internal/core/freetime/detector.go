// Package freetime detects open intervals in a day's schedule: true gaps
// between consecutive activities and slots freed by a cancellation. Slots are
// derived views computed fresh on every call; nothing here is cached or
// persisted.
package freetime

import (
	"sort"
	"time"

	"unitime-backend/internal/core/clock"
	"unitime-backend/internal/model"
)

const (
	// DefaultDurationMinutes is the nominal length of a scheduled activity.
	DefaultDurationMinutes = 60
	// MinGapMinutes is the smallest between-activity interval worth reporting.
	MinGapMinutes = 15
	// CancelledLookbackMinutes keeps a cancelled slot visible for a short
	// while after its scheduled start has passed.
	CancelledLookbackMinutes = 30
)

type timedActivity struct {
	model.ScheduledActivity
	start clock.Minutes
}

// Detect computes the free-time slots for the weekday of now. Activities on
// other days are ignored; activities whose start time fails to parse are
// skipped rather than poisoning comparisons. The result is sorted by start
// time ascending.
func Detect(activities []model.ScheduledActivity, now time.Time) []model.FreeTimeSlot {
	today := now.Weekday().String()
	nowMinutes := clock.Minutes(now.Hour()*60 + now.Minute())

	var todays []timedActivity
	for _, a := range activities {
		if a.Day != today {
			continue
		}
		start, err := clock.Parse(a.StartTime)
		if err != nil {
			continue
		}
		todays = append(todays, timedActivity{ScheduledActivity: a, start: start})
	}
	sort.SliceStable(todays, func(i, j int) bool { return todays[i].start < todays[j].start })

	workload := workloadLevel(todays)
	var slots []model.FreeTimeSlot

	// Gaps between consecutive activities.
	for i := 0; i+1 < len(todays); i++ {
		cur, next := todays[i], todays[i+1]
		if cur.IsCancelled {
			continue
		}
		curEnd := cur.start + DefaultDurationMinutes
		gap := int(next.start - curEnd)
		if gap < MinGapMinutes {
			continue
		}
		slots = append(slots, model.FreeTimeSlot{
			DurationMinutes: gap,
			Unit:            "minutes",
			StartTime:       clock.Format(curEnd),
			EndTime:         next.StartTime,
			Context: model.SlotContext{
				Location:         orCampus(cur.Room),
				PreviousSubject:  cur.Subject,
				NextSubject:      next.Subject,
				DayWorkloadLevel: workload,
				PreviousRoom:     cur.Room,
				NextRoom:         next.Room,
			},
			Kind: model.SlotGap,
		})
	}

	// Slots freed by cancellation, kept while the start is current or recent.
	for i, a := range todays {
		if !a.IsCancelled {
			continue
		}
		if a.start < nowMinutes-CancelledLookbackMinutes {
			continue
		}
		prevSubject := "None"
		if i > 0 {
			prevSubject = todays[i-1].Subject
		}
		nextSubject := "None"
		for _, n := range todays {
			if !n.IsCancelled && n.start > a.start {
				nextSubject = n.Subject
				break
			}
		}
		slots = append(slots, model.FreeTimeSlot{
			DurationMinutes: DefaultDurationMinutes,
			Unit:            "minutes",
			StartTime:       a.StartTime,
			EndTime:         clock.Format(a.start + DefaultDurationMinutes),
			Context: model.SlotContext{
				Location:         orCampus(a.Room),
				PreviousSubject:  prevSubject,
				NextSubject:      nextSubject,
				DayWorkloadLevel: workload,
				CancelledSubject: a.Subject,
				OriginalRoom:     a.Room,
			},
			Kind: model.SlotCancelled,
		})
	}

	sort.SliceStable(slots, func(i, j int) bool {
		si, ei := clock.Parse(slots[i].StartTime)
		sj, ej := clock.Parse(slots[j].StartTime)
		if ei != nil || ej != nil {
			return false
		}
		return si < sj
	})
	return slots
}

// Current re-runs detection and returns the slot whose [start, start+duration)
// interval contains now, or nil when there is none.
func Current(activities []model.ScheduledActivity, now time.Time) *model.FreeTimeSlot {
	nowMinutes := clock.Minutes(now.Hour()*60 + now.Minute())
	for _, slot := range Detect(activities, now) {
		start, err := clock.Parse(slot.StartTime)
		if err != nil {
			continue
		}
		if nowMinutes >= start && nowMinutes < start+clock.Minutes(slot.DurationMinutes) {
			s := slot
			return &s
		}
	}
	return nil
}

// workloadLevel derives the coarse Low/Medium/High label from the number of
// non-cancelled activities on the day.
func workloadLevel(todays []timedActivity) string {
	active := 0
	for _, a := range todays {
		if !a.IsCancelled {
			active++
		}
	}
	switch {
	case active >= 5:
		return "High"
	case active >= 3:
		return "Medium"
	default:
		return "Low"
	}
}

func orCampus(room string) string {
	if room == "" {
		return "Campus"
	}
	return room
}
