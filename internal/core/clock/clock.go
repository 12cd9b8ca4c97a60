// Package clock converts 12-hour clock strings ("10:00 AM") to absolute
// minute offsets from midnight and back. Parsing is explicit about failure:
// callers get an error for malformed input instead of a poisoned value.
package clock

import (
	"fmt"
	"strconv"
	"strings"
)

// Minutes is an offset from midnight in the range [0, 1440).
type Minutes int

// Parse converts "H:MM AM" / "H:MM PM" to minutes since midnight. The minute
// component may be omitted ("9 AM" parses as 9:00 AM).
func Parse(s string) (Minutes, error) {
	fields := strings.Fields(strings.TrimSpace(s))
	if len(fields) != 2 {
		return 0, fmt.Errorf("clock: malformed time %q", s)
	}
	period := strings.ToUpper(fields[1])
	if period != "AM" && period != "PM" {
		return 0, fmt.Errorf("clock: unknown period %q in %q", fields[1], s)
	}

	hourStr, minStr, hasMin := strings.Cut(fields[0], ":")
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, fmt.Errorf("clock: bad hour in %q", s)
	}
	minute := 0
	if hasMin {
		minute, err = strconv.Atoi(minStr)
		if err != nil {
			return 0, fmt.Errorf("clock: bad minute in %q", s)
		}
	}
	if hour < 1 || hour > 12 || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("clock: out of range time %q", s)
	}

	if period == "PM" && hour != 12 {
		hour += 12
	}
	if period == "AM" && hour == 12 {
		hour = 0
	}
	return Minutes(hour*60 + minute), nil
}

// Format renders a minute offset in 12-hour form with an AM/PM suffix and
// zero-padded minutes. It is the inverse of Parse for offsets in [0, 1440).
func Format(m Minutes) string {
	hours := int(m) / 60
	mins := int(m) % 60
	period := "AM"
	if hours >= 12 {
		period = "PM"
	}
	hour12 := hours
	switch {
	case hours > 12:
		hour12 = hours - 12
	case hours == 0:
		hour12 = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour12, mins, period)
}
