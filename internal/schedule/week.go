package schedule

import "time"

// DateLayout is the ISO calendar date form all schedule dates use.
const DateLayout = "2006-01-02"

// WeekDates returns the Monday-to-Sunday window containing
// today + offset*7 days, in ascending order. The anchor is the Monday
// on or before that day, which holds for negative offsets too.
func WeekDates(today time.Time, offset int) []time.Time {
	base := today.AddDate(0, 0, offset*7)

	// time.Weekday has Sunday=0, shift so Monday=0
	monday := base.AddDate(0, 0, -((int(base.Weekday()) + 6) % 7))

	dates := make([]time.Time, 7)
	for i := range dates {
		dates[i] = monday.AddDate(0, 0, i)
	}

	return dates
}

// DateStrings formats a window for storage lookups and JSON payloads.
func DateStrings(dates []time.Time) []string {
	out := make([]string, len(dates))
	for i, d := range dates {
		out[i] = d.Format(DateLayout)
	}

	return out
}
