package schedule

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/i474232898/class-weather/internal/catalog"
)

// Schedule is a weekly meeting pattern with no arranged parts.
type Schedule struct {
	Weekdays []time.Weekday
	Start    TimeOfDay
}

// Canonicalize turns a selected meeting into a Schedule using the day table.
func Canonicalize(m Meeting, table DayTable) (Schedule, error) {
	days := strings.TrimSpace(m.Days)
	if days == "" || days == catalog.Arranged {
		return Schedule{}, fmt.Errorf("%w: %q", ErrInvalidDays, m.Days)
	}
	weekdays := table.Weekdays(days)
	if len(weekdays) == 0 {
		return Schedule{}, fmt.Errorf("%w: %q", ErrInvalidDays, m.Days)
	}

	start, err := ParseTimeOfDay(m.StartTime)
	if err != nil {
		return Schedule{}, err
	}
	return Schedule{Weekdays: weekdays, Start: start}, nil
}

// Next is NextOccurrence for this schedule.
func (s Schedule) Next(now time.Time) (time.Time, bool) {
	return NextOccurrence(s.Weekdays, s.Start, now)
}

// NextOccurrence returns the first instant strictly after now that falls on
// one of weekdays at start, in now's location. Eight days are scanned so a
// meeting earlier today rolls over to the same weekday next week.
func NextOccurrence(weekdays []time.Weekday, start TimeOfDay, now time.Time) (time.Time, bool) {
	for offset := 0; offset < 8; offset++ {
		day := now.AddDate(0, 0, offset)
		if !slices.Contains(weekdays, day.Weekday()) {
			continue
		}
		if candidate := start.On(day); candidate.After(now) {
			return candidate, true
		}
	}
	return time.Time{}, false
}
