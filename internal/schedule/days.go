package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DefaultDayCodes lists the catalog's day letters from Monday to Sunday.
const DefaultDayCodes = "MTWRFSU"

// ErrInvalidDays is returned when a meeting's day string names no day the
// table knows.
var ErrInvalidDays = errors.New("invalid day of week in course data")

// DayTable maps catalog day letters to weekdays.
type DayTable map[rune]time.Weekday

// NewDayTable builds a table from letters given in order Monday..Sunday, so
// "MTWRF" supports weekdays only and "MTWRFSU" the whole week.
func NewDayTable(codes string) (DayTable, error) {
	codes = strings.ToUpper(strings.TrimSpace(codes))
	if codes == "" || len([]rune(codes)) > 7 {
		return nil, fmt.Errorf("day codes %q must name between 1 and 7 days", codes)
	}

	table := make(DayTable, len(codes))
	for i, r := range []rune(codes) {
		if _, dup := table[r]; dup {
			return nil, fmt.Errorf("day code %q used twice in %q", r, codes)
		}
		table[r] = weekdayAt(i)
	}
	return table, nil
}

// DefaultDayTable supports all seven days.
func DefaultDayTable() DayTable {
	table, _ := NewDayTable(DefaultDayCodes)
	return table
}

// Weekdays maps each known letter of days to its weekday, ignoring unknown
// letters and repeats.
func (t DayTable) Weekdays(days string) []time.Weekday {
	var out []time.Weekday
	seen := make(map[time.Weekday]bool)
	for _, r := range days {
		wd, ok := t[r]
		if !ok || seen[wd] {
			continue
		}
		seen[wd] = true
		out = append(out, wd)
	}
	return out
}

// Code returns the letter the table uses for wd.
func (t DayTable) Code(wd time.Weekday) (rune, bool) {
	for r, day := range t {
		if day == wd {
			return r, true
		}
	}
	return 0, false
}

// WeekdayIndex numbers weekdays Monday=0 through Sunday=6.
func WeekdayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func weekdayAt(index int) time.Weekday {
	return time.Weekday((index + 1) % 7)
}
