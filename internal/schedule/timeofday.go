package schedule

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidStartTime is returned when a start time is not in "3:04 PM" form.
var ErrInvalidStartTime = errors.New("invalid start time in course data")

// TimeOfDay is a wall-clock time with second resolution.
type TimeOfDay struct {
	Hour   int
	Minute int
	Second int
}

// ParseTimeOfDay reads catalog times such as "11:00 AM" or "9:30 pm".
func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("3:04 PM", strings.ToUpper(strings.TrimSpace(s)))
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("%w: %q", ErrInvalidStartTime, s)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

// On returns the instant at this time of day on day's date, in day's location.
func (t TimeOfDay) On(day time.Time) time.Time {
	y, m, d := day.Date()
	return time.Date(y, m, d, t.Hour, t.Minute, t.Second, 0, day.Location())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d:%02d", t.Hour, t.Minute, t.Second)
}
