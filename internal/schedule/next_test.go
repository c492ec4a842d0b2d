package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var central = time.FixedZone("CST", -6*60*60)

// 2024-09-30 is a Monday.
func monday(hour, minute int) time.Time {
	return time.Date(2024, time.September, 30, hour, minute, 0, 0, central)
}

func TestParseTimeOfDay(t *testing.T) {
	tests := map[string]TimeOfDay{
		"11:00 AM": {Hour: 11},
		"9:30 AM":  {Hour: 9, Minute: 30},
		"01:15 PM": {Hour: 13, Minute: 15},
		"12:00 PM": {Hour: 12},
		"12:00 am": {Hour: 0},
	}
	for in, want := range tests {
		got, err := ParseTimeOfDay(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, in := range []string{"", "ARRANGED", "13:00", "25:00 PM"} {
		_, err := ParseTimeOfDay(in)
		assert.ErrorIs(t, err, ErrInvalidStartTime, in)
	}
}

func TestTimeOfDay_String(t *testing.T) {
	assert.Equal(t, "09:05:00", TimeOfDay{Hour: 9, Minute: 5}.String())
}

func TestNextOccurrence_LaterToday(t *testing.T) {
	got, ok := NextOccurrence([]time.Weekday{time.Monday}, TimeOfDay{Hour: 9}, monday(8, 0))
	require.True(t, ok)
	assert.Equal(t, monday(9, 0), got)
}

func TestNextOccurrence_AlreadyPastToday(t *testing.T) {
	got, ok := NextOccurrence([]time.Weekday{time.Monday}, TimeOfDay{Hour: 9}, monday(9, 30))
	require.True(t, ok)
	assert.Equal(t, monday(9, 0).AddDate(0, 0, 7), got)
}

func TestNextOccurrence_ExactlyNowIsNotNext(t *testing.T) {
	got, ok := NextOccurrence([]time.Weekday{time.Monday}, TimeOfDay{Hour: 9}, monday(9, 0))
	require.True(t, ok)
	assert.Equal(t, monday(9, 0).AddDate(0, 0, 7), got)
}

func TestNextOccurrence_PicksNearestDay(t *testing.T) {
	mwf := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	got, ok := NextOccurrence(mwf, TimeOfDay{Hour: 11}, monday(12, 0))
	require.True(t, ok)
	assert.Equal(t, time.Wednesday, got.Weekday())
	assert.Equal(t, monday(11, 0).AddDate(0, 0, 2), got)
}

func TestNextOccurrence_KeepsLocation(t *testing.T) {
	got, ok := NextOccurrence([]time.Weekday{time.Tuesday}, TimeOfDay{Hour: 14}, monday(23, 0))
	require.True(t, ok)
	assert.Equal(t, central, got.Location())
	assert.Equal(t, 14, got.Hour())
}

func TestNextOccurrence_NoDays(t *testing.T) {
	_, ok := NextOccurrence(nil, TimeOfDay{Hour: 9}, monday(8, 0))
	assert.False(t, ok)
}

func TestCanonicalize(t *testing.T) {
	s, err := Canonicalize(Meeting{Days: "MWF ", StartTime: "11:00 AM"}, DefaultDayTable())
	require.NoError(t, err)
	assert.Equal(t, []time.Weekday{time.Monday, time.Wednesday, time.Friday}, s.Weekdays)
	assert.Equal(t, TimeOfDay{Hour: 11}, s.Start)

	_, err = Canonicalize(Meeting{Days: "ARRANGED", StartTime: "11:00 AM"}, DefaultDayTable())
	assert.ErrorIs(t, err, ErrInvalidDays)

	_, err = Canonicalize(Meeting{Days: "XYZ", StartTime: "11:00 AM"}, DefaultDayTable())
	assert.ErrorIs(t, err, ErrInvalidDays)

	_, err = Canonicalize(Meeting{Days: "MWF", StartTime: "noonish"}, DefaultDayTable())
	assert.ErrorIs(t, err, ErrInvalidStartTime)
}
