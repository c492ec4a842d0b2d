package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/class-weather/internal/weather"
)

var base = time.Date(2024, time.October, 1, 10, 0, 0, 0, time.UTC)

func report(course string, generated, next time.Time) weather.Report {
	return weather.Report{
		Course:      course,
		Temperature: 61.0,
		GeneratedAt: generated,
		NextMeeting: next,
	}
}

func TestReportStore_SaveAndGet(t *testing.T) {
	s := NewReportStore(time.Hour)
	s.Save("CS 225", report("CS 225", base, base.Add(24*time.Hour)))

	got, err := s.Get("CS 225", base.Add(10*time.Minute))
	require.NoError(t, err)
	assert.Equal(t, "CS 225", got.Course)

	_, err = s.Get("MATH 241", base)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportStore_ExpiresByAge(t *testing.T) {
	s := NewReportStore(time.Hour)
	s.Save("CS 225", report("CS 225", base, base.Add(24*time.Hour)))

	_, err := s.Get("CS 225", base.Add(61*time.Minute))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportStore_ExpiresWhenMeetingStarts(t *testing.T) {
	s := NewReportStore(0)
	s.Save("CS 225", report("CS 225", base, base.Add(time.Hour)))

	_, err := s.Get("CS 225", base.Add(59*time.Minute))
	require.NoError(t, err)

	_, err = s.Get("CS 225", base.Add(time.Hour))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportStore_AllReturnsLiveOnly(t *testing.T) {
	s := NewReportStore(time.Hour)
	s.Save("CS 225", report("CS 225", base, base.Add(30*time.Minute)))
	s.Save("MATH 241", report("MATH 241", base, base.Add(48*time.Hour)))

	all := s.All(base.Add(45 * time.Minute))
	assert.Len(t, all, 1)
	assert.Contains(t, all, "MATH 241")
}

func TestReportStore_SavePrunesExpired(t *testing.T) {
	s := NewReportStore(time.Hour)
	s.Save("CS 225", report("CS 225", base, base.Add(30*time.Minute)))
	s.Save("MATH 241", report("MATH 241", base.Add(2*time.Hour), base.Add(48*time.Hour)))

	s.mu.RLock()
	defer s.mu.RUnlock()
	assert.NotContains(t, s.data, "CS 225")
}
