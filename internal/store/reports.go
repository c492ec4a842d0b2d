package store

import (
	"errors"
	"sync"
	"time"

	"github.com/i474232898/class-weather/internal/weather"
)

var (
	// ErrNotFound is returned when no live report is cached for a course.
	ErrNotFound = errors.New("no cached report for course")
)

// ReportStore is a concurrency-safe in-memory cache of weather reports.
type ReportStore struct {
	mu sync.RWMutex

	// key: course name, e.g. "CS 225"
	data map[string]weather.Report

	// retention configuration
	maxAge time.Duration // max age of a report (0 = until its meeting starts)
}

// NewReportStore creates a new ReportStore.
func NewReportStore(maxAge time.Duration) *ReportStore {
	return &ReportStore{
		data:   make(map[string]weather.Report),
		maxAge: maxAge,
	}
}

// Save stores the report for a course and drops expired entries.
func (s *ReportStore) Save(course string, r weather.Report) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.data[course] = r

	now := r.GeneratedAt
	for k, existing := range s.data {
		if !s.live(existing, now) {
			delete(s.data, k)
		}
	}
}

// Get returns the cached report for a course if it is still live at now.
func (s *ReportStore) Get(course string, now time.Time) (weather.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.data[course]
	if !ok || !s.live(r, now) {
		return weather.Report{}, ErrNotFound
	}
	return r, nil
}

// All returns every report live at now.
func (s *ReportStore) All(now time.Time) map[string]weather.Report {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make(map[string]weather.Report, len(s.data))
	for k, r := range s.data {
		if s.live(r, now) {
			result[k] = r
		}
	}
	return result
}

// live reports whether r may still be served: its meeting has not started
// and it is younger than maxAge.
func (s *ReportStore) live(r weather.Report, now time.Time) bool {
	if !r.NextMeeting.After(now) {
		return false
	}
	if s.maxAge > 0 && now.Sub(r.GeneratedAt) > s.maxAge {
		return false
	}
	return true
}
