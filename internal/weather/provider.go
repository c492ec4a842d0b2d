package weather

import (
	"context"
	"time"

	"github.com/i474232898/class-weather/internal/course"
	"github.com/i474232898/class-weather/internal/schedule"
)

// Provider abstracts an hourly forecast source (National Weather Service, Open-Meteo).
type Provider interface {
	Name() string
	HourlyForecast(ctx context.Context, at Coordinates) ([]ForecastPeriod, error)
}

// Resolver finds the representative meeting of a course.
type Resolver interface {
	Resolve(ctx context.Context, term course.Term, key course.Key) (schedule.Meeting, error)
	CurrentTerm() course.Term
}

// Nudger writes a short suggestion for a report.
type Nudger interface {
	Nudge(ctx context.Context, r Report) (string, error)
}

// ReportStore caches finished reports per course.
type ReportStore interface {
	Save(course string, r Report)
	Get(course string, now time.Time) (Report, error)
	All(now time.Time) map[string]Report
}
