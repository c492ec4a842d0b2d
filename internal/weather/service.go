package weather

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/i474232898/class-weather/internal/course"
	"github.com/i474232898/class-weather/internal/observability"
	"github.com/i474232898/class-weather/internal/schedule"
)

// ErrForecastUnavailable is returned when no provider produced a forecast
// and there is no earlier snapshot to fall back on.
var ErrForecastUnavailable = errors.New("forecast unavailable")

// Options configures a Service. Zero values fall back to sensible defaults.
type Options struct {
	Campus         Coordinates
	Location       *time.Location
	Days           schedule.DayTable
	ForecastMaxAge time.Duration
	Nudger         Nudger
	Clock          clockwork.Clock
	Metrics        *observability.Metrics
	Logger         *zap.Logger
}

// Service builds weather reports for a course's next meeting.
type Service struct {
	resolver  Resolver
	providers []Provider
	reports   ReportStore
	opts      Options

	mu        sync.RWMutex
	periods   []ForecastPeriod
	fetchedAt time.Time
}

// NewService creates a new Service.
func NewService(resolver Resolver, providers []Provider, reports ReportStore, opts Options) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Days == nil {
		opts.Days = schedule.DefaultDayTable()
	}
	if opts.ForecastMaxAge <= 0 {
		opts.ForecastMaxAge = time.Hour
	}
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = observability.NewUnregisteredMetrics()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	return &Service{
		resolver:  resolver,
		providers: providers,
		reports:   reports,
		opts:      opts,
	}
}

// Report resolves the course, finds its next meeting and attaches the
// forecast for that hour. A forecast failure does not fail the report; the
// forecast fields read Unavailable instead. The synthetic course is rebuilt
// on every call since its meeting moves with the clock.
func (s *Service) Report(ctx context.Context, rawCourse string) (Report, error) {
	key, err := course.ParseKey(rawCourse)
	if err != nil {
		return Report{}, err
	}
	name := key.String()
	now := s.opts.Clock.Now().In(s.opts.Location)
	cacheable := key != schedule.SyntheticKey

	if cacheable {
		if cached, err := s.reports.Get(name, now); err == nil {
			s.opts.Metrics.ResponseCacheLookup.WithLabelValues("hit").Inc()
			return cached, nil
		}
		s.opts.Metrics.ResponseCacheLookup.WithLabelValues("miss").Inc()
	}

	meeting, err := s.resolver.Resolve(ctx, s.resolver.CurrentTerm(), key)
	if err != nil {
		return Report{}, err
	}

	sched, err := schedule.Canonicalize(meeting, s.opts.Days)
	if err != nil {
		return Report{}, fmt.Errorf("%s: %w", name, err)
	}

	next, ok := sched.Next(now)
	if !ok {
		return Report{}, fmt.Errorf("%s: %w: no meeting in the coming week", name, schedule.ErrInvalidDays)
	}
	hour := ForecastHour(next)

	report := Report{
		Course:            name,
		NextCourseMeeting: next.Format(TimeLayout),
		ForecastTime:      hour.Format(TimeLayout),
		Temperature:       Unavailable,
		ShortForecast:     Unavailable,
		NextMeeting:       next,
		GeneratedAt:       now,
	}

	periods, err := s.Forecast(ctx)
	if err != nil {
		s.opts.Logger.Warn("forecast lookup failed", zap.String("course", name), zap.Error(err))
	}
	if period, ok := Align(hour, periods); ok {
		s.opts.Metrics.ForecastAlignment.WithLabelValues("matched").Inc()
		report.Temperature = period.Temperature
		report.ShortForecast = period.ShortForecast
		report.Period = &period
	} else {
		s.opts.Metrics.ForecastAlignment.WithLabelValues("unavailable").Inc()
	}

	if s.opts.Nudger != nil {
		text, err := s.opts.Nudger.Nudge(ctx, report)
		if err != nil {
			s.opts.Logger.Warn("nudge failed", zap.String("course", name), zap.Error(err))
		}
		report.Nudge = text
	}

	if cacheable {
		s.reports.Save(name, report)
	}
	return report, nil
}

// CachedReports returns every report still in the cache, keyed by course.
func (s *Service) CachedReports() map[string]Report {
	return s.reports.All(s.opts.Clock.Now().In(s.opts.Location))
}

// Forecast returns the current hourly forecast, refreshing it when the
// snapshot is older than ForecastMaxAge. A stale snapshot is returned when
// every provider fails.
func (s *Service) Forecast(ctx context.Context) ([]ForecastPeriod, error) {
	s.mu.RLock()
	periods, fetchedAt := s.periods, s.fetchedAt
	s.mu.RUnlock()

	if periods != nil && s.opts.Clock.Since(fetchedAt) < s.opts.ForecastMaxAge {
		return periods, nil
	}

	if err := s.RefreshForecast(ctx); err != nil {
		if periods != nil {
			return periods, nil
		}
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.periods, nil
}

// RefreshForecast asks each provider in order and keeps the first
// non-empty forecast.
func (s *Service) RefreshForecast(ctx context.Context) error {
	if len(s.providers) == 0 {
		return fmt.Errorf("%w: no forecast providers configured", ErrForecastUnavailable)
	}

	var errs []error
	for _, p := range s.providers {
		periods, err := p.HourlyForecast(ctx, s.opts.Campus)
		if err == nil && len(periods) == 0 {
			err = errors.New("empty forecast")
		}
		if err != nil {
			s.opts.Metrics.ForecastRequests.WithLabelValues(p.Name(), "error").Inc()
			s.opts.Logger.Warn("forecast provider failed",
				zap.String("provider", p.Name()),
				zap.String("campus", s.opts.Campus.Key()),
				zap.Error(err))
			errs = append(errs, fmt.Errorf("%s: %w", p.Name(), err))
			continue
		}

		s.opts.Metrics.ForecastRequests.WithLabelValues(p.Name(), "ok").Inc()
		s.mu.Lock()
		s.periods = periods
		s.fetchedAt = s.opts.Clock.Now()
		s.mu.Unlock()
		return nil
	}

	return fmt.Errorf("%w: %w", ErrForecastUnavailable, errors.Join(errs...))
}
