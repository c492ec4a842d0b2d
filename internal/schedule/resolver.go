package schedule

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/i474232898/class-weather/internal/catalog"
	"github.com/i474232898/class-weather/internal/course"
)

// ErrCourseNotFound is returned when the catalog does not list the course.
var ErrCourseNotFound = errors.New("course not found in schedule")

// SyntheticKey names the test course that always meets 6 days 22 hours from now.
var SyntheticKey = course.Key{Subject: "TEST", Number: 999}

const syntheticOffset = 6*24*time.Hour + 22*time.Hour

// Catalog fetches one course's sections from the upstream catalog.
type Catalog interface {
	Fetch(ctx context.Context, term course.Term, key course.Key) (catalog.Result, error)
}

// Cache is the durable, never-expiring store of catalog results.
type Cache interface {
	Get(term course.Term, key course.Key) (catalog.Result, bool, error)
	Put(term course.Term, key course.Key, res catalog.Result) error
}

// ResolveError is a terminal negative answer for a course.
type ResolveError struct {
	Course  course.Key
	Message string
	Err     error
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("%s: %s", e.Course, e.Message)
}

func (e *ResolveError) Unwrap() error {
	return e.Err
}

// Resolver answers "when does this course meet" from the cache, falling back
// to the catalog on a miss and caching whatever the catalog said.
type Resolver struct {
	cache   Cache
	catalog Catalog
	clock   clockwork.Clock
	logger  *zap.Logger
	loc     *time.Location
	days    DayTable

	flight singleflight.Group
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLocation sets the zone the synthetic meeting is expressed in.
// Defaults to the clock's own zone.
func WithLocation(loc *time.Location) Option {
	return func(r *Resolver) { r.loc = loc }
}

// WithDayTable sets the day letters the synthetic meeting is written in.
// Defaults to DefaultDayTable.
func WithDayTable(days DayTable) Option {
	return func(r *Resolver) { r.days = days }
}

// NewResolver creates a Resolver. A nil clock means the real clock.
func NewResolver(cache Cache, cat Catalog, clock clockwork.Clock, logger *zap.Logger, opts ...Option) *Resolver {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Resolver{
		cache:   cache,
		catalog: cat,
		clock:   clock,
		logger:  logger,
		days:    DefaultDayTable(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// CurrentTerm is the term in session right now.
func (r *Resolver) CurrentTerm() course.Term {
	return course.CurrentTerm(r.clock.Now())
}

// Resolve returns the representative meeting of a course in a term.
// Parameter errors wrap course.ErrInvalidParameter and touch neither the
// cache nor the catalog. Not-found and no-meeting answers are *ResolveError.
func (r *Resolver) Resolve(ctx context.Context, term course.Term, key course.Key) (Meeting, error) {
	if key == SyntheticKey {
		return r.Synthetic()
	}

	if err := course.ValidateLookup(term, key, r.clock.Now()); err != nil {
		return Meeting{}, err
	}

	res, err := r.lookup(ctx, term, key)
	if err != nil {
		return Meeting{}, err
	}

	if res.Failed() {
		return Meeting{}, &ResolveError{Course: key, Message: res.Error, Err: ErrCourseNotFound}
	}

	m, err := Select(res.Sections)
	if err != nil {
		return Meeting{}, &ResolveError{Course: key, Message: "No scheduled meetings found", Err: err}
	}
	return m, nil
}

// Synthetic returns the TEST 999 meeting: the weekday 6 days 22 hours from
// now, starting at the top of that hour. A weekday the day table has no
// letter for yields a no-meeting *ResolveError.
func (r *Resolver) Synthetic() (Meeting, error) {
	when := r.clock.Now().Add(syntheticOffset)
	if r.loc != nil {
		when = when.In(r.loc)
	}
	code, ok := r.days.Code(when.Weekday())
	if !ok {
		return Meeting{}, &ResolveError{Course: SyntheticKey, Message: "No scheduled meetings found", Err: ErrNoScheduledMeeting}
	}
	return Meeting{
		Days:      string(code),
		StartTime: when.Format("03:00 PM"),
	}, nil
}

func (r *Resolver) lookup(ctx context.Context, term course.Term, key course.Key) (catalog.Result, error) {
	res, ok, err := r.cache.Get(term, key)
	if err != nil {
		return catalog.Result{}, err
	}
	if ok {
		return res, nil
	}

	v, err, _ := r.flight.Do(term.String()+"/"+key.String(), func() (interface{}, error) {
		// Another caller may have finished the fetch since our miss.
		if res, ok, err := r.cache.Get(term, key); err == nil && ok {
			return res, nil
		}

		res, err := r.catalog.Fetch(ctx, term, key)
		if err != nil {
			return nil, err
		}

		if err := r.cache.Put(term, key, res); err != nil {
			r.logger.Error("schedule cache append failed",
				zap.String("course", key.String()),
				zap.String("term", term.String()),
				zap.Error(err))
		}
		return res, nil
	})
	if err != nil {
		return catalog.Result{}, err
	}
	return v.(catalog.Result), nil
}
