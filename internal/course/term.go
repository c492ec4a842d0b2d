package course

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

var (
	// ErrInvalidParameter is returned when a lookup is rejected before any
	// cache or network access.
	ErrInvalidParameter = errors.New("invalid lookup parameter")
)

// EarliestYear is the first year the catalog publishes schedules for.
const EarliestYear = 2004

// Season is one of the four academic terms of a year.
type Season string

const (
	Winter Season = "winter"
	Spring Season = "spring"
	Summer Season = "summer"
	Fall   Season = "fall"
)

// Term partitions the schedule cache.
type Term struct {
	Year   int    `validate:"gte=2004"`
	Season Season `validate:"required,oneof=winter spring summer fall"`
}

// String returns the partition name, e.g. "2024fall".
func (t Term) String() string {
	return fmt.Sprintf("%d%s", t.Year, t.Season)
}

// CurrentTerm picks the term in session at now: spring before June, summer
// before August, fall for the rest of the year.
func CurrentTerm(now time.Time) Term {
	season := Fall
	switch {
	case now.Month() < time.June:
		season = Spring
	case now.Month() < time.August:
		season = Summer
	}
	return Term{Year: now.Year(), Season: season}
}

// ParseSeason accepts a season name in any case.
func ParseSeason(s string) (Season, error) {
	season := Season(strings.ToLower(strings.TrimSpace(s)))
	switch season {
	case Winter, Spring, Summer, Fall:
		return season, nil
	}
	return "", fmt.Errorf("%w: unknown term %q", ErrInvalidParameter, s)
}

var validate = validator.New()

// ValidateLookup checks a (term, course) pair before it reaches the cache or
// the catalog. The upper year bound moves with now.
func ValidateLookup(term Term, key Key, now time.Time) error {
	if err := validate.Struct(term); err != nil {
		return fmt.Errorf("%w: term %s: %v", ErrInvalidParameter, term, err)
	}
	if term.Year > now.Year()+1 {
		return fmt.Errorf("%w: cannot look that far into the future", ErrInvalidParameter)
	}
	if err := validate.Struct(key); err != nil {
		return fmt.Errorf("%w: course %q: %v", ErrInvalidParameter, key, err)
	}
	return nil
}
