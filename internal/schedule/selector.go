package schedule

import (
	"errors"
	"fmt"
	"strings"

	"github.com/i474232898/class-weather/internal/catalog"
)

// ErrNoScheduledMeeting is returned when every section is arranged or the
// course lists no sections at all.
var ErrNoScheduledMeeting = errors.New("no scheduled meetings found")

// Meeting is the one meeting chosen to represent a course, still in the
// catalog's text form.
type Meeting struct {
	Days      string `json:"Days of Week"`
	StartTime string `json:"Start Time"`
}

// meetingTypePreference ranks meeting type codes, best first: lectures,
// numbered lecture variants, lecture-discussions, numbered seminars, lab
// variants, discussions and finally online formats.
var meetingTypePreference = func() []string {
	order := []string{"LEC"}
	for n := 0; n < 6; n++ {
		order = append(order, fmt.Sprintf("L%d", n))
	}
	order = append(order, "LCD")
	for n := 0; n < 30; n++ {
		order = append(order, fmt.Sprintf("S%d", n))
	}
	return append(order, "LBD", "LBA", "DIS", "OD", "OLC", "ONL", "OLD")
}()

var meetingTypeRank = func() map[string]int {
	rank := make(map[string]int, len(meetingTypePreference))
	for i, code := range meetingTypePreference {
		rank[code] = i
	}
	return rank
}()

// TypeRank returns the position of a meeting type code in the preference
// order. Codes are compared without surrounding padding.
func TypeRank(code string) (int, bool) {
	rank, ok := meetingTypeRank[strings.TrimSpace(code)]
	return rank, ok
}

// Select picks the meeting that best represents the course. Arranged
// sections are skipped. A recognized type code always beats an unrecognized
// one and lower ranks beat higher ones; among equals, and among unrecognized
// codes, the section listed first in the catalog wins.
func Select(sections catalog.Sections) (Meeting, error) {
	var (
		best       string
		bestRank   int
		found      bool
		recognized bool
	)
	for _, label := range sections.Labels() {
		if sections[label].IsArranged() {
			continue
		}

		rank, ok := TypeRank(catalog.TypeCode(label))
		switch {
		case ok && (!recognized || rank < bestRank):
			best, bestRank, found, recognized = label, rank, true, true
		case !found:
			best, found = label, true
		}
	}

	if !found {
		return Meeting{}, ErrNoScheduledMeeting
	}

	m := sections[best]
	return Meeting{
		Days:      strings.TrimSpace(m.Days),
		StartTime: m.Start,
	}, nil
}
