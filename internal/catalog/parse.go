package catalog

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html/charset"
)

// ErrMalformedResponse is returned when the catalog document is not XML at all.
var ErrMalformedResponse = errors.New("malformed catalog response")

type detailedSection struct {
	SectionNumber string       `xml:"sectionNumber"`
	Meetings      []xmlMeeting `xml:"meetings>meeting"`
}

type xmlMeeting struct {
	Type struct {
		Code string `xml:"code,attr"`
	} `xml:"type"`
	Start *string `xml:"start"`
	End   *string `xml:"end"`
	Days  *string `xml:"daysOfTheWeek"`
}

// ParseSections reads a cascade-mode course document and returns every
// meeting of every detailed section, wherever those sections appear in the
// tree, numbered in document order. Missing or empty start, end and day
// fields become Arranged.
func ParseSections(r io.Reader) (Sections, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	sections := make(Sections)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return sections, nil
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "detailedSection" {
			continue
		}

		var sect detailedSection
		if err := dec.DecodeElement(&sect, &start); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}

		number := strings.TrimSpace(sect.SectionNumber)
		for _, m := range sect.Meetings {
			sections.add(SectionLabel(number, m.Type.Code), Meeting{
				Start: orArranged(m.Start, true),
				End:   orArranged(m.End, true),
				Days:  orArranged(m.Days, false),
			})
		}
	}
}

// orArranged keeps day strings untrimmed; they are trimmed on selection.
func orArranged(field *string, trim bool) string {
	if field == nil || strings.TrimSpace(*field) == "" {
		return Arranged
	}
	if trim {
		return strings.TrimSpace(*field)
	}
	return *field
}
