package catalog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/i474232898/class-weather/internal/course"
)

// Arranged marks a meeting field the catalog does not schedule.
const Arranged = "ARRANGED"

// Meeting is one meeting of one section exactly as the catalog lists it.
// Seq is the section's position in the catalog document; it is carried by
// key order in JSON rather than as a field.
type Meeting struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Days  string `json:"days"`
	Seq   int    `json:"-"`
}

// IsArranged reports whether the meeting has no fixed start time.
func (m Meeting) IsArranged() bool {
	return m.Start == Arranged
}

// Sections maps a section label such as "AL1-LEC" to its meeting.
type Sections map[string]Meeting

// Labels returns the section labels in document order. Equal positions fall
// back to label order.
func (s Sections) Labels() []string {
	labels := make([]string, 0, len(s))
	for label := range s {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		a, b := s[labels[i]], s[labels[j]]
		if a.Seq != b.Seq {
			return a.Seq < b.Seq
		}
		return labels[i] < labels[j]
	})
	return labels
}

// add records a meeting under label. A repeated label takes the new meeting
// but keeps its first position.
func (s Sections) add(label string, m Meeting) {
	if prev, ok := s[label]; ok {
		m.Seq = prev.Seq
	} else {
		m.Seq = len(s)
	}
	s[label] = m
}

// SectionLabel joins a section number and a meeting type code.
func SectionLabel(sectionNumber, typeCode string) string {
	return sectionNumber + "-" + typeCode
}

// TypeCode returns the meeting type code part of a section label.
func TypeCode(label string) string {
	_, code, _ := strings.Cut(label, "-")
	return code
}

// Result is the outcome of one catalog lookup: either the course's sections
// or an error message. Both are cached permanently.
type Result struct {
	Sections Sections
	Error    string
}

// NotFound is the negative result cached for a course the catalog does not list.
func NotFound(key course.Key) Result {
	return Result{Error: fmt.Sprintf("%s not found in schedule", key)}
}

// Failed reports whether the result is an error payload.
func (r Result) Failed() bool {
	return r.Error != ""
}

// MarshalJSON writes the sections mapping in document order, or
// {"error": ...} for a failure.
func (r Result) MarshalJSON() ([]byte, error) {
	if r.Failed() {
		return json.Marshal(map[string]string{"error": r.Error})
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, label := range r.Sections.Labels() {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(label)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(r.Sections[label])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads either shape written by MarshalJSON. Sections are
// numbered in the order their keys appear.
func (r *Result) UnmarshalJSON(data []byte) error {
	if string(bytes.TrimSpace(data)) == "null" {
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("result must be a JSON object, got %v", tok)
	}

	var (
		sections = make(Sections)
		errText  string
		failed   bool
	)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		label, _ := tok.(string)

		var body json.RawMessage
		if err := dec.Decode(&body); err != nil {
			return fmt.Errorf("section %q: %w", label, err)
		}
		if label == "error" {
			if err := json.Unmarshal(body, &errText); err == nil {
				failed = true
				continue
			}
		}

		var m Meeting
		if err := json.Unmarshal(body, &m); err != nil {
			return fmt.Errorf("section %q: %w", label, err)
		}
		sections.add(label, m)
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	if failed {
		*r = Result{Error: errText}
		return nil
	}
	*r = Result{Sections: sections}
	return nil
}
