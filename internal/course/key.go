package course

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

var (
	// ErrInvalidFormat is returned when a free-form course string cannot be
	// split into a subject and a three digit number.
	ErrInvalidFormat = errors.New("invalid course format")
)

// Key identifies a course within a term, e.g. {CS, 225}.
type Key struct {
	Subject string `json:"subject" validate:"required,alpha,uppercase"`
	Number  int    `json:"number" validate:"gte=0"`
}

// String renders the key the way the catalog and the API responses print it.
func (k Key) String() string {
	return fmt.Sprintf("%s %d", k.Subject, k.Number)
}

// ParseKey normalizes strings such as "CS 225", "cs225" or " c s 2 2 5 ".
// All whitespace is dropped, letters are uppercased and the subject ends at
// the first digit. The numeric suffix must be exactly three digits.
func ParseKey(s string) (Key, error) {
	compact := strings.ToUpper(strings.Join(strings.Fields(s), ""))

	split := strings.IndexFunc(compact, unicode.IsDigit)
	if split < 0 {
		return Key{}, fmt.Errorf("%w: %q has no course number", ErrInvalidFormat, s)
	}

	subject, digits := compact[:split], compact[split:]
	if subject == "" {
		return Key{}, fmt.Errorf("%w: %q has no subject", ErrInvalidFormat, s)
	}
	if len(digits) != 3 {
		return Key{}, fmt.Errorf("%w: %q must end in a three digit number", ErrInvalidFormat, s)
	}

	number, err := strconv.Atoi(digits)
	if err != nil {
		return Key{}, fmt.Errorf("%w: %q: %v", ErrInvalidFormat, s, err)
	}

	return Key{Subject: subject, Number: number}, nil
}
