package domain

import (
	"fmt"
	"regexp"
)

var (
	phonePattern    = regexp.MustCompile(`^\+?[0-9]{9,15}$`)
	phoneWhitespace = regexp.MustCompile(`\s+`)
)

// PhoneNumber is a validated, whitespace-normalized phone number.
type PhoneNumber string

// NewPhoneNumber strips whitespace and validates the result.
func NewPhoneNumber(raw string) (PhoneNumber, error) {
	normalized := phoneWhitespace.ReplaceAllString(raw, "")
	if !phonePattern.MatchString(normalized) {
		return "", fmt.Errorf("%w: invalid phone number: %q", ErrInvalidPayload, raw)
	}
	return PhoneNumber(normalized), nil
}

func (p PhoneNumber) String() string {
	return string(p)
}
