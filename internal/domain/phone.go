package domain

import "strings"

// PhonePolicy normalizes raw phone input to the canonical +<country><number>
// form. The two endpoint generations disagreed on how strict to be with
// +-prefixed numbers, so strictness is a parameter instead of a second copy.
type PhonePolicy struct {
	// CountryCode replaces a single leading zero, e.g. "+98".
	CountryCode string
	// MinLen is the minimum length required of +-prefixed input.
	// Zero accepts any +-prefixed string.
	MinLen int
}

// Normalize trims the input and returns its canonical form, or
// ErrInvalidPhone when the input matches neither accepted shape.
// Pure and total: no side effects, an answer for every input.
func (p PhonePolicy) Normalize(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	switch {
	case strings.HasPrefix(s, "+"):
		if p.MinLen > 0 && len(s) < p.MinLen {
			return "", ErrInvalidPhone
		}
		return s, nil
	case strings.HasPrefix(s, "0"):
		return p.CountryCode + s[1:], nil
	default:
		return "", ErrInvalidPhone
	}
}
