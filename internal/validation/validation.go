package validation

import (
	"regexp"
	"strings"
)

var (
	peselRe = regexp.MustCompile(`^\d{11}$`)
	emailRe = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	phoneRe = regexp.MustCompile(`^\+?\d{9,15}$`)
)

type Violations map[string]string

func (v Violations) Empty() bool { return len(v) == 0 }

// First returns one violation in "field: reason" form, the API reports
// a single violation per failed request.
func (v Violations) First() string {
	for field, reason := range v {
		return field + ": " + reason
	}
	return ""
}

func Required(field, value string, v Violations) {
	if strings.TrimSpace(value) == "" {
		v[field] = "required"
	}
}

func Pesel(field, value string, v Violations) {
	if !peselRe.MatchString(value) {
		v[field] = "must be exactly 11 digits"
	}
}

func Email(field, value string, v Violations) {
	if value != "" && !emailRe.MatchString(value) {
		v[field] = "invalid email"
	}
}

func Phone(field, value string, v Violations) {
	if value != "" && !phoneRe.MatchString(value) {
		v[field] = "invalid phone number"
	}
}

func OneOf(field, value string, allowed []string, v Violations) {
	for _, a := range allowed {
		if value == a {
			return
		}
	}
	v[field] = "must be one of: " + strings.Join(allowed, ", ")
}

func MinLen(field, value string, min int, v Violations) {
	if len(value) < min {
		v[field] = "too short"
	}
}
