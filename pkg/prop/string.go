package prop

import (
	"strings"
)

// StringConstraint is an interface to represent string constraint.
type StringConstraint interface {
	Compare(string) (float64, bool)
	Value() (string, bool)
}

// String specifies expected string.
// Any value may be selected, but matched value takes priority.
type String string

// Compare implements StringConstraint.
func (s String) Compare(a string) (float64, bool) {
	if string(s) == a {
		return 0.0, true
	}
	return 1.0, true
}

// Value implements StringConstraint.
func (s String) Value() (string, bool) { return string(s), true }

// StringExact specifies exact string.
type StringExact string

// Compare implements StringConstraint.
func (s StringExact) Compare(a string) (float64, bool) {
	if string(s) == a {
		return 0.0, true
	}
	return 1.0, false
}

// Value implements StringConstraint.
func (s StringExact) Value() (string, bool) { return string(s), true }

// StringOneOf specifies list of expected strings.
type StringOneOf []string

// Compare implements StringConstraint.
func (s StringOneOf) Compare(a string) (float64, bool) {
	for _, ss := range s {
		if ss == a {
			return 0.0, true
		}
	}
	return 1.0, false
}

// Value implements StringConstraint.
func (StringOneOf) Value() (string, bool) { return "", false }

// String implements Stringify
func (s StringOneOf) String() string {
	return strings.Join([]string(s), ",") + " (one of values)"
}
