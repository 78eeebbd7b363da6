package core

import (
	"errors"
	"strings"
)

// Category is one of the fixed expense classifications.
type Category string

const (
	Food          Category = "food"
	Transport     Category = "transport"
	Utilities     Category = "utilities"
	Entertainment Category = "entertainment"
	Other         Category = "other"
)

// Categories lists every recognized category in display order.
var Categories = []Category{Food, Transport, Utilities, Entertainment, Other}

var ErrUnknownCategory = errors.New("unknown category")

// IsKnown reports whether c is one of the recognized categories.
func (c Category) IsKnown() bool {
	switch c {
	case Food, Transport, Utilities, Entertainment, Other:
		return true
	default:
		return false
	}
}

// Label returns the capitalized name used in chart legends.
func (c Category) Label() string {
	if c == "" {
		return ""
	}
	s := string(c)
	return strings.ToUpper(s[:1]) + s[1:]
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory normalizes s and checks it against the recognized set.
// The normalized value is returned even when unknown so callers that
// tolerate foreign categories can still store it.
func ParseCategory(s string) (Category, error) {
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !c.IsKnown() {
		return c, ErrUnknownCategory
	}
	return c, nil
}
