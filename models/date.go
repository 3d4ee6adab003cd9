package models

import (
	"fmt"
	"time"
)

var dateLayouts = []string{time.RFC3339, "2006-01-02", "2006-01-02 15:04", "2006-01-02 15:04:05"}

// ParseDate accepts RFC3339 or a plain calendar date.
func ParseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q, use RFC3339 or YYYY-MM-DD", s)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func parseOptionalDate(field string, s *string, dst *time.Time) error {
	if s == nil {
		return nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	*dst = t
	return nil
}
