package utils

import (
	"fmt"
	"strings"
	"time"
)

// Accepted textual timestamp forms, most specific first. Clients have sent
// all of these for the same instant, so comparisons must go through the
// parsed value, never the raw string.
var timeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseFlexibleTime parses a timestamp in any accepted textual form.
func ParseFlexibleTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", s)
}

// FormatTimePtr renders a nullable timestamp for history payloads.
func FormatTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return t.UTC().Format(time.RFC3339)
}

// EqualTimePtr compares two nullable instants, ignoring textual form and
// location.
func EqualTimePtr(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == b
	}
	return a.Equal(*b)
}
