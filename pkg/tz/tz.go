package tz

import (
	"fmt"
	"strings"
	"time"
)

// Layout is the canonical format used in prompts and suggestions.
const Layout = "2006-01-02 15:04"

var layouts = []string{
	Layout,
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"02/01/2006 15:04",
}

// Load resolves an IANA zone name; the empty name means UTC.
func Load(name string) (*time.Location, error) {
	if strings.TrimSpace(name) == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return nil, fmt.Errorf("tz: load %s: %w", name, err)
	}
	return loc, nil
}

// Parse reads a wall-clock date/time in loc. RFC 3339 input keeps its own offset.
func Parse(s string, loc *time.Location) (time.Time, error) {
	s = strings.Join(strings.Fields(s), " ")
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("tz: cannot parse %q", s)
}

// Format renders t in loc using Layout.
func Format(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(Layout)
}

// NextHour is the first full hour strictly after now, in loc.
func NextHour(now time.Time, loc *time.Location) time.Time {
	t := now.In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour()+1, 0, 0, 0, loc)
}
