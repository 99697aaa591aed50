package util

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// quarterPattern matches fiscal period labels like 2020Q1 or 2020-Q3.
var quarterPattern = regexp.MustCompile(`^(\d{4})[-\s]?[Qq]([1-4])$`)

// dateLayouts are tried in order when a cell is not a plain number.
var dateLayouts = []string{
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"2006-01",
	"2006/01",
	"01/02/2006",
	"02-Jan-2006",
	"Jan 2006",
	"January 2006",
	"2006",
}

// ParseTime tries RFC3339, common calendar layouts, quarter labels and unix seconds.
// Returns (t, true) if any worked.
func ParseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	if m := quarterPattern.FindStringSubmatch(s); m != nil {
		year, _ := strconv.Atoi(m[1])
		q, _ := strconv.Atoi(m[2])
		return time.Date(year, time.Month((q-1)*3+1), 1, 0, 0, 0, 0, time.UTC), true
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	// 10+ digits only, so that bare years stay years.
	if len(s) >= 10 {
		if ts, err := strconv.ParseInt(s, 10, 64); err == nil && ts > 0 {
			return time.Unix(ts, 0).UTC(), true
		}
	}
	return time.Time{}, false
}

// ParseYear extracts the calendar year from a date-like cell.
func ParseYear(s string) (int, bool) {
	t, ok := ParseTime(s)
	if !ok {
		return 0, false
	}
	return t.Year(), true
}
