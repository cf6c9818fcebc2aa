package recurrence

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// The raw frequency value column is polymorphic: depending on the
// frequency kind it holds a day-of-month, a weekday index, or a date.
// The helpers below resolve it to a typed parameter once, at the engine's
// dispatch boundary, so the strategies never re-parse strings.

// valueLayouts are the accepted shapes of date-like frequency values.
// Upstream editors have stored bare dates, full timestamps and RFC 3339.
var valueLayouts = []string{dateLayout, timestampLayout, time.RFC3339}

// normalizeDate reduces a raw date-like value to YYYY-MM-DD.
// Empty strings, the zero-date sentinel and unparseable values normalize
// to "" (absent).
func normalizeDate(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" || s == "0000-00-00" {
		return ""
	}
	for _, layout := range valueLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(dateLayout)
		}
	}
	return ""
}

// parseDayOfMonth resolves a target day-of-month in 1..31.
func parseDayOfMonth(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty day of month")
	}
	day, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("day of month %q is not an integer", raw)
	}
	if day < 1 || day > 31 {
		return 0, fmt.Errorf("day of month %d out of range", day)
	}
	return day, nil
}

// parseWeekday resolves a target weekday in the legacy Sunday=0..Saturday=6
// convention carried over from the external billing system.
func parseWeekday(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, fmt.Errorf("empty day of week")
	}
	day, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("day of week %q is not an integer", raw)
	}
	if day < 0 || day > 6 {
		return 0, fmt.Errorf("day of week %d out of range", day)
	}
	return day, nil
}

// parseAnchor resolves a "Starting From" anchor date.
func parseAnchor(raw string) (time.Time, error) {
	s := normalizeDate(raw)
	if s == "" {
		return time.Time{}, fmt.Errorf("anchor date %q is not a date", raw)
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("anchor date %q is not a date", raw)
	}
	return t, nil
}
