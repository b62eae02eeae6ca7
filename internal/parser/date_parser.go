package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var daysAgoRegex = regexp.MustCompile(`^(\d+)\s+(day|days)\s+ago$`)

// ParseCreatedOn parses the created-on date of an incident
// Supported formats:
// - yyyy-mm-dd (e.g., "2025-08-30")
// - dd/mm/yyyy (e.g., "30/08/2025")
// - "today", "yesterday"
// - X days ago (e.g., "3 days ago")
// Empty input means today.
func ParseCreatedOn(input string, now time.Time) (time.Time, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	today := StartOfDay(now)

	switch input {
	case "", "today":
		return today, nil
	case "yesterday":
		return today.AddDate(0, 0, -1), nil
	}

	if t, err := time.ParseInLocation("2006-01-02", input, now.Location()); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("02/01/2006", input, now.Location()); err == nil {
		return t, nil
	}

	matches := daysAgoRegex.FindStringSubmatch(input)
	if len(matches) == 3 {
		amount, err := strconv.Atoi(matches[1])
		if err != nil || amount > 3650 {
			return time.Time{}, fmt.Errorf("invalid number of days: %s", matches[1])
		}
		return today.AddDate(0, 0, -amount), nil
	}

	return time.Time{}, fmt.Errorf("invalid date %q. Use: yyyy-mm-dd, dd/mm/yyyy, today, yesterday or X days ago", input)
}

// StartOfDay truncates a time to midnight in its own location
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// StartOfWeek returns Monday 00:00 of the calendar week containing t
func StartOfWeek(t time.Time) time.Time {
	daysFromMonday := int(t.Weekday() - time.Monday)
	if t.Weekday() == time.Sunday {
		daysFromMonday = 6
	}
	return StartOfDay(t.AddDate(0, 0, -daysFromMonday))
}

// FormatDuration formats a duration in a human-readable way
func FormatDuration(d time.Duration) string {
	if d.Hours() >= 1 {
		return fmt.Sprintf("%.1fh", d.Hours())
	} else if d.Minutes() >= 1 {
		return fmt.Sprintf("%.0fm", d.Minutes())
	}
	return fmt.Sprintf("%.0fs", d.Seconds())
}
