package normalize

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	yearRe      = regexp.MustCompile(`\d{4}`)
	monthPattern = `january|february|march|april|may|june|july|august|september|october|november|december|jan|feb|mar|apr|jun|jul|aug|sept?|oct|nov|dec`
	monthDayRe   = regexp.MustCompile(`(?i)^(` + monthPattern + `)\s+(\d{1,2})$`)
	monthOnlyRe  = regexp.MustCompile(`(?i)^(` + monthPattern + `)$`)
	numericRe    = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})$`)
	septRe       = regexp.MustCompile(`(?i)^sept\b`)
)

var monthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// openEndedMarkers flag deadlines that never expire.
var openEndedMarkers = []string{"rolling", "no deadline", "ongoing", "continuous", "open"}

// FormatDeadline appends the current year to deadlines that lack one,
// so "June 30" becomes "June 30, 2026". Open-ended deadlines and
// deadlines that already carry a year pass through unchanged.
func FormatDeadline(deadline string) string {
	if deadline == "" {
		return deadline
	}

	lower := strings.ToLower(deadline)
	if strings.Contains(lower, "no deadline") || strings.Contains(lower, "rolling") {
		return deadline
	}
	if yearRe.MatchString(deadline) {
		return deadline
	}

	trimmed := strings.TrimSpace(deadline)
	year := time.Now().Year()

	if monthDayRe.MatchString(trimmed) {
		return fmt.Sprintf("%s, %d", trimmed, year)
	}
	if monthOnlyRe.MatchString(trimmed) {
		return fmt.Sprintf("%s, %d", trimmed, year)
	}
	if m := numericRe.FindStringSubmatch(trimmed); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		if month >= 1 && month <= 12 {
			return fmt.Sprintf("%s %d, %d", monthNames[month-1], day, year)
		}
	}

	return deadline
}

var deadlineLayouts = []string{
	"January 2, 2006",
	"January 2 2006",
	"Jan 2, 2006",
	"Jan 2 2006",
	"January, 2006",
	"Jan, 2006",
	"1/2/2006",
	"01/02/2006",
	"2006-01-02",
	"2 January 2006",
}

// IsDeadlineExpired reports whether a deadline has passed. Open-ended
// and unparseable deadlines are never considered expired. A deadline
// counts as valid through the end of its day in local time.
func IsDeadlineExpired(deadline string) bool {
	if strings.TrimSpace(deadline) == "" {
		return false
	}

	lower := strings.ToLower(deadline)
	for _, marker := range openEndedMarkers {
		if strings.Contains(lower, marker) {
			return false
		}
	}

	parsed, ok := ParseDeadline(strings.TrimSpace(deadline))
	if !ok {
		return false
	}

	endOfDay := time.Date(parsed.Year(), parsed.Month(), parsed.Day(), 23, 59, 59, 999000000, time.Local)

	return endOfDay.Before(time.Now())
}

// ParseDeadline parses a normalized deadline string, trying the known
// layouts in order. "Sept" is folded to the three-letter form Go's
// layouts understand.
func ParseDeadline(deadline string) (time.Time, bool) {
	deadline = septRe.ReplaceAllString(deadline, "Sep")
	for _, layout := range deadlineLayouts {
		if parsed, err := time.ParseInLocation(layout, deadline, time.Local); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
