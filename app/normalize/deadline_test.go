package normalize

import (
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestFormatDeadline(t *testing.T) {
	year := time.Now().Year()

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"empty passes through", "", ""},
		{"rolling passes through", "Rolling admissions", "Rolling admissions"},
		{"no deadline passes through", "No deadline given", "No deadline given"},
		{"existing year passes through", "June 30, 2025", "June 30, 2025"},
		{"month and day gains year", "June 30", fmt.Sprintf("June 30, %d", year)},
		{"bare month gains year", "December", fmt.Sprintf("December, %d", year)},
		{"numeric date gains month name", "6/30", fmt.Sprintf("June 30, %d", year)},
		{"abbreviated month gains year", "Jan 15", fmt.Sprintf("Jan 15, %d", year)},
		{"sept abbreviation gains year", "Sept 30", fmt.Sprintf("Sept 30, %d", year)},
		{"bare abbreviation gains year", "Oct", fmt.Sprintf("Oct, %d", year)},
		{"unrecognized passes through", "end of spring semester", "end of spring semester"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatDeadline(tt.input)
			if result != tt.expected {
				t.Errorf("FormatDeadline(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestParseDeadlineAbbreviatedMonths(t *testing.T) {
	tests := []struct {
		input string
		month time.Month
		day   int
	}{
		{"Jan 15, 2026", time.January, 15},
		{"Sept 30, 2026", time.September, 30},
		{"Sep 30, 2026", time.September, 30},
	}

	for _, tt := range tests {
		parsed, ok := ParseDeadline(tt.input)
		if !ok {
			t.Errorf("ParseDeadline(%q) failed to parse", tt.input)
			continue
		}
		if parsed.Month() != tt.month || parsed.Day() != tt.day {
			t.Errorf("ParseDeadline(%q) = %v, expected %v %d", tt.input, parsed, tt.month, tt.day)
		}
	}
}

func TestIsDeadlineExpired(t *testing.T) {
	now := time.Now()
	past := now.AddDate(0, 0, -30)
	future := now.AddDate(0, 0, 30)

	tests := []struct {
		name     string
		input    string
		expected bool
	}{
		{"empty never expires", "", false},
		{"rolling never expires", "Rolling", false},
		{"ongoing never expires", "Ongoing applications", false},
		{"continuous never expires", "Continuous", false},
		{"open never expires", "Open until filled", false},
		{"no deadline never expires", "No Deadline", false},
		{"unparseable never expires", "see website for details", false},
		{"past date expired", past.Format("January 2, 2006"), true},
		{"future date not expired", future.Format("January 2, 2006"), false},
		{"past iso date expired", past.Format("2006-01-02"), true},
		{"past numeric date expired", past.Format("1/2/2006"), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsDeadlineExpired(tt.input)
			if result != tt.expected {
				t.Errorf("IsDeadlineExpired(%q) = %v, expected %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestIsDeadlineExpiredGraceThroughEndOfDay(t *testing.T) {
	today := time.Now().Format("January 2, 2006")

	if IsDeadlineExpired(today) {
		t.Errorf("Deadline %q should remain valid through the end of its day", today)
	}
}

func TestCaseInsensitiveMarkers(t *testing.T) {
	for _, deadline := range []string{"ROLLING", "rolling", "Rolling Basis"} {
		if IsDeadlineExpired(deadline) {
			t.Errorf("IsDeadlineExpired(%q) should be false", deadline)
		}
		if !strings.Contains(FormatDeadline(deadline), "olling") {
			t.Errorf("FormatDeadline(%q) should pass through unchanged", deadline)
		}
	}
}
