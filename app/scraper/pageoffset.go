package scraper

import (
	"fmt"
	"strings"
	"time"
)

// ComputePageOffset spreads scrape coverage across the day and week
// so repeated runs don't hammer the same listing pages. The offset
// combines a time-of-day bucket, a weekday component and the
// configured base offset.
func ComputePageOffset(now time.Time, baseOffset int) int {
	var timeSlot int
	switch hour := now.Hour(); {
	case hour < 6:
		timeSlot = 0
	case hour < 12:
		timeSlot = 1
	case hour < 18:
		timeSlot = 2
	default:
		timeSlot = 3
	}

	return timeSlot + int(now.Weekday())*2 + baseOffset
}

// BuildPageURL appends a page parameter for offsets past the first
// page.
func BuildPageURL(baseURL string, page int) string {
	if page <= 0 {
		return baseURL
	}
	if strings.Contains(baseURL, "?") {
		return fmt.Sprintf("%s&page=%d", baseURL, page)
	}
	return fmt.Sprintf("%s?page=%d", baseURL, page)
}
