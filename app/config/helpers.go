package config

import (
	"time"
)

// GetScrapeInterval returns the scrape interval as time.Duration
func (s *WebsiteSettings) GetScrapeInterval() time.Duration {
	if s.ScrapeInterval <= 0 {
		return 86400 * time.Second // default 24 hours
	}
	return time.Duration(s.ScrapeInterval) * time.Second
}

// GetTimeout returns the timeout as time.Duration
func (s *WebsiteSettings) GetTimeout() time.Duration {
	if s.Timeout <= 0 {
		return 30 * time.Second // default 30 seconds
	}
	return time.Duration(s.Timeout) * time.Second
}
