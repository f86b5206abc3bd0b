package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"

	"github.com/scholartrack/scholartrack/app/netutil"
)

const feedSourceDelay = 2 * time.Second

// organizationKeywords hint that the preceding word names a sponsor,
// e.g. "Acme Foundation" or "State University".
var organizationKeywords = []string{
	"university", "college", "foundation", "institute", "association", "corporation",
}

// RSSFeedScraper collects scholarships announced through RSS feeds.
// Feed entries carry far less structure than scraped pages, so items
// map to name, description, and link; the pipeline fills in defaults.
type RSSFeedScraper struct {
	fetcher       *Fetcher
	parser        *gofeed.Parser
	name          string
	feedURLs      []string
	timeout       time.Duration
	retryAttempts int
	maxResults    int
}

func NewRSSFeedScraper(fetcher *Fetcher, name string, feedURLs []string, timeout time.Duration, retryAttempts, maxResults int) *RSSFeedScraper {
	return &RSSFeedScraper{
		fetcher:       fetcher,
		parser:        gofeed.NewParser(),
		name:          name,
		feedURLs:      feedURLs,
		timeout:       timeout,
		retryAttempts: retryAttempts,
		maxResults:    maxResults,
	}
}

func (s *RSSFeedScraper) Name() string {
	return s.name
}

// Scrape fetches every configured feed. A failing feed is logged and
// skipped so one dead source does not sink the run.
func (s *RSSFeedScraper) Scrape(ctx context.Context) ([]Scholarship, error) {
	var all []Scholarship

	for i, feedURL := range s.feedURLs {
		scholarships, err := netutil.WithRetry(ctx, s.retryAttempts, func() ([]Scholarship, error) {
			return s.scrapeFeed(ctx, feedURL)
		})
		if err != nil {
			slog.Warn("Feed failed, skipping", "scraper", s.name, "url", feedURL, "error", err)
			continue
		}

		slog.Info("Feed collected", "scraper", s.name, "url", feedURL, "found", len(scholarships))
		all = append(all, scholarships...)

		if i < len(s.feedURLs)-1 {
			select {
			case <-time.After(feedSourceDelay):
			case <-ctx.Done():
				return nil, ctx.Err()
			}
		}
	}

	all = dedupeByNameAndOrg(all)
	if s.maxResults > 0 && len(all) > s.maxResults {
		all = all[:s.maxResults]
	}

	return all, nil
}

func (s *RSSFeedScraper) scrapeFeed(ctx context.Context, feedURL string) ([]Scholarship, error) {
	data, err := s.fetcher.FetchHTML(ctx, feedURL, s.timeout)
	if err != nil {
		return nil, err
	}

	feed, err := s.parser.Parse(strings.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed %s: %w", feedURL, err)
	}

	var scholarships []Scholarship
	for _, item := range feed.Items {
		if item == nil || strings.TrimSpace(item.Title) == "" {
			continue
		}

		description := item.Description
		if description == "" {
			description = item.Content
		}

		scholarships = append(scholarships, Scholarship{
			Name:         item.Title,
			Organization: extractOrganization(description + " " + item.Title),
			Description:  description,
			URL:          item.Link,
			Country:      "US",
		})
	}

	return scholarships, nil
}

// extractOrganization guesses a sponsor name from free text by taking
// the word before an organization keyword. Feeds rarely name the
// sponsor explicitly, so this stays a best-effort guess.
func extractOrganization(text string) string {
	words := strings.Fields(strings.ToLower(text))
	for i, word := range words {
		word = strings.Trim(word, ".,;:!?\"'()")
		for _, keyword := range organizationKeywords {
			if word == keyword && i > 0 {
				prev := strings.Trim(words[i-1], ".,;:!?\"'()")
				return titleCase(prev) + " " + titleCase(keyword)
			}
		}
	}
	return ""
}

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	return strings.ToUpper(word[:1]) + word[1:]
}
