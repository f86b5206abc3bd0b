package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/scholartrack/scholartrack/app/crawl"
	"github.com/scholartrack/scholartrack/app/llm"
	"github.com/scholartrack/scholartrack/app/netutil"
	"github.com/scholartrack/scholartrack/app/normalize"
)

// urlKeywords mark a URL as scholarship-relevant on its own.
var urlKeywords = []string{
	"scholarship", "award", "grant", "financial-aid", "student",
	"education", "academic", "tuition", "funding", "opportunity",
}

// contentKeywords mark page text as scholarship-related; the page
// also needs application language before it is worth extracting.
var contentKeywords = []string{
	"scholarship", "award", "grant", "financial aid", "student funding",
}

const (
	extractBatchSize    = 5
	extractBatchDelay   = time.Second
	extractContentLimit = 3000
)

// CrawlExtractOptions scope one crawl-and-extract run
type CrawlExtractOptions struct {
	Name           string
	StartURL       string
	MaxPages       int
	AllowedDomains []string
	BlockedDomains []string
	AllowedPaths   []string
	BlockedPaths   []string
	RetryAttempts  int
}

// CrawlExtractScraper crawls a website through the crawl service,
// keeps the pages that look like scholarship listings, and asks a
// language model to pull structured scholarships out of each one.
type CrawlExtractScraper struct {
	crawler *crawl.Client
	client  llm.Client
	limiter *netutil.RateLimiter
	opts    CrawlExtractOptions
}

func NewCrawlExtractScraper(crawler *crawl.Client, client llm.Client, limiter *netutil.RateLimiter, opts CrawlExtractOptions) *CrawlExtractScraper {
	if opts.MaxPages <= 0 {
		opts.MaxPages = 50
	}
	return &CrawlExtractScraper{
		crawler: crawler,
		client:  client,
		limiter: limiter,
		opts:    opts,
	}
}

func (s *CrawlExtractScraper) Name() string {
	if s.opts.Name != "" {
		return s.opts.Name
	}
	return "CrawlExtract"
}

func (s *CrawlExtractScraper) Scrape(ctx context.Context) ([]Scholarship, error) {
	jobID, err := s.crawler.Submit(ctx, crawl.Request{
		StartURL:       s.opts.StartURL,
		MaxPages:       s.opts.MaxPages,
		AllowedDomains: s.opts.AllowedDomains,
		BlockedDomains: s.opts.BlockedDomains,
		AllowedPaths:   s.opts.AllowedPaths,
		BlockedPaths:   s.opts.BlockedPaths,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to submit crawl for %s: %w", s.opts.StartURL, err)
	}

	slog.Info("Crawl submitted", "scraper", s.Name(), "job_id", jobID, "start_url", s.opts.StartURL)

	status, err := s.crawler.WaitForCompletion(ctx, jobID)
	if err != nil {
		return nil, fmt.Errorf("crawl did not complete: %w", err)
	}

	var relevant []crawl.Page
	for _, page := range status.Pages {
		if isScholarshipPage(page.URL, page.Content) {
			relevant = append(relevant, page)
		}
	}

	slog.Info("Crawl completed", "scraper", s.Name(),
		"pages", len(status.Pages), "relevant", len(relevant))

	return s.extractPages(ctx, relevant)
}

// extractPages runs the model over relevant pages in small batches so
// a long crawl does not hammer the model endpoint.
func (s *CrawlExtractScraper) extractPages(ctx context.Context, pages []crawl.Page) ([]Scholarship, error) {
	var all []Scholarship

	for start := 0; start < len(pages); start += extractBatchSize {
		end := min(start+extractBatchSize, len(pages))

		for _, page := range pages[start:end] {
			scholarships, err := netutil.WithRetry(ctx, s.opts.RetryAttempts, func() ([]Scholarship, error) {
				return s.extractPage(ctx, page)
			})
			if err != nil {
				slog.Warn("Page extraction failed, skipping", "url", page.URL, "error", err)
				continue
			}
			if len(scholarships) == 0 {
				continue
			}
			all = append(all, scholarships...)
		}

		if end < len(pages) {
			select {
			case <-time.After(extractBatchDelay):
			case <-ctx.Done():
				return all, ctx.Err()
			}
		}
	}

	return dedupeByNameAndOrg(all), nil
}

func (s *CrawlExtractScraper) extractPage(ctx context.Context, page crawl.Page) ([]Scholarship, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	content := reduceToText(page)

	response, err := s.client.Complete(ctx, buildExtractPrompt(page.URL, page.Title, content))
	if err != nil {
		return nil, err
	}

	return parseExtractResponse(response, page.URL)
}

// reduceToText strips a crawled page down to readable article text.
// When readability finds nothing the raw content is used as-is.
func reduceToText(page crawl.Page) string {
	content := page.Content
	if article, err := readability.FromReader(strings.NewReader(page.Content), nil); err == nil && article.TextContent != "" {
		content = article.TextContent
	}

	content = strings.Join(strings.Fields(content), " ")
	if len(content) > extractContentLimit {
		content = content[:extractContentLimit]
	}
	return content
}

func buildExtractPrompt(url, title, content string) string {
	return fmt.Sprintf(`Extract scholarship information from this webpage content.

URL: %s
Page Title: %s

Content: %s

Extract ALL scholarship opportunities mentioned on this page. Return as JSON array:

[
  {
    "title": "scholarship title",
    "organization": "organization name",
    "description": "brief description",
    "award_amount": "award amount (e.g., $1000, $500-$2000, varies)",
    "deadline": "application deadline",
    "eligibility": "eligibility requirements",
    "academic_level": "undergraduate/graduate/high school",
    "geographic_restrictions": "geographic limitations if any",
    "application_url": "application URL if mentioned"
  }
]

If no scholarships found, return empty array []. Be accurate and don't make up information.`, url, title, content)
}

func parseExtractResponse(response, pageURL string) ([]Scholarship, error) {
	raw, ok := llm.ExtractJSON(response)
	if !ok {
		return nil, fmt.Errorf("no JSON found in model response")
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("failed to parse model JSON: %w", err)
	}

	var scholarships []Scholarship
	for _, entry := range entries {
		name := stringField(entry, "title", "name", "scholarship_name")
		if name == "" {
			continue
		}

		description := stringField(entry, "description", "purpose")
		eligibility := stringField(entry, "eligibility", "requirements", "qualifications")
		classifyText := fmt.Sprintf("%s %s %s", name, description, eligibility)

		amount := amountField(entry, "award_amount", "amount", "min_amount")

		scholarships = append(scholarships, Scholarship{
			Name:                   name,
			Organization:           stringField(entry, "organization", "sponsor"),
			Description:            description,
			Eligibility:            eligibility,
			Deadline:               stringField(entry, "deadline", "application_deadline"),
			URL:                    pageURL,
			ApplyURL:               stringField(entry, "application_url", "apply_url"),
			AcademicLevel:          stringField(entry, "academic_level", "level_of_study"),
			GeographicRestrictions: stringField(entry, "geographic_restrictions", "location"),
			TargetType:             targetTypeOrBoth(classifyText),
			Ethnicity:              normalize.ExtractEthnicity(classifyText),
			Gender:                 normalize.ExtractGender(classifyText),
			MinAward:               amount,
			MaxAward:               maxAwardField(entry, amount),
		})
	}

	return scholarships, nil
}

func maxAwardField(entry map[string]interface{}, fallback float64) float64 {
	if amount := amountField(entry, "max_amount"); amount > 0 {
		return amount
	}
	return fallback
}

// isScholarshipPage decides whether a crawled page is worth sending
// to the model. Either the URL itself looks scholarship-related, or
// the content mentions scholarships alongside application language
// and at least one concrete detail.
func isScholarshipPage(url, content string) bool {
	urlLower := strings.ToLower(url)
	for _, keyword := range urlKeywords {
		if strings.Contains(urlLower, keyword) {
			return true
		}
	}

	contentLower := strings.ToLower(content)
	hasKeyword := false
	for _, keyword := range contentKeywords {
		if strings.Contains(contentLower, keyword) {
			hasKeyword = true
			break
		}
	}
	if !hasKeyword || !strings.Contains(contentLower, "apply") {
		return false
	}

	return strings.Contains(contentLower, "deadline") ||
		strings.Contains(contentLower, "amount") ||
		strings.Contains(contentLower, "eligibility")
}
