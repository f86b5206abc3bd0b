package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/scholartrack/scholartrack/app/archive"
	"github.com/scholartrack/scholartrack/app/netutil"
	"github.com/scholartrack/scholartrack/app/normalize"
)

// CollegeScholarshipsScraper scrapes listing rows from
// collegescholarships.org and optionally fetches per-scholarship
// detail pages.
type CollegeScholarshipsScraper struct {
	fetcher  *Fetcher
	archiver archive.Archiver

	url           string
	baseOffset    int
	maxResults    int
	timeout       time.Duration
	detailTimeout time.Duration
	retryAttempts int
	fetchDetails  bool
	budget        time.Duration
}

type CollegeScholarshipsOptions struct {
	URL           string
	BaseOffset    int
	MaxResults    int
	Timeout       time.Duration
	DetailTimeout time.Duration
	RetryAttempts int
	FetchDetails  bool
	Budget        time.Duration
}

func NewCollegeScholarshipsScraper(fetcher *Fetcher, archiver archive.Archiver, opts CollegeScholarshipsOptions) *CollegeScholarshipsScraper {
	if opts.Budget <= 0 {
		opts.Budget = 50 * time.Minute
	}
	return &CollegeScholarshipsScraper{
		fetcher:       fetcher,
		archiver:      archiver,
		url:           opts.URL,
		baseOffset:    opts.BaseOffset,
		maxResults:    opts.MaxResults,
		timeout:       opts.Timeout,
		detailTimeout: opts.DetailTimeout,
		retryAttempts: opts.RetryAttempts,
		fetchDetails:  opts.FetchDetails,
		budget:        opts.Budget,
	}
}

func (s *CollegeScholarshipsScraper) Name() string {
	return "CollegeScholarships"
}

func (s *CollegeScholarshipsScraper) Scrape(ctx context.Context) ([]Scholarship, error) {
	start := time.Now()

	page := ComputePageOffset(time.Now(), s.baseOffset)
	url := BuildPageURL(s.url, page)

	html, err := netutil.WithRetry(ctx, s.retryAttempts, func() (string, error) {
		return s.fetcher.FetchHTML(ctx, url, s.timeout)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	if key, err := s.archiver.Store(s.Name(), fmt.Sprintf("page-%d", page), url, html); err != nil {
		slog.Warn("Failed to archive listing page", "url", url, "error", err)
	} else if key != "" {
		slog.Debug("Archived listing page", "key", key)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	scholarships := s.parseListing(doc)

	slog.Info("Parsed listing page", "scraper", s.Name(), "url", url, "found", len(scholarships))

	if s.fetchDetails {
		s.enrichFromDetailPages(ctx, scholarships, start)
	}

	return scholarships, nil
}

// parseListing extracts scholarships from the listing rows. Rows
// without both a summary and a description block are navigation
// chrome and get skipped.
func (s *CollegeScholarshipsScraper) parseListing(doc *goquery.Document) []Scholarship {
	var scholarships []Scholarship

	doc.Find(".row").EachWithBreak(func(i int, row *goquery.Selection) bool {
		summary := row.Find(".scholarship-summary")
		description := row.Find(".scholarship-description")
		if summary.Length() == 0 || description.Length() == 0 {
			return true
		}

		titleLink := description.Find("h4 a").First()
		title := strings.TrimSpace(titleLink.Text())
		link, _ := titleLink.Attr("href")

		// "Find Scholarships" rows are site search prompts, not listings
		if title == "" || strings.Contains(title, "Find Scholarships") {
			return true
		}

		amountText := strings.TrimSpace(summary.Find(".lead strong").First().Text())
		if amountText == "" {
			amountText = "Amount varies"
		}
		award := normalize.ParseAmount(normalize.CleanAmount(amountText))

		deadline := strings.TrimSpace(summary.Find("p").Last().Find("strong").Text())
		if deadline == "" {
			deadline = "No deadline specified"
		}

		descText := strings.TrimSpace(description.Find("p").Not(".visible-xs").First().Text())

		var eligibilityItems, academicLevelItems, geographicItems []string
		description.Find("ul.fa-ul li").Each(func(j int, li *goquery.Selection) {
			text := strings.TrimSpace(li.Find(".trim").Text())
			if text == "" || strings.Contains(text, "No Geographic Restrictions") {
				return
			}

			iconClasses, _ := li.Find("i").First().Attr("class")
			switch {
			case strings.Contains(iconClasses, "fa-map-marker"):
				geographicItems = append(geographicItems, text)
			case strings.Contains(iconClasses, "fa-graduation-cap"):
				academicLevelItems = append(academicLevelItems, text)
			default:
				eligibilityItems = append(eligibilityItems, text)
			}
		})

		eligibility := strings.Join(eligibilityItems, " | ")
		classifyText := fmt.Sprintf("%s %s %s", title, descText, eligibility)

		scholarships = append(scholarships, Scholarship{
			Name:                   title,
			URL:                    link,
			Description:            descText,
			Eligibility:            eligibility,
			Deadline:               deadline,
			AcademicLevel:          strings.Join(academicLevelItems, " | "),
			GeographicRestrictions: strings.Join(geographicItems, " | "),
			TargetType:             targetTypeOrBoth(classifyText),
			Ethnicity:              normalize.ExtractEthnicity(classifyText),
			Gender:                 normalize.ExtractGender(classifyText),
			MinAward:               award,
			MaxAward:               award,
			Country:                "US",
		})

		return len(scholarships) < s.maxResults
	})

	return scholarships
}

const (
	detailBatchSize          = 2
	detailBatchDelay         = 100 * time.Millisecond
	maxConsecutiveDetailErrs = 5
)

// enrichFromDetailPages fetches detail pages in small batches. Gives
// up on remaining detail fetches after five consecutive failures or
// when the time budget runs out; the listing data already collected
// still gets persisted.
func (s *CollegeScholarshipsScraper) enrichFromDetailPages(ctx context.Context, scholarships []Scholarship, start time.Time) {
	consecutiveErrs := 0

	for i := 0; i < len(scholarships); i += detailBatchSize {
		if elapsed := time.Since(start); elapsed > s.budget {
			slog.Warn("Time budget exhausted, skipping remaining detail fetches",
				"elapsed", elapsed, "remaining", len(scholarships)-i)
			return
		} else if elapsed > s.budget*8/10 {
			slog.Warn("Approaching time budget", "elapsed", elapsed)
		}

		end := min(i+detailBatchSize, len(scholarships))
		for j := i; j < end; j++ {
			if consecutiveErrs >= maxConsecutiveDetailErrs {
				slog.Warn("Too many consecutive detail failures, skipping remaining detail fetches")
				return
			}
			if !strings.HasPrefix(scholarships[j].URL, "http") {
				continue
			}

			if err := s.fetchDetail(ctx, &scholarships[j]); err != nil {
				consecutiveErrs++
				slog.Warn("Failed to fetch scholarship details",
					"name", scholarships[j].Name, "error", err,
					"consecutive_errors", consecutiveErrs)
				continue
			}
			consecutiveErrs = 0
		}

		if end < len(scholarships) {
			select {
			case <-time.After(detailBatchDelay):
			case <-ctx.Done():
				return
			}
		}
	}
}

// fetchDetail fills in fields only available on the scholarship's own
// page.
func (s *CollegeScholarshipsScraper) fetchDetail(ctx context.Context, sch *Scholarship) error {
	doc, err := s.fetcher.FetchDocument(ctx, sch.URL, s.detailTimeout)
	if err != nil {
		return err
	}

	if desc := strings.TrimSpace(doc.Find("#description p").First().Text()); desc != "" {
		sch.Description = desc
	}

	doc.Find("#scholarship-view .callout-details dl dt").Each(func(i int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.NextFiltered("dd").Text())

		switch label {
		case "deadline:":
			sch.Deadline = value
		case "renewable":
			lower := strings.ToLower(value)
			sch.Renewable = strings.Contains(lower, "yes") || strings.Contains(lower, "renewable")
		case "min. award:":
			sch.MinAward = normalize.ParseAmount(normalize.CleanAmount(value))
		case "max. award:":
			sch.MaxAward = normalize.ParseAmount(normalize.CleanAmount(value))
		}
	})

	doc.Find("#scholarship-view .callout-misc dl dt").Each(func(i int, dt *goquery.Selection) {
		label := strings.ToLower(strings.TrimSpace(dt.Text()))
		value := strings.TrimSpace(dt.NextFiltered("dd").Text())

		switch label {
		case "enrollment level:":
			sch.AcademicLevel = value
		case "country:":
			sch.Country = normalize.CleanText(value, normalize.CleanOptions{Quotes: true})
		case "major:":
			sch.Eligibility = normalize.CleanText(value, normalize.CleanOptions{Quotes: true})
		}
	})

	if sponsor := strings.TrimSpace(doc.Find(".sponsor p").First().Text()); sponsor != "" {
		firstLine := strings.SplitN(sponsor, "\n", 2)[0]
		sch.Organization = normalize.CleanText(firstLine, normalize.CleanOptions{Quotes: true})
	}

	if applyURL, ok := doc.Find(`#description a[href*=".pdf"], #description a[href*="apply"], #description a[href*="application"]`).First().Attr("href"); ok {
		sch.ApplyURL = applyURL
	}

	return nil
}

// targetTypeOrBoth maps unclassifiable text to "Both" so the target
// type filter never hides a scholarship we could not classify.
func targetTypeOrBoth(text string) string {
	if t := normalize.DetermineTargetType(text); t != "Not specified" {
		return t
	}
	return "Both"
}
