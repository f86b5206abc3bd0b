package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/scholartrack/scholartrack/app/archive"
	"github.com/scholartrack/scholartrack/app/netutil"
	"github.com/scholartrack/scholartrack/app/normalize"
)

const careerOneStopBase = "https://www.careeronestop.org"

var (
	organizationRe = regexp.MustCompile(`(?i)Organization:\s*(.+?)(?:\n|<br>|Purposes:)`)
	purposesRe     = regexp.MustCompile(`(?i)Purposes:\s*(.+?)$`)
	applyURLRe     = regexp.MustCompile(`https?://\S+`)
)

// CareerOneStopScraper scrapes the tabular scholarship listing on
// careeronestop.org and enriches rows from their detail pages.
type CareerOneStopScraper struct {
	fetcher  *Fetcher
	archiver archive.Archiver

	url           string
	baseOffset    int
	maxResults    int
	timeout       time.Duration
	detailTimeout time.Duration
	retryAttempts int
}

type CareerOneStopOptions struct {
	URL           string
	BaseOffset    int
	MaxResults    int
	Timeout       time.Duration
	DetailTimeout time.Duration
	RetryAttempts int
}

func NewCareerOneStopScraper(fetcher *Fetcher, archiver archive.Archiver, opts CareerOneStopOptions) *CareerOneStopScraper {
	return &CareerOneStopScraper{
		fetcher:       fetcher,
		archiver:      archiver,
		url:           opts.URL,
		baseOffset:    opts.BaseOffset,
		maxResults:    opts.MaxResults,
		timeout:       opts.Timeout,
		detailTimeout: opts.DetailTimeout,
		retryAttempts: opts.RetryAttempts,
	}
}

func (s *CareerOneStopScraper) Name() string {
	return "CareerOneStop"
}

func (s *CareerOneStopScraper) Scrape(ctx context.Context) ([]Scholarship, error) {
	page := ComputePageOffset(time.Now(), s.baseOffset)
	url := BuildPageURL(s.url, page)

	html, err := netutil.WithRetry(ctx, s.retryAttempts, func() (string, error) {
		return s.fetcher.FetchHTML(ctx, url, s.timeout)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch listing page: %w", err)
	}

	if _, err := s.archiver.Store(s.Name(), fmt.Sprintf("page-%d", page), url, html); err != nil {
		slog.Warn("Failed to archive listing page", "url", url, "error", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse listing page: %w", err)
	}

	scholarships := s.parseListing(doc)

	slog.Info("Parsed listing page", "scraper", s.Name(), "url", url, "found", len(scholarships))

	for i := range scholarships {
		if scholarships[i].URL == "" {
			continue
		}
		if err := s.fetchDetail(ctx, &scholarships[i]); err != nil {
			slog.Warn("Failed to fetch scholarship details",
				"name", scholarships[i].Name, "url", scholarships[i].URL, "error", err)
		}
	}

	return scholarships, nil
}

// parseListing reads the five-column listing table: award name,
// level of study, award type, amount, deadline. Non-scholarship award
// types (fellowships, loans, grants) are skipped.
func (s *CareerOneStopScraper) parseListing(doc *goquery.Document) []Scholarship {
	var scholarships []Scholarship

	doc.Find("table tr").EachWithBreak(func(i int, row *goquery.Selection) bool {
		cells := row.Find("td")
		if cells.Length() < 5 {
			return true
		}

		nameCell := cells.Eq(0)
		levelCell := cells.Eq(1)
		typeCell := cells.Eq(2)
		amountCell := cells.Eq(3)
		deadlineCell := cells.Eq(4)

		awardType := strings.TrimSpace(typeCell.Text())
		if !strings.Contains(strings.ToLower(awardType), "scholarship") {
			return true
		}

		link := nameCell.Find("a").First()
		title := strings.TrimSpace(link.Text())
		if title == "" {
			title = strings.TrimSpace(nameCell.Find(".detailPageLink").Text())
		}
		// The header row repeats inside tbody on this site
		if title == "" || title == "Award Name" {
			return true
		}

		nameText := nameCell.Text()

		var organization string
		if m := organizationRe.FindStringSubmatch(nameText); m != nil {
			firstLine := strings.SplitN(strings.TrimSpace(m[1]), "\n", 2)[0]
			organization = normalize.CleanText(firstLine, normalize.CleanOptions{Quotes: true})
		}

		var purposes string
		if m := purposesRe.FindStringSubmatch(nameText); m != nil {
			purposes = strings.TrimSpace(m[1])
		}

		detailURL, _ := link.Attr("href")
		if detailURL != "" && !strings.HasPrefix(detailURL, "http") {
			detailURL = careerOneStopBase + detailURL
		}

		amountText := strings.TrimSpace(amountCell.Find(".table-Numeric").Text())
		if amountText == "" {
			amountText = strings.TrimSpace(amountCell.Text())
		}
		if amountText == "" {
			amountText = "Amount not specified"
		}
		award := normalize.ParseAmount(normalize.CleanAmount(amountText))

		deadline := strings.TrimSpace(deadlineCell.Text())
		if deadline == "" {
			deadline = "No deadline specified"
		}

		description := purposes
		if description == "" {
			if organization != "" {
				description = fmt.Sprintf("Scholarship offered by %s", organization)
			} else {
				description = "Scholarship offered by CareerOneStop database"
			}
		}

		classifyText := fmt.Sprintf("%s %s %s", title, description, purposes)

		scholarships = append(scholarships, Scholarship{
			Name:          title,
			Organization:  organization,
			Description:   description,
			Deadline:      deadline,
			URL:           detailURL,
			AcademicLevel: strings.Join(strings.Fields(levelCell.Text()), " "),
			TargetType:    targetTypeOrBoth(classifyText),
			Ethnicity:     normalize.ExtractEthnicity(classifyText),
			Gender:        normalize.ExtractGender(classifyText),
			MinAward:      award,
			MaxAward:      award,
			Country:       "United States",
		})

		return len(scholarships) < s.maxResults
	})

	return scholarships
}

// fetchDetail reads the label/value table on a scholarship's detail
// page and archives the raw HTML.
func (s *CareerOneStopScraper) fetchDetail(ctx context.Context, sch *Scholarship) error {
	html, err := s.fetcher.FetchHTML(ctx, sch.URL, s.detailTimeout)
	if err != nil {
		return err
	}

	if _, err := s.archiver.Store(s.Name(), detailPageID(sch.URL), sch.URL, html); err != nil {
		slog.Warn("Failed to archive detail page", "url", sch.URL, "error", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return fmt.Errorf("failed to parse detail page: %w", err)
	}

	doc.Find("#scholarshipDetailContent table tr").Each(func(i int, row *goquery.Selection) {
		cells := row.Find("td")
		label := strings.ToLower(strings.TrimSpace(cells.First().Text()))
		value := strings.TrimSpace(cells.Last().Text())
		if value == "" {
			return
		}

		switch label {
		case "organization":
			sch.Organization = value
		case "level of study":
			sch.AcademicLevel = value
		case "qualifications":
			sch.Eligibility = value
		case "funds":
			if award := normalize.ParseAmount(normalize.CleanAmount(value)); award > 0 {
				sch.MinAward = award
				sch.MaxAward = award
			}
		case "duration":
			lower := strings.ToLower(value)
			sch.Renewable = strings.Contains(lower, "years") ||
				strings.Contains(lower, "annual") || strings.Contains(lower, "renewable")
		case "deadline":
			sch.Deadline = value
		case "location", "geographic restrictions", "state", "region", "area":
			sch.GeographicRestrictions = value
		case "to apply":
			if m := applyURLRe.FindString(value); m != "" {
				sch.ApplyURL = m
			}
		case "for more information":
			if href, ok := cells.Last().Find("a").First().Attr("href"); ok && sch.ApplyURL == "" {
				sch.ApplyURL = href
			}
		}
	})

	return nil
}

func detailPageID(url string) string {
	parts := strings.Split(strings.TrimRight(url, "/"), "/")
	return parts[len(parts)-1]
}
