package scraper

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/scholartrack/scholartrack/app/llm"
	"github.com/scholartrack/scholartrack/app/netutil"
	"github.com/scholartrack/scholartrack/app/normalize"
)

// searchFocuses spread AI search coverage across scholarship
// categories so each run surfaces a varied set.
var searchFocuses = []string{
	"STEM scholarships for college students",
	"minority scholarships",
	"merit-based scholarships",
	"need-based financial aid",
	"graduate school scholarships",
	"undergraduate scholarships",
	"athletic scholarships",
	"women scholarships",
	"first-generation college student scholarships",
	"community service scholarships",
}

const focusDelay = 3 * time.Second

// AISearchScraper discovers scholarships by prompting a language
// model per search focus and parsing the structured output.
type AISearchScraper struct {
	client        llm.Client
	limiter       *netutil.RateLimiter
	maxResults    int
	retryAttempts int
	timeout       time.Duration
}

func NewAISearchScraper(client llm.Client, limiter *netutil.RateLimiter, maxResults, retryAttempts int, timeout time.Duration) *AISearchScraper {
	return &AISearchScraper{
		client:        client,
		limiter:       limiter,
		maxResults:    maxResults,
		retryAttempts: retryAttempts,
		timeout:       timeout,
	}
}

func (s *AISearchScraper) Name() string {
	return "AISearch"
}

// Scrape walks every search focus within an overall deadline. A focus
// that keeps failing is skipped; partial results from completed
// focuses survive the overall timeout.
func (s *AISearchScraper) Scrape(ctx context.Context) ([]Scholarship, error) {
	deadline, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	perFocus := (s.maxResults + len(searchFocuses) - 1) / len(searchFocuses)

	var all []Scholarship
	for i, focus := range searchFocuses {
		if deadline.Err() != nil {
			slog.Warn("AI search overall timeout, returning partial results",
				"collected", len(all), "focuses_done", i)
			break
		}

		scholarships, err := netutil.WithRetry(deadline, s.retryAttempts, func() ([]Scholarship, error) {
			return s.searchFocus(deadline, focus, perFocus)
		})
		if err != nil {
			slog.Warn("AI search focus failed, continuing", "focus", focus, "error", err)
			continue
		}

		slog.Info("AI search focus completed", "focus", focus, "found", len(scholarships))
		all = append(all, scholarships...)

		if i < len(searchFocuses)-1 {
			select {
			case <-time.After(focusDelay):
			case <-deadline.Done():
			}
		}
	}

	all = dedupeByNameAndOrg(all)
	if len(all) > s.maxResults {
		all = all[:s.maxResults]
	}

	return all, nil
}

func (s *AISearchScraper) searchFocus(ctx context.Context, focus string, maxResults int) ([]Scholarship, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	response, err := s.client.Complete(ctx, buildSearchPrompt(focus, maxResults))
	if err != nil {
		return nil, err
	}

	return parseSearchResponse(response)
}

func buildSearchPrompt(focus string, maxResults int) string {
	return fmt.Sprintf(`Find %d %s. For each scholarship, provide:

- title: Scholarship name
- organization: Sponsoring organization
- url: Scholarship page link
- description: Brief description (1-2 sentences)
- min_amount: Minimum award amount
- max_amount: Maximum award amount
- eligibility: Key eligibility criteria
- academic_level: undergraduate/graduate/doctoral
- geographic_restrictions: Location limitations
- deadline: Application deadline
- renewable: true/false
- country: Country of eligibility
- apply_url: Application link

Focus on active, accessible scholarships with clear application processes. Return as JSON array.`, maxResults, focus)
}

// parseSearchResponse maps the model's loose JSON into scholarships.
// Models rename fields freely, so each field checks several keys.
func parseSearchResponse(response string) ([]Scholarship, error) {
	raw, ok := llm.ExtractJSON(response)
	if !ok {
		return nil, fmt.Errorf("no JSON found in model response")
	}

	var entries []map[string]interface{}
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		// A single object means the model found one scholarship
		var single map[string]interface{}
		if err2 := json.Unmarshal([]byte(raw), &single); err2 != nil {
			return nil, fmt.Errorf("failed to parse model JSON: %w", err)
		}
		entries = []map[string]interface{}{single}
	}

	var scholarships []Scholarship
	for _, entry := range entries {
		name := stringField(entry, "title", "name", "scholarship_name")
		if name == "" {
			continue
		}

		eligibility := stringField(entry, "eligibility", "requirements", "qualifications")
		if eligibility == "" {
			eligibility = "Eligibility requirements vary"
		}

		deadline := stringField(entry, "deadline", "application_deadline")
		if deadline == "" {
			deadline = "Various deadlines"
		}

		description := stringField(entry, "description", "purpose")
		if description == "" {
			description = "No description available"
		}

		levelText := fmt.Sprintf("%s %s %s %s %s", name, description, eligibility,
			stringField(entry, "academic_level", "level_of_study"),
			stringField(entry, "education_level"))
		classifyText := fmt.Sprintf("%s %s %s", name, description, eligibility)

		renewableText := strings.ToLower(stringField(entry, "renewable"))

		scholarships = append(scholarships, Scholarship{
			Name:                   name,
			Organization:           stringField(entry, "organization", "sponsor", "institution"),
			Description:            description,
			Eligibility:            eligibility,
			Deadline:               deadline,
			URL:                    stringField(entry, "url", "website", "application_url"),
			ApplyURL:               stringField(entry, "apply_url", "application_url", "url"),
			AcademicLevel:          normalize.ExtractAcademicLevel(levelText),
			GeographicRestrictions: stringField(entry, "geographic_restrictions", "location", "region"),
			TargetType:             targetTypeOrBoth(classifyText),
			Ethnicity:              normalize.ExtractEthnicity(classifyText),
			Gender:                 normalize.ExtractGender(classifyText),
			MinAward:               amountField(entry, "min_amount", "amount", "award_amount"),
			MaxAward:               amountField(entry, "max_amount", "amount", "award_amount"),
			Renewable:              strings.Contains(renewableText, "true") || strings.Contains(renewableText, "yes"),
			Country:                stringField(entry, "country", "nationality"),
		})
	}

	return scholarships, nil
}

func stringField(entry map[string]interface{}, keys ...string) string {
	for _, key := range keys {
		if v, ok := entry[key]; ok && v != nil {
			switch value := v.(type) {
			case string:
				if trimmed := strings.TrimSpace(value); trimmed != "" {
					return trimmed
				}
			case float64:
				return fmt.Sprintf("%v", value)
			case bool:
				return fmt.Sprintf("%v", value)
			}
		}
	}
	return ""
}

func amountField(entry map[string]interface{}, keys ...string) float64 {
	for _, key := range keys {
		if v, ok := entry[key]; ok && v != nil {
			switch value := v.(type) {
			case float64:
				return value
			case string:
				if amount := normalize.ParseAmount(normalize.CleanAmount(value)); amount > 0 {
					return amount
				}
			}
		}
	}
	return 0
}

// dedupeByNameAndOrg drops repeats across focuses; the same popular
// scholarship tends to show up under several focuses.
func dedupeByNameAndOrg(scholarships []Scholarship) []Scholarship {
	seen := make(map[string]bool)
	var result []Scholarship

	for _, s := range scholarships {
		org := strings.ToLower(s.Organization)
		if org == "" {
			org = "unknown"
		}
		key := strings.ToLower(s.Name) + "-" + org

		if seen[key] {
			continue
		}
		seen[key] = true
		result = append(result, s)
	}

	return result
}
