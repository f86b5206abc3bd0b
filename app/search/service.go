// Package search ranks persisted scholarships against caller
// criteria. Filtering happens at the database layer; scoring and
// ordering happen here, in memory, over the capped result set.
package search

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/scholartrack/scholartrack/app/database"
	"github.com/scholartrack/scholartrack/app/normalize"
)

const defaultMaxResults = 25

// Criteria describe what the caller is looking for. Zero values mean
// the criterion is not applied.
type Criteria struct {
	Keywords               []string
	SubjectAreas           []string
	AcademicLevel          string
	Ethnicity              string
	Gender                 string
	TargetType             string
	GeographicRestrictions string
	MinAmount              float64
	MaxAmount              float64
	DeadlineAfter          string
	DeadlineBefore         string
}

// Options control ordering and result shaping
type Options struct {
	SortBy         string // relevance, deadline, amount, title
	SortOrder      string // asc, desc
	MaxResults     int
	IncludeExpired bool
}

// ScoredScholarship pairs a scholarship with its relevance score
type ScoredScholarship struct {
	database.Scholarship
	RelevanceScore int
}

// Result is a completed search response
type Result struct {
	Scholarships     []ScoredScholarship
	TotalFound       int
	SearchTime       time.Duration
	AppliedFilters   []string
	AvailableFilters []string
}

type Service struct {
	store database.ScholarshipStore
}

func NewService(store database.ScholarshipStore) *Service {
	return &Service{store: store}
}

// Search filters at the database layer, drops expired deadlines
// unless asked not to, scores every survivor, then sorts and caps.
func (s *Service) Search(criteria Criteria, opts Options) (*Result, error) {
	start := time.Now()

	rows, err := s.store.Search(criteria.toFilters())
	if err != nil {
		return nil, fmt.Errorf("search query failed: %w", err)
	}

	scored := make([]ScoredScholarship, 0, len(rows))
	for _, row := range rows {
		if !opts.IncludeExpired && normalize.IsDeadlineExpired(row.Deadline) {
			continue
		}
		scored = append(scored, ScoredScholarship{
			Scholarship:    row,
			RelevanceScore: relevanceScore(row, criteria),
		})
	}

	sortScholarships(scored, opts.SortBy, opts.SortOrder)

	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}
	if len(scored) > maxResults {
		scored = scored[:maxResults]
	}

	return &Result{
		Scholarships:     scored,
		TotalFound:       len(scored),
		SearchTime:       time.Since(start),
		AppliedFilters:   appliedFilters(criteria),
		AvailableFilters: availableFilters(scored),
	}, nil
}

// GetByID returns one scholarship or nil when not found
func (s *Service) GetByID(id string) (*database.Scholarship, error) {
	return s.store.GetByID(id)
}

func (c Criteria) toFilters() database.SearchFilters {
	return database.SearchFilters{
		Keywords:       c.Keywords,
		SubjectAreas:   c.SubjectAreas,
		AcademicLevel:  c.AcademicLevel,
		Ethnicity:      c.Ethnicity,
		Gender:         c.Gender,
		TargetType:     c.TargetType,
		MinAmount:      c.MinAmount,
		MaxAmount:      c.MaxAmount,
		DeadlineAfter:  c.DeadlineAfter,
		DeadlineBefore: c.DeadlineBefore,
	}
}

// relevanceScore accumulates points for criteria-to-text overlap.
// Title matches weigh more than description matches; demographic and
// level matches add fixed bonuses.
func relevanceScore(sch database.Scholarship, criteria Criteria) int {
	score := 0

	searchText := strings.ToLower(strings.Join([]string{
		sch.Eligibility, sch.Description, sch.Name, sch.Organization,
	}, " "))
	terms := searchTerms(criteria)

	if len(terms) > 0 {
		matched := 0
		for _, term := range terms {
			if strings.Contains(searchText, strings.ToLower(term)) {
				matched++
			}
		}

		if matched > 0 {
			score += 10
			score += int(float64(matched)/float64(len(terms))*20 + 0.5)

			title := strings.ToLower(sch.Name)
			for _, term := range terms {
				if strings.Contains(title, strings.ToLower(term)) {
					score += 5
				}
			}
		}
	}

	title := strings.ToLower(sch.Name)
	description := strings.ToLower(sch.Description)
	for _, keyword := range criteria.Keywords {
		keyword = strings.ToLower(keyword)
		if strings.Contains(title, keyword) {
			score += 10
		}
		if strings.Contains(description, keyword) {
			score += 5
		}
	}

	if criteria.AcademicLevel != "" && sch.AcademicLevel != "" &&
		strings.Contains(strings.ToLower(sch.AcademicLevel), strings.ToLower(criteria.AcademicLevel)) {
		score += 7
	}
	if criteria.GeographicRestrictions != "" && sch.GeographicRestrictions != "" &&
		strings.Contains(strings.ToLower(sch.GeographicRestrictions), strings.ToLower(criteria.GeographicRestrictions)) {
		score += 6
	}
	if criteria.Gender != "" && strings.EqualFold(sch.Gender, criteria.Gender) {
		score += 5
	}
	if criteria.Ethnicity != "" && strings.EqualFold(sch.Ethnicity, criteria.Ethnicity) {
		score += 5
	}

	return score
}

// searchTerms flattens criteria into individual terms for the
// proportional overlap score.
func searchTerms(criteria Criteria) []string {
	var terms []string

	terms = append(terms, criteria.SubjectAreas...)
	if criteria.TargetType != "" && criteria.TargetType != "Both" {
		terms = append(terms, criteria.TargetType)
	}
	if criteria.Ethnicity != "" {
		terms = append(terms, criteria.Ethnicity)
	}
	if criteria.Gender != "" {
		terms = append(terms, criteria.Gender)
	}
	for _, keyword := range criteria.Keywords {
		terms = append(terms, strings.Fields(keyword)...)
	}

	return terms
}

// sortScholarships orders results. Relevance always puts the best
// match first; the other modes default ascending and flip on "desc".
func sortScholarships(scholarships []ScoredScholarship, sortBy, sortOrder string) {
	sort.SliceStable(scholarships, func(i, j int) bool {
		a, b := scholarships[i], scholarships[j]

		var cmp int
		switch sortBy {
		case "deadline":
			cmp = compareDeadlines(a.Deadline, b.Deadline)
		case "amount":
			cmp = compareAmounts(a.MaxAward, b.MaxAward)
		case "title":
			cmp = strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		default:
			return a.RelevanceScore > b.RelevanceScore
		}

		if sortOrder == "desc" {
			return cmp > 0
		}
		return cmp < 0
	})
}

// compareDeadlines orders parseable dates chronologically and pushes
// unparseable deadlines ("Rolling", "Varies") to the end.
func compareDeadlines(a, b string) int {
	timeA, okA := normalize.ParseDeadline(a)
	timeB, okB := normalize.ParseDeadline(b)

	switch {
	case !okA && !okB:
		return 0
	case !okA:
		return 1
	case !okB:
		return -1
	case timeA.Before(timeB):
		return -1
	case timeA.After(timeB):
		return 1
	}
	return 0
}

func compareAmounts(a, b float64) int {
	switch {
	case a == 0 && b == 0:
		return 0
	case a == 0:
		return 1
	case b == 0:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func appliedFilters(criteria Criteria) []string {
	var filters []string

	if len(criteria.Keywords) > 0 {
		filters = append(filters, fmt.Sprintf("Keywords: %s", strings.Join(criteria.Keywords, " ")))
	}
	if criteria.AcademicLevel != "" {
		filters = append(filters, fmt.Sprintf("Academic Level: %s", criteria.AcademicLevel))
	}
	if len(criteria.SubjectAreas) > 0 {
		filters = append(filters, fmt.Sprintf("Subjects: %s", strings.Join(criteria.SubjectAreas, ", ")))
	}
	if criteria.TargetType != "" && criteria.TargetType != "Both" {
		filters = append(filters, fmt.Sprintf("Target Type: %s", criteria.TargetType))
	}
	if criteria.Gender != "" {
		filters = append(filters, fmt.Sprintf("Gender: %s", criteria.Gender))
	}
	if criteria.Ethnicity != "" {
		filters = append(filters, fmt.Sprintf("Ethnicity: %s", criteria.Ethnicity))
	}
	if criteria.GeographicRestrictions != "" {
		filters = append(filters, fmt.Sprintf("Location: %s", criteria.GeographicRestrictions))
	}

	return filters
}

// availableFilters summarizes the distinct values present in the
// result set so clients can offer refinement options.
func availableFilters(scholarships []ScoredScholarship) []string {
	levels := make(map[string]bool)
	countries := make(map[string]bool)
	organizations := make(map[string]bool)

	for _, s := range scholarships {
		if s.AcademicLevel != "" {
			levels[s.AcademicLevel] = true
		}
		if s.Country != "" {
			countries[s.Country] = true
		}
		if s.Organization != "" {
			organizations[s.Organization] = true
		}
	}

	var filters []string
	if len(levels) > 0 {
		filters = append(filters, fmt.Sprintf("Academic Levels: %s", joinSorted(levels)))
	}
	if len(countries) > 0 {
		filters = append(filters, fmt.Sprintf("Countries: %s", joinSorted(countries)))
	}
	if len(organizations) > 0 {
		filters = append(filters, fmt.Sprintf("Organizations: %s", joinSorted(organizations)))
	}

	return filters
}

func joinSorted(values map[string]bool) string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return strings.Join(keys, ", ")
}
