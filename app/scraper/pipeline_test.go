package scraper

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/scholartrack/scholartrack/app/database"
)

type fakeScholarshipStore struct {
	rows map[string]database.Scholarship
}

func newFakeScholarshipStore() *fakeScholarshipStore {
	return &fakeScholarshipStore{rows: make(map[string]database.Scholarship)}
}

func (f *fakeScholarshipStore) Insert(s database.Scholarship) error {
	f.rows[s.ID] = s
	return nil
}

func (f *fakeScholarshipStore) CheckDuplicate(id string) (bool, error) {
	_, ok := f.rows[id]
	return ok, nil
}

func (f *fakeScholarshipStore) GetByID(id string) (*database.Scholarship, error) {
	if s, ok := f.rows[id]; ok {
		return &s, nil
	}
	return nil, nil
}

func (f *fakeScholarshipStore) GetPage(offset, limit int) ([]database.Scholarship, error) {
	return nil, nil
}

func (f *fakeScholarshipStore) Delete(id string) error {
	delete(f.rows, id)
	return nil
}

func (f *fakeScholarshipStore) GetCount() (int, error) {
	return len(f.rows), nil
}

func (f *fakeScholarshipStore) GetStats() (int, int, int, error) {
	return len(f.rows), len(f.rows), 0, nil
}

func (f *fakeScholarshipStore) Search(filters database.SearchFilters) ([]database.Scholarship, error) {
	return nil, nil
}

type fakeJobStore struct {
	statuses  []string
	found     int
	processed int
}

func (f *fakeJobStore) CreateJob(websiteID, scraper string) (string, error) {
	f.statuses = append(f.statuses, "pending")
	return "job-1", nil
}

func (f *fakeJobStore) MarkRunning(jobID string) error {
	f.statuses = append(f.statuses, "running")
	return nil
}

func (f *fakeJobStore) MarkCompleted(jobID string, found, processed, inserted, updated, skipped int) error {
	f.statuses = append(f.statuses, "completed")
	f.found = found
	f.processed = processed
	return nil
}

func (f *fakeJobStore) MarkFailed(jobID string, errMsg string) error {
	f.statuses = append(f.statuses, "failed")
	return nil
}

func (f *fakeJobStore) GetJob(jobID string) (*database.ScrapeJob, error) {
	return nil, nil
}

func (f *fakeJobStore) GetRecentJobs(limit int) ([]database.ScrapeJob, error) {
	return nil, nil
}

type fakeWebsiteStore struct {
	lastScraped []string
}

func (f *fakeWebsiteStore) UpsertWebsite(id, name, url, scraper string) error { return nil }

func (f *fakeWebsiteStore) UpdateLastScraped(id string) error {
	f.lastScraped = append(f.lastScraped, id)
	return nil
}

func (f *fakeWebsiteStore) GetWebsite(id string) (*database.Website, error) { return nil, nil }
func (f *fakeWebsiteStore) GetWebsites() ([]database.Website, error)        { return nil, nil }
func (f *fakeWebsiteStore) GetWebsiteCount() (int, error)                   { return 0, nil }

func newTestPipeline(store *fakeScholarshipStore) *Pipeline {
	return NewPipeline(store, &fakeJobStore{}, &fakeWebsiteStore{}, ContentHashStrategy{}, nil, 1000, 1000)
}

func futureDeadline() string {
	return time.Now().AddDate(0, 2, 0).Format("January 2, 2006")
}

func TestProcessInsertsNewScholarships(t *testing.T) {
	store := newFakeScholarshipStore()
	pipeline := newTestPipeline(store)

	result := pipeline.Process(context.Background(), "test-source", []Scholarship{
		{Name: "STEM Award", Organization: "Tech Foundation", Deadline: futureDeadline()},
		{Name: "Arts Grant", Organization: "Arts Council", Deadline: futureDeadline()},
	})

	if result.Inserted != 2 {
		t.Errorf("Expected 2 inserted, got %d", result.Inserted)
	}
	if result.Updated != 0 || result.Skipped != 0 {
		t.Errorf("Expected no updates or skips, got %d/%d", result.Updated, result.Skipped)
	}
	if len(store.rows) != 2 {
		t.Errorf("Expected 2 stored rows, got %d", len(store.rows))
	}
}

func TestProcessIsIdempotent(t *testing.T) {
	store := newFakeScholarshipStore()
	pipeline := newTestPipeline(store)

	batch := []Scholarship{
		{Name: "STEM Award", Organization: "Tech Foundation", Deadline: futureDeadline()},
	}

	first := pipeline.Process(context.Background(), "test-source", batch)
	second := pipeline.Process(context.Background(), "test-source", batch)

	if first.Inserted != 1 {
		t.Errorf("Expected 1 inserted on first run, got %d", first.Inserted)
	}
	if second.Inserted != 0 {
		t.Errorf("Expected 0 inserted on second run, got %d", second.Inserted)
	}
	if second.Updated != 1 {
		t.Errorf("Expected 1 updated on second run, got %d", second.Updated)
	}
	if len(store.rows) != 1 {
		t.Errorf("Expected 1 stored row after both runs, got %d", len(store.rows))
	}
}

func TestProcessSkipsExpiredScholarships(t *testing.T) {
	store := newFakeScholarshipStore()
	pipeline := newTestPipeline(store)

	past := time.Now().AddDate(0, -2, 0).Format("January 2, 2006")

	result := pipeline.Process(context.Background(), "test-source", []Scholarship{
		{Name: "Expired Award", Organization: "Old Foundation", Deadline: past},
		{Name: "Active Award", Organization: "New Foundation", Deadline: futureDeadline()},
	})

	if result.Skipped != 1 {
		t.Errorf("Expected 1 skipped, got %d", result.Skipped)
	}
	if result.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", result.Inserted)
	}
	if len(store.rows) != 1 {
		t.Errorf("Expected only the active award stored, got %d rows", len(store.rows))
	}
}

func TestProcessNeverOverwritesExistingRows(t *testing.T) {
	store := newFakeScholarshipStore()
	pipeline := newTestPipeline(store)

	deadline := futureDeadline()

	pipeline.Process(context.Background(), "test-source", []Scholarship{
		{Name: "STEM Award", Organization: "Tech Foundation", Deadline: deadline, Description: "original"},
	})

	pipeline.Process(context.Background(), "test-source", []Scholarship{
		{Name: "STEM Award", Organization: "Tech Foundation", Deadline: deadline, Description: "changed"},
	})

	for _, row := range store.rows {
		if row.Description != "original" {
			t.Errorf("Expected original description preserved, got %q", row.Description)
		}
	}
}

func TestProcessDiscardsNamesThatCleanToEmpty(t *testing.T) {
	store := newFakeScholarshipStore()
	pipeline := newTestPipeline(store)

	result := pipeline.Process(context.Background(), "test-source", []Scholarship{
		{Name: `"'"`, Organization: "Some Org", Deadline: futureDeadline()},
		{Name: "  ,, ", Organization: "Some Org", Deadline: futureDeadline()},
		{Name: "Real Award", Organization: "Some Org", Deadline: futureDeadline()},
	})

	if result.Skipped != 2 {
		t.Errorf("Expected 2 skipped, got %d", result.Skipped)
	}
	if result.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", result.Inserted)
	}
	for _, row := range store.rows {
		if row.Name == "" {
			t.Error("Expected no rows persisted with an empty name")
		}
	}
}

func TestProcessClassifiesFromEligibility(t *testing.T) {
	store := newFakeScholarshipStore()
	pipeline := newTestPipeline(store)

	pipeline.Process(context.Background(), "test-source", []Scholarship{
		{
			Name:         "Nursing Award",
			Organization: "Health Org",
			Deadline:     futureDeadline(),
			Eligibility:  "Hispanic undergraduate students with financial need. Requires an essay and a letter of recommendation.",
		},
	})

	for _, row := range store.rows {
		if row.TargetType != "Need" {
			t.Errorf("Expected target type 'Need' from eligibility, got %q", row.TargetType)
		}
		if row.Ethnicity != "Hispanic" {
			t.Errorf("Expected ethnicity 'Hispanic' from eligibility, got %q", row.Ethnicity)
		}
		if !strings.Contains(row.AcademicLevel, "undergraduate") {
			t.Errorf("Expected academic level from eligibility, got %q", row.AcademicLevel)
		}
		if !row.EssayRequired {
			t.Error("Expected essay requirement inferred from eligibility")
		}
		if !row.RecommendationsRequired {
			t.Error("Expected recommendation requirement inferred from eligibility")
		}
	}
}

func TestProcessAppliesDefaults(t *testing.T) {
	store := newFakeScholarshipStore()
	pipeline := newTestPipeline(store)

	pipeline.Process(context.Background(), "test-source", []Scholarship{
		{Name: "Bare Award", Organization: "Some Org", Deadline: futureDeadline()},
	})

	for _, row := range store.rows {
		if row.TargetType != "Both" {
			t.Errorf("Expected default target type 'Both', got %q", row.TargetType)
		}
		if row.Ethnicity != "unspecified" {
			t.Errorf("Expected default ethnicity 'unspecified', got %q", row.Ethnicity)
		}
		if row.Gender != "unspecified" {
			t.Errorf("Expected default gender 'unspecified', got %q", row.Gender)
		}
		if row.Country != "US" {
			t.Errorf("Expected default country 'US', got %q", row.Country)
		}
		if !row.IsActive {
			t.Error("Expected new scholarships to be active")
		}
		if row.Source != "test-source" {
			t.Errorf("Expected source 'test-source', got %q", row.Source)
		}
	}
}

func TestProcessTruncatesLongFields(t *testing.T) {
	store := newFakeScholarshipStore()
	pipeline := NewPipeline(store, &fakeJobStore{}, &fakeWebsiteStore{}, ContentHashStrategy{}, nil, 50, 50)

	pipeline.Process(context.Background(), "test-source", []Scholarship{
		{
			Name:         "Long Award",
			Organization: "Org",
			Deadline:     futureDeadline(),
			Description:  strings.Repeat("d", 200),
			Eligibility:  strings.Repeat("e", 200),
		},
	})

	for _, row := range store.rows {
		if len(row.Description) != 50 || !strings.HasSuffix(row.Description, "...") {
			t.Errorf("Expected truncated description with ellipsis, got %d chars", len(row.Description))
		}
		if len(row.Eligibility) != 50 || !strings.HasSuffix(row.Eligibility, "...") {
			t.Errorf("Expected truncated eligibility with ellipsis, got %d chars", len(row.Eligibility))
		}
	}
}

type staticScraper struct {
	name         string
	scholarships []Scholarship
	err          error
}

func (s *staticScraper) Name() string { return s.name }

func (s *staticScraper) Scrape(ctx context.Context) ([]Scholarship, error) {
	return s.scholarships, s.err
}

func TestRunTracksJobLifecycle(t *testing.T) {
	store := newFakeScholarshipStore()
	jobs := &fakeJobStore{}
	websites := &fakeWebsiteStore{}
	pipeline := NewPipeline(store, jobs, websites, ContentHashStrategy{}, nil, 1000, 1000)

	src := &staticScraper{name: "test", scholarships: []Scholarship{
		{Name: "Award", Organization: "Org", Deadline: futureDeadline()},
	}}

	result, err := pipeline.Run(context.Background(), "test-site", src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if result.Inserted != 1 {
		t.Errorf("Expected 1 inserted, got %d", result.Inserted)
	}

	want := []string{"pending", "running", "completed"}
	if len(jobs.statuses) != len(want) {
		t.Fatalf("Expected statuses %v, got %v", want, jobs.statuses)
	}
	for i, status := range want {
		if jobs.statuses[i] != status {
			t.Errorf("Expected status %q at position %d, got %q", status, i, jobs.statuses[i])
		}
	}
	if len(websites.lastScraped) != 1 || websites.lastScraped[0] != "test-site" {
		t.Errorf("Expected last scraped update for 'test-site', got %v", websites.lastScraped)
	}
}

func TestProcessCountsFoundAndProcessed(t *testing.T) {
	store := newFakeScholarshipStore()
	jobs := &fakeJobStore{}
	pipeline := NewPipeline(store, jobs, &fakeWebsiteStore{}, ContentHashStrategy{}, nil, 1000, 1000)

	src := &staticScraper{name: "test", scholarships: []Scholarship{
		{Name: "Award One", Organization: "Org", Deadline: futureDeadline()},
		{Name: "Award Two", Organization: "Org", Deadline: futureDeadline()},
		{Name: "Expired Award", Organization: "Org", Deadline: "January 1, 2001"},
	}}

	result, err := pipeline.Run(context.Background(), "test-site", src)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Found != 3 {
		t.Errorf("Expected 3 found, got %d", result.Found)
	}
	if result.Processed != 3 {
		t.Errorf("Expected 3 processed (2 inserted + 1 skipped), got %d", result.Processed)
	}
	if jobs.found != 3 || jobs.processed != 3 {
		t.Errorf("Expected counts persisted with the job, got found=%d processed=%d", jobs.found, jobs.processed)
	}
}

func TestRunMarksJobFailedOnScrapeError(t *testing.T) {
	store := newFakeScholarshipStore()
	jobs := &fakeJobStore{}
	pipeline := NewPipeline(store, jobs, &fakeWebsiteStore{}, ContentHashStrategy{}, nil, 1000, 1000)

	src := &staticScraper{name: "broken", err: context.DeadlineExceeded}

	_, err := pipeline.Run(context.Background(), "broken-site", src)
	if err == nil {
		t.Fatal("Expected error from failing scraper")
	}

	last := jobs.statuses[len(jobs.statuses)-1]
	if last != "failed" {
		t.Errorf("Expected final job status 'failed', got %q", last)
	}
}
