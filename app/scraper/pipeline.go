package scraper

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/scholartrack/scholartrack/app/database"
	"github.com/scholartrack/scholartrack/app/normalize"
)

// SeenCache is an optional fast path for duplicate checks. The
// database unique constraint stays authoritative either way.
type SeenCache interface {
	IsSeen(ctx context.Context, scholarshipID string) bool
	MarkSeen(ctx context.Context, scholarshipID string)
}

// Pipeline normalizes scraped scholarships and persists them with
// duplicate and expiry handling shared by every scraper.
type Pipeline struct {
	scholarshipRepo database.ScholarshipStore
	jobRepo         database.JobStore
	websiteRepo     database.WebsiteStore
	idStrategy      IDStrategy
	seenCache       SeenCache // nil when Redis is not configured

	descriptionMaxLength int
	eligibilityMaxLength int
}

func NewPipeline(scholarshipRepo database.ScholarshipStore, jobRepo database.JobStore,
	websiteRepo database.WebsiteStore, idStrategy IDStrategy, seenCache SeenCache,
	descriptionMaxLength, eligibilityMaxLength int) *Pipeline {
	return &Pipeline{
		scholarshipRepo:      scholarshipRepo,
		jobRepo:              jobRepo,
		websiteRepo:          websiteRepo,
		idStrategy:           idStrategy,
		seenCache:            seenCache,
		descriptionMaxLength: descriptionMaxLength,
		eligibilityMaxLength: eligibilityMaxLength,
	}
}

// Run executes a full scrape for one website: job bookkeeping, the
// scrape itself, and persistence. Scrape failures mark the job failed;
// per-scholarship persistence failures are collected and the run
// continues.
func (p *Pipeline) Run(ctx context.Context, websiteID string, s Scraper) (*Result, error) {
	jobID, err := p.jobRepo.CreateJob(websiteID, s.Name())
	if err != nil {
		return nil, fmt.Errorf("failed to create scrape job: %w", err)
	}

	if err := p.jobRepo.MarkRunning(jobID); err != nil {
		return nil, fmt.Errorf("failed to mark job running: %w", err)
	}

	scholarships, err := s.Scrape(ctx)
	if err != nil {
		if markErr := p.jobRepo.MarkFailed(jobID, err.Error()); markErr != nil {
			slog.Error("Failed to mark job failed", "job_id", jobID, "error", markErr)
		}
		return nil, fmt.Errorf("scrape failed for %s: %w", s.Name(), err)
	}

	result := p.Process(ctx, s.Name(), scholarships)

	if err := p.jobRepo.MarkCompleted(jobID, result.Found, result.Processed,
		result.Inserted, result.Updated, result.Skipped); err != nil {
		slog.Error("Failed to mark job completed", "job_id", jobID, "error", err)
	}

	if err := p.websiteRepo.UpdateLastScraped(websiteID); err != nil {
		slog.Error("Failed to update last scraped time", "website_id", websiteID, "error", err)
	}

	slog.Info("Scrape completed",
		"scraper", s.Name(),
		"website", websiteID,
		"found", result.Found,
		"processed", result.Processed,
		"inserted", result.Inserted,
		"updated", result.Updated,
		"skipped", result.Skipped,
		"errors", len(result.Errors))

	return result, nil
}

// Process normalizes and persists a batch of scraped scholarships.
// Existing rows are counted as updated but never overwritten, so
// rescraping the same listings cannot corrupt stored data.
func (p *Pipeline) Process(ctx context.Context, source string, scholarships []Scholarship) *Result {
	result := &Result{Found: len(scholarships)}

	for _, raw := range scholarships {
		normalized := p.normalize(raw)

		// Cleaning can reduce a junk title to nothing
		if normalized.Name == "" {
			slog.Info("Skipping scholarship with empty name after cleaning", "raw_name", raw.Name)
			result.Skipped++
			continue
		}

		if normalize.IsDeadlineExpired(normalized.Deadline) {
			slog.Info("Skipping expired scholarship",
				"name", normalized.Name, "deadline", normalized.Deadline)
			result.Skipped++
			continue
		}

		id := p.idStrategy.ComputeID(normalized)

		if p.seenCache != nil && p.seenCache.IsSeen(ctx, id) {
			result.Updated++
			continue
		}

		exists, err := p.scholarshipRepo.CheckDuplicate(id)
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("duplicate check failed for %q: %v", normalized.Name, err))
			continue
		}
		if exists {
			result.Updated++
			p.markSeen(ctx, id)
			continue
		}

		record := p.toRecord(id, source, normalized)

		if err := p.scholarshipRepo.Insert(record); err != nil {
			if database.IsUniqueViolation(err) {
				result.Updated++
				p.markSeen(ctx, id)
				continue
			}
			result.Errors = append(result.Errors,
				fmt.Sprintf("failed to persist %q: %v", normalized.Name, err))
			continue
		}

		result.Inserted++
		p.markSeen(ctx, id)
	}

	result.Processed = result.Inserted + result.Updated + result.Skipped

	return result
}

func (p *Pipeline) markSeen(ctx context.Context, id string) {
	if p.seenCache != nil {
		p.seenCache.MarkSeen(ctx, id)
	}
}

// normalize cleans the scraped fields. The ID is derived from the
// normalized name, organization and deadline, so normalization must
// happen before the ID is computed.
func (p *Pipeline) normalize(raw Scholarship) Scholarship {
	s := raw

	s.Name = normalize.CleanText(raw.Name, normalize.CleanOptions{Quotes: true, Commas: true})
	s.Organization = normalize.CleanText(raw.Organization, normalize.CleanOptions{Quotes: true, Commas: true})
	s.Description = normalize.TruncateText(strings.TrimSpace(raw.Description), p.descriptionMaxLength)
	s.Eligibility = normalize.TruncateText(normalize.RemoveRedundantPhrases(raw.Eligibility), p.eligibilityMaxLength)
	s.Deadline = normalize.FormatDeadline(normalize.CleanText(raw.Deadline, normalize.CleanOptions{Quotes: true, Commas: true}))
	s.AcademicLevel = normalize.CleanAcademicLevel(raw.AcademicLevel)
	s.GeographicRestrictions = strings.TrimSpace(raw.GeographicRestrictions)

	// Scrapers that only see an eligibility blurb leave the
	// classified fields empty; fill them from the blurb itself.
	parsed := normalize.ParseEligibility(s.Eligibility)
	if s.TargetType == "" && parsed.TargetType != "Not specified" {
		s.TargetType = parsed.TargetType
	}
	if s.Ethnicity == "" {
		s.Ethnicity = parsed.Ethnicity
	}
	if s.Gender == "" {
		s.Gender = parsed.Gender
	}
	if s.AcademicLevel == "" {
		s.AcademicLevel = parsed.AcademicLevel
	}
	s.EssayRequired = s.EssayRequired || parsed.EssayRequired
	s.RecommendationsRequired = s.RecommendationsRequired || parsed.RecommendationsRequired

	s.TargetType = normalize.EnsureNonEmpty(s.TargetType, "Both")
	s.Ethnicity = normalize.EnsureNonEmpty(s.Ethnicity, "unspecified")
	s.Gender = normalize.EnsureNonEmpty(s.Gender, "unspecified")
	s.Country = normalize.EnsureNonEmpty(raw.Country, "US")

	return s
}

func (p *Pipeline) toRecord(id, source string, s Scholarship) database.Scholarship {
	return database.Scholarship{
		ID:                      id,
		Name:                    s.Name,
		Organization:            s.Organization,
		Description:             s.Description,
		Eligibility:             s.Eligibility,
		Deadline:                s.Deadline,
		URL:                     s.URL,
		ApplyURL:                s.ApplyURL,
		AcademicLevel:           s.AcademicLevel,
		GeographicRestrictions:  s.GeographicRestrictions,
		TargetType:              s.TargetType,
		Ethnicity:               s.Ethnicity,
		Gender:                  s.Gender,
		MinAward:                s.MinAward,
		MaxAward:                s.MaxAward,
		Renewable:               s.Renewable,
		Country:                 s.Country,
		Source:                  source,
		EssayRequired:           s.EssayRequired,
		RecommendationsRequired: s.RecommendationsRequired,
		IsActive:                true,
	}
}
