// Package scraper collects scholarships from configured sources and
// funnels them through a shared persistence pipeline.
package scraper

import (
	"context"
)

// Scholarship is a raw scholarship as collected from a source, before
// the pipeline normalizes and persists it.
type Scholarship struct {
	Name                    string
	Organization            string
	Description             string
	Eligibility             string
	Deadline                string
	URL                     string
	ApplyURL                string
	AcademicLevel           string
	GeographicRestrictions  string
	TargetType              string
	Ethnicity               string
	Gender                  string
	MinAward                float64
	MaxAward                float64
	Renewable               bool
	Country                 string
	EssayRequired           bool
	RecommendationsRequired bool
}

// Scraper collects scholarships from one source
type Scraper interface {
	Name() string
	Scrape(ctx context.Context) ([]Scholarship, error)
}

// Result summarizes one pipeline run. Found counts everything the
// scraper returned; Processed counts candidates handled without a
// persistence error.
type Result struct {
	Found     int
	Processed int
	Inserted  int
	Updated   int
	Skipped   int
	Errors    []string
}
