package scraper

import (
	"crypto/md5"
	"fmt"

	"github.com/google/uuid"
)

// IDStrategy derives the database ID for a scraped scholarship
type IDStrategy interface {
	ComputeID(s Scholarship) string
}

// ContentHashStrategy hashes name, organization and deadline so the
// same listing scraped twice maps to the same row. This is what makes
// repeat scrapes idempotent.
type ContentHashStrategy struct{}

func (ContentHashStrategy) ComputeID(s Scholarship) string {
	content := fmt.Sprintf("%s-%s-%s", s.Name, s.Organization, s.Deadline)
	return fmt.Sprintf("%x", md5.Sum([]byte(content)))
}

// RandomIDStrategy assigns a fresh UUID per scrape. Every run inserts
// new rows, so it only suits sources where duplicates are acceptable
// or pruned elsewhere.
type RandomIDStrategy struct{}

func (RandomIDStrategy) ComputeID(s Scholarship) string {
	return uuid.NewString()
}
