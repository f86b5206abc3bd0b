package scraper

import (
	"testing"
)

func TestContentHashStrategyIsStable(t *testing.T) {
	strategy := ContentHashStrategy{}

	s := Scholarship{Name: "STEM Award", Organization: "Tech Foundation", Deadline: "June 30, 2026"}

	first := strategy.ComputeID(s)
	second := strategy.ComputeID(s)

	if first != second {
		t.Errorf("Expected stable IDs, got %q and %q", first, second)
	}
	if len(first) != 32 {
		t.Errorf("Expected 32-char md5 hex ID, got %d chars", len(first))
	}
}

func TestContentHashStrategyDistinguishesListings(t *testing.T) {
	strategy := ContentHashStrategy{}

	base := Scholarship{Name: "STEM Award", Organization: "Tech Foundation", Deadline: "June 30, 2026"}

	variants := []Scholarship{
		{Name: "Other Award", Organization: base.Organization, Deadline: base.Deadline},
		{Name: base.Name, Organization: "Other Org", Deadline: base.Deadline},
		{Name: base.Name, Organization: base.Organization, Deadline: "July 1, 2026"},
	}

	baseID := strategy.ComputeID(base)
	for _, v := range variants {
		if strategy.ComputeID(v) == baseID {
			t.Errorf("Expected distinct ID for variant %+v", v)
		}
	}
}

func TestContentHashStrategyIgnoresOtherFields(t *testing.T) {
	strategy := ContentHashStrategy{}

	a := Scholarship{Name: "Award", Organization: "Org", Deadline: "June 30, 2026", Description: "one"}
	b := Scholarship{Name: "Award", Organization: "Org", Deadline: "June 30, 2026", Description: "two"}

	if strategy.ComputeID(a) != strategy.ComputeID(b) {
		t.Error("Expected ID to depend only on name, organization and deadline")
	}
}

func TestRandomIDStrategy(t *testing.T) {
	strategy := RandomIDStrategy{}

	s := Scholarship{Name: "Award", Organization: "Org", Deadline: "June 30, 2026"}

	if strategy.ComputeID(s) == strategy.ComputeID(s) {
		t.Error("Expected distinct IDs from random strategy")
	}
}
