package normalize

import (
	"strings"
	"testing"
)

func TestRemoveRedundantPhrases(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "applicant lead-in removed",
			input:    "Applicant must be enrolled full-time",
			expected: "enrolled full-time",
		},
		{
			name:     "case insensitive",
			input:    "MUST BE a US citizen",
			expected: "a US citizen",
		},
		{
			name:     "multiple phrases removed",
			input:    "Students must be juniors. Should be in good standing.",
			expected: "juniors. in good standing.",
		},
		{
			name:     "whitespace collapsed",
			input:    "Required to be   enrolled",
			expected: "enrolled",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
		{
			name:     "text without phrases unchanged",
			input:    "Open to all majors",
			expected: "Open to all majors",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := RemoveRedundantPhrases(tt.input)
			if result != tt.expected {
				t.Errorf("RemoveRedundantPhrases(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestDetermineTargetType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"merit keywords", "Requires a 3.5 GPA minimum", "Merit"},
		{"need keywords", "Submit your FAFSA to demonstrate financial need", "Need"},
		{"both", "Merit-based award for students with financial need", "Both"},
		{"neither", "Open to residents of Ohio", "Not specified"},
		{"academic excellence is merit", "Recognizes academic excellence", "Merit"},
		{"low income is need", "For low income families", "Need"},
		{"case insensitive", "MERIT-BASED award", "Merit"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := DetermineTargetType(tt.input)
			if result != tt.expected {
				t.Errorf("DetermineTargetType(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExtractEthnicity(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single group", "Open to Hispanic students", "Hispanic"},
		{"latinx maps to hispanic", "Supporting Latinx communities", "Hispanic"},
		{"multiple groups ordered", "For African American and Native American students", "African American, Native American"},
		{"underrepresented is minority", "Underrepresented groups encouraged to apply", "Minority"},
		{"international students", "International students welcome", "International"},
		{"none", "Open to all students", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractEthnicity(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractEthnicity(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExtractGender(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"women only", "This scholarship is for women only", "female"},
		{"female only", "Female only applicants", "female"},
		{"men only", "Award for men only", "male"},
		{"male only", "Male only program", "male"},
		{"mention without restriction", "supporting women in engineering", ""},
		{"no gender text", "open to all students", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ExtractGender(tt.input)
			if result != tt.expected {
				t.Errorf("ExtractGender(%q) = %q, expected %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestExtractAcademicLevel(t *testing.T) {
	result := ExtractAcademicLevel("Open to high school seniors and college freshman applicants")
	for _, expected := range []string{"senior", "high school", "college", "freshman"} {
		if !strings.Contains(result, expected) {
			t.Errorf("Expected %q in result %q", expected, result)
		}
	}

	if result := ExtractAcademicLevel("no academic terms here"); result != "" {
		t.Errorf("Expected empty result, got %q", result)
	}
}

func TestParseEligibility(t *testing.T) {
	parsed := ParseEligibility("Women only. Hispanic undergraduate students with financial need. Requires an essay and two letters of recommendation.")

	if parsed.TargetType != "Need" {
		t.Errorf("Expected target type 'Need', got %q", parsed.TargetType)
	}
	if parsed.Ethnicity != "Hispanic" {
		t.Errorf("Expected ethnicity 'Hispanic', got %q", parsed.Ethnicity)
	}
	if parsed.Gender != "female" {
		t.Errorf("Expected gender 'female', got %q", parsed.Gender)
	}
	if !strings.Contains(parsed.AcademicLevel, "undergraduate") {
		t.Errorf("Expected academic level to mention undergraduate, got %q", parsed.AcademicLevel)
	}
	if !parsed.EssayRequired {
		t.Error("Expected essay requirement detected")
	}
	if !parsed.RecommendationsRequired {
		t.Error("Expected recommendation requirement detected")
	}

	empty := ParseEligibility("")
	if empty.TargetType != "Not specified" {
		t.Errorf("Expected 'Not specified' for empty text, got %q", empty.TargetType)
	}
	if empty.EssayRequired || empty.RecommendationsRequired {
		t.Error("Expected no requirements detected in empty text")
	}
}

func TestCleanAcademicLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Undergraduate Study", "undergraduate"},
		{"Graduate STUDY program", "graduate program"},
		{"High School", "high school"},
		{"Study", ""},
	}

	for _, tt := range tests {
		result := CleanAcademicLevel(tt.input)
		if result != tt.expected {
			t.Errorf("CleanAcademicLevel(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}
