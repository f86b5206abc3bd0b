package normalize

import (
	"regexp"
	"strings"
)

// redundantPhrases are boilerplate lead-ins scraped from eligibility
// sections. Order matters: shorter variants strip first, so longer
// variants that embed them rarely survive intact.
var redundantPhrases = []string{
	"Applicant must be",
	"Applicants must be",
	"Student must be",
	"Students must be",
	"Candidate must be",
	"Candidates must be",
	"The applicant must be",
	"The student must be",
	"The candidate must be",
	"Must be",
	"Should be",
	"Required to be",
	"Needs to be",
	"Has to be",
}

var redundantPhraseRes = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(redundantPhrases))
	for i, phrase := range redundantPhrases {
		res[i] = regexp.MustCompile(`(?i)` + regexp.QuoteMeta(phrase))
	}
	return res
}()

// RemoveRedundantPhrases strips boilerplate eligibility lead-ins and
// collapses the whitespace left behind.
func RemoveRedundantPhrases(text string) string {
	if text == "" {
		return ""
	}

	result := text
	for _, re := range redundantPhraseRes {
		result = re.ReplaceAllString(result, "")
	}

	return collapseWhitespace(result)
}

var meritKeywords = []string{
	"merit-based",
	"merit based",
	"academic merit",
	"gpa",
	"grade point average",
	"academic excellence",
	"achievement",
}

var needKeywords = []string{
	"fafsa",
	"free application for federal student aid",
	"need-based",
	"need based",
	"financial need",
	"financial hardship",
	"low income",
	"economic need",
}

// DetermineTargetType classifies a scholarship as merit-based,
// need-based, both, or neither from its descriptive text.
func DetermineTargetType(text string) string {
	lower := strings.ToLower(text)

	merit := containsAny(lower, meritKeywords)
	need := containsAny(lower, needKeywords)

	switch {
	case merit && need:
		return "Both"
	case merit:
		return "Merit"
	case need:
		return "Need"
	default:
		return "Not specified"
	}
}

type ethnicityGroup struct {
	label    string
	keywords []string
}

var ethnicityGroups = []ethnicityGroup{
	{"African American", []string{"african american", "black"}},
	{"Hispanic", []string{"hispanic", "latino", "latina", "latinx"}},
	{"Asian", []string{"asian"}},
	{"Native American", []string{"native american", "american indian", "indigenous"}},
	{"Pacific Islander", []string{"pacific islander"}},
	{"White", []string{"white", "caucasian"}},
	{"Middle Eastern", []string{"middle eastern"}},
	{"Minority", []string{"minority", "minorities", "underrepresented"}},
	{"International", []string{"international student"}},
}

// ExtractEthnicity returns a comma-separated list of canonical
// ethnicity labels mentioned in the text, or empty when none match.
func ExtractEthnicity(text string) string {
	lower := strings.ToLower(text)

	var labels []string
	for _, group := range ethnicityGroups {
		if containsAny(lower, group.keywords) {
			labels = append(labels, group.label)
		}
	}

	return strings.Join(labels, ", ")
}

// ExtractGender detects explicit gender restrictions. Only "women
// only" style phrasing counts; a bare mention of women does not
// restrict eligibility. Female patterns are checked first because
// "women only" contains "men only" as a substring.
func ExtractGender(text string) string {
	lower := strings.ToLower(text)

	if strings.Contains(lower, "women only") || strings.Contains(lower, "female only") {
		return "female"
	}
	if strings.Contains(lower, "men only") || strings.Contains(lower, "male only") {
		return "male"
	}

	return ""
}

var academicLevelKeywords = []string{
	"undergraduate",
	"graduate",
	"masters",
	"doctorate",
	"freshman",
	"sophomore",
	"junior",
	"senior",
	"high school",
	"college",
	"university",
}

// ExtractAcademicLevel returns a comma-separated list of academic
// level keywords found in the text.
func ExtractAcademicLevel(text string) string {
	lower := strings.ToLower(text)

	var levels []string
	for _, keyword := range academicLevelKeywords {
		if strings.Contains(lower, keyword) {
			levels = append(levels, keyword)
		}
	}

	return strings.Join(levels, ", ")
}

var studyRe = regexp.MustCompile(`(?i)study`)

// CleanAcademicLevel drops the word "study" from scraped level text
// ("undergraduate study" -> "undergraduate") and lowercases it.
func CleanAcademicLevel(text string) string {
	result := studyRe.ReplaceAllString(text, "")
	result = collapseWhitespace(result)
	return strings.ToLower(result)
}

// Eligibility holds everything classifiable from an eligibility blurb.
type Eligibility struct {
	TargetType              string
	Ethnicity               string
	Gender                  string
	AcademicLevel           string
	EssayRequired           bool
	RecommendationsRequired bool
}

// ParseEligibility runs every classifier over an eligibility blurb in
// one pass. Fields that match nothing come back empty (TargetType
// "Not specified"), callers decide their own fallbacks.
func ParseEligibility(text string) Eligibility {
	lower := strings.ToLower(text)

	return Eligibility{
		TargetType:              DetermineTargetType(text),
		Ethnicity:               ExtractEthnicity(text),
		Gender:                  ExtractGender(text),
		AcademicLevel:           ExtractAcademicLevel(text),
		EssayRequired:           strings.Contains(lower, "essay") || strings.Contains(lower, "personal statement"),
		RecommendationsRequired: strings.Contains(lower, "recommendation") || strings.Contains(lower, "reference"),
	}
}

func containsAny(text string, keywords []string) bool {
	for _, keyword := range keywords {
		if strings.Contains(text, keyword) {
			return true
		}
	}
	return false
}
