package database

// SearchFilters narrow a scholarship search. Zero values mean the
// filter is not applied. Deadline bounds compare against the stored
// deadline text.
type SearchFilters struct {
	Keywords       []string
	SubjectAreas   []string
	AcademicLevel  string
	Ethnicity      string
	Gender         string
	TargetType     string
	MinAmount      float64
	MaxAmount      float64
	DeadlineAfter  string
	DeadlineBefore string
}
