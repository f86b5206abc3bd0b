package database

import (
	"database/sql"
	"fmt"
	"strings"
)

// ScholarshipRepository handles database operations for scholarships
type ScholarshipRepository struct {
	db *DB
}

// NewScholarshipRepository creates a new scholarship repository
func NewScholarshipRepository(db *DB) *ScholarshipRepository {
	return &ScholarshipRepository{db: db}
}

const scholarshipColumns = `id, name, COALESCE(organization, ''), COALESCE(description, ''),
	COALESCE(eligibility, ''), COALESCE(deadline, ''), COALESCE(url, ''), COALESCE(apply_url, ''),
	COALESCE(academic_level, ''), COALESCE(geographic_restrictions, ''), COALESCE(target_type, ''),
	COALESCE(ethnicity, ''), COALESCE(gender, ''), COALESCE(min_award, 0), COALESCE(max_award, 0),
	renewable, COALESCE(country, ''), COALESCE(source, ''), essay_required,
	recommendations_required, is_active, created_at, updated_at`

func scanScholarship(row interface{ Scan(...interface{}) error }) (Scholarship, error) {
	var s Scholarship
	err := row.Scan(
		&s.ID, &s.Name, &s.Organization, &s.Description,
		&s.Eligibility, &s.Deadline, &s.URL, &s.ApplyURL,
		&s.AcademicLevel, &s.GeographicRestrictions, &s.TargetType,
		&s.Ethnicity, &s.Gender, &s.MinAward, &s.MaxAward,
		&s.Renewable, &s.Country, &s.Source, &s.EssayRequired,
		&s.RecommendationsRequired, &s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	return s, err
}

// Insert stores a new scholarship. Existing rows are never
// overwritten; callers detect duplicates with IsUniqueViolation.
func (r *ScholarshipRepository) Insert(s Scholarship) error {
	_, err := r.db.Exec(`
		INSERT INTO scholarships (
			id, name, organization, description, eligibility, deadline,
			url, apply_url, academic_level, geographic_restrictions,
			target_type, ethnicity, gender, min_award, max_award,
			renewable, country, source, essay_required,
			recommendations_required, is_active
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21)
	`, s.ID, s.Name, s.Organization, s.Description, s.Eligibility, s.Deadline,
		s.URL, s.ApplyURL, s.AcademicLevel, s.GeographicRestrictions,
		s.TargetType, s.Ethnicity, s.Gender, s.MinAward, s.MaxAward,
		s.Renewable, s.Country, s.Source, s.EssayRequired,
		s.RecommendationsRequired, s.IsActive)

	if err != nil {
		return fmt.Errorf("failed to insert scholarship: %w", err)
	}

	return nil
}

// CheckDuplicate checks if a scholarship with the given ID already exists
func (r *ScholarshipRepository) CheckDuplicate(id string) (bool, error) {
	var existing string
	err := r.db.QueryRow(`SELECT id FROM scholarships WHERE id = $1 LIMIT 1`, id).Scan(&existing)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check duplicate: %w", err)
	}
	return true, nil
}

// GetByID returns a single scholarship or nil when not found
func (r *ScholarshipRepository) GetByID(id string) (*Scholarship, error) {
	row := r.db.QueryRow(`SELECT `+scholarshipColumns+` FROM scholarships WHERE id = $1`, id)

	s, err := scanScholarship(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scholarship: %w", err)
	}

	return &s, nil
}

// GetPage returns active scholarships ordered by creation time,
// paged for the expiration sweep.
func (r *ScholarshipRepository) GetPage(offset, limit int) ([]Scholarship, error) {
	rows, err := r.db.Query(`
		SELECT `+scholarshipColumns+`
		FROM scholarships
		WHERE is_active = true
		ORDER BY created_at, id
		OFFSET $1 LIMIT $2
	`, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get scholarship page: %w", err)
	}
	defer rows.Close()

	return collectScholarships(rows)
}

// Delete removes a scholarship by ID
func (r *ScholarshipRepository) Delete(id string) error {
	_, err := r.db.Exec(`DELETE FROM scholarships WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scholarship: %w", err)
	}
	return nil
}

// GetCount returns the total number of scholarships
func (r *ScholarshipRepository) GetCount() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM scholarships`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to get scholarship count: %w", err)
	}
	return count, nil
}

// GetStats returns total, active and inactive scholarship counts
func (r *ScholarshipRepository) GetStats() (total, active, inactive int, err error) {
	err = r.db.QueryRow(`
		SELECT
			COUNT(*) as total,
			SUM(CASE WHEN is_active = true THEN 1 ELSE 0 END) as active,
			SUM(CASE WHEN is_active = false THEN 1 ELSE 0 END) as inactive
		FROM scholarships
	`).Scan(&total, &active, &inactive)

	if err != nil {
		return 0, 0, 0, fmt.Errorf("failed to get scholarship stats: %w", err)
	}

	return total, active, inactive, nil
}

// searchResultLimit caps rows pulled from the database before
// relevance scoring and post-filtering happen in memory.
const searchResultLimit = 100

// Search returns active scholarships matching the given filters
func (r *ScholarshipRepository) Search(filters SearchFilters) ([]Scholarship, error) {
	query, args := buildSearchQuery(filters)

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to search scholarships: %w", err)
	}
	defer rows.Close()

	return collectScholarships(rows)
}

func buildSearchQuery(filters SearchFilters) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	conditions = append(conditions, "is_active = true")

	if filters.AcademicLevel != "" {
		conditions = append(conditions, "LOWER(academic_level) LIKE "+arg("%"+strings.ToLower(filters.AcademicLevel)+"%"))
	}
	if filters.Ethnicity != "" {
		conditions = append(conditions, "LOWER(ethnicity) LIKE "+arg("%"+strings.ToLower(filters.Ethnicity)+"%"))
	}
	if filters.Gender != "" {
		conditions = append(conditions, "LOWER(gender) = "+arg(strings.ToLower(filters.Gender)))
	}
	// "Both" matches every target type, so it adds no condition
	if filters.TargetType != "" && !strings.EqualFold(filters.TargetType, "both") {
		conditions = append(conditions, "LOWER(target_type) = "+arg(strings.ToLower(filters.TargetType)))
	}
	if filters.MinAmount > 0 {
		conditions = append(conditions, "max_award >= "+arg(filters.MinAmount))
	}
	if filters.MaxAmount > 0 {
		conditions = append(conditions, "min_award <= "+arg(filters.MaxAmount))
	}
	if filters.DeadlineAfter != "" {
		conditions = append(conditions, "deadline >= "+arg(filters.DeadlineAfter))
	}
	if filters.DeadlineBefore != "" {
		conditions = append(conditions, "deadline <= "+arg(filters.DeadlineBefore))
	}

	// Keywords and subject areas form a single OR group: matching any
	// one requested term qualifies a row.
	terms := append([]string{}, filters.Keywords...)
	terms = append(terms, filters.SubjectAreas...)
	var termConditions []string
	for _, term := range terms {
		if term == "" {
			continue
		}
		p := arg("%" + strings.ToLower(term) + "%")
		termConditions = append(termConditions,
			fmt.Sprintf("LOWER(name) LIKE %s OR LOWER(description) LIKE %s OR LOWER(eligibility) LIKE %s", p, p, p))
	}
	if len(termConditions) > 0 {
		conditions = append(conditions, "("+strings.Join(termConditions, " OR ")+")")
	}

	query := `SELECT ` + scholarshipColumns + ` FROM scholarships WHERE ` +
		strings.Join(conditions, " AND ") +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT %d", searchResultLimit)

	return query, args
}

func collectScholarships(rows *sql.Rows) ([]Scholarship, error) {
	var scholarships []Scholarship
	for rows.Next() {
		s, err := scanScholarship(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan scholarship row: %w", err)
		}
		scholarships = append(scholarships, s)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating scholarship rows: %w", err)
	}

	return scholarships, nil
}
