package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/collab-portal-api/internal/models"
)

const professorColumns = `id, name, email, password_hash, department, office_location, phone, affiliation, bio,
        expertise, research_interests, education, cv_link, awards, publications, memberships,
        social_links, profile_pic, pronouns, pronunciation, titles, grants, news, other_info,
        created_at, updated_at`

var professorUpdatable = newColumnSet(
	"name", "email", "department", "office_location", "phone", "affiliation", "bio",
	"expertise", "research_interests", "education", "cv_link", "awards", "publications",
	"memberships", "social_links", "profile_pic", "pronouns", "pronunciation", "titles",
	"grants", "news", "other_info",
)

// ProfessorRepository manages persistence for professor accounts and profiles.
type ProfessorRepository struct {
	db *sqlx.DB
}

// NewProfessorRepository constructs a ProfessorRepository.
func NewProfessorRepository(db *sqlx.DB) *ProfessorRepository {
	return &ProfessorRepository{db: db}
}

// Create inserts a professor account. A duplicate email yields ErrUniqueViolation.
func (r *ProfessorRepository) Create(ctx context.Context, professor *models.Professor) error {
	const query = `INSERT INTO professors (name, email, password_hash) VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, professor.Name, professor.Email, professor.PasswordHash)
	if err := row.Scan(&professor.ID, &professor.CreatedAt, &professor.UpdatedAt); err != nil {
		return wrap("create professor", err)
	}
	return nil
}

// FindByID fetches a professor by ID.
func (r *ProfessorRepository) FindByID(ctx context.Context, id int64) (*models.Professor, error) {
	query := "SELECT " + professorColumns + " FROM professors WHERE id = $1"
	var professor models.Professor
	if err := r.db.GetContext(ctx, &professor, query, id); err != nil {
		return nil, wrap("find professor", err)
	}
	return &professor, nil
}

// FindCredentialByEmail returns the login record for an email.
func (r *ProfessorRepository) FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	return findCredential(ctx, r.db, "professors", email)
}

// UpdateFields writes only the provided columns in a single statement.
func (r *ProfessorRepository) UpdateFields(ctx context.Context, id int64, values map[string]interface{}) error {
	return updateColumns(ctx, r.db, "professors", professorUpdatable, id, values)
}
