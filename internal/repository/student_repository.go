package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/collab-portal-api/internal/models"
)

const studentColumns = `id, name, email, password_hash, phone, gender, dob, mailing_address, previous_school,
        graduation_date, gpa, intended_major, current_year, branch, semester, bio, medical_info,
        extracurricular_activities, social_profiles, honors_awards, skills_summary, profile_pic,
        emergency_contact_name, emergency_phone, emergency_email, emergency_relationship, resume_link,
        created_at, updated_at`

var studentUpdatable = newColumnSet(
	"name", "email", "phone", "gender", "dob", "mailing_address", "previous_school",
	"graduation_date", "gpa", "intended_major", "current_year", "branch", "semester", "bio",
	"medical_info", "extracurricular_activities", "social_profiles", "honors_awards",
	"skills_summary", "profile_pic", "emergency_contact_name", "emergency_phone",
	"emergency_email", "emergency_relationship", "resume_link",
)

// StudentRepository manages persistence for student accounts and profiles.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

// Create inserts a student account. A duplicate email yields ErrUniqueViolation.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	const query = `INSERT INTO students (name, email, password_hash) VALUES ($1, $2, $3)
        RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, student.Name, student.Email, student.PasswordHash)
	if err := row.Scan(&student.ID, &student.CreatedAt, &student.UpdatedAt); err != nil {
		return wrap("create student", err)
	}
	return nil
}

// FindByID fetches a student by ID.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := "SELECT " + studentColumns + " FROM students WHERE id = $1"
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, wrap("find student", err)
	}
	return &student, nil
}

// FindCredentialByEmail returns the login record for an email.
func (r *StudentRepository) FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error) {
	return findCredential(ctx, r.db, "students", email)
}

// UpdateFields writes only the provided columns in a single statement.
func (r *StudentRepository) UpdateFields(ctx context.Context, id int64, values map[string]interface{}) error {
	return updateColumns(ctx, r.db, "students", studentUpdatable, id, values)
}

func findCredential(ctx context.Context, db *sqlx.DB, table, email string) (*models.Credential, error) {
	query := "SELECT id, name, email, password_hash FROM " + table + " WHERE email = $1 LIMIT 1"
	var cred models.Credential
	if err := db.GetContext(ctx, &cred, query, email); err != nil {
		return nil, wrap("find credential", err)
	}
	return &cred, nil
}
