package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/collab-portal-api/internal/models"
)

const applicationColumns = "id, student_id, project_id, message, status, created_at, updated_at"

const applicationDetailSelect = `SELECT a.id, a.student_id, a.project_id, a.message, a.status, a.created_at, a.updated_at,
        p.title AS project_title, p.professor_id, pr.name AS professor_name,
        s.name AS student_name, s.email AS student_email
        FROM applications a
        JOIN projects p ON p.id = a.project_id
        JOIN professors pr ON pr.id = p.professor_id
        JOIN students s ON s.id = a.student_id`

// ApplicationRepository manages persistence for project applications.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs an ApplicationRepository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

// Create inserts an application. The (student_id, project_id) unique
// constraint decides duplicates; a collision yields ErrUniqueViolation.
func (r *ApplicationRepository) Create(ctx context.Context, app *models.Application) error {
	const query = `INSERT INTO applications (student_id, project_id, message, status) VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`
	row := r.db.QueryRowxContext(ctx, query, app.StudentID, app.ProjectID, app.Message, app.Status)
	if err := row.Scan(&app.ID, &app.CreatedAt, &app.UpdatedAt); err != nil {
		return wrap("create application", err)
	}
	return nil
}

// FindByID fetches an application joined with its project owner.
func (r *ApplicationRepository) FindByID(ctx context.Context, id int64) (*models.ApplicationDetail, error) {
	var app models.ApplicationDetail
	if err := r.db.GetContext(ctx, &app, applicationDetailSelect+" WHERE a.id = $1", id); err != nil {
		return nil, wrap("find application", err)
	}
	return &app, nil
}

// UpdateStatus commits a new status and returns the stored row.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	query := "UPDATE applications SET status = $1, updated_at = NOW() WHERE id = $2 RETURNING " + applicationColumns
	var app models.Application
	if err := r.db.GetContext(ctx, &app, query, status, id); err != nil {
		return nil, wrap("update application status", err)
	}
	return &app, nil
}

// List returns applications matching the filter, newest first.
func (r *ApplicationRepository) List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationDetail, error) {
	where, args := applicationConditions(filter)
	query := applicationDetailSelect + where + " ORDER BY a.created_at DESC, a.id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}
	var apps []models.ApplicationDetail
	if err := r.db.SelectContext(ctx, &apps, query, args...); err != nil {
		return nil, wrap("list applications", err)
	}
	return apps, nil
}

// CountByStatus aggregates matching applications per status.
func (r *ApplicationRepository) CountByStatus(ctx context.Context, filter models.ApplicationFilter) ([]models.StatusCount, error) {
	where, args := applicationConditions(filter)
	query := "SELECT a.status, COUNT(*) AS count FROM applications a JOIN projects p ON p.id = a.project_id" + where + " GROUP BY a.status"
	var counts []models.StatusCount
	if err := r.db.SelectContext(ctx, &counts, query, args...); err != nil {
		return nil, wrap("count applications", err)
	}
	return counts, nil
}

// HasAppliedToProfessor reports whether the student applied to any project
// owned by the professor.
func (r *ApplicationRepository) HasAppliedToProfessor(ctx context.Context, studentID, professorID int64) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM applications a JOIN projects p ON p.id = a.project_id
        WHERE a.student_id = $1 AND p.professor_id = $2)`
	var exists bool
	if err := r.db.GetContext(ctx, &exists, query, studentID, professorID); err != nil {
		return false, wrap("check applicant", err)
	}
	return exists, nil
}

func applicationConditions(filter models.ApplicationFilter) (string, []interface{}) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	if filter.StudentID != nil {
		args = append(args, *filter.StudentID)
		conditions = append(conditions, fmt.Sprintf("a.student_id = $%d", len(args)))
	}
	if filter.ProfessorID != nil {
		args = append(args, *filter.ProfessorID)
		conditions = append(conditions, fmt.Sprintf("p.professor_id = $%d", len(args)))
	}
	if filter.ProjectID != nil {
		args = append(args, *filter.ProjectID)
		conditions = append(conditions, fmt.Sprintf("a.project_id = $%d", len(args)))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		conditions = append(conditions, fmt.Sprintf("a.status = $%d", len(args)))
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}
