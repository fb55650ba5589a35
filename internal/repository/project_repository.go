package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/collab-portal-api/internal/models"
)

const projectColumns = `p.id, p.professor_id, p.title, p.introduction, p.problem_definition, p.objective,
        p.methodology, p.scope, p.timeline, p.required_skills, p.status, p.applications_open,
        p.created_at, p.updated_at`

const projectDetailSelect = `SELECT ` + projectColumns + `, pr.name AS professor_name,
        (SELECT COUNT(*) FROM applications a WHERE a.project_id = p.id) AS applications_count
        FROM projects p JOIN professors pr ON pr.id = p.professor_id`

var projectUpdatable = newColumnSet(
	"title", "introduction", "problem_definition", "objective", "methodology", "scope",
	"timeline", "required_skills", "status", "applications_open",
)

// ProjectRepository manages persistence for research projects.
type ProjectRepository struct {
	db *sqlx.DB
}

// NewProjectRepository constructs a ProjectRepository.
func NewProjectRepository(db *sqlx.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project owned by project.ProfessorID.
func (r *ProjectRepository) Create(ctx context.Context, project *models.Project) error {
	const query = `INSERT INTO projects (professor_id, title, introduction, problem_definition, objective,
        methodology, scope, timeline, required_skills, status, applications_open)
        VALUES (:professor_id, :title, :introduction, :problem_definition, :objective,
        :methodology, :scope, :timeline, :required_skills, :status, :applications_open)
        RETURNING id, created_at, updated_at`
	rows, err := r.db.NamedQueryContext(ctx, query, project)
	if err != nil {
		return wrap("create project", err)
	}
	defer rows.Close() //nolint:errcheck
	if rows.Next() {
		if err := rows.Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt); err != nil {
			return wrap("create project", err)
		}
	}
	return wrap("create project", rows.Err())
}

// FindByID fetches a project with its owner name and application count.
func (r *ProjectRepository) FindByID(ctx context.Context, id int64) (*models.ProjectDetail, error) {
	var project models.ProjectDetail
	if err := r.db.GetContext(ctx, &project, projectDetailSelect+" WHERE p.id = $1", id); err != nil {
		return nil, wrap("find project", err)
	}
	return &project, nil
}

// List returns projects matching the filter, newest first, with the total count.
func (r *ProjectRepository) List(ctx context.Context, filter models.ProjectFilter) ([]models.ProjectDetail, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}

	if filter.ProfessorID != nil {
		args = append(args, *filter.ProfessorID)
		conditions = append(conditions, fmt.Sprintf("p.professor_id = $%d", len(args)))
	}
	if filter.OpenOnly {
		args = append(args, models.ProjectStatusActive)
		conditions = append(conditions, fmt.Sprintf("p.status = $%d AND p.applications_open = TRUE", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+strings.ToLower(search)+"%")
		conditions = append(conditions, fmt.Sprintf("(LOWER(p.title) LIKE $%d OR LOWER(COALESCE(p.required_skills, '')) LIKE $%d)", len(args), len(args)))
	}

	where := " WHERE " + strings.Join(conditions, " AND ")
	limit, offset := pageBounds(filter.Page, filter.PageSize)

	query := fmt.Sprintf("%s%s ORDER BY p.created_at DESC, p.id DESC LIMIT %d OFFSET %d", projectDetailSelect, where, limit, offset)
	var projects []models.ProjectDetail
	if err := r.db.SelectContext(ctx, &projects, query, args...); err != nil {
		return nil, 0, wrap("list projects", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM projects p"+where, args...); err != nil {
		return nil, 0, wrap("count projects", err)
	}
	return projects, total, nil
}

// ListRecentlyUpdated returns a professor's projects ordered by last update.
func (r *ProjectRepository) ListRecentlyUpdated(ctx context.Context, professorID int64, limit int) ([]models.Project, error) {
	query := "SELECT " + projectColumns + " FROM projects p WHERE p.professor_id = $1 ORDER BY p.updated_at DESC, p.id DESC LIMIT $2"
	var projects []models.Project
	if err := r.db.SelectContext(ctx, &projects, query, professorID, limit); err != nil {
		return nil, wrap("list recent projects", err)
	}
	return projects, nil
}

// CountByProfessor returns the professor's total and active project counts.
func (r *ProjectRepository) CountByProfessor(ctx context.Context, professorID int64) (int, int, error) {
	const query = `SELECT COUNT(*) AS total,
        COUNT(*) FILTER (WHERE status = 'active') AS active
        FROM projects WHERE professor_id = $1`
	var counts struct {
		Total  int `db:"total"`
		Active int `db:"active"`
	}
	if err := r.db.GetContext(ctx, &counts, query, professorID); err != nil {
		return 0, 0, wrap("count projects", err)
	}
	return counts.Total, counts.Active, nil
}

// UpdateFields writes only the provided columns in a single statement.
func (r *ProjectRepository) UpdateFields(ctx context.Context, id int64, values map[string]interface{}) error {
	return updateColumns(ctx, r.db, "projects", projectUpdatable, id, values)
}
