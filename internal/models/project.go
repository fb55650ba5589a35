package models

import "time"

// ProjectStatus captures the lifecycle of a research project.
type ProjectStatus string

const (
	ProjectStatusActive    ProjectStatus = "active"
	ProjectStatusCompleted ProjectStatus = "completed"
)

// Valid reports whether the status is one of the known values.
func (s ProjectStatus) Valid() bool {
	return s == ProjectStatusActive || s == ProjectStatusCompleted
}

// Project is a research project owned by exactly one professor. Status and
// ApplicationsOpen are independent: an active project may be closed to new
// applications.
type Project struct {
	ID                int64         `db:"id" json:"id"`
	ProfessorID       int64         `db:"professor_id" json:"professor_id"`
	Title             string        `db:"title" json:"title"`
	Introduction      *string       `db:"introduction" json:"introduction"`
	ProblemDefinition *string       `db:"problem_definition" json:"problem_definition"`
	Objective         *string       `db:"objective" json:"objective"`
	Methodology       *string       `db:"methodology" json:"methodology"`
	Scope             *string       `db:"scope" json:"scope"`
	Timeline          *string       `db:"timeline" json:"timeline"`
	RequiredSkills    *string       `db:"required_skills" json:"required_skills"`
	Status            ProjectStatus `db:"status" json:"status"`
	ApplicationsOpen  bool          `db:"applications_open" json:"applications_open"`
	CreatedAt         time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time     `db:"updated_at" json:"updated_at"`
}

// AcceptingApplications reports whether students may currently apply.
func (p *Project) AcceptingApplications() bool {
	return p.Status == ProjectStatusActive && p.ApplicationsOpen
}

// ProjectDetail decorates a project with the professor's name and an
// application count.
type ProjectDetail struct {
	Project
	ProfessorName     string `db:"professor_name" json:"professor_name"`
	ApplicationsCount int    `db:"applications_count" json:"applications_count"`
}

// ProjectFilter narrows project listings.
type ProjectFilter struct {
	ProfessorID *int64
	OpenOnly    bool
	Search      string
	Page        int
	PageSize    int
}
