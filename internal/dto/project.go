package dto

// CreateProjectRequest payload for posting a new research project.
type CreateProjectRequest struct {
	Title             string  `json:"title" form:"title" validate:"required,max=200"`
	Introduction      *string `json:"introduction" form:"introduction"`
	ProblemDefinition *string `json:"problem_definition" form:"problem_definition"`
	Objective         *string `json:"objective" form:"objective"`
	Methodology       *string `json:"methodology" form:"methodology"`
	Scope             *string `json:"scope" form:"scope"`
	Timeline          *string `json:"timeline" form:"timeline"`
	RequiredSkills    *string `json:"required_skills" form:"required_skills"`
	Status            string  `json:"status" form:"status" validate:"omitempty,oneof=active completed"`
	ApplicationsOpen  *bool   `json:"applications_open" form:"applications_open"`
}

// ProjectPatch lists the project fields an owner may edit.
type ProjectPatch struct {
	Title             *string `json:"title" form:"title"`
	Introduction      *string `json:"introduction" form:"introduction"`
	ProblemDefinition *string `json:"problem_definition" form:"problem_definition"`
	Objective         *string `json:"objective" form:"objective"`
	Methodology       *string `json:"methodology" form:"methodology"`
	Scope             *string `json:"scope" form:"scope"`
	Timeline          *string `json:"timeline" form:"timeline"`
	RequiredSkills    *string `json:"required_skills" form:"required_skills"`
	Status            *string `json:"status" form:"status"`
	ApplicationsOpen  *bool   `json:"applications_open" form:"applications_open"`
}

// ProjectQuery mirrors the browse filters exposed to students.
type ProjectQuery struct {
	ProfessorID *int64
	Search      string
	Page        int
	PageSize    int
}
