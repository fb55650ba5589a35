package models

import "time"

// ApplicationStatus enumerates the workflow states of an application.
type ApplicationStatus string

const (
	ApplicationStatusPending     ApplicationStatus = "pending"
	ApplicationStatusShortlisted ApplicationStatus = "shortlisted"
	ApplicationStatusAccepted    ApplicationStatus = "accepted"
	ApplicationStatusRejected    ApplicationStatus = "rejected"
)

// ApplicationStatuses lists every workflow state in display order.
var ApplicationStatuses = []ApplicationStatus{
	ApplicationStatusPending,
	ApplicationStatusShortlisted,
	ApplicationStatusAccepted,
	ApplicationStatusRejected,
}

// ParseApplicationStatus accepts only the four wire-level state names.
func ParseApplicationStatus(raw string) (ApplicationStatus, bool) {
	for _, s := range ApplicationStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}

// Application links one student to one project.
type Application struct {
	ID        int64             `db:"id" json:"id"`
	StudentID int64             `db:"student_id" json:"student_id"`
	ProjectID int64             `db:"project_id" json:"project_id"`
	Message   *string           `db:"message" json:"message,omitempty"`
	Status    ApplicationStatus `db:"status" json:"status"`
	CreatedAt time.Time         `db:"created_at" json:"created_at"`
	UpdatedAt time.Time         `db:"updated_at" json:"updated_at"`
}

// ApplicationDetail joins an application with the names a listing needs.
type ApplicationDetail struct {
	Application
	ProjectTitle  string `db:"project_title" json:"project_title"`
	ProfessorID   int64  `db:"professor_id" json:"professor_id"`
	ProfessorName string `db:"professor_name" json:"professor_name"`
	StudentName   string `db:"student_name" json:"student_name"`
	StudentEmail  string `db:"student_email" json:"student_email"`
}

// ApplicationFilter narrows application listings.
type ApplicationFilter struct {
	StudentID   *int64
	ProfessorID *int64
	ProjectID   *int64
	Status      *ApplicationStatus
	Limit       int
}

// StatusCount is a per-status aggregate row.
type StatusCount struct {
	Status ApplicationStatus `db:"status" json:"status"`
	Count  int               `db:"count" json:"count"`
}
