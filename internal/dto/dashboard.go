package dto

import "github.com/noah-isme/collab-portal-api/internal/models"

// StudentDashboard summarises a student's activity.
type StudentDashboard struct {
	TotalApplications  int                              `json:"total_applications"`
	ByStatus           map[models.ApplicationStatus]int `json:"by_status"`
	Skills             []string                         `json:"skills"`
	RecentApplications []models.ApplicationDetail       `json:"recent_applications"`
}

// ProfessorDashboard summarises a professor's projects and inbound applications.
type ProfessorDashboard struct {
	TotalProjects        int                        `json:"total_projects"`
	ActiveProjects       int                        `json:"active_projects"`
	ApplicationsReceived int                        `json:"applications_received"`
	RecentProjects       []models.Project           `json:"recent_projects"`
	RecentApplications   []models.ApplicationDetail `json:"recent_applications"`
}
