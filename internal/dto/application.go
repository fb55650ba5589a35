package dto

import "github.com/noah-isme/collab-portal-api/internal/models"

// ApplyRequest payload for submitting an application.
type ApplyRequest struct {
	ProjectID int64  `json:"project_id" form:"project_id" validate:"required,gt=0"`
	Message   string `json:"message" form:"message" validate:"max=2000"`
}

// UpdateApplicationStatusRequest captures a professor's triage decision.
type UpdateApplicationStatusRequest struct {
	Status string `json:"status" form:"status" validate:"required"`
}

// ApplicationQuery mirrors supported professor listing filters.
type ApplicationQuery struct {
	ProjectID *int64
	Status    *models.ApplicationStatus
}
