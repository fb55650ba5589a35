package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/export"
	"github.com/noah-isme/collab-portal-api/pkg/response"
)

type applicationService interface {
	Apply(ctx context.Context, studentID int64, req dto.ApplyRequest) (*models.Application, error)
	SetStatus(ctx context.Context, applicationID int64, newStatus string, professorID int64) (*models.Application, error)
	ListForStudent(ctx context.Context, studentID int64) ([]models.ApplicationDetail, error)
	ListForProfessor(ctx context.Context, professorID int64, query dto.ApplicationQuery) ([]models.ApplicationDetail, error)
}

type exportService interface {
	ExportApplicants(ctx context.Context, professorID int64, format string, query dto.ApplicationQuery) (*export.Document, string, error)
}

// ApplicationHandler exposes the application workflow.
type ApplicationHandler struct {
	apps    applicationService
	exports exportService
}

// NewApplicationHandler constructs ApplicationHandler.
func NewApplicationHandler(apps applicationService, exports exportService) *ApplicationHandler {
	return &ApplicationHandler{apps: apps, exports: exports}
}

// Apply godoc
// @Summary Apply to a project
// @Tags Student Applications
// @Accept json
// @Produce json
// @Param payload body dto.ApplyRequest true "Application payload"
// @Success 201 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /student/applications [post]
func (h *ApplicationHandler) Apply(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.ApplyRequest
	if !bindPayload(c, &req, "invalid application payload") {
		return
	}
	app, err := h.apps.Apply(c.Request.Context(), identity.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, app)
}

// ListMine godoc
// @Summary List own applications
// @Tags Student Applications
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/applications [get]
func (h *ApplicationHandler) ListMine(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	apps, err := h.apps.ListForStudent(c.Request.Context(), identity.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// ListReceived godoc
// @Summary List applications to own projects
// @Tags Professor Applications
// @Produce json
// @Param project_id query int false "Filter by project"
// @Param status query string false "Filter by status"
// @Success 200 {object} response.Envelope
// @Router /professor/applications [get]
func (h *ApplicationHandler) ListReceived(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	query, ok := applicationQuery(c)
	if !ok {
		return
	}
	apps, err := h.apps.ListForProfessor(c.Request.Context(), identity.ID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, apps, nil)
}

// UpdateStatus godoc
// @Summary Move an application through the workflow
// @Tags Professor Applications
// @Accept json
// @Produce json
// @Param id path int true "Application ID"
// @Param payload body dto.UpdateApplicationStatusRequest true "Target status"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /professor/applications/{id}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateApplicationStatusRequest
	if !bindPayload(c, &req, "invalid status payload") {
		return
	}
	app, err := h.apps.SetStatus(c.Request.Context(), id, req.Status, identity.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, app, nil)
}

// Export godoc
// @Summary Export applicant roster
// @Tags Professor Applications
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" default(csv)
// @Param project_id query int false "Filter by project"
// @Param status query string false "Filter by status"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /professor/applications/export [get]
func (h *ApplicationHandler) Export(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	query, ok := applicationQuery(c)
	if !ok {
		return
	}
	doc, filename, err := h.exports.ExportApplicants(c.Request.Context(), identity.ID, c.Query("format"), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+strconv.Quote(filename))
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, doc.ContentType, doc.Body)
}

func applicationQuery(c *gin.Context) (dto.ApplicationQuery, bool) {
	var query dto.ApplicationQuery
	projectID, ok := queryID(c, "project_id")
	if !ok {
		return query, false
	}
	query.ProjectID = projectID
	if raw := c.Query("status"); raw != "" {
		status, valid := models.ParseApplicationStatus(raw)
		if !valid {
			response.Error(c, appErrors.Validation("invalid status filter", map[string]string{
				"status": "must be one of: pending shortlisted accepted rejected",
			}))
			return query, false
		}
		query.Status = &status
	}
	return query, true
}
