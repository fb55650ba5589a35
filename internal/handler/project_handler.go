package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/pkg/response"
)

type projectService interface {
	Create(ctx context.Context, professorID int64, req dto.CreateProjectRequest) (*models.Project, error)
	ListOwned(ctx context.Context, professorID int64, page, pageSize int) ([]models.ProjectDetail, *models.Pagination, error)
	GetOwned(ctx context.Context, professorID, projectID int64) (*models.ProjectDetail, error)
	Update(ctx context.Context, professorID, projectID int64, patch dto.ProjectPatch) (*models.Project, []string, error)
	Browse(ctx context.Context, query dto.ProjectQuery) ([]models.ProjectDetail, *models.Pagination, error)
	GetOpen(ctx context.Context, projectID int64) (*models.ProjectDetail, error)
}

// ProjectHandler exposes project endpoints for both roles.
type ProjectHandler struct {
	projects projectService
}

// NewProjectHandler constructs ProjectHandler.
func NewProjectHandler(projects projectService) *ProjectHandler {
	return &ProjectHandler{projects: projects}
}

// Create godoc
// @Summary Post a research project
// @Tags Professor Projects
// @Accept json
// @Produce json
// @Param payload body dto.CreateProjectRequest true "Project payload"
// @Success 201 {object} response.Envelope
// @Router /professor/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var req dto.CreateProjectRequest
	if !bindPayload(c, &req, "invalid project payload") {
		return
	}
	project, err := h.projects.Create(c.Request.Context(), identity.ID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, project)
}

// ListOwned godoc
// @Summary List own projects
// @Tags Professor Projects
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /professor/projects [get]
func (h *ProjectHandler) ListOwned(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	page, size := pageParams(c)
	projects, pagination, err := h.projects.ListOwned(c.Request.Context(), identity.ID, page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, pagination)
}

// GetOwned godoc
// @Summary Get one of own projects
// @Tags Professor Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /professor/projects/{id} [get]
func (h *ProjectHandler) GetOwned(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.GetOwned(c.Request.Context(), identity.ID, id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}

// Update godoc
// @Summary Partially update own project
// @Description Only submitted fields change; any invalid field rejects the whole patch
// @Tags Professor Projects
// @Accept json
// @Produce json
// @Param id path int true "Project ID"
// @Param payload body dto.ProjectPatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /professor/projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var patch dto.ProjectPatch
	if !bindPayload(c, &patch, "invalid project payload") {
		return
	}
	project, fields, err := h.projects.Update(c.Request.Context(), identity.ID, id, patch)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil, map[string]interface{}{"updated_fields": fields})
}

// Browse godoc
// @Summary Browse projects open to applications
// @Tags Student Projects
// @Produce json
// @Param professor_id query int false "Filter by professor"
// @Param search query string false "Search title and skills"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /student/projects [get]
func (h *ProjectHandler) Browse(c *gin.Context) {
	professorID, ok := queryID(c, "professor_id")
	if !ok {
		return
	}
	page, size := pageParams(c)
	projects, pagination, err := h.projects.Browse(c.Request.Context(), dto.ProjectQuery{
		ProfessorID: professorID,
		Search:      strings.TrimSpace(c.Query("search")),
		Page:        page,
		PageSize:    size,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, projects, pagination)
}

// GetOpen godoc
// @Summary Get an open project
// @Tags Student Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /student/projects/{id} [get]
func (h *ProjectHandler) GetOpen(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	project, err := h.projects.GetOpen(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, project, nil)
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	return page, size
}
