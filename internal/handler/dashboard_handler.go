package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/middleware"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/response"
)

type dashboardService interface {
	Student(ctx context.Context, studentID int64) (*dto.StudentDashboard, bool, error)
	Professor(ctx context.Context, professorID int64) (*dto.ProfessorDashboard, bool, error)
}

// DashboardHandler wires dashboard service to HTTP endpoints.
type DashboardHandler struct {
	service dashboardService
}

// NewDashboardHandler constructs the handler.
func NewDashboardHandler(service dashboardService) *DashboardHandler {
	return &DashboardHandler{service: service}
}

// Student godoc
// @Summary Student dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Success 303 "Redirect to the landing page when not signed in as a student"
// @Router /dashboard/student [get]
func (h *DashboardHandler) Student(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	summary, cacheHit, err := h.service.Student(c.Request.Context(), identity.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ResponseMeta(c))
}

// Professor godoc
// @Summary Professor dashboard summary
// @Tags Dashboard
// @Produce json
// @Success 200 {object} response.Envelope
// @Success 303 "Redirect to the landing page when not signed in as a professor"
// @Router /dashboard/professor [get]
func (h *DashboardHandler) Professor(c *gin.Context) {
	if h.service == nil {
		response.Error(c, appErrors.ErrInternal)
		return
	}
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	summary, cacheHit, err := h.service.Professor(c.Request.Context(), identity.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ResponseMeta(c))
}
