package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/middleware"
	"github.com/noah-isme/collab-portal-api/internal/models"
)

// Handlers groups the HTTP handlers mounted by RegisterRoutes.
type Handlers struct {
	Auth         *AuthHandler
	Projects     *ProjectHandler
	Applications *ApplicationHandler
	Profiles     *ProfileHandler
	Dashboards   *DashboardHandler
	Metrics      *MetricsHandler
}

// RegisterRoutes mounts operational, page and API routes. The session
// middleware must already be installed on r. authLimiter may be nil.
func RegisterRoutes(r gin.IRouter, apiPrefix string, h Handlers, authLimiter gin.HandlerFunc) {
	if authLimiter == nil {
		authLimiter = func(c *gin.Context) { c.Next() }
	}

	r.GET("/health", h.Metrics.Health)
	r.GET("/ready", h.Metrics.Ready)
	r.GET("/metrics", h.Metrics.Prometheus)

	r.GET("/logout", h.Auth.LogoutPage)
	pages := r.Group("/dashboard")
	pages.GET("/student", middleware.RequirePageRole(models.RoleStudent), h.Dashboards.Student)
	pages.GET("/professor", middleware.RequirePageRole(models.RoleProfessor), h.Dashboards.Professor)

	api := r.Group(apiPrefix)

	auth := api.Group("/auth")
	auth.POST("/register/student", authLimiter, h.Auth.RegisterStudent)
	auth.POST("/register/professor", authLimiter, h.Auth.RegisterProfessor)
	auth.POST("/login", authLimiter, h.Auth.Login)
	auth.POST("/logout", h.Auth.Logout)
	auth.GET("/me", h.Auth.Me)

	student := api.Group("/student", middleware.RequireRole(models.RoleStudent))
	student.GET("/projects", h.Projects.Browse)
	student.GET("/projects/:id", h.Projects.GetOpen)
	student.POST("/applications", h.Applications.Apply)
	student.GET("/applications", h.Applications.ListMine)
	student.GET("/profile", h.Profiles.GetStudent)
	student.PATCH("/profile", h.Profiles.UpdateStudent)

	professor := api.Group("/professor", middleware.RequireRole(models.RoleProfessor))
	professor.POST("/projects", h.Projects.Create)
	professor.GET("/projects", h.Projects.ListOwned)
	professor.GET("/projects/:id", h.Projects.GetOwned)
	professor.PATCH("/projects/:id", h.Projects.Update)
	professor.GET("/applications", h.Applications.ListReceived)
	professor.GET("/applications/export", h.Applications.Export)
	professor.PATCH("/applications/:id/status", h.Applications.UpdateStatus)
	professor.GET("/profile", h.Profiles.GetProfessor)
	professor.PATCH("/profile", h.Profiles.UpdateProfessor)
	professor.GET("/students/:id", h.Profiles.ViewApplicant)
}
