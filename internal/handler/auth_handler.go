package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/middleware"
	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/pkg/response"
)

type authService interface {
	RegisterStudent(ctx context.Context, req dto.RegisterRequest) (*models.Identity, error)
	RegisterProfessor(ctx context.Context, req dto.RegisterRequest) (*models.Identity, error)
	Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error)
	SessionTTL() time.Duration
}

// CookieConfig describes how the session cookie is written.
type CookieConfig struct {
	Name   string
	Secure bool
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service authService
	cookie  CookieConfig
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc authService, cookie CookieConfig) *AuthHandler {
	if cookie.Name == "" {
		cookie.Name = "access_token"
	}
	return &AuthHandler{service: svc, cookie: cookie}
}

// RegisterStudent godoc
// @Summary Register a student account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register/student [post]
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	h.register(c, h.service.RegisterStudent)
}

// RegisterProfessor godoc
// @Summary Register a professor account
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.RegisterRequest true "Registration payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /auth/register/professor [post]
func (h *AuthHandler) RegisterProfessor(c *gin.Context) {
	h.register(c, h.service.RegisterProfessor)
}

func (h *AuthHandler) register(c *gin.Context, create func(context.Context, dto.RegisterRequest) (*models.Identity, error)) {
	var req dto.RegisterRequest
	if !bindPayload(c, &req, "invalid registration payload") {
		return
	}
	identity, err := create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, identity)
}

// Login godoc
// @Summary Authenticate a student or professor
// @Description Sets the HTTP-only session cookie on success
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body dto.LoginRequest true "Login payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 429 {object} response.Envelope
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindPayload(c, &req, "invalid login payload") {
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.setSessionCookie(c, res.Token, int(h.service.SessionTTL().Seconds()))
	response.JSON(c, http.StatusOK, res, nil)
}

// Logout godoc
// @Summary Clear the session cookie
// @Tags Authentication
// @Success 204
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.NoContent(c)
}

// LogoutPage clears the session and sends the browser to the landing page.
func (h *AuthHandler) LogoutPage(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	response.Redirect(c, middleware.PublicLanding)
}

// Me godoc
// @Summary Current session identity
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	response.JSON(c, http.StatusOK, identity, nil)
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.cookie.Name, value, maxAge, "/", "", h.cookie.Secure, true)
}
