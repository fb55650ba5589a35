package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/response"
	"github.com/noah-isme/collab-portal-api/pkg/storage"
)

const profilePicField = "profile_pic"

type profileService interface {
	GetStudent(ctx context.Context, id int64) (*models.Student, error)
	GetProfessor(ctx context.Context, id int64) (*models.Professor, error)
	UpdateStudent(ctx context.Context, id int64, patch dto.StudentProfilePatch) (*models.Student, []string, error)
	UpdateProfessor(ctx context.Context, id int64, patch dto.ProfessorProfilePatch) (*models.Professor, []string, error)
	ViewApplicant(ctx context.Context, professorID, studentID int64) (*models.Student, error)
}

type photoStore interface {
	SaveImage(r io.Reader) (string, error)
	Delete(filename string) error
}

// ProfileHandler exposes profile reads and partial updates for both roles.
type ProfileHandler struct {
	profiles profileService
	photos   photoStore
	logger   *zap.Logger
}

// NewProfileHandler constructs ProfileHandler. photos may be nil, in which
// case uploads are rejected.
func NewProfileHandler(profiles profileService, photos photoStore, logger *zap.Logger) *ProfileHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProfileHandler{profiles: profiles, photos: photos, logger: logger}
}

// GetStudent godoc
// @Summary Own student profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /student/profile [get]
func (h *ProfileHandler) GetStudent(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	student, err := h.profiles.GetStudent(c.Request.Context(), identity.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// UpdateStudent godoc
// @Summary Partially update own student profile
// @Description Accepts JSON or multipart form; multipart may carry a profile_pic image
// @Tags Profiles
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param payload body dto.StudentProfilePatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /student/profile [patch]
func (h *ProfileHandler) UpdateStudent(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var patch dto.StudentProfilePatch
	if !bindPayload(c, &patch, "invalid profile payload") {
		return
	}
	uploaded, ok := h.storePhoto(c)
	if !ok {
		return
	}
	patch.ProfilePic = uploaded

	var previous *string
	if uploaded != nil {
		current, err := h.profiles.GetStudent(c.Request.Context(), identity.ID)
		if err != nil {
			h.discard(uploaded)
			response.Error(c, err)
			return
		}
		previous = current.ProfilePic
	}

	student, fields, err := h.profiles.UpdateStudent(c.Request.Context(), identity.ID, patch)
	if err != nil {
		h.discard(uploaded)
		response.Error(c, err)
		return
	}
	h.replaced(previous, uploaded)
	response.JSON(c, http.StatusOK, student, nil, map[string]interface{}{"updated_fields": fields})
}

// GetProfessor godoc
// @Summary Own professor profile
// @Tags Profiles
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /professor/profile [get]
func (h *ProfileHandler) GetProfessor(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	professor, err := h.profiles.GetProfessor(c.Request.Context(), identity.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, professor, nil)
}

// UpdateProfessor godoc
// @Summary Partially update own professor profile
// @Tags Profiles
// @Accept json
// @Accept multipart/form-data
// @Produce json
// @Param payload body dto.ProfessorProfilePatch true "Fields to change"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /professor/profile [patch]
func (h *ProfileHandler) UpdateProfessor(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	var patch dto.ProfessorProfilePatch
	if !bindPayload(c, &patch, "invalid profile payload") {
		return
	}
	uploaded, ok := h.storePhoto(c)
	if !ok {
		return
	}
	patch.ProfilePic = uploaded

	var previous *string
	if uploaded != nil {
		current, err := h.profiles.GetProfessor(c.Request.Context(), identity.ID)
		if err != nil {
			h.discard(uploaded)
			response.Error(c, err)
			return
		}
		previous = current.ProfilePic
	}

	professor, fields, err := h.profiles.UpdateProfessor(c.Request.Context(), identity.ID, patch)
	if err != nil {
		h.discard(uploaded)
		response.Error(c, err)
		return
	}
	h.replaced(previous, uploaded)
	response.JSON(c, http.StatusOK, professor, nil, map[string]interface{}{"updated_fields": fields})
}

// ViewApplicant godoc
// @Summary View the profile of a student who applied to one of your projects
// @Tags Profiles
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /professor/students/{id} [get]
func (h *ProfileHandler) ViewApplicant(c *gin.Context) {
	identity, ok := currentIdentity(c)
	if !ok {
		return
	}
	studentID, ok := pathID(c, "id")
	if !ok {
		return
	}
	student, err := h.profiles.ViewApplicant(c.Request.Context(), identity.ID, studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student, nil)
}

// storePhoto saves an uploaded profile_pic when the request is multipart and
// carries one. It returns nil when nothing was uploaded.
func (h *ProfileHandler) storePhoto(c *gin.Context) (*string, bool) {
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, true
	}
	header, err := c.FormFile(profilePicField)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, true
		}
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload"))
		return nil, false
	}
	if h.photos == nil {
		response.Error(c, appErrors.Validation("uploads are disabled", map[string]string{profilePicField: "uploads are disabled"}))
		return nil, false
	}

	file, err := header.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid upload"))
		return nil, false
	}
	defer file.Close()

	stored, err := h.photos.SaveImage(file)
	switch {
	case errors.Is(err, storage.ErrTooLarge):
		response.Error(c, appErrors.Validation("invalid upload", map[string]string{profilePicField: "file is too large"}))
		return nil, false
	case errors.Is(err, storage.ErrUnsupportedType):
		response.Error(c, appErrors.Validation("invalid upload", map[string]string{profilePicField: "must be a JPEG, PNG, GIF or WebP image"}))
		return nil, false
	case err != nil:
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store upload"))
		return nil, false
	}
	return &stored, true
}

func (h *ProfileHandler) discard(uploaded *string) {
	if uploaded == nil || h.photos == nil {
		return
	}
	if err := h.photos.Delete(*uploaded); err != nil {
		h.logger.Warn("failed to remove orphaned upload", zap.String("path", *uploaded), zap.Error(err))
	}
}

// replaced removes the photo a successful upload superseded. A failed delete
// only leaks a file, so the request still succeeds.
func (h *ProfileHandler) replaced(previous, uploaded *string) {
	if uploaded == nil || previous == nil || *previous == "" || *previous == *uploaded || h.photos == nil {
		return
	}
	if err := h.photos.Delete(*previous); err != nil {
		h.logger.Warn("failed to remove replaced photo", zap.String("path", *previous), zap.Error(err))
	}
}
