package dto

import "github.com/noah-isme/collab-portal-api/internal/models"

// RegisterRequest is the payload shared by both registration endpoints.
type RegisterRequest struct {
	Name            string `json:"name" form:"name" validate:"required,min=2,max=100"`
	Email           string `json:"email" form:"email" validate:"required,email,max=255"`
	Password        string `json:"password" form:"password" validate:"required,min=6,max=72"`
	ConfirmPassword string `json:"confirm_password" form:"confirm_password" validate:"required"`
}

// LoginRequest holds credentials and the credential table to check them against.
type LoginRequest struct {
	Email    string      `json:"email" form:"email" validate:"required,email"`
	Password string      `json:"password" form:"password" validate:"required"`
	Role     models.Role `json:"role" form:"role" validate:"required,oneof=student professor"`
}

// LoginResponse returns the issued session and the identity it carries.
// The token itself travels in the HTTP-only cookie.
type LoginResponse struct {
	Token     string          `json:"-"`
	ExpiresIn int64           `json:"expires_in"`
	User      models.Identity `json:"user"`
}
