package models

import (
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Role tags an authenticated identity.
type Role string

const (
	RoleStudent   Role = "student"
	RoleProfessor Role = "professor"
)

// ParseRole accepts the two wire-level role names.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleStudent, RoleProfessor:
		return Role(raw), true
	default:
		return "", false
	}
}

// Identity is the authenticated subject of a request. It is built only from a
// verified session and never mutated afterwards.
type Identity struct {
	ID    int64  `json:"id"`
	Role  Role   `json:"role"`
	Email string `json:"email"`
	Name  string `json:"name"`
}

// Ref renders a compact "role:id" reference for logs and audit rows.
func (i Identity) Ref() string {
	return fmt.Sprintf("%s:%d", i.Role, i.ID)
}

// SessionClaims is the signed payload of a session token.
type SessionClaims struct {
	UserID int64  `json:"user_id"`
	Role   Role   `json:"role"`
	Email  string `json:"email"`
	Name   string `json:"name"`
	jwt.RegisteredClaims
}

// Identity converts verified claims into an Identity.
func (c *SessionClaims) Identity() Identity {
	return Identity{ID: c.UserID, Role: c.Role, Email: c.Email, Name: c.Name}
}

// Credential is the persisted login record of either role.
type Credential struct {
	ID           int64  `db:"id"`
	Name         string `db:"name"`
	Email        string `db:"email"`
	PasswordHash string `db:"password_hash"`
}
