package models

import "time"

// AuditAction constants represent actions to be logged.
const (
	AuditActionRegister          = "REGISTER"
	AuditActionLogin             = "LOGIN"
	AuditActionApplicationCreate = "APPLICATION_CREATE"
	AuditActionApplicationStatus = "APPLICATION_STATUS"
	AuditActionProfileUpdate     = "PROFILE_UPDATE"
	AuditActionProjectCreate     = "PROJECT_CREATE"
	AuditActionProjectUpdate     = "PROJECT_UPDATE"
)

// AuditLog represents an audit trail record.
type AuditLog struct {
	ID         int64     `db:"id" json:"id"`
	ActorRole  *Role     `db:"actor_role" json:"actor_role,omitempty"`
	ActorID    *int64    `db:"actor_id" json:"actor_id,omitempty"`
	Action     string    `db:"action" json:"action"`
	Resource   string    `db:"resource" json:"resource"`
	ResourceID *string   `db:"resource_id" json:"resource_id,omitempty"`
	NewValues  *string   `db:"new_values" json:"new_values,omitempty"`
	IPAddress  string    `db:"ip_address" json:"ip_address"`
	UserAgent  string    `db:"user_agent" json:"user_agent"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
