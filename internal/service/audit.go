package service

import (
	"context"
	"encoding/json"
	"strconv"

	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/models"
)

type clientInfoKey struct{}

// ClientInfo describes the caller of a request for audit purposes.
type ClientInfo struct {
	IP        string
	UserAgent string
}

// WithClientInfo attaches caller details to ctx.
func WithClientInfo(ctx context.Context, info ClientInfo) context.Context {
	return context.WithValue(ctx, clientInfoKey{}, info)
}

// ClientInfoFrom returns the caller details attached by WithClientInfo.
func ClientInfoFrom(ctx context.Context) ClientInfo {
	info, _ := ctx.Value(clientInfoKey{}).(ClientInfo)
	return info
}

// AuditRepository persists audit trail entries.
type AuditRepository interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// auditor writes audit entries on a best-effort basis. Failures are logged
// and never change the outcome of the audited operation.
type auditor struct {
	repo   AuditRepository
	logger *zap.Logger
}

func (a auditor) record(ctx context.Context, actor models.Identity, action, resource string, resourceID int64, values map[string]interface{}) {
	if a.repo == nil {
		return
	}
	entry := &models.AuditLog{
		Action:    action,
		Resource:  resource,
		IPAddress: ClientInfoFrom(ctx).IP,
		UserAgent: ClientInfoFrom(ctx).UserAgent,
	}
	if actor.ID > 0 {
		role, id := actor.Role, actor.ID
		entry.ActorRole = &role
		entry.ActorID = &id
	}
	if resourceID > 0 {
		rid := strconv.FormatInt(resourceID, 10)
		entry.ResourceID = &rid
	}
	if len(values) > 0 {
		if payload, err := json.Marshal(values); err == nil {
			body := string(payload)
			entry.NewValues = &body
		}
	}
	if err := a.repo.Create(ctx, entry); err != nil && a.logger != nil {
		a.logger.Warn("failed to record audit log", zap.String("action", action), zap.Error(err))
	}
}
