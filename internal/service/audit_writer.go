package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/pkg/jobs"
)

const auditJobType = "audit.write"

// AuditWriter hands audit entries to a background queue so that the request
// path never waits on the audit table.
type AuditWriter struct {
	queue  *jobs.Queue
	logger *zap.Logger
}

// NewAuditWriter wires repo behind a job queue. Call Start before use and
// Stop on shutdown to flush buffered entries.
func NewAuditWriter(repo AuditRepository, cfg jobs.QueueConfig) *AuditWriter {
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		entry, ok := job.Payload.(*models.AuditLog)
		if !ok {
			return fmt.Errorf("unexpected audit payload %T", job.Payload)
		}
		writeCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return repo.Create(writeCtx, entry)
	}
	return &AuditWriter{
		queue:  jobs.NewQueue("audit", handler, cfg),
		logger: cfg.Logger,
	}
}

// Start launches the workers.
func (w *AuditWriter) Start(ctx context.Context) {
	w.queue.Start(ctx)
}

// Stop flushes pending entries and stops the workers.
func (w *AuditWriter) Stop() {
	w.queue.Stop()
}

// Create enqueues the entry. It fails only when the queue is full or stopped.
func (w *AuditWriter) Create(_ context.Context, log *models.AuditLog) error {
	if log.CreatedAt.IsZero() {
		log.CreatedAt = time.Now().UTC()
	}
	return w.queue.Enqueue(jobs.Job{
		ID:      uuid.NewString(),
		Type:    auditJobType,
		Payload: log,
	})
}
