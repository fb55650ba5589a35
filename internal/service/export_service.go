package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/export"
)

type applicantLister interface {
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationDetail, error)
}

var rosterHeaders = []string{"Application", "Project", "Student", "Email", "Status", "Applied"}

// ExportService renders a professor's applicant roster.
type ExportService struct {
	apps   applicantLister
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(apps applicantLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{apps: apps, logger: logger, now: time.Now}
}

// ExportApplicants renders applications to the professor's projects in the
// requested format and suggests a download file name.
func (s *ExportService) ExportApplicants(ctx context.Context, professorID int64, rawFormat string, query dto.ApplicationQuery) (*export.Document, string, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, "", appErrors.Validation("invalid export request", map[string]string{"format": "must be one of: csv pdf"})
	}

	apps, err := s.apps.List(ctx, models.ApplicationFilter{
		ProfessorID: &professorID,
		ProjectID:   query.ProjectID,
		Status:      query.Status,
	})
	if err != nil {
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}

	dataset := export.Dataset{
		Title:   "Applicant roster",
		Headers: rosterHeaders,
		Rows:    make([]map[string]string, 0, len(apps)),
	}
	for _, app := range apps {
		dataset.Rows = append(dataset.Rows, map[string]string{
			"Application": fmt.Sprintf("%d", app.ID),
			"Project":     app.ProjectTitle,
			"Student":     app.StudentName,
			"Email":       app.StudentEmail,
			"Status":      string(app.Status),
			"Applied":     app.CreatedAt.UTC().Format(models.DateLayout),
		})
	}

	doc, err := export.Render(format, dataset)
	if err != nil {
		s.logger.Error("render applicant roster", zap.String("format", string(format)), zap.Error(err))
		return nil, "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	filename := fmt.Sprintf("applicants-%s%s", s.now().UTC().Format("20060102-150405"), doc.Extension)
	return doc, filename, nil
}
