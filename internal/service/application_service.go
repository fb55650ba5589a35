package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/internal/repository"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

type applicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByID(ctx context.Context, id int64) (*models.ApplicationDetail, error)
	UpdateStatus(ctx context.Context, id int64, status models.ApplicationStatus) (*models.Application, error)
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationDetail, error)
}

type projectLookup interface {
	FindByID(ctx context.Context, id int64) (*models.ProjectDetail, error)
}

// dashboardInvalidator drops cached dashboards affected by a change.
type dashboardInvalidator interface {
	InvalidateStudent(ctx context.Context, studentID int64)
	InvalidateProfessor(ctx context.Context, professorID int64)
}

// ApplicationService runs the application workflow: submission with
// duplicate prevention and professor driven status transitions.
type ApplicationService struct {
	apps       applicationRepository
	projects   projectLookup
	dashboards dashboardInvalidator
	audit      auditor
	metrics    *MetricsService
	cleaner    TextCleaner
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewApplicationService constructs an ApplicationService.
func NewApplicationService(
	apps applicationRepository,
	projects projectLookup,
	dashboards dashboardInvalidator,
	audit AuditRepository,
	metrics *MetricsService,
	cleaner TextCleaner,
	validate *validator.Validate,
	logger *zap.Logger,
) *ApplicationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &ApplicationService{
		apps:       apps,
		projects:   projects,
		dashboards: dashboards,
		audit:      auditor{repo: audit, logger: logger},
		metrics:    metrics,
		cleaner:    cleaner,
		validator:  validate,
		logger:     logger,
	}
}

// Apply submits a pending application from studentID to req.ProjectID. The
// insert itself decides duplicates through the (student, project) unique
// constraint, so concurrent attempts yield exactly one row.
func (s *ApplicationService) Apply(ctx context.Context, studentID int64, req dto.ApplyRequest) (*models.Application, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid application payload")
	}

	project, err := s.projects.FindByID(ctx, req.ProjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	if !project.AcceptingApplications() {
		return nil, appErrors.ErrProjectClosed
	}

	app := &models.Application{
		StudentID: studentID,
		ProjectID: project.ID,
		Status:    models.ApplicationStatusPending,
	}
	if message := s.clean(req.Message); message != "" {
		app.Message = &message
	}

	if err := s.apps.Create(ctx, app); err != nil {
		if errors.Is(err, repository.ErrUniqueViolation) {
			return nil, appErrors.ErrDuplicateApplication
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create application")
	}

	s.metrics.RecordApplication()
	s.invalidate(ctx, studentID, project.ProfessorID)
	s.audit.record(ctx, models.Identity{ID: studentID, Role: models.RoleStudent}, models.AuditActionApplicationCreate, "application", app.ID,
		map[string]interface{}{"project_id": project.ID, "status": app.Status})

	return app, nil
}

// SetStatus moves an application to newStatus on behalf of professorID.
// Checks run in order: existence, ownership, status value, transition.
// Concurrent writes by the owner are last-write-wins.
func (s *ApplicationService) SetStatus(ctx context.Context, applicationID int64, newStatus string, professorID int64) (*models.Application, error) {
	current, err := s.apps.FindByID(ctx, applicationID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load application")
	}
	if current.ProfessorID != professorID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "application belongs to another professor's project")
	}

	target, ok := models.ParseApplicationStatus(strings.ToLower(strings.TrimSpace(newStatus)))
	if !ok {
		return nil, appErrors.Validation("invalid status", map[string]string{
			"status": "must be one of: pending shortlisted accepted rejected",
		})
	}
	if !CanTransition(current.Status, target) {
		return nil, appErrors.Clone(appErrors.ErrInvalidTransition,
			"cannot move application from "+string(current.Status)+" to "+string(target))
	}

	updated, err := s.apps.UpdateStatus(ctx, applicationID, target)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "application not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update application")
	}

	s.metrics.RecordTransition(string(current.Status), string(target))
	s.invalidate(ctx, current.StudentID, professorID)
	s.audit.record(ctx, models.Identity{ID: professorID, Role: models.RoleProfessor}, models.AuditActionApplicationStatus, "application", applicationID,
		map[string]interface{}{"from": current.Status, "to": target})

	return updated, nil
}

// ListForStudent returns the student's applications, newest first.
func (s *ApplicationService) ListForStudent(ctx context.Context, studentID int64) ([]models.ApplicationDetail, error) {
	apps, err := s.apps.List(ctx, models.ApplicationFilter{StudentID: &studentID})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return nonNil(apps), nil
}

// ListForProfessor returns applications to the professor's projects.
func (s *ApplicationService) ListForProfessor(ctx context.Context, professorID int64, query dto.ApplicationQuery) ([]models.ApplicationDetail, error) {
	apps, err := s.apps.List(ctx, models.ApplicationFilter{
		ProfessorID: &professorID,
		ProjectID:   query.ProjectID,
		Status:      query.Status,
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}
	return nonNil(apps), nil
}

func (s *ApplicationService) invalidate(ctx context.Context, studentID, professorID int64) {
	if s.dashboards == nil {
		return
	}
	s.dashboards.InvalidateStudent(ctx, studentID)
	s.dashboards.InvalidateProfessor(ctx, professorID)
}

func (s *ApplicationService) clean(raw string) string {
	if s.cleaner == nil {
		return strings.TrimSpace(raw)
	}
	return s.cleaner.Clean(raw)
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
