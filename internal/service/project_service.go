package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

type projectRepository interface {
	Create(ctx context.Context, project *models.Project) error
	FindByID(ctx context.Context, id int64) (*models.ProjectDetail, error)
	List(ctx context.Context, filter models.ProjectFilter) ([]models.ProjectDetail, int, error)
	UpdateFields(ctx context.Context, id int64, values map[string]interface{}) error
}

// ProjectService manages research projects for their owners and exposes
// open projects to students.
type ProjectService struct {
	repo       projectRepository
	merger     *Merger
	dashboards dashboardInvalidator
	audit      auditor
	cleaner    TextCleaner
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewProjectService constructs a ProjectService.
func NewProjectService(repo projectRepository, merger *Merger, dashboards dashboardInvalidator, audit AuditRepository, cleaner TextCleaner, validate *validator.Validate, logger *zap.Logger) *ProjectService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	if merger == nil {
		merger = NewMerger(cleaner, validate)
	}
	return &ProjectService{repo: repo, merger: merger, dashboards: dashboards, audit: auditor{repo: audit, logger: logger}, cleaner: cleaner, validator: validate, logger: logger}
}

// Create posts a new project owned by professorID.
func (s *ProjectService) Create(ctx context.Context, professorID int64, req dto.CreateProjectRequest) (*models.Project, error) {
	req.Title = s.clean(req.Title)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid project payload")
	}

	project := &models.Project{
		ProfessorID:       professorID,
		Title:             req.Title,
		Introduction:      s.cleanPtr(req.Introduction),
		ProblemDefinition: s.cleanPtr(req.ProblemDefinition),
		Objective:         s.cleanPtr(req.Objective),
		Methodology:       s.cleanPtr(req.Methodology),
		Scope:             s.cleanPtr(req.Scope),
		Timeline:          s.cleanPtr(req.Timeline),
		RequiredSkills:    s.cleanPtr(req.RequiredSkills),
		Status:            models.ProjectStatusActive,
		ApplicationsOpen:  true,
	}
	if req.Status != "" {
		project.Status = models.ProjectStatus(req.Status)
	}
	if req.ApplicationsOpen != nil {
		project.ApplicationsOpen = *req.ApplicationsOpen
	}

	if err := s.repo.Create(ctx, project); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create project")
	}

	s.invalidate(ctx, professorID)
	s.audit.record(ctx, models.Identity{ID: professorID, Role: models.RoleProfessor}, models.AuditActionProjectCreate, "project", project.ID,
		map[string]interface{}{"title": project.Title, "status": project.Status})
	return project, nil
}

// ListOwned returns the professor's projects, newest first.
func (s *ProjectService) ListOwned(ctx context.Context, professorID int64, page, pageSize int) ([]models.ProjectDetail, *models.Pagination, error) {
	return s.list(ctx, models.ProjectFilter{ProfessorID: &professorID, Page: page, PageSize: pageSize})
}

// GetOwned returns one of the professor's projects. Projects owned by
// someone else are reported as not found.
func (s *ProjectService) GetOwned(ctx context.Context, professorID, projectID int64) (*models.ProjectDetail, error) {
	project, err := s.find(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project.ProfessorID != professorID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
	}
	return project, nil
}

// Update merges patch into a project owned by professorID.
func (s *ProjectService) Update(ctx context.Context, professorID, projectID int64, patch dto.ProjectPatch) (*models.Project, []string, error) {
	current, err := s.find(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if current.ProfessorID != professorID {
		return nil, nil, appErrors.Clone(appErrors.ErrForbidden, "project belongs to another professor")
	}

	merged, changes, err := s.merger.MergeProject(current.Project, patch)
	if err != nil {
		return nil, nil, err
	}
	if changes.Empty() {
		return &merged, []string{}, nil
	}

	if err := s.repo.UpdateFields(ctx, projectID, changes.Values); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update project")
	}

	fields := changes.Fields()
	s.invalidate(ctx, professorID)
	s.audit.record(ctx, models.Identity{ID: professorID, Role: models.RoleProfessor}, models.AuditActionProjectUpdate, "project", projectID,
		map[string]interface{}{"fields": fields})
	return &merged, fields, nil
}

// Browse lists projects that are active and open to applications.
func (s *ProjectService) Browse(ctx context.Context, query dto.ProjectQuery) ([]models.ProjectDetail, *models.Pagination, error) {
	return s.list(ctx, models.ProjectFilter{
		ProfessorID: query.ProfessorID,
		OpenOnly:    true,
		Search:      query.Search,
		Page:        query.Page,
		PageSize:    query.PageSize,
	})
}

// GetOpen returns a project visible to students. Projects that are not
// accepting applications are reported as not found.
func (s *ProjectService) GetOpen(ctx context.Context, projectID int64) (*models.ProjectDetail, error) {
	project, err := s.find(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !project.AcceptingApplications() {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
	}
	return project, nil
}

func (s *ProjectService) list(ctx context.Context, filter models.ProjectFilter) ([]models.ProjectDetail, *models.Pagination, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	projects, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	return nonNil(projects), &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}, nil
}

func (s *ProjectService) find(ctx context.Context, id int64) (*models.ProjectDetail, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "project not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load project")
	}
	return project, nil
}

func (s *ProjectService) invalidate(ctx context.Context, professorID int64) {
	if s.dashboards != nil {
		s.dashboards.InvalidateProfessor(ctx, professorID)
	}
}

func (s *ProjectService) clean(raw string) string {
	if s.cleaner == nil {
		return raw
	}
	return s.cleaner.Clean(raw)
}

func (s *ProjectService) cleanPtr(raw *string) *string {
	if raw == nil {
		return nil
	}
	value := s.clean(*raw)
	return &value
}
