package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/internal/repository"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

type studentProfileRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	UpdateFields(ctx context.Context, id int64, values map[string]interface{}) error
}

type professorProfileRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Professor, error)
	UpdateFields(ctx context.Context, id int64, values map[string]interface{}) error
}

type applicantChecker interface {
	HasAppliedToProfessor(ctx context.Context, studentID, professorID int64) (bool, error)
}

// ProfileService reads and edits student and professor profiles.
type ProfileService struct {
	students   studentProfileRepository
	professors professorProfileRepository
	applicants applicantChecker
	merger     *Merger
	dashboards dashboardInvalidator
	audit      auditor
	logger     *zap.Logger
}

// NewProfileService constructs a ProfileService.
func NewProfileService(students studentProfileRepository, professors professorProfileRepository, applicants applicantChecker, merger *Merger, dashboards dashboardInvalidator, audit AuditRepository, logger *zap.Logger) *ProfileService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if merger == nil {
		merger = NewMerger(nil, nil)
	}
	return &ProfileService{
		students:   students,
		professors: professors,
		applicants: applicants,
		merger:     merger,
		dashboards: dashboards,
		audit:      auditor{repo: audit, logger: logger},
		logger:     logger,
	}
}

// GetStudent returns a student profile.
func (s *ProfileService) GetStudent(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.students.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "student not found", "failed to load student")
	}
	return student, nil
}

// GetProfessor returns a professor profile.
func (s *ProfileService) GetProfessor(ctx context.Context, id int64) (*models.Professor, error) {
	professor, err := s.professors.FindByID(ctx, id)
	if err != nil {
		return nil, notFoundOrInternal(err, "professor not found", "failed to load professor")
	}
	return professor, nil
}

// UpdateStudent merges patch into the student's profile. Either every
// submitted field is written in one statement or none is.
func (s *ProfileService) UpdateStudent(ctx context.Context, id int64, patch dto.StudentProfilePatch) (*models.Student, []string, error) {
	current, err := s.GetStudent(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	merged, changes, err := s.merger.MergeStudent(*current, patch)
	if err != nil {
		return nil, nil, err
	}
	if changes.Empty() {
		return &merged, []string{}, nil
	}
	if err := s.students.UpdateFields(ctx, id, changes.Values); err != nil {
		return nil, nil, profileWriteError(err)
	}

	fields := changes.Fields()
	if s.dashboards != nil {
		s.dashboards.InvalidateStudent(ctx, id)
	}
	s.audit.record(ctx, merged.Identity(), models.AuditActionProfileUpdate, "student", id, map[string]interface{}{"fields": fields})
	return &merged, fields, nil
}

// UpdateProfessor merges patch into the professor's profile.
func (s *ProfileService) UpdateProfessor(ctx context.Context, id int64, patch dto.ProfessorProfilePatch) (*models.Professor, []string, error) {
	current, err := s.GetProfessor(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	merged, changes, err := s.merger.MergeProfessor(*current, patch)
	if err != nil {
		return nil, nil, err
	}
	if changes.Empty() {
		return &merged, []string{}, nil
	}
	if err := s.professors.UpdateFields(ctx, id, changes.Values); err != nil {
		return nil, nil, profileWriteError(err)
	}

	fields := changes.Fields()
	if s.dashboards != nil {
		s.dashboards.InvalidateProfessor(ctx, id)
	}
	s.audit.record(ctx, merged.Identity(), models.AuditActionProfileUpdate, "professor", id, map[string]interface{}{"fields": fields})
	return &merged, fields, nil
}

// ViewApplicant returns a student's profile to a professor, provided the
// student applied to at least one of that professor's projects.
func (s *ProfileService) ViewApplicant(ctx context.Context, professorID, studentID int64) (*models.Student, error) {
	ok, err := s.applicants.HasAppliedToProfessor(ctx, studentID, professorID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check applicant")
	}
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "student has not applied to your projects")
	}
	return s.GetStudent(ctx, studentID)
}

func notFoundOrInternal(err error, notFound, internal string) error {
	if errors.Is(err, sql.ErrNoRows) {
		return appErrors.Clone(appErrors.ErrNotFound, notFound)
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, internal)
}

func profileWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrUniqueViolation):
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	case errors.Is(err, sql.ErrNoRows):
		return appErrors.Clone(appErrors.ErrNotFound, "profile not found")
	default:
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update profile")
	}
}
