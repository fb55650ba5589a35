package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/internal/repository"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

type studentAccountRepository interface {
	Create(ctx context.Context, student *models.Student) error
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error)
}

type professorAccountRepository interface {
	Create(ctx context.Context, professor *models.Professor) error
	FindByID(ctx context.Context, id int64) (*models.Professor, error)
	FindCredentialByEmail(ctx context.Context, email string) (*models.Credential, error)
}

// TextCleaner strips markup from free text.
type TextCleaner interface {
	Clean(raw string) string
}

// AuthService provides registration and login for both roles.
type AuthService struct {
	students   studentAccountRepository
	professors professorAccountRepository
	creds      *CredentialStore
	codec      *TokenCodec
	audit      auditor
	metrics    *MetricsService
	cleaner    TextCleaner
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(
	students studentAccountRepository,
	professors professorAccountRepository,
	creds *CredentialStore,
	codec *TokenCodec,
	audit AuditRepository,
	metrics *MetricsService,
	cleaner TextCleaner,
	validate *validator.Validate,
	logger *zap.Logger,
) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = NewValidator()
	}
	return &AuthService{
		students:   students,
		professors: professors,
		creds:      creds,
		codec:      codec,
		audit:      auditor{repo: audit, logger: logger},
		metrics:    metrics,
		cleaner:    cleaner,
		validator:  validate,
		logger:     logger,
	}
}

// RegisterStudent creates a student account.
func (s *AuthService) RegisterStudent(ctx context.Context, req dto.RegisterRequest) (*models.Identity, error) {
	name, email, digest, err := s.prepareRegistration(req)
	if err != nil {
		return nil, err
	}
	student := &models.Student{Name: name, Email: email, PasswordHash: digest}
	if err := s.students.Create(ctx, student); err != nil {
		return nil, s.registrationError(err)
	}
	identity := student.Identity()
	s.audit.record(ctx, identity, models.AuditActionRegister, "student", student.ID, nil)
	return &identity, nil
}

// RegisterProfessor creates a professor account.
func (s *AuthService) RegisterProfessor(ctx context.Context, req dto.RegisterRequest) (*models.Identity, error) {
	name, email, digest, err := s.prepareRegistration(req)
	if err != nil {
		return nil, err
	}
	professor := &models.Professor{Name: name, Email: email, PasswordHash: digest}
	if err := s.professors.Create(ctx, professor); err != nil {
		return nil, s.registrationError(err)
	}
	identity := professor.Identity()
	s.audit.record(ctx, identity, models.AuditActionRegister, "professor", professor.ID, nil)
	return &identity, nil
}

func (s *AuthService) prepareRegistration(req dto.RegisterRequest) (string, string, string, error) {
	req.Name = s.clean(req.Name)
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return "", "", "", validationError(err, "invalid registration payload")
	}
	if req.Password != req.ConfirmPassword {
		return "", "", "", appErrors.Validation("invalid registration payload", map[string]string{
			"confirm_password": "passwords do not match",
		})
	}
	digest, err := s.creds.Hash(req.Password)
	if err != nil {
		return "", "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}
	return req.Name, req.Email, digest, nil
}

func (s *AuthService) registrationError(err error) error {
	if errors.Is(err, repository.ErrUniqueViolation) {
		return appErrors.Clone(appErrors.ErrConflict, "email already registered")
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create account")
}

// Login verifies credentials against the table selected by req.Role and
// issues a session token. Unknown email and wrong password are
// indistinguishable to the caller, including in time spent hashing.
func (s *AuthService) Login(ctx context.Context, req dto.LoginRequest) (*dto.LoginResponse, error) {
	req.Email = normalizeEmail(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid login payload")
	}

	cred, err := s.findCredential(ctx, req.Role, req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			s.creds.VerifyMissing(req.Password)
			s.metrics.RecordLogin(string(req.Role), "failure")
			return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch account")
	}

	if !s.creds.Verify(req.Password, cred.PasswordHash) {
		s.metrics.RecordLogin(string(req.Role), "failure")
		return nil, appErrors.Clone(appErrors.ErrInvalidCredentials, "invalid email or password")
	}

	identity := models.Identity{ID: cred.ID, Role: req.Role, Email: cred.Email, Name: cred.Name}
	token, _, err := s.codec.Issue(identity)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}

	s.metrics.RecordLogin(string(req.Role), "success")
	s.audit.record(ctx, identity, models.AuditActionLogin, "session", identity.ID, map[string]interface{}{"status": "success"})

	return &dto.LoginResponse{
		Token:     token,
		ExpiresIn: int64(s.codec.TTL().Seconds()),
		User:      identity,
	}, nil
}

// SessionTTL returns the lifetime of issued sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.codec.TTL()
}

// LoadIdentity implements IdentityLoader using the current account row.
func (s *AuthService) LoadIdentity(ctx context.Context, role models.Role, id int64) (models.Identity, error) {
	switch role {
	case models.RoleStudent:
		student, err := s.students.FindByID(ctx, id)
		if err != nil {
			return models.Identity{}, err
		}
		return student.Identity(), nil
	case models.RoleProfessor:
		professor, err := s.professors.FindByID(ctx, id)
		if err != nil {
			return models.Identity{}, err
		}
		return professor.Identity(), nil
	default:
		return models.Identity{}, appErrors.ErrNotFound
	}
}

func (s *AuthService) findCredential(ctx context.Context, role models.Role, email string) (*models.Credential, error) {
	if role == models.RoleProfessor {
		return s.professors.FindCredentialByEmail(ctx, email)
	}
	return s.students.FindCredentialByEmail(ctx, email)
}

func (s *AuthService) clean(raw string) string {
	if s.cleaner == nil {
		return strings.TrimSpace(raw)
	}
	return s.cleaner.Clean(raw)
}

func normalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}
