package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

const dashboardRecentLimit = 5

type dashboardApplicationRepository interface {
	List(ctx context.Context, filter models.ApplicationFilter) ([]models.ApplicationDetail, error)
	CountByStatus(ctx context.Context, filter models.ApplicationFilter) ([]models.StatusCount, error)
}

type dashboardProjectRepository interface {
	CountByProfessor(ctx context.Context, professorID int64) (int, int, error)
	ListRecentlyUpdated(ctx context.Context, professorID int64, limit int) ([]models.Project, error)
}

type dashboardStudentRepository interface {
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// DashboardService composes per-user dashboard summaries and caches them
// until a workflow change invalidates them.
type DashboardService struct {
	apps     dashboardApplicationRepository
	projects dashboardProjectRepository
	students dashboardStudentRepository
	cache    *CacheService
	ttl      time.Duration
	logger   *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(apps dashboardApplicationRepository, projects dashboardProjectRepository, students dashboardStudentRepository, cache *CacheService, ttl time.Duration, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &DashboardService{apps: apps, projects: projects, students: students, cache: cache, ttl: ttl, logger: logger}
}

func studentDashboardKey(id int64) string {
	return fmt.Sprintf("dash:student:%d", id)
}

func professorDashboardKey(id int64) string {
	return fmt.Sprintf("dash:professor:%d", id)
}

// Student returns the student's dashboard and whether it came from cache.
func (s *DashboardService) Student(ctx context.Context, studentID int64) (*dto.StudentDashboard, bool, error) {
	key := studentDashboardKey(studentID)
	var cached dto.StudentDashboard
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, false, notFoundOrInternal(err, "student not found", "failed to load student")
	}
	filter := models.ApplicationFilter{StudentID: &studentID}
	counts, err := s.apps.CountByStatus(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count applications")
	}
	filter.Limit = dashboardRecentLimit
	recent, err := s.apps.List(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}

	summary := &dto.StudentDashboard{
		ByStatus:           make(map[models.ApplicationStatus]int, len(models.ApplicationStatuses)),
		Skills:             ParseSkills(student.SkillsSummary),
		RecentApplications: nonNil(recent),
	}
	for _, status := range models.ApplicationStatuses {
		summary.ByStatus[status] = 0
	}
	for _, c := range counts {
		summary.ByStatus[c.Status] = c.Count
		summary.TotalApplications += c.Count
	}

	s.persist(ctx, key, summary)
	return summary, false, nil
}

// Professor returns the professor's dashboard and whether it came from cache.
func (s *DashboardService) Professor(ctx context.Context, professorID int64) (*dto.ProfessorDashboard, bool, error) {
	key := professorDashboardKey(professorID)
	var cached dto.ProfessorDashboard
	if hit, _ := s.cache.Get(ctx, key, &cached); hit {
		return &cached, true, nil
	}

	total, active, err := s.projects.CountByProfessor(ctx, professorID)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count projects")
	}
	recentProjects, err := s.projects.ListRecentlyUpdated(ctx, professorID, dashboardRecentLimit)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list projects")
	}
	filter := models.ApplicationFilter{ProfessorID: &professorID}
	counts, err := s.apps.CountByStatus(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count applications")
	}
	filter.Limit = dashboardRecentLimit
	recentApps, err := s.apps.List(ctx, filter)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list applications")
	}

	summary := &dto.ProfessorDashboard{
		TotalProjects:      total,
		ActiveProjects:     active,
		RecentProjects:     nonNil(recentProjects),
		RecentApplications: nonNil(recentApps),
	}
	for _, c := range counts {
		summary.ApplicationsReceived += c.Count
	}

	s.persist(ctx, key, summary)
	return summary, false, nil
}

// InvalidateStudent drops the cached student dashboard.
func (s *DashboardService) InvalidateStudent(ctx context.Context, studentID int64) {
	_ = s.cache.Invalidate(ctx, studentDashboardKey(studentID))
}

// InvalidateProfessor drops the cached professor dashboard.
func (s *DashboardService) InvalidateProfessor(ctx context.Context, professorID int64) {
	_ = s.cache.Invalidate(ctx, professorDashboardKey(professorID))
}

func (s *DashboardService) persist(ctx context.Context, key string, value interface{}) {
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("dashboard cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// ParseSkills splits a comma separated skills summary into trimmed,
// de-duplicated entries.
func ParseSkills(summary *string) []string {
	skills := []string{}
	if summary == nil {
		return skills
	}
	seen := map[string]struct{}{}
	for _, part := range strings.Split(*summary, ",") {
		skill := strings.TrimSpace(part)
		if skill == "" {
			continue
		}
		key := strings.ToLower(skill)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		skills = append(skills, skill)
	}
	return skills
}
