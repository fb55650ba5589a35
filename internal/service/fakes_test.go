package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	"github.com/noah-isme/collab-portal-api/internal/repository"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
	"github.com/noah-isme/collab-portal-api/pkg/sanitize"
)

// store is an in-memory stand-in for the relational store. It enforces the
// same uniqueness rules as the schema.
type store struct {
	mu           sync.Mutex
	students     map[int64]*models.Student
	professors   map[int64]*models.Professor
	projects     map[int64]*models.Project
	applications map[int64]*models.Application
	audits       []models.AuditLog
	nextID       int64
	updates      []map[string]interface{}
}

func newStore() *store {
	return &store{
		students:     map[int64]*models.Student{},
		professors:   map[int64]*models.Professor{},
		projects:     map[int64]*models.Project{},
		applications: map[int64]*models.Application{},
	}
}

func (s *store) id() int64 {
	s.nextID++
	return s.nextID
}

type fakeStudents struct{ *store }

func (f fakeStudents) Create(_ context.Context, student *models.Student) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.students {
		if existing.Email == student.Email {
			return repository.ErrUniqueViolation
		}
	}
	student.ID = f.id()
	student.CreatedAt = time.Now()
	student.UpdatedAt = student.CreatedAt
	copied := *student
	f.students[student.ID] = &copied
	return nil
}

func (f fakeStudents) FindByID(_ context.Context, id int64) (*models.Student, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *student
	return &copied, nil
}

func (f fakeStudents) FindCredentialByEmail(_ context.Context, email string) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, s := range f.students {
		if s.Email == email {
			return &models.Credential{ID: s.ID, Name: s.Name, Email: s.Email, PasswordHash: s.PasswordHash}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeStudents) UpdateFields(_ context.Context, id int64, values map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	student, ok := f.students[id]
	if !ok {
		return sql.ErrNoRows
	}
	if email, ok := values["email"].(string); ok {
		for otherID, other := range f.students {
			if otherID != id && other.Email == email {
				return repository.ErrUniqueViolation
			}
		}
	}
	f.updates = append(f.updates, values)
	for column, value := range values {
		switch column {
		case "name":
			student.Name = value.(string)
		case "email":
			student.Email = value.(string)
		case "bio":
			v := value.(string)
			student.Bio = &v
		case "skills_summary":
			v := value.(string)
			student.SkillsSummary = &v
		case "dob":
			if value == nil {
				student.Dob = nil
			} else {
				d := value.(models.Date)
				student.Dob = &d
			}
		}
	}
	return nil
}

type fakeProfessors struct{ *store }

func (f fakeProfessors) Create(_ context.Context, professor *models.Professor) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.professors {
		if existing.Email == professor.Email {
			return repository.ErrUniqueViolation
		}
	}
	professor.ID = f.id()
	copied := *professor
	f.professors[professor.ID] = &copied
	return nil
}

func (f fakeProfessors) FindByID(_ context.Context, id int64) (*models.Professor, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	professor, ok := f.professors[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *professor
	return &copied, nil
}

func (f fakeProfessors) FindCredentialByEmail(_ context.Context, email string) (*models.Credential, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.professors {
		if p.Email == email {
			return &models.Credential{ID: p.ID, Name: p.Name, Email: p.Email, PasswordHash: p.PasswordHash}, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f fakeProfessors) UpdateFields(_ context.Context, id int64, values map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	professor, ok := f.professors[id]
	if !ok {
		return sql.ErrNoRows
	}
	f.updates = append(f.updates, values)
	if v, ok := values["name"].(string); ok {
		professor.Name = v
	}
	if v, ok := values["department"].(string); ok {
		professor.Department = &v
	}
	return nil
}

type fakeProjects struct{ *store }

func (f fakeProjects) Create(_ context.Context, project *models.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	project.ID = f.id()
	project.CreatedAt = time.Now()
	project.UpdatedAt = project.CreatedAt
	copied := *project
	f.projects[project.ID] = &copied
	return nil
}

func (f fakeProjects) FindByID(_ context.Context, id int64) (*models.ProjectDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	detail := &models.ProjectDetail{Project: *project}
	if prof, ok := f.professors[project.ProfessorID]; ok {
		detail.ProfessorName = prof.Name
	}
	for _, app := range f.applications {
		if app.ProjectID == id {
			detail.ApplicationsCount++
		}
	}
	return detail, nil
}

func (f fakeProjects) List(_ context.Context, filter models.ProjectFilter) ([]models.ProjectDetail, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.ProjectDetail
	for _, p := range f.projects {
		if filter.ProfessorID != nil && p.ProfessorID != *filter.ProfessorID {
			continue
		}
		if filter.OpenOnly && !p.AcceptingApplications() {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(p.Title), strings.ToLower(filter.Search)) {
			continue
		}
		out = append(out, models.ProjectDetail{Project: *p})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, len(out), nil
}

func (f fakeProjects) UpdateFields(_ context.Context, id int64, values map[string]interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	project, ok := f.projects[id]
	if !ok {
		return sql.ErrNoRows
	}
	f.updates = append(f.updates, values)
	if v, ok := values["title"].(string); ok {
		project.Title = v
	}
	if v, ok := values["status"].(string); ok {
		project.Status = models.ProjectStatus(v)
	}
	if v, ok := values["applications_open"].(bool); ok {
		project.ApplicationsOpen = v
	}
	return nil
}

func (f fakeProjects) CountByProfessor(_ context.Context, professorID int64) (int, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total, active := 0, 0
	for _, p := range f.projects {
		if p.ProfessorID != professorID {
			continue
		}
		total++
		if p.Status == models.ProjectStatusActive {
			active++
		}
	}
	return total, active, nil
}

func (f fakeProjects) ListRecentlyUpdated(_ context.Context, professorID int64, limit int) ([]models.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Project
	for _, p := range f.projects {
		if p.ProfessorID == professorID {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeApplications struct{ *store }

func (f fakeApplications) Create(_ context.Context, app *models.Application) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.applications {
		if existing.StudentID == app.StudentID && existing.ProjectID == app.ProjectID {
			return repository.ErrUniqueViolation
		}
	}
	app.ID = f.id()
	app.CreatedAt = time.Now()
	app.UpdatedAt = app.CreatedAt
	copied := *app
	f.applications[app.ID] = &copied
	return nil
}

func (f fakeApplications) detail(app *models.Application) models.ApplicationDetail {
	d := models.ApplicationDetail{Application: *app}
	if p, ok := f.projects[app.ProjectID]; ok {
		d.ProjectTitle = p.Title
		d.ProfessorID = p.ProfessorID
		if prof, ok := f.professors[p.ProfessorID]; ok {
			d.ProfessorName = prof.Name
		}
	}
	if s, ok := f.students[app.StudentID]; ok {
		d.StudentName = s.Name
		d.StudentEmail = s.Email
	}
	return d
}

func (f fakeApplications) FindByID(_ context.Context, id int64) (*models.ApplicationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.applications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	d := f.detail(app)
	return &d, nil
}

func (f fakeApplications) UpdateStatus(_ context.Context, id int64, status models.ApplicationStatus) (*models.Application, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	app, ok := f.applications[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	app.Status = status
	app.UpdatedAt = time.Now()
	copied := *app
	return &copied, nil
}

func (f fakeApplications) matching(filter models.ApplicationFilter) []models.ApplicationDetail {
	var out []models.ApplicationDetail
	for _, app := range f.applications {
		d := f.detail(app)
		if filter.StudentID != nil && d.StudentID != *filter.StudentID {
			continue
		}
		if filter.ProfessorID != nil && d.ProfessorID != *filter.ProfessorID {
			continue
		}
		if filter.ProjectID != nil && d.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && d.Status != *filter.Status {
			continue
		}
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out
}

func (f fakeApplications) List(_ context.Context, filter models.ApplicationFilter) ([]models.ApplicationDetail, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := f.matching(filter)
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f fakeApplications) CountByStatus(_ context.Context, filter models.ApplicationFilter) ([]models.StatusCount, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	counts := map[models.ApplicationStatus]int{}
	for _, d := range f.matching(filter) {
		counts[d.Status]++
	}
	var out []models.StatusCount
	for status, n := range counts {
		out = append(out, models.StatusCount{Status: status, Count: n})
	}
	return out, nil
}

func (f fakeApplications) HasAppliedToProfessor(_ context.Context, studentID, professorID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, app := range f.applications {
		if app.StudentID != studentID {
			continue
		}
		if p, ok := f.projects[app.ProjectID]; ok && p.ProfessorID == professorID {
			return true, nil
		}
	}
	return false, nil
}

func (f fakeApplications) countPair(studentID, projectID int64) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, app := range f.applications {
		if app.StudentID == studentID && app.ProjectID == projectID {
			n++
		}
	}
	return n
}

type fakeAudit struct{ *store }

func (f fakeAudit) Create(_ context.Context, log *models.AuditLog) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.audits = append(f.audits, *log)
	return nil
}

func (f fakeAudit) actions() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.audits))
	for _, a := range f.audits {
		out = append(out, a.Action)
	}
	return out
}

// memoryCache implements CacheRepository over JSON payloads in a map.
type memoryCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{entries: map[string][]byte{}}
}

func (c *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	raw, ok := c.entries[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (c *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	payload, err := json.Marshal(value)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = payload
	return nil
}

func (c *memoryCache) Delete(_ context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, k := range keys {
		delete(c.entries, k)
	}
	return nil
}

func (c *memoryCache) has(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.entries[key]
	return ok
}

// harness wires every service against one in-memory store.
type harness struct {
	store        *store
	cache        *memoryCache
	codec        *TokenCodec
	auth         *AuthService
	projects     *ProjectService
	applications *ApplicationService
	profiles     *ProfileService
	dashboards   *DashboardService
	exports      *ExportService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	st := newStore()
	logger := zap.NewNop()
	validate := NewValidator()
	cleaner := sanitize.NewText()

	creds, err := NewCredentialStore(bcrypt.MinCost)
	require.NoError(t, err)
	codec, err := NewTokenCodec(TokenConfig{Secret: []byte("harness-secret"), TTL: time.Hour, Issuer: "collab-portal"})
	require.NoError(t, err)

	cache := newMemoryCache()
	metrics := NewMetricsService()
	cacheSvc := NewCacheService(cache, metrics, time.Minute, logger, true)
	merger := NewMerger(cleaner, validate)

	h := &harness{store: st, cache: cache, codec: codec}
	h.dashboards = NewDashboardService(fakeApplications{st}, fakeProjects{st}, fakeStudents{st}, cacheSvc, time.Minute, logger)
	h.auth = NewAuthService(fakeStudents{st}, fakeProfessors{st}, creds, codec, fakeAudit{st}, metrics, cleaner, validate, logger)
	h.projects = NewProjectService(fakeProjects{st}, merger, h.dashboards, fakeAudit{st}, cleaner, validate, logger)
	h.applications = NewApplicationService(fakeApplications{st}, fakeProjects{st}, h.dashboards, fakeAudit{st}, metrics, cleaner, validate, logger)
	h.profiles = NewProfileService(fakeStudents{st}, fakeProfessors{st}, fakeApplications{st}, merger, h.dashboards, fakeAudit{st}, logger)
	h.exports = NewExportService(fakeApplications{st}, logger)
	return h
}

func (h *harness) registerStudent(t *testing.T, name, email string) models.Identity {
	t.Helper()
	identity, err := h.auth.RegisterStudent(context.Background(), dto.RegisterRequest{
		Name: name, Email: email, Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return *identity
}

func (h *harness) registerProfessor(t *testing.T, name, email string) models.Identity {
	t.Helper()
	identity, err := h.auth.RegisterProfessor(context.Background(), dto.RegisterRequest{
		Name: name, Email: email, Password: "secret1", ConfirmPassword: "secret1",
	})
	require.NoError(t, err)
	return *identity
}

func (h *harness) createProject(t *testing.T, professorID int64, title string) *models.Project {
	t.Helper()
	project, err := h.projects.Create(context.Background(), professorID, dto.CreateProjectRequest{Title: title})
	require.NoError(t, err)
	return project
}
