package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

func TestParseSkills(t *testing.T) {
	assert.Equal(t, []string{}, ParseSkills(nil))
	assert.Equal(t, []string{}, ParseSkills(strPtr(" , ,")))
	assert.Equal(t, []string{"Go", "SQL", "Rust"}, ParseSkills(strPtr("Go, SQL,go ,, Rust")))
}

func TestDashboardServiceStudentCaching(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	grace := h.registerProfessor(t, "Grace", "grace@uni.edu")
	ada := h.registerStudent(t, "Ada", "ada@uni.edu")
	first := h.createProject(t, grace.ID, "Compilers")
	second := h.createProject(t, grace.ID, "Linkers")

	dash, hit, err := h.dashboards.Student(ctx, ada.ID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, dash.TotalApplications)
	assert.Len(t, dash.ByStatus, len(models.ApplicationStatuses))
	assert.True(t, h.cache.has(studentDashboardKey(ada.ID)))

	_, hit, err = h.dashboards.Student(ctx, ada.ID)
	require.NoError(t, err)
	assert.True(t, hit)

	_, err = h.applications.Apply(ctx, ada.ID, dto.ApplyRequest{ProjectID: first.ID})
	require.NoError(t, err)
	assert.False(t, h.cache.has(studentDashboardKey(ada.ID)), "apply invalidates the student dashboard")

	app, err := h.applications.Apply(ctx, ada.ID, dto.ApplyRequest{ProjectID: second.ID})
	require.NoError(t, err)
	_, err = h.applications.SetStatus(ctx, app.ID, "rejected", grace.ID)
	require.NoError(t, err)

	dash, hit, err = h.dashboards.Student(ctx, ada.ID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, dash.TotalApplications)
	assert.Equal(t, 1, dash.ByStatus[models.ApplicationStatusPending])
	assert.Equal(t, 1, dash.ByStatus[models.ApplicationStatusRejected])
	assert.Len(t, dash.RecentApplications, 2)

	cached, hit, err := h.dashboards.Student(ctx, ada.ID)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, dash.ByStatus, cached.ByStatus)
}

func TestDashboardServiceProfessor(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	grace := h.registerProfessor(t, "Grace", "grace@uni.edu")
	ada := h.registerStudent(t, "Ada", "ada@uni.edu")
	project := h.createProject(t, grace.ID, "Compilers")
	done := h.createProject(t, grace.ID, "Assemblers")
	completed := "completed"
	_, _, err := h.projects.Update(ctx, grace.ID, done.ID, dto.ProjectPatch{Status: &completed})
	require.NoError(t, err)
	_, err = h.applications.Apply(ctx, ada.ID, dto.ApplyRequest{ProjectID: project.ID})
	require.NoError(t, err)

	dash, hit, err := h.dashboards.Professor(ctx, grace.ID)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Equal(t, 2, dash.TotalProjects)
	assert.Equal(t, 1, dash.ActiveProjects)
	assert.Equal(t, 1, dash.ApplicationsReceived)
	assert.Len(t, dash.RecentProjects, 2)
	assert.Len(t, dash.RecentApplications, 1)

	h.createProject(t, grace.ID, "Loaders")
	assert.False(t, h.cache.has(professorDashboardKey(grace.ID)), "project create invalidates")
}

func TestDashboardServiceWithoutCache(t *testing.T) {
	st := newStore()
	svc := NewDashboardService(fakeApplications{st}, fakeProjects{st}, fakeStudents{st}, nil, 0, zap.NewNop())

	_, _, err := svc.Student(context.Background(), 42)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	dash, hit, err := svc.Professor(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, dash.RecentProjects)
	assert.NotNil(t, dash.RecentApplications)

	svc.InvalidateStudent(context.Background(), 42)
}
