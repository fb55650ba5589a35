package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/collab-portal-api/internal/dto"
	"github.com/noah-isme/collab-portal-api/internal/models"
	appErrors "github.com/noah-isme/collab-portal-api/pkg/errors"
)

func TestProjectServiceCreate(t *testing.T) {
	h := newHarness(t)
	grace := h.registerProfessor(t, "Grace", "grace@uni.edu")

	project, err := h.projects.Create(context.Background(), grace.ID, dto.CreateProjectRequest{
		Title:          " <h1>Compilers</h1> ",
		RequiredSkills: strPtr("Go <em>and</em> Rust"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Compilers", project.Title)
	assert.Equal(t, "Go and Rust", *project.RequiredSkills)
	assert.Equal(t, models.ProjectStatusActive, project.Status)
	assert.True(t, project.ApplicationsOpen)
	assert.Equal(t, grace.ID, project.ProfessorID)

	_, err = h.projects.Create(context.Background(), grace.ID, dto.CreateProjectRequest{Title: "<p></p>"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)

	_, err = h.projects.Create(context.Background(), grace.ID, dto.CreateProjectRequest{Title: "X", Status: "archived"})
	assert.ErrorIs(t, err, appErrors.ErrValidation)
}

func TestProjectServiceOwnership(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	grace := h.registerProfessor(t, "Grace", "grace@uni.edu")
	alan := h.registerProfessor(t, "Alan", "alan@uni.edu")
	project := h.createProject(t, grace.ID, "Compilers")

	_, err := h.projects.GetOwned(ctx, alan.ID, project.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	_, _, err = h.projects.Update(ctx, alan.ID, project.ID, dto.ProjectPatch{Title: strPtr("Stolen")})
	assert.ErrorIs(t, err, appErrors.ErrForbidden)
	assert.Equal(t, "Compilers", h.store.projects[project.ID].Title)

	_, _, err = h.projects.Update(ctx, grace.ID, 999, dto.ProjectPatch{Title: strPtr("Ghost")})
	assert.ErrorIs(t, err, appErrors.ErrNotFound)

	updated, fields, err := h.projects.Update(ctx, grace.ID, project.ID, dto.ProjectPatch{Title: strPtr("Optimising Compilers")})
	require.NoError(t, err)
	assert.Equal(t, []string{"title"}, fields)
	assert.Equal(t, "Optimising Compilers", updated.Title)

	owned, page, err := h.projects.ListOwned(ctx, grace.ID, 0, 0)
	require.NoError(t, err)
	require.Len(t, owned, 1)
	assert.Equal(t, 1, page.Page)
	assert.Equal(t, 20, page.PageSize)
	assert.Equal(t, 1, page.TotalCount)

	none, _, err := h.projects.ListOwned(ctx, alan.ID, 1, 10)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestProjectServiceBrowseAndGetOpen(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	grace := h.registerProfessor(t, "Grace", "grace@uni.edu")
	open := h.createProject(t, grace.ID, "Compilers")
	closed := h.createProject(t, grace.ID, "Archived work")
	completed := "completed"
	_, _, err := h.projects.Update(ctx, grace.ID, closed.ID, dto.ProjectPatch{Status: &completed})
	require.NoError(t, err)

	listed, page, err := h.projects.Browse(ctx, dto.ProjectQuery{})
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, open.ID, listed[0].ID)
	assert.Equal(t, 1, page.TotalCount)

	searched, _, err := h.projects.Browse(ctx, dto.ProjectQuery{Search: "compil"})
	require.NoError(t, err)
	assert.Len(t, searched, 1)

	detail, err := h.projects.GetOpen(ctx, open.ID)
	require.NoError(t, err)
	assert.Equal(t, "Grace", detail.ProfessorName)

	_, err = h.projects.GetOpen(ctx, closed.ID)
	assert.ErrorIs(t, err, appErrors.ErrNotFound)
}
