package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksync/internal/dto"
	"worksync/pkg/constants"
	"worksync/pkg/responses"
)

func TestProjectService_Create(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")

	due := time.Now().AddDate(0, 2, 0)
	start := time.Date(2025, 1, 6, 0, 0, 0, 0, time.Local)
	project, err := e.projects.Create(e.ctx, admin, &dto.CreateProjectRequest{
		Name:        "Launch",
		Description: "ship it",
		StartDate:   &dto.Date{Time: start},
		DueDate:     &dto.Date{Time: due},
	})
	require.NoError(t, err)

	assert.Equal(t, constants.ProjectStatusActive, project.Status)
	assert.Equal(t, constants.PriorityMedium, project.Priority)
	assert.True(t, project.StartDate.Equal(start))
	assert.Equal(t, admin.ID, project.Admin.ID)
	require.Len(t, project.Members, 1)
	assert.Equal(t, admin.ID, project.Members[0].ID)
}

func TestProjectService_AccessRules(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	member := e.fx.CreateUser(e.ctx, "Member", "member@example.com")
	outsider := e.fx.CreateUser(e.ctx, "Outsider", "outsider@example.com")
	project := e.fx.CreateProject(e.ctx, admin, "Launch", member)

	_, err := e.projects.Get(e.ctx, member, project.ID)
	require.NoError(t, err)

	_, err = e.projects.Get(e.ctx, outsider, project.ID)
	assert.ErrorIs(t, err, responses.ErrProjectAccessDenied)

	_, err = e.projects.Update(e.ctx, member, project.ID, &dto.UpdateProjectRequest{Name: strPtr("Mine")})
	assert.ErrorIs(t, err, responses.ErrProjectAdminOnly)

	status := constants.ProjectStatusOnHold
	updated, err := e.projects.Update(e.ctx, admin, project.ID, &dto.UpdateProjectRequest{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, constants.ProjectStatusOnHold, updated.Status)
	assert.Equal(t, "Launch", updated.Name)

	list, err := e.projects.List(e.ctx, member, &dto.ProjectListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	list, err = e.projects.List(e.ctx, member, &dto.ProjectListQuery{Status: constants.ProjectStatusActive})
	require.NoError(t, err)
	assert.Empty(t, list)

	list, err = e.projects.List(e.ctx, outsider, &dto.ProjectListQuery{})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestProjectService_TasksAndDelete(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	member := e.fx.CreateUser(e.ctx, "Member", "member@example.com")
	project := e.fx.CreateProject(e.ctx, admin, "Launch", member)
	e.fx.CreateTask(e.ctx, project, "Plan", constants.TaskStatusPending)
	mine := e.fx.CreateTask(e.ctx, project, "Build", constants.TaskStatusPending, member)

	all, err := e.projects.Tasks(e.ctx, admin, project.ID)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	own, err := e.projects.Tasks(e.ctx, member, project.ID)
	require.NoError(t, err)
	require.Len(t, own, 1)
	assert.Equal(t, mine.ID, own[0].ID)
	assert.Equal(t, "Launch", own[0].Project.Name)

	assert.ErrorIs(t, e.projects.Delete(e.ctx, member, project.ID), responses.ErrProjectAdminOnly)
	require.NoError(t, e.projects.Delete(e.ctx, admin, project.ID))

	_, err = e.tasks.Get(e.ctx, member, mine.ID)
	assert.Equal(t, 404, responses.StatusOf(err))
}
