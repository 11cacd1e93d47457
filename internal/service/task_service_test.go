package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/pkg/constants"
	"worksync/pkg/responses"
)

func TestTaskService_Create(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	member := e.fx.CreateUser(e.ctx, "Member", "member@example.com")
	worker := e.fx.CreateUser(e.ctx, "Worker", "worker@example.com")
	project := e.fx.CreateProject(e.ctx, admin, "Launch", member)

	_, err := e.tasks.Create(e.ctx, member, &dto.CreateTaskRequest{Title: "Sneaky", ProjectID: &project.ID})
	assert.ErrorIs(t, err, responses.ErrTaskCreateDenied)

	_, err = e.tasks.Create(e.ctx, admin, &dto.CreateTaskRequest{
		Title: "Build", ProjectID: &project.ID, AssigneeEmail: strPtr("ghost@example.com"),
	})
	assert.EqualError(t, err, "[404] User with email ghost@example.com not found")

	task, err := e.tasks.Create(e.ctx, admin, &dto.CreateTaskRequest{
		Title:         " Build ",
		ProjectID:     &project.ID,
		AssigneeEmail: strPtr("Worker@Example.com"),
		Note:          strPtr("kick-off"),
	})
	require.NoError(t, err)
	assert.Equal(t, "Build", task.Title)
	assert.Equal(t, constants.TaskStatusPending, task.Status)
	assert.Equal(t, constants.PriorityMedium, task.Priority)
	require.Len(t, task.AssignedTo, 1)
	assert.Equal(t, worker.ID, task.AssignedTo[0].ID)
	require.Len(t, task.Notes, 1)
	assert.Equal(t, admin.ID, task.Notes[0].CreatedBy)

	// 负责人自动加入项目
	got, err := e.projects.Get(e.ctx, worker, project.ID)
	require.NoError(t, err)
	assert.Len(t, got.Members, 3)

	notes := e.notificationsFor(worker)
	require.Len(t, notes, 1)
	assert.Equal(t, constants.NotifyTaskAssigned, notes[0].Type)
	assert.Equal(t, `Admin assigned "Build" to you`, notes[0].Message)
}

func TestTaskService_CreatePersonalTask(t *testing.T) {
	e := newEnv(t)
	solo := e.fx.CreateUser(e.ctx, "Solo", "solo@example.com")

	task, err := e.tasks.Create(e.ctx, solo, &dto.CreateTaskRequest{
		Title: "Groceries", AssigneeEmail: strPtr("solo@example.com"),
	})
	require.NoError(t, err)
	assert.Nil(t, task.Project)

	// 分配给自己不发通知
	assert.Empty(t, e.notificationsFor(solo))

	list, err := e.tasks.List(e.ctx, solo, &dto.TaskListQuery{})
	require.NoError(t, err)
	assert.Len(t, list, 1)

	// 无项目的任务不能修改或删除
	_, err = e.tasks.Update(e.ctx, solo, task.ID, &dto.UpdateTaskRequest{Status: strPtr(constants.TaskStatusCompleted)})
	assert.ErrorIs(t, err, responses.ErrTaskProjectNotFound)
	assert.ErrorIs(t, e.tasks.Delete(e.ctx, solo, task.ID), responses.ErrTaskProjectNotFound)
}

func TestTaskService_GetVisibility(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	member := e.fx.CreateUser(e.ctx, "Member", "member@example.com")
	worker := e.fx.CreateUser(e.ctx, "Worker", "worker@example.com")
	project := e.fx.CreateProject(e.ctx, admin, "Launch", member, worker)
	task := e.fx.CreateTask(e.ctx, project, "Build", constants.TaskStatusPending, worker)

	_, err := e.tasks.Get(e.ctx, admin, task.ID)
	assert.NoError(t, err)
	_, err = e.tasks.Get(e.ctx, worker, task.ID)
	assert.NoError(t, err)

	// 项目成员但不是负责人
	_, err = e.tasks.Get(e.ctx, member, task.ID)
	assert.ErrorIs(t, err, responses.ErrTaskAccessDenied)

	_, err = e.tasks.Get(e.ctx, admin, 9999)
	assert.EqualError(t, err, "[404] Task with ID 9999 not found")
}

func TestTaskService_AssigneeUpdate(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	worker := e.fx.CreateUser(e.ctx, "Worker", "worker@example.com")
	helper := e.fx.CreateUser(e.ctx, "Helper", "helper@example.com")
	project := e.fx.CreateProject(e.ctx, admin, "Launch", worker, helper)
	task := e.fx.CreateTask(e.ctx, project, "Build", constants.TaskStatusPending, worker, helper)

	updated, err := e.tasks.Update(e.ctx, worker, task.ID, &dto.UpdateTaskRequest{
		Title:  strPtr("Renamed"),
		Status: strPtr(constants.TaskStatusInProgress),
		Note:   strPtr("on it"),
	})
	require.NoError(t, err)

	// 负责人不能改标题
	assert.Equal(t, "Build", updated.Title)
	assert.Equal(t, constants.TaskStatusInProgress, updated.Status)
	require.Len(t, updated.Notes, 1)
	assert.Equal(t, "on it", updated.Notes[0].Text)

	adminNotes := e.notificationsFor(admin)
	require.Len(t, adminNotes, 1)
	assert.Equal(t, constants.NotifyTaskStatusChange, adminNotes[0].Type)
	assert.Equal(t, `Worker changed "Build" status to In Progress`, adminNotes[0].Message)

	helperNotes := e.notificationsFor(helper)
	require.Len(t, helperNotes, 1)
	assert.Equal(t, constants.NotifyNoteAdded, helperNotes[0].Type)

	// 备注作者自己不收到通知
	assert.Empty(t, e.notificationsFor(worker))
}

func TestTaskService_AdminUpdateAssignees(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	worker := e.fx.CreateUser(e.ctx, "Worker", "worker@example.com")
	helper := e.fx.CreateUser(e.ctx, "Helper", "helper@example.com")
	project := e.fx.CreateProject(e.ctx, admin, "Launch", worker)
	task := e.fx.CreateTask(e.ctx, project, "Build", constants.TaskStatusPending, worker)

	_, err := e.tasks.Update(e.ctx, admin, task.ID, &dto.UpdateTaskRequest{
		AssigneeEmail:    strPtr("worker@example.com"),
		RemoveAssigneeID: &worker.ID,
	})
	assert.ErrorIs(t, err, responses.ErrAssigneeConflict)

	updated, err := e.tasks.Update(e.ctx, admin, task.ID, &dto.UpdateTaskRequest{
		Title:            strPtr("Build v2"),
		Status:           strPtr(constants.TaskStatusCompleted),
		AssigneeEmail:    strPtr("helper@example.com"),
		RemoveAssigneeID: &worker.ID,
	})
	require.NoError(t, err)
	assert.Equal(t, "Build v2", updated.Title)
	assert.Equal(t, constants.TaskStatusCompleted, updated.Status)
	require.Len(t, updated.AssignedTo, 1)
	assert.Equal(t, helper.ID, updated.AssignedTo[0].ID)

	// 管理员修改状态不通知自己
	assert.Empty(t, e.notificationsFor(admin))

	var members int64
	require.NoError(t, e.db.Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, helper.ID).
		Count(&members).Error)
	assert.EqualValues(t, 1, members)
}

func TestTaskService_RepeatedAssignAndUnchangedStatus(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	worker := e.fx.CreateUser(e.ctx, "Worker", "worker@example.com")
	project := e.fx.CreateProject(e.ctx, admin, "Launch")
	task := e.fx.CreateTask(e.ctx, project, "Build", constants.TaskStatusPending)

	for i := 0; i < 2; i++ {
		updated, err := e.tasks.Update(e.ctx, admin, task.ID, &dto.UpdateTaskRequest{AssigneeEmail: strPtr("worker@example.com")})
		require.NoError(t, err)
		require.Len(t, updated.AssignedTo, 1)
		assert.Equal(t, worker.ID, updated.AssignedTo[0].ID)
	}

	var members int64
	require.NoError(t, e.db.Model(&model.ProjectMember{}).
		Where("project_id = ? AND user_id = ?", project.ID, worker.ID).
		Count(&members).Error)
	assert.EqualValues(t, 1, members)

	// 状态未变化不通知管理员
	_, err := e.tasks.Update(e.ctx, worker, task.ID, &dto.UpdateTaskRequest{Status: strPtr(constants.TaskStatusPending)})
	require.NoError(t, err)
	assert.Empty(t, e.notificationsFor(admin))

	_, err = e.tasks.Update(e.ctx, worker, task.ID, &dto.UpdateTaskRequest{Status: strPtr(constants.TaskStatusInProgress)})
	require.NoError(t, err)
	require.Len(t, e.notificationsFor(admin), 1)
	assert.Equal(t, constants.NotifyTaskStatusChange, e.notificationsFor(admin)[0].Type)
}

func TestTaskService_UpdateAndDeleteDenied(t *testing.T) {
	e := newEnv(t)
	admin := e.fx.CreateUser(e.ctx, "Admin", "admin@example.com")
	worker := e.fx.CreateUser(e.ctx, "Worker", "worker@example.com")
	member := e.fx.CreateUser(e.ctx, "Member", "member@example.com")
	project := e.fx.CreateProject(e.ctx, admin, "Launch", worker, member)
	task := e.fx.CreateTask(e.ctx, project, "Build", constants.TaskStatusPending, worker)

	_, err := e.tasks.Update(e.ctx, member, task.ID, &dto.UpdateTaskRequest{Status: strPtr(constants.TaskStatusCompleted)})
	assert.ErrorIs(t, err, responses.ErrTaskUpdateDenied)

	assert.ErrorIs(t, e.tasks.Delete(e.ctx, worker, task.ID), responses.ErrTaskDeleteDenied)
	require.NoError(t, e.tasks.Delete(e.ctx, admin, task.ID))

	_, err = e.tasks.Get(e.ctx, admin, task.ID)
	assert.Equal(t, 404, responses.StatusOf(err))
}
