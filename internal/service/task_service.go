package service

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"worksync/internal/adapter/notification"
	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/pkg/auth"
	"worksync/internal/repository"
	"worksync/pkg/constants"
	"worksync/pkg/responses"
)

type TaskService interface {
	Create(ctx context.Context, actor *model.User, req *dto.CreateTaskRequest) (*dto.TaskResponse, error)
	// List 当前用户可见的任务
	List(ctx context.Context, actor *model.User, query *dto.TaskListQuery) ([]*dto.TaskResponse, error)
	Get(ctx context.Context, actor *model.User, id int64) (*dto.TaskResponse, error)
	// Update 项目 admin 与负责人可修改的字段不同，负责人提交的其他字段被忽略
	Update(ctx context.Context, actor *model.User, id int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error)
	Delete(ctx context.Context, actor *model.User, id int64) error
}

type taskService struct {
	repo        repository.TaskRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	authz       AuthorizationService
	dispatcher  *notification.Dispatcher
	logger      *zap.Logger
}

func NewTaskService(
	repo repository.TaskRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	authz AuthorizationService,
	dispatcher *notification.Dispatcher,
	logger *zap.Logger,
) TaskService {
	return &taskService{
		repo:        repo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		authz:       authz,
		dispatcher:  dispatcher,
		logger:      logger,
	}
}

func (s *taskService) Create(ctx context.Context, actor *model.User, req *dto.CreateTaskRequest) (*dto.TaskResponse, error) {
	if req.ProjectID != nil {
		if _, err := s.authz.AdministeredProject(ctx, actor.ID, *req.ProjectID, responses.ErrTaskCreateDenied); err != nil {
			return nil, err
		}
	}

	var assignee *model.User
	if req.AssigneeEmail != nil && strings.TrimSpace(*req.AssigneeEmail) != "" {
		user, err := s.findAssignee(ctx, *req.AssigneeEmail)
		if err != nil {
			return nil, err
		}
		assignee = user
	}

	task := &model.Task{
		Title:       strings.TrimSpace(req.Title),
		Description: strings.TrimSpace(req.Description),
		Priority:    lo.Ternary(req.Priority == "", constants.PriorityMedium, req.Priority),
		Status:      lo.Ternary(req.Status == "", constants.TaskStatusPending, req.Status),
		DueDate:     req.DueDate.TimePtr(),
		ProjectID:   req.ProjectID,
	}
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		task.Notes = append(task.Notes, newNote(actor, *req.Note))
	}

	var assigneeIDs []int64
	if assignee != nil {
		assigneeIDs = append(assigneeIDs, assignee.ID)
	}
	if err := s.repo.Create(ctx, task, assigneeIDs...); err != nil {
		return nil, err
	}

	if assignee != nil && task.ProjectID != nil {
		if err := s.projectRepo.AddMember(ctx, *task.ProjectID, assignee.ID); err != nil {
			return nil, err
		}
	}

	s.logger.Info("创建任务", zap.Int64("task_id", task.ID), zap.Int64("creator_id", actor.ID))
	if assignee != nil && assignee.ID != actor.ID {
		s.dispatcher.Dispatch(ctx, notification.TaskAssigned(actor, task, assignee.ID))
	}

	return s.reload(ctx, task.ID)
}

func (s *taskService) List(ctx context.Context, actor *model.User, query *dto.TaskListQuery) ([]*dto.TaskResponse, error) {
	tasks, err := s.repo.ListVisible(ctx, actor.ID, repository.TaskFilter{
		Status:   query.Status,
		Priority: query.Priority,
	})
	if err != nil {
		return nil, err
	}
	return toTaskResponses(tasks), nil
}

func (s *taskService) Get(ctx context.Context, actor *model.User, id int64) (*dto.TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewTask(task, task.Project, actor.ID) {
		return nil, responses.ErrTaskAccessDenied
	}
	return toTaskResponse(task), nil
}

func (s *taskService) Update(ctx context.Context, actor *model.User, id int64, req *dto.UpdateTaskRequest) (*dto.TaskResponse, error) {
	task, project, err := s.loadWithProject(ctx, id, responses.ErrTaskProjectNotFound)
	if err != nil {
		return nil, err
	}
	if !auth.CanUpdateTask(task, project, actor.ID) {
		return nil, responses.ErrTaskUpdateDenied
	}

	isAdmin := auth.IsProjectAdmin(project, actor.ID)
	oldStatus := task.Status

	var note *string
	if isAdmin {
		note, err = s.applyAdminUpdate(ctx, actor, task, req.ForAdmin())
	} else {
		note = s.applyAssigneeUpdate(actor, task, req.ForAssignee())
	}
	if err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, task); err != nil {
		return nil, err
	}

	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// 通知在更新成功后分发
	if !isAdmin && task.Status != oldStatus {
		s.dispatcher.Dispatch(ctx, notification.TaskStatusChanged(actor, updated, project.AdminID))
	}
	if note != nil {
		s.dispatcher.Dispatch(ctx, notification.NoteAdded(actor, updated, updated.AssigneeIDs())...)
	}

	return toTaskResponse(updated), nil
}

// applyAdminUpdate 同时给出新增与移除负责人时先新增再移除，同一用户视为冲突
func (s *taskService) applyAdminUpdate(ctx context.Context, actor *model.User, task *model.Task, upd *dto.AdminTaskUpdate) (*string, error) {
	if upd.Title != nil {
		task.Title = strings.TrimSpace(*upd.Title)
	}
	if upd.Description != nil {
		task.Description = strings.TrimSpace(*upd.Description)
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	if upd.DueDate != nil {
		task.DueDate = upd.DueDate
	}

	if upd.AssigneeEmail != nil && strings.TrimSpace(*upd.AssigneeEmail) != "" {
		user, err := s.findAssignee(ctx, *upd.AssigneeEmail)
		if err != nil {
			return nil, err
		}
		if upd.RemoveAssigneeID != nil && *upd.RemoveAssigneeID == user.ID {
			return nil, responses.ErrAssigneeConflict
		}
		if err := s.repo.AddAssignee(ctx, task.ID, user.ID); err != nil {
			return nil, err
		}
		if err := s.projectRepo.AddMember(ctx, *task.ProjectID, user.ID); err != nil {
			return nil, err
		}
	}
	if upd.RemoveAssigneeID != nil {
		if err := s.repo.RemoveAssignee(ctx, task.ID, *upd.RemoveAssigneeID); err != nil {
			return nil, err
		}
	}

	return s.appendNote(actor, task, upd.Note), nil
}

func (s *taskService) applyAssigneeUpdate(actor *model.User, task *model.Task, upd *dto.AssigneeTaskUpdate) *string {
	if upd.Status != nil {
		task.Status = *upd.Status
	}
	if upd.Priority != nil {
		task.Priority = *upd.Priority
	}
	return s.appendNote(actor, task, upd.Note)
}

func (s *taskService) appendNote(actor *model.User, task *model.Task, text *string) *string {
	if text == nil || strings.TrimSpace(*text) == "" {
		return nil
	}
	task.Notes = append(task.Notes, newNote(actor, *text))
	return text
}

func (s *taskService) Delete(ctx context.Context, actor *model.User, id int64) error {
	_, project, err := s.loadWithProject(ctx, id, responses.ErrTaskProjectNotFound)
	if err != nil {
		return err
	}
	if !auth.CanDeleteTask(project, actor.ID) {
		return responses.ErrTaskDeleteDenied
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("删除任务", zap.Int64("task_id", id), zap.Int64("admin_id", actor.ID))
	return nil
}

// loadWithProject 任务必须属于一个存在的项目
func (s *taskService) loadWithProject(ctx context.Context, id int64, missing error) (*model.Task, *model.Project, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if task.ProjectID == nil {
		return nil, nil, missing
	}
	project, err := s.projectRepo.FindByID(ctx, *task.ProjectID)
	if err != nil {
		if responses.StatusOf(err) == http.StatusNotFound {
			return nil, nil, missing
		}
		return nil, nil, err
	}
	return task, project, nil
}

func (s *taskService) findAssignee(ctx context.Context, email string) (*model.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, responses.ErrRecordNotFound) {
			return nil, responses.NotFoundf("User with email %s not found", strings.TrimSpace(email))
		}
		return nil, err
	}
	return user, nil
}

func (s *taskService) reload(ctx context.Context, id int64) (*dto.TaskResponse, error) {
	task, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTaskResponse(task), nil
}

func newNote(actor *model.User, text string) model.TaskNote {
	return model.TaskNote{
		Text:      strings.TrimSpace(text),
		CreatedBy: actor.ID,
		CreatedAt: time.Now(),
	}
}
