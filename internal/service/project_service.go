package service

import (
	"context"
	"strings"
	"time"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/pkg/auth"
	"worksync/internal/repository"
	"worksync/pkg/constants"
	"worksync/pkg/responses"
)

type ProjectService interface {
	Create(ctx context.Context, actor *model.User, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error)
	List(ctx context.Context, actor *model.User, query *dto.ProjectListQuery) ([]*dto.ProjectResponse, error)
	Get(ctx context.Context, actor *model.User, id int64) (*dto.ProjectResponse, error)
	Update(ctx context.Context, actor *model.User, id int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error)
	// Delete 同时删除项目下的所有任务
	Delete(ctx context.Context, actor *model.User, id int64) error
	// Tasks admin 看到全部任务，其他人只看到分配给自己的
	Tasks(ctx context.Context, actor *model.User, id int64) ([]*dto.TaskResponse, error)
}

type projectService struct {
	repo     repository.ProjectRepository
	taskRepo repository.TaskRepository
	authz    AuthorizationService
	logger   *zap.Logger
}

func NewProjectService(
	repo repository.ProjectRepository,
	taskRepo repository.TaskRepository,
	authz AuthorizationService,
	logger *zap.Logger,
) ProjectService {
	return &projectService{
		repo:     repo,
		taskRepo: taskRepo,
		authz:    authz,
		logger:   logger,
	}
}

func (s *projectService) Create(ctx context.Context, actor *model.User, req *dto.CreateProjectRequest) (*dto.ProjectResponse, error) {
	project := &model.Project{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Status:      lo.Ternary(req.Status == "", constants.ProjectStatusActive, req.Status),
		Priority:    lo.Ternary(req.Priority == "", constants.PriorityMedium, req.Priority),
		StartDate:   time.Now(),
		DueDate:     req.DueDate.Time,
		AdminID:     actor.ID,
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate.Time
	}

	// admin 同时是成员
	if err := s.repo.Create(ctx, project, actor.ID); err != nil {
		return nil, err
	}

	s.logger.Info("创建项目", zap.Int64("project_id", project.ID), zap.Int64("admin_id", actor.ID))
	return s.reload(ctx, project.ID)
}

func (s *projectService) List(ctx context.Context, actor *model.User, query *dto.ProjectListQuery) ([]*dto.ProjectResponse, error) {
	projects, err := s.repo.ListForUser(ctx, actor.ID, repository.ProjectFilter{
		Status:   query.Status,
		Priority: query.Priority,
		Offset:   query.GetOffset(constants.DefaultProjectPageSize),
		Limit:    query.GetLimit(constants.DefaultProjectPageSize),
	})
	if err != nil {
		return nil, err
	}
	return lo.Map(projects, func(p *model.Project, _ int) *dto.ProjectResponse {
		return toProjectResponse(p)
	}), nil
}

func (s *projectService) Get(ctx context.Context, actor *model.User, id int64) (*dto.ProjectResponse, error) {
	project, err := s.authz.ViewableProject(ctx, actor.ID, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}

func (s *projectService) Update(ctx context.Context, actor *model.User, id int64, req *dto.UpdateProjectRequest) (*dto.ProjectResponse, error) {
	project, err := s.authz.AdministeredProject(ctx, actor.ID, id, responses.ErrProjectAdminOnly)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		project.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		project.Description = strings.TrimSpace(*req.Description)
	}
	if req.Status != nil {
		project.Status = *req.Status
	}
	if req.Priority != nil {
		project.Priority = *req.Priority
	}
	if req.StartDate != nil {
		project.StartDate = req.StartDate.Time
	}
	if req.DueDate != nil {
		project.DueDate = req.DueDate.Time
	}

	if err := s.repo.Update(ctx, project); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

func (s *projectService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if _, err := s.authz.AdministeredProject(ctx, actor.ID, id, responses.ErrProjectAdminOnly); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("删除项目", zap.Int64("project_id", id), zap.Int64("admin_id", actor.ID))
	return nil
}

func (s *projectService) Tasks(ctx context.Context, actor *model.User, id int64) ([]*dto.TaskResponse, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	var assignee *int64
	if !auth.IsProjectAdmin(project, actor.ID) {
		assignee = &actor.ID
	}
	tasks, err := s.taskRepo.ListByProject(ctx, id, assignee)
	if err != nil {
		return nil, err
	}
	return toTaskResponses(tasks), nil
}

func (s *projectService) reload(ctx context.Context, id int64) (*dto.ProjectResponse, error) {
	project, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProjectResponse(project), nil
}
