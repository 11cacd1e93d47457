package service

import (
	"context"

	"worksync/internal/model"
	"worksync/internal/pkg/auth"
	"worksync/internal/repository"
	"worksync/pkg/responses"
)

// AuthorizationService 加载资源并按 internal/pkg/auth 的判断规则做访问控制
// 资源不存在时返回 404，无权限时返回调用方指定的 403 错误
type AuthorizationService interface {
	// ViewableTeam 团队 admin 或成员
	ViewableTeam(ctx context.Context, userID, teamID int64, denied error) (*model.Team, error)
	// AdministeredTeam 仅团队 admin
	AdministeredTeam(ctx context.Context, userID, teamID int64, denied error) (*model.Team, error)
	// ViewableProject 项目 admin 或成员
	ViewableProject(ctx context.Context, userID, projectID int64) (*model.Project, error)
	// AdministeredProject 仅项目 admin
	AdministeredProject(ctx context.Context, userID, projectID int64, denied error) (*model.Project, error)
}

type authorizationService struct {
	teamRepo    repository.TeamRepository
	projectRepo repository.ProjectRepository
}

// NewAuthorizationService 创建 AuthorizationService
func NewAuthorizationService(teamRepo repository.TeamRepository, projectRepo repository.ProjectRepository) AuthorizationService {
	return &authorizationService{
		teamRepo:    teamRepo,
		projectRepo: projectRepo,
	}
}

func (s *authorizationService) ViewableTeam(ctx context.Context, userID, teamID int64, denied error) (*model.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewTeam(team, userID) {
		return nil, denied
	}
	return team, nil
}

func (s *authorizationService) AdministeredTeam(ctx context.Context, userID, teamID int64, denied error) (*model.Team, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if !auth.IsTeamAdmin(team, userID) {
		return nil, denied
	}
	return team, nil
}

func (s *authorizationService) ViewableProject(ctx context.Context, userID, projectID int64) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !auth.CanViewProject(project, userID) {
		return nil, responses.ErrProjectAccessDenied
	}
	return project, nil
}

func (s *authorizationService) AdministeredProject(ctx context.Context, userID, projectID int64, denied error) (*model.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if !auth.IsProjectAdmin(project, userID) {
		return nil, denied
	}
	return project, nil
}
