package service

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/pkg/auth"
	"worksync/internal/repository"
	"worksync/pkg/responses"
)

type TeamService interface {
	Create(ctx context.Context, actor *model.User, req *dto.CreateTeamRequest) (*dto.TeamResponse, error)
	List(ctx context.Context, actor *model.User) ([]*dto.TeamResponse, error)
	Get(ctx context.Context, actor *model.User, id int64) (*dto.TeamResponse, error)
	Update(ctx context.Context, actor *model.User, id int64, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error)
	Delete(ctx context.Context, actor *model.User, id int64) error
	Stats(ctx context.Context, actor *model.User) (*dto.TeamStatsResponse, error)
	UnreadCounts(ctx context.Context, actor *model.User) (map[int64]int64, error)
}

type teamService struct {
	repo        repository.TeamRepository
	messageRepo repository.MessageRepository
	authz       AuthorizationService
	logger      *zap.Logger
}

func NewTeamService(
	repo repository.TeamRepository,
	messageRepo repository.MessageRepository,
	authz AuthorizationService,
	logger *zap.Logger,
) TeamService {
	return &teamService{
		repo:        repo,
		messageRepo: messageRepo,
		authz:       authz,
		logger:      logger,
	}
}

func (s *teamService) Create(ctx context.Context, actor *model.User, req *dto.CreateTeamRequest) (*dto.TeamResponse, error) {
	team := &model.Team{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Image:       req.Image,
		AdminID:     actor.ID,
	}
	if err := s.repo.Create(ctx, team); err != nil {
		return nil, err
	}

	s.logger.Info("创建团队", zap.Int64("team_id", team.ID), zap.Int64("admin_id", actor.ID))
	return s.reload(ctx, team.ID)
}

func (s *teamService) List(ctx context.Context, actor *model.User) ([]*dto.TeamResponse, error) {
	teams, err := s.repo.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return lo.Map(teams, func(t *model.Team, _ int) *dto.TeamResponse {
		return toTeamResponse(t)
	}), nil
}

func (s *teamService) Get(ctx context.Context, actor *model.User, id int64) (*dto.TeamResponse, error) {
	team, err := s.authz.ViewableTeam(ctx, actor.ID, id, responses.ErrTeamAccessDenied)
	if err != nil {
		return nil, err
	}
	return toTeamResponse(team), nil
}

func (s *teamService) Update(ctx context.Context, actor *model.User, id int64, req *dto.UpdateTeamRequest) (*dto.TeamResponse, error) {
	team, err := s.authz.AdministeredTeam(ctx, actor.ID, id, responses.ErrTeamUpdateDenied)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		team.Name = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		team.Description = strings.TrimSpace(*req.Description)
	}
	if req.Image != nil {
		team.Image = req.Image
	}

	if err := s.repo.Update(ctx, team); err != nil {
		return nil, err
	}
	return s.reload(ctx, id)
}

func (s *teamService) Delete(ctx context.Context, actor *model.User, id int64) error {
	if _, err := s.authz.AdministeredTeam(ctx, actor.ID, id, responses.ErrTeamDeleteDenied); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("删除团队", zap.Int64("team_id", id), zap.Int64("admin_id", actor.ID))
	return nil
}

// Stats totalMembers 统计所有团队中去重后的用户数（含 admin）
func (s *teamService) Stats(ctx context.Context, actor *model.User) (*dto.TeamStatsResponse, error) {
	teams, err := s.repo.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	stats := &dto.TeamStatsResponse{TotalTeams: len(teams)}
	users := make(map[int64]struct{})
	for _, team := range teams {
		if auth.IsTeamAdmin(team, actor.ID) {
			stats.TeamsAsAdmin++
		} else if auth.IsTeamMember(team, actor.ID) {
			stats.TeamsAsMember++
		}
		users[team.AdminID] = struct{}{}
		for _, m := range team.Members {
			users[m.UserID] = struct{}{}
		}
	}
	stats.TotalMembers = len(users)
	return stats, nil
}

func (s *teamService) UnreadCounts(ctx context.Context, actor *model.User) (map[int64]int64, error) {
	teams, err := s.repo.ListForUser(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	ids := lo.Map(teams, func(t *model.Team, _ int) int64 { return t.ID })
	return s.messageRepo.UnreadCounts(ctx, actor.ID, ids)
}

func (s *teamService) reload(ctx context.Context, id int64) (*dto.TeamResponse, error) {
	team, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toTeamResponse(team), nil
}
