package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"worksync/internal/adapter/notification"
	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/pkg/auth"
	"worksync/internal/repository"
	"worksync/pkg/constants"
	"worksync/pkg/responses"
)

type TeamMemberService interface {
	Add(ctx context.Context, actor *model.User, teamID int64, req *dto.TeamMemberAddRequest) (*dto.TeamResponse, error)
	UpdateRole(ctx context.Context, actor *model.User, teamID, userID int64, req *dto.TeamMemberUpdateRoleRequest) (*dto.TeamResponse, error)
	Remove(ctx context.Context, actor *model.User, teamID, userID int64) (*dto.TeamResponse, error)
}

type teamMemberService struct {
	repo       repository.TeamMemberRepository
	teamRepo   repository.TeamRepository
	userRepo   repository.UserRepository
	authz      AuthorizationService
	dispatcher *notification.Dispatcher
	logger     *zap.Logger
}

func NewTeamMemberService(
	repo repository.TeamMemberRepository,
	teamRepo repository.TeamRepository,
	userRepo repository.UserRepository,
	authz AuthorizationService,
	dispatcher *notification.Dispatcher,
	logger *zap.Logger,
) TeamMemberService {
	return &teamMemberService{
		repo:       repo,
		teamRepo:   teamRepo,
		userRepo:   userRepo,
		authz:      authz,
		dispatcher: dispatcher,
		logger:     logger,
	}
}

func (s *teamMemberService) Add(ctx context.Context, actor *model.User, teamID int64, req *dto.TeamMemberAddRequest) (*dto.TeamResponse, error) {
	team, err := s.authz.AdministeredTeam(ctx, actor.ID, teamID, responses.ErrMemberAddDenied)
	if err != nil {
		return nil, err
	}

	// admin 隐式属于团队，不进入成员列表
	if auth.IsTeamAdmin(team, req.UserID) || auth.IsTeamMember(team, req.UserID) {
		return nil, responses.ErrAlreadyTeamMember
	}

	role := strings.TrimSpace(req.Role)
	if role == "" {
		role = constants.TeamRoleMember
	}
	if !auth.ValidTeamRole(role) {
		return nil, responses.ErrInvalidTeamRole
	}

	if _, err := s.userRepo.FindByID(ctx, req.UserID); err != nil {
		if errors.Is(err, responses.ErrRecordNotFound) {
			return nil, responses.NotFoundf("User with ID %d not found", req.UserID)
		}
		return nil, err
	}

	member := &model.TeamMember{
		TeamID:   teamID,
		UserID:   req.UserID,
		Role:     role,
		JoinedAt: time.Now(),
	}
	if err := s.repo.Add(ctx, member); err != nil {
		return nil, err
	}

	s.logger.Info("添加团队成员",
		zap.Int64("team_id", teamID),
		zap.Int64("user_id", req.UserID),
		zap.String("role", role))
	s.dispatcher.Dispatch(ctx, notification.TeamAdded(actor, team, req.UserID))

	return s.reload(ctx, teamID)
}

func (s *teamMemberService) UpdateRole(ctx context.Context, actor *model.User, teamID, userID int64, req *dto.TeamMemberUpdateRoleRequest) (*dto.TeamResponse, error) {
	if _, err := s.authz.AdministeredTeam(ctx, actor.ID, teamID, responses.ErrMemberRoleDenied); err != nil {
		return nil, err
	}
	role := strings.TrimSpace(req.Role)
	if !auth.ValidTeamRole(role) {
		return nil, responses.ErrInvalidTeamRole
	}

	if err := s.repo.UpdateRole(ctx, teamID, userID, role); err != nil {
		return nil, err
	}
	return s.reload(ctx, teamID)
}

func (s *teamMemberService) Remove(ctx context.Context, actor *model.User, teamID, userID int64) (*dto.TeamResponse, error) {
	team, err := s.authz.AdministeredTeam(ctx, actor.ID, teamID, responses.ErrMemberRemoveDenied)
	if err != nil {
		return nil, err
	}
	if auth.IsTeamAdmin(team, userID) {
		return nil, responses.ErrCannotRemoveTeamAdmin
	}

	if err := s.repo.Remove(ctx, teamID, userID); err != nil {
		return nil, err
	}

	s.logger.Info("移除团队成员", zap.Int64("team_id", teamID), zap.Int64("user_id", userID))
	return s.reload(ctx, teamID)
}

func (s *teamMemberService) reload(ctx context.Context, teamID int64) (*dto.TeamResponse, error) {
	team, err := s.teamRepo.FindByID(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return toTeamResponse(team), nil
}
