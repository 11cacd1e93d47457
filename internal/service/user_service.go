package service

import (
	"context"
	"errors"
	"strings"

	"github.com/samber/lo"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/responses"
)

type UserService interface {
	GetByID(ctx context.Context, id int64) (*dto.UserResponse, error)
	List(ctx context.Context, query *dto.UserListQuery) ([]*dto.UserResponse, error)
	UpdateMe(ctx context.Context, actor *model.User, req *dto.UpdateMeRequest) (*dto.UserResponse, error)
}

type userService struct {
	repo repository.UserRepository
}

func NewUserService(repo repository.UserRepository) UserService {
	return &userService{repo: repo}
}

func (s *userService) GetByID(ctx context.Context, id int64) (*dto.UserResponse, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, responses.ErrRecordNotFound) {
			return nil, responses.NotFoundf("User with ID %d not found", id)
		}
		return nil, err
	}
	return toUserResponse(user), nil
}

func (s *userService) List(ctx context.Context, query *dto.UserListQuery) ([]*dto.UserResponse, error) {
	filter := repository.UserFilter{
		Email:   normalizeEmail(query.Email),
		Name:    strings.TrimSpace(query.Name),
		Keyword: strings.TrimSpace(query.Keyword),
	}
	if query.Limit > 0 {
		filter.Limit = query.GetLimit(0)
		filter.Offset = query.GetOffset(0)
	}

	users, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return lo.Map(users, func(u *model.User, _ int) *dto.UserResponse {
		return toUserResponse(u)
	}), nil
}

// UpdateMe 只允许修改资料字段，密码走单独的接口
func (s *userService) UpdateMe(ctx context.Context, actor *model.User, req *dto.UpdateMeRequest) (*dto.UserResponse, error) {
	if req.Password != nil || req.PasswordConfirm != nil {
		return nil, responses.ErrPasswordRouteMisuse
	}

	user, err := s.repo.FindByID(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		user.Name = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		user.Email = normalizeEmail(*req.Email)
	}
	if req.Bio != nil {
		user.Bio = *req.Bio
	}
	if req.Photo != nil {
		user.Photo = *req.Photo
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return toUserResponse(user), nil
}
