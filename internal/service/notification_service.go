package service

import (
	"context"

	"github.com/samber/lo"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/constants"
)

type NotificationService interface {
	// List 最近的 50 条通知及未读总数
	List(ctx context.Context, actor *model.User) (*dto.NotificationList, error)
	MarkRead(ctx context.Context, actor *model.User, id int64) (*dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, actor *model.User) error
	Delete(ctx context.Context, actor *model.User, id int64) error
	DeleteAll(ctx context.Context, actor *model.User) error
}

type notificationService struct {
	repo repository.NotificationRepository
}

func NewNotificationService(repo repository.NotificationRepository) NotificationService {
	return &notificationService{repo: repo}
}

func (s *notificationService) List(ctx context.Context, actor *model.User) (*dto.NotificationList, error) {
	notifications, err := s.repo.ListForRecipient(ctx, actor.ID, constants.NotificationListLimit)
	if err != nil {
		return nil, err
	}
	unread, err := s.repo.CountUnread(ctx, actor.ID)
	if err != nil {
		return nil, err
	}

	return &dto.NotificationList{
		Items: lo.Map(notifications, func(n *model.Notification, _ int) *dto.NotificationResponse {
			return toNotificationResponse(n)
		}),
		UnreadCount: unread,
	}, nil
}

func (s *notificationService) MarkRead(ctx context.Context, actor *model.User, id int64) (*dto.NotificationResponse, error) {
	notification, err := s.repo.MarkRead(ctx, id, actor.ID)
	if err != nil {
		return nil, err
	}
	return toNotificationResponse(notification), nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, actor *model.User) error {
	return s.repo.MarkAllRead(ctx, actor.ID)
}

func (s *notificationService) Delete(ctx context.Context, actor *model.User, id int64) error {
	return s.repo.Delete(ctx, id, actor.ID)
}

func (s *notificationService) DeleteAll(ctx context.Context, actor *model.User) error {
	return s.repo.DeleteAll(ctx, actor.ID)
}
