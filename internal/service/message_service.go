package service

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/responses"
)

type MessageService interface {
	// List 团队全部消息，按创建时间升序
	List(ctx context.Context, actor *model.User, teamID int64) ([]*dto.MessageResponse, error)
	// CanJoin 当前用户是否可以进入团队聊天
	CanJoin(ctx context.Context, actor *model.User, teamID int64) error
	// Send 保存消息并返回填充了发送者的结果，广播由调用方负责
	Send(ctx context.Context, actor *model.User, teamID int64, content string) (*dto.MessageResponse, error)
	Update(ctx context.Context, actor *model.User, teamID, id int64, req *dto.UpdateMessageRequest) (*dto.MessageResponse, error)
	Delete(ctx context.Context, actor *model.User, teamID, id int64) error
	// MarkRead 幂等，已读集合只增不减
	MarkRead(ctx context.Context, actor *model.User, teamID int64) (int64, error)
}

type messageService struct {
	repo   repository.MessageRepository
	authz  AuthorizationService
	logger *zap.Logger
}

func NewMessageService(repo repository.MessageRepository, authz AuthorizationService, logger *zap.Logger) MessageService {
	return &messageService{
		repo:   repo,
		authz:  authz,
		logger: logger,
	}
}

func (s *messageService) List(ctx context.Context, actor *model.User, teamID int64) ([]*dto.MessageResponse, error) {
	if _, err := s.authz.ViewableTeam(ctx, actor.ID, teamID, responses.ErrChatAccessDenied); err != nil {
		return nil, err
	}
	messages, err := s.repo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	return lo.Map(messages, func(m *model.Message, _ int) *dto.MessageResponse {
		return toMessageResponse(m)
	}), nil
}

func (s *messageService) CanJoin(ctx context.Context, actor *model.User, teamID int64) error {
	_, err := s.authz.ViewableTeam(ctx, actor.ID, teamID, responses.ErrChatAccessDenied)
	return err
}

func (s *messageService) Send(ctx context.Context, actor *model.User, teamID int64, content string) (*dto.MessageResponse, error) {
	content, err := messageContent(content)
	if err != nil {
		return nil, err
	}
	if err := s.CanJoin(ctx, actor, teamID); err != nil {
		return nil, err
	}

	message := &model.Message{
		Content:  content,
		SenderID: actor.ID,
		TeamID:   teamID,
	}
	if err := s.repo.Create(ctx, message); err != nil {
		return nil, err
	}

	saved, err := s.repo.FindByID(ctx, message.ID)
	if err != nil {
		return nil, err
	}
	return toMessageResponse(saved), nil
}

func (s *messageService) Update(ctx context.Context, actor *model.User, teamID, id int64, req *dto.UpdateMessageRequest) (*dto.MessageResponse, error) {
	message, err := s.find(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	if message.SenderID != actor.ID {
		return nil, responses.ErrMessageEditDenied
	}
	content, err := messageContent(req.Content)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateContent(ctx, id, content); err != nil {
		return nil, err
	}
	updated, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toMessageResponse(updated), nil
}

func (s *messageService) Delete(ctx context.Context, actor *model.User, teamID, id int64) error {
	message, err := s.find(ctx, teamID, id)
	if err != nil {
		return err
	}
	if message.SenderID != actor.ID {
		return responses.ErrMessageDeleteDenied
	}
	return s.repo.Delete(ctx, id)
}

func (s *messageService) MarkRead(ctx context.Context, actor *model.User, teamID int64) (int64, error) {
	if _, err := s.authz.ViewableTeam(ctx, actor.ID, teamID, responses.ErrTeamAccessDenied); err != nil {
		return 0, err
	}
	return s.repo.MarkTeamRead(ctx, teamID, actor.ID)
}

// find 消息必须属于路径中的团队
func (s *messageService) find(ctx context.Context, teamID, id int64) (*model.Message, error) {
	message, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if message.TeamID != teamID {
		return nil, responses.ErrMessageNotFound
	}
	return message, nil
}

// messageContent 去除首尾空白，空内容返回 400
func messageContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", responses.ErrEmptyMessage
	}
	return content, nil
}
