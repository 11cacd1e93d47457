package notification

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/constants"
)

// Notifier 通知器接口
type Notifier interface {
	// Send 投递一条通知
	Send(ctx context.Context, n *model.Notification) error
}

// ============= 站内通知（落库） =============

// StoreNotifier 写入通知表
type StoreNotifier struct {
	repo repository.NotificationRepository
}

// NewStoreNotifier 创建落库通知器
func NewStoreNotifier(repo repository.NotificationRepository) *StoreNotifier {
	return &StoreNotifier{repo: repo}
}

// Send 保存通知
func (n *StoreNotifier) Send(ctx context.Context, notification *model.Notification) error {
	return n.repo.Create(ctx, notification)
}

// ============= 日志通知器 =============

// LogNotifier 日志通知器
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier 创建日志通知器
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Send 记录通知到日志
func (n *LogNotifier) Send(_ context.Context, notification *model.Notification) error {
	n.logger.Debug("通知",
		zap.String("type", notification.Type),
		zap.Int64("recipient_id", notification.RecipientID),
		zap.Int64("triggered_by", notification.TriggeredByID),
		zap.String("message", notification.Message))
	return nil
}

// ============= 多通知器 =============

// MultiNotifier 多通知器(支持同时发送到多个渠道)
type MultiNotifier struct {
	notifiers []Notifier
	logger    *zap.Logger
}

// NewMultiNotifier 创建多通知器
func NewMultiNotifier(logger *zap.Logger, notifiers ...Notifier) *MultiNotifier {
	return &MultiNotifier{
		notifiers: notifiers,
		logger:    logger,
	}
}

// Send 发送到所有通知器
func (m *MultiNotifier) Send(ctx context.Context, n *model.Notification) error {
	var lastErr error
	for _, notifier := range m.notifiers {
		if err := notifier.Send(ctx, n); err != nil {
			m.logger.Error("发送通知失败", zap.String("type", n.Type), zap.Error(err))
			lastErr = err
			// 继续发送其他通知器
		}
	}
	return lastErr
}

// ============= 提交后分发 =============

// Dispatcher 在主操作成功之后分发通知，失败只记录日志，不影响主操作的结果
type Dispatcher struct {
	notifier Notifier
	logger   *zap.Logger
}

// NewDispatcher 创建分发器
func NewDispatcher(notifier Notifier, logger *zap.Logger) *Dispatcher {
	return &Dispatcher{
		notifier: notifier,
		logger:   logger,
	}
}

// Dispatch 逐条投递，互不影响
func (d *Dispatcher) Dispatch(ctx context.Context, notifications ...*model.Notification) {
	for _, n := range notifications {
		if n == nil {
			continue
		}
		if err := d.notifier.Send(ctx, n); err != nil {
			d.logger.Warn("通知投递失败，已忽略",
				zap.String("type", n.Type),
				zap.Int64("recipient_id", n.RecipientID),
				zap.Error(err))
		}
	}
}

// ============= 通知内容 =============

// TeamAdded 被加入团队
func TeamAdded(actor *model.User, team *model.Team, recipientID int64) *model.Notification {
	return &model.Notification{
		RecipientID:   recipientID,
		Type:          constants.NotifyTeamAdded,
		Message:       fmt.Sprintf("You were added by %s to %s", actor.Name, team.Name),
		RelatedTeamID: &team.ID,
		TriggeredByID: actor.ID,
	}
}

// TaskAssigned 被分配任务
func TaskAssigned(actor *model.User, task *model.Task, recipientID int64) *model.Notification {
	return &model.Notification{
		RecipientID:   recipientID,
		Type:          constants.NotifyTaskAssigned,
		Message:       fmt.Sprintf("%s assigned \"%s\" to you", actor.Name, task.Title),
		RelatedTaskID: &task.ID,
		TriggeredByID: actor.ID,
	}
}

// TaskStatusChanged 负责人修改了任务状态，通知项目管理员
func TaskStatusChanged(actor *model.User, task *model.Task, recipientID int64) *model.Notification {
	return &model.Notification{
		RecipientID:   recipientID,
		Type:          constants.NotifyTaskStatusChange,
		Message:       fmt.Sprintf("%s changed \"%s\" status to %s", actor.Name, task.Title, task.Status),
		RelatedTaskID: &task.ID,
		TriggeredByID: actor.ID,
	}
}

// NoteAdded 任务新增备注，通知除作者外的所有负责人
func NoteAdded(actor *model.User, task *model.Task, assigneeIDs []int64) []*model.Notification {
	notifications := make([]*model.Notification, 0, len(assigneeIDs))
	for _, uid := range assigneeIDs {
		if uid == actor.ID {
			continue
		}
		notifications = append(notifications, &model.Notification{
			RecipientID:   uid,
			Type:          constants.NotifyNoteAdded,
			Message:       fmt.Sprintf("%s added a note to \"%s\"", actor.Name, task.Title),
			RelatedTaskID: &task.ID,
			TriggeredByID: actor.ID,
		})
	}
	return notifications
}
