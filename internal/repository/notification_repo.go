package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"worksync/internal/model"
	"worksync/pkg/responses"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	ListForRecipient(ctx context.Context, userID int64, limit int) ([]*model.Notification, error)
	CountUnread(ctx context.Context, userID int64) (int64, error)
	MarkRead(ctx context.Context, id, userID int64) (*model.Notification, error)
	MarkAllRead(ctx context.Context, userID int64) error
	Delete(ctx context.Context, id, userID int64) error
	DeleteAll(ctx context.Context, userID int64) error
	// PruneRead 删除 before 之前创建的已读通知
	PruneRead(ctx context.Context, before time.Time) (int64, error)
}

type notificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, notification *model.Notification) error {
	err := r.db.WithContext(ctx).
		Omit("RelatedTask", "RelatedTeam", "TriggeredBy").
		Create(notification).Error
	if err != nil {
		return responses.Database("创建通知失败", err)
	}
	return nil
}

func (r *notificationRepository) ListForRecipient(ctx context.Context, userID int64, limit int) ([]*model.Notification, error) {
	var notifications []*model.Notification
	err := r.db.WithContext(ctx).
		Preload("TriggeredBy").
		Preload("RelatedTask").
		Preload("RelatedTeam").
		Where("recipient_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Limit(limit).
		Find(&notifications).Error
	if err != nil {
		return nil, responses.Database("查询通知列表失败", err)
	}
	return notifications, nil
}

func (r *notificationRepository) CountUnread(ctx context.Context, userID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	if err != nil {
		return 0, responses.Database("统计未读通知失败", err)
	}
	return count, nil
}

func (r *notificationRepository) MarkRead(ctx context.Context, id, userID int64) (*model.Notification, error) {
	db := r.db.WithContext(ctx)
	var notification model.Notification
	if err := db.Where("id = ? AND recipient_id = ?", id, userID).First(&notification).Error; err != nil {
		return nil, findError(err, responses.ErrNotificationNotFound, "查询通知失败")
	}
	if notification.IsRead {
		return &notification, nil
	}
	if err := db.Model(&notification).Update("is_read", true).Error; err != nil {
		return nil, responses.Database("更新通知失败", err)
	}
	notification.IsRead = true
	return &notification, nil
}

func (r *notificationRepository) MarkAllRead(ctx context.Context, userID int64) error {
	err := r.db.WithContext(ctx).Model(&model.Notification{}).
		Where("recipient_id = ? AND is_read = ?", userID, false).
		Update("is_read", true).Error
	if err != nil {
		return responses.Database("更新通知失败", err)
	}
	return nil
}

func (r *notificationRepository) Delete(ctx context.Context, id, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("id = ? AND recipient_id = ?", id, userID).
		Delete(&model.Notification{})
	if result.Error != nil {
		return responses.Database("删除通知失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return responses.ErrNotificationNotFound
	}
	return nil
}

func (r *notificationRepository) DeleteAll(ctx context.Context, userID int64) error {
	if err := r.db.WithContext(ctx).Where("recipient_id = ?", userID).Delete(&model.Notification{}).Error; err != nil {
		return responses.Database("删除通知失败", err)
	}
	return nil
}

func (r *notificationRepository) PruneRead(ctx context.Context, before time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, before).
		Delete(&model.Notification{})
	if result.Error != nil {
		return 0, responses.Database("清理通知失败", result.Error)
	}
	return result.RowsAffected, nil
}
