package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"worksync/internal/model"
	"worksync/pkg/responses"
)

type MessageRepository interface {
	// Create 保存消息，发送者自动计入已读
	Create(ctx context.Context, message *model.Message) error
	FindByID(ctx context.Context, id int64) (*model.Message, error)
	// ListByTeam 按创建时间升序返回团队消息
	ListByTeam(ctx context.Context, teamID int64) ([]*model.Message, error)
	UpdateContent(ctx context.Context, id int64, content string) error
	Delete(ctx context.Context, id int64) error
	// MarkTeamRead 将团队中未读的消息标记为已读，返回新增已读条数
	MarkTeamRead(ctx context.Context, teamID, userID int64) (int64, error)
	UnreadCounts(ctx context.Context, userID int64, teamIDs []int64) (map[int64]int64, error)
}

type messageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Sender").Preload("ReadBy")
}

func (r *messageRepository) Create(ctx context.Context, message *model.Message) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Sender", "ReadBy").Create(message).Error; err != nil {
			return err
		}
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.MessageRead{MessageID: message.ID, UserID: message.SenderID}).Error
	})
	if err != nil {
		return responses.Database("保存消息失败", err)
	}
	return nil
}

func (r *messageRepository) FindByID(ctx context.Context, id int64) (*model.Message, error) {
	var message model.Message
	if err := r.withRelations(r.db.WithContext(ctx)).First(&message, id).Error; err != nil {
		return nil, findError(err, responses.ErrMessageNotFound, "查询消息失败")
	}
	return &message, nil
}

func (r *messageRepository) ListByTeam(ctx context.Context, teamID int64) ([]*model.Message, error) {
	var messages []*model.Message
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("team_id = ?", teamID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, responses.Database("查询消息列表失败", err)
	}
	return messages, nil
}

func (r *messageRepository) UpdateContent(ctx context.Context, id int64, content string) error {
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"content": content, "is_edited": true}).Error
	if err != nil {
		return responses.Database("更新消息失败", err)
	}
	return nil
}

func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("message_id = ?", id).Delete(&model.MessageRead{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Message{}, id).Error
	})
	if err != nil {
		return responses.Database("删除消息失败", err)
	}
	return nil
}

func (r *messageRepository) MarkTeamRead(ctx context.Context, teamID, userID int64) (int64, error) {
	var modified int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var unread []int64
		read := tx.Model(&model.MessageRead{}).Select("message_id").Where("user_id = ?", userID)
		if err := tx.Model(&model.Message{}).
			Where("team_id = ? AND id NOT IN (?)", teamID, read).
			Pluck("id", &unread).Error; err != nil {
			return err
		}
		if len(unread) == 0 {
			return nil
		}

		rows := make([]model.MessageRead, 0, len(unread))
		for _, id := range unread {
			rows = append(rows, model.MessageRead{MessageID: id, UserID: userID})
		}
		result := tx.Clauses(clause.OnConflict{DoNothing: true}).CreateInBatches(rows, 200)
		if result.Error != nil {
			return result.Error
		}
		modified = result.RowsAffected
		return nil
	})
	if err != nil {
		return 0, responses.Database("标记消息已读失败", err)
	}
	return modified, nil
}

func (r *messageRepository) UnreadCounts(ctx context.Context, userID int64, teamIDs []int64) (map[int64]int64, error) {
	counts := make(map[int64]int64, len(teamIDs))
	if len(teamIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		TeamID int64
		Count  int64
	}
	read := r.db.Model(&model.MessageRead{}).Select("message_id").Where("user_id = ?", userID)
	err := r.db.WithContext(ctx).Model(&model.Message{}).
		Select("team_id, COUNT(*) AS count").
		Where("team_id IN ? AND id NOT IN (?)", teamIDs, read).
		Group("team_id").
		Scan(&rows).Error
	if err != nil {
		return nil, responses.Database("统计未读消息失败", err)
	}

	for _, id := range teamIDs {
		counts[id] = 0
	}
	for _, row := range rows {
		counts[row.TeamID] = row.Count
	}
	return counts, nil
}
