package repository

import (
	"context"

	"gorm.io/gorm"

	"worksync/internal/model"
	"worksync/pkg/responses"
)

type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	FindByID(ctx context.Context, id int64) (*model.Team, error)
	ListForUser(ctx context.Context, userID int64) ([]*model.Team, error)
	Update(ctx context.Context, team *model.Team) error
	// Delete 删除团队及其成员、消息和已读记录
	Delete(ctx context.Context, id int64) error
}

type teamRepository struct {
	db *gorm.DB
}

func NewTeamRepository(db *gorm.DB) TeamRepository {
	return &teamRepository{db: db}
}

func (r *teamRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Admin").
		Preload("Members", orderedMembers).
		Preload("Members.User")
}

func (r *teamRepository) Create(ctx context.Context, team *model.Team) error {
	if err := r.db.WithContext(ctx).Omit("Members", "Admin").Create(team).Error; err != nil {
		return responses.Database("创建团队失败", err)
	}
	return nil
}

func (r *teamRepository) FindByID(ctx context.Context, id int64) (*model.Team, error) {
	var team model.Team
	if err := r.withRelations(r.db.WithContext(ctx)).First(&team, id).Error; err != nil {
		return nil, findError(err, responses.NotFoundf("Team with ID %d not found", id), "查询团队失败")
	}
	return &team, nil
}

// ListForUser 当前用户作为管理员或成员的团队
func (r *teamRepository) ListForUser(ctx context.Context, userID int64) ([]*model.Team, error) {
	var teams []*model.Team
	memberOf := r.db.Model(&model.TeamMember{}).Select("team_id").Where("user_id = ?", userID)
	err := r.withRelations(r.db.WithContext(ctx)).
		Where("admin_id = ? OR id IN (?)", userID, memberOf).
		Order("created_at DESC").Order("id DESC").
		Find(&teams).Error
	if err != nil {
		return nil, responses.Database("查询团队列表失败", err)
	}
	return teams, nil
}

func (r *teamRepository) Update(ctx context.Context, team *model.Team) error {
	err := r.db.WithContext(ctx).Model(team).
		Select("Name", "Description", "Image").
		Updates(team).Error
	if err != nil {
		return responses.Database("更新团队失败", err)
	}
	return nil
}

func (r *teamRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		messageIDs := tx.Model(&model.Message{}).Select("id").Where("team_id = ?", id)
		if err := tx.Where("message_id IN (?)", messageIDs).Delete(&model.MessageRead{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		if err := tx.Where("team_id = ?", id).Delete(&model.TeamMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Team{}, id).Error
	})
	if err != nil {
		return responses.Database("删除团队失败", err)
	}
	return nil
}
