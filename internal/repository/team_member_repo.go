package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"worksync/internal/model"
	"worksync/pkg/responses"
)

type TeamMemberRepository interface {
	Add(ctx context.Context, member *model.TeamMember) error
	UpdateRole(ctx context.Context, teamID, userID int64, role string) error
	Remove(ctx context.Context, teamID, userID int64) error
}

type teamMemberRepository struct {
	db *gorm.DB
}

func NewTeamMemberRepository(db *gorm.DB) TeamMemberRepository {
	return &teamMemberRepository{db: db}
}

func (r *teamMemberRepository) Add(ctx context.Context, member *model.TeamMember) error {
	if err := r.db.WithContext(ctx).Omit("User").Create(member).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return responses.ErrAlreadyTeamMember
		}
		return responses.Database("添加团队成员失败", err)
	}
	return nil
}

func (r *teamMemberRepository) UpdateRole(ctx context.Context, teamID, userID int64, role string) error {
	var member model.TeamMember
	db := r.db.WithContext(ctx)
	if err := db.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error; err != nil {
		return findError(err, responses.ErrNotTeamMember, "查询团队成员失败")
	}
	err := db.Model(&model.TeamMember{}).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Update("role", role).Error
	if err != nil {
		return responses.Database("更新团队成员失败", err)
	}
	return nil
}

func (r *teamMemberRepository) Remove(ctx context.Context, teamID, userID int64) error {
	result := r.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&model.TeamMember{})
	if result.Error != nil {
		return responses.Database("删除团队成员失败", result.Error)
	}
	if result.RowsAffected == 0 {
		return responses.ErrNotTeamMember
	}
	return nil
}
