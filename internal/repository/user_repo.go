package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"worksync/internal/model"
	"worksync/pkg/responses"
)

// UserFilter 用户列表过滤条件
type UserFilter struct {
	Email   string
	Name    string
	Keyword string
	Offset  int
	Limit   int
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id int64) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindByResetToken(ctx context.Context, digest string, now time.Time) (*model.User, error)
	List(ctx context.Context, filter UserFilter) ([]*model.User, error)
	Update(ctx context.Context, user *model.User) error
	ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return responses.ErrEmailTaken
		}
		return responses.Database("创建用户失败", err)
	}
	return nil
}

func (r *userRepository) FindByID(ctx context.Context, id int64) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, findError(err, responses.ErrRecordNotFound, "查询用户失败")
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, findError(err, responses.ErrRecordNotFound, "查询用户失败")
	}
	return &user, nil
}

// FindByResetToken 按重置 token 摘要查找未过期的用户
func (r *userRepository) FindByResetToken(ctx context.Context, digest string, now time.Time) (*model.User, error) {
	var user model.User
	err := r.db.WithContext(ctx).
		Where("password_reset_token = ? AND password_reset_expires > ?", digest, now).
		First(&user).Error
	if err != nil {
		return nil, findError(err, responses.ErrResetTokenInvalid, "查询重置令牌失败")
	}
	return &user, nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter) ([]*model.User, error) {
	var users []*model.User
	query := r.db.WithContext(ctx).Model(&model.User{})

	if filter.Email != "" {
		query = query.Where("email = ?", filter.Email)
	}
	if filter.Name != "" {
		query = query.Where("name = ?", filter.Name)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR email LIKE ?", like, like)
	}
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := query.Order("created_at DESC").Order("id DESC").Find(&users).Error; err != nil {
		return nil, responses.Database("查询用户列表失败", err)
	}
	return users, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	if err := r.db.WithContext(ctx).Save(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return responses.ErrEmailTaken
		}
		return responses.Database("更新用户失败", err)
	}
	return nil
}

// ClearExpiredResetTokens 清理过期的密码重置 token
func (r *userRepository) ClearExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Model(&model.User{}).
		Where("password_reset_token IS NOT NULL AND password_reset_expires < ?", now).
		Updates(map[string]interface{}{
			"password_reset_token":   nil,
			"password_reset_expires": nil,
		})
	if result.Error != nil {
		return 0, responses.Database("清理重置令牌失败", result.Error)
	}
	return result.RowsAffected, nil
}
