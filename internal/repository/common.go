package repository

import (
	"errors"

	"gorm.io/gorm"

	"worksync/pkg/responses"
)

// findError 记录不存在时返回调用方给定的业务错误，其余按数据库错误包装
func findError(err error, notFound error, msg string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return responses.Database(msg, err)
}

// orderedMembers 团队成员按加入顺序排列，team_members 没有自增 id
func orderedMembers(db *gorm.DB) *gorm.DB {
	return db.Order("joined_at ASC").Order("user_id ASC")
}
