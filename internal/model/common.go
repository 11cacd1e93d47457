package model

import "time"

type BaseModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updatedAt"`
}

// All 需要建表的模型，关联表模型需配合 SetupJoinTables 使用
func All() []interface{} {
	return []interface{}{
		&User{},
		&Team{},
		&TeamMember{},
		&Project{},
		&ProjectMember{},
		&Task{},
		&TaskAssignee{},
		&Message{},
		&MessageRead{},
		&Notification{},
	}
}
