package model

import "time"

const TeamTableName = "teams"
const TeamMemberTableName = "team_members"

// Team 团队，admin 不出现在 Members 中
type Team struct {
	BaseModel
	Name        string  `gorm:"size:20;not null" json:"name"`
	Description string  `gorm:"size:20;not null;default:''" json:"description"`
	Image       *string `gorm:"size:255" json:"image"`
	AdminID     int64   `gorm:"not null;index" json:"adminId"`

	// Relations
	Admin   *User        `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members"`
}

func (Team) TableName() string {
	return TeamTableName
}

// TeamMember 团队成员，按加入时间排序
type TeamMember struct {
	TeamID   int64     `gorm:"primaryKey;autoIncrement:false" json:"-"`
	UserID   int64     `gorm:"primaryKey;autoIncrement:false;index" json:"userId"`
	Role     string    `gorm:"size:20;not null;default:'Member'" json:"role"`
	JoinedAt time.Time `gorm:"not null" json:"joinedAt"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (TeamMember) TableName() string {
	return TeamMemberTableName
}
