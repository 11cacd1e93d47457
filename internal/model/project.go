package model

import "time"

const ProjectTableName = "projects"
const ProjectMemberTableName = "project_members"

// Project 项目
type Project struct {
	BaseModel
	Name        string    `gorm:"size:200;not null" json:"name"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Status      string    `gorm:"size:20;not null;index" json:"status"`
	Priority    string    `gorm:"size:20;not null;index" json:"priority"`
	StartDate   time.Time `gorm:"not null" json:"startDate"`
	DueDate     time.Time `gorm:"not null" json:"dueDate"`
	AdminID     int64     `gorm:"not null;index" json:"adminId"`

	// Relations
	Admin   *User  `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	Members []User `gorm:"many2many:project_members" json:"members"`
}

func (Project) TableName() string {
	return ProjectTableName
}

// ProjectMember 项目成员关联（集合语义，联合主键去重）
type ProjectMember struct {
	ProjectID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (ProjectMember) TableName() string {
	return ProjectMemberTableName
}
