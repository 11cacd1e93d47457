package model

const NotificationTableName = "notifications"

// Notification 站内通知，只由其他操作附带产生
type Notification struct {
	BaseModel
	RecipientID   int64  `gorm:"not null;index" json:"recipientId"`
	Type          string `gorm:"size:40;not null" json:"type"`
	Message       string `gorm:"size:500;not null" json:"message"`
	RelatedTaskID *int64 `json:"relatedTaskId"`
	RelatedTeamID *int64 `json:"relatedTeamId"`
	TriggeredByID int64  `gorm:"not null" json:"triggeredById"`
	IsRead        bool   `gorm:"not null;default:false;index" json:"isRead"`

	// Relations
	RelatedTask *Task `gorm:"foreignKey:RelatedTaskID" json:"relatedTask,omitempty"`
	RelatedTeam *Team `gorm:"foreignKey:RelatedTeamID" json:"relatedTeam,omitempty"`
	TriggeredBy *User `gorm:"foreignKey:TriggeredByID" json:"triggeredBy,omitempty"`
}

func (Notification) TableName() string {
	return NotificationTableName
}
