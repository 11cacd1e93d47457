package model

const MessageTableName = "messages"
const MessageReadTableName = "message_reads"

// Message 团队聊天消息
type Message struct {
	BaseModel
	Content  string `gorm:"type:text;not null" json:"content"`
	SenderID int64  `gorm:"not null;index" json:"senderId"`
	TeamID   int64  `gorm:"not null;index" json:"teamId"`
	IsEdited bool   `gorm:"not null;default:false" json:"isEdited"`

	// Relations
	Sender *User  `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
	ReadBy []User `gorm:"many2many:message_reads" json:"readBy"`
}

func (Message) TableName() string {
	return MessageTableName
}

// MessageRead 已读记录，只增不减
type MessageRead struct {
	MessageID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID    int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (MessageRead) TableName() string {
	return MessageReadTableName
}
