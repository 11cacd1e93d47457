package dto

import "time"

// SendMessageRequest 发送消息（REST 通道）
type SendMessageRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// UpdateMessageRequest 编辑消息
type UpdateMessageRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// MessageResponse 消息响应，sender 已填充
type MessageResponse struct {
	ID        int64        `json:"id"`
	Content   string       `json:"content"`
	Sender    *UserSummary `json:"sender"`
	TeamID    int64        `json:"team"`
	ReadBy    []int64      `json:"readBy"`
	IsEdited  bool         `json:"isEdited"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// MessageData 响应中的 data.message
type MessageData struct {
	Message *MessageResponse `json:"message"`
}

// MessagesData 响应中的 data.messages
type MessagesData struct {
	Messages []*MessageResponse `json:"messages"`
}

// MarkReadResponse 批量已读结果
type MarkReadResponse struct {
	ModifiedCount int64 `json:"modifiedCount"`
}
