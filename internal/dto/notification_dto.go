package dto

import "time"

// NotificationTask 通知关联的任务
type NotificationTask struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

// NotificationResponse 通知响应
type NotificationResponse struct {
	ID          int64             `json:"id"`
	Type        string            `json:"type"`
	Message     string            `json:"message"`
	IsRead      bool              `json:"isRead"`
	TriggeredBy *UserSummary      `json:"triggeredBy"`
	RelatedTask *NotificationTask `json:"relatedTask"`
	RelatedTeam *TeamSummary      `json:"relatedTeam"`
	CreatedAt   time.Time         `json:"createdAt"`
}

// NotificationsData 响应中的 data.notifications
type NotificationsData struct {
	Notifications []*NotificationResponse `json:"notifications"`
}

// NotificationList 通知列表及未读数
type NotificationList struct {
	Items       []*NotificationResponse
	UnreadCount int64
}

// NotificationData 响应中的 data.notification
type NotificationData struct {
	Notification *NotificationResponse `json:"notification"`
}
