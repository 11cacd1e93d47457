package handler

import (
	"github.com/gin-gonic/gin"

	"worksync/internal/api/middleware"
	"worksync/internal/dto"
	"worksync/internal/service"
	"worksync/pkg/responses"
)

type NotificationHandler struct {
	notificationService service.NotificationService
}

func NewNotificationHandler(notificationService service.NotificationService) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
	}
}

// List 我的通知
// @Summary 最近 50 条通知及未读数
// @Tags Notification
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response{data=dto.NotificationsData}
// @Router /api/notifications [get]
func (h *NotificationHandler) List(c *gin.Context) {
	list, err := h.notificationService.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.ListWithUnread(c, len(list.Items), list.UnreadCount, dto.NotificationsData{Notifications: list.Items})
}

// MarkRead 标记单条已读
// @Summary 标记单条通知已读
// @Tags Notification
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "通知ID"
// @Success 200 {object} responses.Response{data=dto.NotificationData}
// @Router /api/notifications/{id}/read [patch]
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	notification, err := h.notificationService.MarkRead(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.NotificationData{Notification: notification})
}

// MarkAllRead 全部已读
// @Summary 全部通知标记为已读
// @Tags Notification
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response
// @Router /api/notifications/read-all [patch]
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notificationService.MarkAllRead(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		responses.Error(c, err)
		return
	}

	responses.SuccessWithMessage(c, "All notifications marked as read")
}

// Delete 删除单条通知
// @Summary 删除单条通知
// @Tags Notification
// @Security ApiKeyAuth
// @Param id path int true "通知ID"
// @Success 204
// @Router /api/notifications/{id} [delete]
func (h *NotificationHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.notificationService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		responses.Error(c, err)
		return
	}

	responses.NoContent(c)
}

// DeleteAll 清空通知
// @Summary 删除我的全部通知
// @Tags Notification
// @Security ApiKeyAuth
// @Success 204
// @Router /api/notifications/delete-all [delete]
func (h *NotificationHandler) DeleteAll(c *gin.Context) {
	if err := h.notificationService.DeleteAll(c.Request.Context(), middleware.CurrentUser(c)); err != nil {
		responses.Error(c, err)
		return
	}

	responses.NoContent(c)
}
