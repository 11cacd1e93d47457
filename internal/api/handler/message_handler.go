package handler

import (
	"github.com/gin-gonic/gin"

	"worksync/internal/api/middleware"
	"worksync/internal/dto"
	"worksync/internal/service"
	"worksync/pkg/responses"
)

// MessageBroadcaster REST 发送的消息同样推送给在线连接
type MessageBroadcaster interface {
	BroadcastMessage(message *dto.MessageResponse)
}

type MessageHandler struct {
	messageService service.MessageService
	broadcaster    MessageBroadcaster
}

func NewMessageHandler(messageService service.MessageService, broadcaster MessageBroadcaster) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		broadcaster:    broadcaster,
	}
}

// List 团队消息
// @Summary 团队消息，按时间升序
// @Tags Message
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Success 200 {object} responses.Response{data=dto.MessagesData}
// @Router /api/teams/{id}/messages [get]
func (h *MessageHandler) List(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	messages, err := h.messageService.List(c.Request.Context(), middleware.CurrentUser(c), teamID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.List(c, len(messages), dto.MessagesData{Messages: messages})
}

// Send 发送消息
// @Summary 通过 REST 发送消息，并广播给聊天室
// @Tags Message
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Param request body dto.SendMessageRequest true "消息内容"
// @Success 201 {object} responses.Response{data=dto.MessageData}
// @Router /api/teams/{id}/messages [post]
func (h *MessageHandler) Send(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.SendMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	message, err := h.messageService.Send(c.Request.Context(), middleware.CurrentUser(c), teamID, req.Content)
	if err != nil {
		responses.Error(c, err)
		return
	}

	if h.broadcaster != nil {
		h.broadcaster.BroadcastMessage(message)
	}
	responses.Created(c, dto.MessageData{Message: message})
}

// MarkRead 标记团队消息已读
// @Summary 将团队全部消息标记为已读（幂等）
// @Tags Message
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Success 200 {object} responses.Response{data=dto.MarkReadResponse}
// @Router /api/teams/{id}/messages/mark-read [patch]
func (h *MessageHandler) MarkRead(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}

	modified, err := h.messageService.MarkRead(c.Request.Context(), middleware.CurrentUser(c), teamID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.SuccessWithMessageData(c, "Messages marked as read", dto.MarkReadResponse{ModifiedCount: modified})
}

// Update 编辑消息
// @Summary 编辑消息（仅发送者）
// @Tags Message
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Param messageId path int true "消息ID"
// @Param request body dto.UpdateMessageRequest true "消息内容"
// @Success 200 {object} responses.Response{data=dto.MessageData}
// @Router /api/teams/{id}/messages/{messageId} [patch]
func (h *MessageHandler) Update(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	messageID, ok := pathID(c, "messageId")
	if !ok {
		return
	}
	var req dto.UpdateMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	message, err := h.messageService.Update(c.Request.Context(), middleware.CurrentUser(c), teamID, messageID, &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.MessageData{Message: message})
}

// Delete 删除消息
// @Summary 删除消息（仅发送者）
// @Tags Message
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Param messageId path int true "消息ID"
// @Success 204
// @Router /api/teams/{id}/messages/{messageId} [delete]
func (h *MessageHandler) Delete(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	messageID, ok := pathID(c, "messageId")
	if !ok {
		return
	}

	if err := h.messageService.Delete(c.Request.Context(), middleware.CurrentUser(c), teamID, messageID); err != nil {
		responses.Error(c, err)
		return
	}

	responses.NoContent(c)
}
