package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"worksync/internal/api/middleware"
	"worksync/internal/chat"
)

type ChatHandler struct {
	hub    *chat.Hub
	logger *zap.Logger
}

func NewChatHandler(hub *chat.Hub, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{
		hub:    hub,
		logger: logger,
	}
}

// Serve 建立聊天连接
// @Summary 升级为 websocket，事件 join_team / send_message / receive_message
// @Tags Chat
// @Security ApiKeyAuth
// @Param token query string false "无法设置 header 时通过 query 传 token"
// @Success 101
// @Router /api/ws [get]
func (h *ChatHandler) Serve(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if err := h.hub.ServeWS(c.Writer, c.Request, user); err != nil {
		h.logger.Warn("建立聊天连接失败", zap.Int64("user_id", user.ID), zap.Error(err))
	}
}
