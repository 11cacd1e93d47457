package chat

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"worksync/internal/model"
	"worksync/pkg/responses"
)

// Client 单个 websocket 连接
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	user *model.User
	send chan []byte

	// 由 hub.mu 保护
	rooms map[int64]struct{}
}

func newClient(h *Hub, conn *websocket.Conn, user *model.User) *Client {
	return &Client{
		hub:   h,
		conn:  conn,
		user:  user,
		send:  make(chan []byte, h.queueSize),
		rooms: make(map[int64]struct{}),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
		c.hub.logger.Debug("聊天连接断开", zap.Int64("user_id", c.user.ID))
	}()

	c.conn.SetReadLimit(c.hub.maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.hub.pongWait))
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseNoStatusReceived) {
				c.hub.logger.Warn("聊天连接异常关闭", zap.Int64("user_id", c.user.ID), zap.Error(err))
			}
			return
		}

		var frame Frame
		if err := json.Unmarshal(raw, &frame); err != nil {
			c.fail("", "Invalid message format")
			continue
		}
		c.handle(&frame)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.hub.pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handle(frame *Frame) {
	ctx, cancel := context.WithTimeout(c.hub.ctx, eventTimeout)
	defer cancel()

	switch frame.Event {
	case EventJoinTeam:
		c.joinTeam(ctx, frame.Data)
	case EventSendMessage:
		c.sendMessage(ctx, frame.Data)
	default:
		c.fail(frame.Event, "Unknown event")
	}
}

func (c *Client) joinTeam(ctx context.Context, data json.RawMessage) {
	var teamID ID
	if err := json.Unmarshal(data, &teamID); err != nil || teamID <= 0 {
		c.fail(EventJoinTeam, "Invalid team id")
		return
	}

	if err := c.hub.sender.CanJoin(ctx, c.user, int64(teamID)); err != nil {
		c.failWith(EventJoinTeam, err)
		return
	}
	if !c.hub.join(c, int64(teamID)) {
		return
	}
	c.hub.queue(c, EventJoinedTeam, JoinedPayload{TeamID: int64(teamID)})
}

func (c *Client) sendMessage(ctx context.Context, data json.RawMessage) {
	var payload SendPayload
	if err := json.Unmarshal(data, &payload); err != nil || payload.TeamID <= 0 {
		c.fail(EventSendMessage, "Invalid message payload")
		return
	}
	if payload.SenderID != 0 && int64(payload.SenderID) != c.user.ID {
		c.fail(EventSendMessage, "Sender does not match the authenticated user")
		return
	}

	message, err := c.hub.sender.Send(ctx, c.user, int64(payload.TeamID), payload.Content)
	if err != nil {
		c.failWith(EventSendMessage, err)
		return
	}
	c.hub.BroadcastMessage(message)
}

func (c *Client) fail(event, message string) {
	c.hub.queue(c, EventError, ErrorPayload{Event: event, Message: message})
}

// failWith 业务错误原样返回，内部错误只记录日志
func (c *Client) failWith(event string, err error) {
	var appErr *responses.AppError
	if errors.As(err, &appErr) && appErr.StatusCode < http.StatusInternalServerError {
		c.fail(event, appErr.Message)
		return
	}
	c.hub.logger.Error("处理聊天事件失败", zap.String("event", event), zap.Int64("user_id", c.user.ID), zap.Error(err))
	c.fail(event, responses.ErrInternalError.Message)
}
