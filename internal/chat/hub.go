package chat

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"
	"go.uber.org/zap"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/pkg/config"
)

const (
	writeWait    = 10 * time.Second
	eventTimeout = 10 * time.Second
)

var ErrHubClosed = errors.New("chat hub closed")

// MessageSender 聊天依赖的消息能力，由 service.MessageService 实现
type MessageSender interface {
	CanJoin(ctx context.Context, actor *model.User, teamID int64) error
	Send(ctx context.Context, actor *model.User, teamID int64, content string) (*dto.MessageResponse, error)
}

// Hub 管理所有连接与团队房间
type Hub struct {
	sender   MessageSender
	logger   *zap.Logger
	upgrader websocket.Upgrader
	origins  []string

	queueSize      int
	pingPeriod     time.Duration
	pongWait       time.Duration
	maxMessageSize int64

	ctx    context.Context
	cancel context.CancelFunc

	mu      sync.RWMutex
	clients map[*Client]struct{}
	rooms   map[int64]map[*Client]struct{}
	closed  bool
}

// NewHub 创建 Hub，origins 为空时不校验 Origin
func NewHub(cfg *config.ChatConfig, sender MessageSender, logger *zap.Logger, origins ...string) *Hub {
	ctx, cancel := context.WithCancel(context.Background())
	pingPeriod := time.Duration(cfg.PingPeriod) * time.Second
	if pingPeriod <= 0 {
		pingPeriod = 50 * time.Second
	}

	h := &Hub{
		sender:         sender,
		logger:         logger,
		origins:        lo.Compact(origins),
		queueSize:      lo.Ternary(cfg.SendQueueSize > 0, cfg.SendQueueSize, 64),
		pingPeriod:     pingPeriod,
		pongWait:       pingPeriod * 6 / 5,
		maxMessageSize: lo.Ternary(cfg.MaxMessageSize > 0, cfg.MaxMessageSize, int64(8192)),
		ctx:            ctx,
		cancel:         cancel,
		clients:        make(map[*Client]struct{}),
		rooms:          make(map[int64]map[*Client]struct{}),
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  cfg.ReadBufferSize,
		WriteBufferSize: cfg.WriteBufferSize,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" || len(h.origins) == 0 {
		return true
	}
	return lo.Contains(h.origins, origin)
}

// ServeWS 升级连接并启动读写协程，user 为已认证用户
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, user *model.User) error {
	if h.isClosed() {
		http.Error(w, ErrHubClosed.Error(), http.StatusServiceUnavailable)
		return ErrHubClosed
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// upgrader 已写回错误响应
		return err
	}

	client := newClient(h, conn, user)
	if !h.register(client) {
		_ = conn.Close()
		return ErrHubClosed
	}
	h.logger.Debug("聊天连接建立", zap.Int64("user_id", user.ID), zap.String("remote", conn.RemoteAddr().String()))

	go client.writePump()
	go client.readPump()
	return nil
}

func (h *Hub) isClosed() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.closed
}

func (h *Hub) register(c *Client) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.closed {
		return false
	}
	h.clients[c] = struct{}{}
	return true
}

// unregister 移出所有房间并关闭发送队列，可重复调用
func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(c)
}

func (h *Hub) removeLocked(c *Client) {
	if _, ok := h.clients[c]; !ok {
		return
	}
	delete(h.clients, c)
	for teamID := range c.rooms {
		if room, ok := h.rooms[teamID]; ok {
			delete(room, c)
			if len(room) == 0 {
				delete(h.rooms, teamID)
			}
		}
	}
	close(c.send)
}

func (h *Hub) join(c *Client, teamID int64) bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[c]; !ok {
		return false
	}
	room, ok := h.rooms[teamID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[teamID] = room
	}
	room[c] = struct{}{}
	c.rooms[teamID] = struct{}{}
	return true
}

// Broadcast 向房间内所有连接（含发送者）推送事件
func (h *Hub) Broadcast(teamID int64, event string, data interface{}) {
	payload, err := encode(event, data)
	if err != nil {
		h.logger.Error("编码聊天事件失败", zap.String("event", event), zap.Error(err))
		return
	}

	var slow []*Client
	h.mu.RLock()
	for c := range h.rooms[teamID] {
		select {
		case c.send <- payload:
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	// 发送队列已满的连接直接断开
	for _, c := range slow {
		h.logger.Warn("聊天连接发送队列已满，断开连接", zap.Int64("user_id", c.user.ID), zap.Int64("team_id", teamID))
		h.unregister(c)
	}
}

// BroadcastMessage 广播新消息
func (h *Hub) BroadcastMessage(message *dto.MessageResponse) {
	h.Broadcast(message.TeamID, EventReceiveMessage, message)
}

// Leave 将用户的全部连接移出房间，连接保持打开，返回移出的连接数
func (h *Hub) Leave(teamID, userID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[teamID]
	if !ok {
		return 0
	}
	removed := 0
	for c := range room {
		if c.user.ID != userID {
			continue
		}
		delete(room, c)
		delete(c.rooms, teamID)
		removed++
	}
	if len(room) == 0 {
		delete(h.rooms, teamID)
	}
	return removed
}

// CloseRoom 团队删除后清空房间
func (h *Hub) CloseRoom(teamID int64) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[teamID]
	for c := range room {
		delete(c.rooms, teamID)
	}
	delete(h.rooms, teamID)
	return len(room)
}

// RoomSize 房间内的连接数
func (h *Hub) RoomSize(teamID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[teamID])
}

// Close 断开所有连接，之后不再接受新连接
func (h *Hub) Close() {
	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		return
	}
	h.closed = true
	for c := range h.clients {
		h.removeLocked(c)
	}
	h.mu.Unlock()

	h.cancel()
	h.logger.Info("聊天服务已关闭")
}

// queue 向单个连接推送事件，连接已关闭时忽略
func (h *Hub) queue(c *Client, event string, data interface{}) {
	payload, err := encode(event, data)
	if err != nil {
		h.logger.Error("编码聊天事件失败", zap.String("event", event), zap.Error(err))
		return
	}

	full := false
	h.mu.RLock()
	if _, ok := h.clients[c]; ok {
		select {
		case c.send <- payload:
		default:
			full = true
		}
	}
	h.mu.RUnlock()

	if full {
		h.unregister(c)
	}
}
