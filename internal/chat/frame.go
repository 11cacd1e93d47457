package chat

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// 事件名
const (
	EventJoinTeam       = "join_team"
	EventSendMessage    = "send_message"
	EventReceiveMessage = "receive_message"
	EventJoinedTeam     = "joined_team"
	EventError          = "error"
)

// Frame 入站消息帧，data 按事件类型延迟解析
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outFrame struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

func encode(event string, data interface{}) ([]byte, error) {
	return json.Marshal(outFrame{Event: event, Data: data})
}

// ID 同时接受数字与数字字符串
type ID int64

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = 0
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		if s == "" {
			*id = 0
			return nil
		}
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid id %q", s)
		}
		*id = ID(v)
		return nil
	}
	var v int64
	if err := json.Unmarshal(b, &v); err != nil {
		return fmt.Errorf("invalid id %s", b)
	}
	*id = ID(v)
	return nil
}

// SendPayload send_message 的 data
type SendPayload struct {
	Content  string `json:"content"`
	TeamID   ID     `json:"teamId"`
	SenderID ID     `json:"senderId"`
}

// ErrorPayload error 事件的 data
type ErrorPayload struct {
	Event   string `json:"event,omitempty"`
	Message string `json:"message"`
}

// JoinedPayload joined_team 事件的 data
type JoinedPayload struct {
	TeamID int64 `json:"teamId"`
}
