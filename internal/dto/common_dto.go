package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// PageQuery 分页查询参数
type PageQuery struct {
	Page  int `form:"page"`  // 可选：页码，不传默认为1
	Limit int `form:"limit"` // 可选：每页数量
}

// GetPage 获取页码
func (p *PageQuery) GetPage() int {
	if p.Page < 1 {
		return 1
	}
	return p.Page
}

// GetLimit 获取每页数量，未传时使用 def
func (p *PageQuery) GetLimit(def int) int {
	if p.Limit < 1 {
		return def
	}
	if p.Limit > 1000 {
		return 1000
	}
	return p.Limit
}

// GetOffset 获取偏移量
func (p *PageQuery) GetOffset(def int) int {
	return (p.GetPage() - 1) * p.GetLimit(def)
}

// Date 接受 RFC3339 或 2006-01-02 格式的时间
type Date struct {
	time.Time
}

var dateLayouts = []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func (d *Date) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte("null")) {
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid date: %s", string(data))
	}
	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			d.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date: %s", s)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Time)
}

// TimePtr 转为 *time.Time
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
