package responses

import (
	"fmt"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// exposeDetails 非生产环境下在错误响应中附带原始错误与调用栈
var exposeDetails atomic.Bool

// ExposeDetails 设置错误响应是否附带调试信息
func ExposeDetails(enabled bool) {
	exposeDetails.Store(enabled)
}

// Response 统一响应结构
type Response struct {
	Status      string      `json:"status"`
	Token       string      `json:"token,omitempty"`
	Results     *int        `json:"results,omitempty"`
	UnreadCount *int64      `json:"unreadCount,omitempty"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data,omitempty"`
}

// ErrorResponse 错误响应结构
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Error   string `json:"error,omitempty"`
	Stack   string `json:"stack,omitempty"`
}

// Success 200
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: StatusSuccess, Data: data})
}

// Created 201
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{Status: StatusSuccess, Data: data})
}

// SuccessWithMessage 带提示信息的成功响应
func SuccessWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{Status: StatusSuccess, Message: message})
}

// SuccessWithMessageData 同时带提示信息与数据
func SuccessWithMessageData(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: StatusSuccess, Message: message, Data: data})
}

// List 列表响应，附带 results
func List(c *gin.Context, results int, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: StatusSuccess, Results: &results, Data: data})
}

// ListWithUnread 通知列表响应，附带 results 与 unreadCount
func ListWithUnread(c *gin.Context, results int, unread int64, data interface{}) {
	c.JSON(http.StatusOK, Response{Status: StatusSuccess, Results: &results, UnreadCount: &unread, Data: data})
}

// WithToken 登录类响应，响应体中带 token
func WithToken(c *gin.Context, statusCode int, token string, data interface{}) {
	c.JSON(statusCode, Response{Status: StatusSuccess, Token: token, Data: data})
}

// NoContent 204
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 统一错误出口，所有 handler 与中间件的错误都经过这里
func Error(c *gin.Context, err error) {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Internal(ErrInternalError.Message, err)
	}

	resp := ErrorResponse{
		Status:  StatusError,
		Message: appErr.Message,
	}
	if exposeDetails.Load() {
		resp.Error = err.Error()
		if appErr.Err != nil {
			resp.Stack = fmt.Sprintf("%+v", appErr.Err)
		}
	}

	_ = c.Error(err)
	c.AbortWithStatusJSON(appErr.StatusCode, resp)
}

// ErrorWithDetail 参数错误等需要附加说明的场景
func ErrorWithDetail(c *gin.Context, statusCode int, message, detail string) {
	if detail != "" {
		message = fmt.Sprintf("%s. %s", message, detail)
	}
	Error(c, New(statusCode, message))
}
