package responses

import (
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

// AppError 应用错误，StatusCode 即最终返回的 HTTP 状态码
type AppError struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%d] %s: %v", e.StatusCode, e.Message, e.Err)
	}
	return fmt.Sprintf("[%d] %s", e.StatusCode, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// New 创建新错误
func New(statusCode int, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
	}
}

// Wrap 包装底层错误并记录调用栈
func Wrap(statusCode int, message string, err error) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Message:    message,
		Err:        errors.WithStack(err),
	}
}

// BadRequest 400
func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message)
}

// Forbidden 403
func Forbidden(message string) *AppError {
	return New(http.StatusForbidden, message)
}

// NotFound 404
func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message)
}

// NotFoundf 404，带格式化信息
func NotFoundf(format string, args ...interface{}) *AppError {
	return New(http.StatusNotFound, fmt.Sprintf(format, args...))
}

// Internal 500，保留原始错误
func Internal(message string, err error) *AppError {
	return Wrap(http.StatusInternalServerError, message, err)
}

// Database 数据库错误统一按 500 处理
func Database(message string, err error) *AppError {
	return Wrap(http.StatusInternalServerError, message, err)
}

// 预定义错误
var (
	ErrBadRequest    = New(http.StatusBadRequest, "Invalid input data")
	ErrNotLoggedIn   = New(http.StatusUnauthorized, "You are not logged in! Please log in to get access.")
	ErrInvalidToken  = New(http.StatusUnauthorized, "Invalid token. Please log in again!")
	ErrTokenExpired  = New(http.StatusUnauthorized, "Your token has expired! Please log in again.")
	ErrUserGone      = New(http.StatusUnauthorized, "The user belonging to this token does no longer exist.")
	ErrStaleToken    = New(http.StatusUnauthorized, "User recently changed password! Please log in again.")
	ErrForbidden     = New(http.StatusForbidden, "You do not have permission to perform this action")
	ErrInternalError = New(http.StatusInternalServerError, "Something went very wrong!")

	ErrMissingCredentials = New(http.StatusBadRequest, "Please provide email and password")
	ErrInvalidCredentials = New(http.StatusUnauthorized, "Incorrect email or password")
	ErrWrongPassword      = New(http.StatusUnauthorized, "Your current password is wrong")
	ErrPasswordMismatch   = New(http.StatusBadRequest, "Passwords are not the same!")
	ErrEmailTaken         = New(http.StatusBadRequest, "Email address is already in use")
	ErrResetTokenInvalid  = New(http.StatusBadRequest, "Token is invalid or has expired")
	ErrEmailDelivery      = New(http.StatusInternalServerError, "There was an error sending the email. Try again later!")

	ErrRecordNotFound = New(http.StatusNotFound, "No document found with that ID")

	// 团队
	ErrTeamAccessDenied      = New(http.StatusForbidden, "You do not have permission to access this team")
	ErrTeamUpdateDenied      = New(http.StatusForbidden, "Only team admin can update team information")
	ErrTeamDeleteDenied      = New(http.StatusForbidden, "Only team admin can delete the team")
	ErrMemberAddDenied       = New(http.StatusForbidden, "Only team admin can add members")
	ErrMemberRoleDenied      = New(http.StatusForbidden, "Only team admin can update member roles")
	ErrMemberRemoveDenied    = New(http.StatusForbidden, "Only team admin can remove members")
	ErrInvalidTeamRole       = New(http.StatusBadRequest, "Role must be either Manager or Member")
	ErrAlreadyTeamMember     = New(http.StatusBadRequest, "User is already a member of this team")
	ErrNotTeamMember         = New(http.StatusNotFound, "User is not a member of this team")
	ErrCannotRemoveTeamAdmin = New(http.StatusBadRequest, "Cannot remove team admin")

	// 项目与任务
	ErrProjectAccessDenied = New(http.StatusForbidden, "You do not have permission to access this project")
	ErrProjectAdminOnly    = New(http.StatusForbidden, "Only project admins can perform this action")
	ErrTaskProjectNotFound = New(http.StatusNotFound, "Project for this task not found")
	ErrTaskAccessDenied    = New(http.StatusForbidden, "You do not have permission to view this task")
	ErrTaskUpdateDenied    = New(http.StatusForbidden, "You are not authorized to update this task")
	ErrTaskDeleteDenied    = New(http.StatusForbidden, "Only project admins can delete tasks")
	ErrAssigneeConflict    = New(http.StatusBadRequest, "Cannot add and remove the same assignee in one update")
	ErrTaskCreateDenied    = New(http.StatusForbidden, "Only project admins can add tasks to this project")

	// 消息与通知
	ErrChatAccessDenied     = New(http.StatusForbidden, "You do not have permission to view this chat")
	ErrMessageNotFound      = New(http.StatusNotFound, "Message not found")
	ErrEmptyMessage         = New(http.StatusBadRequest, "Message content cannot be empty")
	ErrMessageEditDenied    = New(http.StatusForbidden, "You can only edit your own messages")
	ErrMessageDeleteDenied  = New(http.StatusForbidden, "You can only delete your own messages")
	ErrNotificationNotFound = New(http.StatusNotFound, "Notification not found")
	ErrPasswordRouteMisuse  = New(http.StatusBadRequest, "This route is not for password updates. Please use /update-password.")
	ErrNoUserWithEmail      = New(http.StatusNotFound, "There is no user with that email address")
)

// StatusOf 取错误对应的 HTTP 状态码
func StatusOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}
	return http.StatusInternalServerError
}
