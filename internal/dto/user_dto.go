package dto

import "time"

// UserResponse 用户信息（不含任何密码字段）
type UserResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Bio       string    `json:"bio"`
	Photo     string    `json:"photo"`
	CreatedAt time.Time `json:"createdAt"`
}

// UserSummary 被引用时展示的用户精简信息
type UserSummary struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Photo string `json:"photo,omitempty"`
}

// UpdateMeRequest 修改个人资料，带密码字段时拒绝
type UpdateMeRequest struct {
	Name            *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email           *string `json:"email" binding:"omitempty,email"`
	Bio             *string `json:"bio" binding:"omitempty,max=500"`
	Photo           *string `json:"photo" binding:"omitempty,max=255"`
	Password        *string `json:"password"`
	PasswordConfirm *string `json:"passwordConfirm"`
}

// UserListQuery 用户列表过滤
type UserListQuery struct {
	PageQuery
	Email   string `form:"email"`
	Name    string `form:"name"`
	Keyword string `form:"keyword"`
}

// UsersData 响应中的 data.users
type UsersData struct {
	Users []*UserResponse `json:"users"`
}
