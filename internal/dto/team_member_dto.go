package dto

import "time"

// TeamMemberAddRequest 添加成员请求，role 缺省为 Member
type TeamMemberAddRequest struct {
	UserID int64  `json:"userId" binding:"required,gt=0"`
	Role   string `json:"role"`
}

// TeamMemberUpdateRoleRequest 更新成员角色
type TeamMemberUpdateRoleRequest struct {
	Role string `json:"role" binding:"required"`
}

// TeamMemberResponse 成员响应
type TeamMemberResponse struct {
	User     *UserSummary `json:"user"`
	Role     string       `json:"role"`
	JoinedAt time.Time    `json:"joinedAt"`
}
