package dto

import "time"

// CreateTeamRequest 创建团队请求
type CreateTeamRequest struct {
	Name        string  `json:"name" binding:"required,max=20"`
	Description string  `json:"description" binding:"max=20"`
	Image       *string `json:"image" binding:"omitempty,max=255"`
}

// UpdateTeamRequest 更新团队请求
type UpdateTeamRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=20"`
	Description *string `json:"description" binding:"omitempty,max=20"`
	Image       *string `json:"image" binding:"omitempty,max=255"`
}

// TeamResponse 团队响应
type TeamResponse struct {
	ID          int64                 `json:"id"`
	Name        string                `json:"name"`
	Description string                `json:"description"`
	Image       *string               `json:"image"`
	Admin       *UserSummary          `json:"admin"`
	Members     []*TeamMemberResponse `json:"members"`
	CreatedAt   time.Time             `json:"createdAt"`
	UpdatedAt   time.Time             `json:"updatedAt"`
}

// TeamSummary 被引用时的团队信息
type TeamSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// TeamData 响应中的 data.team
type TeamData struct {
	Team *TeamResponse `json:"team"`
}

// TeamsData 响应中的 data.teams
type TeamsData struct {
	Teams []*TeamResponse `json:"teams"`
}

// TeamStatsResponse 团队统计
type TeamStatsResponse struct {
	TotalTeams    int `json:"totalTeams"`
	TeamsAsAdmin  int `json:"teamsAsAdmin"`
	TeamsAsMember int `json:"teamsAsMember"`
	TotalMembers  int `json:"totalMembers"`
}

// UnreadCountsResponse teamId -> 未读消息数
type UnreadCountsResponse struct {
	UnreadCounts map[int64]int64 `json:"unreadCounts"`
}
