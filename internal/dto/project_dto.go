package dto

import "time"

// CreateProjectRequest 创建项目请求
type CreateProjectRequest struct {
	Name        string `json:"name" binding:"required,max=200"`
	Description string `json:"description" binding:"required"`
	Status      string `json:"status" binding:"omitempty,project_status"`
	Priority    string `json:"priority" binding:"omitempty,priority"`
	StartDate   *Date  `json:"startDate"`
	DueDate     *Date  `json:"dueDate" binding:"required"`
}

// UpdateProjectRequest 更新项目请求
type UpdateProjectRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=200"`
	Description *string `json:"description" binding:"omitempty,min=1"`
	Status      *string `json:"status" binding:"omitempty,project_status"`
	Priority    *string `json:"priority" binding:"omitempty,priority"`
	StartDate   *Date   `json:"startDate"`
	DueDate     *Date   `json:"dueDate"`
}

// ProjectListQuery 项目列表查询参数
type ProjectListQuery struct {
	PageQuery
	Status   string `form:"status" binding:"omitempty,project_status"`
	Priority string `form:"priority" binding:"omitempty,priority"`
}

// ProjectResponse 项目响应
type ProjectResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Status      string         `json:"status"`
	Priority    string         `json:"priority"`
	StartDate   time.Time      `json:"startDate"`
	DueDate     time.Time      `json:"dueDate"`
	Admin       *UserSummary   `json:"admin"`
	Members     []*UserSummary `json:"members"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// ProjectSummary 被引用时的项目信息
type ProjectSummary struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// ProjectData 响应中的 data.project
type ProjectData struct {
	Project *ProjectResponse `json:"project"`
}

// ProjectsData 响应中的 data.projects
type ProjectsData struct {
	Projects []*ProjectResponse `json:"projects"`
}
