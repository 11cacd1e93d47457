package dto

import "time"

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title         string  `json:"title" binding:"required,max=200"`
	Description   string  `json:"description"`
	Priority      string  `json:"priority" binding:"omitempty,priority"`
	Status        string  `json:"status" binding:"omitempty,task_status"`
	DueDate       *Date   `json:"dueDate"`
	ProjectID     *int64  `json:"project" binding:"omitempty,gt=0"`
	AssigneeEmail *string `json:"assigneeEmail" binding:"omitempty,email"`
	Note          *string `json:"note" binding:"omitempty,max=2000"`
}

// UpdateTaskRequest 更新任务请求（线上格式），按角色转换为不同的更新结构
type UpdateTaskRequest struct {
	Title            *string `json:"title" binding:"omitempty,min=1,max=200"`
	Description      *string `json:"description"`
	Priority         *string `json:"priority" binding:"omitempty,priority"`
	Status           *string `json:"status" binding:"omitempty,task_status"`
	DueDate          *Date   `json:"dueDate"`
	AssigneeEmail    *string `json:"assigneeEmail" binding:"omitempty,email"`
	RemoveAssigneeID *int64  `json:"removeAssigneeId" binding:"omitempty,gt=0"`
	Note             *string `json:"note" binding:"omitempty,max=2000"`
}

// AdminTaskUpdate 项目管理员可修改的字段
type AdminTaskUpdate struct {
	Title            *string
	Description      *string
	Priority         *string
	Status           *string
	DueDate          *time.Time
	AssigneeEmail    *string
	RemoveAssigneeID *int64
	Note             *string
}

// AssigneeTaskUpdate 负责人可修改的字段，其余字段忽略
type AssigneeTaskUpdate struct {
	Status   *string
	Priority *string
	Note     *string
}

// ForAdmin 转换为管理员更新
func (r *UpdateTaskRequest) ForAdmin() *AdminTaskUpdate {
	return &AdminTaskUpdate{
		Title:            r.Title,
		Description:      r.Description,
		Priority:         r.Priority,
		Status:           r.Status,
		DueDate:          r.DueDate.TimePtr(),
		AssigneeEmail:    r.AssigneeEmail,
		RemoveAssigneeID: r.RemoveAssigneeID,
		Note:             r.Note,
	}
}

// ForAssignee 转换为负责人更新
func (r *UpdateTaskRequest) ForAssignee() *AssigneeTaskUpdate {
	return &AssigneeTaskUpdate{
		Status:   r.Status,
		Priority: r.Priority,
		Note:     r.Note,
	}
}

// TaskListQuery 任务列表查询参数
type TaskListQuery struct {
	Status   string `form:"status" binding:"omitempty,task_status"`
	Priority string `form:"priority" binding:"omitempty,priority"`
}

// TaskNoteResponse 任务备注
type TaskNoteResponse struct {
	Text      string    `json:"text"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskResponse 任务响应
type TaskResponse struct {
	ID          int64               `json:"id"`
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Priority    string              `json:"priority"`
	Status      string              `json:"status"`
	DueDate     *time.Time          `json:"dueDate"`
	Project     *ProjectSummary     `json:"project"`
	AssignedTo  []*UserSummary      `json:"assignedTo"`
	Notes       []*TaskNoteResponse `json:"notes"`
	CreatedAt   time.Time           `json:"createdAt"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// TaskData 响应中的 data.task
type TaskData struct {
	Task *TaskResponse `json:"task"`
}

// TasksData 响应中的 data.tasks
type TasksData struct {
	Tasks []*TaskResponse `json:"tasks"`
}
