package constants

// 任务状态
const (
	TaskStatusPending    = "Pending"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"
)

// 项目状态
const (
	ProjectStatusActive    = "Active"
	ProjectStatusOnHold    = "On Hold"
	ProjectStatusCompleted = "Completed"
)

// 优先级（任务与项目共用）
const (
	PriorityLow    = "Low"
	PriorityMedium = "Medium"
	PriorityHigh   = "High"
)

var (
	TaskStatuses    = []string{TaskStatusPending, TaskStatusInProgress, TaskStatusCompleted}
	ProjectStatuses = []string{ProjectStatusActive, ProjectStatusOnHold, ProjectStatusCompleted}
	Priorities      = []string{PriorityLow, PriorityMedium, PriorityHigh}
	TeamRoles       = []string{TeamRoleManager, TeamRoleMember}
)

// DefaultProjectPageSize 项目列表默认每页数量
const DefaultProjectPageSize = 100
