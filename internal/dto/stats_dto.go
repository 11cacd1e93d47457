package dto

// StatusCount 按状态计数
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// TaskStatsData 响应中的 data.stats
type TaskStatsData struct {
	Stats []*StatusCount `json:"stats"`
}

// DashboardStats 仪表盘统计，直接作为 data 返回
type DashboardStats struct {
	TotalTasks      int            `json:"totalTasks"`
	CompletedTasks  int            `json:"completedTasks"`
	InProgressTasks int            `json:"inProgressTasks"`
	PendingTasks    int            `json:"pendingTasks"`
	OverdueTasks    int            `json:"overdueTasks"`
	TasksByPriority map[string]int `json:"tasksByPriority"`
	TasksByStatus   map[string]int `json:"tasksByStatus"`
}

// WeeklyStat 单日统计
type WeeklyStat struct {
	Date       string `json:"date"`
	Day        string `json:"day"`
	Created    int    `json:"created"`
	Completed  int    `json:"completed"`
	InProgress int    `json:"inProgress"`
}

// WeeklyData 响应中的 data.weeklyData
type WeeklyData struct {
	WeeklyData []*WeeklyStat `json:"weeklyData"`
}
