package model

import (
	"time"

	"gorm.io/datatypes"
)

const TaskTableName = "tasks"
const TaskAssigneeTableName = "task_assignees"

// Task 任务，可不属于任何项目
type Task struct {
	BaseModel
	Title       string                        `gorm:"size:200;not null" json:"title"`
	Description string                        `gorm:"type:text" json:"description"`
	Priority    string                        `gorm:"size:20;not null;index" json:"priority"`
	Status      string                        `gorm:"size:20;not null;index" json:"status"`
	DueDate     *time.Time                    `json:"dueDate"`
	ProjectID   *int64                        `gorm:"index" json:"projectId"`
	Notes       datatypes.JSONSlice[TaskNote] `json:"notes"` // 追加写入的备注日志

	// Relations
	Project   *Project `gorm:"foreignKey:ProjectID" json:"project,omitempty"`
	Assignees []User   `gorm:"many2many:task_assignees" json:"assignedTo"`
}

func (Task) TableName() string {
	return TaskTableName
}

// TaskNote 任务备注
type TaskNote struct {
	Text      string    `json:"text"`
	CreatedBy int64     `json:"createdBy"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskAssignee 任务负责人关联（集合语义）
type TaskAssignee struct {
	TaskID int64 `gorm:"primaryKey;autoIncrement:false"`
	UserID int64 `gorm:"primaryKey;autoIncrement:false;index"`
}

func (TaskAssignee) TableName() string {
	return TaskAssigneeTableName
}

// AssigneeIDs 负责人ID列表
func (t *Task) AssigneeIDs() []int64 {
	ids := make([]int64, 0, len(t.Assignees))
	for _, u := range t.Assignees {
		ids = append(ids, u.ID)
	}
	return ids
}
