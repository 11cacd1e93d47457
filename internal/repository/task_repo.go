package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"worksync/internal/model"
	"worksync/pkg/responses"
)

// TaskFilter 任务列表过滤条件
type TaskFilter struct {
	Status   string
	Priority string
}

// StatusCount 按状态聚合的任务数
type StatusCount struct {
	Status string
	Count  int
}

type TaskRepository interface {
	Create(ctx context.Context, task *model.Task, assigneeIDs ...int64) error
	FindByID(ctx context.Context, id int64) (*model.Task, error)
	// ListVisible 负责人包含该用户或所属项目由该用户管理的任务
	ListVisible(ctx context.Context, userID int64, filter TaskFilter) ([]*model.Task, error)
	// ListByProject assigneeID 非空时只返回分配给该用户的任务
	ListByProject(ctx context.Context, projectID int64, assigneeID *int64) ([]*model.Task, error)
	CountByStatus(ctx context.Context, userID int64) ([]StatusCount, error)
	Update(ctx context.Context, task *model.Task) error
	Delete(ctx context.Context, id int64) error
	AddAssignee(ctx context.Context, taskID, userID int64) error
	RemoveAssignee(ctx context.Context, taskID, userID int64) error
}

type taskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Project").Preload("Assignees")
}

// visibleTo 任务可见性范围
func (r *taskRepository) visibleTo(userID int64) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		assigned := r.db.Model(&model.TaskAssignee{}).Select("task_id").Where("user_id = ?", userID)
		administered := r.db.Model(&model.Project{}).Select("id").Where("admin_id = ?", userID)
		return db.Where("tasks.id IN (?) OR tasks.project_id IN (?)", assigned, administered)
	}
}

func (r *taskRepository) Create(ctx context.Context, task *model.Task, assigneeIDs ...int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Assignees", "Project").Create(task).Error; err != nil {
			return err
		}
		for _, uid := range assigneeIDs {
			if err := addTaskAssignee(tx, task.ID, uid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return responses.Database("创建任务失败", err)
	}
	return nil
}

func (r *taskRepository) FindByID(ctx context.Context, id int64) (*model.Task, error) {
	var task model.Task
	if err := r.withRelations(r.db.WithContext(ctx)).First(&task, id).Error; err != nil {
		return nil, findError(err, responses.NotFoundf("Task with ID %d not found", id), "查询任务失败")
	}
	return &task, nil
}

func (r *taskRepository) ListVisible(ctx context.Context, userID int64, filter TaskFilter) ([]*model.Task, error) {
	var tasks []*model.Task
	query := r.withRelations(r.db.WithContext(ctx)).Scopes(r.visibleTo(userID))
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, responses.Database("查询任务列表失败", err)
	}
	return tasks, nil
}

func (r *taskRepository) ListByProject(ctx context.Context, projectID int64, assigneeID *int64) ([]*model.Task, error) {
	var tasks []*model.Task
	query := r.withRelations(r.db.WithContext(ctx)).Where("project_id = ?", projectID)
	if assigneeID != nil {
		assigned := r.db.Model(&model.TaskAssignee{}).Select("task_id").Where("user_id = ?", *assigneeID)
		query = query.Where("id IN (?)", assigned)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&tasks).Error; err != nil {
		return nil, responses.Database("查询项目任务失败", err)
	}
	return tasks, nil
}

func (r *taskRepository) CountByStatus(ctx context.Context, userID int64) ([]StatusCount, error) {
	var counts []StatusCount
	err := r.db.WithContext(ctx).Model(&model.Task{}).
		Scopes(r.visibleTo(userID)).
		Select("status, COUNT(*) AS count").
		Group("status").
		Order("count DESC").Order("status ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, responses.Database("统计任务状态失败", err)
	}
	return counts, nil
}

func (r *taskRepository) Update(ctx context.Context, task *model.Task) error {
	err := r.db.WithContext(ctx).Model(task).
		Select("Title", "Description", "Priority", "Status", "DueDate", "Notes").
		Updates(task).Error
	if err != nil {
		return responses.Database("更新任务失败", err)
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("task_id = ?", id).Delete(&model.TaskAssignee{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Task{}, id).Error
	})
	if err != nil {
		return responses.Database("删除任务失败", err)
	}
	return nil
}

func (r *taskRepository) AddAssignee(ctx context.Context, taskID, userID int64) error {
	if err := addTaskAssignee(r.db.WithContext(ctx), taskID, userID); err != nil {
		return responses.Database("添加任务负责人失败", err)
	}
	return nil
}

func (r *taskRepository) RemoveAssignee(ctx context.Context, taskID, userID int64) error {
	err := r.db.WithContext(ctx).
		Where("task_id = ? AND user_id = ?", taskID, userID).
		Delete(&model.TaskAssignee{}).Error
	if err != nil {
		return responses.Database("移除任务负责人失败", err)
	}
	return nil
}

func addTaskAssignee(db *gorm.DB, taskID, userID int64) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.TaskAssignee{TaskID: taskID, UserID: userID}).Error
}
