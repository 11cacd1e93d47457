package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"worksync/internal/model"
	"worksync/pkg/responses"
)

// ProjectFilter 项目列表过滤条件
type ProjectFilter struct {
	Status   string
	Priority string
	Offset   int
	Limit    int
}

type ProjectRepository interface {
	// Create 创建项目并写入初始成员
	Create(ctx context.Context, project *model.Project, memberIDs ...int64) error
	FindByID(ctx context.Context, id int64) (*model.Project, error)
	ListForUser(ctx context.Context, userID int64, filter ProjectFilter) ([]*model.Project, error)
	Update(ctx context.Context, project *model.Project) error
	// Delete 删除项目及其全部任务
	Delete(ctx context.Context, id int64) error
	// AddMember 幂等地加入项目成员
	AddMember(ctx context.Context, projectID, userID int64) error
}

type projectRepository struct {
	db *gorm.DB
}

func NewProjectRepository(db *gorm.DB) ProjectRepository {
	return &projectRepository{db: db}
}

func (r *projectRepository) withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Admin").Preload("Members")
}

func (r *projectRepository) Create(ctx context.Context, project *model.Project, memberIDs ...int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Members", "Admin").Create(project).Error; err != nil {
			return err
		}
		for _, uid := range memberIDs {
			if err := addProjectMember(tx, project.ID, uid); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return responses.Database("创建项目失败", err)
	}
	return nil
}

func (r *projectRepository) FindByID(ctx context.Context, id int64) (*model.Project, error) {
	var project model.Project
	if err := r.withRelations(r.db.WithContext(ctx)).First(&project, id).Error; err != nil {
		return nil, findError(err, responses.NotFoundf("Project with ID %d not found", id), "查询项目失败")
	}
	return &project, nil
}

// ListForUser 当前用户作为管理员或成员的项目
func (r *projectRepository) ListForUser(ctx context.Context, userID int64, filter ProjectFilter) ([]*model.Project, error) {
	var projects []*model.Project
	memberOf := r.db.Model(&model.ProjectMember{}).Select("project_id").Where("user_id = ?", userID)

	query := r.withRelations(r.db.WithContext(ctx)).
		Where("admin_id = ? OR id IN (?)", userID, memberOf)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Priority != "" {
		query = query.Where("priority = ?", filter.Priority)
	}
	if filter.Limit > 0 {
		query = query.Offset(filter.Offset).Limit(filter.Limit)
	}

	if err := query.Order("created_at DESC").Order("id DESC").Find(&projects).Error; err != nil {
		return nil, responses.Database("查询项目列表失败", err)
	}
	return projects, nil
}

func (r *projectRepository) Update(ctx context.Context, project *model.Project) error {
	err := r.db.WithContext(ctx).Model(project).
		Select("Name", "Description", "Status", "Priority", "StartDate", "DueDate").
		Updates(project).Error
	if err != nil {
		return responses.Database("更新项目失败", err)
	}
	return nil
}

func (r *projectRepository) Delete(ctx context.Context, id int64) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		taskIDs := tx.Model(&model.Task{}).Select("id").Where("project_id = ?", id)
		if err := tx.Where("task_id IN (?)", taskIDs).Delete(&model.TaskAssignee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.Task{}).Error; err != nil {
			return err
		}
		if err := tx.Where("project_id = ?", id).Delete(&model.ProjectMember{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.Project{}, id).Error
	})
	if err != nil {
		return responses.Database("删除项目失败", err)
	}
	return nil
}

func (r *projectRepository) AddMember(ctx context.Context, projectID, userID int64) error {
	if err := addProjectMember(r.db.WithContext(ctx), projectID, userID); err != nil {
		return responses.Database("添加项目成员失败", err)
	}
	return nil
}

func addProjectMember(db *gorm.DB, projectID, userID int64) error {
	return db.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&model.ProjectMember{ProjectID: projectID, UserID: userID}).Error
}
