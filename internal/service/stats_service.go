package service

import (
	"context"
	"time"

	"github.com/samber/lo"

	"worksync/internal/dto"
	"worksync/internal/model"
	"worksync/internal/repository"
	"worksync/pkg/constants"
)

// weekDays 统计的天数（含今天）
const weekDays = 7

// StatsService 任务统计，范围均为当前用户可见的任务
type StatsService interface {
	StatusCounts(ctx context.Context, actor *model.User) ([]*dto.StatusCount, error)
	Dashboard(ctx context.Context, actor *model.User) (*dto.DashboardStats, error)
	Weekly(ctx context.Context, actor *model.User) ([]*dto.WeeklyStat, error)
}

type statsService struct {
	taskRepo repository.TaskRepository
}

func NewStatsService(taskRepo repository.TaskRepository) StatsService {
	return &statsService{taskRepo: taskRepo}
}

func (s *statsService) StatusCounts(ctx context.Context, actor *model.User) ([]*dto.StatusCount, error) {
	counts, err := s.taskRepo.CountByStatus(ctx, actor.ID)
	if err != nil {
		return nil, err
	}
	return lo.Map(counts, func(c repository.StatusCount, _ int) *dto.StatusCount {
		return &dto.StatusCount{Status: c.Status, Count: c.Count}
	}), nil
}

func (s *statsService) Dashboard(ctx context.Context, actor *model.User) (*dto.DashboardStats, error) {
	tasks, err := s.taskRepo.ListVisible(ctx, actor.ID, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	return BuildDashboard(tasks, time.Now()), nil
}

func (s *statsService) Weekly(ctx context.Context, actor *model.User) ([]*dto.WeeklyStat, error) {
	tasks, err := s.taskRepo.ListVisible(ctx, actor.ID, repository.TaskFilter{})
	if err != nil {
		return nil, err
	}
	return BuildWeekly(tasks, time.Now()), nil
}

// BuildDashboard 在内存中汇总，逾期指截止时间早于 now 且未完成
func BuildDashboard(tasks []*model.Task, now time.Time) *dto.DashboardStats {
	byStatus := lo.CountValuesBy(tasks, func(t *model.Task) string { return t.Status })
	byPriority := lo.CountValuesBy(tasks, func(t *model.Task) string { return t.Priority })

	stats := &dto.DashboardStats{
		TotalTasks:      len(tasks),
		CompletedTasks:  byStatus[constants.TaskStatusCompleted],
		InProgressTasks: byStatus[constants.TaskStatusInProgress],
		PendingTasks:    byStatus[constants.TaskStatusPending],
		OverdueTasks: lo.CountBy(tasks, func(t *model.Task) bool {
			return t.Status != constants.TaskStatusCompleted && t.DueDate != nil && t.DueDate.Before(now)
		}),
		TasksByPriority: make(map[string]int, len(constants.Priorities)),
		TasksByStatus:   make(map[string]int, len(constants.TaskStatuses)),
	}
	for _, p := range constants.Priorities {
		stats.TasksByPriority[p] = byPriority[p]
	}
	for _, st := range constants.TaskStatuses {
		stats.TasksByStatus[st] = byStatus[st]
	}
	return stats
}

// BuildWeekly 最近 7 天（含今天）按天统计，旧的在前
// completed 以最后修改时间近似完成时间
func BuildWeekly(tasks []*model.Task, now time.Time) []*dto.WeeklyStat {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := today.AddDate(0, 0, -(weekDays - 1))

	result := make([]*dto.WeeklyStat, 0, weekDays)
	for i := 0; i < weekDays; i++ {
		day := start.AddDate(0, 0, i)
		next := day.AddDate(0, 0, 1)
		within := func(t time.Time) bool {
			return !t.Before(day) && t.Before(next)
		}

		result = append(result, &dto.WeeklyStat{
			Date: day.Format("2006-01-02"),
			Day:  day.Format("Mon"),
			Created: lo.CountBy(tasks, func(t *model.Task) bool {
				return within(t.CreatedAt)
			}),
			Completed: lo.CountBy(tasks, func(t *model.Task) bool {
				return t.Status == constants.TaskStatusCompleted && within(t.UpdatedAt)
			}),
			InProgress: lo.CountBy(tasks, func(t *model.Task) bool {
				return t.Status == constants.TaskStatusInProgress && t.CreatedAt.Before(next)
			}),
		})
	}
	return result
}
