package handler

import (
	"github.com/gin-gonic/gin"

	"worksync/internal/api/middleware"
	"worksync/internal/dto"
	"worksync/internal/service"
	"worksync/pkg/responses"
)

type TaskHandler struct {
	taskService  service.TaskService
	statsService service.StatsService
}

func NewTaskHandler(taskService service.TaskService, statsService service.StatsService) *TaskHandler {
	return &TaskHandler{
		taskService:  taskService,
		statsService: statsService,
	}
}

// Create 创建任务
// @Summary 创建任务，可指定项目与负责人邮箱
// @Tags Task
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateTaskRequest true "创建任务请求"
// @Success 201 {object} responses.Response{data=dto.TaskData}
// @Router /api/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	var req dto.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	task, err := h.taskService.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Created(c, dto.TaskData{Task: task})
}

// List 可见任务
// @Summary 分配给我或我管理的项目下的任务
// @Tags Task
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "状态"
// @Param priority query string false "优先级"
// @Success 200 {object} responses.Response{data=dto.TasksData}
// @Router /api/tasks [get]
func (h *TaskHandler) List(c *gin.Context) {
	var query dto.TaskListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidInput(c, err)
		return
	}

	tasks, err := h.taskService.List(c.Request.Context(), middleware.CurrentUser(c), &query)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.List(c, len(tasks), dto.TasksData{Tasks: tasks})
}

// GetByID 任务详情
// @Summary 获取任务详情
// @Tags Task
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {object} responses.Response{data=dto.TaskData}
// @Router /api/tasks/{id} [get]
func (h *TaskHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	task, err := h.taskService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.TaskData{Task: task})
}

// Update 更新任务
// @Summary 更新任务，项目 admin 可改全部字段，负责人只能改状态、优先级与备注
// @Tags Task
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Param request body dto.UpdateTaskRequest true "更新任务请求"
// @Success 200 {object} responses.Response{data=dto.TaskData}
// @Router /api/tasks/{id} [patch]
func (h *TaskHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	task, err := h.taskService.Update(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.TaskData{Task: task})
}

// Delete 删除任务
// @Summary 删除任务（仅项目 admin）
// @Tags Task
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 204
// @Router /api/tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.taskService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		responses.Error(c, err)
		return
	}

	responses.NoContent(c)
}

// Stats 按状态统计
// @Summary 可见任务按状态计数
// @Tags Task
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response{data=dto.TaskStatsData}
// @Router /api/tasks/stats [get]
func (h *TaskHandler) Stats(c *gin.Context) {
	stats, err := h.statsService.StatusCounts(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.TaskStatsData{Stats: stats})
}

// Dashboard 仪表盘统计
// @Summary 仪表盘统计
// @Tags Task
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response{data=dto.DashboardStats}
// @Router /api/tasks/stats/dashboard [get]
func (h *TaskHandler) Dashboard(c *gin.Context) {
	stats, err := h.statsService.Dashboard(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, stats)
}

// Weekly 最近 7 天统计
// @Summary 最近 7 天按天统计
// @Tags Task
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response{data=dto.WeeklyData}
// @Router /api/tasks/stats/weekly [get]
func (h *TaskHandler) Weekly(c *gin.Context) {
	weekly, err := h.statsService.Weekly(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.WeeklyData{WeeklyData: weekly})
}
