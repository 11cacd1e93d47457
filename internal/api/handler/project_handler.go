package handler

import (
	"github.com/gin-gonic/gin"

	"worksync/internal/api/middleware"
	"worksync/internal/dto"
	"worksync/internal/service"
	"worksync/pkg/responses"
)

type ProjectHandler struct {
	projectService service.ProjectService
}

func NewProjectHandler(projectService service.ProjectService) *ProjectHandler {
	return &ProjectHandler{
		projectService: projectService,
	}
}

// Create 创建项目
// @Summary 创建项目，当前用户为 admin 与首个成员
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateProjectRequest true "创建项目请求"
// @Success 201 {object} responses.Response{data=dto.ProjectData}
// @Router /api/projects [post]
func (h *ProjectHandler) Create(c *gin.Context) {
	var req dto.CreateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Created(c, dto.ProjectData{Project: project})
}

// List 项目列表
// @Summary 当前用户参与的项目
// @Tags Project
// @Produce json
// @Security ApiKeyAuth
// @Param status query string false "状态"
// @Param priority query string false "优先级"
// @Param page query int false "页码"
// @Param limit query int false "每页数量，默认100"
// @Success 200 {object} responses.Response{data=dto.ProjectsData}
// @Router /api/projects [get]
func (h *ProjectHandler) List(c *gin.Context) {
	var query dto.ProjectListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidInput(c, err)
		return
	}

	projects, err := h.projectService.List(c.Request.Context(), middleware.CurrentUser(c), &query)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.List(c, len(projects), dto.ProjectsData{Projects: projects})
}

// GetByID 项目详情
// @Summary 获取项目详情
// @Tags Project
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Success 200 {object} responses.Response{data=dto.ProjectData}
// @Router /api/projects/{id} [get]
func (h *ProjectHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	project, err := h.projectService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.ProjectData{Project: project})
}

// Update 更新项目
// @Summary 更新项目（仅 admin）
// @Tags Project
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Param request body dto.UpdateProjectRequest true "更新项目请求"
// @Success 200 {object} responses.Response{data=dto.ProjectData}
// @Router /api/projects/{id} [patch]
func (h *ProjectHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.ProjectData{Project: project})
}

// Delete 删除项目
// @Summary 删除项目及其全部任务（仅 admin）
// @Tags Project
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Success 204
// @Router /api/projects/{id} [delete]
func (h *ProjectHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.projectService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		responses.Error(c, err)
		return
	}

	responses.NoContent(c)
}

// Tasks 项目任务
// @Summary 项目任务，admin 看到全部，其他成员只看到分配给自己的
// @Tags Project
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "项目ID"
// @Success 200 {object} responses.Response{data=dto.TasksData}
// @Router /api/projects/{id}/tasks [get]
func (h *ProjectHandler) Tasks(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	tasks, err := h.projectService.Tasks(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.List(c, len(tasks), dto.TasksData{Tasks: tasks})
}
