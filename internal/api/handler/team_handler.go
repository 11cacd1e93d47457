package handler

import (
	"github.com/gin-gonic/gin"

	"worksync/internal/api/middleware"
	"worksync/internal/dto"
	"worksync/internal/service"
	"worksync/pkg/responses"
)

// ChatRooms 成员移除或团队删除后同步在线聊天房间
type ChatRooms interface {
	Leave(teamID, userID int64) int
	CloseRoom(teamID int64) int
}

type TeamHandler struct {
	teamService service.TeamService
	rooms       ChatRooms
}

func NewTeamHandler(teamService service.TeamService, rooms ChatRooms) *TeamHandler {
	return &TeamHandler{
		teamService: teamService,
		rooms:       rooms,
	}
}

// Create 创建团队
// @Summary 创建团队，当前用户为 admin
// @Tags Team
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.CreateTeamRequest true "创建团队请求"
// @Success 201 {object} responses.Response{data=dto.TeamData}
// @Router /api/teams [post]
func (h *TeamHandler) Create(c *gin.Context) {
	var req dto.CreateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	team, err := h.teamService.Create(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Created(c, dto.TeamData{Team: team})
}

// List 我的团队
// @Summary 当前用户作为 admin 或成员的团队
// @Tags Team
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response{data=dto.TeamsData}
// @Router /api/teams [get]
func (h *TeamHandler) List(c *gin.Context) {
	teams, err := h.teamService.List(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.List(c, len(teams), dto.TeamsData{Teams: teams})
}

// GetByID 获取团队详情
// @Summary 获取团队详情
// @Tags Team
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Success 200 {object} responses.Response{data=dto.TeamData}
// @Router /api/teams/{id} [get]
func (h *TeamHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	team, err := h.teamService.Get(c.Request.Context(), middleware.CurrentUser(c), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.TeamData{Team: team})
}

// Update 更新团队
// @Summary 更新团队（仅 admin）
// @Tags Team
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Param request body dto.UpdateTeamRequest true "更新团队请求"
// @Success 200 {object} responses.Response{data=dto.TeamData}
// @Router /api/teams/{id} [patch]
func (h *TeamHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateTeamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	team, err := h.teamService.Update(c.Request.Context(), middleware.CurrentUser(c), id, &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.TeamData{Team: team})
}

// Delete 删除团队
// @Summary 删除团队及其成员、消息（仅 admin）
// @Tags Team
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Success 204
// @Router /api/teams/{id} [delete]
func (h *TeamHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.teamService.Delete(c.Request.Context(), middleware.CurrentUser(c), id); err != nil {
		responses.Error(c, err)
		return
	}
	h.rooms.CloseRoom(id)

	responses.NoContent(c)
}

// Stats 团队统计
// @Summary 当前用户的团队统计
// @Tags Team
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response{data=dto.TeamStatsResponse}
// @Router /api/teams/stats [get]
func (h *TeamHandler) Stats(c *gin.Context) {
	stats, err := h.teamService.Stats(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, stats)
}

// UnreadCounts 各团队未读消息数
// @Summary 各团队未读消息数
// @Tags Team
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response{data=dto.UnreadCountsResponse}
// @Router /api/teams/unread-counts [get]
func (h *TeamHandler) UnreadCounts(c *gin.Context) {
	counts, err := h.teamService.UnreadCounts(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.UnreadCountsResponse{UnreadCounts: counts})
}
