package handler

import (
	"github.com/gin-gonic/gin"

	"worksync/internal/api/middleware"
	"worksync/internal/dto"
	"worksync/internal/service"
	"worksync/pkg/responses"
)

type TeamMemberHandler struct {
	teamMemberService service.TeamMemberService
	rooms             ChatRooms
}

func NewTeamMemberHandler(teamMemberService service.TeamMemberService, rooms ChatRooms) *TeamMemberHandler {
	return &TeamMemberHandler{
		teamMemberService: teamMemberService,
		rooms:             rooms,
	}
}

// AddMember 添加团队成员
// @Summary 添加团队成员（仅 admin）
// @Tags TeamMember
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Param request body dto.TeamMemberAddRequest true "添加成员请求"
// @Success 200 {object} responses.Response{data=dto.TeamData}
// @Router /api/teams/{id}/members [post]
func (h *TeamMemberHandler) AddMember(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.TeamMemberAddRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	team, err := h.teamMemberService.Add(c.Request.Context(), middleware.CurrentUser(c), teamID, &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.TeamData{Team: team})
}

// UpdateRole 更新成员角色
// @Summary 更新成员角色（仅 admin）
// @Tags TeamMember
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Param userId path int true "用户ID"
// @Param request body dto.TeamMemberUpdateRoleRequest true "角色"
// @Success 200 {object} responses.Response{data=dto.TeamData}
// @Router /api/teams/{id}/members/{userId} [patch]
func (h *TeamMemberHandler) UpdateRole(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}
	var req dto.TeamMemberUpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	team, err := h.teamMemberService.UpdateRole(c.Request.Context(), middleware.CurrentUser(c), teamID, userID, &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.TeamData{Team: team})
}

// RemoveMember 移除成员
// @Summary 移除团队成员（仅 admin，不能移除 admin）
// @Tags TeamMember
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "团队ID"
// @Param userId path int true "用户ID"
// @Success 200 {object} responses.Response{data=dto.TeamData}
// @Router /api/teams/{id}/members/{userId} [delete]
func (h *TeamMemberHandler) RemoveMember(c *gin.Context) {
	teamID, ok := pathID(c, "id")
	if !ok {
		return
	}
	userID, ok := pathID(c, "userId")
	if !ok {
		return
	}

	team, err := h.teamMemberService.Remove(c.Request.Context(), middleware.CurrentUser(c), teamID, userID)
	if err != nil {
		responses.Error(c, err)
		return
	}
	// 被移除的成员立即停止接收该团队的聊天
	h.rooms.Leave(teamID, userID)

	responses.Success(c, dto.TeamData{Team: team})
}
