package handler

import (
	"github.com/gin-gonic/gin"

	"worksync/internal/api/middleware"
	"worksync/internal/dto"
	"worksync/internal/service"
	"worksync/pkg/responses"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{
		userService: userService,
	}
}

// Me 当前用户
// @Summary 获取当前用户信息
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} responses.Response{data=dto.UserData}
// @Router /api/users/me [get]
func (h *UserHandler) Me(c *gin.Context) {
	user, err := h.userService.GetByID(c.Request.Context(), middleware.CurrentUser(c).ID)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.UserData{User: user})
}

// UpdateMe 修改个人资料
// @Summary 修改个人资料（不含密码）
// @Tags 用户
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdateMeRequest true "个人资料"
// @Success 200 {object} responses.Response{data=dto.UserData}
// @Router /api/users/update-me [patch]
func (h *UserHandler) UpdateMe(c *gin.Context) {
	var req dto.UpdateMeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	user, err := h.userService.UpdateMe(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.UserData{User: user})
}

// List 用户列表
// @Summary 用户列表，可按邮箱、姓名、关键字过滤
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param email query string false "邮箱"
// @Param name query string false "姓名"
// @Param keyword query string false "关键字（姓名或邮箱模糊匹配）"
// @Param page query int false "页码"
// @Param limit query int false "每页数量"
// @Success 200 {object} responses.Response{data=dto.UsersData}
// @Router /api/users [get]
func (h *UserHandler) List(c *gin.Context) {
	var query dto.UserListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		invalidInput(c, err)
		return
	}

	users, err := h.userService.List(c.Request.Context(), &query)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.List(c, len(users), dto.UsersData{Users: users})
}

// GetByID 用户详情
// @Summary 获取用户详情
// @Tags 用户
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "用户ID"
// @Success 200 {object} responses.Response{data=dto.UserData}
// @Router /api/users/{id} [get]
func (h *UserHandler) GetByID(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := h.userService.GetByID(c.Request.Context(), id)
	if err != nil {
		responses.Error(c, err)
		return
	}

	responses.Success(c, dto.UserData{User: user})
}
