package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"worksync/internal/api/middleware"
	"worksync/internal/dto"
	"worksync/internal/service"
	"worksync/pkg/constants"
	"worksync/pkg/responses"
)

type AuthHandler struct {
	authService service.AuthService
	cookie      CookieOptions
}

func NewAuthHandler(authService service.AuthService, cookie CookieOptions) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cookie:      cookie,
	}
}

// sendToken 写 cookie 并在响应体中返回 token
func (h *AuthHandler) sendToken(c *gin.Context, statusCode int, result *dto.AuthResult) {
	h.cookie.set(c, result.Token, h.cookie.MaxAge)
	responses.WithToken(c, statusCode, result.Token, dto.UserData{User: result.User})
}

// SignUp 注册
// @Summary 用户注册
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.SignUpRequest true "注册请求"
// @Success 201 {object} responses.Response{data=dto.UserData}
// @Router /api/users/signup [post]
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req dto.SignUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := h.authService.SignUp(c.Request.Context(), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	h.sendToken(c, http.StatusCreated, result)
}

// Login 登录
// @Summary 用户登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录请求"
// @Success 200 {object} responses.Response{data=dto.UserData}
// @Router /api/users/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, result)
}

// Logout 登出
// @Summary 登出，覆盖会话 cookie
// @Tags 认证
// @Produce json
// @Success 200 {object} responses.Response
// @Router /api/users/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	h.cookie.set(c, constants.CookieLoggedOut, loggedOutMaxAge)
	responses.Success(c, nil)
}

// ForgotPassword 忘记密码
// @Summary 发送重置密码邮件
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.ForgotPasswordRequest true "邮箱"
// @Success 200 {object} responses.Response
// @Router /api/users/forgot-password [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req dto.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), &req); err != nil {
		responses.Error(c, err)
		return
	}

	responses.SuccessWithMessage(c, "Token sent to email!")
}

// ResetPassword 重置密码
// @Summary 使用邮件中的 token 重置密码
// @Tags 认证
// @Accept json
// @Produce json
// @Param token path string true "重置令牌"
// @Param request body dto.ResetPasswordRequest true "新密码"
// @Success 200 {object} responses.Response{data=dto.UserData}
// @Router /api/users/reset-password/{token} [patch]
func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req dto.ResetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := h.authService.ResetPassword(c.Request.Context(), c.Param("token"), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, result)
}

// UpdatePassword 修改密码
// @Summary 登录状态下修改密码
// @Tags 认证
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body dto.UpdatePasswordRequest true "修改密码请求"
// @Success 200 {object} responses.Response{data=dto.UserData}
// @Router /api/users/update-password [patch]
func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	var req dto.UpdatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidInput(c, err)
		return
	}

	result, err := h.authService.UpdatePassword(c.Request.Context(), middleware.CurrentUser(c), &req)
	if err != nil {
		responses.Error(c, err)
		return
	}

	h.sendToken(c, http.StatusOK, result)
}
