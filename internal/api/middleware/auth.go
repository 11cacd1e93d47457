package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"worksync/internal/model"
	"worksync/internal/service"
	"worksync/pkg/constants"
	"worksync/pkg/responses"
)

// Protect JWT认证中间件，token 依次取自 Authorization header 与 jwt cookie
func Protect(authService service.AuthService) gin.HandlerFunc {
	return protect(authService, false)
}

// ProtectWS websocket 握手无法自定义 header，额外接受 ?token=
func ProtectWS(authService service.AuthService) gin.HandlerFunc {
	return protect(authService, true)
}

func protect(authService service.AuthService, allowQuery bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c, allowQuery)
		if token == "" {
			responses.Error(c, responses.ErrNotLoggedIn)
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			responses.Error(c, err)
			return
		}

		// 将用户信息存入context
		c.Set(constants.ContextUserKey, user)
		c.Next()
	}
}

func extractToken(c *gin.Context, allowQuery bool) string {
	if authHeader := c.GetHeader(constants.HeaderAuthorization); strings.HasPrefix(authHeader, constants.HeaderBearerPrefix) {
		if token := strings.TrimSpace(strings.TrimPrefix(authHeader, constants.HeaderBearerPrefix)); token != "" {
			return token
		}
	}

	if cookie, err := c.Cookie(constants.CookieJWT); err == nil && cookie != "" && cookie != constants.CookieLoggedOut {
		return cookie
	}

	if allowQuery {
		return c.Query(constants.QueryToken)
	}
	return ""
}

// CurrentUser 取 Protect 写入的当前用户，未经过 Protect 时返回 nil
func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(constants.ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}
