package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"worksync/pkg/constants"
	"worksync/pkg/responses"
	"worksync/pkg/utils"
)

// loggedOutMaxAge 登出时覆盖 cookie 的有效期（秒）
const loggedOutMaxAge = 10

// CookieOptions 会话 cookie 配置
type CookieOptions struct {
	MaxAge int  // 秒
	Secure bool // 生产环境仅 https
}

func (o CookieOptions) set(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(constants.CookieJWT, value, maxAge, "/", "", o.Secure, true)
}

// invalidInput 参数绑定失败统一返回 400
func invalidInput(c *gin.Context, err error) {
	responses.ErrorWithDetail(c, http.StatusBadRequest, responses.ErrBadRequest.Message, utils.FormatValidationError(err))
}

// pathID 解析路径中的 ID，失败时已写回 400
func pathID(c *gin.Context, name string) (int64, bool) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		responses.Error(c, responses.BadRequest(fmt.Sprintf("Invalid %s: %s", name, raw)))
		return 0, false
	}
	return id, true
}
