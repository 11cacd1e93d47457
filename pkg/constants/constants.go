package constants

// HTTP Header
const (
	HeaderAuthorization = "Authorization"
	HeaderBearerPrefix  = "Bearer "
)

// 会话 Cookie
const (
	CookieJWT       = "jwt"
	CookieLoggedOut = "loggedout"
	QueryToken      = "token"
)

// ContextUserKey 认证通过后当前用户在 gin.Context 中的 key
const ContextUserKey = "current_user"

// 运行环境
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// DefaultUserPhoto 用户默认头像
const DefaultUserPhoto = "default.jpg"

// 团队角色
const (
	TeamRoleManager = "Manager"
	TeamRoleMember  = "Member"
)

// 通知类型
const (
	NotifyTaskStatusChange = "task_status_change"
	NotifyTaskAssigned     = "task_assigned"
	NotifyTeamAdded        = "team_added"
	NotifyNoteAdded        = "note_added"
)

// NotificationListLimit 通知列表最多返回条数
const NotificationListLimit = 50
