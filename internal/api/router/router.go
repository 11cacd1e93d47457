package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"worksync/internal/api/handler"
	"worksync/internal/api/middleware"
	"worksync/internal/pkg/config"
	"worksync/internal/service"
	"worksync/pkg/responses"
	"worksync/pkg/utils"
)

// Handlers 路由依赖的全部 handler
type Handlers struct {
	Auth         *handler.AuthHandler
	User         *handler.UserHandler
	Team         *handler.TeamHandler
	TeamMember   *handler.TeamMemberHandler
	Project      *handler.ProjectHandler
	Task         *handler.TaskHandler
	Message      *handler.MessageHandler
	Notification *handler.NotificationHandler
	Chat         *handler.ChatHandler
}

// Setup 设置路由
func Setup(cfg *config.Config, h *Handlers, authService service.AuthService, logger *zap.Logger) (*gin.Engine, error) {
	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := utils.RegisterValidators(v); err != nil {
			return nil, err
		}
	}

	r := gin.New()

	// 全局中间件
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.LoggerMiddleware(logger))
	r.Use(middleware.CORSMiddleware(cfg.App.FrontendURL))

	// 健康检查
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Swagger API 文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.NoRoute(func(c *gin.Context) {
		responses.Error(c, responses.NotFoundf("Can't find %s on this server!", c.Request.URL.RequestURI()))
	})

	protect := middleware.Protect(authService)
	api := r.Group("/api")
	{
		// 用户与认证
		users := api.Group("/users")
		{
			// 无需token
			users.POST("/signup", h.Auth.SignUp)
			users.POST("/login", h.Auth.Login)
			users.GET("/logout", h.Auth.Logout)
			users.POST("/forgot-password", h.Auth.ForgotPassword)
			users.PATCH("/reset-password/:token", h.Auth.ResetPassword)

			authed := users.Group("", protect)
			authed.GET("/me", h.User.Me)
			authed.PATCH("/update-me", h.User.UpdateMe)
			authed.PATCH("/update-password", h.Auth.UpdatePassword)
			authed.GET("", h.User.List)
			authed.GET("/:id", h.User.GetByID)
		}

		// 团队、成员与团队聊天记录
		teams := api.Group("/teams", protect)
		{
			teams.POST("", h.Team.Create)
			teams.GET("", h.Team.List)
			teams.GET("/stats", h.Team.Stats)
			teams.GET("/unread-counts", h.Team.UnreadCounts)
			teams.GET("/:id", h.Team.GetByID)
			teams.PATCH("/:id", h.Team.Update)
			teams.DELETE("/:id", h.Team.Delete)

			teams.POST("/:id/members", h.TeamMember.AddMember)
			teams.PATCH("/:id/members/:userId", h.TeamMember.UpdateRole)
			teams.DELETE("/:id/members/:userId", h.TeamMember.RemoveMember)

			teams.GET("/:id/messages", h.Message.List)
			teams.POST("/:id/messages", h.Message.Send)
			teams.PATCH("/:id/messages/mark-read", h.Message.MarkRead)
			teams.PATCH("/:id/messages/:messageId", h.Message.Update)
			teams.DELETE("/:id/messages/:messageId", h.Message.Delete)
		}

		// 项目管理
		projects := api.Group("/projects", protect)
		{
			projects.POST("", h.Project.Create)
			projects.GET("", h.Project.List)
			projects.GET("/:id", h.Project.GetByID)
			projects.PATCH("/:id", h.Project.Update)
			projects.DELETE("/:id", h.Project.Delete)
			projects.GET("/:id/tasks", h.Project.Tasks)
		}

		// 任务与统计
		tasks := api.Group("/tasks", protect)
		{
			tasks.GET("/stats", h.Task.Stats)
			tasks.GET("/stats/dashboard", h.Task.Dashboard)
			tasks.GET("/stats/weekly", h.Task.Weekly)
			tasks.POST("", h.Task.Create)
			tasks.GET("", h.Task.List)
			tasks.GET("/:id", h.Task.GetByID)
			tasks.PATCH("/:id", h.Task.Update)
			tasks.DELETE("/:id", h.Task.Delete)
		}

		// 通知
		notifications := api.Group("/notifications", protect)
		{
			notifications.GET("", h.Notification.List)
			notifications.PATCH("/read-all", h.Notification.MarkAllRead)
			notifications.DELETE("/delete-all", h.Notification.DeleteAll)
			notifications.PATCH("/:id/read", h.Notification.MarkRead)
			notifications.DELETE("/:id", h.Notification.Delete)
		}

		// 实时聊天
		api.GET("/ws", middleware.ProtectWS(authService), h.Chat.Serve)
	}

	return r, nil
}
