package app

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"worksync/internal/adapter/notification"
	"worksync/internal/api/handler"
	"worksync/internal/api/router"
	"worksync/internal/chat"
	"worksync/internal/pkg/config"
	"worksync/internal/pkg/jwt"
	"worksync/internal/pkg/mailer"
	"worksync/internal/repository"
	"worksync/internal/scheduler"
	"worksync/internal/service"
)

// Repositories 数据访问层
type Repositories struct {
	User         repository.UserRepository
	Team         repository.TeamRepository
	TeamMember   repository.TeamMemberRepository
	Project      repository.ProjectRepository
	Task         repository.TaskRepository
	Message      repository.MessageRepository
	Notification repository.NotificationRepository
}

// Services 业务层
type Services struct {
	Auth          service.AuthService
	User          service.UserService
	Authorization service.AuthorizationService
	Team          service.TeamService
	TeamMember    service.TeamMemberService
	Project       service.ProjectService
	Task          service.TaskService
	Stats         service.StatsService
	Message       service.MessageService
	Notification  service.NotificationService
}

// App 服务运行所需的全部组件，由 main 持有
type App struct {
	Config       *config.Config
	DB           *gorm.DB
	Logger       *zap.Logger
	Tokens       *jwt.Manager
	Repositories *Repositories
	Services     *Services
	Hub          *chat.Hub
	Scheduler    *scheduler.Scheduler
	Engine       *gin.Engine
}

// New 组装依赖，不启动任何后台任务
func New(cfg *config.Config, db *gorm.DB, m mailer.Mailer, logger *zap.Logger) (*App, error) {
	tokens := jwt.NewManager(&cfg.Auth.JWT)

	// 初始化Repository
	repos := &Repositories{
		User:         repository.NewUserRepository(db),
		Team:         repository.NewTeamRepository(db),
		TeamMember:   repository.NewTeamMemberRepository(db),
		Project:      repository.NewProjectRepository(db),
		Task:         repository.NewTaskRepository(db),
		Message:      repository.NewMessageRepository(db),
		Notification: repository.NewNotificationRepository(db),
	}

	// 通知：落库 + 日志
	dispatcher := notification.NewDispatcher(
		notification.NewMultiNotifier(logger,
			notification.NewStoreNotifier(repos.Notification),
			notification.NewLogNotifier(logger),
		),
		logger,
	)

	// 初始化Service
	authz := service.NewAuthorizationService(repos.Team, repos.Project)
	svcs := &Services{
		Auth:          service.NewAuthService(repos.User, tokens, m, cfg.App.FrontendURL, logger),
		User:          service.NewUserService(repos.User),
		Authorization: authz,
		Team:          service.NewTeamService(repos.Team, repos.Message, authz, logger),
		TeamMember:    service.NewTeamMemberService(repos.TeamMember, repos.Team, repos.User, authz, dispatcher, logger),
		Project:       service.NewProjectService(repos.Project, repos.Task, authz, logger),
		Task:          service.NewTaskService(repos.Task, repos.Project, repos.User, authz, dispatcher, logger),
		Stats:         service.NewStatsService(repos.Task),
		Message:       service.NewMessageService(repos.Message, authz, logger),
		Notification:  service.NewNotificationService(repos.Notification),
	}

	hub := chat.NewHub(&cfg.Chat, svcs.Message, logger, cfg.App.FrontendURL)

	// 初始化Handler
	cookie := handler.CookieOptions{
		MaxAge: cfg.Auth.JWT.CookieExpire,
		Secure: cfg.IsProduction(),
	}
	handlers := &router.Handlers{
		Auth:         handler.NewAuthHandler(svcs.Auth, cookie),
		User:         handler.NewUserHandler(svcs.User),
		Team:         handler.NewTeamHandler(svcs.Team, hub),
		TeamMember:   handler.NewTeamMemberHandler(svcs.TeamMember, hub),
		Project:      handler.NewProjectHandler(svcs.Project),
		Task:         handler.NewTaskHandler(svcs.Task, svcs.Stats),
		Message:      handler.NewMessageHandler(svcs.Message, hub),
		Notification: handler.NewNotificationHandler(svcs.Notification),
		Chat:         handler.NewChatHandler(hub, logger),
	}

	engine, err := router.Setup(cfg, handlers, svcs.Auth, logger)
	if err != nil {
		hub.Close()
		return nil, err
	}

	return &App{
		Config:       cfg,
		DB:           db,
		Logger:       logger,
		Tokens:       tokens,
		Repositories: repos,
		Services:     svcs,
		Hub:          hub,
		Scheduler:    scheduler.NewScheduler(&cfg.Scheduler, repos.User, repos.Notification, logger),
		Engine:       engine,
	}, nil
}

// Start 启动后台任务
func (a *App) Start() error {
	if !a.Config.Scheduler.Enabled {
		a.Logger.Info("定时任务已禁用")
		return nil
	}
	return a.Scheduler.Start()
}

// Stop 断开聊天连接并停止后台任务
func (a *App) Stop() {
	a.Hub.Close()
	if a.Config.Scheduler.Enabled {
		a.Scheduler.Stop()
	}
}
