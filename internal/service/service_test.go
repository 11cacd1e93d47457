package service_test

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"worksync/internal/adapter/notification"
	"worksync/internal/model"
	"worksync/internal/pkg/jwt"
	"worksync/internal/pkg/mailer"
	"worksync/internal/repository"
	"worksync/internal/service"
	"worksync/internal/testutil"
)

// env 基于内存库组装的完整 service 层
type env struct {
	t   *testing.T
	db  *gorm.DB
	fx  *testutil.Fixtures
	ctx context.Context

	tokens *jwt.Manager
	mailer *mailer.MockMailer

	auth         service.AuthService
	users        service.UserService
	teams        service.TeamService
	members      service.TeamMemberService
	projects     service.ProjectService
	tasks        service.TaskService
	messages     service.MessageService
	notification service.NotificationService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	t.Cleanup(cancel)

	cfg := testutil.TestConfig()
	logger := zap.NewNop()

	userRepo := repository.NewUserRepository(db)
	teamRepo := repository.NewTeamRepository(db)
	projectRepo := repository.NewProjectRepository(db)
	taskRepo := repository.NewTaskRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)

	dispatcher := notification.NewDispatcher(notification.NewStoreNotifier(notificationRepo), logger)
	authz := service.NewAuthorizationService(teamRepo, projectRepo)
	tokens := jwt.NewManager(&cfg.Auth.JWT)
	m := &mailer.MockMailer{}

	return &env{
		t:      t,
		db:     db,
		fx:     testutil.NewFixtures(t, db),
		ctx:    ctx,
		tokens: tokens,
		mailer: m,

		auth:         service.NewAuthService(userRepo, tokens, m, cfg.App.FrontendURL, logger),
		users:        service.NewUserService(userRepo),
		teams:        service.NewTeamService(teamRepo, messageRepo, authz, logger),
		members:      service.NewTeamMemberService(repository.NewTeamMemberRepository(db), teamRepo, userRepo, authz, dispatcher, logger),
		projects:     service.NewProjectService(projectRepo, taskRepo, authz, logger),
		tasks:        service.NewTaskService(taskRepo, projectRepo, userRepo, authz, dispatcher, logger),
		messages:     service.NewMessageService(messageRepo, authz, logger),
		notification: service.NewNotificationService(notificationRepo),
	}
}

// notificationsFor 某用户收到的通知，按创建顺序
func (e *env) notificationsFor(user *model.User) []model.Notification {
	e.t.Helper()
	var list []model.Notification
	if err := e.db.Where("recipient_id = ?", user.ID).Order("id").Find(&list).Error; err != nil {
		e.t.Fatalf("query notifications: %v", err)
	}
	return list
}

func strPtr(s string) *string {
	return &s
}
