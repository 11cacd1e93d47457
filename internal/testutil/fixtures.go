package testutil

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"worksync/internal/model"
	"worksync/pkg/constants"
)

// DefaultPassword 所有 fixture 用户的密码
const DefaultPassword = "password123"

var (
	hashOnce sync.Once
	hashed   string
)

// passwordHash 用最低成本计算一次，避免拖慢测试
func passwordHash(t *testing.T) string {
	hashOnce.Do(func() {
		b, err := bcrypt.GenerateFromPassword([]byte(DefaultPassword), bcrypt.MinCost)
		require.NoError(t, err)
		hashed = string(b)
	})
	return hashed
}

// Fixtures 直接写库构造测试数据
type Fixtures struct {
	db *gorm.DB
	t  *testing.T
}

func NewFixtures(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()
	return &Fixtures{db: db, t: t}
}

// DB 底层连接
func (f *Fixtures) DB() *gorm.DB {
	return f.db
}

// CreateUser 创建用户，密码为 DefaultPassword
func (f *Fixtures) CreateUser(ctx context.Context, name, email string) *model.User {
	f.t.Helper()
	user := &model.User{
		Name:     name,
		Email:    strings.ToLower(email),
		Photo:    constants.DefaultUserPhoto,
		Password: passwordHash(f.t),
	}
	require.NoError(f.t, f.db.WithContext(ctx).Create(user).Error)
	return user
}

// CreateTeam 创建团队，members 以 Member 角色依次加入
func (f *Fixtures) CreateTeam(ctx context.Context, admin *model.User, name string, members ...*model.User) *model.Team {
	f.t.Helper()
	team := &model.Team{Name: name, AdminID: admin.ID}
	require.NoError(f.t, f.db.WithContext(ctx).Omit("Members", "Admin").Create(team).Error)

	joined := time.Now()
	for i, m := range members {
		require.NoError(f.t, f.db.WithContext(ctx).Create(&model.TeamMember{
			TeamID:   team.ID,
			UserID:   m.ID,
			Role:     constants.TeamRoleMember,
			JoinedAt: joined.Add(time.Duration(i) * time.Millisecond),
		}).Error)
	}
	return team
}

// CreateProject 创建项目，admin 自动成为成员
func (f *Fixtures) CreateProject(ctx context.Context, admin *model.User, name string, members ...*model.User) *model.Project {
	f.t.Helper()
	now := time.Now()
	project := &model.Project{
		Name:        name,
		Description: name + " description",
		Status:      constants.ProjectStatusActive,
		Priority:    constants.PriorityMedium,
		StartDate:   now,
		DueDate:     now.AddDate(0, 1, 0),
		AdminID:     admin.ID,
	}
	require.NoError(f.t, f.db.WithContext(ctx).Omit("Members", "Admin").Create(project).Error)

	for _, m := range append([]*model.User{admin}, members...) {
		require.NoError(f.t, f.db.WithContext(ctx).Create(&model.ProjectMember{ProjectID: project.ID, UserID: m.ID}).Error)
	}
	return project
}

// CreateTask 创建任务，project 可为 nil
func (f *Fixtures) CreateTask(ctx context.Context, project *model.Project, title, status string, assignees ...*model.User) *model.Task {
	f.t.Helper()
	task := &model.Task{
		Title:    title,
		Priority: constants.PriorityMedium,
		Status:   status,
	}
	if project != nil {
		task.ProjectID = &project.ID
	}
	require.NoError(f.t, f.db.WithContext(ctx).Omit("Assignees", "Project").Create(task).Error)

	for _, a := range assignees {
		require.NoError(f.t, f.db.WithContext(ctx).Create(&model.TaskAssignee{TaskID: task.ID, UserID: a.ID}).Error)
	}
	return task
}

// CreateMessage 创建消息，发送者自动已读
func (f *Fixtures) CreateMessage(ctx context.Context, team *model.Team, sender *model.User, content string) *model.Message {
	f.t.Helper()
	message := &model.Message{Content: content, SenderID: sender.ID, TeamID: team.ID}
	require.NoError(f.t, f.db.WithContext(ctx).Omit("Sender", "ReadBy").Create(message).Error)
	require.NoError(f.t, f.db.WithContext(ctx).Create(&model.MessageRead{MessageID: message.ID, UserID: sender.ID}).Error)
	return message
}

// CreateNotification 创建通知
func (f *Fixtures) CreateNotification(ctx context.Context, recipient, triggeredBy *model.User, message string) *model.Notification {
	f.t.Helper()
	n := &model.Notification{
		RecipientID:   recipient.ID,
		TriggeredByID: triggeredBy.ID,
		Type:          constants.NotifyTaskAssigned,
		Message:       message,
	}
	require.NoError(f.t, f.db.WithContext(ctx).Omit("RelatedTask", "RelatedTeam", "TriggeredBy").Create(n).Error)
	return n
}
