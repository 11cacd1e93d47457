package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"worksync/internal/pkg/config"
	"worksync/internal/pkg/database"
)

// TestSecret 测试用 JWT 密钥
const TestSecret = "test-secret-for-testing-only"

// SetupTestDB 每个测试一个独立的内存 SQLite 库
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), database.GormConfig(gormlogger.Default.LogMode(gormlogger.Silent)))
	require.NoError(t, err)

	// 内存库只存在于单个连接中
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.SetupJoinTables(db))
	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// TestContext 带超时的 context
func TestContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Second)
}

// TestConfig 测试配置，定时任务关闭
func TestConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{Name: "worksync-test", Mode: "test", Env: "test"},
		App:    config.AppConfig{FrontendURL: "http://localhost:5173"},
		Database: config.DatabaseConfig{
			Driver:   "sqlite",
			Database: ":memory:",
		},
		Auth: config.AuthConfig{JWT: config.JWTConfig{
			Secret:            TestSecret,
			AccessTokenExpire: 3600,
			CookieExpire:      3600,
		}},
		Scheduler: config.SchedulerConfig{
			Enabled:                   false,
			NotificationRetentionDays: 30,
		},
		Chat: config.ChatConfig{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			SendQueueSize:   16,
			PingPeriod:      50,
			MaxMessageSize:  8192,
		},
	}
}
