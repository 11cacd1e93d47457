package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"worksync/pkg/constants"
)

const maskedSecret = "******"

// Config 全局配置
type Config struct {
	Server    ServerConfig    `mapstructure:"server" yaml:"server"`
	App       AppConfig       `mapstructure:"app" yaml:"app"`
	Database  DatabaseConfig  `mapstructure:"database" yaml:"database"`
	Auth      AuthConfig      `mapstructure:"auth" yaml:"auth"`
	Mail      MailConfig      `mapstructure:"mail" yaml:"mail"`
	Log       LogConfig       `mapstructure:"log" yaml:"log"`
	Scheduler SchedulerConfig `mapstructure:"scheduler" yaml:"scheduler"`
	Chat      ChatConfig      `mapstructure:"chat" yaml:"chat"`
}

// ServerConfig 服务配置
type ServerConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	Host string `mapstructure:"host" yaml:"host"`
	Port int    `mapstructure:"port" yaml:"port"`
	Mode string `mapstructure:"mode" yaml:"mode"` // debug, release
	Env  string `mapstructure:"env" yaml:"env"`   // development, production
}

// AppConfig 前端相关配置
type AppConfig struct {
	FrontendURL string `mapstructure:"frontend_url" yaml:"frontend_url"` // CORS 来源与重置密码链接
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver" yaml:"driver"` // mysql, postgres, sqlite
	Host            string `mapstructure:"host" yaml:"host"`
	Port            int    `mapstructure:"port" yaml:"port"`
	Database        string `mapstructure:"database" yaml:"database"` // sqlite 时为文件路径
	Username        string `mapstructure:"username" yaml:"username"`
	Password        string `mapstructure:"password" yaml:"password"`
	SSLMode         string `mapstructure:"ssl_mode" yaml:"ssl_mode"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`
	MaxOpenConns    int    `mapstructure:"max_open_conns" yaml:"max_open_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 秒
	LogLevel        string `mapstructure:"log_level" yaml:"log_level"`                 // SQL日志级别: silent/error/warn/info
	AutoMigrate     bool   `mapstructure:"auto_migrate" yaml:"auto_migrate"`
}

// AuthConfig 认证配置
type AuthConfig struct {
	JWT JWTConfig `mapstructure:"jwt" yaml:"jwt"`
}

// JWTConfig JWT配置
type JWTConfig struct {
	Secret            string `mapstructure:"secret" yaml:"secret"`
	AccessTokenExpire int    `mapstructure:"access_token_expire" yaml:"access_token_expire"` // 秒
	CookieExpire      int    `mapstructure:"cookie_expire" yaml:"cookie_expire"`             // 秒
}

// MailConfig SMTP 配置，host 为空时只记录日志不发送
type MailConfig struct {
	Host      string `mapstructure:"host" yaml:"host"`
	Port      int    `mapstructure:"port" yaml:"port"`
	Username  string `mapstructure:"username" yaml:"username"`
	Password  string `mapstructure:"password" yaml:"password"`
	FromName  string `mapstructure:"from_name" yaml:"from_name"`
	FromEmail string `mapstructure:"from_email" yaml:"from_email"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level    string `mapstructure:"level" yaml:"level"`   // debug, info, warn, error
	Format   string `mapstructure:"format" yaml:"format"` // json, console
	Output   string `mapstructure:"output" yaml:"output"` // stdout, file
	FilePath string `mapstructure:"file_path" yaml:"file_path"`
}

// SchedulerConfig 定时任务配置
type SchedulerConfig struct {
	Enabled                   bool   `mapstructure:"enabled" yaml:"enabled"`
	ResetTokenSweepCron       string `mapstructure:"reset_token_sweep_cron" yaml:"reset_token_sweep_cron"`
	NotificationPruneCron     string `mapstructure:"notification_prune_cron" yaml:"notification_prune_cron"`
	NotificationRetentionDays int    `mapstructure:"notification_retention_days" yaml:"notification_retention_days"` // 0 表示不清理
}

// ChatConfig 实时聊天连接配置
type ChatConfig struct {
	ReadBufferSize  int   `mapstructure:"read_buffer_size" yaml:"read_buffer_size"`
	WriteBufferSize int   `mapstructure:"write_buffer_size" yaml:"write_buffer_size"`
	SendQueueSize   int   `mapstructure:"send_queue_size" yaml:"send_queue_size"`
	PingPeriod      int   `mapstructure:"ping_period" yaml:"ping_period"` // 秒
	MaxMessageSize  int64 `mapstructure:"max_message_size" yaml:"max_message_size"`
}

// Load 加载配置
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// 设置配置文件路径
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// 读取环境变量，例如 AUTH_JWT_SECRET 覆盖 auth.jwt.secret
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("解析配置失败: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "worksync")
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.mode", "debug")
	v.SetDefault("server.env", constants.EnvDevelopment)

	v.SetDefault("app.frontend_url", "http://localhost:5173")

	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.database", "worksync.db")
	v.SetDefault("database.ssl_mode", "disable")
	v.SetDefault("database.max_idle_conns", 10)
	v.SetDefault("database.max_open_conns", 50)
	v.SetDefault("database.conn_max_lifetime", 3600)
	v.SetDefault("database.log_level", "silent")
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("auth.jwt.secret", "")
	v.SetDefault("auth.jwt.access_token_expire", 90*24*3600)
	v.SetDefault("auth.jwt.cookie_expire", 90*24*3600)

	v.SetDefault("mail.host", "")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from_name", "WorkSync")
	v.SetDefault("mail.from_email", "no-reply@worksync.local")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.reset_token_sweep_cron", "0 */10 * * * *")
	v.SetDefault("scheduler.notification_prune_cron", "0 0 3 * * *")
	v.SetDefault("scheduler.notification_retention_days", 30)

	v.SetDefault("chat.read_buffer_size", 1024)
	v.SetDefault("chat.write_buffer_size", 1024)
	v.SetDefault("chat.send_queue_size", 64)
	v.SetDefault("chat.ping_period", 50)
	v.SetDefault("chat.max_message_size", 8192)
}

// Validate 校验必填配置
func (c *Config) Validate() error {
	if c.Auth.JWT.Secret == "" {
		return fmt.Errorf("auth.jwt.secret 未配置")
	}
	if c.Auth.JWT.AccessTokenExpire <= 0 {
		return fmt.Errorf("auth.jwt.access_token_expire 必须大于0")
	}
	switch c.Database.Driver {
	case "mysql", "postgres", "sqlite":
	default:
		return fmt.Errorf("不支持的数据库驱动: %s", c.Database.Driver)
	}
	return nil
}

// IsProduction 是否生产环境
func (c *Config) IsProduction() bool {
	return c.Server.Env == constants.EnvProduction
}

// Redacted 返回隐藏敏感字段后的副本
func (c *Config) Redacted() *Config {
	cp := *c
	cp.Database.Password = mask(cp.Database.Password)
	cp.Auth.JWT.Secret = mask(cp.Auth.JWT.Secret)
	cp.Mail.Password = mask(cp.Mail.Password)
	return &cp
}

// DumpYAML 以 YAML 输出生效配置（敏感字段已隐藏）
func (c *Config) DumpYAML() ([]byte, error) {
	return yaml.Marshal(c.Redacted())
}

func mask(s string) string {
	if s == "" {
		return ""
	}
	return maskedSecret
}

// GetDSN 获取数据库DSN
func (c *DatabaseConfig) GetDSN() string {
	switch c.Driver {
	case "postgres":
		return fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%d sslmode=%s TimeZone=UTC",
			c.Host, c.Username, c.Password, c.Database, c.Port, c.SSLMode)
	case "sqlite":
		return c.Database
	default:
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
			c.Username, c.Password, c.Host, c.Port, c.Database)
	}
}
