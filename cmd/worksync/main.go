package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"worksync/internal/app"
	"worksync/internal/pkg/config"
	"worksync/internal/pkg/database"
	"worksync/internal/pkg/logger"
	"worksync/internal/pkg/mailer"
	"worksync/pkg/responses"

	_ "worksync/docs" // Swagger docs
)

// @title WorkSync API
// @version 1.0
// @description 团队协作与任务管理 API 文档
// @description 提供团队、项目、任务、团队聊天与通知等功能

// @contact.name API Support
// @contact.email support@example.com

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

var (
	configFile = flag.String("config", "", "配置文件路径 (例如: -config=configs/config.yaml)")
	version    = flag.Bool("version", false, "显示版本信息")
	dumpConfig = flag.Bool("dump-config", false, "输出生效配置（隐藏敏感字段）后退出")
)

const (
	appVersion = "1.0.0"
	appName    = "worksync"
)

func main() {
	// 解析命令行参数
	flag.Parse()

	// 显示版本信息
	if *version {
		fmt.Printf("%s version %s\n", appName, appVersion)
		os.Exit(0)
	}

	// 优先级: 命令行参数 > 环境变量 > 默认路径
	configPath := getConfigPath()
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Printf("加载配置失败: %v\n", err)
		fmt.Println("\n使用方式:")
		fmt.Println("  1. 命令行参数指定:")
		fmt.Println("     ./worksync -config=configs/config.yaml")
		fmt.Println("  2. 环境变量指定:")
		fmt.Println("     export CONFIG_FILE=configs/config.yaml")
		fmt.Println("     ./worksync")
		os.Exit(1)
	}

	if *dumpConfig {
		out, err := cfg.DumpYAML()
		if err != nil {
			fmt.Printf("输出配置失败: %v\n", err)
			os.Exit(1)
		}
		fmt.Print(string(out))
		os.Exit(0)
	}

	// 初始化日志
	if err := logger.Init(&cfg.Log); err != nil {
		fmt.Printf("初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Close()
	}()
	logger.Info(fmt.Sprintf("Load config file: %s of %s", configPath, getConfigSource()))
	logger.Info(fmt.Sprintf("服务 %s 启动中...", appName), zap.String("version", appVersion), zap.String("env", cfg.Server.Env))

	// 非生产环境错误响应附带原始错误与调用栈
	responses.ExposeDetails(!cfg.IsProduction())

	// 初始化数据库
	db, err := database.Open(&cfg.Database, logger.GetWriter())
	if err != nil {
		logger.Fatal("初始化数据库失败", zap.Error(err))
	}
	defer func() {
		_ = database.Close(db)
	}()
	logger.Info(fmt.Sprintf("数据库连接成功 %s", cfg.Database.Driver), zap.String("database", cfg.Database.Database))

	if cfg.Database.AutoMigrate {
		if err := database.Migrate(db); err != nil {
			logger.Fatal("数据库迁移失败", zap.Error(err))
		}
	}

	application, err := app.New(cfg, db, mailer.New(&cfg.Mail, logger.Log), logger.Log)
	if err != nil {
		logger.Fatal("初始化服务失败", zap.Error(err))
	}

	// 启动定时任务调度器
	if err := application.Start(); err != nil {
		logger.Warn("定时任务调度器启动失败", zap.Error(err))
	}

	// 创建HTTP服务器
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           application.Engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 启动服务器
	go func() {
		logger.Info(fmt.Sprintf("%s 服务启动成功", cfg.Server.Name),
			zap.String("address", addr),
			zap.String("mode", cfg.Server.Mode),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("服务器启动失败", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("服务正在关闭...")

	// 先断开聊天连接并停止定时任务
	application.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("服务器关闭异常", zap.Error(err))
	}

	logger.Info("服务已关闭")
}

// getConfigPath 获取配置文件路径
// 优先级: 命令行参数 > 环境变量 > 默认路径
func getConfigPath() string {
	// 1. 命令行参数
	if *configFile != "" {
		return *configFile
	}

	// 2. 环境变量
	if envConfig := os.Getenv("CONFIG_FILE"); envConfig != "" {
		return envConfig
	}

	// 3. 默认路径
	return "configs/config.yaml"
}

// getConfigSource 获取配置来源说明
func getConfigSource() string {
	if *configFile != "" {
		return "命令行参数"
	}
	if os.Getenv("CONFIG_FILE") != "" {
		return "环境变量"
	}
	return "默认配置"
}
