package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"worksync/internal/pkg/config"
	"worksync/internal/repository"
)

const (
	JobResetTokenSweep   = "reset_token_sweep"
	JobNotificationPrune = "notification_prune"

	jobTimeout = time.Minute
)

// Scheduler 调度器
type Scheduler struct {
	cron             *cron.Cron
	logger           *zap.Logger
	cfg              *config.SchedulerConfig
	userRepo         repository.UserRepository
	notificationRepo repository.NotificationRepository
	cronSchedules    map[string]cron.EntryID // 存储任务ID，便于管理
	now              func() time.Time
}

// NewScheduler 创建调度器
func NewScheduler(cfg *config.SchedulerConfig, userRepo repository.UserRepository, notificationRepo repository.NotificationRepository, logger *zap.Logger) *Scheduler {
	// 创建 cron 实例（带秒级支持）
	c := cron.New(cron.WithSeconds())

	return &Scheduler{
		cron:             c,
		logger:           logger,
		cfg:              cfg,
		userRepo:         userRepo,
		notificationRepo: notificationRepo,
		cronSchedules:    make(map[string]cron.EntryID),
		now:              time.Now,
	}
}

// Start 注册任务并启动调度器
func (s *Scheduler) Start() error {
	log := s.logger.Sugar()
	log.Info("启动定时任务调度器...")

	// cron 表达式格式: 秒 分 时 日 月 周
	jobs := []struct {
		name string
		spec string
		run  func(ctx context.Context) (int64, error)
	}{
		{JobResetTokenSweep, s.cfg.ResetTokenSweepCron, s.SweepResetTokens},
		{JobNotificationPrune, s.cfg.NotificationPruneCron, s.PruneNotifications},
	}

	for _, job := range jobs {
		if job.spec == "" {
			log.Warnf("未配置 %s 的 cron 表达式，跳过", job.name)
			continue
		}
		job := job
		entryID, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
			defer cancel()

			affected, err := job.run(ctx)
			if err != nil {
				log.Errorf("定时任务 %s 执行失败: %v", job.name, err)
				return
			}
			if affected > 0 {
				log.Infof("定时任务 %s 执行完成, affected=%d", job.name, affected)
			}
		})
		if err != nil {
			log.Errorf("注册定时任务 %s: %v 失败: %v", job.name, job.spec, err)
			return err
		}

		s.cronSchedules[job.name] = entryID
		log.Infof("定时任务已注册: %s %s entry_id=%d", job.name, job.spec, entryID)
	}

	// 启动 cron
	s.cron.Start()
	log.Info("定时任务调度器启动成功")
	return nil
}

// Stop 停止调度器
func (s *Scheduler) Stop() {
	s.logger.Info("正在停止定时任务调度器...")

	// 停止 cron（等待正在执行的任务完成）
	ctx := s.cron.Stop()
	<-ctx.Done()

	s.logger.Info("定时任务调度器已停止")
}

// Registered 已注册的任务名
func (s *Scheduler) Registered() []string {
	names := make([]string, 0, len(s.cronSchedules))
	for name := range s.cronSchedules {
		names = append(names, name)
	}
	return names
}

// SweepResetTokens 清除已过期的重置密码令牌
func (s *Scheduler) SweepResetTokens(ctx context.Context) (int64, error) {
	return s.userRepo.ClearExpiredResetTokens(ctx, s.now())
}

// PruneNotifications 删除超过保留天数的已读通知，保留天数为 0 时不清理
func (s *Scheduler) PruneNotifications(ctx context.Context) (int64, error) {
	if s.cfg.NotificationRetentionDays <= 0 {
		return 0, nil
	}
	before := s.now().AddDate(0, 0, -s.cfg.NotificationRetentionDays)
	return s.notificationRepo.PruneRead(ctx, before)
}
