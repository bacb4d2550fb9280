package service

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// ReminderScheduler 在进程内按固定间隔执行上映提醒
// 生产环境建议用 cmd/notifier 配合外部 cron，二者不要同时开启
type ReminderScheduler struct {
	svc      *NotificationService
	interval time.Duration
	log      *zap.Logger
}

// NewReminderScheduler 创建定时任务
func NewReminderScheduler(svc *NotificationService, interval time.Duration) *ReminderScheduler {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &ReminderScheduler{
		svc:      svc,
		interval: interval,
		log:      zap.L().With(zap.String("component", "scheduler")),
	}
}

// Start 启动定时任务，ctx 取消后退出
// 启动时不立即执行，避免每次重启都重复发信
func (s *ReminderScheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.runOnce(ctx, now)
			}
		}
	}()

	s.log.Info("release reminder scheduler started", zap.Duration("interval", s.interval))
}

func (s *ReminderScheduler) runOnce(ctx context.Context, now time.Time) {
	if _, err := s.svc.TriggerAt(ctx, now); err != nil {
		s.log.Error("scheduled release reminders failed", zap.Error(err))
	}
}
