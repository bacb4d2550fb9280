// notifier 执行一次上映提醒批处理后退出，供外部 cron 每日调用
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/user/cinelog/internal/config"
	"github.com/user/cinelog/internal/repository"
	"github.com/user/cinelog/internal/service"
	"github.com/user/cinelog/internal/utils"
	"go.uber.org/zap"
)

// 单次批处理的最长执行时间
const runTimeout = 30 * time.Minute

func main() {
	os.Exit(run())
}

// run 返回进程退出码：0 成功，1 批处理失败，2 部分用户发送失败
func run() int {
	if err := godotenv.Load(); err != nil {
		log.Println("未找到 .env 文件，使用系统环境变量")
	}

	cfg := config.Load()

	logger, err := utils.InitLogger(cfg.Env)
	if err != nil {
		log.Printf("日志初始化失败: %v", err)
		return 1
	}
	defer func() { _ = logger.Sync() }()

	db, err := repository.InitDB(cfg.DatabaseURL, false)
	if err != nil {
		logger.Error("数据库连接失败", zap.Error(err))
		return 1
	}
	sqlDB, _ := db.DB()
	defer sqlDB.Close()

	repos := repository.NewRepositories(db)
	mailer := service.NewMailer(cfg.SendGridAPIKey, cfg.MailFrom, cfg.MailFromName)
	svc := service.NewNotificationService(repos.Movie, repos.User, mailer, cfg.SiteName)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()

	report, err := svc.Run(ctx, time.Now())
	if err != nil {
		logger.Error("release reminders failed", zap.Error(err))
		return 1
	}

	logger.Info("release reminders finished",
		zap.Int("movies", report.Movies),
		zap.Int("candidates", report.Candidates),
		zap.Int("sent", report.Sent),
		zap.Int("skipped", report.Skipped),
		zap.Int("failed", report.Failed))

	if report.Failed > 0 {
		return 2
	}
	return 0
}
