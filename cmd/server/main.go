package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/handler"
	"marketplace/internal/infrastructure/cache"
	"marketplace/internal/infrastructure/database"
	"marketplace/internal/infrastructure/mq"
	"marketplace/internal/infrastructure/search"
	"marketplace/internal/job"
	"marketplace/pkg/idgen"
	"marketplace/pkg/logger"
)

func main() {
	// 加载配置
	cfg := config.LoadConfig("config/config.yaml")

	// 初始化日志
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_PRETTY") == "true")
	log := logger.With("main")

	// 初始化 ID 生成器
	idgen.Init(1)

	// 初始化 MySQL
	db := database.InitMySQL(&cfg.MySQL)

	// 初始化 Redis
	redisClient := cache.InitRedis(&cfg.Redis)

	// 初始化 Kafka
	mq.InitKafka(&cfg.Kafka)
	defer mq.CloseKafka()

	// 初始化商品搜索（未启用时自动降级为数据库查询）
	indexer := search.InitElastic(&cfg.Elastic)

	// 创建上下文（用于优雅关闭）
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 启动后台任务
	outboxSender := job.NewOutboxSender(db, cfg)
	go outboxSender.Start(ctx)

	orderTimeoutJob := job.NewOrderTimeoutJob(db, cfg)
	go orderTimeoutJob.Start(ctx)

	pickingTimeoutJob := job.NewPickingTimeoutJob(db, cfg)
	go pickingTimeoutJob.Start(ctx)

	earningSettleJob := job.NewEarningSettleJob(db, cfg)
	go earningSettleJob.Start(ctx)

	// 设置路由
	router := handler.SetupRouter(db, redisClient, cfg, indexer)

	// 启动 HTTP 服务
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("服务启动")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("服务启动失败")
		}
	}()

	// 等待中断信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("正在关闭服务...")

	// 取消上下文，停止后台任务
	cancel()

	// 关闭 HTTP 服务（等待最多5秒）
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("服务关闭异常")
	}

	log.Info().Msg("服务已关闭")
}
