package job

import (
	"context"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/infrastructure/mq"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/pkg/logger"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// OutboxSender 轮询 outbox 表，把业务事务落库的消息投递到 Kafka
// 失败的消息累计重试，超过 MaxRetryCount 标记为 FAILED 等待人工处理
type OutboxSender struct {
	db         *gorm.DB
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	log        zerolog.Logger
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOutboxSender(db *gorm.DB, cfg *config.Config) *OutboxSender {
	return &OutboxSender{
		db:         db,
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		log:        logger.With("outbox_sender"),
		stopCh:     make(chan struct{}),
		interval:   100 * time.Millisecond,
		batchSize:  100,
	}
}

func (s *OutboxSender) Start(ctx context.Context) {
	s.log.Info().Msg("消息发送任务启动")

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info().Msg("收到停止信号，任务退出")
			return
		case <-s.stopCh:
			s.log.Info().Msg("任务停止")
			return
		case <-ticker.C:
			s.processPendingMessages(ctx)
		}
	}
}

func (s *OutboxSender) Stop() {
	close(s.stopCh)
}

func (s *OutboxSender) processPendingMessages(ctx context.Context) {
	messages, err := s.outboxRepo.GetPendingMessages(ctx, s.batchSize)
	if err != nil {
		s.log.Error().Err(err).Msg("查询待发送消息失败")
		return
	}

	for _, msg := range messages {
		s.sendMessage(ctx, msg)
	}
}

func (s *OutboxSender) sendMessage(ctx context.Context, msg *model.OutboxMessage) {
	err := mq.SendMessage(msg.Topic, msg.MessageKey, msg.Payload)

	if err == nil {
		if updateErr := s.outboxRepo.UpdateStatus(ctx, msg.ID, model.OutboxStatusSent); updateErr != nil {
			s.log.Error().Err(updateErr).Int64("id", msg.ID).Msg("更新消息状态失败")
			return
		}
		s.log.Debug().
			Int64("id", msg.ID).
			Str("topic", msg.Topic).
			Str("key", msg.MessageKey).
			Msg("消息发送成功")
		return
	}

	s.log.Warn().Err(err).Int64("id", msg.ID).Msg("消息发送失败")

	if err := s.outboxRepo.IncrementRetryCount(ctx, msg.ID); err != nil {
		s.log.Error().Err(err).Int64("id", msg.ID).Msg("增加重试次数失败")
	}

	if msg.RetryCount+1 >= s.cfg.Business.MaxRetryCount {
		if err := s.outboxRepo.MarkAsFailed(ctx, msg.ID); err != nil {
			s.log.Error().Err(err).Int64("id", msg.ID).Msg("标记消息失败状态失败")
		} else {
			s.log.Error().Int64("id", msg.ID).Msg("消息超过最大重试次数，标记为失败")
		}
	}
}
