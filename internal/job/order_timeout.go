package job

import (
	"context"
	"encoding/json"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/pkg/logger"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// orderEventMessage 订单状态事件，与状态流转同事务写入 outbox
func orderEventMessage(topic string, order *model.Order, status string) *model.OutboxMessage {
	payload := map[string]interface{}{
		"event":       model.EventOrderStatusChanged,
		"order_no":    order.OrderNo,
		"customer_id": order.CustomerID,
		"seller_id":   order.SellerID,
		"status":      status,
		"total_paise": order.TotalPaise,
		"occurred_at": time.Now().Format(time.RFC3339),
	}
	payloadBytes, _ := json.Marshal(payload)

	return &model.OutboxMessage{
		MessageKey: order.OrderNo,
		Topic:      topic,
		Payload:    string(payloadBytes),
		Status:     model.OutboxStatusPending,
	}
}

// OrderTimeoutJob 关闭超时未确认的订单
// PENDING 订单过了 expired_at 仍未被卖家确认，流转为 EXPIRED
type OrderTimeoutJob struct {
	db         *gorm.DB
	orderRepo  *repository.OrderRepository
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	log        zerolog.Logger
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewOrderTimeoutJob(db *gorm.DB, cfg *config.Config) *OrderTimeoutJob {
	return &OrderTimeoutJob{
		db:         db,
		orderRepo:  repository.NewOrderRepository(db),
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		log:        logger.With("order_timeout"),
		stopCh:     make(chan struct{}),
		interval:   10 * time.Second,
		batchSize:  100,
	}
}

func (j *OrderTimeoutJob) Start(ctx context.Context) {
	j.log.Info().Msg("订单超时任务启动")

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			j.log.Info().Msg("收到停止信号，任务退出")
			return
		case <-j.stopCh:
			j.log.Info().Msg("任务停止")
			return
		case <-ticker.C:
			j.closeExpiredOrders(ctx)
		}
	}
}

func (j *OrderTimeoutJob) Stop() {
	close(j.stopCh)
}

func (j *OrderTimeoutJob) closeExpiredOrders(ctx context.Context) {
	orders, err := j.orderRepo.GetExpiredOrders(ctx, j.batchSize)
	if err != nil {
		j.log.Error().Err(err).Msg("查询超时订单失败")
		return
	}

	if len(orders) == 0 {
		return
	}

	closedCount := 0
	for _, order := range orders {
		order := order
		// 条件更新：卖家刚好赶在此刻确认的订单不会被误关
		err := j.db.Transaction(func(tx *gorm.DB) error {
			if err := j.orderRepo.UpdateStatus(ctx, tx, order.OrderNo, model.OrderStatusPending, model.OrderStatusExpired); err != nil {
				return err
			}
			return j.outboxRepo.Create(ctx, tx,
				orderEventMessage(j.cfg.Kafka.Topic.OrderEvents, order, model.OrderStatusExpired))
		})
		if err != nil {
			j.log.Warn().Err(err).Str("order_no", order.OrderNo).Msg("关闭订单失败")
			continue
		}
		closedCount++
		j.log.Info().
			Str("order_no", order.OrderNo).
			Int64("customer_id", order.CustomerID).
			Msg("订单已超时关闭")
	}

	j.log.Info().Int("count", closedCount).Msg("超时订单处理完成")
}
