package job

import (
	"context"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/pkg/logger"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// PickingTimeoutJob 回收拣货停滞的订单
// 配送员认领后长时间没有动作（掉线、放弃不释放），强制释放认领，
// 订单回到待认领池由其他人接手
type PickingTimeoutJob struct {
	db         *gorm.DB
	orderRepo  *repository.OrderRepository
	outboxRepo *repository.OutboxRepository
	cfg        *config.Config
	log        zerolog.Logger
	stopCh     chan struct{}
	interval   time.Duration
	batchSize  int
}

func NewPickingTimeoutJob(db *gorm.DB, cfg *config.Config) *PickingTimeoutJob {
	return &PickingTimeoutJob{
		db:         db,
		orderRepo:  repository.NewOrderRepository(db),
		outboxRepo: repository.NewOutboxRepository(db),
		cfg:        cfg,
		log:        logger.With("picking_timeout"),
		stopCh:     make(chan struct{}),
		interval:   30 * time.Second,
		batchSize:  50,
	}
}

func (j *PickingTimeoutJob) Start(ctx context.Context) {
	j.log.Info().Msg("拣货超时任务启动")

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
			j.releaseStaleClaims(ctx)
		}
	}
}

func (j *PickingTimeoutJob) Stop() {
	close(j.stopCh)
}

func (j *PickingTimeoutJob) releaseStaleClaims(ctx context.Context) {
	timeout := time.Duration(j.cfg.Business.PickingTimeoutMinutes) * time.Minute
	beforeTime := time.Now().Add(-timeout)

	orders, err := j.orderRepo.GetStalePickingOrders(ctx, beforeTime, j.batchSize)
	if err != nil {
		j.log.Error().Err(err).Msg("查询拣货停滞订单失败")
		return
	}

	for _, order := range orders {
		order := order
		// pickerID=0 为强制释放，条件更新保证刚完成拣货的订单不受影响
		err := j.db.Transaction(func(tx *gorm.DB) error {
			if err := j.orderRepo.ReleaseClaim(ctx, tx, order.OrderNo, 0); err != nil {
				return err
			}
			return j.outboxRepo.Create(ctx, tx,
				orderEventMessage(j.cfg.Kafka.Topic.OrderEvents, order, model.OrderStatusConfirmed))
		})
		if err != nil {
			j.log.Warn().Err(err).Str("order_no", order.OrderNo).Msg("释放认领失败")
			continue
		}

		pickerID := int64(0)
		if order.PickerID != nil {
			pickerID = *order.PickerID
		}
		j.log.Info().
			Str("order_no", order.OrderNo).
			Int64("picker_id", pickerID).
			Msg("拣货超时，认领已强制释放")
	}
}
