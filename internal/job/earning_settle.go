package job

import (
	"context"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/repository"
	"marketplace/pkg/logger"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// EarningSettleJob 收益解冻
// 送达后收益先冻结一段时间（对应退货/纠纷窗口），
// 冻结期过后 PENDING -> AVAILABLE，此后才能提现
type EarningSettleJob struct {
	db          *gorm.DB
	earningRepo *repository.EarningRepository
	cfg         *config.Config
	log         zerolog.Logger
	stopCh      chan struct{}
	interval    time.Duration
	batchSize   int
}

func NewEarningSettleJob(db *gorm.DB, cfg *config.Config) *EarningSettleJob {
	return &EarningSettleJob{
		db:          db,
		earningRepo: repository.NewEarningRepository(db),
		cfg:         cfg,
		log:         logger.With("earning_settle"),
		stopCh:      make(chan struct{}),
		interval:    time.Minute,
		batchSize:   200,
	}
}

func (j *EarningSettleJob) Start(ctx context.Context) {
	j.log.Info().Msg("收益解冻任务启动")

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
			j.settleEarnings(ctx)
		}
	}
}

func (j *EarningSettleJob) Stop() {
	close(j.stopCh)
}

func (j *EarningSettleJob) settleEarnings(ctx context.Context) {
	earnings, err := j.earningRepo.GetSettleableEarnings(ctx, j.batchSize)
	if err != nil {
		j.log.Error().Err(err).Msg("查询待解冻收益失败")
		return
	}

	if len(earnings) == 0 {
		return
	}

	settledCount := 0
	for _, earning := range earnings {
		if err := j.earningRepo.MarkAvailable(ctx, earning.ID); err != nil {
			j.log.Warn().Err(err).Str("earning_no", earning.EarningNo).Msg("解冻收益失败")
			continue
		}
		settledCount++
	}

	j.log.Info().Int("count", settledCount).Msg("收益解冻完成")
}
