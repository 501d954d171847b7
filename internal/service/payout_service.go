package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/infrastructure/lock"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/pkg/idgen"
	"marketplace/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPayoutInFlight = errors.New("已有在途提现单，请等待处理完成")
	ErrNotPayoutOwner = errors.New("无权查看他人提现单")
)

// PayoutService 提现
//
// 发起提现时把该用户全部 AVAILABLE 收益一次性划入提现单（标记
// PAID_OUT 并回填提现单号），与提现单创建同事务 —— 余额不可能被
// 两笔提现重复占用。管理员驳回时同事务回滚这批收益为 AVAILABLE
type PayoutService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	earningRepo *repository.EarningRepository
	outboxRepo  *repository.OutboxRepository
}

func NewPayoutService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *PayoutService {
	return &PayoutService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		earningRepo: repository.NewEarningRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
	}
}

// Request 发起提现
func (s *PayoutService) Request(ctx context.Context, holderID int64) (*model.Payout, error) {
	payoutLock := lock.NewPayoutLock(s.redisClient, holderID, uuid.NewString())
	if err := payoutLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer payoutLock.Unlock(ctx)

	active, err := s.earningRepo.HasActivePayout(ctx, holderID)
	if err != nil {
		return nil, err
	}
	if active {
		return nil, ErrPayoutInFlight
	}

	payoutNo := idgen.GeneratePayoutNo()
	payout := &model.Payout{
		PayoutNo: payoutNo,
		HolderID: holderID,
		Status:   model.PayoutStatusRequested,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		amount, err := s.earningRepo.MarkPaidOut(ctx, tx, holderID, payoutNo)
		if err != nil {
			return err
		}
		payout.AmountPaise = amount
		return s.earningRepo.CreatePayout(ctx, tx, payout)
	})
	if err != nil {
		return nil, err
	}

	log := logger.With("payout")
	log.Info().
		Str("payout_no", payoutNo).
		Int64("holder_id", holderID).
		Int64("amount_paise", payout.AmountPaise).
		Msg("提现单已创建")
	return payout, nil
}

func (s *PayoutService) Get(ctx context.Context, holderID int64, payoutNo string) (*model.Payout, error) {
	payout, err := s.earningRepo.GetPayoutByNo(ctx, payoutNo)
	if err != nil {
		return nil, err
	}
	if payout.HolderID != holderID {
		return nil, ErrNotPayoutOwner
	}
	return payout, nil
}

func (s *PayoutService) List(ctx context.Context, holderID int64, status string, page, pageSize int) ([]*model.Payout, int64, error) {
	return s.earningRepo.ListPayouts(ctx, holderID, status, page, pageSize)
}

// ============================================================
// 管理员操作
// ============================================================

// ListAll 管理员查看全部提现单
func (s *PayoutService) ListAll(ctx context.Context, status string, page, pageSize int) ([]*model.Payout, int64, error) {
	return s.earningRepo.ListPayouts(ctx, 0, status, page, pageSize)
}

// StartProcessing REQUESTED -> PROCESSING
func (s *PayoutService) StartProcessing(ctx context.Context, payoutNo string) error {
	return s.earningRepo.UpdatePayoutStatus(ctx, nil, payoutNo, model.PayoutStatusRequested, model.PayoutStatusProcessing, "")
}

// MarkPaid PROCESSING -> PAID，发出 payout.paid 事件
func (s *PayoutService) MarkPaid(ctx context.Context, payoutNo string) error {
	payout, err := s.earningRepo.GetPayoutByNo(ctx, payoutNo)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.earningRepo.UpdatePayoutStatus(ctx, tx, payoutNo, model.PayoutStatusProcessing, model.PayoutStatusPaid, ""); err != nil {
			return err
		}

		payload := map[string]interface{}{
			"event":        model.EventPayoutPaid,
			"payout_no":    payoutNo,
			"holder_id":    payout.HolderID,
			"amount_paise": payout.AmountPaise,
			"occurred_at":  time.Now().Format(time.RFC3339),
		}
		payloadBytes, _ := json.Marshal(payload)

		return s.outboxRepo.Create(ctx, tx, &model.OutboxMessage{
			MessageKey: payoutNo,
			Topic:      s.cfg.Kafka.Topic.PayoutEvents,
			Payload:    string(payloadBytes),
			Status:     model.OutboxStatusPending,
		})
	})
}

// Reject 驳回提现，收益回滚为可提现
// REQUESTED/PROCESSING 均可驳回
func (s *PayoutService) Reject(ctx context.Context, payoutNo, reason string) error {
	payout, err := s.earningRepo.GetPayoutByNo(ctx, payoutNo)
	if err != nil {
		return err
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.earningRepo.UpdatePayoutStatus(ctx, tx, payoutNo, payout.Status, model.PayoutStatusRejected, reason); err != nil {
			return err
		}

		// 把这批收益放回可提现池
		result := tx.WithContext(ctx).
			Model(&model.Earning{}).
			Where("payout_no = ? AND status = ?", payoutNo, model.EarningStatusPaidOut).
			Updates(map[string]interface{}{
				"status":    model.EarningStatusAvailable,
				"payout_no": "",
			})
		return result.Error
	})
}
