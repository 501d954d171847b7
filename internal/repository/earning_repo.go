package repository

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/model"

	"gorm.io/gorm"
)

var (
	ErrPayoutNotFound      = errors.New("提现单不存在")
	ErrPayoutStatusInvalid = errors.New("提现单状态不合法")
	ErrNoAvailableEarnings = errors.New("没有可提现收益")
)

type EarningRepository struct {
	db *gorm.DB
}

func NewEarningRepository(db *gorm.DB) *EarningRepository {
	return &EarningRepository{db: db}
}

func (r *EarningRepository) Create(ctx context.Context, tx *gorm.DB, earning *model.Earning) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(earning).Error
}

func (r *EarningRepository) ListByHolder(ctx context.Context, holderID int64, status string, page, pageSize int) ([]*model.Earning, int64, error) {
	var earnings []*model.Earning
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Earning{}).Where("holder_id = ?", holderID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&earnings).Error

	return earnings, total, err
}

// SumByHolder 按状态汇总余额
func (r *EarningRepository) SumByHolder(ctx context.Context, holderID int64, status string) (int64, error) {
	var sum int64
	err := r.db.WithContext(ctx).
		Model(&model.Earning{}).
		Where("holder_id = ? AND status = ?", holderID, status).
		Select("COALESCE(SUM(amount_paise), 0)").
		Scan(&sum).Error
	return sum, err
}

// GetSettleableEarnings 冻结期已过的 PENDING 收益
func (r *EarningRepository) GetSettleableEarnings(ctx context.Context, limit int) ([]*model.Earning, error) {
	var earnings []*model.Earning
	err := r.db.WithContext(ctx).
		Where("status = ? AND available_at < ?", model.EarningStatusPending, time.Now()).
		Limit(limit).
		Find(&earnings).Error
	return earnings, err
}

// MarkAvailable 条件解冻单笔收益
func (r *EarningRepository) MarkAvailable(ctx context.Context, earningID int64) error {
	result := r.db.WithContext(ctx).
		Model(&model.Earning{}).
		Where("id = ? AND status = ?", earningID, model.EarningStatusPending).
		Update("status", model.EarningStatusAvailable)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// MarkPaidOut 把某用户全部 AVAILABLE 收益标记为已结清并回填提现单号
// 返回实际结清的金额；必须在提现事务内调用
//
// 先 UPDATE 盖上提现单号，再按单号 SUM：解冻任务并发把 PENDING 翻成
// AVAILABLE 时，金额只会统计到实际被本次标记的行
func (r *EarningRepository) MarkPaidOut(ctx context.Context, tx *gorm.DB, holderID int64, payoutNo string) (int64, error) {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.Earning{}).
		Where("holder_id = ? AND status = ?", holderID, model.EarningStatusAvailable).
		Updates(map[string]interface{}{
			"status":    model.EarningStatusPaidOut,
			"payout_no": payoutNo,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	if result.RowsAffected == 0 {
		return 0, ErrNoAvailableEarnings
	}

	var sum int64
	err := tx.WithContext(ctx).
		Model(&model.Earning{}).
		Where("payout_no = ?", payoutNo).
		Select("COALESCE(SUM(amount_paise), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, err
	}
	return sum, nil
}

// ============================================================
// 提现单
// ============================================================

func (r *EarningRepository) CreatePayout(ctx context.Context, tx *gorm.DB, payout *model.Payout) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(payout).Error
}

func (r *EarningRepository) GetPayoutByNo(ctx context.Context, payoutNo string) (*model.Payout, error) {
	var payout model.Payout
	err := r.db.WithContext(ctx).Where("payout_no = ?", payoutNo).First(&payout).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPayoutNotFound
		}
		return nil, err
	}
	return &payout, nil
}

// UpdatePayoutStatus 条件流转提现单状态
func (r *EarningRepository) UpdatePayoutStatus(ctx context.Context, tx *gorm.DB, payoutNo, fromStatus, toStatus, remark string) error {
	if !model.CanPayoutTransitionTo(fromStatus, toStatus) {
		return ErrPayoutStatusInvalid
	}

	if tx == nil {
		tx = r.db
	}

	updates := map[string]interface{}{
		"status": toStatus,
	}
	if remark != "" {
		updates["remark"] = remark
	}
	if toStatus == model.PayoutStatusPaid {
		now := time.Now()
		updates["paid_at"] = &now
	}

	result := tx.WithContext(ctx).
		Model(&model.Payout{}).
		Where("payout_no = ? AND status = ?", payoutNo, fromStatus).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrPayoutStatusInvalid
	}
	return nil
}

func (r *EarningRepository) ListPayouts(ctx context.Context, holderID int64, status string, page, pageSize int) ([]*model.Payout, int64, error) {
	var payouts []*model.Payout
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Payout{})
	if holderID > 0 {
		query = query.Where("holder_id = ?", holderID)
	}
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&payouts).Error

	return payouts, total, err
}

// HasActivePayout 用户是否已有在途提现单（REQUESTED/PROCESSING）
func (r *EarningRepository) HasActivePayout(ctx context.Context, holderID int64) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Payout{}).
		Where("holder_id = ? AND status IN ?", holderID,
			[]string{model.PayoutStatusRequested, model.PayoutStatusProcessing}).
		Count(&count).Error
	return count > 0, err
}
