package model

import (
	"time"
)

// ============================================================================
// 收益与提现
// ============================================================================
//
// 订单 DELIVERED 时在同一事务内写入三条收益：
//   DELIVERY_FEE  -> 配送员
//   COMMISSION    -> 平台（holder_id=0）
//   SELLER_SHARE  -> 卖家
//
// 收益表只追加不修改金额，状态机：
//   PENDING（冻结期内） -> AVAILABLE（可提现） -> PAID_OUT（已随提现结清）

const (
	EarningTypeDeliveryFee = "DELIVERY_FEE"
	EarningTypeCommission  = "COMMISSION"
	EarningTypeSellerShare = "SELLER_SHARE"
)

const (
	EarningStatusPending   = "PENDING"
	EarningStatusAvailable = "AVAILABLE"
	EarningStatusPaidOut   = "PAID_OUT"
)

// PlatformHolderID 平台佣金的归属方，不对应任何真实用户
const PlatformHolderID int64 = 0

// Earning 收益流水
type Earning struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	EarningNo   string    `gorm:"type:varchar(64);uniqueIndex;not null" json:"earning_no"`
	HolderID    int64     `gorm:"index;not null" json:"holder_id"` // 收益归属用户
	OrderNo     string    `gorm:"type:varchar(64);index;not null" json:"order_no"`
	Type        string    `gorm:"type:varchar(20);not null" json:"type"`
	AmountPaise int64     `gorm:"not null" json:"amount_paise"`
	Status      string    `gorm:"type:varchar(16);index;not null;default:PENDING" json:"status"`
	PayoutNo    string    `gorm:"type:varchar(64);index" json:"payout_no,omitempty"` // 结清时回填
	AvailableAt time.Time `gorm:"not null;index" json:"available_at"`                // 冻结期截止时间
	CreatedAt   time.Time `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Earning) TableName() string {
	return "earning"
}

// EarningSplit 一笔订单的三方分账结果
type EarningSplit struct {
	DeliveryFee int64
	Commission  int64
	SellerShare int64
}

// SplitOrderAmount 按配置计算分账
// 佣金 = total * rateBps / 10000（向下取整），配送费固定，剩余归卖家
// 小额订单按 配送费 -> 佣金 -> 卖家 的顺序截断，三方合计恒等于订单金额，
// 不会出现负数份额，也不会分出比实收更多的钱
func SplitOrderAmount(totalPaise, deliveryFeeBase, commissionRateBps int64) EarningSplit {
	deliveryFee := deliveryFeeBase
	if deliveryFee > totalPaise {
		deliveryFee = totalPaise
	}
	commission := totalPaise * commissionRateBps / 10000
	if commission > totalPaise-deliveryFee {
		commission = totalPaise - deliveryFee
	}
	return EarningSplit{
		DeliveryFee: deliveryFee,
		Commission:  commission,
		SellerShare: totalPaise - deliveryFee - commission,
	}
}

// ============================================================================
// 提现单
// ============================================================================

const (
	PayoutStatusRequested  = "REQUESTED"
	PayoutStatusProcessing = "PROCESSING"
	PayoutStatusPaid       = "PAID"
	PayoutStatusRejected   = "REJECTED"
)

// ValidPayoutTransitions 提现单状态机，REQUESTED 之后全部由管理员驱动
var ValidPayoutTransitions = map[string][]string{
	PayoutStatusRequested:  {PayoutStatusProcessing, PayoutStatusRejected},
	PayoutStatusProcessing: {PayoutStatusPaid, PayoutStatusRejected},
}

func CanPayoutTransitionTo(currentStatus, targetStatus string) bool {
	allowed, exists := ValidPayoutTransitions[currentStatus]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == targetStatus {
			return true
		}
	}
	return false
}

// Payout 提现单
type Payout struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	PayoutNo    string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"payout_no"`
	HolderID    int64      `gorm:"index;not null" json:"holder_id"`
	AmountPaise int64      `gorm:"not null" json:"amount_paise"`
	Status      string     `gorm:"type:varchar(16);index;not null" json:"status"`
	Remark      string     `gorm:"type:varchar(256)" json:"remark,omitempty"`
	PaidAt      *time.Time `json:"paid_at,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Payout) TableName() string {
	return "payout"
}
