package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitOrderAmount(t *testing.T) {
	// 订单 500 卢比（50000 paise），配送费 30 卢比，佣金 5%（500bps）
	split := SplitOrderAmount(50000, 3000, 500)
	assert.Equal(t, int64(3000), split.DeliveryFee)
	assert.Equal(t, int64(2500), split.Commission)
	assert.Equal(t, int64(44500), split.SellerShare)
	assert.Equal(t, int64(50000), split.DeliveryFee+split.Commission+split.SellerShare)
}

func TestSplitOrderAmountCommissionFloor(t *testing.T) {
	// 99 paise * 500bps = 4.95 -> 向下取整 4
	split := SplitOrderAmount(99, 0, 500)
	assert.Equal(t, int64(4), split.Commission)
	assert.Equal(t, int64(95), split.SellerShare)
}

func TestSplitOrderAmountSmallOrder(t *testing.T) {
	// 订单金额不够覆盖配送费时，配送费截断到订单金额，佣金和卖家份额归 0
	split := SplitOrderAmount(2000, 3000, 500)
	assert.Equal(t, int64(2000), split.DeliveryFee)
	assert.Equal(t, int64(0), split.Commission)
	assert.Equal(t, int64(0), split.SellerShare)
	assert.Equal(t, int64(2000), split.DeliveryFee+split.Commission+split.SellerShare)
}

func TestSplitOrderAmountNeverExceedsTotal(t *testing.T) {
	// 任何配置下三方合计都不能超过订单实收
	cases := []struct {
		name    string
		total   int64
		feeBase int64
		rateBps int64
	}{
		{"配送费略低于订单额", 3100, 3000, 500},
		{"配送费等于订单额", 3000, 3000, 500},
		{"零元订单", 0, 3000, 500},
		{"高佣金率", 10000, 3000, 9000},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			split := SplitOrderAmount(tc.total, tc.feeBase, tc.rateBps)
			assert.Equal(t, tc.total, split.DeliveryFee+split.Commission+split.SellerShare)
			assert.GreaterOrEqual(t, split.DeliveryFee, int64(0))
			assert.GreaterOrEqual(t, split.Commission, int64(0))
			assert.GreaterOrEqual(t, split.SellerShare, int64(0))
		})
	}
}

func TestSplitOrderAmountZeroRate(t *testing.T) {
	split := SplitOrderAmount(10000, 2000, 0)
	assert.Equal(t, int64(0), split.Commission)
	assert.Equal(t, int64(8000), split.SellerShare)
}

func TestPayoutTransitions(t *testing.T) {
	assert.True(t, CanPayoutTransitionTo(PayoutStatusRequested, PayoutStatusProcessing))
	assert.True(t, CanPayoutTransitionTo(PayoutStatusRequested, PayoutStatusRejected))
	assert.True(t, CanPayoutTransitionTo(PayoutStatusProcessing, PayoutStatusPaid))
	assert.True(t, CanPayoutTransitionTo(PayoutStatusProcessing, PayoutStatusRejected))

	// REQUESTED 不能跳过处理直接打款
	assert.False(t, CanPayoutTransitionTo(PayoutStatusRequested, PayoutStatusPaid))
	// 终态不能回退
	assert.False(t, CanPayoutTransitionTo(PayoutStatusPaid, PayoutStatusProcessing))
	assert.False(t, CanPayoutTransitionTo(PayoutStatusRejected, PayoutStatusRequested))
}
