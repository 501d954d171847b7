package handler

import (
	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// ListEarnings 收益流水（卖家/配送员）
// GET /api/v1/earnings?status=AVAILABLE&page=1&page_size=10
func (h *Handler) ListEarnings(c *gin.Context) {
	page, pageSize := pagination(c)

	earnings, total, err := h.earningService.List(
		c.Request.Context(), currentUserID(c), c.Query("status"), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(earnings, total, page, pageSize))
}

// GetEarningSummary 余额概览：冻结中 / 可提现 / 已结清
// GET /api/v1/earnings/summary
func (h *Handler) GetEarningSummary(c *gin.Context) {
	summary, err := h.earningService.Summary(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, summary)
}

// RequestPayout 发起提现，划走全部可提现余额
// POST /api/v1/payouts
func (h *Handler) RequestPayout(c *gin.Context) {
	payout, err := h.payoutService.Request(c.Request.Context(), currentUserID(c))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, payout)
}

// GetPayout 提现单详情
// GET /api/v1/payouts/:payout_no
func (h *Handler) GetPayout(c *gin.Context) {
	payout, err := h.payoutService.Get(c.Request.Context(), currentUserID(c), c.Param("payout_no"))
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, payout)
}

// ListPayouts 提现记录
// GET /api/v1/payouts?status=PAID&page=1&page_size=10
func (h *Handler) ListPayouts(c *gin.Context) {
	page, pageSize := pagination(c)

	payouts, total, err := h.payoutService.List(
		c.Request.Context(), currentUserID(c), c.Query("status"), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(payouts, total, page, pageSize))
}
