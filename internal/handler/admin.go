package handler

import (
	"strconv"
	"time"

	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// ============================================================
// 入驻审核
// ============================================================

// ListPendingProfiles 待审核资料队列
// GET /api/v1/admin/profiles/pending
func (h *Handler) ListPendingProfiles(c *gin.Context) {
	page, pageSize := pagination(c)

	profiles, total, err := h.onboardingService.ListPendingProfiles(c.Request.Context(), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(profiles, total, page, pageSize))
}

// ApproveProfile 审核通过
// POST /api/v1/admin/profiles/:id/approve
func (h *Handler) ApproveProfile(c *gin.Context) {
	profileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.onboardingService.ApproveProfile(c.Request.Context(), profileID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "已通过审核"})
}

// RejectProfile 驳回资料
// POST /api/v1/admin/profiles/:id/reject
func (h *Handler) RejectProfile(c *gin.Context) {
	profileID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.onboardingService.RejectProfile(c.Request.Context(), profileID, req.Reason); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "已驳回"})
}

// ============================================================
// 提现审批
// ============================================================

// ListAllPayouts 全部提现单
// GET /api/v1/admin/payouts?status=REQUESTED
func (h *Handler) ListAllPayouts(c *gin.Context) {
	page, pageSize := pagination(c)

	payouts, total, err := h.payoutService.ListAll(c.Request.Context(), c.Query("status"), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(payouts, total, page, pageSize))
}

// ProcessPayout 开始处理提现
// POST /api/v1/admin/payouts/:payout_no/process
func (h *Handler) ProcessPayout(c *gin.Context) {
	if err := h.payoutService.StartProcessing(c.Request.Context(), c.Param("payout_no")); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "提现处理中"})
}

// MarkPayoutPaid 打款完成
// POST /api/v1/admin/payouts/:payout_no/paid
func (h *Handler) MarkPayoutPaid(c *gin.Context) {
	if err := h.payoutService.MarkPaid(c.Request.Context(), c.Param("payout_no")); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "提现已打款"})
}

// RejectPayout 驳回提现，收益退回可提现池
// POST /api/v1/admin/payouts/:payout_no/reject
func (h *Handler) RejectPayout(c *gin.Context) {
	var req struct {
		Reason string `json:"reason" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.payoutService.Reject(c.Request.Context(), c.Param("payout_no"), req.Reason); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "提现已驳回"})
}

// ============================================================
// 平台报表
// ============================================================

// GetDashboard 平台总览
// GET /api/v1/admin/analytics/dashboard
func (h *Handler) GetDashboard(c *gin.Context) {
	dashboard, err := h.analyticsService.Dashboard(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, dashboard)
}

// GetDailySeries 按天统计，默认最近 30 天
// GET /api/v1/admin/analytics/daily?from=2026-08-01&to=2026-08-31
func (h *Handler) GetDailySeries(c *gin.Context) {
	to := time.Now()
	from := to.AddDate(0, 0, -30)

	if v := c.Query("from"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.ParamError(c, "from 日期格式错误")
			return
		}
		from = t
	}
	if v := c.Query("to"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			response.ParamError(c, "to 日期格式错误")
			return
		}
		// 含当天
		to = t.AddDate(0, 0, 1)
	}

	points, err := h.analyticsService.DailySeries(c.Request.Context(), from, to)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, points)
}

// GetTopSellers 卖家销售排行
// GET /api/v1/admin/analytics/top-sellers?limit=10
func (h *Handler) GetTopSellers(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))

	sellers, err := h.analyticsService.TopSellers(c.Request.Context(), limit)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, sellers)
}
