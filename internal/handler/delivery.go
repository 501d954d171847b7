package handler

import (
	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// ListAvailableOrders 待认领订单池
// GET /api/v1/delivery/orders/available
func (h *Handler) ListAvailableOrders(c *gin.Context) {
	page, pageSize := pagination(c)

	orders, total, err := h.pickupService.ListAvailable(c.Request.Context(), currentUserID(c), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(orders, total, page, pageSize))
}

// ListMyDeliveries 配送员名下订单
// GET /api/v1/delivery/orders/mine
func (h *Handler) ListMyDeliveries(c *gin.Context) {
	page, pageSize := pagination(c)

	orders, total, err := h.pickupService.ListMine(c.Request.Context(), currentUserID(c), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(orders, total, page, pageSize))
}

// ClaimOrder 认领订单拣货
// POST /api/v1/delivery/orders/:order_no/claim
//
// 【关键点】一单只能被一个配送员认领。并发认领时 Redis 锁先把请求
// 串行化，数据库条件 UPDATE 兜底，失败方收到 1005 已被认领
func (h *Handler) ClaimOrder(c *gin.Context) {
	orderNo := c.Param("order_no")

	order, err := h.pickupService.Claim(c.Request.Context(), currentUserID(c), orderNo)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, order)
}

// ReleaseOrder 放弃认领，订单回到待认领池
// POST /api/v1/delivery/orders/:order_no/release
func (h *Handler) ReleaseOrder(c *gin.Context) {
	orderNo := c.Param("order_no")

	if err := h.pickupService.Release(c.Request.Context(), currentUserID(c), orderNo); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "认领已释放"})
}

// GetPickList 拣货单：商品 -> 货位及完整路径
// GET /api/v1/delivery/orders/:order_no/picklist
func (h *Handler) GetPickList(c *gin.Context) {
	orderNo := c.Param("order_no")

	pickList, err := h.pickupService.GetPickList(c.Request.Context(), currentUserID(c), orderNo)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{
		"order_no": orderNo,
		"items":    pickList,
	})
}

// MarkPicked 拣货完成
// POST /api/v1/delivery/orders/:order_no/picked
func (h *Handler) MarkPicked(c *gin.Context) {
	orderNo := c.Param("order_no")

	if err := h.pickupService.MarkPicked(c.Request.Context(), currentUserID(c), orderNo); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "拣货完成"})
}

// StartTransit 开始配送
// POST /api/v1/delivery/orders/:order_no/transit
func (h *Handler) StartTransit(c *gin.Context) {
	orderNo := c.Param("order_no")

	if err := h.pickupService.StartTransit(c.Request.Context(), currentUserID(c), orderNo); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "配送中"})
}

// MarkDelivered 确认送达，送达时完成三方分账
// POST /api/v1/delivery/orders/:order_no/delivered
func (h *Handler) MarkDelivered(c *gin.Context) {
	orderNo := c.Param("order_no")

	if err := h.pickupService.MarkDelivered(c.Request.Context(), currentUserID(c), orderNo); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "订单已送达"})
}
