package handler

import (
	"marketplace/internal/service"
	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// CreateOrderRequest 下单请求
type CreateOrderRequest struct {
	RequestID   string                    `json:"request_id" binding:"required"` // 幂等ID，客户端生成
	WarehouseID int64                     `json:"warehouse_id" binding:"required"`
	Items       []service.CreateOrderItem `json:"items" binding:"required,dive"`
}

// CreateOrder 顾客下单
// POST /api/v1/orders
//
// 【关键点】相同 request_id 重复提交幂等返回同一笔订单，
// 网络重试不会产生重复订单
func (h *Handler) CreateOrder(c *gin.Context) {
	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	order, err := h.orderService.CreateOrder(c.Request.Context(), &service.CreateOrderRequest{
		RequestID:   req.RequestID,
		CustomerID:  currentUserID(c),
		WarehouseID: req.WarehouseID,
		Items:       req.Items,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, order)
}

// GetOrder 订单详情，只有订单相关方可见
// GET /api/v1/orders/:order_no
func (h *Handler) GetOrder(c *gin.Context) {
	orderNo := c.Param("order_no")

	order, err := h.orderService.GetOrder(c.Request.Context(), orderNo)
	if err != nil {
		handleError(c, err)
		return
	}

	userID := currentUserID(c)
	isPicker := order.PickerID != nil && *order.PickerID == userID
	if order.CustomerID != userID && order.SellerID != userID && !isPicker {
		response.Forbidden(c, "无权查看该订单")
		return
	}

	response.Success(c, order)
}

// ListMyOrders 顾客订单列表
// GET /api/v1/orders?page=1&page_size=10
func (h *Handler) ListMyOrders(c *gin.Context) {
	page, pageSize := pagination(c)

	orders, total, err := h.orderService.ListCustomerOrders(c.Request.Context(), currentUserID(c), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(orders, total, page, pageSize))
}

// CancelOrder 取消订单（顾客或卖家）
// POST /api/v1/orders/:order_no/cancel
func (h *Handler) CancelOrder(c *gin.Context) {
	orderNo := c.Param("order_no")

	if err := h.orderService.CancelOrder(c.Request.Context(), currentUserID(c), orderNo); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "订单已取消"})
}

// ListSellerOrders 卖家订单列表
// GET /api/v1/seller/orders?status=PENDING&page=1&page_size=10
func (h *Handler) ListSellerOrders(c *gin.Context) {
	page, pageSize := pagination(c)

	orders, total, err := h.orderService.ListSellerOrders(
		c.Request.Context(), currentUserID(c), c.Query("status"), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(orders, total, page, pageSize))
}

// ConfirmOrder 卖家确认订单，确认时扣减库存
// POST /api/v1/seller/orders/:order_no/confirm
func (h *Handler) ConfirmOrder(c *gin.Context) {
	orderNo := c.Param("order_no")

	order, err := h.orderService.ConfirmOrder(c.Request.Context(), currentUserID(c), orderNo)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, order)
}
