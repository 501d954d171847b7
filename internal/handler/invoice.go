package handler

import (
	"marketplace/internal/service"
	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// UpsertInvoiceRequest 发票创建/编辑请求
type UpsertInvoiceRequest struct {
	OrderNo      string                     `json:"order_no" binding:"required"`
	BuyerName    string                     `json:"buyer_name" binding:"required"`
	BuyerAddress string                     `json:"buyer_address"`
	BuyerGST     string                     `json:"buyer_gst"`
	TaxRateBps   int64                      `json:"tax_rate_bps" binding:"gte=0,lte=10000"`
	Items        []service.InvoiceItemInput `json:"items" binding:"required,min=1,dive"`
}

func (r *UpsertInvoiceRequest) toService() *service.UpsertInvoiceRequest {
	return &service.UpsertInvoiceRequest{
		OrderNo:      r.OrderNo,
		BuyerName:    r.BuyerName,
		BuyerAddress: r.BuyerAddress,
		BuyerGST:     r.BuyerGST,
		TaxRateBps:   r.TaxRateBps,
		Items:        r.Items,
	}
}

// CreateInvoice 创建发票草稿
// POST /api/v1/seller/invoices
func (h *Handler) CreateInvoice(c *gin.Context) {
	var req UpsertInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.Create(c.Request.Context(), currentUserID(c), req.toService())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, invoice)
}

// UpdateInvoice 编辑发票草稿，金额服务端重算
// PUT /api/v1/seller/invoices/:id
func (h *Handler) UpdateInvoice(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpsertInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	invoice, err := h.invoiceService.Update(c.Request.Context(), currentUserID(c), invoiceID, req.toService())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, invoice)
}

// IssueInvoice 开具发票，分配正式编号并冻结
// POST /api/v1/seller/invoices/:id/issue
func (h *Handler) IssueInvoice(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Issue(c.Request.Context(), currentUserID(c), invoiceID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, invoice)
}

// CancelInvoice 作废发票
// POST /api/v1/seller/invoices/:id/cancel
func (h *Handler) CancelInvoice(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.invoiceService.Cancel(c.Request.Context(), currentUserID(c), invoiceID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "发票已作废"})
}

// GetInvoice 发票详情
// GET /api/v1/seller/invoices/:id
func (h *Handler) GetInvoice(c *gin.Context) {
	invoiceID, ok := pathID(c, "id")
	if !ok {
		return
	}

	invoice, err := h.invoiceService.Get(c.Request.Context(), currentUserID(c), invoiceID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, invoice)
}

// ListInvoices 卖家发票列表
// GET /api/v1/seller/invoices?status=DRAFT&page=1&page_size=10
func (h *Handler) ListInvoices(c *gin.Context) {
	page, pageSize := pagination(c)

	invoices, total, err := h.invoiceService.List(
		c.Request.Context(), currentUserID(c), c.Query("status"), page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(invoices, total, page, pageSize))
}
