package handler

import (
	"strconv"

	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/internal/service"
	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// UpsertProductRequest 商品创建/编辑请求
type UpsertProductRequest struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	PricePaise  int64  `json:"price_paise" binding:"required,gt=0"`
	Stock       int64  `json:"stock" binding:"gte=0"`
}

func (r *UpsertProductRequest) toService() *service.UpsertProductRequest {
	return &service.UpsertProductRequest{
		Name:        r.Name,
		Description: r.Description,
		Category:    r.Category,
		PricePaise:  r.PricePaise,
		Stock:       r.Stock,
	}
}

// CreateProduct 卖家创建商品
// POST /api/v1/seller/products
func (h *Handler) CreateProduct(c *gin.Context) {
	var req UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), currentUserID(c), req.toService())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, product)
}

// UpdateProduct 编辑商品
// PUT /api/v1/seller/products/:id
func (h *Handler) UpdateProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req UpsertProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), currentUserID(c), productID, req.toService())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, product)
}

// SetProductStatus 上架/下架
// POST /api/v1/seller/products/:id/status
func (h *Handler) SetProductStatus(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		Status string `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	product, err := h.productService.SetStatus(c.Request.Context(), currentUserID(c), productID, req.Status)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, product)
}

// DeleteProduct 删除商品
// DELETE /api/v1/seller/products/:id
func (h *Handler) DeleteProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.productService.Delete(c.Request.Context(), currentUserID(c), productID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "商品已删除"})
}

// ListMyProducts 卖家的商品列表
// GET /api/v1/seller/products?status=ACTIVE&page=1&page_size=10
func (h *Handler) ListMyProducts(c *gin.Context) {
	page, pageSize := pagination(c)

	products, total, err := h.productService.List(c.Request.Context(), repository.ProductFilter{
		SellerID: currentUserID(c),
		Status:   c.Query("status"),
	}, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(products, total, page, pageSize))
}

// GetProduct 商品详情（公开）
// GET /api/v1/products/:id
func (h *Handler) GetProduct(c *gin.Context) {
	productID, ok := pathID(c, "id")
	if !ok {
		return
	}

	product, err := h.productService.Get(c.Request.Context(), productID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, product)
}

// ListProducts 商品目录（公开，只展示在售）
// GET /api/v1/products?category=xxx&page=1&page_size=10
func (h *Handler) ListProducts(c *gin.Context) {
	page, pageSize := pagination(c)

	products, total, err := h.productService.List(c.Request.Context(), repository.ProductFilter{
		Category: c.Query("category"),
		Status:   model.ProductStatusActive,
	}, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(products, total, page, pageSize))
}

// SearchProducts 商品搜索
// GET /api/v1/products/search?q=xxx&min_price=100&max_price=5000
func (h *Handler) SearchProducts(c *gin.Context) {
	keyword := c.Query("q")
	if keyword == "" {
		response.ParamError(c, "q 参数不能为空")
		return
	}
	minPrice, _ := strconv.ParseInt(c.Query("min_price"), 10, 64)
	maxPrice, _ := strconv.ParseInt(c.Query("max_price"), 10, 64)
	page, pageSize := pagination(c)

	products, total, err := h.productService.Search(c.Request.Context(), keyword, minPrice, maxPrice, page, pageSize)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, pageResult(products, total, page, pageSize))
}
