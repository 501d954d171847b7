package handler

import (
	"strconv"

	"marketplace/internal/service"
	"marketplace/pkg/response"

	"github.com/gin-gonic/gin"
)

// CreateWarehouse 建仓（管理员）
// POST /api/v1/admin/warehouses
func (h *Handler) CreateWarehouse(c *gin.Context) {
	var req struct {
		Name    string `json:"name" binding:"required"`
		City    string `json:"city" binding:"required"`
		Pincode string `json:"pincode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	warehouse, err := h.warehouseService.CreateWarehouse(c.Request.Context(), &service.CreateWarehouseRequest{
		Name:    req.Name,
		City:    req.City,
		Pincode: req.Pincode,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, warehouse)
}

// ListWarehouses 仓库列表
// GET /api/v1/admin/warehouses
func (h *Handler) ListWarehouses(c *gin.Context) {
	warehouses, err := h.warehouseService.ListWarehouses(c.Request.Context())
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, warehouses)
}

// CreateLocation 在位置树上挂新节点
// POST /api/v1/admin/warehouses/:id/locations
func (h *Handler) CreateLocation(c *gin.Context) {
	warehouseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req struct {
		ParentID int64  `json:"parent_id" binding:"required"`
		Kind     string `json:"kind" binding:"required"` // ZONE / AISLE / RACK / BIN
		Code     string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	location, err := h.warehouseService.CreateLocation(c.Request.Context(), &service.CreateLocationRequest{
		WarehouseID: warehouseID,
		ParentID:    req.ParentID,
		Kind:        req.Kind,
		Code:        req.Code,
	})
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, location)
}

// ListLocations 整仓位置树
// GET /api/v1/admin/warehouses/:id/locations
func (h *Handler) ListLocations(c *gin.Context) {
	warehouseID, ok := pathID(c, "id")
	if !ok {
		return
	}

	locations, err := h.warehouseService.ListLocations(c.Request.Context(), warehouseID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, locations)
}

// DeleteLocation 删除位置节点
// DELETE /api/v1/admin/locations/:id
func (h *Handler) DeleteLocation(c *gin.Context) {
	locationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.warehouseService.DeleteLocation(c.Request.Context(), locationID); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "位置已删除"})
}

// GetLocationPath 自仓库根到某位置的路径
// GET /api/v1/admin/locations/:id/path
func (h *Handler) GetLocationPath(c *gin.Context) {
	locationID, ok := pathID(c, "id")
	if !ok {
		return
	}

	path, err := h.warehouseService.LocationPath(c.Request.Context(), locationID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, path)
}

// PlaceStock 放置/调整货位库存
// POST /api/v1/admin/stocks
func (h *Handler) PlaceStock(c *gin.Context) {
	var req struct {
		ProductID  int64 `json:"product_id" binding:"required"`
		LocationID int64 `json:"location_id" binding:"required"`
		Delta      int64 `json:"delta" binding:"required"` // 可为负，负数为移出
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ParamError(c, "参数错误: "+err.Error())
		return
	}

	if err := h.warehouseService.PlaceStock(c.Request.Context(), req.ProductID, req.LocationID, req.Delta); err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, gin.H{"message": "库存已调整"})
}

// ListProductStocks 商品的货位分布
// GET /api/v1/admin/stocks?product_id=xxx
func (h *Handler) ListProductStocks(c *gin.Context) {
	productID, err := strconv.ParseInt(c.Query("product_id"), 10, 64)
	if err != nil || productID <= 0 {
		response.ParamError(c, "product_id 参数错误")
		return
	}

	stocks, err := h.warehouseService.ListProductStocks(c.Request.Context(), productID)
	if err != nil {
		handleError(c, err)
		return
	}

	response.Success(c, stocks)
}
