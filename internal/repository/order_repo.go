package repository

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/model"

	"gorm.io/gorm"
)

var (
	ErrOrderNotFound      = errors.New("订单不存在")
	ErrOrderStatusInvalid = errors.New("订单状态不合法")
	ErrDuplicateRequest   = errors.New("重复请求")
	ErrOrderClaimed       = errors.New("订单已被认领")
)

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

func (r *OrderRepository) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(order).Error
}

func (r *OrderRepository) GetByOrderNo(ctx context.Context, orderNo string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Preload("Items").Where("order_no = ?", orderNo).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	return &order, nil
}

func (r *OrderRepository) GetByRequestID(ctx context.Context, requestID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&order).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &order, nil
}

// UpdateStatus 条件状态流转
// 先过状态机校验，再用 WHERE status=fromStatus 的条件 UPDATE，
// RowsAffected=0 说明状态已被并发修改，本次流转作废
func (r *OrderRepository) UpdateStatus(ctx context.Context, tx *gorm.DB, orderNo string, fromStatus, toStatus string) error {
	if !model.CanTransitionTo(fromStatus, toStatus) {
		return ErrOrderStatusInvalid
	}

	if tx == nil {
		tx = r.db
	}

	updates := map[string]interface{}{
		"status": toStatus,
	}

	switch toStatus {
	case model.OrderStatusPicked:
		now := time.Now()
		updates["picked_at"] = &now
	case model.OrderStatusDelivered:
		now := time.Now()
		updates["delivered_at"] = &now
	}

	result := tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_no = ? AND status = ?", orderNo, fromStatus).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusInvalid
	}
	return nil
}

// Claim 认领订单拣货
// 唯一性保证：WHERE status=CONFIRMED AND picker_id IS NULL，
// 两个配送员并发认领时只有一条 UPDATE 能生效
func (r *OrderRepository) Claim(ctx context.Context, tx *gorm.DB, orderNo string, pickerID int64) error {
	if tx == nil {
		tx = r.db
	}

	result := tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_no = ? AND status = ? AND picker_id IS NULL", orderNo, model.OrderStatusConfirmed).
		Updates(map[string]interface{}{
			"status":    model.OrderStatusPicking,
			"picker_id": pickerID,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderClaimed
	}
	return nil
}

// ReleaseClaim 释放认领，回退 PICKING -> CONFIRMED 并清除认领人
// pickerID>0 时只允许认领人本人释放；=0 时为超时任务强制释放
func (r *OrderRepository) ReleaseClaim(ctx context.Context, tx *gorm.DB, orderNo string, pickerID int64) error {
	if tx == nil {
		tx = r.db
	}

	query := tx.WithContext(ctx).
		Model(&model.Order{}).
		Where("order_no = ? AND status = ?", orderNo, model.OrderStatusPicking)
	if pickerID > 0 {
		query = query.Where("picker_id = ?", pickerID)
	}

	result := query.Updates(map[string]interface{}{
		"status":    model.OrderStatusConfirmed,
		"picker_id": nil,
	})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrOrderStatusInvalid
	}
	return nil
}

// ListUnclaimed 待认领订单列表（CONFIRMED 且无认领人）
func (r *OrderRepository) ListUnclaimed(ctx context.Context, page, pageSize int) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("status = ? AND picker_id IS NULL", model.OrderStatusConfirmed)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at ASC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

// ListByPicker 配送员名下订单
func (r *OrderRepository) ListByPicker(ctx context.Context, pickerID int64, page, pageSize int) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("picker_id = ?", pickerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

func (r *OrderRepository) ListByCustomer(ctx context.Context, customerID int64, page, pageSize int) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("customer_id = ?", customerID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&orders).Error

	return orders, total, err
}

func (r *OrderRepository) ListBySeller(ctx context.Context, sellerID int64, status string, page, pageSize int) ([]*model.Order, int64, error) {
	var orders []*model.Order
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Order{}).Where("seller_id = ?", sellerID)
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
		Find(&orders).Error

	return orders, total, err
}

// GetExpiredOrders 查询超时未确认的订单
func (r *OrderRepository) GetExpiredOrders(ctx context.Context, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND expired_at < ?", model.OrderStatusPending, time.Now()).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}

// GetStalePickingOrders 查询拣货停滞的订单
func (r *OrderRepository) GetStalePickingOrders(ctx context.Context, beforeTime time.Time, limit int) ([]*model.Order, error) {
	var orders []*model.Order
	err := r.db.WithContext(ctx).
		Where("status = ? AND updated_at < ?", model.OrderStatusPicking, beforeTime).
		Limit(limit).
		Find(&orders).Error
	return orders, err
}
