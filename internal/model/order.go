package model

import (
	"time"
)

const (
	OrderStatusPending   = "PENDING"
	OrderStatusConfirmed = "CONFIRMED"
	OrderStatusPicking   = "PICKING"
	OrderStatusPicked    = "PICKED"
	OrderStatusInTransit = "IN_TRANSIT"
	OrderStatusDelivered = "DELIVERED"
	OrderStatusCancelled = "CANCELLED"
	OrderStatusExpired   = "EXPIRED"
)

// ValidStatusTransitions 订单状态机
// 所有状态变更都必须经过 CanTransitionTo 校验 + 条件 UPDATE，
// 不允许任何代码路径直接写 status 字段
//
// PICKING -> CONFIRMED 是拣货超时/主动放弃时的回退边，回退同时清除认领人
var ValidStatusTransitions = map[string][]string{
	OrderStatusPending:   {OrderStatusConfirmed, OrderStatusCancelled, OrderStatusExpired},
	OrderStatusConfirmed: {OrderStatusPicking, OrderStatusCancelled},
	OrderStatusPicking:   {OrderStatusPicked, OrderStatusConfirmed},
	OrderStatusPicked:    {OrderStatusInTransit},
	OrderStatusInTransit: {OrderStatusDelivered},
}

func CanTransitionTo(currentStatus, targetStatus string) bool {
	allowedStatuses, exists := ValidStatusTransitions[currentStatus]
	if !exists {
		return false
	}
	for _, s := range allowedStatuses {
		if s == targetStatus {
			return true
		}
	}
	return false
}

// IsTerminalStatus 终态订单不再参与任何流转
func IsTerminalStatus(status string) bool {
	_, exists := ValidStatusTransitions[status]
	return !exists
}

// Order 订单表
// request_id 为客户端生成的幂等键；picker_id 在认领拣货时写入，
// 认领的唯一性由条件 UPDATE（status=CONFIRMED AND picker_id IS NULL）保证
type Order struct {
	ID          int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNo     string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"order_no"`
	RequestID   string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"request_id"`
	CustomerID  int64      `gorm:"index;not null" json:"customer_id"`
	SellerID    int64      `gorm:"index;not null" json:"seller_id"`
	WarehouseID int64      `gorm:"index;not null" json:"warehouse_id"`
	TotalPaise  int64      `gorm:"not null" json:"total_paise"`
	Status      string     `gorm:"type:varchar(20);index;not null" json:"status"`
	PickerID    *int64     `gorm:"index" json:"picker_id,omitempty"`
	PickedAt    *time.Time `json:"picked_at,omitempty"`
	DeliveredAt *time.Time `json:"delivered_at,omitempty"`
	ExpiredAt   time.Time  `gorm:"not null" json:"expired_at"`
	CreatedAt   time.Time  `gorm:"autoCreateTime;index" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

func (Order) TableName() string {
	return "order"
}

// OrderItem 订单行，单价为下单时刻的快照
type OrderItem struct {
	ID         int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID    int64 `gorm:"index;not null" json:"order_id"`
	ProductID  int64 `gorm:"index;not null" json:"product_id"`
	Quantity   int64 `gorm:"not null" json:"quantity"`
	PricePaise int64 `gorm:"not null" json:"price_paise"`
}

func (OrderItem) TableName() string {
	return "order_item"
}
