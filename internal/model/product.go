package model

import (
	"time"
)

const (
	ProductStatusActive   = "ACTIVE"
	ProductStatusInactive = "INACTIVE"
)

// Product 商品表
// 价格一律以 paise 为单位的整数存储，避免浮点误差
type Product struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	SellerID    int64     `gorm:"index;not null" json:"seller_id"`
	Name        string    `gorm:"type:varchar(128);not null" json:"name"`
	Description string    `gorm:"type:text" json:"description"`
	Category    string    `gorm:"type:varchar(64);index" json:"category"`
	PricePaise  int64     `gorm:"not null" json:"price_paise"`
	Stock       int64     `gorm:"not null;default:0" json:"stock"`
	Status      string    `gorm:"type:varchar(16);index;not null;default:ACTIVE" json:"status"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string {
	return "product"
}
