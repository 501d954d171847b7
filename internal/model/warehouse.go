package model

import (
	"time"
)

// ============================================================================
// 仓库位置层级
// ============================================================================
//
// 仓库内部是一棵固定深度的位置树：
//
//   WAREHOUSE -> ZONE -> AISLE -> RACK -> BIN
//
// 约束：
//   1. 子节点的 kind 必须正好比父节点低一级（不允许跳级、不会成环）
//   2. 库存只能挂在 BIN 上
//   3. BIN 不能再有子节点
//
// 拣货时通过 parent_id 链向上回溯，得到 "仓库/区/巷道/货架/货位" 路径

const (
	LocationKindWarehouse = "WAREHOUSE"
	LocationKindZone      = "ZONE"
	LocationKindAisle     = "AISLE"
	LocationKindRack      = "RACK"
	LocationKindBin       = "BIN"
)

// locationKindLevel 层级序号，越大越深
var locationKindLevel = map[string]int{
	LocationKindWarehouse: 0,
	LocationKindZone:      1,
	LocationKindAisle:     2,
	LocationKindRack:      3,
	LocationKindBin:       4,
}

// ValidLocationKind kind 是否合法
func ValidLocationKind(kind string) bool {
	_, ok := locationKindLevel[kind]
	return ok
}

// CanBeChildOf 校验 childKind 是否允许挂在 parentKind 之下
func CanBeChildOf(childKind, parentKind string) bool {
	cl, ok1 := locationKindLevel[childKind]
	pl, ok2 := locationKindLevel[parentKind]
	if !ok1 || !ok2 {
		return false
	}
	return cl == pl+1
}

// Warehouse 仓库表
type Warehouse struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"type:varchar(64);not null" json:"name"`
	City      string    `gorm:"type:varchar(64);index" json:"city"`
	Pincode   string    `gorm:"type:varchar(10)" json:"pincode"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Warehouse) TableName() string {
	return "warehouse"
}

// WarehouseLocation 仓库位置节点
// 根节点（kind=WAREHOUSE）的 ParentID 为 NULL
type WarehouseLocation struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	WarehouseID int64     `gorm:"index;not null" json:"warehouse_id"`
	ParentID    *int64    `gorm:"index" json:"parent_id,omitempty"`
	Kind        string    `gorm:"type:varchar(16);not null" json:"kind"`
	Code        string    `gorm:"type:varchar(32);not null" json:"code"` // 如 Z1、A3、R12、B07
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (WarehouseLocation) TableName() string {
	return "warehouse_location"
}

// BuildLocationPath 从 binID 沿 parent_id 回溯，返回自仓库根到该节点的路径
// locations 为同一仓库内全部节点的 id 索引；链断裂或成环时返回 false
func BuildLocationPath(binID int64, locations map[int64]*WarehouseLocation) ([]*WarehouseLocation, bool) {
	var reversed []*WarehouseLocation
	cur, ok := locations[binID]
	if !ok {
		return nil, false
	}
	// 深度最多 5 层，超过即认为数据损坏
	for depth := 0; depth <= len(locationKindLevel); depth++ {
		reversed = append(reversed, cur)
		if cur.ParentID == nil {
			path := make([]*WarehouseLocation, 0, len(reversed))
			for i := len(reversed) - 1; i >= 0; i-- {
				path = append(path, reversed[i])
			}
			return path, true
		}
		next, ok := locations[*cur.ParentID]
		if !ok {
			return nil, false
		}
		cur = next
	}
	return nil, false
}

// ProductStock 货位库存，product 与 BIN 的多对多数量关系
type ProductStock struct {
	ID         int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID  int64     `gorm:"index:idx_product_bin,unique;not null" json:"product_id"`
	LocationID int64     `gorm:"index:idx_product_bin,unique;not null" json:"location_id"` // 必须是 BIN
	Quantity   int64     `gorm:"not null;default:0" json:"quantity"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProductStock) TableName() string {
	return "product_stock"
}
