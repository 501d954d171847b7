package repository

import (
	"context"
	"errors"

	"marketplace/internal/model"

	"gorm.io/gorm"
)

var (
	ErrWarehouseNotFound = errors.New("仓库不存在")
	ErrLocationNotFound  = errors.New("仓库位置不存在")
	ErrLocationHasChild  = errors.New("仓库位置下还有子节点")
	ErrBinStockNotEnough = errors.New("货位库存不足")
)

type WarehouseRepository struct {
	db *gorm.DB
}

func NewWarehouseRepository(db *gorm.DB) *WarehouseRepository {
	return &WarehouseRepository{db: db}
}

func (r *WarehouseRepository) Create(ctx context.Context, warehouse *model.Warehouse) error {
	return r.db.WithContext(ctx).Create(warehouse).Error
}

func (r *WarehouseRepository) GetByID(ctx context.Context, id int64) (*model.Warehouse, error) {
	var warehouse model.Warehouse
	err := r.db.WithContext(ctx).First(&warehouse, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWarehouseNotFound
		}
		return nil, err
	}
	return &warehouse, nil
}

func (r *WarehouseRepository) List(ctx context.Context) ([]*model.Warehouse, error) {
	var warehouses []*model.Warehouse
	err := r.db.WithContext(ctx).Order("id ASC").Find(&warehouses).Error
	return warehouses, err
}

// ============================================================
// 位置树
// ============================================================

func (r *WarehouseRepository) CreateLocation(ctx context.Context, location *model.WarehouseLocation) error {
	return r.db.WithContext(ctx).Create(location).Error
}

func (r *WarehouseRepository) GetLocation(ctx context.Context, id int64) (*model.WarehouseLocation, error) {
	var location model.WarehouseLocation
	err := r.db.WithContext(ctx).First(&location, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLocationNotFound
		}
		return nil, err
	}
	return &location, nil
}

// ListLocations 整仓位置节点，路径回溯在内存中完成
func (r *WarehouseRepository) ListLocations(ctx context.Context, warehouseID int64) ([]*model.WarehouseLocation, error) {
	var locations []*model.WarehouseLocation
	err := r.db.WithContext(ctx).
		Where("warehouse_id = ?", warehouseID).
		Order("id ASC").
		Find(&locations).Error
	return locations, err
}

func (r *WarehouseRepository) CountChildren(ctx context.Context, locationID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.WarehouseLocation{}).
		Where("parent_id = ?", locationID).
		Count(&count).Error
	return count, err
}

func (r *WarehouseRepository) DeleteLocation(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.WarehouseLocation{}, id).Error
}

// ============================================================
// 货位库存
// ============================================================

func (r *WarehouseRepository) GetStock(ctx context.Context, productID, locationID int64) (*model.ProductStock, error) {
	var stock model.ProductStock
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND location_id = ?", productID, locationID).
		First(&stock).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &stock, nil
}

// UpsertStock 放置/调整货位库存，delta 可为负
// 减少时 WHERE quantity >= -delta 防止扣成负数
func (r *WarehouseRepository) UpsertStock(ctx context.Context, productID, locationID, delta int64) error {
	existing, err := r.GetStock(ctx, productID, locationID)
	if err != nil {
		return err
	}

	if existing == nil {
		if delta < 0 {
			return ErrBinStockNotEnough
		}
		return r.db.WithContext(ctx).Create(&model.ProductStock{
			ProductID:  productID,
			LocationID: locationID,
			Quantity:   delta,
		}).Error
	}

	query := r.db.WithContext(ctx).
		Model(&model.ProductStock{}).
		Where("product_id = ? AND location_id = ?", productID, locationID)
	if delta < 0 {
		query = query.Where("quantity >= ?", -delta)
	}

	result := query.Update("quantity", gorm.Expr("quantity + ?", delta))
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrBinStockNotEnough
	}
	return nil
}

// ListStocksByProduct 商品在各货位的分布，拣货路径据此生成
func (r *WarehouseRepository) ListStocksByProduct(ctx context.Context, productID int64) ([]*model.ProductStock, error) {
	var stocks []*model.ProductStock
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND quantity > 0", productID).
		Order("quantity DESC").
		Find(&stocks).Error
	return stocks, err
}
