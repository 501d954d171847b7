package repository

import (
	"context"
	"errors"

	"marketplace/internal/model"

	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("商品不存在")
	ErrStockNotEnough  = errors.New("库存不足")
)

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, tx *gorm.DB, product *model.Product) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(product).Error
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var product model.Product
	err := r.db.WithContext(ctx).First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *ProductRepository) Save(ctx context.Context, product *model.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Delete(&model.Product{}, id).Error
}

// DeductStock 条件扣减库存
// WHERE stock >= quantity，并发下单不会把库存扣成负数
func (r *ProductRepository) DeductStock(ctx context.Context, tx *gorm.DB, productID, quantity int64) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ? AND stock >= ?", productID, quantity).
		Update("stock", gorm.Expr("stock - ?", quantity))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrStockNotEnough
	}
	return nil
}

// RestoreStock 回补库存（取消已确认订单时）
func (r *ProductRepository) RestoreStock(ctx context.Context, tx *gorm.DB, productID, quantity int64) error {
	if tx == nil {
		tx = r.db
	}
	result := tx.WithContext(ctx).
		Model(&model.Product{}).
		Where("id = ?", productID).
		Update("stock", gorm.Expr("stock + ?", quantity))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

type ProductFilter struct {
	Category string
	SellerID int64
	Status   string
	Keyword  string // LIKE 查询，ES 关闭时的搜索回退
}

func (r *ProductRepository) List(ctx context.Context, filter ProductFilter, page, pageSize int) ([]*model.Product, int64, error) {
	var products []*model.Product
	var total int64

	query := r.db.WithContext(ctx).Model(&model.Product{})
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.SellerID > 0 {
		query = query.Where("seller_id = ?", filter.SellerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.Keyword != "" {
		kw := "%" + filter.Keyword + "%"
		query = query.Where("name LIKE ? OR description LIKE ?", kw, kw)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&products).Error

	return products, total, err
}

// ListByIDs 按 ID 列表查询，保持传入顺序（ES 搜索结果按相关度排序）
func (r *ProductRepository) ListByIDs(ctx context.Context, ids []int64) ([]*model.Product, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	var products []*model.Product
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}
	ordered := make([]*model.Product, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			ordered = append(ordered, p)
		}
	}
	return ordered, nil
}
