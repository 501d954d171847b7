package service

import (
	"context"
	"errors"

	"marketplace/internal/model"
	"marketplace/internal/repository"

	"gorm.io/gorm"
)

var (
	ErrLocationKindInvalid = errors.New("仓库位置类型不合法")
	ErrLocationParentRule  = errors.New("子位置类型必须比父位置低一级")
	ErrRootAutoCreated     = errors.New("仓库根节点随建仓自动创建，不能手工添加")
	ErrStockOnlyOnBin      = errors.New("库存只能放置在 BIN 货位")
	ErrLocationWrongHouse  = errors.New("位置不属于该仓库")
)

// WarehouseService 仓库与位置树维护（管理员）
type WarehouseService struct {
	db            *gorm.DB
	warehouseRepo *repository.WarehouseRepository
	productRepo   *repository.ProductRepository
}

func NewWarehouseService(db *gorm.DB) *WarehouseService {
	return &WarehouseService{
		db:            db,
		warehouseRepo: repository.NewWarehouseRepository(db),
		productRepo:   repository.NewProductRepository(db),
	}
}

type CreateWarehouseRequest struct {
	Name    string
	City    string
	Pincode string
}

// CreateWarehouse 建仓，同时创建位置树的根节点
func (s *WarehouseService) CreateWarehouse(ctx context.Context, req *CreateWarehouseRequest) (*model.Warehouse, error) {
	warehouse := &model.Warehouse{
		Name:    req.Name,
		City:    req.City,
		Pincode: req.Pincode,
	}
	if err := s.warehouseRepo.Create(ctx, warehouse); err != nil {
		return nil, err
	}

	root := &model.WarehouseLocation{
		WarehouseID: warehouse.ID,
		ParentID:    nil,
		Kind:        model.LocationKindWarehouse,
		Code:        req.Name,
	}
	if err := s.warehouseRepo.CreateLocation(ctx, root); err != nil {
		return nil, err
	}

	return warehouse, nil
}

func (s *WarehouseService) ListWarehouses(ctx context.Context) ([]*model.Warehouse, error) {
	return s.warehouseRepo.List(ctx)
}

type CreateLocationRequest struct {
	WarehouseID int64
	ParentID    int64
	Kind        string
	Code        string
}

// CreateLocation 在位置树上挂新节点
// 层级约束：子节点 kind 必须正好比父节点低一级；父节点必须存在且同仓。
// parent 必须已存在保证了树不可能成环
func (s *WarehouseService) CreateLocation(ctx context.Context, req *CreateLocationRequest) (*model.WarehouseLocation, error) {
	if !model.ValidLocationKind(req.Kind) {
		return nil, ErrLocationKindInvalid
	}
	if req.Kind == model.LocationKindWarehouse {
		return nil, ErrRootAutoCreated
	}

	parent, err := s.warehouseRepo.GetLocation(ctx, req.ParentID)
	if err != nil {
		return nil, err
	}
	if parent.WarehouseID != req.WarehouseID {
		return nil, ErrLocationWrongHouse
	}
	if !model.CanBeChildOf(req.Kind, parent.Kind) {
		return nil, ErrLocationParentRule
	}

	location := &model.WarehouseLocation{
		WarehouseID: req.WarehouseID,
		ParentID:    &req.ParentID,
		Kind:        req.Kind,
		Code:        req.Code,
	}
	if err := s.warehouseRepo.CreateLocation(ctx, location); err != nil {
		return nil, err
	}
	return location, nil
}

// DeleteLocation 删除位置节点，有子节点时拒绝
func (s *WarehouseService) DeleteLocation(ctx context.Context, locationID int64) error {
	if _, err := s.warehouseRepo.GetLocation(ctx, locationID); err != nil {
		return err
	}

	children, err := s.warehouseRepo.CountChildren(ctx, locationID)
	if err != nil {
		return err
	}
	if children > 0 {
		return repository.ErrLocationHasChild
	}

	return s.warehouseRepo.DeleteLocation(ctx, locationID)
}

// ListLocations 整仓位置树（平铺返回，前端自行组树）
func (s *WarehouseService) ListLocations(ctx context.Context, warehouseID int64) ([]*model.WarehouseLocation, error) {
	if _, err := s.warehouseRepo.GetByID(ctx, warehouseID); err != nil {
		return nil, err
	}
	return s.warehouseRepo.ListLocations(ctx, warehouseID)
}

// LocationPath 自仓库根到指定位置的路径
func (s *WarehouseService) LocationPath(ctx context.Context, locationID int64) ([]*model.WarehouseLocation, error) {
	location, err := s.warehouseRepo.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}

	locations, err := s.warehouseRepo.ListLocations(ctx, location.WarehouseID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.WarehouseLocation, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}

	path, ok := model.BuildLocationPath(locationID, byID)
	if !ok {
		return nil, repository.ErrLocationNotFound
	}
	return path, nil
}

// PlaceStock 放置/调整货位库存，delta 可为负
func (s *WarehouseService) PlaceStock(ctx context.Context, productID, locationID, delta int64) error {
	location, err := s.warehouseRepo.GetLocation(ctx, locationID)
	if err != nil {
		return err
	}
	if location.Kind != model.LocationKindBin {
		return ErrStockOnlyOnBin
	}

	if _, err := s.productRepo.GetByID(ctx, productID); err != nil {
		return err
	}

	return s.warehouseRepo.UpsertStock(ctx, productID, locationID, delta)
}

// ListProductStocks 商品的货位分布
func (s *WarehouseService) ListProductStocks(ctx context.Context, productID int64) ([]*model.ProductStock, error) {
	return s.warehouseRepo.ListStocksByProduct(ctx, productID)
}
