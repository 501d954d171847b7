package service

import (
	"context"
	"errors"

	"marketplace/internal/config"
	"marketplace/internal/infrastructure/search"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/pkg/logger"

	"gorm.io/gorm"
)

var (
	ErrNotProductOwner  = errors.New("无权操作他人商品")
	ErrSellerNotReady   = errors.New("卖家尚未完成入驻或未通过审核")
	ErrPriceInvalid     = errors.New("价格必须大于0")
	ErrProductNotActive = errors.New("商品已下架")
)

type ProductService struct {
	db          *gorm.DB
	cfg         *config.Config
	productRepo *repository.ProductRepository
	userRepo    *repository.UserRepository
	indexer     *search.ProductIndexer
}

func NewProductService(db *gorm.DB, cfg *config.Config, indexer *search.ProductIndexer) *ProductService {
	return &ProductService{
		db:          db,
		cfg:         cfg,
		productRepo: repository.NewProductRepository(db),
		userRepo:    repository.NewUserRepository(db),
		indexer:     indexer,
	}
}

type UpsertProductRequest struct {
	Name        string
	Description string
	Category    string
	PricePaise  int64
	Stock       int64
}

// requireApprovedSeller 只有入驻完成且审核通过的卖家能维护商品
func (s *ProductService) requireApprovedSeller(ctx context.Context, sellerID int64) error {
	profile, err := s.userRepo.GetProfileByUserID(ctx, sellerID)
	if err != nil {
		return err
	}
	if profile.Role != model.RoleSeller || profile.Status != model.ProfileStatusApproved || !profile.Onboarded() {
		return ErrSellerNotReady
	}
	return nil
}

func (s *ProductService) Create(ctx context.Context, sellerID int64, req *UpsertProductRequest) (*model.Product, error) {
	if err := s.requireApprovedSeller(ctx, sellerID); err != nil {
		return nil, err
	}
	if req.PricePaise <= 0 {
		return nil, ErrPriceInvalid
	}

	product := &model.Product{
		SellerID:    sellerID,
		Name:        req.Name,
		Description: req.Description,
		Category:    req.Category,
		PricePaise:  req.PricePaise,
		Stock:       req.Stock,
		Status:      model.ProductStatusActive,
	}
	if err := s.productRepo.Create(ctx, nil, product); err != nil {
		return nil, err
	}

	s.indexAsync(ctx, product)
	return product, nil
}

func (s *ProductService) Update(ctx context.Context, sellerID, productID int64, req *UpsertProductRequest) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, ErrNotProductOwner
	}
	if req.PricePaise <= 0 {
		return nil, ErrPriceInvalid
	}

	product.Name = req.Name
	product.Description = req.Description
	product.Category = req.Category
	product.PricePaise = req.PricePaise
	product.Stock = req.Stock

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.indexAsync(ctx, product)
	return product, nil
}

// SetStatus 上架/下架
func (s *ProductService) SetStatus(ctx context.Context, sellerID, productID int64, status string) (*model.Product, error) {
	if status != model.ProductStatusActive && status != model.ProductStatusInactive {
		return nil, errors.New("商品状态不合法")
	}

	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if product.SellerID != sellerID {
		return nil, ErrNotProductOwner
	}

	product.Status = status
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.indexAsync(ctx, product)
	return product, nil
}

func (s *ProductService) Delete(ctx context.Context, sellerID, productID int64) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.SellerID != sellerID {
		return ErrNotProductOwner
	}

	if err := s.productRepo.Delete(ctx, productID); err != nil {
		return err
	}

	if err := s.indexer.DeleteProduct(ctx, productID); err != nil {
		log := logger.With("product")
		log.Warn().Err(err).Int64("product_id", productID).Msg("删除商品索引失败")
	}
	return nil
}

func (s *ProductService) Get(ctx context.Context, productID int64) (*model.Product, error) {
	return s.productRepo.GetByID(ctx, productID)
}

func (s *ProductService) List(ctx context.Context, filter repository.ProductFilter, page, pageSize int) ([]*model.Product, int64, error) {
	return s.productRepo.List(ctx, filter, page, pageSize)
}

// Search 商品搜索
// ES 可用时走 ES（相关度排序），否则回退 MySQL LIKE
func (s *ProductService) Search(ctx context.Context, keyword string, minPrice, maxPrice int64, page, pageSize int) ([]*model.Product, int64, error) {
	if s.indexer.Enabled() {
		ids, total, err := s.indexer.SearchProducts(ctx, keyword, minPrice, maxPrice, (page-1)*pageSize, pageSize)
		if err == nil {
			products, err := s.productRepo.ListByIDs(ctx, ids)
			return products, total, err
		}
		log := logger.With("product")
		log.Warn().Err(err).Msg("ES 搜索失败，回退数据库查询")
	}

	return s.productRepo.List(ctx, repository.ProductFilter{
		Keyword: keyword,
		Status:  model.ProductStatusActive,
	}, page, pageSize)
}

// indexAsync 尽力而为的索引写入，失败不影响主流程
func (s *ProductService) indexAsync(ctx context.Context, product *model.Product) {
	if err := s.indexer.IndexProduct(ctx, product); err != nil {
		log := logger.With("product")
		log.Warn().Err(err).Int64("product_id", product.ID).Msg("写入商品索引失败")
	}
}
