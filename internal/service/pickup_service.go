package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"marketplace/internal/config"
	"marketplace/internal/infrastructure/lock"
	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/pkg/idgen"
	"marketplace/pkg/logger"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrNotClaimant       = errors.New("不是该订单的认领人")
	ErrPartnerNotReady   = errors.New("配送员尚未完成入驻或未通过审核")
	ErrClaimConflict     = errors.New("订单已被其他配送员认领")
	ErrTransitionInvalid = errors.New("当前状态不允许该操作")
)

// PickupService 拣货/配送流程
//
// 认领的唯一性保证分两层：
//  1. Redis 锁（按订单号）把并发认领串行化
//  2. 数据库条件 UPDATE（status=CONFIRMED AND picker_id IS NULL）兜底
//
// 锁丢失（Redis 故障）时第 2 层仍然保证不会出现双认领
type PickupService struct {
	db            *gorm.DB
	redisClient   *redis.Client
	cfg           *config.Config
	orderRepo     *repository.OrderRepository
	userRepo      *repository.UserRepository
	earningRepo   *repository.EarningRepository
	outboxRepo    *repository.OutboxRepository
	warehouseRepo *repository.WarehouseRepository
}

func NewPickupService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *PickupService {
	return &PickupService{
		db:            db,
		redisClient:   redisClient,
		cfg:           cfg,
		orderRepo:     repository.NewOrderRepository(db),
		userRepo:      repository.NewUserRepository(db),
		earningRepo:   repository.NewEarningRepository(db),
		outboxRepo:    repository.NewOutboxRepository(db),
		warehouseRepo: repository.NewWarehouseRepository(db),
	}
}

// requireApprovedPartner 只有审核通过的配送员能参与拣货配送
func (s *PickupService) requireApprovedPartner(ctx context.Context, partnerID int64) error {
	profile, err := s.userRepo.GetProfileByUserID(ctx, partnerID)
	if err != nil {
		return err
	}
	if profile.Role != model.RoleDelivery || profile.Status != model.ProfileStatusApproved || !profile.Onboarded() {
		return ErrPartnerNotReady
	}
	return nil
}

// ListAvailable 待认领订单
func (s *PickupService) ListAvailable(ctx context.Context, partnerID int64, page, pageSize int) ([]*model.Order, int64, error) {
	if err := s.requireApprovedPartner(ctx, partnerID); err != nil {
		return nil, 0, err
	}
	return s.orderRepo.ListUnclaimed(ctx, page, pageSize)
}

// ListMine 配送员名下订单
func (s *PickupService) ListMine(ctx context.Context, partnerID int64, page, pageSize int) ([]*model.Order, int64, error) {
	return s.orderRepo.ListByPicker(ctx, partnerID, page, pageSize)
}

// Claim 认领订单拣货
func (s *PickupService) Claim(ctx context.Context, partnerID int64, orderNo string) (*model.Order, error) {
	if err := s.requireApprovedPartner(ctx, partnerID); err != nil {
		return nil, err
	}

	claimLock := lock.NewClaimLock(s.redisClient, orderNo, uuid.NewString())
	ok, err := claimLock.TryLock(ctx)
	if err != nil {
		return nil, fmt.Errorf("获取认领锁失败: %w", err)
	}
	if !ok {
		return nil, ErrClaimConflict
	}
	defer claimLock.Unlock(ctx)

	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Claim(ctx, tx, orderNo, partnerID); err != nil {
			if errors.Is(err, repository.ErrOrderClaimed) {
				return ErrClaimConflict
			}
			return err
		}

		// 事务内再读会拿到快照里认领前的旧状态，事件状态直接按流转结果写
		order.Status = model.OrderStatusPicking
		order.PickerID = &partnerID
		return s.outboxRepo.Create(ctx, tx, orderEventMessage(s.cfg.Kafka.Topic.OrderEvents, order, model.EventOrderStatusChanged))
	})
	if err != nil {
		return nil, err
	}

	log := logger.With("pickup")
	log.Info().
		Str("order_no", orderNo).
		Int64("picker_id", partnerID).
		Msg("订单认领成功")

	return order, nil
}

// Release 主动放弃认领，订单回到待认领池
// 与超时回收一样，释放和事件写入在同一事务内
func (s *PickupService) Release(ctx context.Context, partnerID int64, orderNo string) error {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return err
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.ReleaseClaim(ctx, tx, orderNo, partnerID); err != nil {
			if errors.Is(err, repository.ErrOrderStatusInvalid) {
				return ErrTransitionInvalid
			}
			return err
		}
		order.Status = model.OrderStatusConfirmed
		order.PickerID = nil
		return s.outboxRepo.Create(ctx, tx, orderEventMessage(s.cfg.Kafka.Topic.OrderEvents, order, model.EventOrderStatusChanged))
	})
	if err != nil {
		return err
	}

	log := logger.With("pickup")
	log.Info().
		Str("order_no", orderNo).
		Int64("picker_id", partnerID).
		Msg("认领已释放")
	return nil
}

// PickListItem 拣货单行：商品 + 货位路径
type PickListItem struct {
	ProductID int64          `json:"product_id"`
	Quantity  int64          `json:"quantity"`
	Locations []PickLocation `json:"locations"`
}

type PickLocation struct {
	LocationID int64    `json:"location_id"`
	Quantity   int64    `json:"quantity"`
	Path       []string `json:"path"` // 如 ["WH-MUM", "Z1", "A3", "R12", "B07"]
}

// GetPickList 拣货单
// 对订单内每个商品，给出其所在货位及自仓库根到货位的完整路径
func (s *PickupService) GetPickList(ctx context.Context, partnerID int64, orderNo string) ([]PickListItem, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order.PickerID == nil || *order.PickerID != partnerID {
		return nil, ErrNotClaimant
	}

	// 整仓位置一次取出，内存中回溯 parent 链
	locations, err := s.warehouseRepo.ListLocations(ctx, order.WarehouseID)
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]*model.WarehouseLocation, len(locations))
	for _, loc := range locations {
		byID[loc.ID] = loc
	}

	pickList := make([]PickListItem, 0, len(order.Items))
	for _, item := range order.Items {
		stocks, err := s.warehouseRepo.ListStocksByProduct(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}

		entry := PickListItem{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
		}
		for _, stock := range stocks {
			path, ok := model.BuildLocationPath(stock.LocationID, byID)
			if !ok {
				// 货位不在本仓，跳过
				continue
			}
			codes := make([]string, 0, len(path))
			for _, node := range path {
				codes = append(codes, node.Code)
			}
			entry.Locations = append(entry.Locations, PickLocation{
				LocationID: stock.LocationID,
				Quantity:   stock.Quantity,
				Path:       codes,
			})
		}
		pickList = append(pickList, entry)
	}

	return pickList, nil
}

// MarkPicked 拣货完成 PICKING -> PICKED
func (s *PickupService) MarkPicked(ctx context.Context, partnerID int64, orderNo string) error {
	return s.transitionAsClaimant(ctx, partnerID, orderNo, model.OrderStatusPicking, model.OrderStatusPicked)
}

// StartTransit 开始配送 PICKED -> IN_TRANSIT
func (s *PickupService) StartTransit(ctx context.Context, partnerID int64, orderNo string) error {
	return s.transitionAsClaimant(ctx, partnerID, orderNo, model.OrderStatusPicked, model.OrderStatusInTransit)
}

// MarkDelivered 送达 IN_TRANSIT -> DELIVERED
// 状态流转与三方分账（配送费/平台佣金/卖家货款）在同一事务内完成
func (s *PickupService) MarkDelivered(ctx context.Context, partnerID int64, orderNo string) error {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return err
	}
	if order.PickerID == nil || *order.PickerID != partnerID {
		return ErrNotClaimant
	}

	split := model.SplitOrderAmount(order.TotalPaise, s.cfg.Business.DeliveryFeeBase, s.cfg.Business.CommissionRateBps)
	availableAt := time.Now().Add(time.Duration(s.cfg.Business.EarningHoldHours) * time.Hour)

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderNo, model.OrderStatusInTransit, model.OrderStatusDelivered); err != nil {
			if errors.Is(err, repository.ErrOrderStatusInvalid) {
				return ErrTransitionInvalid
			}
			return err
		}

		earnings := []*model.Earning{
			{
				EarningNo:   idgen.GenerateEarningNo(),
				HolderID:    partnerID,
				OrderNo:     orderNo,
				Type:        model.EarningTypeDeliveryFee,
				AmountPaise: split.DeliveryFee,
				Status:      model.EarningStatusPending,
				AvailableAt: availableAt,
			},
			{
				EarningNo:   idgen.GenerateEarningNo(),
				HolderID:    model.PlatformHolderID,
				OrderNo:     orderNo,
				Type:        model.EarningTypeCommission,
				AmountPaise: split.Commission,
				Status:      model.EarningStatusPending,
				AvailableAt: availableAt,
			},
			{
				EarningNo:   idgen.GenerateEarningNo(),
				HolderID:    order.SellerID,
				OrderNo:     orderNo,
				Type:        model.EarningTypeSellerShare,
				AmountPaise: split.SellerShare,
				Status:      model.EarningStatusPending,
				AvailableAt: availableAt,
			},
		}
		for _, earning := range earnings {
			if err := s.earningRepo.Create(ctx, tx, earning); err != nil {
				return fmt.Errorf("记录收益失败: %w", err)
			}
		}

		order.Status = model.OrderStatusDelivered
		return s.outboxRepo.Create(ctx, tx, orderEventMessage(s.cfg.Kafka.Topic.OrderEvents, order, model.EventOrderDelivered))
	})
	if err != nil {
		return err
	}

	log := logger.With("pickup")
	log.Info().
		Str("order_no", orderNo).
		Int64("picker_id", partnerID).
		Int64("delivery_fee", split.DeliveryFee).
		Int64("commission", split.Commission).
		Int64("seller_share", split.SellerShare).
		Msg("订单已送达，分账完成")
	return nil
}

// transitionAsClaimant 认领人专属的普通状态流转
func (s *PickupService) transitionAsClaimant(ctx context.Context, partnerID int64, orderNo, fromStatus, toStatus string) error {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return err
	}
	if order.PickerID == nil || *order.PickerID != partnerID {
		return ErrNotClaimant
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderNo, fromStatus, toStatus); err != nil {
			if errors.Is(err, repository.ErrOrderStatusInvalid) {
				return ErrTransitionInvalid
			}
			return err
		}
		order.Status = toStatus
		return s.outboxRepo.Create(ctx, tx, orderEventMessage(s.cfg.Kafka.Topic.OrderEvents, order, model.EventOrderStatusChanged))
	})
	return err
}
