package service

import (
	"context"
	"encoding/json"
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
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder        = errors.New("订单不能没有商品")
	ErrMixedSellerOrder  = errors.New("一笔订单只能包含同一卖家的商品")
	ErrNotOrderCustomer  = errors.New("无权操作他人订单")
	ErrNotOrderSeller    = errors.New("不是该订单的卖家")
	ErrCancelNotAllowed  = errors.New("当前状态不允许取消")
	ErrConfirmNotAllowed = errors.New("当前状态不允许确认")
)

type OrderService struct {
	db          *gorm.DB
	redisClient *redis.Client
	cfg         *config.Config
	orderRepo   *repository.OrderRepository
	productRepo *repository.ProductRepository
	outboxRepo  *repository.OutboxRepository
}

func NewOrderService(db *gorm.DB, redisClient *redis.Client, cfg *config.Config) *OrderService {
	return &OrderService{
		db:          db,
		redisClient: redisClient,
		cfg:         cfg,
		orderRepo:   repository.NewOrderRepository(db),
		productRepo: repository.NewProductRepository(db),
		outboxRepo:  repository.NewOutboxRepository(db),
	}
}

type CreateOrderItem struct {
	ProductID int64 `json:"product_id" binding:"required"`
	Quantity  int64 `json:"quantity" binding:"required,gt=0"`
}

type CreateOrderRequest struct {
	RequestID   string
	CustomerID  int64
	WarehouseID int64
	Items       []CreateOrderItem
}

// CreateOrder 下单（幂等）
//
// 相同 request_id 重复提交返回同一笔订单。流程与支付系统的下单一致：
// 先查幂等 -> 拿分布式锁 -> 锁内再查一次 -> 落库。
// 此时不扣库存，库存在卖家确认时扣减
func (s *OrderService) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	existingOrder, err := s.orderRepo.GetByRequestID(ctx, req.RequestID)
	if err != nil {
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	if existingOrder != nil {
		return existingOrder, nil
	}

	createLock := lock.NewOrderCreateLock(s.redisClient, req.RequestID)
	if err := createLock.Lock(ctx, 100*time.Millisecond, 30); err != nil {
		return nil, fmt.Errorf("系统繁忙，请稍后重试: %w", err)
	}
	defer createLock.Unlock(ctx)

	// 获取锁后再次检查幂等
	existingOrder, err = s.orderRepo.GetByRequestID(ctx, req.RequestID)
	if err != nil {
		return nil, fmt.Errorf("查询订单失败: %w", err)
	}
	if existingOrder != nil {
		return existingOrder, nil
	}

	// 校验商品，锁定单价快照，同时确定卖家
	var sellerID int64
	var total int64
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		product, err := s.productRepo.GetByID(ctx, it.ProductID)
		if err != nil {
			return nil, err
		}
		if product.Status != model.ProductStatusActive {
			return nil, ErrProductNotActive
		}
		if sellerID == 0 {
			sellerID = product.SellerID
		} else if sellerID != product.SellerID {
			return nil, ErrMixedSellerOrder
		}
		items = append(items, model.OrderItem{
			ProductID:  product.ID,
			Quantity:   it.Quantity,
			PricePaise: product.PricePaise,
		})
		total += product.PricePaise * it.Quantity
	}

	order := &model.Order{
		OrderNo:     idgen.GenerateOrderNo(),
		RequestID:   req.RequestID,
		CustomerID:  req.CustomerID,
		SellerID:    sellerID,
		WarehouseID: req.WarehouseID,
		TotalPaise:  total,
		Status:      model.OrderStatusPending,
		ExpiredAt:   time.Now().Add(time.Duration(s.cfg.Business.OrderTimeoutMinutes) * time.Minute),
		Items:       items,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.Create(ctx, tx, order); err != nil {
			return fmt.Errorf("创建订单失败: %w", err)
		}
		return s.outboxRepo.Create(ctx, tx, orderEventMessage(s.cfg.Kafka.Topic.OrderEvents, order, model.EventOrderStatusChanged))
	})
	if err != nil {
		return nil, err
	}

	log := logger.With("order")
	log.Info().
		Str("order_no", order.OrderNo).
		Int64("customer_id", req.CustomerID).
		Int64("total_paise", total).
		Msg("订单创建成功")

	return order, nil
}

// ConfirmOrder 卖家确认订单
// 状态流转与库存扣减在同一事务：任何一个商品库存不足则整体回滚
func (s *OrderService) ConfirmOrder(ctx context.Context, sellerID int64, orderNo string) (*model.Order, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return nil, err
	}
	if order.SellerID != sellerID {
		return nil, ErrNotOrderSeller
	}
	if order.Status != model.OrderStatusPending {
		return nil, ErrConfirmNotAllowed
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderNo, model.OrderStatusPending, model.OrderStatusConfirmed); err != nil {
			return err
		}
		for _, item := range order.Items {
			if err := s.productRepo.DeductStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("商品 %d 扣减库存失败: %w", item.ProductID, err)
			}
		}
		order.Status = model.OrderStatusConfirmed
		return s.outboxRepo.Create(ctx, tx, orderEventMessage(s.cfg.Kafka.Topic.OrderEvents, order, model.EventOrderStatusChanged))
	})
	if err != nil {
		return nil, err
	}

	log := logger.With("order")
	log.Info().Str("order_no", orderNo).Msg("订单已确认")
	return s.orderRepo.GetByOrderNo(ctx, orderNo)
}

// CancelOrder 取消订单
// 顾客只能取消 PENDING；卖家可取消 PENDING/CONFIRMED。
// 取消已确认订单时回补库存
func (s *OrderService) CancelOrder(ctx context.Context, userID int64, orderNo string) error {
	order, err := s.orderRepo.GetByOrderNo(ctx, orderNo)
	if err != nil {
		return err
	}

	isCustomer := order.CustomerID == userID
	isSeller := order.SellerID == userID
	if !isCustomer && !isSeller {
		return ErrNotOrderCustomer
	}

	switch order.Status {
	case model.OrderStatusPending:
	case model.OrderStatusConfirmed:
		if !isSeller {
			return ErrCancelNotAllowed
		}
	default:
		return ErrCancelNotAllowed
	}

	fromStatus := order.Status
	return s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.orderRepo.UpdateStatus(ctx, tx, orderNo, fromStatus, model.OrderStatusCancelled); err != nil {
			return err
		}
		if fromStatus == model.OrderStatusConfirmed {
			for _, item := range order.Items {
				if err := s.productRepo.RestoreStock(ctx, tx, item.ProductID, item.Quantity); err != nil {
					return fmt.Errorf("商品 %d 回补库存失败: %w", item.ProductID, err)
				}
			}
		}
		order.Status = model.OrderStatusCancelled
		return s.outboxRepo.Create(ctx, tx, orderEventMessage(s.cfg.Kafka.Topic.OrderEvents, order, model.EventOrderStatusChanged))
	})
}

func (s *OrderService) GetOrder(ctx context.Context, orderNo string) (*model.Order, error) {
	return s.orderRepo.GetByOrderNo(ctx, orderNo)
}

func (s *OrderService) ListCustomerOrders(ctx context.Context, customerID int64, page, pageSize int) ([]*model.Order, int64, error) {
	return s.orderRepo.ListByCustomer(ctx, customerID, page, pageSize)
}

func (s *OrderService) ListSellerOrders(ctx context.Context, sellerID int64, status string, page, pageSize int) ([]*model.Order, int64, error) {
	return s.orderRepo.ListBySeller(ctx, sellerID, status, page, pageSize)
}

// orderEventMessage 组装订单事件的 outbox 消息，与业务同事务落库
func orderEventMessage(topic string, order *model.Order, event string) *model.OutboxMessage {
	payload := map[string]interface{}{
		"event":       event,
		"order_no":    order.OrderNo,
		"customer_id": order.CustomerID,
		"seller_id":   order.SellerID,
		"status":      order.Status,
		"total_paise": order.TotalPaise,
		"occurred_at": time.Now().Format(time.RFC3339),
	}
	payloadBytes, _ := json.Marshal(payload)

	return &model.OutboxMessage{
		MessageKey: order.OrderNo,
		Topic:      topic,
		Payload:    string(payloadBytes),
		Status:     model.OutboxStatusPending,
	}
}
