package service

import (
	"context"
	"time"

	"marketplace/internal/model"

	"gorm.io/gorm"
)

// AnalyticsService 管理后台报表，纯聚合查询
type AnalyticsService struct {
	db *gorm.DB
}

func NewAnalyticsService(db *gorm.DB) *AnalyticsService {
	return &AnalyticsService{db: db}
}

// Dashboard 平台总览
type Dashboard struct {
	OrdersByStatus  map[string]int64 `json:"orders_by_status"`
	GMVPaise        int64            `json:"gmv_paise"`        // 已送达订单总额
	CommissionPaise int64            `json:"commission_paise"` // 平台累计佣金
	SellerCount     int64            `json:"seller_count"`
	DeliveryCount   int64            `json:"delivery_count"`
}

func (s *AnalyticsService) Dashboard(ctx context.Context) (*Dashboard, error) {
	dashboard := &Dashboard{
		OrdersByStatus: make(map[string]int64),
	}

	type statusCount struct {
		Status string
		Count  int64
	}
	var counts []statusCount
	err := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&counts).Error
	if err != nil {
		return nil, err
	}
	for _, c := range counts {
		dashboard.OrdersByStatus[c.Status] = c.Count
	}

	err = s.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("status = ?", model.OrderStatusDelivered).
		Select("COALESCE(SUM(total_paise), 0)").
		Scan(&dashboard.GMVPaise).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&model.Earning{}).
		Where("holder_id = ? AND type = ?", model.PlatformHolderID, model.EarningTypeCommission).
		Select("COALESCE(SUM(amount_paise), 0)").
		Scan(&dashboard.CommissionPaise).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("role = ? AND status = ?", model.RoleSeller, model.ProfileStatusApproved).
		Count(&dashboard.SellerCount).Error
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).
		Model(&model.UserProfile{}).
		Where("role = ? AND status = ?", model.RoleDelivery, model.ProfileStatusApproved).
		Count(&dashboard.DeliveryCount).Error
	if err != nil {
		return nil, err
	}

	return dashboard, nil
}

// DailyPoint 按天统计点
type DailyPoint struct {
	Day          string `json:"day"`
	OrderCount   int64  `json:"order_count"`
	RevenuePaise int64  `json:"revenue_paise"`
}

// DailySeries 区间内按天的下单量与送达金额
func (s *AnalyticsService) DailySeries(ctx context.Context, from, to time.Time) ([]DailyPoint, error) {
	var points []DailyPoint
	err := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("DATE(created_at) AS day, COUNT(*) AS order_count, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN total_paise ELSE 0 END), 0) AS revenue_paise",
			model.OrderStatusDelivered).
		Where("created_at >= ? AND created_at < ?", from, to).
		Group("DATE(created_at)").
		Order("day ASC").
		Scan(&points).Error
	return points, err
}

// TopSeller 卖家排行项
type TopSeller struct {
	SellerID     int64 `json:"seller_id"`
	OrderCount   int64 `json:"order_count"`
	RevenuePaise int64 `json:"revenue_paise"`
}

// TopSellers 按已送达金额排序的卖家榜
func (s *AnalyticsService) TopSellers(ctx context.Context, limit int) ([]TopSeller, error) {
	if limit <= 0 || limit > 100 {
		limit = 10
	}

	var sellers []TopSeller
	err := s.db.WithContext(ctx).
		Model(&model.Order{}).
		Select("seller_id, COUNT(*) AS order_count, COALESCE(SUM(total_paise), 0) AS revenue_paise").
		Where("status = ?", model.OrderStatusDelivered).
		Group("seller_id").
		Order("revenue_paise DESC").
		Limit(limit).
		Scan(&sellers).Error
	return sellers, err
}
