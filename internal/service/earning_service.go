package service

import (
	"context"

	"marketplace/internal/model"
	"marketplace/internal/repository"

	"gorm.io/gorm"
)

// EarningService 收益查询（卖家/配送员共用）
type EarningService struct {
	db          *gorm.DB
	earningRepo *repository.EarningRepository
}

func NewEarningService(db *gorm.DB) *EarningService {
	return &EarningService{
		db:          db,
		earningRepo: repository.NewEarningRepository(db),
	}
}

func (s *EarningService) List(ctx context.Context, holderID int64, status string, page, pageSize int) ([]*model.Earning, int64, error) {
	return s.earningRepo.ListByHolder(ctx, holderID, status, page, pageSize)
}

// EarningSummary 余额概览
type EarningSummary struct {
	PendingPaise   int64 `json:"pending_paise"`
	AvailablePaise int64 `json:"available_paise"`
	PaidOutPaise   int64 `json:"paid_out_paise"`
}

func (s *EarningService) Summary(ctx context.Context, holderID int64) (*EarningSummary, error) {
	pending, err := s.earningRepo.SumByHolder(ctx, holderID, model.EarningStatusPending)
	if err != nil {
		return nil, err
	}
	available, err := s.earningRepo.SumByHolder(ctx, holderID, model.EarningStatusAvailable)
	if err != nil {
		return nil, err
	}
	paidOut, err := s.earningRepo.SumByHolder(ctx, holderID, model.EarningStatusPaidOut)
	if err != nil {
		return nil, err
	}

	return &EarningSummary{
		PendingPaise:   pending,
		AvailablePaise: available,
		PaidOutPaise:   paidOut,
	}, nil
}
