package service

import (
	"context"
	"errors"

	"marketplace/internal/model"
	"marketplace/internal/repository"
	"marketplace/pkg/idgen"

	"gorm.io/gorm"
)

var (
	ErrNotInvoiceOwner    = errors.New("无权操作他人发票")
	ErrInvoiceNotEditable = errors.New("发票只有草稿状态可以编辑")
	ErrOrderNotInvoicable = errors.New("订单当前状态不能开票")
)

// InvoiceService 形式发票（PI）
// 卖家针对自己已确认的订单创建草稿账单，DRAFT 状态随意编辑，
// 开具后冻结。金额一律服务端重算
type InvoiceService struct {
	db          *gorm.DB
	invoiceRepo *repository.InvoiceRepository
	orderRepo   *repository.OrderRepository
}

func NewInvoiceService(db *gorm.DB) *InvoiceService {
	return &InvoiceService{
		db:          db,
		invoiceRepo: repository.NewInvoiceRepository(db),
		orderRepo:   repository.NewOrderRepository(db),
	}
}

type InvoiceItemInput struct {
	Description string `json:"description" binding:"required"`
	Quantity    int64  `json:"quantity" binding:"required,gt=0"`
	PricePaise  int64  `json:"price_paise" binding:"required,gt=0"`
}

type UpsertInvoiceRequest struct {
	OrderNo      string
	BuyerName    string
	BuyerAddress string
	BuyerGST     string
	TaxRateBps   int64
	Items        []InvoiceItemInput
}

// Create 创建发票草稿
// 订单必须属于该卖家，且已被确认（PENDING/已取消/已超时的订单不能开票）
func (s *InvoiceService) Create(ctx context.Context, sellerID int64, req *UpsertInvoiceRequest) (*model.ProformaInvoice, error) {
	order, err := s.orderRepo.GetByOrderNo(ctx, req.OrderNo)
	if err != nil {
		return nil, err
	}
	if order.SellerID != sellerID {
		return nil, ErrNotOrderSeller
	}
	switch order.Status {
	case model.OrderStatusPending, model.OrderStatusCancelled, model.OrderStatusExpired:
		return nil, ErrOrderNotInvoicable
	}

	items := buildInvoiceItems(req.Items)
	subtotal, tax, total := model.ComputeInvoiceTotals(items, req.TaxRateBps)

	invoice := &model.ProformaInvoice{
		SellerID:      sellerID,
		OrderNo:       req.OrderNo,
		BuyerName:     req.BuyerName,
		BuyerAddress:  req.BuyerAddress,
		BuyerGST:      req.BuyerGST,
		TaxRateBps:    req.TaxRateBps,
		SubtotalPaise: subtotal,
		TaxPaise:      tax,
		TotalPaise:    total,
		Status:        model.InvoiceStatusDraft,
		Items:         items,
	}
	if err := s.invoiceRepo.Create(ctx, nil, invoice); err != nil {
		return nil, err
	}
	return invoice, nil
}

// Update 编辑草稿，整体覆盖买家信息与行项目
func (s *InvoiceService) Update(ctx context.Context, sellerID, invoiceID int64, req *UpsertInvoiceRequest) (*model.ProformaInvoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.SellerID != sellerID {
		return nil, ErrNotInvoiceOwner
	}
	if invoice.Status != model.InvoiceStatusDraft {
		return nil, ErrInvoiceNotEditable
	}

	items := buildInvoiceItems(req.Items)
	subtotal, tax, total := model.ComputeInvoiceTotals(items, req.TaxRateBps)

	invoice.BuyerName = req.BuyerName
	invoice.BuyerAddress = req.BuyerAddress
	invoice.BuyerGST = req.BuyerGST
	invoice.TaxRateBps = req.TaxRateBps
	invoice.SubtotalPaise = subtotal
	invoice.TaxPaise = tax
	invoice.TotalPaise = total

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.invoiceRepo.Save(ctx, tx, invoice); err != nil {
			return err
		}
		return s.invoiceRepo.ReplaceItems(ctx, tx, invoice.ID, items)
	})
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// Issue 开具发票 DRAFT -> ISSUED，分配正式编号并冻结
func (s *InvoiceService) Issue(ctx context.Context, sellerID, invoiceID int64) (*model.ProformaInvoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.SellerID != sellerID {
		return nil, ErrNotInvoiceOwner
	}

	err = s.invoiceRepo.UpdateStatus(ctx, invoiceID, model.InvoiceStatusDraft, model.InvoiceStatusIssued, idgen.GenerateInvoiceNo())
	if err != nil {
		return nil, err
	}
	return s.invoiceRepo.GetByID(ctx, invoiceID)
}

// Cancel 作废发票，DRAFT/ISSUED 均可
func (s *InvoiceService) Cancel(ctx context.Context, sellerID, invoiceID int64) error {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return err
	}
	if invoice.SellerID != sellerID {
		return ErrNotInvoiceOwner
	}

	return s.invoiceRepo.UpdateStatus(ctx, invoiceID, invoice.Status, model.InvoiceStatusCancelled, "")
}

func (s *InvoiceService) Get(ctx context.Context, sellerID, invoiceID int64) (*model.ProformaInvoice, error) {
	invoice, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if invoice.SellerID != sellerID {
		return nil, ErrNotInvoiceOwner
	}
	return invoice, nil
}

func (s *InvoiceService) List(ctx context.Context, sellerID int64, status string, page, pageSize int) ([]*model.ProformaInvoice, int64, error) {
	return s.invoiceRepo.ListBySeller(ctx, sellerID, status, page, pageSize)
}

func buildInvoiceItems(inputs []InvoiceItemInput) []model.InvoiceItem {
	items := make([]model.InvoiceItem, 0, len(inputs))
	for _, in := range inputs {
		items = append(items, model.InvoiceItem{
			Description: in.Description,
			Quantity:    in.Quantity,
			PricePaise:  in.PricePaise,
		})
	}
	return items
}
