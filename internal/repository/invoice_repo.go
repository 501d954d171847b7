package repository

import (
	"context"
	"errors"
	"time"

	"marketplace/internal/model"

	"gorm.io/gorm"
)

var (
	ErrInvoiceNotFound      = errors.New("发票不存在")
	ErrInvoiceStatusInvalid = errors.New("发票状态不合法")
)

type InvoiceRepository struct {
	db *gorm.DB
}

func NewInvoiceRepository(db *gorm.DB) *InvoiceRepository {
	return &InvoiceRepository{db: db}
}

func (r *InvoiceRepository) Create(ctx context.Context, tx *gorm.DB, invoice *model.ProformaInvoice) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Create(invoice).Error
}

func (r *InvoiceRepository) GetByID(ctx context.Context, id int64) (*model.ProformaInvoice, error) {
	var invoice model.ProformaInvoice
	err := r.db.WithContext(ctx).Preload("Items").First(&invoice, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvoiceNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// ReplaceItems 整体替换行项目（仅 DRAFT 可编辑，由 service 层把关）
func (r *InvoiceRepository) ReplaceItems(ctx context.Context, tx *gorm.DB, invoiceID int64, items []model.InvoiceItem) error {
	if tx == nil {
		tx = r.db
	}

	if err := tx.WithContext(ctx).Where("invoice_id = ?", invoiceID).Delete(&model.InvoiceItem{}).Error; err != nil {
		return err
	}
	for i := range items {
		items[i].ID = 0
		items[i].InvoiceID = invoiceID
	}
	if len(items) == 0 {
		return nil
	}
	return tx.WithContext(ctx).Create(&items).Error
}

func (r *InvoiceRepository) Save(ctx context.Context, tx *gorm.DB, invoice *model.ProformaInvoice) error {
	if tx == nil {
		tx = r.db
	}
	return tx.WithContext(ctx).Omit("Items").Save(invoice).Error
}

// UpdateStatus 条件流转发票状态
// ISSUED 时分配正式编号、记录开具时间
func (r *InvoiceRepository) UpdateStatus(ctx context.Context, invoiceID int64, fromStatus, toStatus, invoiceNo string) error {
	if !model.CanInvoiceTransitionTo(fromStatus, toStatus) {
		return ErrInvoiceStatusInvalid
	}

	updates := map[string]interface{}{
		"status": toStatus,
	}
	if toStatus == model.InvoiceStatusIssued {
		now := time.Now()
		updates["invoice_no"] = invoiceNo
		updates["issued_at"] = &now
	}

	result := r.db.WithContext(ctx).
		Model(&model.ProformaInvoice{}).
		Where("id = ? AND status = ?", invoiceID, fromStatus).
		Updates(updates)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvoiceStatusInvalid
	}
	return nil
}

func (r *InvoiceRepository) ListBySeller(ctx context.Context, sellerID int64, status string, page, pageSize int) ([]*model.ProformaInvoice, int64, error) {
	var invoices []*model.ProformaInvoice
	var total int64

	query := r.db.WithContext(ctx).Model(&model.ProformaInvoice{}).Where("seller_id = ?", sellerID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&invoices).Error

	return invoices, total, err
}
