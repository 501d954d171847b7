package model

import (
	"time"
)

// ============================================================================
// 形式发票（Proforma Invoice）
// ============================================================================
//
// 卖家针对买家订单开具的草稿账单。
// 只有 DRAFT 状态允许编辑；开具（ISSUED）后分配正式编号并冻结内容。

const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusIssued    = "ISSUED"
	InvoiceStatusCancelled = "CANCELLED"
)

var ValidInvoiceTransitions = map[string][]string{
	InvoiceStatusDraft:  {InvoiceStatusIssued, InvoiceStatusCancelled},
	InvoiceStatusIssued: {InvoiceStatusCancelled},
}

func CanInvoiceTransitionTo(currentStatus, targetStatus string) bool {
	allowed, exists := ValidInvoiceTransitions[currentStatus]
	if !exists {
		return false
	}
	for _, s := range allowed {
		if s == targetStatus {
			return true
		}
	}
	return false
}

// ProformaInvoice 形式发票
// 金额三项由服务端根据行项目与税率计算，客户端传入值一律忽略
type ProformaInvoice struct {
	ID            int64      `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceNo     string     `gorm:"type:varchar(64);uniqueIndex" json:"invoice_no,omitempty"` // ISSUED 时分配
	SellerID      int64      `gorm:"index;not null" json:"seller_id"`
	OrderNo       string     `gorm:"type:varchar(64);index;not null" json:"order_no"`
	BuyerName     string     `gorm:"type:varchar(128);not null" json:"buyer_name"`
	BuyerAddress  string     `gorm:"type:varchar(256)" json:"buyer_address"`
	BuyerGST      string     `gorm:"type:varchar(20)" json:"buyer_gst,omitempty"`
	TaxRateBps    int64      `gorm:"not null;default:0" json:"tax_rate_bps"`
	SubtotalPaise int64      `gorm:"not null;default:0" json:"subtotal_paise"`
	TaxPaise      int64      `gorm:"not null;default:0" json:"tax_paise"`
	TotalPaise    int64      `gorm:"not null;default:0" json:"total_paise"`
	Status        string     `gorm:"type:varchar(16);index;not null;default:DRAFT" json:"status"`
	IssuedAt      *time.Time `json:"issued_at,omitempty"`
	CreatedAt     time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	Items []InvoiceItem `gorm:"foreignKey:InvoiceID" json:"items,omitempty"`
}

func (ProformaInvoice) TableName() string {
	return "proforma_invoice"
}

// InvoiceItem 发票行项目
type InvoiceItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	InvoiceID   int64  `gorm:"index;not null" json:"invoice_id"`
	Description string `gorm:"type:varchar(256);not null" json:"description"`
	Quantity    int64  `gorm:"not null" json:"quantity"`
	PricePaise  int64  `gorm:"not null" json:"price_paise"`
}

func (InvoiceItem) TableName() string {
	return "invoice_item"
}

// ComputeInvoiceTotals 计算小计/税额/总计
// 税额 = 小计 * taxRateBps / 10000，向下取整
func ComputeInvoiceTotals(items []InvoiceItem, taxRateBps int64) (subtotal, tax, total int64) {
	for _, it := range items {
		subtotal += it.Quantity * it.PricePaise
	}
	tax = subtotal * taxRateBps / 10000
	total = subtotal + tax
	return subtotal, tax, total
}
