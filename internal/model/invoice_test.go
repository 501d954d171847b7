package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeInvoiceTotals(t *testing.T) {
	items := []InvoiceItem{
		{Description: "大米 5kg", Quantity: 2, PricePaise: 45000},
		{Description: "食用油 1L", Quantity: 1, PricePaise: 18000},
	}

	// 税率 18%（1800bps）
	subtotal, tax, total := ComputeInvoiceTotals(items, 1800)
	assert.Equal(t, int64(108000), subtotal)
	assert.Equal(t, int64(19440), tax)
	assert.Equal(t, int64(127440), total)
}

func TestComputeInvoiceTotalsZeroTax(t *testing.T) {
	items := []InvoiceItem{
		{Quantity: 3, PricePaise: 10000},
	}

	subtotal, tax, total := ComputeInvoiceTotals(items, 0)
	assert.Equal(t, int64(30000), subtotal)
	assert.Equal(t, int64(0), tax)
	assert.Equal(t, int64(30000), total)
}

func TestComputeInvoiceTotalsTaxFloor(t *testing.T) {
	// 99 paise * 1800bps = 17.82 -> 向下取整 17
	items := []InvoiceItem{{Quantity: 1, PricePaise: 99}}

	_, tax, _ := ComputeInvoiceTotals(items, 1800)
	assert.Equal(t, int64(17), tax)
}

func TestComputeInvoiceTotalsEmpty(t *testing.T) {
	subtotal, tax, total := ComputeInvoiceTotals(nil, 1800)
	assert.Zero(t, subtotal)
	assert.Zero(t, tax)
	assert.Zero(t, total)
}

func TestInvoiceTransitions(t *testing.T) {
	assert.True(t, CanInvoiceTransitionTo(InvoiceStatusDraft, InvoiceStatusIssued))
	assert.True(t, CanInvoiceTransitionTo(InvoiceStatusDraft, InvoiceStatusCancelled))
	assert.True(t, CanInvoiceTransitionTo(InvoiceStatusIssued, InvoiceStatusCancelled))

	// 开具后不能回到草稿
	assert.False(t, CanInvoiceTransitionTo(InvoiceStatusIssued, InvoiceStatusDraft))
	// 作废是终态
	assert.False(t, CanInvoiceTransitionTo(InvoiceStatusCancelled, InvoiceStatusDraft))
	assert.False(t, CanInvoiceTransitionTo(InvoiceStatusCancelled, InvoiceStatusIssued))
}
