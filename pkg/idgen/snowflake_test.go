package idgen

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextIDUnique(t *testing.T) {
	Init(1)

	const n = 10000
	seen := make(map[int64]struct{}, n)
	for i := 0; i < n; i++ {
		id := NextID()
		_, dup := seen[id]
		assert.False(t, dup, "生成了重复 ID: %d", id)
		seen[id] = struct{}{}
	}
}

func TestNextIDConcurrent(t *testing.T) {
	Init(1)

	const goroutines = 10
	const perGoroutine = 1000

	var mu sync.Mutex
	seen := make(map[int64]struct{}, goroutines*perGoroutine)

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			ids := make([]int64, 0, perGoroutine)
			for i := 0; i < perGoroutine; i++ {
				ids = append(ids, NextID())
			}
			mu.Lock()
			defer mu.Unlock()
			for _, id := range ids {
				seen[id] = struct{}{}
			}
		}()
	}
	wg.Wait()

	assert.Len(t, seen, goroutines*perGoroutine)
}

func TestBusinessNumberFormat(t *testing.T) {
	tests := []struct {
		name   string
		gen    func() string
		prefix string
	}{
		{"订单号", GenerateOrderNo, "ORD"},
		{"收益流水号", GenerateEarningNo, "ERN"},
		{"提现单号", GeneratePayoutNo, "PYT"},
		{"发票编号", GenerateInvoiceNo, "PI"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			no := tt.gen()
			assert.True(t, strings.HasPrefix(no, tt.prefix))
			// 前缀 + 14位时间 + 8位序号
			assert.Len(t, no, len(tt.prefix)+14+8)
		})
	}
}

func TestBusinessNumberUnique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		no := GenerateOrderNo()
		_, dup := seen[no]
		assert.False(t, dup, "生成了重复订单号: %s", no)
		seen[no] = struct{}{}
	}
}
