package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOrderStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    string
		to      string
		allowed bool
	}{
		{"下单后确认", OrderStatusPending, OrderStatusConfirmed, true},
		{"下单后取消", OrderStatusPending, OrderStatusCancelled, true},
		{"下单后超时", OrderStatusPending, OrderStatusExpired, true},
		{"确认后认领", OrderStatusConfirmed, OrderStatusPicking, true},
		{"确认后取消", OrderStatusConfirmed, OrderStatusCancelled, true},
		{"拣货完成", OrderStatusPicking, OrderStatusPicked, true},
		{"拣货超时回退", OrderStatusPicking, OrderStatusConfirmed, true},
		{"开始配送", OrderStatusPicked, OrderStatusInTransit, true},
		{"配送送达", OrderStatusInTransit, OrderStatusDelivered, true},

		{"不能跳过确认直接拣货", OrderStatusPending, OrderStatusPicking, false},
		{"不能跳过拣货直接送达", OrderStatusConfirmed, OrderStatusDelivered, false},
		{"拣货中不能取消", OrderStatusPicking, OrderStatusCancelled, false},
		{"配送中不能取消", OrderStatusInTransit, OrderStatusCancelled, false},
		{"送达后不能回退", OrderStatusDelivered, OrderStatusInTransit, false},
		{"已取消不能恢复", OrderStatusCancelled, OrderStatusPending, false},
		{"已超时不能确认", OrderStatusExpired, OrderStatusConfirmed, false},
		{"未知状态", "UNKNOWN", OrderStatusConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransitionTo(tt.from, tt.to))
		})
	}
}

func TestIsTerminalStatus(t *testing.T) {
	assert.True(t, IsTerminalStatus(OrderStatusDelivered))
	assert.True(t, IsTerminalStatus(OrderStatusCancelled))
	assert.True(t, IsTerminalStatus(OrderStatusExpired))

	assert.False(t, IsTerminalStatus(OrderStatusPending))
	assert.False(t, IsTerminalStatus(OrderStatusConfirmed))
	assert.False(t, IsTerminalStatus(OrderStatusPicking))
	assert.False(t, IsTerminalStatus(OrderStatusPicked))
	assert.False(t, IsTerminalStatus(OrderStatusInTransit))
}
