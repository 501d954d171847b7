package service

import (
	"encoding/json"
	"testing"

	"marketplace/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEventPayload(t *testing.T, msg *model.OutboxMessage) map[string]interface{} {
	t.Helper()
	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &payload))
	return payload
}

func TestOrderEventMessageFields(t *testing.T) {
	order := &model.Order{
		OrderNo:    "ORD20260831000001",
		CustomerID: 101,
		SellerID:   202,
		Status:     model.OrderStatusConfirmed,
		TotalPaise: 50000,
	}
	msg := orderEventMessage("marketplace.order.events", order, model.EventOrderStatusChanged)

	assert.Equal(t, "ORD20260831000001", msg.MessageKey)
	assert.Equal(t, "marketplace.order.events", msg.Topic)
	assert.Equal(t, model.OutboxStatusPending, msg.Status)

	payload := decodeEventPayload(t, msg)
	assert.Equal(t, model.EventOrderStatusChanged, payload["event"])
	assert.Equal(t, "ORD20260831000001", payload["order_no"])
	assert.Equal(t, float64(50000), payload["total_paise"])
}

// 认领/释放路径先改快照上的状态再生成事件
// 事件记录的必须是流转后的状态，而不是事务快照里认领前的旧值
func TestOrderEventMessageUsesTransitionedStatus(t *testing.T) {
	partnerID := int64(303)

	// 认领：CONFIRMED 快照 -> PICKING 事件
	order := &model.Order{
		OrderNo:    "ORD20260831000002",
		CustomerID: 101,
		SellerID:   202,
		Status:     model.OrderStatusConfirmed,
		TotalPaise: 30000,
	}
	order.Status = model.OrderStatusPicking
	order.PickerID = &partnerID
	payload := decodeEventPayload(t, orderEventMessage("marketplace.order.events", order, model.EventOrderStatusChanged))
	assert.Equal(t, model.OrderStatusPicking, payload["status"])

	// 释放：PICKING 快照 -> CONFIRMED 事件
	order.Status = model.OrderStatusConfirmed
	order.PickerID = nil
	payload = decodeEventPayload(t, orderEventMessage("marketplace.order.events", order, model.EventOrderStatusChanged))
	assert.Equal(t, model.OrderStatusConfirmed, payload["status"])
}
