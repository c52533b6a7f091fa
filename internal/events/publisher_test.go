package events

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestOrderEvent_Subject(t *testing.T) {
	assert.Equal(t, "orders.created", OrderEvent{Type: OrderCreated}.Subject())
	assert.Equal(t, "orders.delivered", OrderEvent{Type: OrderDelivered}.Subject())
}

func TestOrderEvent_JSON(t *testing.T) {
	at := time.Date(2026, 10, 1, 12, 0, 0, 0, time.UTC)
	data, err := json.Marshal(OrderEvent{
		Type:       OrderStatus,
		OrderID:    "o1",
		Status:     "shipped",
		OccurredAt: at,
	})
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "status", got["type"])
	assert.Equal(t, "o1", got["orderId"])
	assert.Equal(t, "shipped", got["status"])
	assert.NotContains(t, got, "deliveryBoyId")
}

func TestNoopPublisher(t *testing.T) {
	var p NoopPublisher
	assert.NoError(t, p.Publish(context.Background(), OrderEvent{Type: OrderCreated}))
	p.Close()
}

func TestConnect_Unreachable(t *testing.T) {
	_, err := Connect("nats://127.0.0.1:1", zap.NewNop(), 1, 0)
	assert.Error(t, err)
}
