// Package events публикует события жизненного цикла заказов в NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"
)

// Type описывает вид события заказа.
type Type string

const (
	OrderCreated   Type = "created"
	OrderStatus    Type = "status"
	OrderAssigned  Type = "assigned"
	OrderDelivered Type = "delivered"
	OrderCancelled Type = "cancelled"
)

const subjectPrefix = "orders."

// OrderEvent описывает событие по заказу.
type OrderEvent struct {
	Type          Type      `json:"type"`
	OrderID       string    `json:"orderId"`
	UserID        string    `json:"userId,omitempty"`
	Status        string    `json:"status,omitempty"`
	DeliveryBoyID string    `json:"deliveryBoyId,omitempty"`
	Amount        string    `json:"amount,omitempty"`
	OccurredAt    time.Time `json:"occurredAt"`
}

// Subject возвращает тему NATS для события.
func (e OrderEvent) Subject() string {
	return subjectPrefix + string(e.Type)
}

// NatsPublisher публикует события заказов в NATS.
type NatsPublisher struct {
	nc     *nats.Conn
	logger *zap.Logger
}

// Connect подключается к NATS, делая до attempts попыток с паузой delay.
func Connect(url string, logger *zap.Logger, attempts int, delay time.Duration) (*NatsPublisher, error) {
	var err error
	for i := 0; i < attempts; i++ {
		var nc *nats.Conn
		nc, err = nats.Connect(url,
			nats.Name("gymstore"),
			nats.MaxReconnects(5),
			nats.ReconnectWait(2*time.Second),
			nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
				logger.Warn("nats disconnected", zap.Error(err))
			}),
			nats.ReconnectHandler(func(nc *nats.Conn) {
				logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
			}),
		)
		if err == nil {
			logger.Info("connected to nats", zap.String("url", url))
			return &NatsPublisher{nc: nc, logger: logger}, nil
		}

		logger.Warn("nats connect failed", zap.Int("attempt", i+1), zap.Error(err))
		if i < attempts-1 {
			time.Sleep(delay)
		}
	}

	return nil, fmt.Errorf("connect to nats after %d attempts: %w", attempts, err)
}

// Publish отправляет событие и дожидается подтверждения сервером.
func (p *NatsPublisher) Publish(ctx context.Context, e OrderEvent) error {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	if err := p.nc.Publish(e.Subject(), data); err != nil {
		return fmt.Errorf("publish %s: %w", e.Subject(), err)
	}

	// FlushWithContext требует контекст с дедлайном.
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
	}

	if err := p.nc.FlushWithContext(ctx); err != nil {
		return fmt.Errorf("flush nats: %w", err)
	}

	return nil
}

// Close закрывает соединение с NATS.
func (p *NatsPublisher) Close() {
	if p.nc != nil && !p.nc.IsClosed() {
		p.nc.Close()
		p.logger.Info("nats connection closed")
	}
}

// NoopPublisher отбрасывает события. Используется, когда NATS не настроен.
type NoopPublisher struct{}

// Publish ничего не делает.
func (NoopPublisher) Publish(context.Context, OrderEvent) error { return nil }

// Close ничего не делает.
func (NoopPublisher) Close() {}
