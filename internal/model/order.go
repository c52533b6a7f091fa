package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// OrderStatus описывает стадию жизненного цикла заказа.
type OrderStatus string

const (
	OrderStatusPlaced         OrderStatus = "placed"
	OrderStatusShipped        OrderStatus = "shipped"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// OrderStatuses перечисляет все допустимые статусы заказа.
var OrderStatuses = []OrderStatus{
	OrderStatusPlaced,
	OrderStatusShipped,
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// Valid сообщает, входит ли статус в допустимый набор.
func (s OrderStatus) Valid() bool {
	for _, v := range OrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderStatusPlaced:         {OrderStatusShipped, OrderStatusCancelled},
	OrderStatusShipped:        {OrderStatusOutForDelivery},
	OrderStatusOutForDelivery: {OrderStatusDelivered},
}

// CanTransitionTo сообщает, разрешён ли штатный переход из s в next.
// Административное переопределение статуса этой таблицей не ограничено.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, v := range orderTransitions[s] {
		if v == next {
			return true
		}
	}
	return false
}

// PredecessorsOf возвращает статусы, из которых штатно достижим next.
func PredecessorsOf(next OrderStatus) []OrderStatus {
	var res []OrderStatus
	for _, from := range OrderStatuses {
		if from.CanTransitionTo(next) {
			res = append(res, from)
		}
	}
	return res
}

// AddressLockedStatuses перечисляет статусы, в которых адрес изменить нельзя.
var AddressLockedStatuses = []OrderStatus{
	OrderStatusOutForDelivery,
	OrderStatusDelivered,
	OrderStatusCancelled,
}

// PaymentMethod описывает способ оплаты заказа.
type PaymentMethod string

const (
	PaymentCard     PaymentMethod = "card"
	PaymentCOD      PaymentMethod = "cod"
	PaymentUPI      PaymentMethod = "upi"
	PaymentTestCard PaymentMethod = "test_card"
	PaymentTestUPI  PaymentMethod = "test_upi"
)

// Valid сообщает, входит ли способ оплаты в допустимый набор.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCard, PaymentCOD, PaymentUPI, PaymentTestCard, PaymentTestUPI:
		return true
	}
	return false
}

// AddressType описывает тип адреса доставки.
type AddressType string

const (
	AddressHome AddressType = "home"
	AddressWork AddressType = "work"
)

// Address описывает адрес доставки. Хранится целиком в виде JSON.
type Address struct {
	FullName        string      `json:"fullName"`
	BuildingName    string      `json:"buildingName"`
	Mobile          string      `json:"mobile"`
	AlternateMobile string      `json:"alternateMobile,omitempty"`
	Pincode         string      `json:"pincode"`
	PostOffice      string      `json:"postOffice,omitempty"`
	City            string      `json:"city,omitempty"`
	District        string      `json:"district,omitempty"`
	State           string      `json:"state,omitempty"`
	Email           string      `json:"email,omitempty"`
	Type            AddressType `json:"type,omitempty"`
}

// OrderItem содержит копию позиции корзины, зафиксированную на момент покупки.
type OrderItem struct {
	ProductID string
	Name      string
	Price     decimal.Decimal
	Quantity  int
	Image     *string
}

// Order описывает заказ покупателя.
type Order struct {
	ID            string
	UserID        string
	Items         []OrderItem
	Address       Address
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	PaymentData   map[string]any
	DeliveryBoyID *string
	DeliveryOTP   *string
	Status        OrderStatus
	CancelledAt   *time.Time
	DeliveredAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time

	// Заполняются только в выборках с присоединением пользователей.
	Owner       *User
	DeliveryBoy *User
}

// NewOrder описывает данные для оформления заказа из корзины.
type NewOrder struct {
	ID            string
	UserID        string
	Address       Address
	Amount        decimal.Decimal
	PaymentMethod PaymentMethod
	PaymentData   map[string]any
	DeliveryOTP   string
}
