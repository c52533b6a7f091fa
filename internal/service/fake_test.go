package service

import (
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mmeshcher/gymstore/internal/events"
	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/repository"
)

// memRepo повторяет семантику условных обновлений PostgresRepository в памяти.
// Методы, не нужные тестам жизненного цикла, не реализованы.
type memRepo struct {
	Repository

	mu       sync.Mutex
	products map[string]model.Product
	carts    map[string][]model.CartItem
	orders   map[string]*model.Order
	seq      int
	otpSets  int
}

func newMemRepo() *memRepo {
	return &memRepo{
		products: map[string]model.Product{},
		carts:    map[string][]model.CartItem{},
		orders:   map[string]*model.Order{},
	}
}

func (r *memRepo) Close() error { return nil }

func (r *memRepo) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.products[id]
	if !ok {
		return nil, fmt.Errorf("product %s: %w", id, repository.ErrNotFound)
	}
	return &p, nil
}

func (r *memRepo) GetCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cartLocked(userID), nil
}

func (r *memRepo) cartLocked(userID string) []model.CartItem {
	items := []model.CartItem{}
	for _, it := range r.carts[userID] {
		if p, ok := r.products[it.ProductID]; ok {
			it.Product = &p
		} else {
			it.Product = nil
		}
		items = append(items, it)
	}
	return items
}

func (r *memRepo) AddCartItem(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, it := range r.carts[userID] {
		if it.ProductID == productID {
			return nil
		}
	}
	r.carts[userID] = append(r.carts[userID], model.CartItem{ProductID: productID, Quantity: 1})
	return nil
}

func (r *memRepo) UpdateCartItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, it := range r.carts[userID] {
		if it.ProductID == productID {
			r.carts[userID][i].Quantity = quantity
			return nil
		}
	}
	return fmt.Errorf("cart item %s: %w", productID, repository.ErrNotFound)
}

func (r *memRepo) RemoveCartItem(ctx context.Context, userID, productID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	items, ok := r.carts[userID]
	if !ok {
		return nil
	}
	r.carts[userID] = slices.DeleteFunc(items, func(it model.CartItem) bool {
		return it.ProductID == productID
	})
	return nil
}

func (r *memRepo) CreateOrderFromCart(ctx context.Context, o model.NewOrder, snapshot repository.SnapshotFunc) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.carts[o.UserID]; !ok {
		return nil, repository.ErrEmptyCart
	}
	items, err := snapshot(r.cartLocked(o.UserID))
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, repository.ErrEmptyCart
	}

	r.seq++
	otp := o.DeliveryOTP
	order := &model.Order{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         items,
		Address:       o.Address,
		Amount:        o.Amount,
		PaymentMethod: o.PaymentMethod,
		PaymentData:   o.PaymentData,
		DeliveryOTP:   &otp,
		Status:        model.OrderStatusPlaced,
		CreatedAt:     time.Unix(int64(r.seq), 0),
	}
	r.orders[o.ID] = order
	r.carts[o.UserID] = []model.CartItem{}

	res := *order
	return &res, nil
}

func (r *memRepo) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[id]
	if !ok {
		return nil, fmt.Errorf("order %s: %w", id, repository.ErrNotFound)
	}
	res := *o
	return &res, nil
}

func (r *memRepo) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	res := []model.Order{}
	for _, o := range r.orders {
		if o.UserID == userID {
			res = append(res, *o)
		}
	}
	slices.SortFunc(res, func(a, b model.Order) int { return b.CreatedAt.Compare(a.CreatedAt) })
	return res, nil
}

func (r *memRepo) SetDeliveryOTPIfMissing(ctx context.Context, orderID, otp string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return "", fmt.Errorf("order %s: %w", orderID, repository.ErrNotFound)
	}
	if o.DeliveryOTP == nil || *o.DeliveryOTP == "" {
		o.DeliveryOTP = &otp
		r.otpSets++
	}
	return *o.DeliveryOTP, nil
}

func (r *memRepo) UpdateOrderAddress(ctx context.Context, orderID string, address model.Address, locked []model.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, repository.ErrNotFound)
	}
	if slices.Contains(locked, o.Status) {
		return repository.ErrStatusMismatch
	}
	o.Address = address
	return nil
}

func (r *memRepo) TransitionOrderStatus(ctx context.Context, orderID string, from []model.OrderStatus, to model.OrderStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, repository.ErrNotFound)
	}
	if len(from) > 0 && !slices.Contains(from, o.Status) {
		return repository.ErrStatusMismatch
	}
	o.Status = to
	now := time.Now()
	o.CancelledAt, o.DeliveredAt = nil, nil
	switch to {
	case model.OrderStatusCancelled:
		o.CancelledAt = &now
	case model.OrderStatusDelivered:
		o.DeliveredAt = &now
	}
	return nil
}

func (r *memRepo) AssignDeliveryBoy(ctx context.Context, orderID, deliveryBoyID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, repository.ErrNotFound)
	}
	o.DeliveryBoyID = &deliveryBoyID
	return nil
}

func (r *memRepo) CompleteDelivery(ctx context.Context, orderID, otp string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	o, ok := r.orders[orderID]
	if !ok {
		return fmt.Errorf("order %s: %w", orderID, repository.ErrNotFound)
	}
	if o.DeliveryOTP == nil || *o.DeliveryOTP != otp {
		return repository.ErrOTPMismatch
	}
	now := time.Now()
	o.Status = model.OrderStatusDelivered
	o.DeliveredAt = &now
	o.CancelledAt = nil
	return nil
}

func (r *memRepo) HasDeliveredOrderWithProduct(ctx context.Context, userID, productID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, o := range r.orders {
		if o.UserID != userID || o.Status != model.OrderStatusDelivered {
			continue
		}
		for _, it := range o.Items {
			if it.ProductID == productID {
				return true, nil
			}
		}
	}
	return false, nil
}

// putOrder кладёт заказ напрямую, минуя оформление.
func (r *memRepo) putOrder(o model.Order) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	if o.CreatedAt.IsZero() {
		o.CreatedAt = time.Unix(int64(r.seq), 0)
	}
	r.orders[o.ID] = &o
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.OrderEvent
	err    error
}

func (p *recordingPublisher) Publish(ctx context.Context, e events.OrderEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return p.err
}

func (p *recordingPublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	res := make([]events.Type, len(p.events))
	for i, e := range p.events {
		res[i] = e.Type
	}
	return res
}
