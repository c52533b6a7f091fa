package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/events"
	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/repository"
	"github.com/mmeshcher/gymstore/internal/validation"
)

// CreateOrderInput описывает данные для оформления заказа из корзины.
type CreateOrderInput struct {
	UserID        string
	Address       model.Address
	Amount        decimal.Decimal
	PaymentMethod model.PaymentMethod
	PaymentData   map[string]any
}

// CreateOrder оформляет заказ из корзины пользователя. Позиции удалённых товаров
// отбрасываются; если не осталось ни одной, возвращается ErrEmptyCart без записи.
func (s *Service) CreateOrder(ctx context.Context, in CreateOrderInput) (*model.Order, error) {
	if err := requireID("userId", in.UserID); err != nil {
		return nil, err
	}
	if in.PaymentMethod == "" {
		in.PaymentMethod = model.PaymentCOD
	}
	if !in.PaymentMethod.Valid() {
		return nil, validationErr("unknown payment method %q", in.PaymentMethod)
	}
	if in.Amount.IsNegative() {
		return nil, validationErr("amount must not be negative")
	}
	if err := validateAddress(in.Address); err != nil {
		return nil, err
	}

	otp, err := s.newOTP()
	if err != nil {
		return nil, err
	}

	order, err := s.repo.CreateOrderFromCart(ctx, model.NewOrder{
		ID:            s.newID(),
		UserID:        in.UserID,
		Address:       in.Address,
		Amount:        in.Amount,
		PaymentMethod: in.PaymentMethod,
		PaymentData:   in.PaymentData,
		DeliveryOTP:   otp,
	}, snapshotCart)
	if err != nil {
		return nil, err
	}

	s.logger.Info("delivery otp issued",
		zap.String("orderID", order.ID),
		zap.String("userID", order.UserID),
		zap.String("otp", otp),
	)

	s.publish(events.OrderEvent{
		Type:    events.OrderCreated,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  string(order.Status),
		Amount:  order.Amount.StringFixed(2),
	})

	return order, nil
}

// snapshotCart фиксирует позиции корзины в позиции заказа, пропуская удалённые товары.
func snapshotCart(items []model.CartItem) ([]model.OrderItem, error) {
	res := make([]model.OrderItem, 0, len(items))
	for _, it := range items {
		if it.Product == nil {
			continue
		}

		oi := model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Product.Name,
			Price:     it.Product.Price,
			Quantity:  it.Quantity,
		}
		if img := CleanImagePath(it.Product.FirstImage()); img != "" {
			oi.Image = &img
		}
		res = append(res, oi)
	}
	return res, nil
}

// ListUserOrders возвращает заказы пользователя. Заказам без кода доставки
// код генерируется и сохраняется при чтении.
func (s *Service) ListUserOrders(ctx context.Context, userID string) ([]model.Order, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}

	orders, err := s.repo.ListOrdersByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	for i := range orders {
		if orders[i].DeliveryOTP != nil && *orders[i].DeliveryOTP != "" {
			continue
		}

		otp, err := s.newOTP()
		if err != nil {
			return nil, err
		}
		stored, err := s.repo.SetDeliveryOTPIfMissing(ctx, orders[i].ID, otp)
		if err != nil {
			return nil, fmt.Errorf("backfill otp for order %s: %w", orders[i].ID, err)
		}

		s.logger.Warn("delivery otp backfilled",
			zap.String("orderID", orders[i].ID),
			zap.String("otp", stored),
		)
		orders[i].DeliveryOTP = &stored
	}

	return orders, nil
}

// ListDeliveryBoyOrders возвращает заказы, назначенные курьеру.
func (s *Service) ListDeliveryBoyOrders(ctx context.Context, deliveryBoyID string) ([]model.Order, error) {
	if err := requireID("deliveryBoyId", deliveryBoyID); err != nil {
		return nil, err
	}
	return s.repo.ListOrdersByDeliveryBoy(ctx, deliveryBoyID)
}

// ListAllOrders возвращает все заказы магазина.
func (s *Service) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	return s.repo.ListAllOrders(ctx)
}

// GetOrder возвращает заказ по идентификатору.
func (s *Service) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}
	return s.repo.GetOrder(ctx, orderID)
}

// UpdateOrderAddress полностью заменяет адрес доставки, пока заказ не передан курьеру.
func (s *Service) UpdateOrderAddress(ctx context.Context, orderID string, address model.Address) (*model.Order, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}
	if err := validateAddress(address); err != nil {
		return nil, err
	}

	err := s.repo.UpdateOrderAddress(ctx, orderID, address, model.AddressLockedStatuses)
	if err != nil {
		return nil, mapOrderErr(err, "address can no longer be changed")
	}

	return s.repo.GetOrder(ctx, orderID)
}

// CancelOrder отменяет заказ, находящийся в статусе placed.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}

	err := s.repo.TransitionOrderStatus(ctx, orderID,
		[]model.OrderStatus{model.OrderStatusPlaced}, model.OrderStatusCancelled)
	if err != nil {
		return nil, mapOrderErr(err, "only placed orders can be cancelled")
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.publish(events.OrderEvent{
		Type:    events.OrderCancelled,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  string(order.Status),
	})
	return order, nil
}

// AdvanceOrderStatus выполняет штатный переход статуса по таблице переходов.
// Переход применяется, только если текущий статус допускает его на момент записи.
func (s *Service) AdvanceOrderStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}
	if !next.Valid() {
		return nil, validationErr("unknown status %q", next)
	}

	from := model.PredecessorsOf(next)
	if len(from) == 0 {
		return nil, fmt.Errorf("%w: %s is not reachable", ErrInvalidStateTransition, next)
	}

	if err := s.repo.TransitionOrderStatus(ctx, orderID, from, next); err != nil {
		return nil, mapOrderErr(err, fmt.Sprintf("cannot move order to %s", next))
	}

	return s.statusChanged(ctx, orderID)
}

// SetOrderStatus устанавливает любой допустимый статус независимо от текущего.
// Административный обход таблицы переходов.
func (s *Service) SetOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, validationErr("unknown status %q", status)
	}

	if err := s.repo.TransitionOrderStatus(ctx, orderID, nil, status); err != nil {
		return nil, mapOrderErr(err, "status update rejected")
	}

	return s.statusChanged(ctx, orderID)
}

func (s *Service) statusChanged(ctx context.Context, orderID string) (*model.Order, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.publish(events.OrderEvent{
		Type:    events.OrderStatus,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  string(order.Status),
	})
	return order, nil
}

// AssignDeliveryBoy назначает заказу курьера. Роль и одобрение курьера не проверяются.
func (s *Service) AssignDeliveryBoy(ctx context.Context, orderID, deliveryBoyID string) (*model.Order, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}
	if err := requireID("deliveryBoyId", deliveryBoyID); err != nil {
		return nil, err
	}

	if err := s.repo.AssignDeliveryBoy(ctx, orderID, deliveryBoyID); err != nil {
		return nil, err
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	s.publish(events.OrderEvent{
		Type:          events.OrderAssigned,
		OrderID:       order.ID,
		UserID:        order.UserID,
		Status:        string(order.Status),
		DeliveryBoyID: deliveryBoyID,
	})
	return order, nil
}

// VerifyDeliveryOTP завершает доставку при точном совпадении кода.
// Повторная проверка тем же кодом снова успешна.
func (s *Service) VerifyDeliveryOTP(ctx context.Context, orderID, otp string) (*model.Order, error) {
	if err := requireOrderID(orderID); err != nil {
		return nil, err
	}
	if otp == "" {
		return nil, fmt.Errorf("%w: otp is required", ErrInvalidOTP)
	}
	if !validation.IsValidOTP(otp) {
		return nil, ErrInvalidOTP
	}

	if err := s.repo.CompleteDelivery(ctx, orderID, otp); err != nil {
		return nil, mapOrderErr(err, "")
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	event := events.OrderEvent{
		Type:    events.OrderDelivered,
		OrderID: order.ID,
		UserID:  order.UserID,
		Status:  string(order.Status),
	}
	if order.DeliveryBoyID != nil {
		event.DeliveryBoyID = *order.DeliveryBoyID
	}
	s.publish(event)

	return order, nil
}

// HasBought сообщает, получал ли пользователь заказ с указанным товаром.
func (s *Service) HasBought(ctx context.Context, userID, productID string) (bool, error) {
	if err := requireID("userId", userID); err != nil {
		return false, err
	}
	if err := requireID("productId", productID); err != nil {
		return false, err
	}
	return s.repo.HasDeliveredOrderWithProduct(ctx, userID, productID)
}

func validateAddress(a model.Address) error {
	if missing := validation.MissingAddressFields(a); len(missing) > 0 {
		return validationErr("missing address fields: %s", strings.Join(missing, ", "))
	}
	if !validation.IsValidAddressType(a.Type) {
		return validationErr("address type must be home or work")
	}
	return nil
}

func requireOrderID(orderID string) error {
	if !validation.IsValidID(orderID) {
		return validationErr("invalid order id %q", orderID)
	}
	return nil
}

// mapOrderErr переводит ошибки условных обновлений репозитория в ошибки сервиса.
func mapOrderErr(err error, conflict string) error {
	switch {
	case errors.Is(err, repository.ErrStatusMismatch):
		return fmt.Errorf("%w: %s", ErrInvalidStateTransition, conflict)
	case errors.Is(err, repository.ErrOTPMismatch):
		return fmt.Errorf("%w: otp does not match", ErrInvalidOTP)
	}
	return err
}
