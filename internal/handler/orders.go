package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/service"
)

type createOrderRequest struct {
	UserID        string          `json:"userId"`
	Address       model.Address   `json:"address"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentMethod string          `json:"paymentMethod"`
	PaymentData   map[string]any  `json:"paymentData"`
}

// CreateOrder оформляет заказ из корзины пользователя.
func (h *Handler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "create order", err)
		return
	}
	userID := requestUserID(r, req.UserID)

	order, err := h.service.CreateOrder(r.Context(), service.CreateOrderInput{
		UserID:        userID,
		Address:       req.Address,
		Amount:        req.Amount,
		PaymentMethod: model.PaymentMethod(req.PaymentMethod),
		PaymentData:   req.PaymentData,
	})
	if err != nil {
		h.writeError(w, r, "create order", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusCreated, h.toOrder(*order, true))
}

// ListUserOrders возвращает заказы пользователя, новые первыми.
func (h *Handler) ListUserOrders(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "id")

	orders, err := h.service.ListUserOrders(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, "list user orders", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrders(orders, true))
}

// ListDeliveryBoyOrders возвращает заказы, назначенные курьеру. Код доставки
// курьеру не показывается: его сообщает покупатель.
func (h *Handler) ListDeliveryBoyOrders(w http.ResponseWriter, r *http.Request) {
	deliveryBoyID := chi.URLParam(r, "id")

	orders, err := h.service.ListDeliveryBoyOrders(r.Context(), deliveryBoyID)
	if err != nil {
		h.writeError(w, r, "list delivery boy orders", err, zap.String("deliveryBoyID", deliveryBoyID))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrders(orders, false))
}

// ListAllOrders возвращает все заказы для администратора.
func (h *Handler) ListAllOrders(w http.ResponseWriter, r *http.Request) {
	orders, err := h.service.ListAllOrders(r.Context())
	if err != nil {
		h.writeError(w, r, "list all orders", err)
		return
	}
	writeJSON(w, http.StatusOK, h.toOrders(orders, true))
}

// GetOrder возвращает заказ по идентификатору.
func (h *Handler) GetOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.service.GetOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "get order", err, zap.String("orderID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrder(*order, true))
}

type addressRequest struct {
	Address model.Address `json:"address"`
}

// UpdateOrderAddress меняет адрес доставки, пока заказ не передан курьеру.
func (h *Handler) UpdateOrderAddress(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req addressRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "update order address", err)
		return
	}

	order, err := h.service.UpdateOrderAddress(r.Context(), id, req.Address)
	if err != nil {
		h.writeError(w, r, "update order address", err, zap.String("orderID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrder(*order, true))
}

// CancelOrder отменяет заказ в статусе placed.
func (h *Handler) CancelOrder(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	order, err := h.service.CancelOrder(r.Context(), id)
	if err != nil {
		h.writeError(w, r, "cancel order", err, zap.String("orderID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrder(*order, true))
}

type statusRequest struct {
	Status string `json:"status"`
}

// AdvanceOrderStatus переводит заказ в следующий статус по таблице переходов.
func (h *Handler) AdvanceOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "advance order status", err)
		return
	}

	order, err := h.service.AdvanceOrderStatus(r.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		h.writeError(w, r, "advance order status", err, zap.String("orderID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrder(*order, true))
}

// SetOrderStatus устанавливает статус заказа в обход таблицы переходов.
func (h *Handler) SetOrderStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req statusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "set order status", err)
		return
	}

	order, err := h.service.SetOrderStatus(r.Context(), id, model.OrderStatus(req.Status))
	if err != nil {
		h.writeError(w, r, "set order status", err, zap.String("orderID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrder(*order, true))
}

type assignRequest struct {
	DeliveryBoyID string `json:"deliveryBoyId"`
}

// AssignDeliveryBoy назначает курьера на заказ.
func (h *Handler) AssignDeliveryBoy(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req assignRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "assign delivery boy", err)
		return
	}

	order, err := h.service.AssignDeliveryBoy(r.Context(), id, req.DeliveryBoyID)
	if err != nil {
		h.writeError(w, r, "assign delivery boy", err, zap.String("orderID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrder(*order, true))
}

type otpRequest struct {
	OTP string `json:"otp"`
}

// VerifyDeliveryOTP подтверждает доставку по коду покупателя.
func (h *Handler) VerifyDeliveryOTP(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req otpRequest
	if err := decodeJSON(r, &req); err != nil {
		h.writeError(w, r, "verify delivery otp", err)
		return
	}

	order, err := h.service.VerifyDeliveryOTP(r.Context(), id, req.OTP)
	if err != nil {
		h.writeError(w, r, "verify delivery otp", err, zap.String("orderID", id))
		return
	}
	writeJSON(w, http.StatusOK, h.toOrder(*order, false))
}

// HasBought сообщает, получал ли пользователь товар в доставленном заказе.
func (h *Handler) HasBought(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userId")
	productID := chi.URLParam(r, "productId")

	bought, err := h.service.HasBought(r.Context(), userID, productID)
	if err != nil {
		h.writeError(w, r, "has bought", err, zap.String("userID", userID))
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"hasBought": bought})
}
