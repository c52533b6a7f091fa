// Package handler содержит HTTP-обработчики API магазина.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/middleware"
	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/service"
)

// Service определяет контракт бизнес-логики, используемой HTTP-обработчиками.
type Service interface {
	Ping(ctx context.Context) error
	ImageURL(path string) *string

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, in service.ProductInput) (*model.Product, error)
	UpdateProduct(ctx context.Context, id string, in service.ProductInput) (*model.Product, error)
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, name string) (*model.Category, error)
	DeleteCategory(ctx context.Context, id string) error

	GetCart(ctx context.Context, userID string) ([]model.CartItem, error)
	AddToCart(ctx context.Context, userID, productID string) ([]model.CartItem, error)
	UpdateCartQuantity(ctx context.Context, userID, productID string, quantity int) ([]model.CartItem, error)
	RemoveFromCart(ctx context.Context, userID, productID string) ([]model.CartItem, error)

	CreateOrder(ctx context.Context, in service.CreateOrderInput) (*model.Order, error)
	ListUserOrders(ctx context.Context, userID string) ([]model.Order, error)
	ListDeliveryBoyOrders(ctx context.Context, deliveryBoyID string) ([]model.Order, error)
	ListAllOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, orderID string) (*model.Order, error)
	UpdateOrderAddress(ctx context.Context, orderID string, address model.Address) (*model.Order, error)
	CancelOrder(ctx context.Context, orderID string) (*model.Order, error)
	AdvanceOrderStatus(ctx context.Context, orderID string, next model.OrderStatus) (*model.Order, error)
	SetOrderStatus(ctx context.Context, orderID string, status model.OrderStatus) (*model.Order, error)
	AssignDeliveryBoy(ctx context.Context, orderID, deliveryBoyID string) (*model.Order, error)
	VerifyDeliveryOTP(ctx context.Context, orderID, otp string) (*model.Order, error)
	HasBought(ctx context.Context, userID, productID string) (bool, error)

	RegisterUser(ctx context.Context, in service.UserInput) (*model.User, error)
	RegisterDeliveryBoy(ctx context.Context, in service.UserInput) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	UpdateUser(ctx context.Context, id string, in service.UserInput) (*model.User, error)
	ToggleUserDisabled(ctx context.Context, id string) (bool, error)
	ListPendingDeliveryBoys(ctx context.Context) ([]model.User, error)
	ListApprovedDeliveryBoys(ctx context.Context) ([]model.User, error)
	ApproveDeliveryBoy(ctx context.Context, id, adminID string) (*model.User, error)
	RejectDeliveryBoy(ctx context.Context, id, adminID, reason string) (*model.User, error)

	ListWishlist(ctx context.Context, userID string) ([]model.WishlistItem, error)
	AddToWishlist(ctx context.Context, userID, productID string) error
	RemoveFromWishlist(ctx context.Context, userID, productID string) error
	IsWished(ctx context.Context, userID, productID string) (bool, error)
	ToggleWishlist(ctx context.Context, userID, productID string) (bool, error)

	ListReviews(ctx context.Context, productID string) ([]model.Review, error)
	CreateReview(ctx context.Context, in service.ReviewInput) (*model.Review, error)
	DeleteReview(ctx context.Context, id string) error

	ListWorkouts(ctx context.Context) ([]model.Workout, error)
	GetWorkout(ctx context.Context, id string) (*model.Workout, error)
	CreateWorkout(ctx context.Context, in service.WorkoutInput) (*model.Workout, error)
	UpdateWorkout(ctx context.Context, id string, in service.WorkoutInput) (*model.Workout, error)
	DeleteWorkout(ctx context.Context, id string) error

	CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string) (string, error)
}

// Handler реализует HTTP-обработчики API магазина.
type Handler struct {
	service Service
	logger  *zap.Logger
}

// NewHandler создаёт новый экземпляр обработчика HTTP-запросов.
func NewHandler(s Service, logger *zap.Logger) *Handler {
	return &Handler{
		service: s,
		logger:  logger,
	}
}

type messageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, messageResponse{Message: msg})
}

// errorStatus сопоставляет ошибку бизнес-логики HTTP-статусу и тексту для клиента.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrValidation),
		errors.Is(err, service.ErrEmptyCart),
		errors.Is(err, service.ErrInvalidOTP):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, service.ErrInvalidStateTransition),
		errors.Is(err, service.ErrAlreadyExists):
		return http.StatusConflict, err.Error()
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, service.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "storage unavailable"
	case errors.Is(err, service.ErrPaymentUnavailable):
		return http.StatusServiceUnavailable, "payment provider unavailable"
	}
	return http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, op string, err error, fields ...zap.Field) {
	status, msg := errorStatus(err)
	if status >= http.StatusInternalServerError {
		fields = append(fields, zap.Error(err), zap.String("path", r.URL.Path))
		h.logger.Error(op+" error", fields...)
	}
	writeMessage(w, status, msg)
}

func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return fmt.Errorf("%w: invalid JSON body", service.ErrValidation)
	}
	return nil
}

// requestUserID возвращает идентификатор пользователя из тела запроса либо из заголовка.
func requestUserID(r *http.Request, fromBody string) string {
	if fromBody != "" {
		return fromBody
	}
	if id, ok := middleware.GetUserIDFromContext(r.Context()); ok {
		return id
	}
	return r.Header.Get(middleware.UserIDHeader)
}

// Health сообщает о доступности сервиса и хранилища.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Ping(r.Context()); err != nil {
		h.logger.Warn("health check failed", zap.Error(err))
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
