// Package service реализует бизнес-логику магазина спортивных товаров.
package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strconv"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/events"
	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/payment"
	"github.com/mmeshcher/gymstore/internal/repository"
)

var (
	// ErrValidation возвращается при отсутствующих или некорректных входных данных.
	ErrValidation = errors.New("validation error")
	// ErrInvalidStateTransition возвращается, если операция недопустима в текущем статусе заказа.
	ErrInvalidStateTransition = errors.New("invalid state transition")
	// ErrInvalidOTP возвращается, если код подтверждения доставки не совпал.
	ErrInvalidOTP = errors.New("invalid otp")
	// ErrForbidden возвращается, если у инициатора нет прав на операцию.
	ErrForbidden = errors.New("forbidden")
	// ErrPaymentUnavailable возвращается, если платёжный провайдер не настроен или недоступен.
	ErrPaymentUnavailable = errors.New("payment provider unavailable")

	ErrNotFound           = repository.ErrNotFound
	ErrEmptyCart          = repository.ErrEmptyCart
	ErrAlreadyExists      = repository.ErrAlreadyExists
	ErrStorageUnavailable = repository.ErrStorageUnavailable
)

// Repository описывает контракт доступа к данным, используемый сервисом.
type Repository interface {
	Close() error
	Ping(ctx context.Context) error

	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateProduct(ctx context.Context, p model.Product) error
	UpdateProduct(ctx context.Context, p model.Product) error
	DeleteProduct(ctx context.Context, id string) error
	ListCategories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, c model.Category) error
	DeleteCategory(ctx context.Context, id string) ([]string, error)

	GetCart(ctx context.Context, userID string) ([]model.CartItem, error)
	AddCartItem(ctx context.Context, userID, productID string) error
	UpdateCartItemQuantity(ctx context.Context, userID, productID string, quantity int) error
	RemoveCartItem(ctx context.Context, userID, productID string) error

	CreateOrderFromCart(ctx context.Context, o model.NewOrder, snapshot repository.SnapshotFunc) (*model.Order, error)
	GetOrder(ctx context.Context, id string) (*model.Order, error)
	ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error)
	ListOrdersByDeliveryBoy(ctx context.Context, deliveryBoyID string) ([]model.Order, error)
	ListAllOrders(ctx context.Context) ([]model.Order, error)
	SetDeliveryOTPIfMissing(ctx context.Context, orderID, otp string) (string, error)
	UpdateOrderAddress(ctx context.Context, orderID string, address model.Address, locked []model.OrderStatus) error
	TransitionOrderStatus(ctx context.Context, orderID string, from []model.OrderStatus, to model.OrderStatus) error
	AssignDeliveryBoy(ctx context.Context, orderID, deliveryBoyID string) error
	CompleteDelivery(ctx context.Context, orderID, otp string) error
	HasDeliveredOrderWithProduct(ctx context.Context, userID, productID string) (bool, error)

	CreateUser(ctx context.Context, u model.User) error
	GetUser(ctx context.Context, id string) (*model.User, error)
	ListUsers(ctx context.Context) ([]model.User, error)
	ListDeliveryBoys(ctx context.Context, approved bool) ([]model.User, error)
	UpdateUserProfile(ctx context.Context, u model.User) (*model.User, error)
	ToggleUserDisabled(ctx context.Context, id string) (bool, error)
	ApproveDeliveryBoy(ctx context.Context, id, adminID string) (*model.User, error)
	RejectDeliveryBoy(ctx context.Context, id string) (*model.User, error)

	AddWishlistItem(ctx context.Context, userID, productID string) error
	RemoveWishlistItem(ctx context.Context, userID, productID string) (bool, error)
	WishlistContains(ctx context.Context, userID, productID string) (bool, error)
	ToggleWishlistItem(ctx context.Context, userID, productID string) (bool, error)
	ListWishlist(ctx context.Context, userID string) ([]model.WishlistItem, error)

	ListReviews(ctx context.Context, productID string) ([]model.Review, error)
	CreateReview(ctx context.Context, rv *model.Review) error
	DeleteReview(ctx context.Context, id string) error

	ListWorkouts(ctx context.Context) ([]model.Workout, error)
	GetWorkout(ctx context.Context, id string) (*model.Workout, error)
	CreateWorkout(ctx context.Context, w *model.Workout) error
	UpdateWorkout(ctx context.Context, w *model.Workout) error
	DeleteWorkout(ctx context.Context, id string) error
}

// ProductCache описывает кэш каталога. Ошибки кэша не прерывают запрос.
type ProductCache interface {
	Products(ctx context.Context) ([]model.Product, error)
	SetProducts(ctx context.Context, products []model.Product) error
	Product(ctx context.Context, id string) (*model.Product, error)
	SetProduct(ctx context.Context, p model.Product) error
	Invalidate(ctx context.Context, ids ...string) error
}

// Publisher публикует события жизненного цикла заказов.
type Publisher interface {
	Publish(ctx context.Context, e events.OrderEvent) error
}

// PaymentClient создаёт платёжные намерения у внешнего провайдера.
type PaymentClient interface {
	CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string) (*payment.Intent, error)
}

// Deps содержит необязательные зависимости сервиса.
type Deps struct {
	Cache          ProductCache
	Publisher      Publisher
	Payments       PaymentClient
	Logger         *zap.Logger
	UploadsBaseURL string
}

// Service содержит бизнес-логику магазина.
type Service struct {
	repo       Repository
	cache      ProductCache
	publisher  Publisher
	payments   PaymentClient
	logger     *zap.Logger
	uploadsURL string

	newOTP func() (string, error)
	newID  func() string

	publishTimeout time.Duration
	wg             sync.WaitGroup
}

// NewService создаёт новый сервис с указанным репозиторием и зависимостями.
func NewService(repo Repository, deps Deps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	publisher := deps.Publisher
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &Service{
		repo:           repo,
		cache:          deps.Cache,
		publisher:      publisher,
		payments:       deps.Payments,
		logger:         logger,
		uploadsURL:     deps.UploadsBaseURL,
		newOTP:         generateOTP,
		newID:          newID,
		publishTimeout: 3 * time.Second,
	}
}

// Ping проверяет доступность хранилища.
func (s *Service) Ping(ctx context.Context) error {
	return s.repo.Ping(ctx)
}

// Close дожидается отправки событий и закрывает ресурсы сервиса.
func (s *Service) Close() error {
	s.wg.Wait()
	if s.repo != nil {
		return s.repo.Close()
	}
	return nil
}

// publish отправляет событие в фоне. Ошибка публикации только логируется.
func (s *Service) publish(e events.OrderEvent) {
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ctx, cancel := context.WithTimeout(context.Background(), s.publishTimeout)
		defer cancel()

		if err := s.publisher.Publish(ctx, e); err != nil {
			s.logger.Warn("publish order event failed",
				zap.String("subject", e.Subject()),
				zap.String("orderID", e.OrderID),
				zap.Error(err),
			)
		}
	}()
}

func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(9000))
	if err != nil {
		return "", fmt.Errorf("generate otp: %w", err)
	}
	return strconv.FormatInt(n.Int64()+1000, 10), nil
}

func validationErr(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
