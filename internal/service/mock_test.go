package service

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/mmeshcher/gymstore/internal/model"
	"github.com/mmeshcher/gymstore/internal/payment"
)

type mockRepo struct {
	mock.Mock
	Repository
}

func (m *mockRepo) ListProducts(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *mockRepo) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *mockRepo) CreateProduct(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepo) UpdateProduct(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockRepo) DeleteProduct(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) DeleteCategory(ctx context.Context, id string) ([]string, error) {
	args := m.Called(ctx, id)
	ids, _ := args.Get(0).([]string)
	return ids, args.Error(1)
}

func (m *mockRepo) CreateUser(ctx context.Context, u model.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *mockRepo) GetUser(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockRepo) UpdateUserProfile(ctx context.Context, u model.User) (*model.User, error) {
	args := m.Called(ctx, u)
	res, _ := args.Get(0).(*model.User)
	return res, args.Error(1)
}

func (m *mockRepo) ApproveDeliveryBoy(ctx context.Context, id, adminID string) (*model.User, error) {
	args := m.Called(ctx, id, adminID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockRepo) RejectDeliveryBoy(ctx context.Context, id string) (*model.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *mockRepo) AddWishlistItem(ctx context.Context, userID, productID string) error {
	return m.Called(ctx, userID, productID).Error(0)
}

func (m *mockRepo) RemoveWishlistItem(ctx context.Context, userID, productID string) (bool, error) {
	args := m.Called(ctx, userID, productID)
	return args.Bool(0), args.Error(1)
}

func (m *mockRepo) CreateReview(ctx context.Context, rv *model.Review) error {
	return m.Called(ctx, rv).Error(0)
}

func (m *mockRepo) GetWorkout(ctx context.Context, id string) (*model.Workout, error) {
	args := m.Called(ctx, id)
	w, _ := args.Get(0).(*model.Workout)
	return w, args.Error(1)
}

func (m *mockRepo) CreateWorkout(ctx context.Context, w *model.Workout) error {
	return m.Called(ctx, w).Error(0)
}

func (m *mockRepo) UpdateWorkout(ctx context.Context, w *model.Workout) error {
	return m.Called(ctx, w).Error(0)
}

type mockCache struct {
	mock.Mock
}

func (m *mockCache) Products(ctx context.Context) ([]model.Product, error) {
	args := m.Called(ctx)
	products, _ := args.Get(0).([]model.Product)
	return products, args.Error(1)
}

func (m *mockCache) SetProducts(ctx context.Context, products []model.Product) error {
	return m.Called(ctx, products).Error(0)
}

func (m *mockCache) Product(ctx context.Context, id string) (*model.Product, error) {
	args := m.Called(ctx, id)
	p, _ := args.Get(0).(*model.Product)
	return p, args.Error(1)
}

func (m *mockCache) SetProduct(ctx context.Context, p model.Product) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockCache) Invalidate(ctx context.Context, ids ...string) error {
	args := make([]any, 0, len(ids)+1)
	args = append(args, ctx)
	for _, id := range ids {
		args = append(args, id)
	}
	return m.Called(args...).Error(0)
}

type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string) (*payment.Intent, error) {
	args := m.Called(ctx, amountMinor, currency)
	intent, _ := args.Get(0).(*payment.Intent)
	return intent, args.Error(1)
}
