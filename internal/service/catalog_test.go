package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/gymstore/internal/cache"
	"github.com/mmeshcher/gymstore/internal/model"
)

func TestListProducts_CacheHit(t *testing.T) {
	repo := &mockRepo{}
	c := &mockCache{}
	svc := NewService(repo, Deps{Cache: c})

	cached := []model.Product{{ID: "p1", Name: "Mat"}}
	c.On("Products", mock.Anything).Return(cached, nil).Once()

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, cached, got)

	repo.AssertNotCalled(t, "ListProducts", mock.Anything)
	c.AssertExpectations(t)
}

func TestListProducts_CacheMissFillsCache(t *testing.T) {
	repo := &mockRepo{}
	c := &mockCache{}
	svc := NewService(repo, Deps{Cache: c})

	products := []model.Product{{ID: "p1", Name: "Mat"}}
	c.On("Products", mock.Anything).Return(nil, cache.ErrMiss).Once()
	repo.On("ListProducts", mock.Anything).Return(products, nil).Once()
	c.On("SetProducts", mock.Anything, products).Return(nil).Once()

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, products, got)

	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestListProducts_CacheFailureFallsBackToStore(t *testing.T) {
	repo := &mockRepo{}
	c := &mockCache{}
	svc := NewService(repo, Deps{Cache: c})

	c.On("Products", mock.Anything).Return(nil, errors.New("redis: connection refused"))
	repo.On("ListProducts", mock.Anything).Return(nil, nil)
	c.On("SetProducts", mock.Anything, []model.Product{}).Return(errors.New("redis: connection refused"))

	got, err := svc.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []model.Product{}, got)
}

func TestGetProduct_WithoutCache(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, Deps{})

	repo.On("GetProduct", mock.Anything, "p1").Return(nil, ErrNotFound)

	_, err := svc.GetProduct(context.Background(), "p1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestCreateProduct_InvalidatesCache(t *testing.T) {
	repo := &mockRepo{}
	c := &mockCache{}
	svc := NewService(repo, Deps{Cache: c})
	svc.newID = func() string { return "p-new" }

	in := ProductInput{Name: " Rack ", Price: decimal.RequireFromString("1499.50"), Stock: 3}
	repo.On("CreateProduct", mock.Anything, mock.MatchedBy(func(p model.Product) bool {
		return p.ID == "p-new" && p.Name == "Rack"
	})).Return(nil).Once()
	c.On("Invalidate", mock.Anything).Return(nil).Once()
	repo.On("GetProduct", mock.Anything, "p-new").Return(&model.Product{ID: "p-new", Name: "Rack"}, nil).Once()

	got, err := svc.CreateProduct(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, "p-new", got.ID)

	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestUpdateProduct_InvalidatesEntry(t *testing.T) {
	repo := &mockRepo{}
	c := &mockCache{}
	svc := NewService(repo, Deps{Cache: c})

	repo.On("UpdateProduct", mock.Anything, mock.AnythingOfType("model.Product")).Return(nil).Once()
	c.On("Invalidate", mock.Anything, "p1").Return(nil).Once()
	repo.On("GetProduct", mock.Anything, "p1").Return(&model.Product{ID: "p1"}, nil).Once()

	_, err := svc.UpdateProduct(context.Background(), "p1", ProductInput{Name: "Rack"})
	require.NoError(t, err)

	c.AssertExpectations(t)
}

func TestDeleteCategory_InvalidatesDetachedProducts(t *testing.T) {
	repo := &mockRepo{}
	c := &mockCache{}
	svc := NewService(repo, Deps{Cache: c})

	repo.On("DeleteCategory", mock.Anything, "c1").Return([]string{"p1", "p2"}, nil).Once()
	c.On("Invalidate", mock.Anything, "p1", "p2").Return(nil).Once()

	require.NoError(t, svc.DeleteCategory(context.Background(), "c1"))

	repo.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestDeleteCategory_NotFoundKeepsCache(t *testing.T) {
	repo := &mockRepo{}
	c := &mockCache{}
	svc := NewService(repo, Deps{Cache: c})

	repo.On("DeleteCategory", mock.Anything, "c9").Return(nil, ErrNotFound).Once()

	assert.ErrorIs(t, svc.DeleteCategory(context.Background(), "c9"), ErrNotFound)
	c.AssertNotCalled(t, "Invalidate", mock.Anything)
}

func TestProductInputValidation(t *testing.T) {
	svc := NewService(&mockRepo{}, Deps{})

	tests := []struct {
		name string
		in   ProductInput
	}{
		{"empty name", ProductInput{Name: "  "}},
		{"negative price", ProductInput{Name: "Rack", Price: decimal.NewFromInt(-1)}},
		{"negative stock", ProductInput{Name: "Rack", Stock: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tt.in)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}
