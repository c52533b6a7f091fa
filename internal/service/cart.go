package service

import (
	"context"

	"github.com/mmeshcher/gymstore/internal/model"
)

// GetCart возвращает корзину пользователя; без корзины возвращается пустой список.
func (s *Service) GetCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	return s.repo.GetCart(ctx, userID)
}

// AddToCart добавляет товар в корзину с количеством 1. Повторное добавление
// количество не меняет.
func (s *Service) AddToCart(ctx context.Context, userID, productID string) ([]model.CartItem, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := requireID("productId", productID); err != nil {
		return nil, err
	}

	if _, err := s.repo.GetProduct(ctx, productID); err != nil {
		return nil, err
	}
	if err := s.repo.AddCartItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	return s.repo.GetCart(ctx, userID)
}

// UpdateCartQuantity устанавливает количество товара, уже лежащего в корзине.
func (s *Service) UpdateCartQuantity(ctx context.Context, userID, productID string, quantity int) ([]model.CartItem, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := requireID("productId", productID); err != nil {
		return nil, err
	}
	if quantity <= 0 {
		return nil, validationErr("quantity must be positive")
	}

	if err := s.repo.UpdateCartItemQuantity(ctx, userID, productID, quantity); err != nil {
		return nil, err
	}

	return s.repo.GetCart(ctx, userID)
}

// RemoveFromCart удаляет товар из корзины и возвращает оставшиеся позиции.
func (s *Service) RemoveFromCart(ctx context.Context, userID, productID string) ([]model.CartItem, error) {
	if err := requireID("userId", userID); err != nil {
		return nil, err
	}
	if err := requireID("productId", productID); err != nil {
		return nil, err
	}

	if err := s.repo.RemoveCartItem(ctx, userID, productID); err != nil {
		return nil, err
	}

	return s.repo.GetCart(ctx, userID)
}
