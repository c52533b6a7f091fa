package repository

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mmeshcher/gymstore/internal/model"
)

// GetCart возвращает позиции корзины пользователя в порядке добавления.
// Если корзины нет, возвращается пустой список.
func (r *PostgresRepository) GetCart(ctx context.Context, userID string) ([]model.CartItem, error) {
	return getCartItems(ctx, r.pool, userID)
}

func getCartItems(ctx context.Context, q querier, userID string) ([]model.CartItem, error) {
	query := `SELECT ci.product_id, ci.quantity,
		        p.id, p.name, p.price, p.stock, p.images
		 FROM cart_items ci
		 LEFT JOIN products p ON p.id = ci.product_id
		 WHERE ci.user_id = $1
		 ORDER BY ci.id`

	rows, err := q.Query(ctx, query, userID)
	if err != nil {
		return nil, wrapErr("select cart items", err)
	}
	defer rows.Close()

	items := []model.CartItem{}
	for rows.Next() {
		var (
			item      model.CartItem
			productID *string
			name      *string
			price     decimal.NullDecimal
			stock     *int
			images    []string
		)
		if err := rows.Scan(&item.ProductID, &item.Quantity, &productID, &name, &price, &stock, &images); err != nil {
			return nil, fmt.Errorf("scan cart item: %w", err)
		}

		if productID != nil {
			p := &model.Product{ID: *productID, Images: images}
			if name != nil {
				p.Name = *name
			}
			if price.Valid {
				p.Price = price.Decimal
			}
			if stock != nil {
				p.Stock = *stock
			}
			item.Product = p
		}

		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}

	return items, nil
}

// AddCartItem добавляет товар в корзину с количеством 1. Если товар уже в корзине,
// количество не меняется. Корзина создаётся при первом добавлении.
func (r *PostgresRepository) AddCartItem(ctx context.Context, userID, productID string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return wrapErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx,
		`INSERT INTO carts (user_id) VALUES ($1)
		 ON CONFLICT (user_id) DO UPDATE SET updated_at = now()`,
		userID,
	)
	if err != nil {
		return wrapErr("upsert cart", err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO cart_items (user_id, product_id, quantity) VALUES ($1, $2, 1)
		 ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID,
	)
	if err != nil {
		return wrapErr("insert cart item", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return wrapErr("commit tx", err)
	}

	return nil
}

// UpdateCartItemQuantity устанавливает количество товара в корзине.
func (r *PostgresRepository) UpdateCartItemQuantity(ctx context.Context, userID, productID string, quantity int) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE cart_items SET quantity = $3 WHERE user_id = $1 AND product_id = $2`,
		userID, productID, quantity,
	)
	if err != nil {
		return wrapErr("update cart item", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("cart item %s: %w", productID, ErrNotFound)
	}
	return nil
}

// RemoveCartItem удаляет товар из корзины. Отсутствие позиции ошибкой не считается.
func (r *PostgresRepository) RemoveCartItem(ctx context.Context, userID, productID string) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM cart_items WHERE user_id = $1 AND product_id = $2`,
		userID, productID,
	)
	if err != nil {
		return wrapErr("delete cart item", err)
	}
	return nil
}
