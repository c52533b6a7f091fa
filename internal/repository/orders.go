package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/mmeshcher/gymstore/internal/model"
)

// SnapshotFunc превращает позиции корзины в позиции заказа. Вызывается внутри
// транзакции оформления; ошибка отменяет оформление без записи.
type SnapshotFunc func(items []model.CartItem) ([]model.OrderItem, error)

const orderSelect = `SELECT o.id, o.user_id, o.address, o.amount, o.payment_method, o.payment_data,
	        o.delivery_boy_id, o.delivery_otp, o.status, o.cancelled_at, o.delivered_at,
	        o.created_at, o.updated_at,
	        u.id, u.fname, u.lname, u.email, u.mobile,
	        d.id, d.fname, d.lname, d.mobile
	 FROM orders o
	 LEFT JOIN users u ON u.id = o.user_id
	 LEFT JOIN users d ON d.id = o.delivery_boy_id`

func scanOrder(row pgx.Row) (model.Order, error) {
	var (
		o      model.Order
		status string
		method string

		ownerID, ownerFirst, ownerLast, ownerEmail, ownerMobile *string
		boyID, boyFirst, boyLast, boyMobile                     *string
	)

	err := row.Scan(
		&o.ID, &o.UserID, &o.Address, &o.Amount, &method, &o.PaymentData,
		&o.DeliveryBoyID, &o.DeliveryOTP, &status, &o.CancelledAt, &o.DeliveredAt,
		&o.CreatedAt, &o.UpdatedAt,
		&ownerID, &ownerFirst, &ownerLast, &ownerEmail, &ownerMobile,
		&boyID, &boyFirst, &boyLast, &boyMobile,
	)
	if err != nil {
		return o, err
	}

	o.Status = model.OrderStatus(status)
	o.PaymentMethod = model.PaymentMethod(method)

	if ownerID != nil {
		o.Owner = &model.User{
			ID:        *ownerID,
			FirstName: deref(ownerFirst),
			LastName:  deref(ownerLast),
			Email:     deref(ownerEmail),
			Mobile:    deref(ownerMobile),
		}
	}
	if boyID != nil {
		o.DeliveryBoy = &model.User{
			ID:        *boyID,
			FirstName: deref(boyFirst),
			LastName:  deref(boyLast),
			Mobile:    deref(boyMobile),
			Role:      model.RoleDeliveryBoy,
		}
	}

	return o, nil
}

func (r *PostgresRepository) selectOrders(ctx context.Context, q querier, where string, args ...any) ([]model.Order, error) {
	rows, err := q.Query(ctx, orderSelect+" "+where+" ORDER BY o.created_at DESC, o.id DESC", args...)
	if err != nil {
		return nil, wrapErr("select orders", err)
	}
	defer rows.Close()

	orders := []model.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		orders = append(orders, o)
	}

	if err := rows.Err(); err != nil {
		return nil, wrapErr("rows error", err)
	}

	if err := loadOrderItems(ctx, q, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

func loadOrderItems(ctx context.Context, q querier, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, len(orders))
	index := make(map[string]int, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
		index[o.ID] = i
	}

	rows, err := q.Query(ctx,
		`SELECT order_id, product_id, name, price, quantity, image
		 FROM order_items
		 WHERE order_id = ANY($1)
		 ORDER BY order_id, position`,
		ids,
	)
	if err != nil {
		return wrapErr("select order items", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			orderID string
			item    model.OrderItem
		)
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Price, &item.Quantity, &item.Image); err != nil {
			return fmt.Errorf("scan order item: %w", err)
		}
		i := index[orderID]
		orders[i].Items = append(orders[i].Items, item)
	}

	if err := rows.Err(); err != nil {
		return wrapErr("rows error", err)
	}

	return nil
}

// CreateOrderFromCart в одной транзакции блокирует корзину пользователя, строит позиции
// заказа через snapshot, сохраняет заказ и очищает корзину. Конкурентные оформления
// одной корзины выполняются последовательно: второе получает ErrEmptyCart.
func (r *PostgresRepository) CreateOrderFromCart(ctx context.Context, o model.NewOrder, snapshot SnapshotFunc) (*model.Order, error) {
	var created *model.Order

	err := withRetry(ctx, func(ctx context.Context) error {
		order, err := r.createOrderTx(ctx, o, snapshot)
		if err != nil {
			return err
		}
		created = order
		return nil
	})
	if err != nil {
		return nil, err
	}

	return created, nil
}

func (r *PostgresRepository) createOrderTx(ctx context.Context, o model.NewOrder, snapshot SnapshotFunc) (*model.Order, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, wrapErr("begin tx", err)
	}
	defer tx.Rollback(ctx)

	// Блокируем корзину, чтобы два оформления не списали одни и те же позиции.
	var dummy int
	err = tx.QueryRow(ctx, `SELECT 1 FROM carts WHERE user_id = $1 FOR UPDATE`, o.UserID).Scan(&dummy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrEmptyCart
		}
		return nil, wrapErr("lock cart", err)
	}

	cartItems, err := getCartItems(ctx, tx, o.UserID)
	if err != nil {
		return nil, err
	}

	items, err := snapshot(cartItems)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrEmptyCart
	}

	order := model.Order{
		ID:            o.ID,
		UserID:        o.UserID,
		Items:         items,
		Address:       o.Address,
		Amount:        o.Amount,
		PaymentMethod: o.PaymentMethod,
		PaymentData:   o.PaymentData,
		DeliveryOTP:   &o.DeliveryOTP,
	}

	var status string
	err = tx.QueryRow(ctx,
		`INSERT INTO orders (id, user_id, address, amount, payment_method, payment_data, delivery_otp, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 RETURNING status, created_at, updated_at`,
		o.ID, o.UserID, o.Address, o.Amount, string(o.PaymentMethod), o.PaymentData,
		o.DeliveryOTP, string(model.OrderStatusPlaced),
	).Scan(&status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return nil, wrapErr("insert order", err)
	}
	order.Status = model.OrderStatus(status)

	batch := &pgx.Batch{}
	for i, item := range items {
		batch.Queue(
			`INSERT INTO order_items (order_id, position, product_id, name, price, quantity, image)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			o.ID, i, item.ProductID, item.Name, item.Price, item.Quantity, item.Image,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return nil, wrapErr("insert order items", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM cart_items WHERE user_id = $1`, o.UserID); err != nil {
		return nil, wrapErr("clear cart", err)
	}
	if _, err := tx.Exec(ctx, `UPDATE carts SET updated_at = now() WHERE user_id = $1`, o.UserID); err != nil {
		return nil, wrapErr("touch cart", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, wrapErr("commit tx", err)
	}

	return &order, nil
}

// GetOrder возвращает заказ с позициями, владельцем и курьером.
func (r *PostgresRepository) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	orders, err := r.selectOrders(ctx, r.pool, "WHERE o.id = $1", id)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, fmt.Errorf("order %s: %w", id, ErrNotFound)
	}
	return &orders[0], nil
}

// ListOrdersByUser возвращает заказы пользователя, начиная с самых новых.
func (r *PostgresRepository) ListOrdersByUser(ctx context.Context, userID string) ([]model.Order, error) {
	return r.selectOrders(ctx, r.pool, "WHERE o.user_id = $1", userID)
}

// ListOrdersByDeliveryBoy возвращает заказы, назначенные курьеру.
func (r *PostgresRepository) ListOrdersByDeliveryBoy(ctx context.Context, deliveryBoyID string) ([]model.Order, error) {
	return r.selectOrders(ctx, r.pool, "WHERE o.delivery_boy_id = $1", deliveryBoyID)
}

// ListAllOrders возвращает все заказы магазина.
func (r *PostgresRepository) ListAllOrders(ctx context.Context) ([]model.Order, error) {
	return r.selectOrders(ctx, r.pool, "")
}

// SetDeliveryOTPIfMissing сохраняет код доставки, только если у заказа его ещё нет,
// и возвращает действующий код заказа.
func (r *PostgresRepository) SetDeliveryOTPIfMissing(ctx context.Context, orderID, otp string) (string, error) {
	var stored string
	err := r.pool.QueryRow(ctx,
		`UPDATE orders SET delivery_otp = $2, updated_at = now()
		 WHERE id = $1 AND (delivery_otp IS NULL OR delivery_otp = '')
		 RETURNING delivery_otp`,
		orderID, otp,
	).Scan(&stored)
	if err == nil {
		return stored, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return "", wrapErr("backfill delivery otp", err)
	}

	// Код уже выставлен конкурентным запросом.
	var current *string
	err = r.pool.QueryRow(ctx, `SELECT delivery_otp FROM orders WHERE id = $1`, orderID).Scan(&current)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("order %s: %w", orderID, ErrNotFound)
		}
		return "", wrapErr("select delivery otp", err)
	}
	return deref(current), nil
}

// UpdateOrderAddress заменяет адрес доставки, если статус заказа не входит в locked.
func (r *PostgresRepository) UpdateOrderAddress(ctx context.Context, orderID string, address model.Address, locked []model.OrderStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET address = $2, updated_at = now()
		 WHERE id = $1 AND NOT (status = ANY($3))`,
		orderID, address, statusStrings(locked),
	)
	if err != nil {
		return wrapErr("update order address", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, orderID, ErrStatusMismatch)
	}
	return nil
}

// TransitionOrderStatus переводит заказ в статус to, только если текущий статус входит в from.
// Пустой from снимает ограничение. Отметки отмены и доставки соответствуют новому статусу:
// уход из cancelled или delivered их сбрасывает.
func (r *PostgresRepository) TransitionOrderStatus(ctx context.Context, orderID string, from []model.OrderStatus, to model.OrderStatus) error {
	query, args := transitionQuery(orderID, from, to)

	tag, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return wrapErr("update order status", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, orderID, ErrStatusMismatch)
	}
	return nil
}

func transitionQuery(orderID string, from []model.OrderStatus, to model.OrderStatus) (string, []any) {
	query := `UPDATE orders
		 SET status = $2::text,
		     cancelled_at = CASE WHEN $2::text = 'cancelled' THEN now() ELSE NULL END,
		     delivered_at = CASE WHEN $2::text = 'delivered' THEN now() ELSE NULL END,
		     updated_at = now()
		 WHERE id = $1`
	args := []any{orderID, string(to)}
	if len(from) > 0 {
		query += ` AND status = ANY($3)`
		args = append(args, statusStrings(from))
	}
	return query, args
}

// AssignDeliveryBoy назначает (или переназначает) курьера заказу.
func (r *PostgresRepository) AssignDeliveryBoy(ctx context.Context, orderID, deliveryBoyID string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders SET delivery_boy_id = $2, updated_at = now() WHERE id = $1`,
		orderID, deliveryBoyID,
	)
	if err != nil {
		return wrapErr("assign delivery boy", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return nil
}

// CompleteDelivery переводит заказ в статус delivered при точном совпадении кода.
// Предыдущий статус не проверяется.
func (r *PostgresRepository) CompleteDelivery(ctx context.Context, orderID, otp string) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE orders
		 SET status = $3, delivered_at = now(), cancelled_at = NULL, updated_at = now()
		 WHERE id = $1 AND delivery_otp = $2`,
		orderID, otp, string(model.OrderStatusDelivered),
	)
	if err != nil {
		return wrapErr("complete delivery", err)
	}
	if tag.RowsAffected() == 0 {
		return r.missOrConflict(ctx, orderID, ErrOTPMismatch)
	}
	return nil
}

// HasDeliveredOrderWithProduct сообщает, получал ли пользователь заказ с указанным товаром.
func (r *PostgresRepository) HasDeliveredOrderWithProduct(ctx context.Context, userID, productID string) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (
		     SELECT 1 FROM orders o
		     JOIN order_items oi ON oi.order_id = o.id
		     WHERE o.user_id = $1 AND oi.product_id = $2 AND o.status = $3
		 )`,
		userID, productID, string(model.OrderStatusDelivered),
	).Scan(&exists)
	if err != nil {
		return false, wrapErr("check delivered order", err)
	}
	return exists, nil
}

// missOrConflict различает отсутствие заказа и несовпадение условия обновления.
func (r *PostgresRepository) missOrConflict(ctx context.Context, orderID string, conflict error) error {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM orders WHERE id = $1)`, orderID).Scan(&exists)
	if err != nil {
		return wrapErr("check order", err)
	}
	if !exists {
		return fmt.Errorf("order %s: %w", orderID, ErrNotFound)
	}
	return conflict
}

func statusStrings(statuses []model.OrderStatus) []string {
	res := make([]string, len(statuses))
	for i, s := range statuses {
		res[i] = string(s)
	}
	return res
}
