package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmeshcher/gymstore/internal/model"
)

func TestWrapErr_ConnectionErrorsBecomeStorageUnavailable(t *testing.T) {
	err := wrapErr("select orders", errors.New("dial tcp 127.0.0.1:5432: connect: connection refused"))
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	err = wrapErr("select orders", errors.New("syntax error"))
	assert.NotErrorIs(t, err, ErrStorageUnavailable)
	assert.EqualError(t, err, "select orders: syntax error")
}

func TestWithRetry_RetriesSerializationFailure(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return fmt.Errorf("commit tx: %w", &pgconn.PgError{Code: pgerrcode.SerializationFailure})
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_DoesNotRetryDomainErrors(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func(ctx context.Context) error {
		calls++
		return ErrEmptyCart
	})

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_DoesNotRetryUniqueViolation(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func(ctx context.Context) error {
		calls++
		return &pgconn.PgError{Code: pgerrcode.UniqueViolation}
	})

	assert.True(t, isUniqueViolation(err))
	assert.Equal(t, 1, calls)
}

func TestWithRetry_DoesNotRetryLostCommit(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func(ctx context.Context) error {
		calls++
		return wrapErr("commit tx", errors.New("read tcp 10.0.0.2:5432: connection reset by peer"))
	})

	assert.ErrorIs(t, err, ErrStorageUnavailable)
	assert.Equal(t, 1, calls)
}

func TestTransitionQuery(t *testing.T) {
	query, args := transitionQuery("o1", nil, model.OrderStatusPlaced)
	assert.NotContains(t, query, "ANY($3)")
	assert.Equal(t, []any{"o1", "placed"}, args)
	assert.Contains(t, query, "cancelled_at = CASE WHEN $2::text = 'cancelled' THEN now() ELSE NULL END")
	assert.Contains(t, query, "delivered_at = CASE WHEN $2::text = 'delivered' THEN now() ELSE NULL END")

	query, args = transitionQuery("o1", []model.OrderStatus{model.OrderStatusShipped}, model.OrderStatusOutForDelivery)
	assert.Contains(t, query, "AND status = ANY($3)")
	assert.Equal(t, []any{"o1", "out_for_delivery", []string{"shipped"}}, args)
}

func TestStatusStrings(t *testing.T) {
	got := statusStrings(model.AddressLockedStatuses)
	assert.Equal(t, []string{"out_for_delivery", "delivered", "cancelled"}, got)
}
