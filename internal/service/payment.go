package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mmeshcher/gymstore/internal/payment"
)

const defaultCurrency = "inr"

var hundred = decimal.NewFromInt(100)

// CreatePaymentIntent создаёт платёжное намерение на сумму amount и возвращает
// клиентский секрет для завершения оплаты.
func (s *Service) CreatePaymentIntent(ctx context.Context, amount decimal.Decimal, currency string) (string, error) {
	if s.payments == nil {
		return "", fmt.Errorf("%w: not configured", ErrPaymentUnavailable)
	}
	if !amount.IsPositive() {
		return "", validationErr("amount must be positive")
	}

	currency = strings.ToLower(strings.TrimSpace(currency))
	if currency == "" {
		currency = defaultCurrency
	}

	minor := amount.Mul(hundred).Round(0).IntPart()
	intent, err := s.payments.CreatePaymentIntent(ctx, minor, currency)
	if err != nil {
		if errors.Is(err, payment.ErrRejected) {
			return "", fmt.Errorf("%w: %v", ErrValidation, err)
		}
		s.logger.Error("create payment intent failed", zap.Int64("amount", minor), zap.Error(err))
		return "", fmt.Errorf("%w: %v", ErrPaymentUnavailable, err)
	}

	return intent.ClientSecret, nil
}
