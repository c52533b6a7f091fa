// Package payment предоставляет клиент платёжного провайдера для создания платёжных намерений.
package payment

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/go-retryablehttp"
)

// ErrRejected возвращается, если провайдер отклонил запрос.
var ErrRejected = errors.New("payment provider rejected request")

// Client инкапсулирует HTTP-взаимодействие с платёжным провайдером.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *retryablehttp.Client
}

// Intent описывает платёжное намерение, созданное провайдером.
type Intent struct {
	ID           string `json:"id"`
	ClientSecret string `json:"client_secret"`
	Amount       int64  `json:"amount"`
	Currency     string `json:"currency"`
	Status       string `json:"status"`
}

type providerError struct {
	Error struct {
		Message string `json:"message"`
		Code    string `json:"code"`
	} `json:"error"`
}

// NewClient создаёт клиент провайдера по базовому адресу и секретному ключу.
func NewClient(baseURL, secretKey string) *Client {
	rc := retryablehttp.NewClient()
	rc.RetryMax = 3
	rc.RetryWaitMin = 200 * time.Millisecond
	rc.RetryWaitMax = 2 * time.Second
	rc.HTTPClient.Timeout = 5 * time.Second
	rc.Logger = nil

	base := strings.TrimRight(baseURL, "/")
	if !strings.HasPrefix(base, "http://") && !strings.HasPrefix(base, "https://") {
		base = "https://" + base
	}

	return &Client{
		baseURL:    base,
		secretKey:  secretKey,
		httpClient: rc,
	}
}

// CreatePaymentIntent создаёт платёжное намерение на сумму amountMinor в минимальных
// единицах валюты. Повторы запроса защищены ключом идемпотентности.
func (c *Client) CreatePaymentIntent(ctx context.Context, amountMinor int64, currency string) (*Intent, error) {
	if c == nil || c.baseURL == "" {
		return nil, fmt.Errorf("payment client not configured")
	}

	form := url.Values{}
	form.Set("amount", strconv.FormatInt(amountMinor, 10))
	form.Set("currency", currency)
	form.Set("automatic_payment_methods[enabled]", "true")

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodPost,
		c.baseURL+"/v1/payment_intents", []byte(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Idempotency-Key", uuid.NewString())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var pe providerError
		if err := json.NewDecoder(resp.Body).Decode(&pe); err == nil && pe.Error.Message != "" {
			return nil, fmt.Errorf("%w: %s", ErrRejected, pe.Error.Message)
		}
		return nil, fmt.Errorf("%w: unexpected status %d", ErrRejected, resp.StatusCode)
	}

	var intent Intent
	if err := json.NewDecoder(resp.Body).Decode(&intent); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return &intent, nil
}
