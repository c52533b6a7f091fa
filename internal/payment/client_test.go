package payment

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"
)

func TestCreatePaymentIntent_OK(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Fatalf("method = %s, want POST", r.Method)
		}
		if r.URL.Path != "/v1/payment_intents" {
			t.Fatalf("path = %s, want /v1/payment_intents", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer sk_test" {
			t.Fatalf("authorization = %q", got)
		}
		if r.Header.Get("Idempotency-Key") == "" {
			t.Fatalf("idempotency key not set")
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("amount") != "150000" || r.PostForm.Get("currency") != "inr" {
			t.Fatalf("unexpected form: %v", r.PostForm)
		}
		if r.PostForm.Get("automatic_payment_methods[enabled]") != "true" {
			t.Fatalf("automatic payment methods not enabled: %v", r.PostForm)
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(Intent{
			ID:           "pi_1",
			ClientSecret: "pi_1_secret_abc",
			Amount:       150000,
			Currency:     "inr",
			Status:       "requires_payment_method",
		}); err != nil {
			t.Fatalf("encode: %v", err)
		}
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "sk_test")

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	intent, err := client.CreatePaymentIntent(ctx, 150000, "inr")
	if err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}
	if intent.ClientSecret != "pi_1_secret_abc" {
		t.Fatalf("client secret = %q", intent.ClientSecret)
	}
}

func TestCreatePaymentIntent_Rejected(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":{"message":"Amount must be at least 50","code":"amount_too_small"}}`))
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "sk_test")

	_, err := client.CreatePaymentIntent(context.Background(), 1, "inr")
	if !errors.Is(err, ErrRejected) {
		t.Fatalf("expected ErrRejected, got %v", err)
	}
	if err.Error() != "payment provider rejected request: Amount must be at least 50" {
		t.Fatalf("unexpected error text: %v", err)
	}
}

func TestCreatePaymentIntent_RetriesServerErrors(t *testing.T) {
	var calls int32
	keys := make(chan string, 4)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		keys <- r.Header.Get("Idempotency-Key")
		if atomic.AddInt32(&calls, 1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		_ = json.NewEncoder(w).Encode(Intent{ID: "pi_2", ClientSecret: "secret"})
	}))
	defer ts.Close()

	client := NewClient(ts.URL, "sk_test")
	client.httpClient.RetryWaitMin = time.Millisecond
	client.httpClient.RetryWaitMax = 5 * time.Millisecond

	intent, err := client.CreatePaymentIntent(context.Background(), 5000, "inr")
	if err != nil {
		t.Fatalf("CreatePaymentIntent error: %v", err)
	}
	if intent.ID != "pi_2" {
		t.Fatalf("intent id = %q", intent.ID)
	}
	if atomic.LoadInt32(&calls) != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
	if first, second := <-keys, <-keys; first != second {
		t.Fatalf("idempotency key changed between retries: %q != %q", first, second)
	}
}

func TestCreatePaymentIntent_NotConfigured(t *testing.T) {
	var client *Client
	if _, err := client.CreatePaymentIntent(context.Background(), 100, "inr"); err == nil {
		t.Fatalf("expected error for nil client")
	}
}
