package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogger_RecordsRequest(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	logger := zap.New(core)

	h := Logger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message":"order not found"}`))
	}))

	r := httptest.NewRequest(http.MethodGet, "/api/orders/abc", nil)
	h.ServeHTTP(httptest.NewRecorder(), r)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("log entries = %d, want 1", len(entries))
	}

	fields := entries[0].ContextMap()
	if fields["method"] != http.MethodGet {
		t.Fatalf("method = %v", fields["method"])
	}
	if fields["path"] != "/api/orders/abc" {
		t.Fatalf("path = %v", fields["path"])
	}
	if fields["status"] != int64(http.StatusNotFound) {
		t.Fatalf("status = %v (%T)", fields["status"], fields["status"])
	}
	if fields["size"] != int64(len(`{"message":"order not found"}`)) {
		t.Fatalf("size = %v", fields["size"])
	}
}

func TestLogger_ServerErrorsAtWarn(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)

	h := Logger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodPost, "/api/orders", nil))

	if got := logs.FilterLevelExact(zapcore.WarnLevel).Len(); got != 1 {
		t.Fatalf("warn entries = %d, want 1", got)
	}
}
