package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestRequireUser_WithHeader(t *testing.T) {
	nextCalled := false
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		nextCalled = true
		id, ok := GetUserIDFromContext(r.Context())
		if !ok {
			t.Fatalf("user id not in context")
		}
		if id != "6f1c2d3e-0000-4000-8000-000000000001" {
			t.Fatalf("user id from context = %q", id)
		}
	})

	r := httptest.NewRequest(http.MethodGet, "/api/wishlist", nil)
	r.Header.Set(UserIDHeader, " 6f1c2d3e-0000-4000-8000-000000000001 ")

	RequireUser(next).ServeHTTP(httptest.NewRecorder(), r)

	if !nextCalled {
		t.Fatalf("next handler was not called")
	}
}

func TestRequireUser_WithoutHeader(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("next handler should not be called")
	})

	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/api/wishlist", nil)

	RequireUser(next).ServeHTTP(w, r)

	res := w.Result()
	defer res.Body.Close()
	if res.StatusCode != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", res.StatusCode, http.StatusUnauthorized)
	}
	if !strings.Contains(w.Body.String(), `"message"`) {
		t.Fatalf("body %q has no message", w.Body.String())
	}
}

func TestGetUserIDFromContext_Empty(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if _, ok := GetUserIDFromContext(r.Context()); ok {
		t.Fatalf("expected no user id in bare context")
	}
	if _, ok := GetUserIDFromContext(WithUserID(r.Context(), "")); ok {
		t.Fatalf("empty user id must not count")
	}
}
