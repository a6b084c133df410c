package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

type stubLimiter struct{ allow bool }

func (s stubLimiter) Allow(context.Context, string) bool { return s.allow }

func TestRateLimitRejectsOverBudget(t *testing.T) {
	handler := RateLimit(stubLimiter{allow: false})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429: %s", rec.Code, rec.Body.String())
	}
	var body struct {
		Code string `json:"code"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Code != "rate_limited" {
		t.Errorf("code = %s, want rate_limited", body.Code)
	}
}

func TestRateLimitPassesWithinBudget(t *testing.T) {
	handler := RateLimit(stubLimiter{allow: true})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/v1/notifications", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestRedisRateLimiterFailsOpenWithoutClient(t *testing.T) {
	rl := NewRedisRateLimiter(nil, 1, time.Minute)
	for i := 0; i < 5; i++ {
		if !rl.Allow(context.Background(), "caller") {
			t.Fatal("nil client must fail open")
		}
	}
}
