// SPDX-License-Identifier: Apache-2.0

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	limiter := newInMemoryRateLimiter()
	now := time.Now()

	for i := 0; i < 3; i++ {
		decision := limiter.Allow("client-a", 3, now)
		if !decision.Allowed {
			t.Fatalf("request %d: expected allowed", i)
		}
	}

	decision := limiter.Allow("client-a", 3, now)
	if decision.Allowed {
		t.Fatal("expected fourth request to be denied")
	}
	if decision.RetryAfterSeconds < 1 {
		t.Fatalf("expected positive retry-after, got %d", decision.RetryAfterSeconds)
	}
}

func TestRateLimiterRefills(t *testing.T) {
	limiter := newInMemoryRateLimiter()
	now := time.Now()

	if decision := limiter.Allow("client-b", 1, now); !decision.Allowed {
		t.Fatal("expected first request allowed")
	}
	if decision := limiter.Allow("client-b", 1, now); decision.Allowed {
		t.Fatal("expected second request denied")
	}
	if decision := limiter.Allow("client-b", 1, now.Add(61*time.Second)); !decision.Allowed {
		t.Fatal("expected request allowed after refill")
	}
}

func TestRateLimiterIsolatesClients(t *testing.T) {
	limiter := newInMemoryRateLimiter()
	now := time.Now()

	if decision := limiter.Allow("client-c", 1, now); !decision.Allowed {
		t.Fatal("expected client-c allowed")
	}
	if decision := limiter.Allow("client-d", 1, now); !decision.Allowed {
		t.Fatal("expected client-d unaffected by client-c usage")
	}
}

func TestChatRateLimitMiddleware(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	handler := ChatRateLimit(1, discardLogger())(next)

	req := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req.RemoteAddr = "192.0.2.10:1234"
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200 got %d", rec.Code)
	}
	if rec.Header().Get("X-RateLimit-Limit") != "1" {
		t.Fatalf("expected limit header, got %q", rec.Header().Get("X-RateLimit-Limit"))
	}

	req2 := httptest.NewRequest(http.MethodPost, "/chat", nil)
	req2.RemoteAddr = "192.0.2.10:1234"
	rec2 := httptest.NewRecorder()
	handler.ServeHTTP(rec2, req2)

	if rec2.Code != http.StatusTooManyRequests {
		t.Fatalf("expected status 429 got %d", rec2.Code)
	}
	if rec2.Header().Get("Retry-After") == "" {
		t.Fatal("expected Retry-After header on denial")
	}
}
