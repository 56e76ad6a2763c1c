package api

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIPRateLimiter_AllowsUpToBurstThenRejects(t *testing.T) {
	limiter := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 3, CleanupInterval: time.Minute})
	defer limiter.Stop()

	for i := 0; i < 3; i++ {
		if !limiter.Allow("1.2.3.4") {
			t.Fatalf("request %d within burst should be allowed", i)
		}
	}
	if limiter.Allow("1.2.3.4") {
		t.Fatal("request beyond burst should be rejected")
	}
}

func TestIPRateLimiter_TracksIPsIndependently(t *testing.T) {
	limiter := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Minute})
	defer limiter.Stop()

	if !limiter.Allow("1.1.1.1") {
		t.Fatal("first request from 1.1.1.1 should be allowed")
	}
	if !limiter.Allow("2.2.2.2") {
		t.Fatal("a different IP should have its own independent budget")
	}
}

func TestIPRateLimiter_Middleware429sOverLimit(t *testing.T) {
	limiter := NewIPRateLimiter(RateLimitConfig{RequestsPerSecond: 1, Burst: 1, CleanupInterval: time.Minute})
	defer limiter.Stop()

	handler := limiter.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/state", nil)
	req.RemoteAddr = "9.9.9.9:1234"

	first := httptest.NewRecorder()
	handler.ServeHTTP(first, req)
	if first.Code != http.StatusOK {
		t.Fatalf("first request got %d, want 200", first.Code)
	}

	second := httptest.NewRecorder()
	handler.ServeHTTP(second, req)
	if second.Code != http.StatusTooManyRequests {
		t.Fatalf("second request got %d, want 429", second.Code)
	}
}

func TestGetClientIP_PrefersForwardedHeaders(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5555"
	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")

	if got := GetClientIP(req); got != "203.0.113.5" {
		t.Fatalf("GetClientIP = %q, want 203.0.113.5", got)
	}
}

func TestGetClientIP_FallsBackToRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "198.51.100.7:4321"

	if got := GetClientIP(req); got != "198.51.100.7" {
		t.Fatalf("GetClientIP = %q, want 198.51.100.7", got)
	}
}

func TestWebSocketConnLimiter_CapsPerIPAndReleases(t *testing.T) {
	limiter := NewWebSocketConnLimiter(2)

	if !limiter.Allow("5.5.5.5") || !limiter.Allow("5.5.5.5") {
		t.Fatal("first two connections should be allowed")
	}
	if limiter.Allow("5.5.5.5") {
		t.Fatal("third concurrent connection should be rejected")
	}

	limiter.Release("5.5.5.5")
	if !limiter.Allow("5.5.5.5") {
		t.Fatal("releasing a slot should allow a new connection")
	}
}
