package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLimiter(t *testing.T, perMinute int, methods ...string) (*Limiter, *time.Time) {
	t.Helper()
	l := NewLimiter(Config{RequestsPerMinute: perMinute, CleanupInterval: time.Hour, Methods: methods})
	t.Cleanup(l.Stop)
	now := time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }
	return l, &now
}

func TestLimiter_Allow(t *testing.T) {
	l, now := newTestLimiter(t, 3)

	for i := 0; i < 3; i++ {
		if !l.Allow("1.1.1.1") {
			t.Fatalf("request %d should be allowed", i+1)
		}
	}
	if l.Allow("1.1.1.1") {
		t.Fatal("fourth request should be limited")
	}
	if !l.Allow("2.2.2.2") {
		t.Fatal("other clients have their own budget")
	}

	*now = now.Add(61 * time.Second)
	if !l.Allow("1.1.1.1") {
		t.Fatal("budget should reset after a minute")
	}
}

func TestLimiter_CleanupStaleEntries(t *testing.T) {
	l, now := newTestLimiter(t, 3)
	l.Allow("1.1.1.1")
	*now = now.Add(5 * time.Minute)
	l.Allow("2.2.2.2")

	*now = now.Add(6 * time.Minute)
	l.cleanupStaleEntries()

	if got := l.ActiveClients(); got != 1 {
		t.Errorf("ActiveClients() = %d, want 1", got)
	}
}

func TestLimiter_StopIsIdempotent(t *testing.T) {
	l := NewLimiter(DefaultConfig())
	l.Stop()
	l.Stop()
}

func TestLimiter_MiddlewareOnlyLimitsConfiguredMethods(t *testing.T) {
	l, _ := newTestLimiter(t, 1, http.MethodPost, http.MethodDelete)
	ip := func(*http.Request) string { return "1.1.1.1" }
	limited := 0
	onLimit := func(w http.ResponseWriter, r *http.Request) {
		limited++
		w.WriteHeader(http.StatusTooManyRequests)
	}
	h := l.Middleware(ip, onLimit)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(method string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/api/contracts", nil))
		return rec
	}

	for i := 0; i < 5; i++ {
		if rec := send(http.MethodGet); rec.Code != http.StatusOK {
			t.Fatalf("GET %d: status %d", i, rec.Code)
		}
	}
	if rec := send(http.MethodPost); rec.Code != http.StatusOK {
		t.Fatalf("first POST: status %d", rec.Code)
	}
	rec := send(http.MethodDelete)
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second mutating request: status %d, want 429", rec.Code)
	}
	if rec.Header().Get("Retry-After") != "60" {
		t.Errorf("Retry-After = %q", rec.Header().Get("Retry-After"))
	}
	if limited != 1 {
		t.Errorf("onLimit called %d times, want 1", limited)
	}
}

func TestLimiter_DefaultResponse(t *testing.T) {
	l, _ := newTestLimiter(t, 1)
	h := l.Middleware(func(*http.Request) string { return "ip" }, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}
