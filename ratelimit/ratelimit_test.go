package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/qadocs/auth"
)

func TestLimiter(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("requests over the burst are rejected per user", func(t *testing.T) {
		l := New(0.001, 2, ok)
		codes := make([]int, 0, 3)
		for i := 0; i < 3; i++ {
			req := httptest.NewRequest("GET", "/", nil)
			req = req.WithContext(auth.WithUser(req.Context(), auth.User{Name: "alice", Tenant: "acme"}))
			w := httptest.NewRecorder()
			l.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}
		if codes[0] != http.StatusOK || codes[1] != http.StatusOK || codes[2] != http.StatusTooManyRequests {
			t.Errorf("unexpected status codes: %v", codes)
		}

		req := httptest.NewRequest("GET", "/", nil)
		req = req.WithContext(auth.WithUser(req.Context(), auth.User{Name: "bob", Tenant: "acme"}))
		w := httptest.NewRecorder()
		l.ServeHTTP(w, req)
		if w.Code != http.StatusOK {
			t.Errorf("expected other users to have their own bucket, got %d", w.Code)
		}
	})
	t.Run("anonymous requests share a bucket per host", func(t *testing.T) {
		l := New(0.001, 1, ok)
		codes := make([]int, 0, 3)
		for _, addr := range []string{"192.0.2.1:1234", "192.0.2.1:5678", "192.0.2.2:1234"} {
			req := httptest.NewRequest("GET", "/", nil)
			req.RemoteAddr = addr
			w := httptest.NewRecorder()
			l.ServeHTTP(w, req)
			codes = append(codes, w.Code)
		}
		expected := []int{http.StatusOK, http.StatusTooManyRequests, http.StatusOK}
		for i := range expected {
			if codes[i] != expected[i] {
				t.Errorf("unexpected status codes: %v", codes)
				break
			}
		}
	})
	t.Run("a zero rate disables limiting", func(t *testing.T) {
		l := New(0, 0, ok)
		for i := 0; i < 10; i++ {
			w := httptest.NewRecorder()
			l.ServeHTTP(w, httptest.NewRequest("GET", "/", nil))
			if w.Code != http.StatusOK {
				t.Fatalf("request %d: expected 200, got %d", i, w.Code)
			}
		}
	})
}
