package daemon

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCorrelationIDMiddleware(t *testing.T) {
	t.Run("generates ID when absent", func(t *testing.T) {
		var captured string
		handler := correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetCorrelationID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if captured == "" {
			t.Error("expected a generated correlation ID in context")
		}
		if got := w.Header().Get(CorrelationIDHeader); got != captured {
			t.Errorf("response header = %q; want %q", got, captured)
		}
	})

	t.Run("propagates existing ID", func(t *testing.T) {
		var captured string
		handler := correlationIDMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			captured = GetCorrelationID(r.Context())
		}))

		req := httptest.NewRequest(http.MethodGet, "/test", nil)
		req.Header.Set(CorrelationIDHeader, "existing-id")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		if captured != "existing-id" {
			t.Errorf("correlation ID = %q; want %q", captured, "existing-id")
		}
	})
}

func TestLoggingMiddleware(t *testing.T) {
	handler := loggingMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusTeapot {
		t.Errorf("expected status %d, got %d", http.StatusTeapot, w.Code)
	}
}

func TestRecoveryMiddleware(t *testing.T) {
	handler := recoveryMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("test panic")
	}))

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected status %d, got %d", http.StatusInternalServerError, w.Code)
	}
}

func TestGetCorrelationIDMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)

	if got := GetCorrelationID(req.Context()); got != "" {
		t.Errorf("GetCorrelationID = %q; want empty", got)
	}
}
