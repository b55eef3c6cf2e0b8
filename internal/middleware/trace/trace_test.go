package trace

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestGenerateRequestID(t *testing.T) {
	id := GenerateRequestID()
	if !strings.HasPrefix(id, "req_") {
		t.Errorf("expected req_ prefix, got %q", id)
	}
	if len(id) != len("req_")+16 {
		t.Errorf("unexpected length %d for %q", len(id), id)
	}

	other := GenerateRequestID()
	if id == other {
		t.Error("expected distinct IDs on successive calls")
	}
}

func TestMiddlewareAttachesRequestID(t *testing.T) {
	m := NewMiddleware(nil)

	var captured string
	handler := m.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = GetRequestID(r.Context())
		w.WriteHeader(http.StatusCreated)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/batches", nil))

	if captured == "" {
		t.Fatal("request ID missing from handler context")
	}
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusCreated)
	}

	metrics := m.GetMetrics()
	if metrics.TotalRequests != 1 {
		t.Errorf("TotalRequests = %d, want 1", metrics.TotalRequests)
	}
}

func TestGetRequestIDMissing(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	if got := GetRequestID(r.Context()); got != "" {
		t.Errorf("expected empty ID, got %q", got)
	}
}
