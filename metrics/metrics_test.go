package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestHandler(t *testing.T) {
	route := "GET /test/{id}"
	h := Handler(route, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte("ok"))
	}))

	before200 := testutil.ToFloat64(Requests.WithLabelValues(route, "200"))
	before404 := testutil.ToFloat64(Requests.WithLabelValues(route, "404"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/found", nil))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/missing", nil))

	if actual := testutil.ToFloat64(Requests.WithLabelValues(route, "200")) - before200; actual != 1 {
		t.Errorf("expected 1 successful request, got %v", actual)
	}
	if actual := testutil.ToFloat64(Requests.WithLabelValues(route, "404")) - before404; actual != 1 {
		t.Errorf("expected 1 not found request, got %v", actual)
	}
}

func TestObserveIndex(t *testing.T) {
	beforeSuccess := testutil.ToFloat64(IndexOperations.WithLabelValues("add", "success"))
	beforeError := testutil.ToFloat64(IndexOperations.WithLabelValues("add", "error"))

	ObserveIndex("add", nil)
	ObserveIndex("add", errors.New("embedder unavailable"))

	if actual := testutil.ToFloat64(IndexOperations.WithLabelValues("add", "success")) - beforeSuccess; actual != 1 {
		t.Errorf("expected 1 success, got %v", actual)
	}
	if actual := testutil.ToFloat64(IndexOperations.WithLabelValues("add", "error")) - beforeError; actual != 1 {
		t.Errorf("expected 1 error, got %v", actual)
	}
}

func TestRegisterCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	RegisterCollectors(reg)
	ObserveIndex("remove", nil)
	if _, err := reg.Gather(); err != nil {
		t.Fatalf("failed to gather: %v", err)
	}
}
