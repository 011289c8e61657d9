package get

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/qadocs/auth"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/qadocs/service"
	"github.com/google/go-cmp/cmp"
)

type getterFunc func(ctx context.Context, scope service.Scope, id string) (models.QADocument, error)

func (f getterFunc) Get(ctx context.Context, scope service.Scope, id string) (models.QADocument, error) {
	return f(ctx, scope, id)
}

func TestHandler(t *testing.T) {
	expected := models.QADocument{ID: "d1", Position: 3, Question: "Q", Answer: "A", Enabled: true, CreatedAt: 1700000000}
	getter := getterFunc(func(ctx context.Context, scope service.Scope, id string) (models.QADocument, error) {
		if id != "d1" || scope.ContainerID != "ds1" {
			return models.QADocument{}, service.ErrNotFound
		}
		return expected, nil
	})
	mux := http.NewServeMux()
	mux.Handle("GET /datasets/{id}/qa_documents/{docId}", New(slog.New(slog.NewTextHandler(io.Discard, nil)), getter, models.ContainerDatasets))

	t.Run("existing documents are returned", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/datasets/ds1/qa_documents/d1", nil)
		r = r.WithContext(auth.WithUser(r.Context(), auth.User{Name: "alice"}))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", w.Code)
		}
		var actual models.QADocument
		if err := json.NewDecoder(w.Body).Decode(&actual); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if diff := cmp.Diff(expected, actual); diff != "" {
			t.Errorf("unexpected document: %v", diff)
		}
	})
	t.Run("missing documents are 404", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/datasets/ds1/qa_documents/d2", nil)
		r = r.WithContext(auth.WithUser(r.Context(), auth.User{Name: "alice"}))
		w := httptest.NewRecorder()
		mux.ServeHTTP(w, r)
		if w.Code != http.StatusNotFound {
			t.Errorf("expected status 404, got %d", w.Code)
		}
	})
}
