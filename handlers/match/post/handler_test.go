package post

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/a-h/qadocs/auth"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/qadocs/service"
	"github.com/google/go-cmp/cmp"
)

type matcherFunc func(ctx context.Context, scope service.Scope, req models.MatchPostRequest) (models.MatchPostResponse, error)

func (f matcherFunc) Match(ctx context.Context, scope service.Scope, req models.MatchPostRequest) (models.MatchPostResponse, error) {
	return f(ctx, scope, req)
}

func TestHandler(t *testing.T) {
	expected := models.MatchPostResponse{
		Results: []models.MatchResult{
			{Document: models.QADocument{ID: "d1", Position: 1, Question: "Q", Answer: "A", Enabled: true}, Distance: 0.25},
		},
	}
	matcher := matcherFunc(func(ctx context.Context, scope service.Scope, req models.MatchPostRequest) (models.MatchPostResponse, error) {
		if req.Text == "" {
			return models.MatchPostResponse{}, service.ErrTextEmpty
		}
		if scope.Kind != models.ContainerApps || scope.ContainerID != "a1" {
			t.Errorf("unexpected scope: %+v", scope)
		}
		return expected, nil
	})
	mux := http.NewServeMux()
	mux.Handle("POST /apps/{id}/qa_documents/match", New(slog.New(slog.NewTextHandler(io.Discard, nil)), matcher, models.ContainerApps))

	tests := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "matches are returned", body: `{"text":"what?","limit":2}`, expectedStatus: http.StatusOK},
		{name: "empty text is rejected", body: `{"text":""}`, expectedStatus: http.StatusBadRequest},
		{name: "invalid JSON is rejected", body: `{`, expectedStatus: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodPost, "/apps/a1/qa_documents/match", strings.NewReader(tt.body))
			r = r.WithContext(auth.WithUser(r.Context(), auth.User{Name: "bob", Tenant: "acme", Role: auth.RoleNormal}))
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, r)
			if w.Code != tt.expectedStatus {
				t.Fatalf("expected status %d, got %d", tt.expectedStatus, w.Code)
			}
			if tt.expectedStatus != http.StatusOK {
				return
			}
			var actual models.MatchPostResponse
			if err := json.NewDecoder(w.Body).Decode(&actual); err != nil {
				t.Fatalf("failed to decode response: %v", err)
			}
			if diff := cmp.Diff(expected, actual); diff != "" {
				t.Errorf("unexpected response: %v", diff)
			}
		})
	}
}
