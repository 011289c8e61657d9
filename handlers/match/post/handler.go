package post

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/a-h/qadocs/handlers"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/qadocs/service"
	"github.com/a-h/respond"
)

type Matcher interface {
	Match(ctx context.Context, scope service.Scope, req models.MatchPostRequest) (models.MatchPostResponse, error)
}

func New(log *slog.Logger, matcher Matcher, kind models.ContainerKind) Handler {
	return Handler{
		log:     log,
		matcher: matcher,
		kind:    kind,
	}
}

// Handler finds the QA documents whose questions are closest to the posted text.
type Handler struct {
	log     *slog.Logger
	matcher Matcher
	kind    models.ContainerKind
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope, ok := handlers.Scope(r, h.kind)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	var req models.MatchPostRequest
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}

	resp, err := h.matcher.Match(r.Context(), scope, req)
	if err != nil {
		handlers.Error(h.log, w, "failed to match qa documents", err)
		return
	}

	respond.WithJSON(w, resp, http.StatusOK)
}
