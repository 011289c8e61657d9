package get

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/qadocs/handlers"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/qadocs/service"
	"github.com/a-h/respond"
)

type Lister interface {
	List(ctx context.Context, scope service.Scope, params models.ListParams) (models.QADocumentPage, error)
}

func New(log *slog.Logger, lister Lister, kind models.ContainerKind) Handler {
	return Handler{
		log:    log,
		lister: lister,
		kind:   kind,
	}
}

type Handler struct {
	log    *slog.Logger
	lister Lister
	kind   models.ContainerKind
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope, ok := handlers.Scope(r, h.kind)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	q := r.URL.Query()
	params := models.ListParams{
		Keyword: q.Get("keyword"),
		Page:    intOrDefault(q.Get("page"), service.DefaultPage),
		Limit:   intOrDefault(q.Get("limit"), service.DefaultLimit),
		Sort:    models.SortCreatedAtDesc,
	}
	if models.Sort(q.Get("sort")) == models.SortCreatedAtAsc {
		params.Sort = models.SortCreatedAtAsc
	}

	page, err := h.lister.List(r.Context(), scope, params)
	if err != nil {
		handlers.Error(h.log, w, "failed to list qa documents", err)
		return
	}

	respond.WithJSON(w, page, http.StatusOK)
}

// intOrDefault returns the default for missing or malformed values.
func intOrDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
