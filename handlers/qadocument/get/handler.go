package get

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/qadocs/handlers"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/qadocs/service"
	"github.com/a-h/respond"
)

type Getter interface {
	Get(ctx context.Context, scope service.Scope, id string) (models.QADocument, error)
}

func New(log *slog.Logger, getter Getter, kind models.ContainerKind) Handler {
	return Handler{
		log:    log,
		getter: getter,
		kind:   kind,
	}
}

type Handler struct {
	log    *slog.Logger
	getter Getter
	kind   models.ContainerKind
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope, ok := handlers.Scope(r, h.kind)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	doc, err := h.getter.Get(r.Context(), scope, r.PathValue("docId"))
	if err != nil {
		handlers.Error(h.log, w, "failed to get qa document", err)
		return
	}

	respond.WithJSON(w, doc, http.StatusOK)
}
