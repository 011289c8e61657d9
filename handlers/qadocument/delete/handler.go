package delete

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/a-h/qadocs/handlers"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/qadocs/service"
	"github.com/a-h/respond"
)

type Deleter interface {
	Delete(ctx context.Context, scope service.Scope, id string) error
}

func New(log *slog.Logger, deleter Deleter, kind models.ContainerKind) Handler {
	return Handler{
		log:     log,
		deleter: deleter,
		kind:    kind,
	}
}

type Handler struct {
	log     *slog.Logger
	deleter Deleter
	kind    models.ContainerKind
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope, ok := handlers.Scope(r, h.kind)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	id := r.PathValue("docId")
	if err := h.deleter.Delete(r.Context(), scope, id); err != nil {
		handlers.Error(h.log, w, "failed to delete qa document", err)
		return
	}
	h.log.Info("qa document deleted", slog.String("id", id))

	respond.WithJSON(w, models.CommonResponse{Result: models.ResultSuccess}, http.StatusOK)
}
