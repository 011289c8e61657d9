package put

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

type Updater interface {
	Update(ctx context.Context, scope service.Scope, id string, upd models.QADocumentUpdator) (models.QADocument, error)
}

func New(log *slog.Logger, updater Updater, kind models.ContainerKind) Handler {
	return Handler{
		log:     log,
		updater: updater,
		kind:    kind,
	}
}

type Handler struct {
	log     *slog.Logger
	updater Updater
	kind    models.ContainerKind
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	scope, ok := handlers.Scope(r, h.kind)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}

	var req models.QADocumentUpdator
	err := json.NewDecoder(r.Body).Decode(&req)
	if err != nil {
		h.log.Error("failed to decode body", slog.Any("error", err))
		respond.WithError(w, "failed to decode body", http.StatusBadRequest)
		return
	}

	doc, err := h.updater.Update(r.Context(), scope, r.PathValue("docId"), req)
	if err != nil {
		handlers.Error(h.log, w, "failed to update qa document", err)
		return
	}
	h.log.Info("qa document updated", slog.String("id", doc.ID), slog.Bool("enabled", doc.Enabled))

	respond.WithJSON(w, models.QADocumentResponse{Data: doc}, http.StatusOK)
}
