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

type Creator interface {
	Create(ctx context.Context, scope service.Scope, upd models.QADocumentUpdator) (models.QADocument, error)
}

func New(log *slog.Logger, creator Creator, kind models.ContainerKind) Handler {
	return Handler{
		log:     log,
		creator: creator,
		kind:    kind,
	}
}

type Handler struct {
	log     *slog.Logger
	creator Creator
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

	doc, err := h.creator.Create(r.Context(), scope, req)
	if err != nil {
		handlers.Error(h.log, w, "failed to create qa document", err)
		return
	}
	h.log.Info("qa document created", slog.String("id", doc.ID), slog.String("container", scope.ContainerID), slog.Bool("enabled", doc.Enabled))

	respond.WithJSON(w, models.QADocumentResponse{Data: doc}, http.StatusOK)
}
