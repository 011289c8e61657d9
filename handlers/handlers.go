// Package handlers contains the helpers shared by the HTTP handlers in its
// sub-packages.
package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/a-h/qadocs/auth"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/qadocs/service"
	"github.com/a-h/respond"
)

// Scope reads the authenticated user and the container ID path value.
func Scope(r *http.Request, kind models.ContainerKind) (scope service.Scope, ok bool) {
	user, ok := auth.GetUser(r)
	if !ok {
		return scope, false
	}
	return service.Scope{
		User:        user,
		Kind:        kind,
		ContainerID: r.PathValue("id"),
	}, true
}

func StatusCode(err error) int {
	switch {
	case errors.Is(err, models.ErrQuestionEmpty),
		errors.Is(err, models.ErrAnswerEmpty),
		errors.Is(err, service.ErrTextEmpty),
		errors.Is(err, service.ErrInvalidContainer):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error responds with the status code for err. Client errors carry the error
// text, server errors carry msg.
func Error(log *slog.Logger, w http.ResponseWriter, msg string, err error) {
	status := StatusCode(err)
	if status >= http.StatusInternalServerError {
		log.Error(msg, slog.Any("error", err))
		respond.WithError(w, msg, status)
		return
	}
	log.Debug(msg, slog.Any("error", err), slog.Int("status", status))
	respond.WithError(w, err.Error(), status)
}
