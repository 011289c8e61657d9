package get

import (
	"log/slog"
	"net/http"

	"github.com/a-h/qadocs/auth"
	"github.com/a-h/qadocs/models"
	"github.com/a-h/respond"
)

func New(log *slog.Logger) Handler {
	return Handler{
		log: log,
	}
}

// Handler returns the account behind the API key, including whether it may
// manage QA documents.
type Handler struct {
	log *slog.Logger
}

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.GetUser(r)
	if !ok {
		http.Error(w, "authentication not provided", http.StatusUnauthorized)
		return
	}
	respond.WithJSON(w, models.Account{
		Name:    user.Name,
		Tenant:  user.Tenant,
		Role:    user.Role,
		Manager: user.IsManager(),
	}, http.StatusOK)
}
