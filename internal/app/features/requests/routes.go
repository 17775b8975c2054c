// internal/app/features/requests/routes.go
package requests

import (
	"github.com/go-chi/chi/v5"

	"github.com/jowpereira/mcp-server/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Post("/", h.Submit)
	r.Get("/me", h.Me)
	r.Get("/admin", h.Admin)
	r.Get("/{id}", h.Get)
	r.Post("/{id}/review", h.Review)

	return r
}
