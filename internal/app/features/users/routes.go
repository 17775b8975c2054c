// internal/app/features/users/routes.go
package users

import (
	"github.com/go-chi/chi/v5"

	"github.com/jowpereira/mcp-server/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{username}", h.Get)
	r.Delete("/{username}", h.Delete)
	r.Post("/{username}/password", h.SetPassword)

	return r
}
