// internal/app/features/toolcatalog/routes.go
package toolcatalog

import (
	"github.com/go-chi/chi/v5"

	"github.com/jowpereira/mcp-server/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
	r.Get("/{id}/invoke", h.Invoke)

	return r
}
