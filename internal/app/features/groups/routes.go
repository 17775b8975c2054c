// internal/app/features/groups/routes.go
package groups

import (
	"github.com/go-chi/chi/v5"

	"github.com/jowpereira/mcp-server/internal/app/system/auth"
)

func Routes(h *Handler) chi.Router {
	r := chi.NewRouter()
	r.Use(auth.RequireSignedIn)

	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Put("/{grupo}", h.Update)
	r.Delete("/{grupo}", h.Delete)

	r.Post("/{grupo}/admins", h.Designate)
	r.Delete("/{grupo}/admins/{username}", h.Revoke)
	r.Post("/{grupo}/promover-admin", h.Promote)

	r.Get("/{grupo}/usuarios", h.ListMembers)
	r.Post("/{grupo}/usuarios", h.AddMember)
	r.Delete("/{grupo}/usuarios/{username}", h.RemoveMember)

	r.Get("/{grupo}/ferramentas", h.ListTools)
	r.Post("/{grupo}/ferramentas", h.AttachTool)
	r.Delete("/{grupo}/ferramentas/{ferramenta}", h.DetachTool)

	return r
}
