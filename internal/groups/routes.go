package groups

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches group management routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Rename)
	r.Delete("/{id}", h.Delete)
	r.Post("/{id}/members", h.AddMember)
	r.Delete("/{id}/members/{memberID}", h.RemoveMember)
}
