package customers

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches the customer directory routes. The per-customer
// transaction routes live in the ledger package and are mounted under the
// same prefix by the router.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/", h.List)
	r.Post("/", h.Create)
	r.Get("/{id}", h.Show)
	r.Put("/{id}", h.Update)
	r.Delete("/{id}", h.Delete)
}
