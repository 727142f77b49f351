package ledger

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches ledger routes under a customer-scoped prefix.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/{id}/transactions", h.Append)
	r.Get("/{id}/transactions", h.History)
	r.Get("/{id}/balance", h.Balance)
	r.Get("/{id}/verify", h.Verify)
}
