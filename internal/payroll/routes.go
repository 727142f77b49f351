package payroll

import (
	"github.com/go-chi/chi/v5"
)

// MountRoutes attaches payroll routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/records", h.CreateRecord)
	r.Get("/summaries", h.MonthSummaries)
	r.Get("/daily", h.DailyProductions)
	r.Get("/groups/{id}/summary", h.GroupSummary)
	r.Get("/groups/{id}/contributions", h.GroupContributions)
	r.Post("/groups/{id}/status", h.SetStatus)
}
