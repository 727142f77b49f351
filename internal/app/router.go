package app

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/stitchdesk/stitchdesk/internal/catalog"
	"github.com/stitchdesk/stitchdesk/internal/customers"
	"github.com/stitchdesk/stitchdesk/internal/groups"
	"github.com/stitchdesk/stitchdesk/internal/inventory"
	"github.com/stitchdesk/stitchdesk/internal/invoices"
	"github.com/stitchdesk/stitchdesk/internal/ledger"
	"github.com/stitchdesk/stitchdesk/internal/market"
	"github.com/stitchdesk/stitchdesk/internal/observability"
	"github.com/stitchdesk/stitchdesk/internal/payroll"
	"github.com/stitchdesk/stitchdesk/internal/planning"
	"github.com/stitchdesk/stitchdesk/internal/premises"
	"github.com/stitchdesk/stitchdesk/internal/suppliers"
	"github.com/stitchdesk/stitchdesk/jobs"
)

// RouterParams groups dependencies for building the HTTP router.
type RouterParams struct {
	Logger           *slog.Logger
	Config           *Config
	CustomersHandler *customers.Handler
	LedgerHandler    *ledger.Handler
	CatalogHandler   *catalog.Handler
	GroupsHandler    *groups.Handler
	PayrollHandler   *payroll.Handler
	PlanningHandler  *planning.Handler
	SuppliersHandler *suppliers.Handler
	InventoryHandler *inventory.Handler
	InvoicesHandler  *invoices.Handler
	MarketHandler    *market.Handler
	PremisesHandler  *premises.Handler
	JobHandler       *jobs.Handler
	Metrics          *observability.Metrics
}

// NewRouter constructs the chi.Router with application defaults.
func NewRouter(params RouterParams) http.Handler {
	r := chi.NewRouter()

	for _, mw := range MiddlewareStack(MiddlewareConfig{
		Logger:  params.Logger,
		Config:  params.Config,
		Metrics: params.Metrics,
	}) {
		r.Use(mw)
	}

	r.Use(chimw.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// The customer directory and its per-customer ledger share one prefix.
	r.Route("/customers", func(r chi.Router) {
		if params.CustomersHandler != nil {
			params.CustomersHandler.MountRoutes(r)
		}
		if params.LedgerHandler != nil {
			params.LedgerHandler.MountRoutes(r)
		}
	})
	if params.CatalogHandler != nil {
		r.Route("/products", params.CatalogHandler.MountRoutes)
	}
	if params.GroupsHandler != nil {
		r.Route("/groups", params.GroupsHandler.MountRoutes)
	}
	if params.PayrollHandler != nil {
		r.Route("/payroll", params.PayrollHandler.MountRoutes)
	}
	if params.PlanningHandler != nil {
		r.Route("/plans", params.PlanningHandler.MountRoutes)
	}
	if params.SuppliersHandler != nil {
		r.Route("/suppliers", params.SuppliersHandler.MountRoutes)
	}
	if params.InventoryHandler != nil {
		r.Route("/stock", params.InventoryHandler.MountRoutes)
	}
	if params.InvoicesHandler != nil {
		r.Route("/invoices", params.InvoicesHandler.MountRoutes)
	}
	if params.MarketHandler != nil {
		r.Route("/market-goods", params.MarketHandler.MountRoutes)
	}
	if params.PremisesHandler != nil {
		r.Route("/premises", params.PremisesHandler.MountRoutes)
	}
	if params.JobHandler != nil {
		r.Route("/jobs", params.JobHandler.MountRoutes)
	}
	if params.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", params.Metrics.Handler())
	}

	return r
}
