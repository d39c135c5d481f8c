package reporthttp

import (
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"
)

// MountRoutes registers the reporting endpoints. Exports are rate
// limited per session since they fan out the full query set.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/summary", h.Summary)
	r.Get("/totals", h.Totals)
	r.Get("/dashboard", h.Dashboard)

	r.Group(func(r chi.Router) {
		r.Use(httprate.LimitByIP(10, time.Minute))
		r.Get("/export/summary.csv", h.ExportSummaryCSV)
		r.Get("/export/totals.csv", h.ExportTotalsCSV)
	})
}
