// Package reporthttp exposes the reporting endpoints.
package reporthttp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ledgerline/ledgerline/internal/company"
	"github.com/ledgerline/ledgerline/internal/reports"
	"github.com/ledgerline/ledgerline/internal/reports/export"
	"github.com/ledgerline/ledgerline/internal/shared"
)

const dateLayout = "2006-01-02"

// CompanyStore resolves the actor's company for tenant defaults.
type CompanyStore interface {
	Get(ctx context.Context, id int64) (*company.Company, error)
}

type Handler struct {
	logger    *slog.Logger
	service   *reports.Service
	companies CompanyStore
}

func NewHandler(logger *slog.Logger, service *reports.Service, companies CompanyStore) *Handler {
	return &Handler{logger: logger, service: service, companies: companies}
}

type dateRange struct {
	From time.Time
	To   time.Time
}

// parseDateRange reads start_date and end_date query params. Missing
// params default to the current calendar month.
func parseDateRange(r *http.Request) (dateRange, error) {
	now := time.Now().UTC()
	dr := dateRange{
		From: time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC),
		To:   now,
	}
	if raw := r.URL.Query().Get("start_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return dateRange{}, fmt.Errorf("invalid start_date %q", raw)
		}
		dr.From = parsed
	}
	if raw := r.URL.Query().Get("end_date"); raw != "" {
		parsed, err := time.Parse(dateLayout, raw)
		if err != nil {
			return dateRange{}, fmt.Errorf("invalid end_date %q", raw)
		}
		dr.To = parsed
	}
	if dr.To.Before(dr.From) {
		return dateRange{}, errors.New("end_date before start_date")
	}
	return dr, nil
}

func (h *Handler) tenantFor(ctx context.Context, actor shared.Actor) (reports.Tenant, error) {
	comp, err := h.companies.Get(ctx, actor.CompanyID)
	if err != nil {
		return reports.Tenant{}, fmt.Errorf("load company %d: %w", actor.CompanyID, err)
	}
	return reports.Tenant{ID: comp.ID, DefaultCurrencyID: comp.DefaultCurrencyID}, nil
}

func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	dr, err := parseDateRange(r)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenant, err := h.tenantFor(r.Context(), *actor)
	if err != nil {
		h.logger.Error("resolve tenant", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	report, err := h.service.Summary(r.Context(), tenant, *actor, dr.From, dr.To)
	if err != nil {
		h.logger.Error("summary report", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	shared.RespondJSON(w, http.StatusOK, report)
}

func (h *Handler) Totals(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	dr, err := parseDateRange(r)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenant, err := h.tenantFor(r.Context(), *actor)
	if err != nil {
		h.logger.Error("resolve tenant", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	report, err := h.service.Totals(r.Context(), tenant, *actor, dr.From, dr.To)
	if err != nil {
		h.logger.Error("totals report", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}
	shared.RespondJSON(w, http.StatusOK, report)
}

// Dashboard returns both report shapes in one payload. The two builds
// run concurrently; either failure fails the whole response.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	dr, err := parseDateRange(r)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenant, err := h.tenantFor(r.Context(), *actor)
	if err != nil {
		h.logger.Error("resolve tenant", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	var (
		summary *reports.SummaryReport
		totals  *reports.TotalsReport
	)
	g, ctx := errgroup.WithContext(r.Context())
	g.Go(func() error {
		var err error
		summary, err = h.service.Summary(ctx, tenant, *actor, dr.From, dr.To)
		return err
	})
	g.Go(func() error {
		var err error
		totals, err = h.service.Totals(ctx, tenant, *actor, dr.From, dr.To)
		return err
	})
	if err := g.Wait(); err != nil {
		h.logger.Error("dashboard report", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	shared.RespondJSON(w, http.StatusOK, map[string]any{
		"summary": summary,
		"totals":  totals,
	})
}

func (h *Handler) ExportSummaryCSV(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	dr, err := parseDateRange(r)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenant, err := h.tenantFor(r.Context(), *actor)
	if err != nil {
		h.logger.Error("resolve tenant", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	report, err := h.service.Summary(r.Context(), tenant, *actor, dr.From, dr.To)
	if err != nil {
		h.logger.Error("summary export", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=summary-%s-%s.csv", report.StartDate, report.EndDate))
	if err := export.WriteSummaryCSV(w, report); err != nil {
		h.logger.Error("write summary csv", slog.Any("error", err))
	}
}

func (h *Handler) ExportTotalsCSV(w http.ResponseWriter, r *http.Request) {
	actor := shared.ActorFromContext(r.Context())
	if actor == nil {
		shared.RespondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	dr, err := parseDateRange(r)
	if err != nil {
		shared.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}
	tenant, err := h.tenantFor(r.Context(), *actor)
	if err != nil {
		h.logger.Error("resolve tenant", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	report, err := h.service.Totals(r.Context(), tenant, *actor, dr.From, dr.To)
	if err != nil {
		h.logger.Error("totals export", slog.Any("error", err))
		shared.RespondError(w, http.StatusInternalServerError, "failed to build report")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=totals-%s-%s.csv", report.StartDate, report.EndDate))
	if err := export.WriteTotalsCSV(w, report); err != nil {
		h.logger.Error("write totals csv", slog.Any("error", err))
	}
}
