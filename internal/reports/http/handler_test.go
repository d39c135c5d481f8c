package reporthttp

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/company"
	"github.com/ledgerline/ledgerline/internal/currency"
	"github.com/ledgerline/ledgerline/internal/expenses"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/reports"
	"github.com/ledgerline/ledgerline/internal/shared"
)

type fixedCompanyStore struct {
	comp *company.Company
}

func (f *fixedCompanyStore) Get(ctx context.Context, id int64) (*company.Company, error) {
	return f.comp, nil
}

type fixedMetrics struct {
	invoiced []invoices.MetricRow
	expensed []expenses.CurrencyTotal
}

func (f *fixedMetrics) filter(rows []invoices.MetricRow, currencyID *int64) []invoices.MetricRow {
	if currencyID == nil {
		return rows
	}
	var out []invoices.MetricRow
	for _, r := range rows {
		if r.CurrencyID == *currencyID {
			out = append(out, r)
		}
	}
	return out
}

func (f *fixedMetrics) InvoicedTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]invoices.MetricRow, error) {
	return f.filter(f.invoiced, currencyID), nil
}

func (f *fixedMetrics) OutstandingTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]invoices.MetricRow, error) {
	return nil, nil
}

func (f *fixedMetrics) PaymentTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]invoices.MetricRow, error) {
	return nil, nil
}

func (f *fixedMetrics) RevenueTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]invoices.MetricRow, error) {
	return nil, nil
}

func (f *fixedMetrics) Totals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]expenses.CurrencyTotal, error) {
	if currencyID != nil {
		var out []expenses.CurrencyTotal
		for _, r := range f.expensed {
			if r.CurrencyID == *currencyID {
				out = append(out, r)
			}
		}
		return out, nil
	}
	return f.expensed, nil
}

type currencySourceStub struct{ ids []int64 }

func (s currencySourceStub) DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error) {
	return s.ids, nil
}

type directoryStub struct{ snap currency.Snapshot }

func (d directoryStub) Snapshot(ctx context.Context) (currency.Snapshot, error) {
	return d.snap, nil
}

func newTestHandler(metrics *fixedMetrics) *Handler {
	resolver := reports.NewResolver(currencySourceStub{ids: []int64{2}}, currencySourceStub{})
	svc := reports.NewService(resolver, metrics, metrics, directoryStub{
		snap: currency.NewSnapshot([]currency.Currency{{ID: 1, Code: "USD"}, {ID: 2, Code: "EUR"}}),
	})
	store := &fixedCompanyStore{comp: &company.Company{ID: 10, DefaultCurrencyID: 1}}
	return NewHandler(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, store)
}

func newRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	h.MountRoutes(r)
	return r
}

func doRequest(t *testing.T, h http.Handler, target string, actor *shared.Actor) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if actor != nil {
		req = req.WithContext(shared.ContextWithActor(req.Context(), actor))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestSummaryRequiresActor(t *testing.T) {
	h := newRouter(newTestHandler(&fixedMetrics{}))

	rec := doRequest(t, h, "/summary", nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestSummaryRejectsBadDates(t *testing.T) {
	h := newRouter(newTestHandler(&fixedMetrics{}))
	actor := &shared.Actor{UserID: 1, CompanyID: 10, Admin: true}

	rec := doRequest(t, h, "/summary?start_date=January", actor)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doRequest(t, h, "/summary?start_date=2026-02-01&end_date=2026-01-01", actor)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryReturnsReport(t *testing.T) {
	metrics := &fixedMetrics{
		invoiced: []invoices.MetricRow{{CurrencyID: 1, Total: 500, Count: 2}},
	}
	h := newRouter(newTestHandler(metrics))
	actor := &shared.Actor{UserID: 1, CompanyID: 10, Admin: true}

	rec := doRequest(t, h, "/summary?start_date=2026-01-01&end_date=2026-01-31", actor)

	require.Equal(t, http.StatusOK, rec.Code)
	var report reports.SummaryReport
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
	assert.Equal(t, "2026-01-01", report.StartDate)
	require.Contains(t, report.Data, "1")
	require.Contains(t, report.Data, "2")
	assert.Equal(t, "USD", report.Data["1"].Code)
	require.Len(t, report.Data["1"].Invoices, 1)
	assert.Equal(t, float64(500), report.Data["1"].Invoices[0].Total)
}

func TestTotalsNeverEmitsNullCells(t *testing.T) {
	h := newRouter(newTestHandler(&fixedMetrics{}))
	actor := &shared.Actor{UserID: 1, CompanyID: 10, Admin: true}

	rec := doRequest(t, h, "/totals?start_date=2026-01-01&end_date=2026-01-31", actor)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "null")
	assert.Contains(t, rec.Body.String(), "{}")
}

func TestDashboardCombinesBothReports(t *testing.T) {
	h := newRouter(newTestHandler(&fixedMetrics{}))
	actor := &shared.Actor{UserID: 1, CompanyID: 10, Admin: true}

	rec := doRequest(t, h, "/dashboard?start_date=2026-01-01&end_date=2026-01-31", actor)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Summary json.RawMessage `json:"summary"`
		Totals  json.RawMessage `json:"totals"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	assert.NotEmpty(t, payload.Summary)
	assert.NotEmpty(t, payload.Totals)
}

func TestExportSummaryCSV(t *testing.T) {
	metrics := &fixedMetrics{
		invoiced: []invoices.MetricRow{{CurrencyID: 1, Total: 500, Count: 2}},
	}
	h := newRouter(newTestHandler(metrics))
	actor := &shared.Actor{UserID: 1, CompanyID: 10, Admin: true}

	rec := doRequest(t, h, "/export/summary.csv?start_date=2026-01-01&end_date=2026-01-31", actor)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	lines := strings.Split(strings.TrimSpace(rec.Body.String()), "\n")
	assert.Equal(t, "currency_id,code,metric,total,count", lines[0])
	assert.Contains(t, rec.Body.String(), "1,USD,invoices,500.00,2")
}
