package reports

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/ledgerline/ledgerline/internal/currency"
	"github.com/ledgerline/ledgerline/internal/expenses"
	"github.com/ledgerline/ledgerline/internal/invoices"
	"github.com/ledgerline/ledgerline/internal/shared"
)

const dateLayout = "2006-01-02"

// InvoiceMetrics exposes the invoice-side aggregate queries. A nil
// currencyID spans all currencies; rows then self-tag their currency.
type InvoiceMetrics interface {
	InvoicedTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]invoices.MetricRow, error)
	OutstandingTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]invoices.MetricRow, error)
	PaymentTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]invoices.MetricRow, error)
	RevenueTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]invoices.MetricRow, error)
}

// ExpenseMetrics exposes the expense aggregate query.
type ExpenseMetrics interface {
	Totals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]expenses.CurrencyTotal, error)
}

// DirectorySource yields the current currency directory snapshot.
type DirectorySource interface {
	Snapshot(ctx context.Context) (currency.Snapshot, error)
}

// Service builds the per-currency reports. All provider calls are
// sequential; any provider failure aborts the whole call rather than
// producing a partial report.
type Service struct {
	resolver  *Resolver
	invoices  InvoiceMetrics
	expenses  ExpenseMetrics
	directory DirectorySource
}

// NewService wires the resolver with the metric providers and the
// currency directory.
func NewService(resolver *Resolver, inv InvoiceMetrics, exp ExpenseMetrics, directory DirectorySource) *Service {
	return &Service{resolver: resolver, invoices: inv, expenses: exp, directory: directory}
}

// Summary builds the date-ranged report. Each metric is fetched with a
// per-currency query, one round trip per resolved currency and metric.
func (s *Service) Summary(ctx context.Context, tenant Tenant, actor shared.Actor, from, to time.Time) (*SummaryReport, error) {
	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load currency directory: %w", err)
	}
	ids, err := s.resolver.ResolveCurrencies(ctx, tenant, actor)
	if err != nil {
		return nil, err
	}

	owner := actor.OwnerFilter()
	report := &SummaryReport{
		StartDate: from.Format(dateLayout),
		EndDate:   to.Format(dateLayout),
		Data:      make(map[string]CurrencySummary, len(ids)),
	}

	for _, id := range ids {
		cid := id

		invoiced, err := s.invoices.InvoicedTotals(ctx, tenant.ID, owner, from, to, &cid)
		if err != nil {
			return nil, fmt.Errorf("invoiced totals for currency %d: %w", id, err)
		}
		outstanding, err := s.invoices.OutstandingTotals(ctx, tenant.ID, owner, from, to, &cid)
		if err != nil {
			return nil, fmt.Errorf("outstanding totals for currency %d: %w", id, err)
		}
		payments, err := s.invoices.PaymentTotals(ctx, tenant.ID, owner, from, to, &cid)
		if err != nil {
			return nil, fmt.Errorf("payment totals for currency %d: %w", id, err)
		}
		expensed, err := s.expenses.Totals(ctx, tenant.ID, owner, from, to, &cid)
		if err != nil {
			return nil, fmt.Errorf("expense totals for currency %d: %w", id, err)
		}

		report.Data[strconv.FormatInt(id, 10)] = CurrencySummary{
			Code:        snap.CodeFor(id),
			Invoices:    AddCurrencyCodes(fromInvoiceRows(invoiced), snap),
			Outstanding: AddCurrencyCodes(fromInvoiceRows(outstanding), snap),
			Payments:    AddCurrencyCodes(fromInvoiceRows(payments), snap),
			Expenses:    AddCurrencyCodes(fromExpenseTotals(expensed), snap),
		}
	}
	return report, nil
}

// Totals builds the point-in-time snapshot. Each metric is fetched once
// across all currencies, decorated, then joined per resolved currency
// by first-match on the normalized currency id. Missing metrics become
// empty cells, never omitted keys.
func (s *Service) Totals(ctx context.Context, tenant Tenant, actor shared.Actor, from, to time.Time) (*TotalsReport, error) {
	snap, err := s.directory.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("load currency directory: %w", err)
	}
	ids, err := s.resolver.ResolveCurrencies(ctx, tenant, actor)
	if err != nil {
		return nil, err
	}

	owner := actor.OwnerFilter()

	invoiced, err := s.invoices.InvoicedTotals(ctx, tenant.ID, owner, from, to, nil)
	if err != nil {
		return nil, fmt.Errorf("invoiced totals: %w", err)
	}
	revenue, err := s.invoices.RevenueTotals(ctx, tenant.ID, owner, from, to, nil)
	if err != nil {
		return nil, fmt.Errorf("revenue totals: %w", err)
	}
	outstanding, err := s.invoices.OutstandingTotals(ctx, tenant.ID, owner, from, to, nil)
	if err != nil {
		return nil, fmt.Errorf("outstanding totals: %w", err)
	}
	expensed, err := s.expenses.Totals(ctx, tenant.ID, owner, from, to, nil)
	if err != nil {
		return nil, fmt.Errorf("expense totals: %w", err)
	}

	// Decorate every list in full before matching.
	invoicedRows := AddCurrencyCodes(fromInvoiceRows(invoiced), snap)
	revenueRows := AddCurrencyCodes(fromInvoiceRows(revenue), snap)
	outstandingRows := AddCurrencyCodes(fromInvoiceRows(outstanding), snap)
	expenseRows := AddCurrencyCodes(fromExpenseTotals(expensed), snap)

	report := &TotalsReport{
		StartDate: from.Format(dateLayout),
		EndDate:   to.Format(dateLayout),
		Data:      make(map[string]CurrencyTotals, len(ids)),
	}
	for _, id := range ids {
		report.Data[strconv.FormatInt(id, 10)] = CurrencyTotals{
			Invoices:    firstMatch(invoicedRows, id),
			Revenue:     firstMatch(revenueRows, id),
			Outstanding: firstMatch(outstandingRows, id),
			Expenses:    firstMatch(expenseRows, id),
		}
	}
	return report, nil
}

func fromInvoiceRows(rows []invoices.MetricRow) []Row {
	result := make([]Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, Row{
			CurrencyID: strconv.FormatInt(r.CurrencyID, 10),
			Total:      r.Total,
			Count:      r.Count,
		})
	}
	return result
}

func fromExpenseTotals(rows []expenses.CurrencyTotal) []Row {
	result := make([]Row, 0, len(rows))
	for _, r := range rows {
		result = append(result, Row{
			CurrencyID: strconv.FormatInt(r.CurrencyID, 10),
			Total:      r.Total,
			Count:      r.Count,
		})
	}
	return result
}
