package invoices

import (
	"context"
	"fmt"
	"time"
)

// Metric queries backing the report aggregator. Each comes in two
// shapes: scoped to a single currency when currencyID is non-nil, or
// spanning all currencies with rows self-tagged by currency_id.

// InvoicedTotals sums invoice totals issued in the date range, grouped
// by currency. Voided invoices are excluded.
func (r *Repository) InvoicedTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]MetricRow, error) {
	query := `
		SELECT currency_id, COALESCE(SUM(total), 0), COUNT(*)
		FROM invoices
		WHERE company_id = $1 AND is_deleted = FALSE AND status <> 'VOID'
		  AND issued_at >= $2 AND issued_at <= $3`
	query, args := appendMetricFilters(query, []any{companyID, from, to}, "user_id", "currency_id", ownerID, currencyID)
	query += " GROUP BY currency_id ORDER BY currency_id"
	return r.queryMetricRows(ctx, query, args)
}

// OutstandingTotals sums the unpaid remainder of sent invoices issued
// in the date range, grouped by currency.
func (r *Repository) OutstandingTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]MetricRow, error) {
	query := `
		SELECT i.currency_id, COALESCE(SUM(i.total - COALESCE(p.paid, 0)), 0), COUNT(*)
		FROM invoices i
		LEFT JOIN (
			SELECT invoice_id, SUM(amount) AS paid FROM payments GROUP BY invoice_id
		) p ON p.invoice_id = i.id
		WHERE i.company_id = $1 AND i.is_deleted = FALSE AND i.status = 'SENT'
		  AND i.issued_at >= $2 AND i.issued_at <= $3`
	query, args := appendMetricFilters(query, []any{companyID, from, to}, "i.user_id", "i.currency_id", ownerID, currencyID)
	query += " GROUP BY i.currency_id ORDER BY i.currency_id"
	return r.queryMetricRows(ctx, query, args)
}

// PaymentTotals sums payments received in the date range, grouped by
// the invoice currency each payment was made against.
func (r *Repository) PaymentTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]MetricRow, error) {
	query := `
		SELECT i.currency_id, COALESCE(SUM(p.amount), 0), COUNT(*)
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE p.company_id = $1 AND i.is_deleted = FALSE
		  AND p.paid_at >= $2 AND p.paid_at <= $3`
	query, args := appendMetricFilters(query, []any{companyID, from, to}, "i.user_id", "i.currency_id", ownerID, currencyID)
	query += " GROUP BY i.currency_id ORDER BY i.currency_id"
	return r.queryMetricRows(ctx, query, args)
}

// RevenueTotals sums recognized income: payments received in the range
// against invoices that were not voided afterwards.
func (r *Repository) RevenueTotals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]MetricRow, error) {
	query := `
		SELECT i.currency_id, COALESCE(SUM(p.amount), 0), COUNT(*)
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE p.company_id = $1 AND i.is_deleted = FALSE AND i.status <> 'VOID'
		  AND p.paid_at >= $2 AND p.paid_at <= $3`
	query, args := appendMetricFilters(query, []any{companyID, from, to}, "i.user_id", "i.currency_id", ownerID, currencyID)
	query += " GROUP BY i.currency_id ORDER BY i.currency_id"
	return r.queryMetricRows(ctx, query, args)
}

// appendMetricFilters adds the owner and currency predicates. The
// choice between admin-wide and owner-restricted visibility is made
// here, once, before execution.
func appendMetricFilters(query string, args []any, ownerCol, currencyCol string, ownerID, currencyID *int64) (string, []any) {
	argNum := len(args) + 1
	if ownerID != nil {
		query += fmt.Sprintf(" AND %s = $%d", ownerCol, argNum)
		args = append(args, *ownerID)
		argNum++
	}
	if currencyID != nil {
		query += fmt.Sprintf(" AND %s = $%d", currencyCol, argNum)
		args = append(args, *currencyID)
	}
	return query, args
}

func (r *Repository) queryMetricRows(ctx context.Context, query string, args []any) ([]MetricRow, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []MetricRow
	for rows.Next() {
		var row MetricRow
		if err := rows.Scan(&row.CurrencyID, &row.Total, &row.Count); err != nil {
			return nil, err
		}
		result = append(result, row)
	}
	return result, rows.Err()
}
