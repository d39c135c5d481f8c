package reports

import (
	"bytes"
	"encoding/json"
)

// Tenant is the reporting scope: one company and its configured default
// currency, which is always part of the resolved currency set.
type Tenant struct {
	ID                int64
	DefaultCurrencyID int64
}

// Row is one decorated metric figure for one currency. CurrencyID stays
// string-typed because upstream serialization has been observed to wrap
// ids in stray quote characters; rows are normalized before any lookup.
type Row struct {
	CurrencyID string  `json:"currency_id"`
	Code       string  `json:"code"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
}

// MetricCell is a metric slot that is always addressable: a currency
// with no activity for a metric holds an empty cell, which serializes
// as {} rather than null so consumers never need a presence check.
type MetricCell struct {
	Present bool
	Row     Row
}

// EmptyCell is the placeholder for a metric with no matching row.
func EmptyCell() MetricCell {
	return MetricCell{}
}

// CellOf wraps a row in a populated cell.
func CellOf(row Row) MetricCell {
	return MetricCell{Present: true, Row: row}
}

// MarshalJSON renders populated cells as the row object and empty cells
// as {}.
func (c MetricCell) MarshalJSON() ([]byte, error) {
	if !c.Present {
		return []byte("{}"), nil
	}
	return json.Marshal(c.Row)
}

// UnmarshalJSON accepts both shapes produced by MarshalJSON.
func (c *MetricCell) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("{}")) || bytes.Equal(trimmed, []byte("null")) {
		*c = MetricCell{}
		return nil
	}
	var row Row
	if err := json.Unmarshal(data, &row); err != nil {
		return err
	}
	*c = MetricCell{Present: true, Row: row}
	return nil
}

// CurrencySummary groups the per-currency query results of summary
// mode. Each slot carries the provider's own result set for that single
// currency, which may legitimately be empty.
type CurrencySummary struct {
	Code        string `json:"code"`
	Invoices    []Row  `json:"invoices"`
	Outstanding []Row  `json:"outstanding"`
	Payments    []Row  `json:"payments"`
	Expenses    []Row  `json:"expenses"`
}

// CurrencyTotals groups the four metric cells of totals mode.
type CurrencyTotals struct {
	Invoices    MetricCell `json:"invoices"`
	Revenue     MetricCell `json:"revenue"`
	Outstanding MetricCell `json:"outstanding"`
	Expenses    MetricCell `json:"expenses"`
}

// SummaryReport is the date-ranged report keyed by currency id.
type SummaryReport struct {
	StartDate string                     `json:"start_date"`
	EndDate   string                     `json:"end_date"`
	Data      map[string]CurrencySummary `json:"data"`
}

// TotalsReport is the point-in-time snapshot keyed by currency id.
type TotalsReport struct {
	StartDate string                    `json:"start_date"`
	EndDate   string                    `json:"end_date"`
	Data      map[string]CurrencyTotals `json:"data"`
}
