// Package export renders finished reports into CSV downloads.
package export

import (
	"encoding/csv"
	"io"
	"sort"
	"strconv"

	"github.com/ledgerline/ledgerline/internal/reports"
)

var summaryHeader = []string{"currency_id", "code", "metric", "total", "count"}

var totalsHeader = []string{"currency_id", "code", "metric", "total", "count"}

// WriteSummaryCSV streams a summary report, one line per currency and
// metric row, ordered by numeric currency id.
func WriteSummaryCSV(w io.Writer, report *reports.SummaryReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(summaryHeader); err != nil {
		return err
	}
	for _, id := range sortedKeys(summaryKeys(report)) {
		if err := writeSummarySection(cw, id, report.Data[id]); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func writeSummarySection(cw *csv.Writer, id string, section reports.CurrencySummary) error {
	groups := []struct {
		name string
		rows []reports.Row
	}{
		{"invoices", section.Invoices},
		{"outstanding", section.Outstanding},
		{"payments", section.Payments},
		{"expenses", section.Expenses},
	}
	for _, group := range groups {
		for _, row := range group.rows {
			record := []string{id, section.Code, group.name, formatAmount(row.Total), strconv.FormatInt(row.Count, 10)}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	return nil
}

// WriteTotalsCSV streams a totals report. Absent metrics are written
// with blank amount columns so every currency keeps four lines.
func WriteTotalsCSV(w io.Writer, report *reports.TotalsReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(totalsHeader); err != nil {
		return err
	}
	for _, id := range sortedKeys(totalsKeys(report)) {
		cells := report.Data[id]
		groups := []struct {
			name string
			cell reports.MetricCell
		}{
			{"invoices", cells.Invoices},
			{"revenue", cells.Revenue},
			{"outstanding", cells.Outstanding},
			{"expenses", cells.Expenses},
		}
		for _, group := range groups {
			record := []string{id, "", group.name, "", ""}
			if group.cell.Present {
				record[1] = group.cell.Row.Code
				record[3] = formatAmount(group.cell.Row.Total)
				record[4] = strconv.FormatInt(group.cell.Row.Count, 10)
			}
			if err := cw.Write(record); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

func summaryKeys(report *reports.SummaryReport) []string {
	keys := make([]string, 0, len(report.Data))
	for id := range report.Data {
		keys = append(keys, id)
	}
	return keys
}

func totalsKeys(report *reports.TotalsReport) []string {
	keys := make([]string, 0, len(report.Data))
	for id := range report.Data {
		keys = append(keys, id)
	}
	return keys
}

func sortedKeys(keys []string) []string {
	sort.Slice(keys, func(i, j int) bool {
		a, aerr := strconv.ParseInt(keys[i], 10, 64)
		b, berr := strconv.ParseInt(keys[j], 10, 64)
		if aerr != nil || berr != nil {
			return keys[i] < keys[j]
		}
		return a < b
	})
	return keys
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
