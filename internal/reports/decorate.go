package reports

import (
	"strconv"
	"strings"

	"github.com/ledgerline/ledgerline/internal/currency"
)

// NormalizeCurrencyID strips the stray quote characters that upstream
// serialization occasionally wraps around currency ids. Applying it to
// an already-clean id is a no-op.
func NormalizeCurrencyID(raw string) string {
	return strings.ReplaceAll(strings.TrimSpace(raw), `"`, "")
}

func parseCurrencyID(raw string) (int64, bool) {
	id, err := strconv.ParseInt(NormalizeCurrencyID(raw), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// AddCurrencyCodes normalizes each row's currency id and annotates the
// row with its directory code, or the empty string when the directory
// has no entry. Idempotent for a stable snapshot.
func AddCurrencyCodes(rows []Row, snap currency.Snapshot) []Row {
	for i := range rows {
		rows[i].CurrencyID = NormalizeCurrencyID(rows[i].CurrencyID)
		if id, ok := parseCurrencyID(rows[i].CurrencyID); ok {
			rows[i].Code = snap.CodeFor(id)
		} else {
			rows[i].Code = ""
		}
	}
	return rows
}

// firstMatch returns the first row tagged with the given currency id,
// or an empty cell when none matches. Duplicate rows for one currency
// are a data error upstream; the defined tie-break is first wins.
func firstMatch(rows []Row, currencyID int64) MetricCell {
	want := strconv.FormatInt(currencyID, 10)
	for _, row := range rows {
		if NormalizeCurrencyID(row.CurrencyID) == want {
			return CellOf(row)
		}
	}
	return EmptyCell()
}
