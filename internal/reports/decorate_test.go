package reports

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/currency"
)

func TestNormalizeCurrencyID(t *testing.T) {
	assert.Equal(t, "3", NormalizeCurrencyID(`"3"`))
	assert.Equal(t, "3", NormalizeCurrencyID(" 3 "))
	assert.Equal(t, "3", NormalizeCurrencyID("3"))
	assert.Equal(t, "", NormalizeCurrencyID(`""`))
}

func TestAddCurrencyCodesDecoratesAndNormalizes(t *testing.T) {
	snap := currency.NewSnapshot([]currency.Currency{
		{ID: 1, Code: "USD"},
		{ID: 2, Code: "EUR"},
	})
	rows := []Row{
		{CurrencyID: `"1"`, Total: 100, Count: 2},
		{CurrencyID: "2", Total: 50, Count: 1},
		{CurrencyID: "7", Total: 9, Count: 1},
	}

	decorated := AddCurrencyCodes(rows, snap)

	require.Len(t, decorated, 3)
	assert.Equal(t, "1", decorated[0].CurrencyID)
	assert.Equal(t, "USD", decorated[0].Code)
	assert.Equal(t, "EUR", decorated[1].Code)
	// Unknown ids keep their rows, just with no code.
	assert.Equal(t, "7", decorated[2].CurrencyID)
	assert.Equal(t, "", decorated[2].Code)
}

func TestAddCurrencyCodesIsIdempotent(t *testing.T) {
	snap := currency.NewSnapshot([]currency.Currency{{ID: 1, Code: "USD"}})
	rows := []Row{{CurrencyID: `"1"`, Total: 10, Count: 1}}

	once := AddCurrencyCodes(rows, snap)
	twice := AddCurrencyCodes(once, snap)

	assert.Equal(t, once, twice)
}

func TestFirstMatchPrefersEarlierRow(t *testing.T) {
	rows := []Row{
		{CurrencyID: "1", Code: "USD", Total: 100, Count: 2},
		{CurrencyID: "1", Code: "USD", Total: 999, Count: 9},
	}

	cell := firstMatch(rows, 1)

	require.True(t, cell.Present)
	assert.Equal(t, float64(100), cell.Row.Total)
}

func TestFirstMatchMissReturnsEmptyCell(t *testing.T) {
	cell := firstMatch([]Row{{CurrencyID: "1", Total: 1, Count: 1}}, 2)
	assert.False(t, cell.Present)
}

func TestMetricCellJSON(t *testing.T) {
	empty, err := json.Marshal(EmptyCell())
	require.NoError(t, err)
	assert.Equal(t, "{}", string(empty))

	full, err := json.Marshal(CellOf(Row{CurrencyID: "1", Code: "USD", Total: 10, Count: 1}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"currency_id":"1","code":"USD","total":10,"count":1}`, string(full))

	var cell MetricCell
	require.NoError(t, json.Unmarshal([]byte("{}"), &cell))
	assert.False(t, cell.Present)
	require.NoError(t, json.Unmarshal([]byte("null"), &cell))
	assert.False(t, cell.Present)
}
