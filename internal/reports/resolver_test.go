package reports

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

type stubCurrencySource struct {
	ids     []int64
	err     error
	ownerID *int64
	called  bool
}

func (s *stubCurrencySource) DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error) {
	s.called = true
	s.ownerID = ownerID
	return s.ids, s.err
}

func TestResolveCurrenciesUnionsAllSources(t *testing.T) {
	clients := &stubCurrencySource{ids: []int64{3, 1}}
	expenses := &stubCurrencySource{ids: []int64{2, 3}}
	r := NewResolver(clients, expenses)

	ids, err := r.ResolveCurrencies(context.Background(), Tenant{ID: 10, DefaultCurrencyID: 5}, shared.Actor{UserID: 7, Admin: true})

	require.NoError(t, err)
	assert.Equal(t, []int64{1, 2, 3, 5}, ids)
}

func TestResolveCurrenciesDefaultOnlyTenant(t *testing.T) {
	r := NewResolver(&stubCurrencySource{}, &stubCurrencySource{})

	ids, err := r.ResolveCurrencies(context.Background(), Tenant{ID: 10, DefaultCurrencyID: 1}, shared.Actor{Admin: true})

	require.NoError(t, err)
	assert.Equal(t, []int64{1}, ids)
}

func TestResolveCurrenciesScopesToOwnerForNonAdmins(t *testing.T) {
	clients := &stubCurrencySource{ids: []int64{1}}
	expenses := &stubCurrencySource{ids: []int64{2}}
	r := NewResolver(clients, expenses)

	_, err := r.ResolveCurrencies(context.Background(), Tenant{ID: 10, DefaultCurrencyID: 1}, shared.Actor{UserID: 42, Admin: false})

	require.NoError(t, err)
	require.NotNil(t, clients.ownerID)
	assert.Equal(t, int64(42), *clients.ownerID)
	require.NotNil(t, expenses.ownerID)
	assert.Equal(t, int64(42), *expenses.ownerID)
}

func TestResolveCurrenciesAdminSeesAllOwners(t *testing.T) {
	clients := &stubCurrencySource{ids: []int64{1}}
	r := NewResolver(clients, &stubCurrencySource{})

	_, err := r.ResolveCurrencies(context.Background(), Tenant{ID: 10, DefaultCurrencyID: 1}, shared.Actor{UserID: 42, Admin: true})

	require.NoError(t, err)
	assert.Nil(t, clients.ownerID)
}

func TestResolveCurrenciesPropagatesSourceError(t *testing.T) {
	boom := errors.New("connection refused")
	r := NewResolver(&stubCurrencySource{err: boom}, &stubCurrencySource{})

	_, err := r.ResolveCurrencies(context.Background(), Tenant{ID: 10, DefaultCurrencyID: 1}, shared.Actor{Admin: true})

	require.ErrorIs(t, err, boom)
}
