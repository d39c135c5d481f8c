package reports

import (
	"context"
	"fmt"
	"sort"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// CurrencySource yields the distinct currency ids of one record class
// (clients, expenses), excluding permanently deleted rows and
// optionally restricted to one owner.
type CurrencySource interface {
	DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error)
}

// Resolver determines the set of currencies relevant to a tenant.
type Resolver struct {
	clients  CurrencySource
	expenses CurrencySource
}

// NewResolver wires the two currency sources.
func NewResolver(clients, expenses CurrencySource) *Resolver {
	return &Resolver{clients: clients, expenses: expenses}
}

// ResolveCurrencies unions client currencies, the tenant's default
// currency and expense currencies, restricted to the actor's
// visibility. The result is deduplicated and sorted by id; a tenant
// with no clients and no expenses resolves to exactly its default.
func (r *Resolver) ResolveCurrencies(ctx context.Context, tenant Tenant, actor shared.Actor) ([]int64, error) {
	owner := actor.OwnerFilter()

	clientIDs, err := r.clients.DistinctCurrencyIDs(ctx, tenant.ID, owner)
	if err != nil {
		return nil, fmt.Errorf("resolve client currencies: %w", err)
	}
	expenseIDs, err := r.expenses.DistinctCurrencyIDs(ctx, tenant.ID, owner)
	if err != nil {
		return nil, fmt.Errorf("resolve expense currencies: %w", err)
	}

	seen := make(map[int64]struct{})
	var ids []int64
	add := func(id int64) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	for _, id := range clientIDs {
		add(id)
	}
	add(tenant.DefaultCurrencyID)
	for _, id := range expenseIDs {
		add(id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
