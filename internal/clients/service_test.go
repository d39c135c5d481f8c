package clients

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

type memoryClientRepo struct {
	clients map[int64]Client
	nextID  int64
}

func newMemoryClientRepo() *memoryClientRepo {
	return &memoryClientRepo{clients: make(map[int64]Client)}
}

func (r *memoryClientRepo) Create(ctx context.Context, client Client) (int64, error) {
	r.nextID++
	client.ID = r.nextID
	r.clients[client.ID] = client
	return client.ID, nil
}

func (r *memoryClientRepo) Get(ctx context.Context, companyID, id int64) (*Client, error) {
	c, ok := r.clients[id]
	if !ok || c.CompanyID != companyID || c.IsDeleted {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r *memoryClientRepo) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	var result []Client
	for _, c := range r.clients {
		if c.CompanyID != req.CompanyID || c.IsDeleted {
			continue
		}
		if req.OwnerID != nil && c.UserID != *req.OwnerID {
			continue
		}
		if !req.IncludeArchived && c.IsArchived {
			continue
		}
		result = append(result, c)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, len(result), nil
}

func (r *memoryClientRepo) Update(ctx context.Context, companyID, id int64, updates map[string]any) error {
	c, ok := r.clients[id]
	if !ok || c.CompanyID != companyID || c.IsDeleted {
		return ErrNotFound
	}
	if v, ok := updates["name"]; ok {
		c.Name = v.(string)
	}
	if v, ok := updates["currency_id"]; ok {
		c.CurrencyID = v.(int64)
	}
	if v, ok := updates["is_archived"]; ok {
		c.IsArchived = v.(bool)
	}
	r.clients[id] = c
	return nil
}

func (r *memoryClientRepo) SoftDelete(ctx context.Context, companyID, id int64) error {
	c, ok := r.clients[id]
	if !ok || c.CompanyID != companyID || c.IsDeleted {
		return ErrNotFound
	}
	c.IsDeleted = true
	r.clients[id] = c
	return nil
}

func (r *memoryClientRepo) DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error) {
	seen := make(map[int64]struct{})
	var ids []int64
	for _, c := range r.clients {
		if c.CompanyID != companyID || c.IsDeleted {
			continue
		}
		if ownerID != nil && c.UserID != *ownerID {
			continue
		}
		if _, ok := seen[c.CurrencyID]; ok {
			continue
		}
		seen[c.CurrencyID] = struct{}{}
		ids = append(ids, c.CurrencyID)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}

var _ Store = (*memoryClientRepo)(nil)

func TestNonAdminCannotReadOtherOwnersClient(t *testing.T) {
	repo := newMemoryClientRepo()
	svc := NewService(repo)
	ctx := context.Background()

	admin := shared.Actor{UserID: 1, CompanyID: 10, Admin: true}
	other := shared.Actor{UserID: 2, CompanyID: 10}

	created, err := svc.Create(ctx, admin, CreateClientRequest{Name: "Acme", CurrencyID: 1})
	require.NoError(t, err)

	_, err = svc.Get(ctx, other, created.ID)
	require.ErrorIs(t, err, shared.ErrForbidden)

	got, err := svc.Get(ctx, admin, created.ID)
	require.NoError(t, err)
	require.Equal(t, "Acme", got.Name)
}

func TestListScopesToOwnerForNonAdmins(t *testing.T) {
	repo := newMemoryClientRepo()
	svc := NewService(repo)
	ctx := context.Background()

	owner := shared.Actor{UserID: 1, CompanyID: 10}
	colleague := shared.Actor{UserID: 2, CompanyID: 10}

	_, err := svc.Create(ctx, owner, CreateClientRequest{Name: "Mine", CurrencyID: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, colleague, CreateClientRequest{Name: "Theirs", CurrencyID: 2})
	require.NoError(t, err)

	mine, _, err := svc.List(ctx, owner, ListClientsRequest{})
	require.NoError(t, err)
	require.Len(t, mine, 1)
	require.Equal(t, "Mine", mine[0].Name)

	all, _, err := svc.List(ctx, shared.Actor{UserID: 3, CompanyID: 10, Admin: true}, ListClientsRequest{})
	require.NoError(t, err)
	require.Len(t, all, 2)
}

func TestDeletedClientStopsContributingCurrencies(t *testing.T) {
	repo := newMemoryClientRepo()
	svc := NewService(repo)
	ctx := context.Background()
	admin := shared.Actor{UserID: 1, CompanyID: 10, Admin: true}

	usd, err := svc.Create(ctx, admin, CreateClientRequest{Name: "USD client", CurrencyID: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, admin, CreateClientRequest{Name: "EUR client", CurrencyID: 2})
	require.NoError(t, err)

	ids, err := svc.DistinctCurrencyIDs(ctx, admin.CompanyID, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{1, 2}, ids)

	require.NoError(t, svc.Delete(ctx, admin, usd.ID))

	ids, err = svc.DistinctCurrencyIDs(ctx, admin.CompanyID, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{2}, ids)
}

func TestArchivedClientStillContributesCurrency(t *testing.T) {
	repo := newMemoryClientRepo()
	svc := NewService(repo)
	ctx := context.Background()
	admin := shared.Actor{UserID: 1, CompanyID: 10, Admin: true}

	created, err := svc.Create(ctx, admin, CreateClientRequest{Name: "Old", CurrencyID: 5})
	require.NoError(t, err)

	archived := true
	_, err = svc.Update(ctx, admin, created.ID, UpdateClientRequest{IsArchived: &archived})
	require.NoError(t, err)

	ids, err := svc.DistinctCurrencyIDs(ctx, admin.CompanyID, nil)
	require.NoError(t, err)
	require.Equal(t, []int64{5}, ids)
}
