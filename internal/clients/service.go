package clients

import (
	"context"
	"fmt"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Create(ctx context.Context, client Client) (int64, error)
	Get(ctx context.Context, companyID, id int64) (*Client, error)
	List(ctx context.Context, req ListClientsRequest) ([]Client, int, error)
	Update(ctx context.Context, companyID, id int64, updates map[string]any) error
	SoftDelete(ctx context.Context, companyID, id int64) error
	DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error)
}

type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, actor shared.Actor, req CreateClientRequest) (*Client, error) {
	client := Client{
		CompanyID:  actor.CompanyID,
		UserID:     actor.UserID,
		Name:       req.Name,
		Email:      req.Email,
		Phone:      req.Phone,
		CurrencyID: req.CurrencyID,
	}
	id, err := s.repo.Create(ctx, client)
	if err != nil {
		return nil, fmt.Errorf("create client: %w", err)
	}
	client.ID = id
	return &client, nil
}

func (s *Service) Get(ctx context.Context, actor shared.Actor, id int64) (*Client, error) {
	client, err := s.repo.Get(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && client.UserID != actor.UserID {
		return nil, shared.ErrForbidden
	}
	return client, nil
}

func (s *Service) List(ctx context.Context, actor shared.Actor, req ListClientsRequest) ([]Client, int, error) {
	req.CompanyID = actor.CompanyID
	req.OwnerID = actor.OwnerFilter()
	return s.repo.List(ctx, req)
}

func (s *Service) Update(ctx context.Context, actor shared.Actor, id int64, req UpdateClientRequest) (*Client, error) {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return nil, err
	}

	updates := make(map[string]any)
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Email != nil {
		updates["email"] = *req.Email
	}
	if req.Phone != nil {
		updates["phone"] = *req.Phone
	}
	if req.CurrencyID != nil {
		updates["currency_id"] = *req.CurrencyID
	}
	if req.IsArchived != nil {
		updates["is_archived"] = *req.IsArchived
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, actor.CompanyID, id, updates); err != nil {
			return nil, fmt.Errorf("update client: %w", err)
		}
	}
	return s.repo.Get(ctx, actor.CompanyID, id)
}

func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, actor.CompanyID, id)
}

// DistinctCurrencyIDs exposes the currency scan used by report
// resolution. Visibility follows the actor's owner filter.
func (s *Service) DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error) {
	return s.repo.DistinctCurrencyIDs(ctx, companyID, ownerID)
}
