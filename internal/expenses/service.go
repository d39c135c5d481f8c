package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Store is the persistence contract the service depends on.
type Store interface {
	Create(ctx context.Context, exp Expense) (int64, error)
	Get(ctx context.Context, companyID, id int64) (*Expense, error)
	List(ctx context.Context, req ListExpensesRequest) ([]Expense, error)
	SoftDelete(ctx context.Context, companyID, id int64) error
	DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error)
	Totals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]CurrencyTotal, error)
}

type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, actor shared.Actor, req CreateExpenseRequest) (*Expense, error) {
	incurredAt, err := time.Parse("2006-01-02", req.IncurredAt)
	if err != nil {
		return nil, fmt.Errorf("parse incurred_at: %w", err)
	}
	exp := Expense{
		CompanyID:   actor.CompanyID,
		UserID:      actor.UserID,
		ClientID:    req.ClientID,
		Description: req.Description,
		Amount:      req.Amount,
		CurrencyID:  req.CurrencyID,
		IncurredAt:  incurredAt,
	}
	id, err := s.repo.Create(ctx, exp)
	if err != nil {
		return nil, fmt.Errorf("create expense: %w", err)
	}
	exp.ID = id
	return &exp, nil
}

func (s *Service) Get(ctx context.Context, actor shared.Actor, id int64) (*Expense, error) {
	exp, err := s.repo.Get(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && exp.UserID != actor.UserID {
		return nil, shared.ErrForbidden
	}
	return exp, nil
}

func (s *Service) List(ctx context.Context, actor shared.Actor, req ListExpensesRequest) ([]Expense, error) {
	req.CompanyID = actor.CompanyID
	req.OwnerID = actor.OwnerFilter()
	return s.repo.List(ctx, req)
}

func (s *Service) Delete(ctx context.Context, actor shared.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.SoftDelete(ctx, actor.CompanyID, id)
}

// DistinctCurrencyIDs exposes the currency scan used by report resolution.
func (s *Service) DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error) {
	return s.repo.DistinctCurrencyIDs(ctx, companyID, ownerID)
}

// Totals exposes the per-currency expense aggregate used by reports.
func (s *Service) Totals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]CurrencyTotal, error) {
	return s.repo.Totals(ctx, companyID, ownerID, from, to, currencyID)
}
