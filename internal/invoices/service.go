package invoices

import (
	"context"
	"fmt"
	"time"

	"github.com/ledgerline/ledgerline/internal/shared"
)

// Store is the persistence contract the service depends on.
type Store interface {
	CreateInvoice(ctx context.Context, companyID, userID int64, input CreateInvoiceInput) (*Invoice, error)
	GetInvoice(ctx context.Context, companyID, id int64) (*Invoice, error)
	ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error)
	MarkSent(ctx context.Context, companyID, id int64) error
	VoidInvoice(ctx context.Context, companyID, id int64) error
	CreatePayment(ctx context.Context, companyID, userID int64, input CreatePaymentInput) (*Payment, error)
	ListInvoicePayments(ctx context.Context, companyID, invoiceID int64) ([]Payment, error)
}

type Service struct {
	repo Store
}

func NewService(repo Store) *Service {
	return &Service{repo: repo}
}

func (s *Service) Create(ctx context.Context, actor shared.Actor, input CreateInvoiceInput) (*Invoice, error) {
	if input.Total == 0 {
		input.Total = input.Subtotal + input.TaxAmount
	}
	if input.IssuedAt.IsZero() {
		input.IssuedAt = time.Now().UTC()
	}
	inv, err := s.repo.CreateInvoice(ctx, actor.CompanyID, actor.UserID, input)
	if err != nil {
		return nil, fmt.Errorf("create invoice: %w", err)
	}
	return inv, nil
}

func (s *Service) Get(ctx context.Context, actor shared.Actor, id int64) (*Invoice, error) {
	inv, err := s.repo.GetInvoice(ctx, actor.CompanyID, id)
	if err != nil {
		return nil, err
	}
	if !actor.Admin && inv.UserID != actor.UserID {
		return nil, shared.ErrForbidden
	}
	return inv, nil
}

func (s *Service) List(ctx context.Context, actor shared.Actor, req ListInvoicesRequest) ([]Invoice, error) {
	req.CompanyID = actor.CompanyID
	req.OwnerID = actor.OwnerFilter()
	return s.repo.ListInvoices(ctx, req)
}

func (s *Service) Send(ctx context.Context, actor shared.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.MarkSent(ctx, actor.CompanyID, id)
}

func (s *Service) Void(ctx context.Context, actor shared.Actor, id int64) error {
	if _, err := s.Get(ctx, actor, id); err != nil {
		return err
	}
	return s.repo.VoidInvoice(ctx, actor.CompanyID, id)
}

func (s *Service) RecordPayment(ctx context.Context, actor shared.Actor, input CreatePaymentInput) (*Payment, error) {
	if _, err := s.Get(ctx, actor, input.InvoiceID); err != nil {
		return nil, err
	}
	if input.PaidAt.IsZero() {
		input.PaidAt = time.Now().UTC()
	}
	p, err := s.repo.CreatePayment(ctx, actor.CompanyID, actor.UserID, input)
	if err != nil {
		return nil, fmt.Errorf("record payment: %w", err)
	}
	return p, nil
}

func (s *Service) Payments(ctx context.Context, actor shared.Actor, invoiceID int64) ([]Payment, error) {
	if _, err := s.Get(ctx, actor, invoiceID); err != nil {
		return nil, err
	}
	return s.repo.ListInvoicePayments(ctx, actor.CompanyID, invoiceID)
}
