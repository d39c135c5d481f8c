package invoices

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/shared"
)

type memoryInvoiceRepo struct {
	nextID   int64
	invoices map[int64]*Invoice
	payments map[int64][]Payment
}

func newMemoryInvoiceRepo() *memoryInvoiceRepo {
	return &memoryInvoiceRepo{
		nextID:   1,
		invoices: make(map[int64]*Invoice),
		payments: make(map[int64][]Payment),
	}
}

func (m *memoryInvoiceRepo) CreateInvoice(ctx context.Context, companyID, userID int64, input CreateInvoiceInput) (*Invoice, error) {
	inv := &Invoice{
		ID:         m.nextID,
		CompanyID:  companyID,
		UserID:     userID,
		ClientID:   input.ClientID,
		Number:     input.Number,
		CurrencyID: input.CurrencyID,
		Subtotal:   input.Subtotal,
		TaxAmount:  input.TaxAmount,
		Total:      input.Total,
		Status:     StatusDraft,
		IssuedAt:   input.IssuedAt,
		DueAt:      input.DueAt,
	}
	m.invoices[inv.ID] = inv
	m.nextID++
	return inv, nil
}

func (m *memoryInvoiceRepo) GetInvoice(ctx context.Context, companyID, id int64) (*Invoice, error) {
	inv, ok := m.invoices[id]
	if !ok || inv.CompanyID != companyID || inv.IsDeleted {
		return nil, ErrNotFound
	}
	return inv, nil
}

func (m *memoryInvoiceRepo) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error) {
	var out []Invoice
	for _, inv := range m.invoices {
		if inv.CompanyID != req.CompanyID || inv.IsDeleted {
			continue
		}
		if req.OwnerID != nil && inv.UserID != *req.OwnerID {
			continue
		}
		out = append(out, *inv)
	}
	return out, nil
}

func (m *memoryInvoiceRepo) MarkSent(ctx context.Context, companyID, id int64) error {
	inv, err := m.GetInvoice(ctx, companyID, id)
	if err != nil {
		return err
	}
	inv.Status = StatusSent
	return nil
}

func (m *memoryInvoiceRepo) VoidInvoice(ctx context.Context, companyID, id int64) error {
	inv, err := m.GetInvoice(ctx, companyID, id)
	if err != nil {
		return err
	}
	inv.Status = StatusVoid
	return nil
}

func (m *memoryInvoiceRepo) CreatePayment(ctx context.Context, companyID, userID int64, input CreatePaymentInput) (*Payment, error) {
	inv, err := m.GetInvoice(ctx, companyID, input.InvoiceID)
	if err != nil {
		return nil, err
	}
	p := Payment{
		ID:        int64(len(m.payments[input.InvoiceID]) + 1),
		CompanyID: companyID,
		InvoiceID: input.InvoiceID,
		UserID:    userID,
		Amount:    input.Amount,
		PaidAt:    input.PaidAt,
		Method:    input.Method,
	}
	m.payments[input.InvoiceID] = append(m.payments[input.InvoiceID], p)

	var paid float64
	for _, pay := range m.payments[input.InvoiceID] {
		paid += pay.Amount
	}
	if paid >= inv.Total {
		inv.Status = StatusPaid
	}
	return &p, nil
}

func (m *memoryInvoiceRepo) ListInvoicePayments(ctx context.Context, companyID, invoiceID int64) ([]Payment, error) {
	return m.payments[invoiceID], nil
}

var (
	invOwner = shared.Actor{UserID: 1, CompanyID: 10}
	invAdmin = shared.Actor{UserID: 2, CompanyID: 10, Admin: true}
	invOther = shared.Actor{UserID: 3, CompanyID: 10}
)

func createTestInvoice(t *testing.T, svc *Service, actor shared.Actor, total float64) *Invoice {
	t.Helper()
	inv, err := svc.Create(context.Background(), actor, CreateInvoiceInput{
		ClientID:   5,
		Number:     "INV-000001",
		CurrencyID: 1,
		Subtotal:   total,
		Total:      total,
		DueAt:      time.Now().Add(30 * 24 * time.Hour),
	})
	require.NoError(t, err)
	return inv
}

func TestCreateDefaultsTotalFromSubtotalAndTax(t *testing.T) {
	svc := NewService(newMemoryInvoiceRepo())

	inv, err := svc.Create(context.Background(), invOwner, CreateInvoiceInput{
		ClientID:   5,
		Number:     "INV-000001",
		CurrencyID: 1,
		Subtotal:   100,
		TaxAmount:  20,
	})

	require.NoError(t, err)
	assert.Equal(t, float64(120), inv.Total)
	assert.Equal(t, StatusDraft, inv.Status)
	assert.False(t, inv.IssuedAt.IsZero())
}

func TestNonAdminCannotTouchOtherOwnersInvoice(t *testing.T) {
	svc := NewService(newMemoryInvoiceRepo())
	inv := createTestInvoice(t, svc, invOwner, 100)

	_, err := svc.Get(context.Background(), invOther, inv.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	err = svc.Send(context.Background(), invOther, inv.ID)
	assert.ErrorIs(t, err, shared.ErrForbidden)

	_, err = svc.Get(context.Background(), invAdmin, inv.ID)
	assert.NoError(t, err)
}

func TestListScopesToOwner(t *testing.T) {
	repo := newMemoryInvoiceRepo()
	svc := NewService(repo)
	createTestInvoice(t, svc, invOwner, 100)
	createTestInvoice(t, svc, invOther, 200)

	mine, err := svc.List(context.Background(), invOwner, ListInvoicesRequest{})
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	all, err := svc.List(context.Background(), invAdmin, ListInvoicesRequest{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestFullPaymentMarksInvoicePaid(t *testing.T) {
	svc := NewService(newMemoryInvoiceRepo())
	inv := createTestInvoice(t, svc, invOwner, 100)
	require.NoError(t, svc.Send(context.Background(), invOwner, inv.ID))

	_, err := svc.RecordPayment(context.Background(), invOwner, CreatePaymentInput{
		InvoiceID: inv.ID,
		Amount:    40,
		Method:    "bank_transfer",
	})
	require.NoError(t, err)

	got, err := svc.Get(context.Background(), invOwner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusSent, got.Status)

	_, err = svc.RecordPayment(context.Background(), invOwner, CreatePaymentInput{
		InvoiceID: inv.ID,
		Amount:    60,
		Method:    "bank_transfer",
	})
	require.NoError(t, err)

	got, err = svc.Get(context.Background(), invOwner, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, StatusPaid, got.Status)

	payments, err := svc.Payments(context.Background(), invOwner, inv.ID)
	require.NoError(t, err)
	assert.Len(t, payments, 2)
}
