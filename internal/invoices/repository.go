package invoices

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("invoices: not found")

// Repository provides PostgreSQL backed persistence for invoices.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const invoiceColumns = `id, company_id, user_id, client_id, number, currency_id,
	subtotal, tax_amount, total, status, issued_at, due_at, is_deleted, created_at, updated_at`

// CreateInvoice creates a new invoice owned by the given user.
func (r *Repository) CreateInvoice(ctx context.Context, companyID, userID int64, input CreateInvoiceInput) (*Invoice, error) {
	number := input.Number
	if number == "" {
		var err error
		number, err = r.nextInvoiceNumber(ctx, companyID)
		if err != nil {
			return nil, err
		}
	}

	query := `
		INSERT INTO invoices (
			company_id, user_id, client_id, number, currency_id,
			subtotal, tax_amount, total, status, issued_at, due_at, is_deleted, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'DRAFT', $9, $10, FALSE, NOW(), NOW())
		RETURNING id, created_at, updated_at`

	var inv Invoice
	err := r.pool.QueryRow(ctx, query,
		companyID, userID, input.ClientID, number, input.CurrencyID,
		input.Subtotal, input.TaxAmount, input.Total, input.IssuedAt, input.DueAt,
	).Scan(&inv.ID, &inv.CreatedAt, &inv.UpdatedAt)
	if err != nil {
		return nil, err
	}

	inv.CompanyID = companyID
	inv.UserID = userID
	inv.ClientID = input.ClientID
	inv.Number = number
	inv.CurrencyID = input.CurrencyID
	inv.Subtotal = input.Subtotal
	inv.TaxAmount = input.TaxAmount
	inv.Total = input.Total
	inv.Status = StatusDraft
	inv.IssuedAt = input.IssuedAt
	inv.DueAt = input.DueAt
	return &inv, nil
}

// GetInvoice retrieves an invoice by id within a company.
func (r *Repository) GetInvoice(ctx context.Context, companyID, id int64) (*Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE"

	var inv Invoice
	err := r.pool.QueryRow(ctx, query, companyID, id).Scan(
		&inv.ID, &inv.CompanyID, &inv.UserID, &inv.ClientID, &inv.Number, &inv.CurrencyID,
		&inv.Subtotal, &inv.TaxAmount, &inv.Total, &inv.Status,
		&inv.IssuedAt, &inv.DueAt, &inv.IsDeleted, &inv.CreatedAt, &inv.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// ListInvoices returns invoices with optional filtering.
func (r *Repository) ListInvoices(ctx context.Context, req ListInvoicesRequest) ([]Invoice, error) {
	query := "SELECT " + invoiceColumns + " FROM invoices WHERE company_id = $1 AND is_deleted = FALSE"
	args := []any{req.CompanyID}
	argNum := 2

	if req.OwnerID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *req.OwnerID)
		argNum++
	}
	if req.ClientID > 0 {
		query += fmt.Sprintf(" AND client_id = $%d", argNum)
		args = append(args, req.ClientID)
		argNum++
	}
	if req.Status != "" {
		query += fmt.Sprintf(" AND status = $%d", argNum)
		args = append(args, string(req.Status))
		argNum++
	}
	if !req.FromDate.IsZero() {
		query += fmt.Sprintf(" AND issued_at >= $%d", argNum)
		args = append(args, req.FromDate)
		argNum++
	}
	if !req.ToDate.IsZero() {
		query += fmt.Sprintf(" AND issued_at <= $%d", argNum)
		args = append(args, req.ToDate)
		argNum++
	}

	query += " ORDER BY issued_at DESC"
	if req.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, req.Limit)
		argNum++
	}
	if req.Offset > 0 {
		query += fmt.Sprintf(" OFFSET $%d", argNum)
		args = append(args, req.Offset)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []Invoice
	for rows.Next() {
		var inv Invoice
		err := rows.Scan(
			&inv.ID, &inv.CompanyID, &inv.UserID, &inv.ClientID, &inv.Number, &inv.CurrencyID,
			&inv.Subtotal, &inv.TaxAmount, &inv.Total, &inv.Status,
			&inv.IssuedAt, &inv.DueAt, &inv.IsDeleted, &inv.CreatedAt, &inv.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

// MarkSent transitions a draft invoice to SENT.
func (r *Repository) MarkSent(ctx context.Context, companyID, id int64) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE invoices SET status = 'SENT', updated_at = NOW() WHERE company_id = $1 AND id = $2 AND status = 'DRAFT' AND is_deleted = FALSE",
		companyID, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return errors.New("invoices: not found or not in DRAFT status")
	}
	return nil
}

// VoidInvoice voids an invoice.
func (r *Repository) VoidInvoice(ctx context.Context, companyID, id int64) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE invoices SET status = 'VOID', updated_at = NOW() WHERE company_id = $1 AND id = $2 AND status IN ('DRAFT','SENT') AND is_deleted = FALSE",
		companyID, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return errors.New("invoices: not found or cannot be voided")
	}
	return nil
}

// CreatePayment records a payment against an invoice, flipping the
// invoice to PAID once allocations cover the total.
func (r *Repository) CreatePayment(ctx context.Context, companyID, userID int64, input CreatePaymentInput) (*Payment, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO payments (company_id, invoice_id, user_id, amount, paid_at, method, note, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, NOW())
		RETURNING id, created_at`

	var p Payment
	err = tx.QueryRow(ctx, query,
		companyID, input.InvoiceID, userID, input.Amount, input.PaidAt, input.Method, input.Note,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	_, err = tx.Exec(ctx, `
		UPDATE invoices i
		SET status = 'PAID', updated_at = NOW()
		WHERE i.company_id = $1 AND i.id = $2 AND i.status = 'SENT'
		  AND i.total <= (SELECT COALESCE(SUM(amount), 0) FROM payments WHERE invoice_id = i.id)`,
		companyID, input.InvoiceID,
	)
	if err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	p.CompanyID = companyID
	p.InvoiceID = input.InvoiceID
	p.UserID = userID
	p.Amount = input.Amount
	p.PaidAt = input.PaidAt
	p.Method = input.Method
	p.Note = input.Note
	return &p, nil
}

// ListInvoicePayments returns payments recorded against an invoice.
func (r *Repository) ListInvoicePayments(ctx context.Context, companyID, invoiceID int64) ([]Payment, error) {
	query := `
		SELECT id, company_id, invoice_id, user_id, amount, paid_at, method, note, created_at
		FROM payments
		WHERE company_id = $1 AND invoice_id = $2
		ORDER BY paid_at`

	rows, err := r.pool.Query(ctx, query, companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var p Payment
		err := rows.Scan(&p.ID, &p.CompanyID, &p.InvoiceID, &p.UserID, &p.Amount, &p.PaidAt, &p.Method, &p.Note, &p.CreatedAt)
		if err != nil {
			return nil, err
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *Repository) nextInvoiceNumber(ctx context.Context, companyID int64) (string, error) {
	var seq int64
	err := r.pool.QueryRow(ctx,
		"SELECT COALESCE(MAX(id), 0) + 1 FROM invoices WHERE company_id = $1", companyID,
	).Scan(&seq)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("INV-%06d", seq), nil
}
