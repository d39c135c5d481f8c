package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("expenses: not found")

// Repository provides PostgreSQL backed persistence for expenses.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const expenseColumns = `id, company_id, user_id, client_id, description, amount, currency_id, incurred_at, is_deleted, created_at, updated_at`

// Create inserts a new expense.
func (r *Repository) Create(ctx context.Context, exp Expense) (int64, error) {
	query := `
		INSERT INTO expenses (company_id, user_id, client_id, description, amount, currency_id, incurred_at, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, FALSE, NOW(), NOW())
		RETURNING id`

	var clientID pgtype.Int8
	if exp.ClientID != nil {
		clientID = pgtype.Int8{Int64: *exp.ClientID, Valid: true}
	}

	var id int64
	err := r.pool.QueryRow(ctx, query,
		exp.CompanyID, exp.UserID, clientID, exp.Description,
		exp.Amount, exp.CurrencyID, exp.IncurredAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Get retrieves an expense by id within a company.
func (r *Repository) Get(ctx context.Context, companyID, id int64) (*Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE"

	var e Expense
	var clientID pgtype.Int8
	err := r.pool.QueryRow(ctx, query, companyID, id).Scan(
		&e.ID, &e.CompanyID, &e.UserID, &clientID, &e.Description,
		&e.Amount, &e.CurrencyID, &e.IncurredAt, &e.IsDeleted, &e.CreatedAt, &e.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if clientID.Valid {
		e.ClientID = &clientID.Int64
	}
	return &e, nil
}

// List returns expenses with optional date and owner filtering.
func (r *Repository) List(ctx context.Context, req ListExpensesRequest) ([]Expense, error) {
	query := "SELECT " + expenseColumns + " FROM expenses WHERE company_id = $1 AND is_deleted = FALSE"
	args := []any{req.CompanyID}
	argNum := 2

	if req.OwnerID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *req.OwnerID)
		argNum++
	}
	if !req.From.IsZero() {
		query += fmt.Sprintf(" AND incurred_at >= $%d", argNum)
		args = append(args, req.From)
		argNum++
	}
	if !req.To.IsZero() {
		query += fmt.Sprintf(" AND incurred_at <= $%d", argNum)
		args = append(args, req.To)
		argNum++
	}

	query += " ORDER BY incurred_at DESC"
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

	var result []Expense
	for rows.Next() {
		var e Expense
		var clientID pgtype.Int8
		err := rows.Scan(
			&e.ID, &e.CompanyID, &e.UserID, &clientID, &e.Description,
			&e.Amount, &e.CurrencyID, &e.IncurredAt, &e.IsDeleted, &e.CreatedAt, &e.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		if clientID.Valid {
			e.ClientID = &clientID.Int64
		}
		result = append(result, e)
	}
	return result, rows.Err()
}

// SoftDelete marks an expense as deleted.
func (r *Repository) SoftDelete(ctx context.Context, companyID, id int64) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE expenses SET is_deleted = TRUE, updated_at = NOW() WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE",
		companyID, id,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// DistinctCurrencyIDs returns every currency the company has recorded
// expenses in, deleted rows excluded. A non-nil ownerID restricts the
// scan to that user's expenses.
func (r *Repository) DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error) {
	query := "SELECT DISTINCT currency_id FROM expenses WHERE company_id = $1 AND is_deleted = FALSE"
	args := []any{companyID}
	if ownerID != nil {
		query += " AND user_id = $2"
		args = append(args, *ownerID)
	}

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Totals aggregates expense amounts per currency over a date range. A
// non-nil currencyID narrows the aggregation to that single currency.
func (r *Repository) Totals(ctx context.Context, companyID int64, ownerID *int64, from, to time.Time, currencyID *int64) ([]CurrencyTotal, error) {
	query := `
		SELECT currency_id, COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE company_id = $1 AND is_deleted = FALSE
		  AND incurred_at >= $2 AND incurred_at <= $3`
	args := []any{companyID, from, to}
	argNum := 4

	if ownerID != nil {
		query += fmt.Sprintf(" AND user_id = $%d", argNum)
		args = append(args, *ownerID)
		argNum++
	}
	if currencyID != nil {
		query += fmt.Sprintf(" AND currency_id = $%d", argNum)
		args = append(args, *currencyID)
	}
	query += " GROUP BY currency_id ORDER BY currency_id"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []CurrencyTotal
	for rows.Next() {
		var t CurrencyTotal
		if err := rows.Scan(&t.CurrencyID, &t.Total, &t.Count); err != nil {
			return nil, err
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}
