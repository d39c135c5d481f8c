package clients

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates resource not found.
var ErrNotFound = errors.New("clients: not found")

// Repository provides PostgreSQL backed persistence for clients.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const clientColumns = `id, company_id, user_id, name, email, phone, currency_id, is_archived, is_deleted, created_at, updated_at`

// Create inserts a new client.
func (r *Repository) Create(ctx context.Context, client Client) (int64, error) {
	query := `
		INSERT INTO clients (company_id, user_id, name, email, phone, currency_id, is_archived, is_deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, FALSE, FALSE, NOW(), NOW())
		RETURNING id`

	var id int64
	err := r.pool.QueryRow(ctx, query,
		client.CompanyID,
		client.UserID,
		client.Name,
		textOrNull(client.Email),
		textOrNull(client.Phone),
		client.CurrencyID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// Get retrieves a client by id within a company.
func (r *Repository) Get(ctx context.Context, companyID, id int64) (*Client, error) {
	query := "SELECT " + clientColumns + " FROM clients WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE"

	var c Client
	var email, phone pgtype.Text
	err := r.pool.QueryRow(ctx, query, companyID, id).Scan(
		&c.ID, &c.CompanyID, &c.UserID, &c.Name, &email, &phone,
		&c.CurrencyID, &c.IsArchived, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if email.Valid {
		c.Email = &email.String
	}
	if phone.Valid {
		c.Phone = &phone.String
	}
	return &c, nil
}

// List returns clients with optional filtering.
func (r *Repository) List(ctx context.Context, req ListClientsRequest) ([]Client, int, error) {
	query := "SELECT " + clientColumns + " FROM clients WHERE company_id = $1 AND is_deleted = FALSE"
	countQuery := "SELECT COUNT(*) FROM clients WHERE company_id = $1 AND is_deleted = FALSE"

	args := []any{req.CompanyID}
	argNum := 2

	if req.OwnerID != nil {
		clause := fmt.Sprintf(" AND user_id = $%d", argNum)
		query += clause
		countQuery += clause
		args = append(args, *req.OwnerID)
		argNum++
	}
	if !req.IncludeArchived {
		query += " AND is_archived = FALSE"
		countQuery += " AND is_archived = FALSE"
	}
	if req.Search != nil && *req.Search != "" {
		clause := fmt.Sprintf(" AND name ILIKE $%d", argNum)
		query += clause
		countQuery += clause
		args = append(args, "%"+*req.Search+"%")
		argNum++
	}

	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query += " ORDER BY name"
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
		return nil, 0, err
	}
	defer rows.Close()

	var result []Client
	for rows.Next() {
		var c Client
		var email, phone pgtype.Text
		err := rows.Scan(
			&c.ID, &c.CompanyID, &c.UserID, &c.Name, &email, &phone,
			&c.CurrencyID, &c.IsArchived, &c.IsDeleted, &c.CreatedAt, &c.UpdatedAt,
		)
		if err != nil {
			return nil, 0, err
		}
		if email.Valid {
			c.Email = &email.String
		}
		if phone.Valid {
			c.Phone = &phone.String
		}
		result = append(result, c)
	}
	return result, total, rows.Err()
}

// Update applies column updates to a client.
func (r *Repository) Update(ctx context.Context, companyID, id int64, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	query := "UPDATE clients SET updated_at = NOW()"
	args := []any{}
	argNum := 1
	for col, val := range updates {
		query += fmt.Sprintf(", %s = $%d", col, argNum)
		args = append(args, val)
		argNum++
	}
	query += fmt.Sprintf(" WHERE company_id = $%d AND id = $%d AND is_deleted = FALSE", argNum, argNum+1)
	args = append(args, companyID, id)

	result, err := r.pool.Exec(ctx, query, args...)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// SoftDelete marks a client as permanently deleted. The row stays in
// place so invoice history keeps resolving, but it no longer surfaces
// currencies or listings.
func (r *Repository) SoftDelete(ctx context.Context, companyID, id int64) error {
	result, err := r.pool.Exec(ctx,
		"UPDATE clients SET is_deleted = TRUE, updated_at = NOW() WHERE company_id = $1 AND id = $2 AND is_deleted = FALSE",
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

// DistinctCurrencyIDs returns every currency used by the company's
// clients, archived ones included, deleted ones excluded. A non-nil
// ownerID restricts the scan to that user's clients.
func (r *Repository) DistinctCurrencyIDs(ctx context.Context, companyID int64, ownerID *int64) ([]int64, error) {
	query := "SELECT DISTINCT currency_id FROM clients WHERE company_id = $1 AND is_deleted = FALSE"
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

func textOrNull(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{}
	}
	return pgtype.Text{String: *s, Valid: true}
}
