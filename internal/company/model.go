package company

import "time"

// Company is the tenant boundary: every client, invoice and expense row
// belongs to exactly one company.
type Company struct {
	ID                int64     `json:"id"`
	Name              string    `json:"name"`
	DefaultCurrencyID int64     `json:"default_currency_id"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}
