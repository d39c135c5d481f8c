package expenses

import "time"

// Expense is money spent by a company, recorded in the currency it was
// paid in. Deleted expenses stay on disk for history but never surface
// in listings or currency resolution.
type Expense struct {
	ID          int64     `json:"id" db:"id"`
	CompanyID   int64     `json:"company_id" db:"company_id"`
	UserID      int64     `json:"user_id" db:"user_id"`
	ClientID    *int64    `json:"client_id,omitempty" db:"client_id"`
	Description string    `json:"description" db:"description"`
	Amount      float64   `json:"amount" db:"amount"`
	CurrencyID  int64     `json:"currency_id" db:"currency_id"`
	IncurredAt  time.Time `json:"incurred_at" db:"incurred_at"`
	IsDeleted   bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CurrencyTotal is one aggregate expense figure for one currency.
type CurrencyTotal struct {
	CurrencyID int64   `json:"currency_id"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
}
