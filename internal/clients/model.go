package clients

import "time"

// Client is a billable counterparty of a company. Archiving hides a
// client from day-to-day listings but keeps its history contributing to
// reports; is_deleted removes it from currency resolution entirely.
type Client struct {
	ID         int64     `json:"id" db:"id"`
	CompanyID  int64     `json:"company_id" db:"company_id"`
	UserID     int64     `json:"user_id" db:"user_id"`
	Name       string    `json:"name" db:"name"`
	Email      *string   `json:"email,omitempty" db:"email"`
	Phone      *string   `json:"phone,omitempty" db:"phone"`
	CurrencyID int64     `json:"currency_id" db:"currency_id"`
	IsArchived bool      `json:"is_archived" db:"is_archived"`
	IsDeleted  bool      `json:"is_deleted" db:"is_deleted"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}
