package expenses

import "time"

type CreateExpenseRequest struct {
	Description string  `json:"description" validate:"required,max=500"`
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	CurrencyID  int64   `json:"currency_id" validate:"required,gt=0"`
	ClientID    *int64  `json:"client_id,omitempty" validate:"omitempty,gt=0"`
	IncurredAt  string  `json:"incurred_at" validate:"required,datetime=2006-01-02"`
}

type ListExpensesRequest struct {
	CompanyID int64     `json:"company_id"`
	OwnerID   *int64    `json:"owner_id,omitempty"`
	From      time.Time `json:"from"`
	To        time.Time `json:"to"`
	Limit     int       `json:"limit" validate:"gte=0,lte=1000"`
	Offset    int       `json:"offset" validate:"gte=0"`
}
