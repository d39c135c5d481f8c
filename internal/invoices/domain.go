package invoices

import "time"

// InvoiceStatus enumerates invoice lifecycle states.
type InvoiceStatus string

const (
	StatusDraft InvoiceStatus = "DRAFT"
	StatusSent  InvoiceStatus = "SENT"
	StatusPaid  InvoiceStatus = "PAID"
	StatusVoid  InvoiceStatus = "VOID"
)

// Invoice is a bill issued by a company to one of its clients.
type Invoice struct {
	ID         int64         `json:"id"`
	CompanyID  int64         `json:"company_id"`
	UserID     int64         `json:"user_id"`
	ClientID   int64         `json:"client_id"`
	Number     string        `json:"number"`
	CurrencyID int64         `json:"currency_id"`
	Subtotal   float64       `json:"subtotal"`
	TaxAmount  float64       `json:"tax_amount"`
	Total      float64       `json:"total"`
	Status     InvoiceStatus `json:"status"`
	IssuedAt   time.Time     `json:"issued_at"`
	DueAt      time.Time     `json:"due_at"`
	IsDeleted  bool          `json:"is_deleted"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// Payment is money received against an invoice.
type Payment struct {
	ID        int64     `json:"id"`
	CompanyID int64     `json:"company_id"`
	InvoiceID int64     `json:"invoice_id"`
	UserID    int64     `json:"user_id"`
	Amount    float64   `json:"amount"`
	PaidAt    time.Time `json:"paid_at"`
	Method    string    `json:"method"`
	Note      string    `json:"note"`
	CreatedAt time.Time `json:"created_at"`
}

// MetricRow is one aggregate financial figure for one currency over a
// date range, as produced by the metric queries in metrics.go.
type MetricRow struct {
	CurrencyID int64   `json:"currency_id"`
	Total      float64 `json:"total"`
	Count      int64   `json:"count"`
}

// CreateInvoiceInput carries the fields needed to create an invoice.
type CreateInvoiceInput struct {
	ClientID   int64
	Number     string
	CurrencyID int64
	Subtotal   float64
	TaxAmount  float64
	Total      float64
	IssuedAt   time.Time
	DueAt      time.Time
}

// CreatePaymentInput carries the fields needed to record a payment.
type CreatePaymentInput struct {
	InvoiceID int64
	Amount    float64
	PaidAt    time.Time
	Method    string
	Note      string
}

// ListInvoicesRequest filters invoice listings.
type ListInvoicesRequest struct {
	CompanyID int64
	OwnerID   *int64
	ClientID  int64
	Status    InvoiceStatus
	FromDate  time.Time
	ToDate    time.Time
	Limit     int
	Offset    int
}
