package clients

type CreateClientRequest struct {
	Name       string  `json:"name" validate:"required,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	CurrencyID int64   `json:"currency_id" validate:"required,gt=0"`
}

type UpdateClientRequest struct {
	Name       *string `json:"name,omitempty" validate:"omitempty,max=200"`
	Email      *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone      *string `json:"phone,omitempty" validate:"omitempty,max=50"`
	CurrencyID *int64  `json:"currency_id,omitempty" validate:"omitempty,gt=0"`
	IsArchived *bool   `json:"is_archived,omitempty"`
}

type ListClientsRequest struct {
	CompanyID       int64   `json:"company_id" validate:"required,gt=0"`
	OwnerID         *int64  `json:"owner_id,omitempty"`
	IncludeArchived bool    `json:"include_archived"`
	Search          *string `json:"search,omitempty"`
	Limit           int     `json:"limit" validate:"gte=0,lte=1000"`
	Offset          int     `json:"offset" validate:"gte=0"`
}
