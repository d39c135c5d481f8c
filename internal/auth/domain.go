package auth

import "time"

// User represents an authenticated user account within a company.
type User struct {
	ID           int64
	CompanyID    int64
	Email        string
	PasswordHash string
	IsAdmin      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
