package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Advisor is an admissions advisor account.
type Advisor struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FirstName    string    `json:"firstName"`
	LastName     string    `json:"lastName"`
	Role         string    `json:"role"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FullName returns the advisor's display name.
func (a Advisor) FullName() string {
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}

type CreateAdvisorParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         string
}

type UpdateAdvisorParams struct {
	ID        uuid.UUID
	FirstName *string
	LastName  *string
	Role      *string
	Active    *bool
}

// Repository defines persistence for advisor accounts.
type Repository interface {
	GetByEmail(ctx context.Context, email string) (Advisor, error)
	GetByID(ctx context.Context, id uuid.UUID) (Advisor, error)
	List(ctx context.Context, includeInactive bool) ([]Advisor, error)
	Create(ctx context.Context, params CreateAdvisorParams) (Advisor, error)
	Update(ctx context.Context, params UpdateAdvisorParams) (Advisor, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
}
