package transport

import (
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/identity/repository"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=128"`
}

type LoginResponse struct {
	AccessToken string          `json:"accessToken"`
	ExpiresAt   time.Time       `json:"expiresAt"`
	Advisor     AdvisorResponse `json:"advisor"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=8,max=128"`
}

type CreateAdvisorRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=128"`
	FirstName string `json:"firstName" validate:"required,min=1,max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Role      string `json:"role" validate:"omitempty,oneof=admin advisor"`
}

type UpdateAdvisorRequest struct {
	FirstName *string `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Role      *string `json:"role,omitempty" validate:"omitempty,oneof=admin advisor"`
	Active    *bool   `json:"active,omitempty"`
}

type ListAdvisorsRequest struct {
	IncludeInactive bool `form:"includeInactive"`
}

type AdvisorResponse struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	FullName  string    `json:"fullName"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewAdvisorResponse maps an advisor row to its API shape.
func NewAdvisorResponse(advisor repository.Advisor) AdvisorResponse {
	return AdvisorResponse{
		ID:        advisor.ID,
		Email:     advisor.Email,
		FirstName: advisor.FirstName,
		LastName:  advisor.LastName,
		FullName:  advisor.FullName(),
		Role:      advisor.Role,
		Active:    advisor.Active,
		CreatedAt: advisor.CreatedAt,
	}
}
