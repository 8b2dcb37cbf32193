package repository

import (
	"context"
	"time"

	"admissions_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

type CreateLeadParams struct {
	FirstName        string
	LastName         string
	Email            *string
	Phone            string
	ProgramID        *uuid.UUID
	StatusID         uuid.UUID
	AdvisorID        uuid.UUID
	SourceID         *uuid.UUID
	RegistrationDate time.Time
	CreatedBy        *uuid.UUID
}

type UpdateLeadParams struct {
	ID        uuid.UUID
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	ProgramID *uuid.UUID
	SourceID  *uuid.UUID
}

type ListLeadsParams struct {
	// AdvisorID scopes visibility; nil means all leads (admin).
	AdvisorID *uuid.UUID
	// StatusIDs narrows to the given statuses when non-empty.
	StatusIDs []uuid.UUID
	ProgramID *uuid.UUID
	Search    string
	Page      int
	PageSize  int
}

type AddFollowUpParams struct {
	LeadID    uuid.UUID
	Date      time.Time
	Notes     string
	CreatedBy *uuid.UUID
}

type ChangeStatusParams struct {
	LeadID      uuid.UUID
	NewStatusID uuid.UUID
	ChangedBy   *uuid.UUID
}

type TransferParams struct {
	LeadID        uuid.UUID
	ToAdvisorID   uuid.UUID
	TransferredBy *uuid.UUID
	AuditNote     string
}

// Repository defines persistence for leads and their owned collections.
type Repository interface {
	Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error)
	List(ctx context.Context, params ListLeadsParams) ([]domain.Lead, int, error)
	ListAllVisible(ctx context.Context, advisorID *uuid.UUID) ([]domain.Lead, error)
	Update(ctx context.Context, params UpdateLeadParams) (domain.Lead, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ChangeStatus(ctx context.Context, params ChangeStatusParams) (domain.Lead, error)
	Transfer(ctx context.Context, params TransferParams) (domain.Lead, error)

	AddFollowUp(ctx context.Context, params AddFollowUpParams) (domain.FollowUp, error)
	DeleteFollowUp(ctx context.Context, leadID, followUpID uuid.UUID) error

	// ExistsByPhone reports whether another lead already uses the phone number.
	ExistsByPhone(ctx context.Context, phone string, excludeID *uuid.UUID) (bool, error)
}
