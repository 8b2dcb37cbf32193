package transport

import (
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/domain"
)

type CreateLeadRequest struct {
	FirstName        string     `json:"firstName" validate:"required,min=1,max=100"`
	LastName         string     `json:"lastName" validate:"max=100"`
	Email            *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone            string     `json:"phone" validate:"required,min=7,max=30"`
	ProgramID        *uuid.UUID `json:"programId,omitempty"`
	StatusID         *uuid.UUID `json:"statusId,omitempty"`
	SourceID         *uuid.UUID `json:"sourceId,omitempty"`
	AdvisorID        *uuid.UUID `json:"advisorId,omitempty"`
	RegistrationDate *time.Time `json:"registrationDate,omitempty"`
}

type UpdateLeadRequest struct {
	FirstName *string    `json:"firstName,omitempty" validate:"omitempty,min=1,max=100"`
	LastName  *string    `json:"lastName,omitempty" validate:"omitempty,max=100"`
	Email     *string    `json:"email,omitempty" validate:"omitempty,email"`
	Phone     *string    `json:"phone,omitempty" validate:"omitempty,min=7,max=30"`
	ProgramID *uuid.UUID `json:"programId,omitempty"`
	SourceID  *uuid.UUID `json:"sourceId,omitempty"`
}

type ListLeadsRequest struct {
	StatusID  string `form:"statusId" validate:"omitempty,uuid"`
	Category  string `form:"category" validate:"omitempty,oneof=active won lost"`
	AdvisorID string `form:"advisorId" validate:"omitempty,uuid"`
	ProgramID string `form:"programId" validate:"omitempty,uuid"`
	Search    string `form:"search" validate:"max=100"`
	SortBy    string `form:"sortBy" validate:"omitempty,oneof=registrationDate score urgency"`
	Page      int    `form:"page" validate:"omitempty,min=1"`
	PageSize  int    `form:"pageSize" validate:"omitempty,min=1,max=200"`
}

type ChangeStatusRequest struct {
	StatusID uuid.UUID `json:"statusId" validate:"required"`
}

type TransferLeadRequest struct {
	AdvisorID uuid.UUID `json:"advisorId" validate:"required"`
}

type BulkTransferRequest struct {
	LeadIDs   []uuid.UUID `json:"leadIds" validate:"required,min=1,max=100"`
	AdvisorID uuid.UUID   `json:"advisorId" validate:"required"`
}

type BulkTransferError struct {
	LeadID  uuid.UUID `json:"leadId"`
	Message string    `json:"message"`
}

type BulkTransferResponse struct {
	Transferred int                 `json:"transferred"`
	Failed      int                 `json:"failed"`
	Errors      []BulkTransferError `json:"errors,omitempty"`
}

type AddFollowUpRequest struct {
	Date  *time.Time `json:"date,omitempty"`
	Notes string     `json:"notes" validate:"required,min=1,max=2000"`
}

// Score carries the computed score with its presentation classification.
type Score struct {
	Value int    `json:"value"`
	Label string `json:"label"`
	Color string `json:"color"`
}

// LeadResponse is a lead enriched with its computed score and urgency tier.
type LeadResponse struct {
	domain.Lead
	Score   Score `json:"score"`
	Urgency int   `json:"urgency"`
}

type LeadDetailResponse struct {
	LeadResponse
	ScoreBreakdown string `json:"scoreBreakdown"`
}

type LeadListResponse struct {
	Items      []LeadResponse `json:"items"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"pageSize"`
	TotalPages int            `json:"totalPages"`
}
