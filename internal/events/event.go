// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"time"

	"admissions_crm_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Leads Domain Events
// =============================================================================

// LeadCreated is published when a new lead enters the pipeline.
type LeadCreated struct {
	BaseEvent
	LeadID    uuid.UUID  `json:"leadId"`
	AdvisorID uuid.UUID  `json:"advisorId"`
	FullName  string     `json:"fullName"`
	Phone     string     `json:"phone"`
	Email     *string    `json:"email,omitempty"`
	ProgramID *uuid.UUID `json:"programId,omitempty"`
	SourceID  *uuid.UUID `json:"sourceId,omitempty"`
}

func (e LeadCreated) EventName() string { return "leads.lead.created" }

// LeadStatusChanged is published when a lead moves in the pipeline.
type LeadStatusChanged struct {
	BaseEvent
	LeadID      uuid.UUID  `json:"leadId"`
	OldStatusID *uuid.UUID `json:"oldStatusId,omitempty"`
	NewStatusID uuid.UUID  `json:"newStatusId"`
	NewCategory string     `json:"newCategory"`
	ChangedBy   uuid.UUID  `json:"changedBy"`
}

func (e LeadStatusChanged) EventName() string { return "leads.lead.status_changed" }

// LeadTransferred is published when a lead is reassigned to another advisor.
type LeadTransferred struct {
	BaseEvent
	LeadID        uuid.UUID `json:"leadId"`
	FromAdvisorID uuid.UUID `json:"fromAdvisorId"`
	ToAdvisorID   uuid.UUID `json:"toAdvisorId"`
	TransferredBy uuid.UUID `json:"transferredBy"`
}

func (e LeadTransferred) EventName() string { return "leads.lead.transferred" }

// FollowUpRecorded is published when an advisor logs a follow-up note.
type FollowUpRecorded struct {
	BaseEvent
	LeadID     uuid.UUID `json:"leadId"`
	FollowUpID uuid.UUID `json:"followUpId"`
	AdvisorID  uuid.UUID `json:"advisorId"`
}

func (e FollowUpRecorded) EventName() string { return "leads.followup.recorded" }

// =============================================================================
// Appointments Domain Events
// =============================================================================

// AppointmentScheduled is published when an appointment is booked for a lead.
type AppointmentScheduled struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	LeadID        uuid.UUID `json:"leadId"`
	AdvisorID     uuid.UUID `json:"advisorId"`
	Date          time.Time `json:"date"`
}

func (e AppointmentScheduled) EventName() string { return "appointments.appointment.scheduled" }

// AppointmentCompleted is published when a scheduled appointment is marked done.
type AppointmentCompleted struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	LeadID        uuid.UUID `json:"leadId"`
}

func (e AppointmentCompleted) EventName() string { return "appointments.appointment.completed" }

// AppointmentCanceled is published when a scheduled appointment is canceled.
type AppointmentCanceled struct {
	BaseEvent
	AppointmentID uuid.UUID `json:"appointmentId"`
	LeadID        uuid.UUID `json:"leadId"`
}

func (e AppointmentCanceled) EventName() string { return "appointments.appointment.canceled" }
