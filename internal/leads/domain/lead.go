// Package domain holds the pure lead model and classification rules.
// Everything here is side-effect free and safe to call once per row during
// list rendering: functions read only their explicit inputs.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// AppointmentStatus is the lifecycle state of an appointment.
// Appointments are created as scheduled and move only to a terminal state.
type AppointmentStatus string

const (
	AppointmentScheduled AppointmentStatus = "scheduled"
	AppointmentCompleted AppointmentStatus = "completed"
	AppointmentCanceled  AppointmentStatus = "canceled"
)

// FollowUp is a timestamped free-text note attached to a lead.
// Date is the user-chosen contact date, distinct from CreatedAt.
// Follow-ups are immutable after creation except for deletion.
type FollowUp struct {
	ID            uuid.UUID  `json:"id"`
	LeadID        uuid.UUID  `json:"leadId"`
	Date          time.Time  `json:"date"`
	Notes         string     `json:"notes"`
	CreatedAt     time.Time  `json:"createdAt"`
	CreatedBy     *uuid.UUID `json:"createdBy,omitempty"`
	CreatedByName string     `json:"createdByName,omitempty"`
}

// Appointment is a scheduled meeting tied to a lead.
type Appointment struct {
	ID              uuid.UUID         `json:"id"`
	LeadID          uuid.UUID         `json:"leadId"`
	Title           string            `json:"title"`
	Date            time.Time         `json:"date"`
	DurationMinutes int               `json:"durationMinutes"`
	Details         string            `json:"details,omitempty"`
	Status          AppointmentStatus `json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
	CreatedBy       *uuid.UUID        `json:"createdBy,omitempty"`
}

// StatusChange is an append-only audit record of a lead's pipeline moves.
// A nil OldStatusID marks the initial creation entry.
type StatusChange struct {
	ID          uuid.UUID  `json:"id"`
	LeadID      uuid.UUID  `json:"leadId"`
	OldStatusID *uuid.UUID `json:"oldStatusId"`
	NewStatusID uuid.UUID  `json:"newStatusId"`
	Date        time.Time  `json:"date"`
	CreatedBy   *uuid.UUID `json:"createdBy,omitempty"`
}

// Lead is the aggregate consumed by scoring, urgency classification and the
// dashboard. FollowUps, Appointments and StatusHistory are owned collections
// loaded alongside the row; catalog references (status, advisor, program,
// source) are lookup-only.
type Lead struct {
	ID               uuid.UUID  `json:"id"`
	FirstName        string     `json:"firstName"`
	LastName         string     `json:"lastName"`
	Email            *string    `json:"email,omitempty"`
	Phone            string     `json:"phone"`
	ProgramID        *uuid.UUID `json:"programId,omitempty"`
	StatusID         uuid.UUID  `json:"statusId"`
	AdvisorID        uuid.UUID  `json:"advisorId"`
	SourceID         *uuid.UUID `json:"sourceId,omitempty"`
	RegistrationDate time.Time  `json:"registrationDate"`
	CreatedAt        time.Time  `json:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt"`

	FollowUps     []FollowUp     `json:"followUps"`
	Appointments  []Appointment  `json:"appointments"`
	StatusHistory []StatusChange `json:"statusHistory"`
}

// FullName returns the lead's display name.
func (l Lead) FullName() string {
	if l.FirstName == "" {
		return l.LastName
	}
	if l.LastName == "" {
		return l.FirstName
	}
	return l.FirstName + " " + l.LastName
}

// HasCompleteProfile reports whether email, phone and program are all present.
func (l Lead) HasCompleteProfile() bool {
	return l.Email != nil && *l.Email != "" && l.Phone != "" && l.ProgramID != nil
}

// HasAppointmentWithStatus reports whether any appointment is in the given state.
func (l Lead) HasAppointmentWithStatus(status AppointmentStatus) bool {
	for _, appt := range l.Appointments {
		if appt.Status == status {
			return true
		}
	}
	return false
}

// FirstScheduledAppointment returns the first appointment (in load order)
// that is still scheduled.
func (l Lead) FirstScheduledAppointment() (Appointment, bool) {
	for _, appt := range l.Appointments {
		if appt.Status == AppointmentScheduled {
			return appt, true
		}
	}
	return Appointment{}, false
}

// ActiveAppointment returns the appointment treated as "active" by
// convention: the most recent scheduled one. Multiple concurrent scheduled
// appointments are not rejected; the latest date wins.
func (l Lead) ActiveAppointment() (Appointment, bool) {
	var active Appointment
	found := false
	for _, appt := range l.Appointments {
		if appt.Status != AppointmentScheduled {
			continue
		}
		if !found || appt.Date.After(active.Date) {
			active = appt
			found = true
		}
	}
	return active, found
}

// HasFutureScheduledAppointment reports whether any scheduled appointment is
// strictly in the future relative to now.
func (l Lead) HasFutureScheduledAppointment(now time.Time) bool {
	for _, appt := range l.Appointments {
		if appt.Status == AppointmentScheduled && appt.Date.After(now) {
			return true
		}
	}
	return false
}

// HasImminentAppointment reports whether any scheduled appointment starts
// strictly in the future and within the next 48 hours.
func (l Lead) HasImminentAppointment(now time.Time) bool {
	for _, appt := range l.Appointments {
		if appt.Status != AppointmentScheduled {
			continue
		}
		delta := appt.Date.Sub(now)
		if delta > 0 && delta <= 48*time.Hour {
			return true
		}
	}
	return false
}

// LatestFollowUp returns the follow-up with the most recent contact date.
func (l Lead) LatestFollowUp() (FollowUp, bool) {
	if len(l.FollowUps) == 0 {
		return FollowUp{}, false
	}
	latest := l.FollowUps[0]
	for _, fu := range l.FollowUps[1:] {
		if fu.Date.After(latest.Date) {
			latest = fu
		}
	}
	return latest, true
}

// LastInteraction returns the most recent follow-up date, or the
// registration date when no follow-ups exist.
func (l Lead) LastInteraction() time.Time {
	if latest, ok := l.LatestFollowUp(); ok {
		return latest.Date
	}
	return l.RegistrationDate
}

// DaysSince returns whole days elapsed from t to now. Negative durations
// truncate toward zero, so a future t yields 0 for near dates.
func DaysSince(now, t time.Time) int {
	return int(now.Sub(t).Hours() / 24)
}

// SameCalendarDay reports whether t and ref fall on the same calendar day in
// ref's location (dashboard "today" buckets are local-time based).
func SameCalendarDay(t, ref time.Time) bool {
	ty, tm, td := t.In(ref.Location()).Date()
	ry, rm, rd := ref.Date()
	return ty == ry && tm == rm && td == rd
}
