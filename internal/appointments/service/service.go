// Package service contains appointment scheduling logic: lifecycle
// transitions, calendar queries and reminder enqueueing.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/appointments/repository"
	"admissions_crm_backend/internal/appointments/transport"
	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/sanitize"
)

// LeadOwnership resolves a lead's advisor for visibility checks.
type LeadOwnership interface {
	GetLeadAdvisor(ctx context.Context, leadID uuid.UUID) (uuid.UUID, error)
}

// ReminderScheduler enqueues appointment reminders. Nil-safe at the module
// layer; the service receives a no-op when Redis is not configured.
type ReminderScheduler interface {
	ScheduleReminder(ctx context.Context, appointmentID, leadID uuid.UUID, appointmentAt time.Time) error
}

// Service implements appointment use cases.
type Service struct {
	repo      repository.Repository
	ownership LeadOwnership
	reminders ReminderScheduler
	bus       events.Bus
	log       *logger.Logger
}

// New creates a new appointments service. reminders may be nil.
func New(repo repository.Repository, ownership LeadOwnership, reminders ReminderScheduler, bus events.Bus, log *logger.Logger) *Service {
	return &Service{repo: repo, ownership: ownership, reminders: reminders, bus: bus, log: log}
}

// Create books a scheduled appointment for a lead and enqueues its reminder.
func (s *Service) Create(ctx context.Context, req transport.CreateAppointmentRequest, actorID uuid.UUID, isAdmin bool) (domain.Appointment, error) {
	if err := s.checkOwnership(ctx, req.LeadID, actorID, isAdmin); err != nil {
		return domain.Appointment{}, err
	}
	if !req.Date.After(time.Now()) {
		return domain.Appointment{}, apperr.Validation("appointment date must be in the future")
	}

	appt, err := s.repo.Create(ctx, repository.CreateParams{
		LeadID:          req.LeadID,
		Title:           sanitize.Text(req.Title),
		Date:            req.Date,
		DurationMinutes: req.DurationMinutes,
		Details:         sanitize.Text(req.Details),
		CreatedBy:       &actorID,
	})
	if err != nil {
		return domain.Appointment{}, err
	}

	if s.reminders != nil {
		if err := s.reminders.ScheduleReminder(ctx, appt.ID, appt.LeadID, appt.Date); err != nil {
			// Reminder failures are non-fatal.
			s.log.Error("failed to schedule appointment reminder", "error", err, "appointmentId", appt.ID)
		}
	}

	s.bus.Publish(ctx, events.AppointmentScheduled{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
		AdvisorID:     actorID,
		Date:          appt.Date,
	})

	s.log.Info("appointment scheduled", "appointmentId", appt.ID, "leadId", appt.LeadID, "date", appt.Date)
	return appt, nil
}

// Complete marks a scheduled appointment as completed.
func (s *Service) Complete(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (domain.Appointment, error) {
	appt, err := s.transition(ctx, id, domain.AppointmentCompleted, actorID, isAdmin)
	if err != nil {
		return domain.Appointment{}, err
	}

	s.bus.Publish(ctx, events.AppointmentCompleted{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
	})
	return appt, nil
}

// Cancel marks a scheduled appointment as canceled.
func (s *Service) Cancel(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (domain.Appointment, error) {
	appt, err := s.transition(ctx, id, domain.AppointmentCanceled, actorID, isAdmin)
	if err != nil {
		return domain.Appointment{}, err
	}

	s.bus.Publish(ctx, events.AppointmentCanceled{
		BaseEvent:     events.NewBaseEvent(),
		AppointmentID: appt.ID,
		LeadID:        appt.LeadID,
	})
	return appt, nil
}

// ListRange returns the calendar window scoped to the caller's visibility.
func (s *Service) ListRange(ctx context.Context, from, to time.Time, actorID uuid.UUID, isAdmin bool) ([]domain.Appointment, error) {
	if !to.After(from) {
		return nil, apperr.Validation("range end must be after range start")
	}

	params := repository.ListParams{From: from, To: to}
	if !isAdmin {
		params.AdvisorID = &actorID
	}
	return s.repo.ListRange(ctx, params)
}

// ListByLead returns a lead's appointments after an ownership check.
func (s *Service) ListByLead(ctx context.Context, leadID, actorID uuid.UUID, isAdmin bool) ([]domain.Appointment, error) {
	if err := s.checkOwnership(ctx, leadID, actorID, isAdmin); err != nil {
		return nil, err
	}
	return s.repo.ListByLead(ctx, leadID)
}

// IsStillScheduled reports whether the appointment exists and remains in the
// scheduled state. The reminder worker calls this before sending.
func (s *Service) IsStillScheduled(ctx context.Context, id uuid.UUID) (bool, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return false, nil
		}
		return false, err
	}
	return appt.Status == domain.AppointmentScheduled, nil
}

func (s *Service) transition(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus, actorID uuid.UUID, isAdmin bool) (domain.Appointment, error) {
	appt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.Appointment{}, err
	}
	if err := s.checkOwnership(ctx, appt.LeadID, actorID, isAdmin); err != nil {
		return domain.Appointment{}, err
	}
	return s.repo.SetStatus(ctx, id, status)
}

func (s *Service) checkOwnership(ctx context.Context, leadID, actorID uuid.UUID, isAdmin bool) error {
	if isAdmin {
		return nil
	}
	advisorID, err := s.ownership.GetLeadAdvisor(ctx, leadID)
	if err != nil {
		return err
	}
	if advisorID != actorID {
		return apperr.Forbidden("lead belongs to another advisor")
	}
	return nil
}
