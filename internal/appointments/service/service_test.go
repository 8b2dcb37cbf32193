package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	platformevents "admissions_crm_backend/platform/events"

	"admissions_crm_backend/internal/appointments/repository"
	"admissions_crm_backend/internal/appointments/transport"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
)

type fakeApptRepo struct {
	appointments map[uuid.UUID]domain.Appointment
}

func newFakeApptRepo() *fakeApptRepo {
	return &fakeApptRepo{appointments: make(map[uuid.UUID]domain.Appointment)}
}

func (f *fakeApptRepo) Create(_ context.Context, params repository.CreateParams) (domain.Appointment, error) {
	appt := domain.Appointment{
		ID:              uuid.New(),
		LeadID:          params.LeadID,
		Title:           params.Title,
		Date:            params.Date,
		DurationMinutes: params.DurationMinutes,
		Details:         params.Details,
		Status:          domain.AppointmentScheduled,
		CreatedAt:       time.Now(),
		UpdatedAt:       time.Now(),
		CreatedBy:       params.CreatedBy,
	}
	f.appointments[appt.ID] = appt
	return appt, nil
}

func (f *fakeApptRepo) GetByID(_ context.Context, id uuid.UUID) (domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return domain.Appointment{}, apperr.NotFound("appointment not found")
	}
	return appt, nil
}

func (f *fakeApptRepo) ListRange(_ context.Context, params repository.ListParams) ([]domain.Appointment, error) {
	var result []domain.Appointment
	for _, appt := range f.appointments {
		if appt.Date.Before(params.From) || !appt.Date.Before(params.To) {
			continue
		}
		result = append(result, appt)
	}
	return result, nil
}

func (f *fakeApptRepo) ListByLead(_ context.Context, leadID uuid.UUID) ([]domain.Appointment, error) {
	var result []domain.Appointment
	for _, appt := range f.appointments {
		if appt.LeadID == leadID {
			result = append(result, appt)
		}
	}
	return result, nil
}

func (f *fakeApptRepo) SetStatus(_ context.Context, id uuid.UUID, status domain.AppointmentStatus) (domain.Appointment, error) {
	appt, ok := f.appointments[id]
	if !ok {
		return domain.Appointment{}, apperr.NotFound("appointment not found")
	}
	if appt.Status != domain.AppointmentScheduled {
		return domain.Appointment{}, apperr.Conflict("appointment is no longer scheduled")
	}
	appt.Status = status
	f.appointments[id] = appt
	return appt, nil
}

var _ repository.Repository = (*fakeApptRepo)(nil)

type fakeOwnership struct {
	owners map[uuid.UUID]uuid.UUID
}

func (f fakeOwnership) GetLeadAdvisor(_ context.Context, leadID uuid.UUID) (uuid.UUID, error) {
	owner, ok := f.owners[leadID]
	if !ok {
		return uuid.Nil, apperr.NotFound("lead not found")
	}
	return owner, nil
}

type recordingScheduler struct {
	calls []uuid.UUID
	err   error
}

func (r *recordingScheduler) ScheduleReminder(_ context.Context, appointmentID, _ uuid.UUID, _ time.Time) error {
	r.calls = append(r.calls, appointmentID)
	return r.err
}

type nopBus struct{}

func (nopBus) Publish(context.Context, platformevents.Event) {}

func (nopBus) PublishSync(context.Context, platformevents.Event) error { return nil }

func (nopBus) Subscribe(string, platformevents.Handler) {}

func newApptService(repo *fakeApptRepo, owners map[uuid.UUID]uuid.UUID, reminders ReminderScheduler) *Service {
	return New(repo, fakeOwnership{owners: owners}, reminders, nopBus{}, logger.New("test"))
}

func TestCreateSchedulesReminder(t *testing.T) {
	repo := newFakeApptRepo()
	leadID := uuid.New()
	advisor := uuid.New()
	reminders := &recordingScheduler{}
	svc := newApptService(repo, map[uuid.UUID]uuid.UUID{leadID: advisor}, reminders)

	appt, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		LeadID:          leadID,
		Title:           "Entrevista de admision",
		Date:            time.Now().Add(48 * time.Hour),
		DurationMinutes: 30,
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if appt.Status != domain.AppointmentScheduled {
		t.Errorf("Status = %s, want scheduled", appt.Status)
	}
	if len(reminders.calls) != 1 || reminders.calls[0] != appt.ID {
		t.Errorf("reminder calls = %v, want [%s]", reminders.calls, appt.ID)
	}
}

func TestCreateRejectsPastDate(t *testing.T) {
	repo := newFakeApptRepo()
	leadID := uuid.New()
	advisor := uuid.New()
	svc := newApptService(repo, map[uuid.UUID]uuid.UUID{leadID: advisor}, nil)

	_, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		LeadID:          leadID,
		Title:           "Entrevista",
		Date:            time.Now().Add(-time.Hour),
		DurationMinutes: 30,
	}, advisor, false)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("Create error = %v, want validation", err)
	}
}

func TestCreateRequiresLeadOwnership(t *testing.T) {
	repo := newFakeApptRepo()
	leadID := uuid.New()
	owner := uuid.New()
	stranger := uuid.New()
	svc := newApptService(repo, map[uuid.UUID]uuid.UUID{leadID: owner}, nil)

	req := transport.CreateAppointmentRequest{
		LeadID:          leadID,
		Title:           "Entrevista",
		Date:            time.Now().Add(24 * time.Hour),
		DurationMinutes: 30,
	}

	if _, err := svc.Create(context.Background(), req, stranger, false); !apperr.Is(err, apperr.KindForbidden) {
		t.Errorf("stranger Create error = %v, want forbidden", err)
	}
	if _, err := svc.Create(context.Background(), req, stranger, true); err != nil {
		t.Errorf("admin Create: %v", err)
	}
}

func TestReminderFailureDoesNotFailCreate(t *testing.T) {
	repo := newFakeApptRepo()
	leadID := uuid.New()
	advisor := uuid.New()
	reminders := &recordingScheduler{err: context.DeadlineExceeded}
	svc := newApptService(repo, map[uuid.UUID]uuid.UUID{leadID: advisor}, reminders)

	_, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		LeadID:          leadID,
		Title:           "Entrevista",
		Date:            time.Now().Add(24 * time.Hour),
		DurationMinutes: 30,
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
}

func TestTransitionsAreTerminal(t *testing.T) {
	repo := newFakeApptRepo()
	leadID := uuid.New()
	advisor := uuid.New()
	svc := newApptService(repo, map[uuid.UUID]uuid.UUID{leadID: advisor}, nil)

	appt, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		LeadID:          leadID,
		Title:           "Entrevista",
		Date:            time.Now().Add(24 * time.Hour),
		DurationMinutes: 30,
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	completed, err := svc.Complete(context.Background(), appt.ID, advisor, false)
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if completed.Status != domain.AppointmentCompleted {
		t.Errorf("Status = %s, want completed", completed.Status)
	}

	// Completed appointments cannot be canceled afterwards.
	if _, err := svc.Cancel(context.Background(), appt.ID, advisor, false); !apperr.Is(err, apperr.KindConflict) {
		t.Fatalf("Cancel after Complete error = %v, want conflict", err)
	}
}

func TestListRangeValidatesWindow(t *testing.T) {
	repo := newFakeApptRepo()
	svc := newApptService(repo, nil, nil)
	now := time.Now()

	_, err := svc.ListRange(context.Background(), now, now, uuid.New(), true)
	if !apperr.Is(err, apperr.KindValidation) {
		t.Fatalf("ListRange error = %v, want validation", err)
	}
}

func TestIsStillScheduled(t *testing.T) {
	repo := newFakeApptRepo()
	leadID := uuid.New()
	advisor := uuid.New()
	svc := newApptService(repo, map[uuid.UUID]uuid.UUID{leadID: advisor}, nil)

	appt, err := svc.Create(context.Background(), transport.CreateAppointmentRequest{
		LeadID:          leadID,
		Title:           "Entrevista",
		Date:            time.Now().Add(24 * time.Hour),
		DurationMinutes: 30,
	}, advisor, false)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	scheduled, err := svc.IsStillScheduled(context.Background(), appt.ID)
	if err != nil || !scheduled {
		t.Errorf("IsStillScheduled = %v, %v; want true, nil", scheduled, err)
	}

	if _, err := svc.Cancel(context.Background(), appt.ID, advisor, false); err != nil {
		t.Fatalf("Cancel: %v", err)
	}
	scheduled, err = svc.IsStillScheduled(context.Background(), appt.ID)
	if err != nil || scheduled {
		t.Errorf("IsStillScheduled after cancel = %v, %v; want false, nil", scheduled, err)
	}

	// Missing appointments report false without an error.
	scheduled, err = svc.IsStillScheduled(context.Background(), uuid.New())
	if err != nil || scheduled {
		t.Errorf("IsStillScheduled missing = %v, %v; want false, nil", scheduled, err)
	}
}
