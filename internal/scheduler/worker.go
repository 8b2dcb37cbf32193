package scheduler

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"

	apptrepo "admissions_crm_backend/internal/appointments/repository"
	"admissions_crm_backend/internal/leads/domain"
	leadsrepo "admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/messaging"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
)

const workerConcurrency = 10

// Worker processes due reminder tasks and delivers them by email.
type Worker struct {
	server       *asynq.Server
	mux          *asynq.ServeMux
	appointments apptrepo.Repository
	leads        leadsrepo.Repository
	sender       messaging.Sender
	log          *logger.Logger
}

// NewWorker creates the reminder worker bound to the configured Redis
// instance.
func NewWorker(cfg config.RedisConfig, pool *pgxpool.Pool, sender messaging.Sender, log *logger.Logger) (*Worker, error) {
	if cfg.GetRedisAddr() == "" {
		return nil, fmt.Errorf("redis address not configured")
	}

	server := asynq.NewServer(redisClientOpt(cfg), asynq.Config{
		Concurrency: workerConcurrency,
		Queues: map[string]int{
			defaultQueue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:       server,
		mux:          mux,
		appointments: apptrepo.New(pool),
		leads:        leadsrepo.New(pool),
		sender:       sender,
		log:          log,
	}

	mux.HandleFunc(TaskAppointmentReminder, w.handleAppointmentReminder)

	return w, nil
}

// Run serves tasks until ctx is canceled.
func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

// handleAppointmentReminder re-checks the appointment state at delivery
// time: appointments canceled or completed after enqueue are dropped
// silently.
func (w *Worker) handleAppointmentReminder(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseAppointmentReminderPayload(task)
	if err != nil {
		return err
	}

	apptID, err := uuid.Parse(payload.AppointmentID)
	if err != nil {
		return err
	}
	leadID, err := uuid.Parse(payload.LeadID)
	if err != nil {
		return err
	}

	appt, err := w.appointments.GetByID(ctx, apptID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if appt.Status != domain.AppointmentScheduled {
		return nil
	}

	lead, err := w.leads.GetByID(ctx, leadID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil
		}
		return err
	}
	if lead.Email == nil || *lead.Email == "" {
		w.log.Info("skipping reminder, lead has no email", "lead_id", leadID.String())
		return nil
	}

	subject := fmt.Sprintf("Recordatorio de cita: %s", appt.Title)
	body := fmt.Sprintf(
		"Hola %s,\n\nTe recordamos tu cita \"%s\" el %s.\n\nHasta pronto.",
		lead.FirstName,
		appt.Title,
		appt.Date.Format("02-01-2006 15:04"),
	)

	if err := w.sender.Send(ctx, *lead.Email, subject, body); err != nil {
		return fmt.Errorf("send reminder for appointment %s: %w", apptID, err)
	}

	w.log.Info("appointment reminder sent", "appointment_id", apptID.String(), "lead_id", leadID.String())
	return nil
}
