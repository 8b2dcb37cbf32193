// Package repository persists appointments. Appointment rows are owned by
// leads but have their own lifecycle, so they get a dedicated repository.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
)

const appointmentNotFoundMessage = "appointment not found"

const appointmentColumns = `id, lead_id, title, date, duration_minutes, details, status, created_at, updated_at, created_by`

type CreateParams struct {
	LeadID          uuid.UUID
	Title           string
	Date            time.Time
	DurationMinutes int
	Details         string
	CreatedBy       *uuid.UUID
}

type ListParams struct {
	// AdvisorID scopes to appointments of the advisor's leads; nil = all.
	AdvisorID *uuid.UUID
	From      time.Time
	To        time.Time
}

// Repository defines appointment persistence.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (domain.Appointment, error)
	GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error)
	ListRange(ctx context.Context, params ListParams) ([]domain.Appointment, error)
	ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Appointment, error)
	SetStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) (domain.Appointment, error)
}

// Repo implements Repository over pgx.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new appointments repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a scheduled appointment.
func (r *Repo) Create(ctx context.Context, params CreateParams) (domain.Appointment, error) {
	query := `
		INSERT INTO appointments (lead_id, title, date, duration_minutes, details, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING ` + appointmentColumns

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query,
		params.LeadID, params.Title, params.Date, params.DurationMinutes,
		params.Details, domain.AppointmentScheduled, params.CreatedBy,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.Appointment{}, apperr.Validation("lead does not exist")
		}
		return domain.Appointment{}, fmt.Errorf("create appointment: %w", err)
	}
	return appt, nil
}

// GetByID retrieves one appointment.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE id = $1`

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Appointment{}, apperr.NotFound(appointmentNotFoundMessage)
		}
		return domain.Appointment{}, fmt.Errorf("get appointment: %w", err)
	}
	return appt, nil
}

// ListRange returns appointments within [From, To), optionally scoped to one
// advisor's leads. Feeds the calendar view.
func (r *Repo) ListRange(ctx context.Context, params ListParams) ([]domain.Appointment, error) {
	query := `
		SELECT a.id, a.lead_id, a.title, a.date, a.duration_minutes, a.details, a.status, a.created_at, a.updated_at, a.created_by
		FROM appointments a
		JOIN leads l ON l.id = a.lead_id
		WHERE a.date >= $1 AND a.date < $2
			AND ($3::uuid IS NULL OR l.advisor_id = $3)
		ORDER BY a.date`

	rows, err := r.pool.Query(ctx, query, params.From, params.To, params.AdvisorID)
	if err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}
	return collectAppointments(rows)
}

// ListByLead returns a lead's appointments, newest first.
func (r *Repo) ListByLead(ctx context.Context, leadID uuid.UUID) ([]domain.Appointment, error) {
	query := `SELECT ` + appointmentColumns + ` FROM appointments WHERE lead_id = $1 ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query, leadID)
	if err != nil {
		return nil, fmt.Errorf("list lead appointments: %w", err)
	}
	return collectAppointments(rows)
}

// SetStatus transitions a scheduled appointment to completed or canceled.
// Terminal states are never left: the WHERE clause only matches scheduled
// rows and a non-match on an existing row surfaces as a conflict.
func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status domain.AppointmentStatus) (domain.Appointment, error) {
	query := `
		UPDATE appointments
		SET status = $2, updated_at = now()
		WHERE id = $1 AND status = $3
		RETURNING ` + appointmentColumns

	appt, err := scanAppointment(r.pool.QueryRow(ctx, query, id, status, domain.AppointmentScheduled))
	if err == nil {
		return appt, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Appointment{}, fmt.Errorf("set appointment status: %w", err)
	}

	if _, getErr := r.GetByID(ctx, id); getErr != nil {
		return domain.Appointment{}, getErr
	}
	return domain.Appointment{}, apperr.Conflict("appointment is no longer scheduled")
}

func scanAppointment(row pgx.Row) (domain.Appointment, error) {
	var appt domain.Appointment
	err := row.Scan(
		&appt.ID, &appt.LeadID, &appt.Title, &appt.Date, &appt.DurationMinutes,
		&appt.Details, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt, &appt.CreatedBy,
	)
	return appt, err
}

func collectAppointments(rows pgx.Rows) ([]domain.Appointment, error) {
	defer rows.Close()

	var appointments []domain.Appointment
	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan appointment: %w", err)
		}
		appointments = append(appointments, appt)
	}
	return appointments, rows.Err()
}
