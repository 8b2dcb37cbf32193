package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
)

// attachRelations loads follow-ups, appointments and status history for the
// given leads with one batched query per collection and stitches them in
// place. Every lead ends up with non-nil slices.
func (r *Repo) attachRelations(ctx context.Context, leads []domain.Lead) error {
	if len(leads) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(leads))
	index := make(map[uuid.UUID]int, len(leads))
	for i := range leads {
		ids[i] = leads[i].ID
		index[leads[i].ID] = i
		leads[i].FollowUps = []domain.FollowUp{}
		leads[i].Appointments = []domain.Appointment{}
		leads[i].StatusHistory = []domain.StatusChange{}
	}

	if err := r.attachFollowUps(ctx, ids, index, leads); err != nil {
		return err
	}
	if err := r.attachAppointments(ctx, ids, index, leads); err != nil {
		return err
	}
	return r.attachStatusHistory(ctx, ids, index, leads)
}

func (r *Repo) attachFollowUps(ctx context.Context, ids []uuid.UUID, index map[uuid.UUID]int, leads []domain.Lead) error {
	query := `
		SELECT f.id, f.lead_id, f.date, f.notes, f.created_at, f.created_by,
			COALESCE(a.first_name || CASE WHEN a.last_name = '' THEN '' ELSE ' ' || a.last_name END, '')
		FROM follow_ups f
		LEFT JOIN advisors a ON a.id = f.created_by
		WHERE f.lead_id = ANY($1)
		ORDER BY f.date DESC, f.created_at DESC`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load follow-ups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var followUp domain.FollowUp
		if err := rows.Scan(
			&followUp.ID, &followUp.LeadID, &followUp.Date, &followUp.Notes,
			&followUp.CreatedAt, &followUp.CreatedBy, &followUp.CreatedByName,
		); err != nil {
			return fmt.Errorf("scan follow-up: %w", err)
		}
		if i, ok := index[followUp.LeadID]; ok {
			leads[i].FollowUps = append(leads[i].FollowUps, followUp)
		}
	}
	return rows.Err()
}

func (r *Repo) attachAppointments(ctx context.Context, ids []uuid.UUID, index map[uuid.UUID]int, leads []domain.Lead) error {
	query := `
		SELECT id, lead_id, title, date, duration_minutes, details, status, created_at, updated_at, created_by
		FROM appointments
		WHERE lead_id = ANY($1)
		ORDER BY date DESC`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load appointments: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var appt domain.Appointment
		if err := rows.Scan(
			&appt.ID, &appt.LeadID, &appt.Title, &appt.Date, &appt.DurationMinutes,
			&appt.Details, &appt.Status, &appt.CreatedAt, &appt.UpdatedAt, &appt.CreatedBy,
		); err != nil {
			return fmt.Errorf("scan appointment: %w", err)
		}
		if i, ok := index[appt.LeadID]; ok {
			leads[i].Appointments = append(leads[i].Appointments, appt)
		}
	}
	return rows.Err()
}

func (r *Repo) attachStatusHistory(ctx context.Context, ids []uuid.UUID, index map[uuid.UUID]int, leads []domain.Lead) error {
	query := `
		SELECT id, lead_id, old_status_id, new_status_id, date, created_by
		FROM status_changes
		WHERE lead_id = ANY($1)
		ORDER BY date`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("load status history: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var change domain.StatusChange
		if err := rows.Scan(
			&change.ID, &change.LeadID, &change.OldStatusID,
			&change.NewStatusID, &change.Date, &change.CreatedBy,
		); err != nil {
			return fmt.Errorf("scan status change: %w", err)
		}
		if i, ok := index[change.LeadID]; ok {
			leads[i].StatusHistory = append(leads[i].StatusHistory, change)
		}
	}
	return rows.Err()
}

// AddFollowUp appends an immutable follow-up note to a lead.
func (r *Repo) AddFollowUp(ctx context.Context, params AddFollowUpParams) (domain.FollowUp, error) {
	query := `
		INSERT INTO follow_ups (lead_id, date, notes, created_by)
		VALUES ($1, $2, $3, $4)
		RETURNING id, lead_id, date, notes, created_at, created_by`

	var followUp domain.FollowUp
	if err := r.pool.QueryRow(ctx, query,
		params.LeadID, params.Date, params.Notes, params.CreatedBy,
	).Scan(
		&followUp.ID, &followUp.LeadID, &followUp.Date, &followUp.Notes,
		&followUp.CreatedAt, &followUp.CreatedBy,
	); err != nil {
		return domain.FollowUp{}, fmt.Errorf("add follow-up: %w", err)
	}
	return followUp, nil
}

// DeleteFollowUp removes a note. Notes are never edited, only deleted.
func (r *Repo) DeleteFollowUp(ctx context.Context, leadID, followUpID uuid.UUID) error {
	result, err := r.pool.Exec(ctx,
		`DELETE FROM follow_ups WHERE id = $1 AND lead_id = $2`,
		followUpID, leadID,
	)
	if err != nil {
		return fmt.Errorf("delete follow-up: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound("follow-up not found")
	}
	return nil
}
