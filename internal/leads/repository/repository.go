// Package repository persists leads and their owned collections. Reads
// always return the full aggregate (follow-ups, appointments, status
// history) since scoring and urgency classification need all three.
package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
)

const leadNotFoundMessage = "lead not found"

const leadColumns = `id, first_name, last_name, email, phone, program_id, status_id, advisor_id, source_id, registration_date, created_at, updated_at`

// Repo implements the leads repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new leads repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// Create inserts a lead and its initial status history entry in one
// transaction. The returned lead carries empty owned collections plus the
// creation audit record.
func (r *Repo) Create(ctx context.Context, params CreateLeadParams) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("begin create lead: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO leads (first_name, last_name, email, phone, program_id, status_id, advisor_id, source_id, registration_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + leadColumns

	lead, err := scanLead(tx.QueryRow(ctx, query,
		params.FirstName, params.LastName, params.Email, params.Phone,
		params.ProgramID, params.StatusID, params.AdvisorID, params.SourceID,
		params.RegistrationDate,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.Lead{}, apperr.Validation("referenced catalog entry does not exist")
		}
		return domain.Lead{}, fmt.Errorf("create lead: %w", err)
	}

	var change domain.StatusChange
	if err := tx.QueryRow(ctx, `
		INSERT INTO status_changes (lead_id, old_status_id, new_status_id, date, created_by)
		VALUES ($1, NULL, $2, now(), $3)
		RETURNING id, lead_id, old_status_id, new_status_id, date, created_by`,
		lead.ID, params.StatusID, params.CreatedBy,
	).Scan(&change.ID, &change.LeadID, &change.OldStatusID, &change.NewStatusID, &change.Date, &change.CreatedBy); err != nil {
		return domain.Lead{}, fmt.Errorf("record initial status: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, fmt.Errorf("commit create lead: %w", err)
	}

	lead.FollowUps = []domain.FollowUp{}
	lead.Appointments = []domain.Appointment{}
	lead.StatusHistory = []domain.StatusChange{change}
	return lead, nil
}

// GetByID retrieves a lead with all owned collections.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE id = $1`

	lead, err := scanLead(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("get lead by id: %w", err)
	}

	leads := []domain.Lead{lead}
	if err := r.attachRelations(ctx, leads); err != nil {
		return domain.Lead{}, err
	}
	return leads[0], nil
}

// List returns a page of leads with relations, plus the total row count for
// the same filters.
func (r *Repo) List(ctx context.Context, params ListLeadsParams) ([]domain.Lead, int, error) {
	whereClauses := []string{"1 = 1"}
	args := []interface{}{}

	if params.AdvisorID != nil {
		args = append(args, *params.AdvisorID)
		whereClauses = append(whereClauses, fmt.Sprintf("advisor_id = $%d", len(args)))
	}
	if len(params.StatusIDs) > 0 {
		args = append(args, params.StatusIDs)
		whereClauses = append(whereClauses, fmt.Sprintf("status_id = ANY($%d)", len(args)))
	}
	if params.ProgramID != nil {
		args = append(args, *params.ProgramID)
		whereClauses = append(whereClauses, fmt.Sprintf("program_id = $%d", len(args)))
	}
	if params.Search != "" {
		args = append(args, "%"+strings.TrimSpace(params.Search)+"%")
		n := len(args)
		whereClauses = append(whereClauses, fmt.Sprintf(
			"(first_name ILIKE $%d OR last_name ILIKE $%d OR email ILIKE $%d OR phone ILIKE $%d)", n, n, n, n))
	}

	where := strings.Join(whereClauses, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, "SELECT COUNT(*) FROM leads WHERE "+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count leads: %w", err)
	}

	page := params.Page
	if page < 1 {
		page = 1
	}
	pageSize := params.PageSize
	if pageSize < 1 || pageSize > 200 {
		pageSize = 50
	}
	args = append(args, pageSize, (page-1)*pageSize)

	query := fmt.Sprintf(
		"SELECT "+leadColumns+" FROM leads WHERE %s ORDER BY registration_date DESC, id LIMIT $%d OFFSET $%d",
		where, len(args)-1, len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list leads: %w", err)
	}
	leads, err := collectLeads(rows)
	if err != nil {
		return nil, 0, err
	}

	if err := r.attachRelations(ctx, leads); err != nil {
		return nil, 0, err
	}
	return leads, total, nil
}

// ListAllVisible returns every lead in the advisor's scope with relations.
// Used by the dashboard aggregator and exports, which need the full snapshot.
func (r *Repo) ListAllVisible(ctx context.Context, advisorID *uuid.UUID) ([]domain.Lead, error) {
	query := `SELECT ` + leadColumns + ` FROM leads WHERE $1::uuid IS NULL OR advisor_id = $1 ORDER BY registration_date DESC, id`

	rows, err := r.pool.Query(ctx, query, advisorID)
	if err != nil {
		return nil, fmt.Errorf("list visible leads: %w", err)
	}
	leads, err := collectLeads(rows)
	if err != nil {
		return nil, err
	}

	if err := r.attachRelations(ctx, leads); err != nil {
		return nil, err
	}
	return leads, nil
}

// Update patches contact and reference fields. Status, advisor and
// registration date have dedicated operations and are never touched here.
func (r *Repo) Update(ctx context.Context, params UpdateLeadParams) (domain.Lead, error) {
	query := `
		UPDATE leads
		SET first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			email = COALESCE($4, email),
			phone = COALESCE($5, phone),
			program_id = COALESCE($6, program_id),
			source_id = COALESCE($7, source_id),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + leadColumns

	lead, err := scanLead(r.pool.QueryRow(ctx, query,
		params.ID, params.FirstName, params.LastName, params.Email,
		params.Phone, params.ProgramID, params.SourceID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("update lead: %w", err)
	}

	leads := []domain.Lead{lead}
	if err := r.attachRelations(ctx, leads); err != nil {
		return domain.Lead{}, err
	}
	return leads[0], nil
}

// Delete removes a lead; owned collections cascade in the schema.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete lead: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(leadNotFoundMessage)
	}
	return nil
}

// ChangeStatus moves the lead in the pipeline and appends the audit record
// in the same transaction.
func (r *Repo) ChangeStatus(ctx context.Context, params ChangeStatusParams) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("begin change status: %w", err)
	}
	defer tx.Rollback(ctx)

	var oldStatusID uuid.UUID
	if err := tx.QueryRow(ctx, `SELECT status_id FROM leads WHERE id = $1 FOR UPDATE`, params.LeadID).Scan(&oldStatusID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		return domain.Lead{}, fmt.Errorf("lock lead for status change: %w", err)
	}

	if oldStatusID == params.NewStatusID {
		return domain.Lead{}, apperr.Conflict("lead already has this status")
	}

	lead, err := scanLead(tx.QueryRow(ctx,
		`UPDATE leads SET status_id = $2, updated_at = now() WHERE id = $1 RETURNING `+leadColumns,
		params.LeadID, params.NewStatusID,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.Lead{}, apperr.Validation("status does not exist")
		}
		return domain.Lead{}, fmt.Errorf("change lead status: %w", err)
	}

	if _, err := tx.Exec(ctx, `
		INSERT INTO status_changes (lead_id, old_status_id, new_status_id, date, created_by)
		VALUES ($1, $2, $3, now(), $4)`,
		params.LeadID, oldStatusID, params.NewStatusID, params.ChangedBy,
	); err != nil {
		return domain.Lead{}, fmt.Errorf("record status change: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, fmt.Errorf("commit change status: %w", err)
	}

	leads := []domain.Lead{lead}
	if err := r.attachRelations(ctx, leads); err != nil {
		return domain.Lead{}, err
	}
	return leads[0], nil
}

// Transfer reassigns the lead to another advisor and appends the audit note
// as a follow-up in the same transaction.
func (r *Repo) Transfer(ctx context.Context, params TransferParams) (domain.Lead, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return domain.Lead{}, fmt.Errorf("begin transfer: %w", err)
	}
	defer tx.Rollback(ctx)

	lead, err := scanLead(tx.QueryRow(ctx,
		`UPDATE leads SET advisor_id = $2, updated_at = now() WHERE id = $1 RETURNING `+leadColumns,
		params.LeadID, params.ToAdvisorID,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Lead{}, apperr.NotFound(leadNotFoundMessage)
		}
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23503" {
			return domain.Lead{}, apperr.Validation("advisor does not exist")
		}
		return domain.Lead{}, fmt.Errorf("transfer lead: %w", err)
	}

	if params.AuditNote != "" {
		if _, err := tx.Exec(ctx, `
			INSERT INTO follow_ups (lead_id, date, notes, created_by)
			VALUES ($1, now(), $2, $3)`,
			params.LeadID, params.AuditNote, params.TransferredBy,
		); err != nil {
			return domain.Lead{}, fmt.Errorf("record transfer note: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.Lead{}, fmt.Errorf("commit transfer: %w", err)
	}

	leads := []domain.Lead{lead}
	if err := r.attachRelations(ctx, leads); err != nil {
		return domain.Lead{}, err
	}
	return leads[0], nil
}

// ExistsByPhone reports whether a different lead already has the phone number.
func (r *Repo) ExistsByPhone(ctx context.Context, phone string, excludeID *uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM leads WHERE phone = $1 AND ($2::uuid IS NULL OR id <> $2))`,
		phone, excludeID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("check phone exists: %w", err)
	}
	return exists, nil
}

func scanLead(row pgx.Row) (domain.Lead, error) {
	var lead domain.Lead
	err := row.Scan(
		&lead.ID, &lead.FirstName, &lead.LastName, &lead.Email, &lead.Phone,
		&lead.ProgramID, &lead.StatusID, &lead.AdvisorID, &lead.SourceID,
		&lead.RegistrationDate, &lead.CreatedAt, &lead.UpdatedAt,
	)
	return lead, err
}

func collectLeads(rows pgx.Rows) ([]domain.Lead, error) {
	defer rows.Close()

	var leads []domain.Lead
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lead: %w", err)
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}
