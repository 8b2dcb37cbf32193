package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
)

const (
	statusNotFoundMessage  = "status not found"
	programNotFoundMessage = "program not found"
	sourceNotFoundMessage  = "source not found"

	pgForeignKeyViolation = "23503"
	pgUniqueViolation     = "23505"
)

// Repo implements the catalog repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new catalog repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Compile-time check that Repo implements Repository.
var _ Repository = (*Repo)(nil)

// ListStatuses returns all pipeline statuses in display order.
func (r *Repo) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	query := `
		SELECT id, name, color, category
		FROM lead_statuses
		ORDER BY display_order, name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list statuses: %w", err)
	}
	defer rows.Close()

	var statuses []domain.Status
	for rows.Next() {
		var status domain.Status
		if err := rows.Scan(&status.ID, &status.Name, &status.Color, &status.Category); err != nil {
			return nil, fmt.Errorf("scan status: %w", err)
		}
		statuses = append(statuses, status)
	}
	return statuses, rows.Err()
}

// GetStatusByID retrieves a single status.
func (r *Repo) GetStatusByID(ctx context.Context, id uuid.UUID) (domain.Status, error) {
	query := `SELECT id, name, color, category FROM lead_statuses WHERE id = $1`

	var status domain.Status
	if err := r.pool.QueryRow(ctx, query, id).Scan(&status.ID, &status.Name, &status.Color, &status.Category); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Status{}, apperr.NotFound(statusNotFoundMessage)
		}
		return domain.Status{}, fmt.Errorf("get status by id: %w", err)
	}
	return status, nil
}

// CreateStatus appends a status at the end of the display order.
func (r *Repo) CreateStatus(ctx context.Context, params CreateStatusParams) (domain.Status, error) {
	query := `
		INSERT INTO lead_statuses (name, color, category, display_order)
		VALUES ($1, $2, $3, (SELECT COALESCE(MAX(display_order), 0) + 1 FROM lead_statuses))
		RETURNING id, name, color, category`

	var status domain.Status
	if err := r.pool.QueryRow(ctx, query, params.Name, params.Color, params.Category).Scan(
		&status.ID, &status.Name, &status.Color, &status.Category,
	); err != nil {
		if isPgError(err, pgUniqueViolation) {
			return domain.Status{}, apperr.Conflict("status name already exists")
		}
		return domain.Status{}, fmt.Errorf("create status: %w", err)
	}
	return status, nil
}

// UpdateStatus patches the given fields.
func (r *Repo) UpdateStatus(ctx context.Context, params UpdateStatusParams) (domain.Status, error) {
	query := `
		UPDATE lead_statuses
		SET name = COALESCE($2, name),
			color = COALESCE($3, color),
			category = COALESCE($4, category),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, color, category`

	var status domain.Status
	if err := r.pool.QueryRow(ctx, query, params.ID, params.Name, params.Color, params.Category).Scan(
		&status.ID, &status.Name, &status.Color, &status.Category,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Status{}, apperr.NotFound(statusNotFoundMessage)
		}
		if isPgError(err, pgUniqueViolation) {
			return domain.Status{}, apperr.Conflict("status name already exists")
		}
		return domain.Status{}, fmt.Errorf("update status: %w", err)
	}
	return status, nil
}

// DeleteStatus removes a status. Statuses referenced by leads are protected
// by a foreign key and surface as a conflict.
func (r *Repo) DeleteStatus(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM lead_statuses WHERE id = $1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return apperr.Conflict("status is in use by existing leads")
		}
		return fmt.Errorf("delete status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(statusNotFoundMessage)
	}
	return nil
}

// ListPrograms returns academic programs, optionally including inactive ones.
func (r *Repo) ListPrograms(ctx context.Context, includeInactive bool) ([]Program, error) {
	query := `
		SELECT id, name, active, created_at, updated_at
		FROM programs
		WHERE $1 OR active
		ORDER BY name`

	rows, err := r.pool.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list programs: %w", err)
	}
	defer rows.Close()

	var programs []Program
	for rows.Next() {
		program, err := scanProgram(rows)
		if err != nil {
			return nil, err
		}
		programs = append(programs, program)
	}
	return programs, rows.Err()
}

// CreateProgram creates an active program.
func (r *Repo) CreateProgram(ctx context.Context, name string) (Program, error) {
	query := `
		INSERT INTO programs (name, active)
		VALUES ($1, true)
		RETURNING id, name, active, created_at, updated_at`

	program, err := scanProgram(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return Program{}, apperr.Conflict("program name already exists")
		}
		return Program{}, fmt.Errorf("create program: %w", err)
	}
	return program, nil
}

// UpdateProgram patches name and/or active flag.
func (r *Repo) UpdateProgram(ctx context.Context, id uuid.UUID, name *string, active *bool) (Program, error) {
	query := `
		UPDATE programs
		SET name = COALESCE($2, name),
			active = COALESCE($3, active),
			updated_at = now()
		WHERE id = $1
		RETURNING id, name, active, created_at, updated_at`

	program, err := scanProgram(r.pool.QueryRow(ctx, query, id, name, active))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Program{}, apperr.NotFound(programNotFoundMessage)
		}
		if isPgError(err, pgUniqueViolation) {
			return Program{}, apperr.Conflict("program name already exists")
		}
		return Program{}, fmt.Errorf("update program: %w", err)
	}
	return program, nil
}

// DeleteProgram removes a program unless leads reference it.
func (r *Repo) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM programs WHERE id = $1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return apperr.Conflict("program is in use by existing leads")
		}
		return fmt.Errorf("delete program: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(programNotFoundMessage)
	}
	return nil
}

// ListSources returns lead acquisition channels.
func (r *Repo) ListSources(ctx context.Context) ([]Source, error) {
	query := `SELECT id, name, created_at, updated_at FROM lead_sources ORDER BY name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list sources: %w", err)
	}
	defer rows.Close()

	var sources []Source
	for rows.Next() {
		source, err := scanSource(rows)
		if err != nil {
			return nil, err
		}
		sources = append(sources, source)
	}
	return sources, rows.Err()
}

// CreateSource creates a source.
func (r *Repo) CreateSource(ctx context.Context, name string) (Source, error) {
	query := `
		INSERT INTO lead_sources (name)
		VALUES ($1)
		RETURNING id, name, created_at, updated_at`

	source, err := scanSource(r.pool.QueryRow(ctx, query, name))
	if err != nil {
		if isPgError(err, pgUniqueViolation) {
			return Source{}, apperr.Conflict("source name already exists")
		}
		return Source{}, fmt.Errorf("create source: %w", err)
	}
	return source, nil
}

// UpdateSource renames a source.
func (r *Repo) UpdateSource(ctx context.Context, id uuid.UUID, name string) (Source, error) {
	query := `
		UPDATE lead_sources
		SET name = $2, updated_at = now()
		WHERE id = $1
		RETURNING id, name, created_at, updated_at`

	source, err := scanSource(r.pool.QueryRow(ctx, query, id, name))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Source{}, apperr.NotFound(sourceNotFoundMessage)
		}
		if isPgError(err, pgUniqueViolation) {
			return Source{}, apperr.Conflict("source name already exists")
		}
		return Source{}, fmt.Errorf("update source: %w", err)
	}
	return source, nil
}

// DeleteSource removes a source unless leads reference it.
func (r *Repo) DeleteSource(ctx context.Context, id uuid.UUID) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM lead_sources WHERE id = $1`, id)
	if err != nil {
		if isPgError(err, pgForeignKeyViolation) {
			return apperr.Conflict("source is in use by existing leads")
		}
		return fmt.Errorf("delete source: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(sourceNotFoundMessage)
	}
	return nil
}

func scanProgram(row pgx.Row) (Program, error) {
	var program Program
	if err := row.Scan(&program.ID, &program.Name, &program.Active, &program.CreatedAt, &program.UpdatedAt); err != nil {
		return Program{}, err
	}
	return program, nil
}

func scanSource(row pgx.Row) (Source, error) {
	var source Source
	if err := row.Scan(&source.ID, &source.Name, &source.CreatedAt, &source.UpdatedAt); err != nil {
		return Source{}, err
	}
	return source, nil
}

func isPgError(err error, code string) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == code
}
