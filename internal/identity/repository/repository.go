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

	"admissions_crm_backend/platform/apperr"
)

const advisorNotFoundMessage = "advisor not found"

const advisorColumns = `id, email, password_hash, first_name, last_name, role, active, created_at, updated_at`

// Repo implements the advisor repository.
type Repo struct {
	pool *pgxpool.Pool
}

// New creates a new advisor repository.
func New(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

var _ Repository = (*Repo)(nil)

// GetByEmail retrieves an advisor by email, case-insensitively.
func (r *Repo) GetByEmail(ctx context.Context, email string) (Advisor, error) {
	query := `SELECT ` + advisorColumns + ` FROM advisors WHERE lower(email) = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, strings.ToLower(email)), "get advisor by email")
}

// GetByID retrieves an advisor by id.
func (r *Repo) GetByID(ctx context.Context, id uuid.UUID) (Advisor, error) {
	query := `SELECT ` + advisorColumns + ` FROM advisors WHERE id = $1`
	return r.scanOne(r.pool.QueryRow(ctx, query, id), "get advisor by id")
}

// List returns advisors ordered by name.
func (r *Repo) List(ctx context.Context, includeInactive bool) ([]Advisor, error) {
	query := `
		SELECT ` + advisorColumns + `
		FROM advisors
		WHERE $1 OR active
		ORDER BY first_name, last_name`

	rows, err := r.pool.Query(ctx, query, includeInactive)
	if err != nil {
		return nil, fmt.Errorf("list advisors: %w", err)
	}
	defer rows.Close()

	var advisors []Advisor
	for rows.Next() {
		advisor, err := scanAdvisor(rows)
		if err != nil {
			return nil, fmt.Errorf("scan advisor: %w", err)
		}
		advisors = append(advisors, advisor)
	}
	return advisors, rows.Err()
}

// Create inserts a new active advisor account.
func (r *Repo) Create(ctx context.Context, params CreateAdvisorParams) (Advisor, error) {
	query := `
		INSERT INTO advisors (email, password_hash, first_name, last_name, role, active)
		VALUES ($1, $2, $3, $4, $5, true)
		RETURNING ` + advisorColumns

	advisor, err := scanAdvisor(r.pool.QueryRow(ctx, query,
		strings.ToLower(params.Email), params.PasswordHash, params.FirstName, params.LastName, params.Role,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Advisor{}, apperr.Conflict("email already registered")
		}
		return Advisor{}, fmt.Errorf("create advisor: %w", err)
	}
	return advisor, nil
}

// Update patches profile fields, role and active flag.
func (r *Repo) Update(ctx context.Context, params UpdateAdvisorParams) (Advisor, error) {
	query := `
		UPDATE advisors
		SET first_name = COALESCE($2, first_name),
			last_name = COALESCE($3, last_name),
			role = COALESCE($4, role),
			active = COALESCE($5, active),
			updated_at = now()
		WHERE id = $1
		RETURNING ` + advisorColumns

	advisor, err := scanAdvisor(r.pool.QueryRow(ctx, query,
		params.ID, params.FirstName, params.LastName, params.Role, params.Active,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Advisor{}, apperr.NotFound(advisorNotFoundMessage)
		}
		return Advisor{}, fmt.Errorf("update advisor: %w", err)
	}
	return advisor, nil
}

// UpdatePassword replaces the stored password hash.
func (r *Repo) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE advisors SET password_hash = $2, updated_at = now() WHERE id = $1`,
		id, passwordHash,
	)
	if err != nil {
		return fmt.Errorf("update advisor password: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperr.NotFound(advisorNotFoundMessage)
	}
	return nil
}

func (r *Repo) scanOne(row pgx.Row, op string) (Advisor, error) {
	advisor, err := scanAdvisor(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Advisor{}, apperr.NotFound(advisorNotFoundMessage)
		}
		return Advisor{}, fmt.Errorf("%s: %w", op, err)
	}
	return advisor, nil
}

func scanAdvisor(row pgx.Row) (Advisor, error) {
	var advisor Advisor
	err := row.Scan(
		&advisor.ID, &advisor.Email, &advisor.PasswordHash,
		&advisor.FirstName, &advisor.LastName, &advisor.Role,
		&advisor.Active, &advisor.CreatedAt, &advisor.UpdatedAt,
	)
	return advisor, err
}
