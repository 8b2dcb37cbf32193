package repository

import (
	"context"
	"time"

	"admissions_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Program is an academic program leads can be interested in.
type Program struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Source is a lead acquisition channel.
type Source struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type CreateStatusParams struct {
	Name     string
	Color    string
	Category domain.Category
}

type UpdateStatusParams struct {
	ID       uuid.UUID
	Name     *string
	Color    *string
	Category *domain.Category
}

// Repository defines persistence for the pipeline catalogs.
type Repository interface {
	ListStatuses(ctx context.Context) ([]domain.Status, error)
	GetStatusByID(ctx context.Context, id uuid.UUID) (domain.Status, error)
	CreateStatus(ctx context.Context, params CreateStatusParams) (domain.Status, error)
	UpdateStatus(ctx context.Context, params UpdateStatusParams) (domain.Status, error)
	DeleteStatus(ctx context.Context, id uuid.UUID) error

	ListPrograms(ctx context.Context, includeInactive bool) ([]Program, error)
	CreateProgram(ctx context.Context, name string) (Program, error)
	UpdateProgram(ctx context.Context, id uuid.UUID, name *string, active *bool) (Program, error)
	DeleteProgram(ctx context.Context, id uuid.UUID) error

	ListSources(ctx context.Context) ([]Source, error)
	CreateSource(ctx context.Context, name string) (Source, error)
	UpdateSource(ctx context.Context, id uuid.UUID, name string) (Source, error)
	DeleteSource(ctx context.Context, id uuid.UUID) error
}
