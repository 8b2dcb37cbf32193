// Package service contains the catalog business logic.
package service

import (
	"context"

	"admissions_crm_backend/internal/catalog/repository"
	"admissions_crm_backend/internal/catalog/transport"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Service implements catalog use cases over the repository.
type Service struct {
	repo repository.Repository
	log  *logger.Logger
}

// New creates a new catalog service.
func New(repo repository.Repository, log *logger.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// ListStatuses returns the status catalog in display order.
func (s *Service) ListStatuses(ctx context.Context) ([]domain.Status, error) {
	return s.repo.ListStatuses(ctx)
}

// GetStatusByID retrieves a single status.
func (s *Service) GetStatusByID(ctx context.Context, id uuid.UUID) (domain.Status, error) {
	return s.repo.GetStatusByID(ctx, id)
}

// CreateStatus adds a status to the pipeline catalog.
func (s *Service) CreateStatus(ctx context.Context, req transport.CreateStatusRequest) (domain.Status, error) {
	category := domain.Category(req.Category)
	if !category.Valid() {
		return domain.Status{}, apperr.Validation("category must be one of: active, won, lost")
	}

	status, err := s.repo.CreateStatus(ctx, repository.CreateStatusParams{
		Name:     sanitize.Text(req.Name),
		Color:    req.Color,
		Category: category,
	})
	if err != nil {
		return domain.Status{}, err
	}

	s.log.Info("status created", "statusId", status.ID, "name", status.Name, "category", status.Category)
	return status, nil
}

// UpdateStatus patches a catalog status.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, req transport.UpdateStatusRequest) (domain.Status, error) {
	params := repository.UpdateStatusParams{ID: id, Color: req.Color}
	if req.Name != nil {
		name := sanitize.Text(*req.Name)
		params.Name = &name
	}
	if req.Category != nil {
		category := domain.Category(*req.Category)
		if !category.Valid() {
			return domain.Status{}, apperr.Validation("category must be one of: active, won, lost")
		}
		params.Category = &category
	}
	return s.repo.UpdateStatus(ctx, params)
}

// DeleteStatus removes a catalog status.
func (s *Service) DeleteStatus(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteStatus(ctx, id); err != nil {
		return err
	}
	s.log.Info("status deleted", "statusId", id)
	return nil
}

// ListPrograms returns academic programs.
func (s *Service) ListPrograms(ctx context.Context, includeInactive bool) ([]repository.Program, error) {
	return s.repo.ListPrograms(ctx, includeInactive)
}

// CreateProgram adds an academic program.
func (s *Service) CreateProgram(ctx context.Context, name string) (repository.Program, error) {
	return s.repo.CreateProgram(ctx, sanitize.Text(name))
}

// UpdateProgram patches a program's name or active flag.
func (s *Service) UpdateProgram(ctx context.Context, id uuid.UUID, req transport.UpdateProgramRequest) (repository.Program, error) {
	var name *string
	if req.Name != nil {
		cleaned := sanitize.Text(*req.Name)
		name = &cleaned
	}
	return s.repo.UpdateProgram(ctx, id, name, req.Active)
}

// DeleteProgram removes a program.
func (s *Service) DeleteProgram(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteProgram(ctx, id)
}

// ListSources returns lead acquisition channels.
func (s *Service) ListSources(ctx context.Context) ([]repository.Source, error) {
	return s.repo.ListSources(ctx)
}

// CreateSource adds an acquisition channel.
func (s *Service) CreateSource(ctx context.Context, name string) (repository.Source, error) {
	return s.repo.CreateSource(ctx, sanitize.Text(name))
}

// UpdateSource renames an acquisition channel.
func (s *Service) UpdateSource(ctx context.Context, id uuid.UUID, name string) (repository.Source, error) {
	return s.repo.UpdateSource(ctx, id, sanitize.Text(name))
}

// DeleteSource removes an acquisition channel.
func (s *Service) DeleteSource(ctx context.Context, id uuid.UUID) error {
	return s.repo.DeleteSource(ctx, id)
}
