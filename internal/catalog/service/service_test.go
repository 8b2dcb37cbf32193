package service

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/catalog/repository"
	"admissions_crm_backend/internal/catalog/transport"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
)

type fakeRepo struct {
	statuses map[uuid.UUID]domain.Status
	programs map[uuid.UUID]repository.Program
	sources  map[uuid.UUID]repository.Source

	lastStatusCreate repository.CreateStatusParams
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		statuses: make(map[uuid.UUID]domain.Status),
		programs: make(map[uuid.UUID]repository.Program),
		sources:  make(map[uuid.UUID]repository.Source),
	}
}

func (r *fakeRepo) ListStatuses(_ context.Context) ([]domain.Status, error) {
	var out []domain.Status
	for _, s := range r.statuses {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) GetStatusByID(_ context.Context, id uuid.UUID) (domain.Status, error) {
	s, ok := r.statuses[id]
	if !ok {
		return domain.Status{}, apperr.NotFound("status not found")
	}
	return s, nil
}

func (r *fakeRepo) CreateStatus(_ context.Context, params repository.CreateStatusParams) (domain.Status, error) {
	r.lastStatusCreate = params
	s := domain.Status{
		ID:       uuid.New(),
		Name:     params.Name,
		Color:    params.Color,
		Category: params.Category,
	}
	r.statuses[s.ID] = s
	return s, nil
}

func (r *fakeRepo) UpdateStatus(_ context.Context, params repository.UpdateStatusParams) (domain.Status, error) {
	s, ok := r.statuses[params.ID]
	if !ok {
		return domain.Status{}, apperr.NotFound("status not found")
	}
	if params.Name != nil {
		s.Name = *params.Name
	}
	if params.Color != nil {
		s.Color = *params.Color
	}
	if params.Category != nil {
		s.Category = *params.Category
	}
	r.statuses[s.ID] = s
	return s, nil
}

func (r *fakeRepo) DeleteStatus(_ context.Context, id uuid.UUID) error {
	if _, ok := r.statuses[id]; !ok {
		return apperr.NotFound("status not found")
	}
	delete(r.statuses, id)
	return nil
}

func (r *fakeRepo) ListPrograms(_ context.Context, includeInactive bool) ([]repository.Program, error) {
	var out []repository.Program
	for _, p := range r.programs {
		if !includeInactive && !p.Active {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (r *fakeRepo) CreateProgram(_ context.Context, name string) (repository.Program, error) {
	p := repository.Program{ID: uuid.New(), Name: name, Active: true}
	r.programs[p.ID] = p
	return p, nil
}

func (r *fakeRepo) UpdateProgram(_ context.Context, id uuid.UUID, name *string, active *bool) (repository.Program, error) {
	p, ok := r.programs[id]
	if !ok {
		return repository.Program{}, apperr.NotFound("program not found")
	}
	if name != nil {
		p.Name = *name
	}
	if active != nil {
		p.Active = *active
	}
	r.programs[id] = p
	return p, nil
}

func (r *fakeRepo) DeleteProgram(_ context.Context, id uuid.UUID) error {
	delete(r.programs, id)
	return nil
}

func (r *fakeRepo) ListSources(_ context.Context) ([]repository.Source, error) {
	var out []repository.Source
	for _, s := range r.sources {
		out = append(out, s)
	}
	return out, nil
}

func (r *fakeRepo) CreateSource(_ context.Context, name string) (repository.Source, error) {
	s := repository.Source{ID: uuid.New(), Name: name}
	r.sources[s.ID] = s
	return s, nil
}

func (r *fakeRepo) UpdateSource(_ context.Context, id uuid.UUID, name string) (repository.Source, error) {
	s, ok := r.sources[id]
	if !ok {
		return repository.Source{}, apperr.NotFound("source not found")
	}
	s.Name = name
	r.sources[id] = s
	return s, nil
}

func (r *fakeRepo) DeleteSource(_ context.Context, id uuid.UUID) error {
	delete(r.sources, id)
	return nil
}

func newTestService(repo *fakeRepo) *Service {
	return New(repo, logger.New("test"))
}

func TestCreateStatusRejectsUnknownCategory(t *testing.T) {
	svc := newTestService(newFakeRepo())

	_, err := svc.CreateStatus(context.Background(), transport.CreateStatusRequest{
		Name:     "Pendiente",
		Color:    "#ff0000",
		Category: "maybe",
	})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation (err: %v)", apperr.GetKind(err), err)
	}
}

func TestCreateStatusSanitizesName(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	status, err := svc.CreateStatus(context.Background(), transport.CreateStatusRequest{
		Name:     "  En seguimiento  ",
		Color:    "#3b82f6",
		Category: string(domain.CategoryActive),
	})
	if err != nil {
		t.Fatalf("CreateStatus: %v", err)
	}
	if status.Name != "En seguimiento" {
		t.Errorf("Name = %q, want %q", status.Name, "En seguimiento")
	}
	if repo.lastStatusCreate.Category != domain.CategoryActive {
		t.Errorf("Category = %q, want %q", repo.lastStatusCreate.Category, domain.CategoryActive)
	}
}

func TestUpdateStatusRejectsUnknownCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	status, err := svc.CreateStatus(context.Background(), transport.CreateStatusRequest{
		Name:     "Nuevo",
		Color:    "#3b82f6",
		Category: string(domain.CategoryActive),
	})
	if err != nil {
		t.Fatalf("CreateStatus: %v", err)
	}

	bad := "archived"
	_, err = svc.UpdateStatus(context.Background(), status.ID, transport.UpdateStatusRequest{Category: &bad})
	if apperr.GetKind(err) != apperr.KindValidation {
		t.Fatalf("kind = %v, want validation (err: %v)", apperr.GetKind(err), err)
	}
}

func TestUpdateStatusChangesCategory(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	status, err := svc.CreateStatus(context.Background(), transport.CreateStatusRequest{
		Name:     "Inscrito",
		Color:    "#22c55e",
		Category: string(domain.CategoryActive),
	})
	if err != nil {
		t.Fatalf("CreateStatus: %v", err)
	}

	won := string(domain.CategoryWon)
	updated, err := svc.UpdateStatus(context.Background(), status.ID, transport.UpdateStatusRequest{Category: &won})
	if err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}
	if updated.Category != domain.CategoryWon {
		t.Errorf("Category = %q, want %q", updated.Category, domain.CategoryWon)
	}
}

func TestProgramsFilterInactive(t *testing.T) {
	repo := newFakeRepo()
	svc := newTestService(repo)

	program, err := svc.CreateProgram(context.Background(), "Ingenieria en Sistemas")
	if err != nil {
		t.Fatalf("CreateProgram: %v", err)
	}

	inactive := false
	if _, err := svc.UpdateProgram(context.Background(), program.ID, transport.UpdateProgramRequest{Active: &inactive}); err != nil {
		t.Fatalf("UpdateProgram: %v", err)
	}

	visible, err := svc.ListPrograms(context.Background(), false)
	if err != nil {
		t.Fatalf("ListPrograms: %v", err)
	}
	if len(visible) != 0 {
		t.Errorf("visible programs = %d, want 0", len(visible))
	}

	all, err := svc.ListPrograms(context.Background(), true)
	if err != nil {
		t.Fatalf("ListPrograms: %v", err)
	}
	if len(all) != 1 {
		t.Errorf("all programs = %d, want 1", len(all))
	}
}

func TestSourceNameIsSanitized(t *testing.T) {
	svc := newTestService(newFakeRepo())

	source, err := svc.CreateSource(context.Background(), "  Feria universitaria ")
	if err != nil {
		t.Fatalf("CreateSource: %v", err)
	}
	if source.Name != "Feria universitaria" {
		t.Errorf("Name = %q, want %q", source.Name, "Feria universitaria")
	}
}
