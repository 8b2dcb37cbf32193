package ai

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
)

type fakeGenerator struct {
	output     string
	err        error
	lastPrompt string
}

func (g *fakeGenerator) Generate(_ context.Context, prompt string) (string, error) {
	g.lastPrompt = prompt
	return g.output, g.err
}

type fakeLeadSource struct {
	lead domain.Lead
}

func (f *fakeLeadSource) GetOwned(_ context.Context, id, actorID uuid.UUID, isAdmin bool) (domain.Lead, error) {
	if f.lead.ID != id {
		return domain.Lead{}, apperr.NotFound("lead not found")
	}
	if !isAdmin && f.lead.AdvisorID != actorID {
		return domain.Lead{}, apperr.Forbidden("lead belongs to another advisor")
	}
	return f.lead, nil
}

type fakeStatusSource struct {
	statuses []domain.Status
}

func (f *fakeStatusSource) ListStatuses(_ context.Context) ([]domain.Status, error) {
	return f.statuses, nil
}

func testLead(advisorID uuid.UUID, statusID uuid.UUID) domain.Lead {
	email := "maria@example.com"
	return domain.Lead{
		ID:               uuid.New(),
		FirstName:        "Maria",
		LastName:         "Lopez",
		Email:            &email,
		Phone:            "+525512345678",
		StatusID:         statusID,
		AdvisorID:        advisorID,
		RegistrationDate: time.Now().Add(-72 * time.Hour),
		FollowUps: []domain.FollowUp{
			{ID: uuid.New(), Date: time.Now().Add(-24 * time.Hour), Notes: "Pidio informacion de colegiaturas"},
		},
	}
}

func TestSummarizeLeadBuildsPromptFromLead(t *testing.T) {
	status := domain.Status{ID: uuid.New(), Name: "En seguimiento", Category: domain.CategoryActive}
	advisorID := uuid.New()
	lead := testLead(advisorID, status.ID)

	gen := &fakeGenerator{output: "  Resumen del lead.  "}
	svc := New(gen, &fakeLeadSource{lead: lead}, &fakeStatusSource{statuses: []domain.Status{status}}, logger.New("test"))

	insight, err := svc.SummarizeLead(context.Background(), lead.ID, advisorID, false)
	if err != nil {
		t.Fatalf("SummarizeLead: %v", err)
	}
	if insight.Kind != InsightSummary {
		t.Errorf("Kind = %q, want %q", insight.Kind, InsightSummary)
	}
	if insight.Content != "Resumen del lead." {
		t.Errorf("Content = %q, want trimmed generator output", insight.Content)
	}
	if !strings.Contains(gen.lastPrompt, "Maria Lopez") {
		t.Errorf("prompt missing lead name:\n%s", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastPrompt, "En seguimiento") {
		t.Errorf("prompt missing status name:\n%s", gen.lastPrompt)
	}
	if !strings.Contains(gen.lastPrompt, "Pidio informacion de colegiaturas") {
		t.Errorf("prompt missing follow-up note:\n%s", gen.lastPrompt)
	}
}

func TestDraftFollowUpKind(t *testing.T) {
	status := domain.Status{ID: uuid.New(), Name: "Contactado", Category: domain.CategoryActive}
	advisorID := uuid.New()
	lead := testLead(advisorID, status.ID)

	svc := New(&fakeGenerator{output: "Hola Maria"}, &fakeLeadSource{lead: lead}, &fakeStatusSource{statuses: []domain.Status{status}}, logger.New("test"))

	insight, err := svc.DraftFollowUp(context.Background(), lead.ID, advisorID, false)
	if err != nil {
		t.Fatalf("DraftFollowUp: %v", err)
	}
	if insight.Kind != InsightFollowUpDraft {
		t.Errorf("Kind = %q, want %q", insight.Kind, InsightFollowUpDraft)
	}
}

func TestGenerateWithoutGeneratorFails(t *testing.T) {
	advisorID := uuid.New()
	lead := testLead(advisorID, uuid.New())
	svc := New(nil, &fakeLeadSource{lead: lead}, &fakeStatusSource{}, logger.New("test"))

	_, err := svc.SummarizeLead(context.Background(), lead.ID, advisorID, false)
	if apperr.GetKind(err) != apperr.KindBadRequest {
		t.Fatalf("kind = %v, want bad request (err: %v)", apperr.GetKind(err), err)
	}
}

func TestGenerateEnforcesOwnership(t *testing.T) {
	lead := testLead(uuid.New(), uuid.New())
	gen := &fakeGenerator{output: "texto"}
	svc := New(gen, &fakeLeadSource{lead: lead}, &fakeStatusSource{}, logger.New("test"))

	_, err := svc.SummarizeLead(context.Background(), lead.ID, uuid.New(), false)
	if apperr.GetKind(err) != apperr.KindForbidden {
		t.Fatalf("kind = %v, want forbidden (err: %v)", apperr.GetKind(err), err)
	}
	if gen.lastPrompt != "" {
		t.Error("generator called for a lead the actor does not own")
	}

	if _, err := svc.SummarizeLead(context.Background(), lead.ID, uuid.New(), true); err != nil {
		t.Fatalf("admin access: %v", err)
	}
}

func TestGenerateWrapsGeneratorError(t *testing.T) {
	advisorID := uuid.New()
	lead := testLead(advisorID, uuid.New())
	svc := New(&fakeGenerator{err: errors.New("quota exceeded")}, &fakeLeadSource{lead: lead}, &fakeStatusSource{}, logger.New("test"))

	_, err := svc.SummarizeLead(context.Background(), lead.ID, advisorID, false)
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("kind = %v, want internal (err: %v)", apperr.GetKind(err), err)
	}
}

func TestGenerateRejectsEmptyOutput(t *testing.T) {
	advisorID := uuid.New()
	lead := testLead(advisorID, uuid.New())
	svc := New(&fakeGenerator{output: "   \n"}, &fakeLeadSource{lead: lead}, &fakeStatusSource{}, logger.New("test"))

	_, err := svc.SummarizeLead(context.Background(), lead.ID, advisorID, false)
	if apperr.GetKind(err) != apperr.KindInternal {
		t.Fatalf("kind = %v, want internal (err: %v)", apperr.GetKind(err), err)
	}
}
