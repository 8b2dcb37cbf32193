// Package ai generates advisor-facing lead insights with the Gemini API.
// The assistant reads the same lead aggregate the scoring engine consumes,
// so its advice always references the score the advisor actually sees.
package ai

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/apperr"
	"admissions_crm_backend/platform/logger"
)

// LeadSource loads a lead with ownership enforcement.
type LeadSource interface {
	GetOwned(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (domain.Lead, error)
}

// StatusSource provides the pipeline status catalog.
type StatusSource interface {
	ListStatuses(ctx context.Context) ([]domain.Status, error)
}

// Insight is a generated piece of advice for a lead.
type Insight struct {
	LeadID      uuid.UUID `json:"leadId"`
	Kind        string    `json:"kind"`
	Content     string    `json:"content"`
	GeneratedAt time.Time `json:"generatedAt"`
}

const (
	InsightSummary       = "summary"
	InsightFollowUpDraft = "follow_up_draft"
)

// Service orchestrates prompt construction and generation.
type Service struct {
	generator Generator
	leads     LeadSource
	statuses  StatusSource
	log       *logger.Logger
}

// New creates the AI service. A nil generator disables the assistant; calls
// then fail with a client error instead of reaching the API.
func New(generator Generator, leads LeadSource, statuses StatusSource, log *logger.Logger) *Service {
	return &Service{generator: generator, leads: leads, statuses: statuses, log: log}
}

// SummarizeLead generates a situation summary and next-step advice.
func (s *Service) SummarizeLead(ctx context.Context, leadID, actorID uuid.UUID, isAdmin bool) (Insight, error) {
	return s.generate(ctx, leadID, actorID, isAdmin, InsightSummary, buildSummaryPrompt)
}

// DraftFollowUp generates a ready-to-send follow-up message for a lead.
func (s *Service) DraftFollowUp(ctx context.Context, leadID, actorID uuid.UUID, isAdmin bool) (Insight, error) {
	return s.generate(ctx, leadID, actorID, isAdmin, InsightFollowUpDraft, buildFollowUpDraftPrompt)
}

func (s *Service) generate(ctx context.Context, leadID, actorID uuid.UUID, isAdmin bool, kind string, buildPrompt func(domain.Lead, []domain.Status, time.Time) string) (Insight, error) {
	if s.generator == nil {
		return Insight{}, apperr.BadRequest("AI assistant is not configured")
	}

	lead, err := s.leads.GetOwned(ctx, leadID, actorID, isAdmin)
	if err != nil {
		return Insight{}, err
	}
	statuses, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return Insight{}, err
	}

	now := time.Now()
	output, err := s.generator.Generate(ctx, buildPrompt(lead, statuses, now))
	if err != nil {
		s.log.Error("ai generation failed", "lead_id", leadID.String(), "kind", kind, "error", err.Error())
		return Insight{}, apperr.Wrap(apperr.KindInternal, "AI generation failed", err)
	}

	content := strings.TrimSpace(output)
	if content == "" {
		return Insight{}, apperr.Internal("AI returned an empty response")
	}

	return Insight{
		LeadID:      leadID,
		Kind:        kind,
		Content:     content,
		GeneratedAt: now,
	}, nil
}
