package messaging

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"admissions_crm_backend/internal/events"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/logger"
)

const sendWorkers = 4

// LeadSource resolves leads on the caller's behalf, enforcing ownership.
type LeadSource interface {
	GetOwned(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (domain.Lead, error)
}

// AdvisorNames resolves advisor display names for placeholders.
type AdvisorNames interface {
	GetAdvisorName(ctx context.Context, id uuid.UUID) (string, error)
}

// SendFailure describes one lead that could not be messaged.
type SendFailure struct {
	LeadID  uuid.UUID `json:"leadId"`
	Message string    `json:"message"`
}

// BulkResult summarizes a bulk send.
type BulkResult struct {
	Sent     int           `json:"sent"`
	Skipped  int           `json:"skipped"`
	Failures []SendFailure `json:"failures"`
}

// Service sends templated messages to batches of leads.
type Service struct {
	templates []Template
	sender    Sender
	leads     LeadSource
	advisors  AdvisorNames
	log       *logger.Logger
}

// New creates a new messaging service.
func New(templates []Template, sender Sender, leads LeadSource, advisors AdvisorNames, log *logger.Logger) *Service {
	return &Service{templates: templates, sender: sender, leads: leads, advisors: advisors, log: log}
}

// Templates returns the template catalog.
func (s *Service) Templates() []Template {
	return s.templates
}

// BulkSend renders the template per lead and delivers concurrently. Leads
// without an email address are skipped, not failed.
func (s *Service) BulkSend(ctx context.Context, templateKey string, leadIDs []uuid.UUID, actorID uuid.UUID, isAdmin bool) (BulkResult, error) {
	template, err := findTemplate(s.templates, templateKey)
	if err != nil {
		return BulkResult{}, err
	}

	var mu sync.Mutex
	result := BulkResult{Failures: []SendFailure{}}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(sendWorkers)

	for _, leadID := range leadIDs {
		group.Go(func() error {
			outcome := s.sendOne(groupCtx, template, leadID, actorID, isAdmin)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case outcome == nil:
				result.Sent++
			case outcome.skipped:
				result.Skipped++
			default:
				result.Failures = append(result.Failures, SendFailure{LeadID: leadID, Message: outcome.message})
			}
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return BulkResult{}, err
	}

	s.log.Info("bulk message finished",
		"template", templateKey, "sent", result.Sent,
		"skipped", result.Skipped, "failed", len(result.Failures))
	return result, nil
}

const welcomeTemplateKey = "welcome"

// SubscribeWelcome registers a handler that emails the welcome template to
// newly created leads. Leads without an email address, or a catalog without
// a welcome template, skip quietly.
func (s *Service) SubscribeWelcome(bus events.Bus) {
	bus.Subscribe(events.LeadCreated{}.EventName(), events.HandlerFunc(func(ctx context.Context, event events.Event) error {
		created, ok := event.(events.LeadCreated)
		if !ok {
			return nil
		}
		return s.sendWelcome(ctx, created)
	}))
}

func (s *Service) sendWelcome(ctx context.Context, created events.LeadCreated) error {
	if created.Email == nil || *created.Email == "" {
		return nil
	}
	template, err := findTemplate(s.templates, welcomeTemplateKey)
	if err != nil {
		return nil
	}

	advisorName, err := s.advisors.GetAdvisorName(ctx, created.AdvisorID)
	if err != nil {
		advisorName = ""
	}

	first, last := splitFullName(created.FullName)
	subject, body := template.Render(Placeholders{
		FirstName:   first,
		LastName:    last,
		FullName:    created.FullName,
		AdvisorName: advisorName,
	})

	if err := s.sender.Send(ctx, *created.Email, subject, body); err != nil {
		return fmt.Errorf("send welcome to lead %s: %w", created.LeadID, err)
	}
	s.log.Info("welcome message sent", "leadId", created.LeadID)
	return nil
}

func splitFullName(full string) (string, string) {
	first, last, found := strings.Cut(full, " ")
	if !found {
		return full, ""
	}
	return first, last
}

type sendOutcome struct {
	skipped bool
	message string
}

func (s *Service) sendOne(ctx context.Context, template Template, leadID, actorID uuid.UUID, isAdmin bool) *sendOutcome {
	lead, err := s.leads.GetOwned(ctx, leadID, actorID, isAdmin)
	if err != nil {
		return &sendOutcome{message: err.Error()}
	}
	if lead.Email == nil || *lead.Email == "" {
		return &sendOutcome{skipped: true}
	}

	advisorName, err := s.advisors.GetAdvisorName(ctx, lead.AdvisorID)
	if err != nil {
		advisorName = ""
	}

	subject, body := template.Render(Placeholders{
		FirstName:   lead.FirstName,
		LastName:    lead.LastName,
		FullName:    lead.FullName(),
		AdvisorName: advisorName,
	})

	if err := s.sender.Send(ctx, *lead.Email, subject, body); err != nil {
		return &sendOutcome{message: err.Error()}
	}
	return nil
}
