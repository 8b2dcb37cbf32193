package dashboard

import (
	"context"
	"time"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/logger"

	"github.com/google/uuid"
)

// LeadSource supplies the lead snapshot scoped to the caller's visibility.
type LeadSource interface {
	ListVisibleLeads(ctx context.Context, advisorID uuid.UUID, isAdmin bool) ([]domain.Lead, error)
}

// StatusSource supplies the status catalog.
type StatusSource interface {
	ListStatuses(ctx context.Context) ([]domain.Status, error)
}

// AdvisorSource supplies the advisor catalog.
type AdvisorSource interface {
	ListAdvisors(ctx context.Context) ([]Advisor, error)
}

// Service computes (and memoizes) dashboard metrics over the caller's
// visible leads.
type Service struct {
	leads    LeadSource
	statuses StatusSource
	advisors AdvisorSource
	cache    *Cache
	log      *logger.Logger
}

// New creates a dashboard service. cache may be nil to disable memoization.
func New(leads LeadSource, statuses StatusSource, advisors AdvisorSource, cache *Cache, log *logger.Logger) *Service {
	return &Service{
		leads:    leads,
		statuses: statuses,
		advisors: advisors,
		cache:    cache,
		log:      log,
	}
}

// Metrics returns the dashboard metrics for the caller's visible leads.
func (s *Service) Metrics(ctx context.Context, advisorID uuid.UUID, isAdmin bool) (Metrics, error) {
	leads, statuses, advisors, err := s.snapshot(ctx, advisorID, isAdmin)
	if err != nil {
		return Metrics{}, err
	}

	now := time.Now()
	key := SnapshotKey(leads, statuses, advisors, now)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached, nil
	}

	metrics := Compute(leads, statuses, advisors, now)
	s.cache.Set(ctx, key, metrics)
	return metrics, nil
}

// QuickFilterLeadIDs returns the ids of visible leads matching the filter.
// The surrounding list endpoint uses the ids to narrow its fetch.
func (s *Service) QuickFilterLeadIDs(ctx context.Context, advisorID uuid.UUID, isAdmin bool, filter QuickFilter) ([]uuid.UUID, error) {
	leads, err := s.leads.ListVisibleLeads(ctx, advisorID, isAdmin)
	if err != nil {
		return nil, err
	}
	statuses, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ids := make([]uuid.UUID, 0, len(leads))
	for _, lead := range filter.Filter(leads, statuses, now) {
		ids = append(ids, lead.ID)
	}
	return ids, nil
}

func (s *Service) snapshot(ctx context.Context, advisorID uuid.UUID, isAdmin bool) ([]domain.Lead, []domain.Status, []Advisor, error) {
	leads, err := s.leads.ListVisibleLeads(ctx, advisorID, isAdmin)
	if err != nil {
		return nil, nil, nil, err
	}
	statuses, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	advisors, err := s.advisors.ListAdvisors(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return leads, statuses, advisors, nil
}
