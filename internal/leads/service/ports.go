package service

import (
	"context"

	"admissions_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// StatusCatalog supplies the status catalog consulted by scoring, urgency
// classification and category filtering.
type StatusCatalog interface {
	ListStatuses(ctx context.Context) ([]domain.Status, error)
}

// AdvisorInfo is the minimal advisor projection the leads module needs for
// transfer audit notes and visibility checks.
type AdvisorInfo struct {
	ID       uuid.UUID
	FullName string
	Active   bool
}

// AdvisorDirectory resolves advisors from the identity module.
type AdvisorDirectory interface {
	GetAdvisorInfo(ctx context.Context, id uuid.UUID) (AdvisorInfo, error)
}
