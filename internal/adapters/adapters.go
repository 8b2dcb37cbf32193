// Package adapters bridges cross-module ports so bounded contexts only
// depend on their own interfaces, never on each other's services directly.
package adapters

import (
	"context"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/dashboard"
	identityservice "admissions_crm_backend/internal/identity/service"
	leadsservice "admissions_crm_backend/internal/leads/service"
	"admissions_crm_backend/internal/messaging"
)

// AdvisorDirectoryAdapter exposes identity advisors to the leads module.
type AdvisorDirectoryAdapter struct {
	identity *identityservice.Service
}

func NewAdvisorDirectoryAdapter(identity *identityservice.Service) *AdvisorDirectoryAdapter {
	return &AdvisorDirectoryAdapter{identity: identity}
}

var _ leadsservice.AdvisorDirectory = (*AdvisorDirectoryAdapter)(nil)

func (a *AdvisorDirectoryAdapter) GetAdvisorInfo(ctx context.Context, id uuid.UUID) (leadsservice.AdvisorInfo, error) {
	advisor, err := a.identity.GetAdvisor(ctx, id)
	if err != nil {
		return leadsservice.AdvisorInfo{}, err
	}
	return leadsservice.AdvisorInfo{
		ID:       advisor.ID,
		FullName: advisor.FullName(),
		Active:   advisor.Active,
	}, nil
}

var _ messaging.AdvisorNames = (*AdvisorDirectoryAdapter)(nil)

// GetAdvisorName resolves an advisor's display name for message placeholders.
func (a *AdvisorDirectoryAdapter) GetAdvisorName(ctx context.Context, id uuid.UUID) (string, error) {
	advisor, err := a.identity.GetAdvisor(ctx, id)
	if err != nil {
		return "", err
	}
	return advisor.FullName(), nil
}

// DashboardAdvisorAdapter exposes identity advisors to the dashboard module.
type DashboardAdvisorAdapter struct {
	identity *identityservice.Service
}

func NewDashboardAdvisorAdapter(identity *identityservice.Service) *DashboardAdvisorAdapter {
	return &DashboardAdvisorAdapter{identity: identity}
}

var _ dashboard.AdvisorSource = (*DashboardAdvisorAdapter)(nil)

func (a *DashboardAdvisorAdapter) ListAdvisors(ctx context.Context) ([]dashboard.Advisor, error) {
	advisors, err := a.identity.ListActiveAdvisors(ctx)
	if err != nil {
		return nil, err
	}

	result := make([]dashboard.Advisor, 0, len(advisors))
	for _, advisor := range advisors {
		result = append(result, dashboard.Advisor{ID: advisor.ID, FullName: advisor.FullName()})
	}
	return result, nil
}
