// Package exports streams lead data out of the system as CSV.
package exports

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/internal/leads/scoring"
	"admissions_crm_backend/platform/logger"
)

// LeadSource lists every lead visible to the requesting advisor.
type LeadSource interface {
	ListVisibleLeads(ctx context.Context, advisorID uuid.UUID, isAdmin bool) ([]domain.Lead, error)
}

// StatusSource provides the pipeline status catalog.
type StatusSource interface {
	ListStatuses(ctx context.Context) ([]domain.Status, error)
}

var csvHeader = []string{
	"id",
	"first_name",
	"last_name",
	"email",
	"phone",
	"status",
	"category",
	"registration_date",
	"score",
	"score_label",
	"urgency",
	"follow_ups",
	"last_interaction",
}

// Service renders lead exports.
type Service struct {
	leads    LeadSource
	statuses StatusSource
	log      *logger.Logger
}

// New creates a new exports service.
func New(leads LeadSource, statuses StatusSource, log *logger.Logger) *Service {
	return &Service{leads: leads, statuses: statuses, log: log}
}

// WriteLeadsCSV streams the advisor's visible leads to w as CSV, one row per
// lead, scored at the current instant. Rows are written as they are encoded,
// so large exports do not buffer in memory.
func (s *Service) WriteLeadsCSV(ctx context.Context, w io.Writer, advisorID uuid.UUID, isAdmin bool) error {
	leads, err := s.leads.ListVisibleLeads(ctx, advisorID, isAdmin)
	if err != nil {
		return err
	}
	statuses, err := s.statuses.ListStatuses(ctx)
	if err != nil {
		return err
	}

	now := time.Now()
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, lead := range leads {
		if err := cw.Write(leadRow(lead, statuses, now)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func leadRow(lead domain.Lead, statuses []domain.Status, now time.Time) []string {
	email := ""
	if lead.Email != nil {
		email = *lead.Email
	}

	name := ""
	category := domain.CategoryActive
	for _, status := range statuses {
		if status.ID == lead.StatusID {
			name = status.Name
			category = status.Category
			break
		}
	}

	score := scoring.CalculateAt(lead, statuses, now)

	return []string{
		lead.ID.String(),
		lead.FirstName,
		lead.LastName,
		email,
		lead.Phone,
		name,
		string(category),
		lead.RegistrationDate.Format(time.RFC3339),
		strconv.Itoa(score),
		scoring.Label(score),
		strconv.Itoa(domain.LeadUrgencyAt(lead, statuses, now)),
		strconv.Itoa(len(lead.FollowUps)),
		lead.LastInteraction().Format(time.RFC3339),
	}
}
