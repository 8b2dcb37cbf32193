package dashboard

import (
	"time"

	"admissions_crm_backend/internal/leads/domain"
)

// QuickFilter narrows the lead list to one of the dashboard card
// populations. Selecting a quick filter always forces the active-category
// tab and clears any status filter; that policy is enforced at the API
// layer, the predicates here only classify.
type QuickFilter string

const (
	QuickFilterAppointmentsToday QuickFilter = "appointments_today"
	QuickFilterNoFollowUp        QuickFilter = "no_followup"
	QuickFilterStaleFollowUp     QuickFilter = "stale_followup"
)

// Valid reports whether the filter is one of the known quick filters.
func (f QuickFilter) Valid() bool {
	switch f {
	case QuickFilterAppointmentsToday, QuickFilterNoFollowUp, QuickFilterStaleFollowUp:
		return true
	}
	return false
}

// Matches applies the filter's predicate to a single lead. The rules mirror
// the corresponding Compute counters exactly, so a card's count always equals
// the number of leads its filter selects.
func (f QuickFilter) Matches(lead domain.Lead, statuses []domain.Status, now time.Time) bool {
	switch f {
	case QuickFilterAppointmentsToday:
		return hasScheduledAppointmentToday(lead, now)
	case QuickFilterNoFollowUp:
		return domain.ResolveStatusCategory(lead.StatusID, statuses) == domain.CategoryActive &&
			len(lead.FollowUps) == 0 &&
			domain.DaysSince(now, lead.RegistrationDate) > 3
	case QuickFilterStaleFollowUp:
		if domain.ResolveStatusCategory(lead.StatusID, statuses) != domain.CategoryActive {
			return false
		}
		latest, ok := lead.LatestFollowUp()
		return ok && domain.DaysSince(now, latest.Date) > 7
	}
	return false
}

// Filter returns the subset of leads matching the quick filter.
func (f QuickFilter) Filter(leads []domain.Lead, statuses []domain.Status, now time.Time) []domain.Lead {
	matched := make([]domain.Lead, 0, len(leads))
	for _, lead := range leads {
		if f.Matches(lead, statuses, now) {
			matched = append(matched, lead)
		}
	}
	return matched
}
