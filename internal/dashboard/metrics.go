// Package dashboard folds a lead snapshot into the aggregate counts behind
// the quick-filter cards and charts. Compute is pure and deterministic for a
// given snapshot, which makes it safe to memoize on a content hash of its
// inputs (see Cache).
package dashboard

import (
	"time"

	"admissions_crm_backend/internal/leads/domain"

	"github.com/google/uuid"
)

// Advisor is the minimal advisor projection the aggregator needs.
type Advisor struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"fullName"`
}

// StatusCount is one slice of the per-status pie chart, tagged with the
// catalog's semantic color token.
type StatusCount struct {
	StatusID uuid.UUID `json:"statusId"`
	Name     string    `json:"name"`
	Color    string    `json:"color"`
	Count    int       `json:"count"`
}

// AdvisorCount is one bar of the per-advisor chart.
type AdvisorCount struct {
	AdvisorID uuid.UUID `json:"advisorId"`
	FullName  string    `json:"fullName"`
	Count     int       `json:"count"`
}

// Metrics is the aggregate snapshot driving the dashboard.
type Metrics struct {
	AppointmentsToday int `json:"appointmentsToday"`
	NoFollowUp        int `json:"noFollowUp"`
	StaleFollowUp     int `json:"staleFollowUp"`
	TotalLeads        int `json:"totalLeads"`
	NewLeadsToday     int `json:"newLeadsToday"`
	EnrolledToday     int `json:"enrolledToday"`

	StatusBreakdown []StatusCount  `json:"statusBreakdown"`
	AdvisorStats    []AdvisorCount `json:"advisorStats"`
}

// Compute aggregates the given leads into dashboard metrics. The leads slice
// is expected to be pre-scoped to the caller's visibility. Output ordering
// follows catalog and advisor input order, so identical snapshots produce
// identical results.
func Compute(leads []domain.Lead, statuses []domain.Status, advisors []Advisor, now time.Time) Metrics {
	metrics := Metrics{TotalLeads: len(leads)}

	statusCounts := make(map[uuid.UUID]int, len(statuses))
	advisorCounts := make(map[uuid.UUID]int, len(advisors))

	for _, lead := range leads {
		category := domain.ResolveStatusCategory(lead.StatusID, statuses)

		if hasScheduledAppointmentToday(lead, now) {
			metrics.AppointmentsToday++
		}
		if domain.SameCalendarDay(lead.RegistrationDate, now) {
			metrics.NewLeadsToday++
		}
		if enrolledToday(lead, statuses, now) {
			metrics.EnrolledToday++
		}

		if category == domain.CategoryActive {
			if len(lead.FollowUps) == 0 {
				if domain.DaysSince(now, lead.RegistrationDate) > 3 {
					metrics.NoFollowUp++
				}
			} else if latest, ok := lead.LatestFollowUp(); ok && domain.DaysSince(now, latest.Date) > 7 {
				metrics.StaleFollowUp++
			}
		}

		statusCounts[lead.StatusID]++
		advisorCounts[lead.AdvisorID]++
	}

	metrics.StatusBreakdown = make([]StatusCount, 0, len(statuses))
	for _, status := range statuses {
		metrics.StatusBreakdown = append(metrics.StatusBreakdown, StatusCount{
			StatusID: status.ID,
			Name:     status.Name,
			Color:    status.Color,
			Count:    statusCounts[status.ID],
		})
	}

	metrics.AdvisorStats = make([]AdvisorCount, 0, len(advisors))
	for _, advisor := range advisors {
		metrics.AdvisorStats = append(metrics.AdvisorStats, AdvisorCount{
			AdvisorID: advisor.ID,
			FullName:  advisor.FullName,
			Count:     advisorCounts[advisor.ID],
		})
	}

	return metrics
}

// hasScheduledAppointmentToday reports whether any scheduled appointment
// falls within now's calendar day.
func hasScheduledAppointmentToday(lead domain.Lead, now time.Time) bool {
	for _, appt := range lead.Appointments {
		if appt.Status == domain.AppointmentScheduled && domain.SameCalendarDay(appt.Date, now) {
			return true
		}
	}
	return false
}

// enrolledToday reports whether the lead moved into a won-category status
// today, derived from the append-only status history.
func enrolledToday(lead domain.Lead, statuses []domain.Status, now time.Time) bool {
	for _, change := range lead.StatusHistory {
		if !domain.SameCalendarDay(change.Date, now) {
			continue
		}
		if category, found := domain.LookupStatusCategory(change.NewStatusID, statuses); found && category == domain.CategoryWon {
			return true
		}
	}
	return false
}
