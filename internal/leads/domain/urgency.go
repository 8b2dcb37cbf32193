package domain

import "time"

// Urgency tiers. Consumers branch on the literal values, which are also the
// sort key in list and kanban views. Note the numbers are not a severity
// ranking: stale/neglected (2) is shown as more pressing than a far-off
// scheduled appointment (1).
const (
	UrgencyNone      = 0
	UrgencyScheduled = 1 // has a scheduled appointment, not imminent
	UrgencyStale     = 2 // neglected new lead or stale follow-up
	UrgencyImminent  = 3 // scheduled appointment within 48 hours
)

// LeadUrgency classifies a lead into an urgency tier for sorting and badges.
func LeadUrgency(lead Lead, statuses []Status) int {
	return LeadUrgencyAt(lead, statuses, time.Now())
}

// LeadUrgencyAt is LeadUrgency evaluated at an explicit instant.
func LeadUrgencyAt(lead Lead, statuses []Status, now time.Time) int {
	// Won and lost leads are never urgent.
	if ResolveStatusCategory(lead.StatusID, statuses) != CategoryActive {
		return UrgencyNone
	}

	if appt, ok := lead.FirstScheduledAppointment(); ok {
		delta := appt.Date.Sub(now)
		if delta > 0 && delta <= 48*time.Hour {
			return UrgencyImminent
		}
		// Past-due or far-future scheduled appointments still mark the lead
		// as being worked.
		return UrgencyScheduled
	}

	if len(lead.FollowUps) == 0 {
		if DaysSince(now, lead.RegistrationDate) > 3 {
			return UrgencyStale
		}
		return UrgencyNone
	}

	if latest, ok := lead.LatestFollowUp(); ok && DaysSince(now, latest.Date) > 7 {
		return UrgencyStale
	}

	return UrgencyNone
}
