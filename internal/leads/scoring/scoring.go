// Package scoring computes the 0-100 conversion probability score for a
// lead. The score is a pure function of the lead snapshot and the status
// catalog; it runs once per row at render time, so it must stay allocation
// light and side-effect free.
package scoring

import (
	"fmt"
	"strings"
	"time"

	"admissions_crm_backend/internal/leads/domain"
)

const (
	minScore = 0
	maxScore = 100

	profileBonus        = 10
	recentWeekBonus     = 20
	recentMonthBonus    = 10
	completedApptBonus  = 50
	scheduledApptBonus  = 40
	followUpPointsEach  = 5
	followUpPointsCap   = 20
	imminentApptBonus   = 15
	decayShortPenalty   = -10 // inactive > 15 days
	decayMediumPenalty  = -10 // inactive > 30 days
	decayLongPenalty    = -20 // inactive > 60 days
)

// factor is one contributing line of the score.
type factor struct {
	label  string
	points int
}

// Calculate returns the lead's score in [0,100].
func Calculate(lead domain.Lead, statuses []domain.Status) int {
	return CalculateAt(lead, statuses, time.Now())
}

// CalculateAt is Calculate evaluated at an explicit instant.
func CalculateAt(lead domain.Lead, statuses []domain.Status, now time.Time) int {
	score, _ := evaluate(lead, statuses, now)
	return score
}

// Breakdown returns a human-readable itemization of the score: one line per
// contributing factor (including penalties) and a final total line. It is
// derived from the same evaluation as Calculate, so the two always agree.
func Breakdown(lead domain.Lead, statuses []domain.Status) string {
	return BreakdownAt(lead, statuses, time.Now())
}

// BreakdownAt is Breakdown evaluated at an explicit instant.
func BreakdownAt(lead domain.Lead, statuses []domain.Status, now time.Time) string {
	score, factors := evaluate(lead, statuses, now)

	var b strings.Builder
	for _, f := range factors {
		fmt.Fprintf(&b, "%s: %+d\n", f.label, f.points)
	}
	fmt.Fprintf(&b, "Total: %d", score)
	return b.String()
}

// evaluate runs the scoring rules in their fixed order and returns the
// clamped total plus the contributing factors.
func evaluate(lead domain.Lead, statuses []domain.Status, now time.Time) (int, []factor) {
	// Terminal statuses short-circuit every other signal.
	switch domain.ResolveStatusCategory(lead.StatusID, statuses) {
	case domain.CategoryWon:
		return maxScore, []factor{{label: "Estado ganado", points: maxScore}}
	case domain.CategoryLost:
		return minScore, []factor{{label: "Estado perdido", points: 0}}
	}

	factors := make([]factor, 0, 8)
	score := 0
	add := func(label string, points int) {
		factors = append(factors, factor{label: label, points: points})
		score += points
	}

	if lead.HasCompleteProfile() {
		add("Perfil completo", profileBonus)
	}

	switch days := domain.DaysSince(now, lead.RegistrationDate); {
	case days <= 7:
		add("Registro reciente (≤7 días)", recentWeekBonus)
	case days <= 30:
		add("Registro reciente (≤30 días)", recentMonthBonus)
	}

	// Only the stronger appointment signal applies, never both.
	if lead.HasAppointmentWithStatus(domain.AppointmentCompleted) {
		add("Cita completada", completedApptBonus)
	} else if lead.HasAppointmentWithStatus(domain.AppointmentScheduled) {
		add("Cita agendada", scheduledApptBonus)
	}

	if count := len(lead.FollowUps); count > 0 {
		points := count * followUpPointsEach
		if points > followUpPointsCap {
			points = followUpPointsCap
		}
		add(fmt.Sprintf("Seguimientos (%d)", count), points)
	}

	if lead.HasImminentAppointment(now) {
		add("Cita próxima (<48h)", imminentApptBonus)
	}

	// Inactivity decay only bites when nothing is on the calendar. All
	// matching thresholds stack: 70 days idle costs -10 -10 -20.
	if !lead.HasFutureScheduledAppointment(now) {
		gap := domain.DaysSince(now, lead.LastInteraction())
		if gap > 15 {
			add("Inactividad >15 días", decayShortPenalty)
		}
		if gap > 30 {
			add("Inactividad >30 días", decayMediumPenalty)
		}
		if gap > 60 {
			add("Inactividad >60 días", decayLongPenalty)
		}
	}

	return clamp(score), factors
}

func clamp(score int) int {
	if score < minScore {
		return minScore
	}
	if score > maxScore {
		return maxScore
	}
	return score
}
