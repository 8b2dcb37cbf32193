package ai

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/internal/leads/scoring"
	"admissions_crm_backend/platform/sanitize"
)

const (
	maxNoteLength = 500
	maxNotes      = 15
)

// truncateNote strips markup from free-text notes and caps their length
// before they are embedded in a prompt.
func truncateNote(s string) string {
	clean := sanitize.Text(s)
	if len(clean) > maxNoteLength {
		return clean[:maxNoteLength] + "..."
	}
	return clean
}

func leadAgeString(registered, now time.Time) string {
	days := domain.DaysSince(now, registered)
	switch {
	case days <= 0:
		return "hoy"
	case days == 1:
		return "hace 1 dia"
	default:
		return fmt.Sprintf("hace %d dias", days)
	}
}

func statusName(statusID uuid.UUID, statuses []domain.Status) string {
	for _, status := range statuses {
		if status.ID == statusID {
			return status.Name
		}
	}
	return "Desconocido"
}

func followUpSection(lead domain.Lead) string {
	if len(lead.FollowUps) == 0 {
		return "Sin seguimientos registrados."
	}
	var b strings.Builder
	notes := lead.FollowUps
	if len(notes) > maxNotes {
		notes = notes[:maxNotes]
	}
	for _, fu := range notes {
		fmt.Fprintf(&b, "- [%s] %s\n", fu.Date.Format("02-01-2006"), truncateNote(fu.Notes))
	}
	return b.String()
}

func appointmentSection(lead domain.Lead, now time.Time) string {
	if len(lead.Appointments) == 0 {
		return "Sin citas."
	}
	var b strings.Builder
	for _, appt := range lead.Appointments {
		when := appt.Date.Format("02-01-2006 15:04")
		fmt.Fprintf(&b, "- [%s] %s (%s)\n", when, sanitize.Text(appt.Title), appt.Status)
	}
	if lead.HasImminentAppointment(now) {
		b.WriteString("Tiene una cita programada en las proximas 48 horas.\n")
	}
	return b.String()
}

func leadContext(lead domain.Lead, statuses []domain.Status, now time.Time) string {
	email := "sin email"
	if lead.Email != nil && *lead.Email != "" {
		email = *lead.Email
	}

	score := scoring.CalculateAt(lead, statuses, now)

	return fmt.Sprintf(`## Informacion del Lead
**Nombre**: %s
**Email**: %s
**Telefono**: %s
**Registrado**: %s (%s)
**Estado actual**: %s
**Puntuacion**: %d/100 (%s)
**Urgencia**: %d de 3

## Desglose de puntuacion
%s

## Seguimientos
%s

## Citas
%s`,
		lead.FullName(),
		email,
		lead.Phone,
		lead.RegistrationDate.Format("02-01-2006"),
		leadAgeString(lead.RegistrationDate, now),
		statusName(lead.StatusID, statuses),
		score,
		scoring.Label(score),
		domain.LeadUrgencyAt(lead, statuses, now),
		scoring.BreakdownAt(lead, statuses, now),
		followUpSection(lead),
		appointmentSection(lead, now),
	)
}

func buildSummaryPrompt(lead domain.Lead, statuses []domain.Status, now time.Time) string {
	return fmt.Sprintf(`Eres un asistente para asesores de admisiones universitarias. Analiza este lead y responde en espanol con:
1. Un resumen breve de la situacion del lead (2-3 frases).
2. Los factores que mas afectan su puntuacion.
3. La siguiente accion concreta recomendada para el asesor.

%s`, leadContext(lead, statuses, now))
}

func buildFollowUpDraftPrompt(lead domain.Lead, statuses []domain.Status, now time.Time) string {
	return fmt.Sprintf(`Eres un asistente para asesores de admisiones universitarias. Redacta en espanol un mensaje de seguimiento breve y cordial para este lead, listo para enviar por email. No inventes datos que no aparezcan abajo. Devuelve solo el texto del mensaje.

%s`, leadContext(lead, statuses, now))
}
