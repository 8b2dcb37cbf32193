package transport

import (
	"time"

	"github.com/google/uuid"
)

type CreateAppointmentRequest struct {
	LeadID          uuid.UUID `json:"leadId" validate:"required"`
	Title           string    `json:"title" validate:"required,min=1,max=200"`
	Date            time.Time `json:"date" validate:"required"`
	DurationMinutes int       `json:"durationMinutes" validate:"required,min=5,max=480"`
	Details         string    `json:"details" validate:"max=2000"`
}

type ListAppointmentsRequest struct {
	From string `form:"from" validate:"required"`
	To   string `form:"to" validate:"required"`
}
