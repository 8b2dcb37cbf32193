// Package handler exposes the appointment HTTP endpoints.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admissions_crm_backend/internal/appointments/service"
	"admissions_crm_backend/internal/appointments/transport"
	"admissions_crm_backend/internal/leads/domain"
	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid appointment id"
)

// Handler handles appointment HTTP requests.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new appointments handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

func currentActor(c *gin.Context) (uuid.UUID, bool, bool) {
	userID, ok := httpkit.CurrentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return uuid.Nil, false, false
	}
	return userID, httpkit.IsAdmin(c), true
}

// Create books an appointment for a lead.
// POST /api/v1/appointments
func (h *Handler) Create(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}

	var req transport.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	appt, err := h.svc.Create(c.Request.Context(), req, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, appt)
}

// List returns the calendar window given by from/to (RFC 3339).
// GET /api/v1/appointments?from=...&to=...
func (h *Handler) List(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}

	var req transport.ListAppointmentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	from, err := time.Parse(time.RFC3339, req.From)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "from must be an RFC 3339 timestamp", nil)
		return
	}
	to, err := time.Parse(time.RFC3339, req.To)
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "to must be an RFC 3339 timestamp", nil)
		return
	}

	appointments, err := h.svc.ListRange(c.Request.Context(), from, to, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, appointments)
}

// ListByLead returns a lead's appointments.
// GET /api/v1/leads/:id/appointments
func (h *Handler) ListByLead(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	appointments, err := h.svc.ListByLead(c.Request.Context(), leadID, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, appointments)
}

// Complete marks an appointment as completed.
// POST /api/v1/appointments/:id/complete
func (h *Handler) Complete(c *gin.Context) {
	h.transition(c, h.svc.Complete)
}

// Cancel marks an appointment as canceled.
// POST /api/v1/appointments/:id/cancel
func (h *Handler) Cancel(c *gin.Context) {
	h.transition(c, h.svc.Cancel)
}

func (h *Handler) transition(c *gin.Context, fn func(ctx context.Context, id, actorID uuid.UUID, isAdmin bool) (domain.Appointment, error)) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	appt, err := fn(c.Request.Context(), id, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, appt)
}
