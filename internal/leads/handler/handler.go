// Package handler exposes the lead pipeline HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admissions_crm_backend/internal/leads/importer"
	"admissions_crm_backend/internal/leads/service"
	"admissions_crm_backend/internal/leads/transport"
	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid lead id"
	msgUnauthorized     = "unauthorized"
)

// Handler handles lead HTTP requests.
type Handler struct {
	svc      *service.Service
	importer *importer.Importer
	val      *validator.Validator
}

// New creates a new leads handler.
func New(svc *service.Service, imp *importer.Importer, val *validator.Validator) *Handler {
	return &Handler{svc: svc, importer: imp, val: val}
}

func currentActor(c *gin.Context) (uuid.UUID, bool, bool) {
	userID, ok := httpkit.CurrentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, msgUnauthorized, nil)
		return uuid.Nil, false, false
	}
	return userID, httpkit.IsAdmin(c), true
}

// List retrieves a page of leads with computed scores and urgency tiers.
// GET /api/v1/leads
func (h *Handler) List(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}

	var req transport.ListLeadsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.List(c.Request.Context(), req, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// Create registers a new lead.
// POST /api/v1/leads
func (h *Handler) Create(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}

	var req transport.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Create(c.Request.Context(), req, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, lead)
}

// Get retrieves a lead with its score breakdown.
// GET /api/v1/leads/:id
func (h *Handler) Get(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	lead, err := h.svc.Get(c.Request.Context(), id, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// Update patches a lead's contact fields.
// PUT /api/v1/leads/:id
func (h *Handler) Update(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Update(c.Request.Context(), id, req, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// Delete removes a lead. Admin only.
// DELETE /api/v1/admin/leads/:id
func (h *Handler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.HandleError(c, h.svc.Delete(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeStatus moves a lead in the pipeline.
// POST /api/v1/leads/:id/status
func (h *Handler) ChangeStatus(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.ChangeStatus(c.Request.Context(), id, req, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// Transfer reassigns a lead to another advisor.
// POST /api/v1/leads/:id/transfer
func (h *Handler) Transfer(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.TransferLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	lead, err := h.svc.Transfer(c.Request.Context(), id, req, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, lead)
}

// BulkTransfer reassigns a batch of leads to one advisor.
// POST /api/v1/leads/transfer
func (h *Handler) BulkTransfer(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}

	var req transport.BulkTransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	result, err := h.svc.BulkTransfer(c.Request.Context(), req, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AddFollowUp appends a note to a lead.
// POST /api/v1/leads/:id/followups
func (h *Handler) AddFollowUp(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}

	var req transport.AddFollowUpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	followUp, err := h.svc.AddFollowUp(c.Request.Context(), id, req, actorID, isAdmin)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, followUp)
}

// DeleteFollowUp removes a note from a lead.
// DELETE /api/v1/leads/:id/followups/:followUpId
func (h *Handler) DeleteFollowUp(c *gin.Context) {
	actorID, isAdmin, ok := currentActor(c)
	if !ok {
		return
	}
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	followUpID, err := uuid.Parse(c.Param("followUpId"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid follow-up id", nil)
		return
	}

	if httpkit.HandleError(c, h.svc.DeleteFollowUp(c.Request.Context(), id, followUpID, actorID, isAdmin)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// Import bulk-imports leads from an uploaded CSV file. Admin only.
// POST /api/v1/admin/leads/import
func (h *Handler) Import(c *gin.Context) {
	actorID, _, ok := currentActor(c)
	if !ok {
		return
	}

	file, _, err := c.Request.FormFile("file")
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "missing csv file upload", nil)
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file, actorID)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
