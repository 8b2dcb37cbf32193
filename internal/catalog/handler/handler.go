// Package handler exposes the catalog HTTP endpoints.
package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admissions_crm_backend/internal/catalog/service"
	"admissions_crm_backend/internal/catalog/transport"
	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/validator"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
	msgInvalidID        = "invalid catalog id"
)

// Handler handles HTTP requests for the pipeline catalogs.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

// New creates a new catalog handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListStatuses retrieves the status catalog.
// GET /api/v1/catalog/statuses
func (h *Handler) ListStatuses(c *gin.Context) {
	statuses, err := h.svc.ListStatuses(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, statuses)
}

// CreateStatus creates a pipeline status.
// POST /api/v1/admin/catalog/statuses
func (h *Handler) CreateStatus(c *gin.Context) {
	var req transport.CreateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	status, err := h.svc.CreateStatus(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, status)
}

// UpdateStatus patches a pipeline status.
// PUT /api/v1/admin/catalog/statuses/:id
func (h *Handler) UpdateStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	status, err := h.svc.UpdateStatus(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, status)
}

// DeleteStatus removes a pipeline status.
// DELETE /api/v1/admin/catalog/statuses/:id
func (h *Handler) DeleteStatus(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteStatus(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListPrograms retrieves academic programs.
// GET /api/v1/catalog/programs
func (h *Handler) ListPrograms(c *gin.Context) {
	var req transport.ListProgramsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}

	programs, err := h.svc.ListPrograms(c.Request.Context(), req.IncludeInactive)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, programs)
}

// CreateProgram creates an academic program.
// POST /api/v1/admin/catalog/programs
func (h *Handler) CreateProgram(c *gin.Context) {
	var req transport.CreateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	program, err := h.svc.CreateProgram(c.Request.Context(), req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, program)
}

// UpdateProgram patches an academic program.
// PUT /api/v1/admin/catalog/programs/:id
func (h *Handler) UpdateProgram(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	program, err := h.svc.UpdateProgram(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, program)
}

// DeleteProgram removes an academic program.
// DELETE /api/v1/admin/catalog/programs/:id
func (h *Handler) DeleteProgram(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteProgram(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}

// ListSources retrieves lead acquisition channels.
// GET /api/v1/catalog/sources
func (h *Handler) ListSources(c *gin.Context) {
	sources, err := h.svc.ListSources(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, sources)
}

// CreateSource creates an acquisition channel.
// POST /api/v1/admin/catalog/sources
func (h *Handler) CreateSource(c *gin.Context) {
	var req transport.CreateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	source, err := h.svc.CreateSource(c.Request.Context(), req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, source)
}

// UpdateSource renames an acquisition channel.
// PUT /api/v1/admin/catalog/sources/:id
func (h *Handler) UpdateSource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	var req transport.UpdateSourceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgValidationFailed, err.Error())
		return
	}

	source, err := h.svc.UpdateSource(c.Request.Context(), id, req.Name)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, source)
}

// DeleteSource removes an acquisition channel.
// DELETE /api/v1/admin/catalog/sources/:id
func (h *Handler) DeleteSource(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return
	}
	if httpkit.HandleError(c, h.svc.DeleteSource(c.Request.Context(), id)) {
		return
	}
	c.Status(http.StatusNoContent)
}
