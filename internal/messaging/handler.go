package messaging

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/validator"
)

// BulkSendRequest targets a template at a batch of leads.
type BulkSendRequest struct {
	TemplateKey string      `json:"templateKey" validate:"required"`
	LeadIDs     []uuid.UUID `json:"leadIds" validate:"required,min=1,max=500"`
}

// Handler handles messaging HTTP requests.
type Handler struct {
	svc *Service
	val *validator.Validator
}

// NewHandler creates a new messaging handler.
func NewHandler(svc *Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// ListTemplates returns the message template catalog.
// GET /api/v1/messages/templates
func (h *Handler) ListTemplates(c *gin.Context) {
	httpkit.OK(c, h.svc.Templates())
}

// BulkSend sends a templated message to a batch of leads.
// POST /api/v1/messages/bulk
func (h *Handler) BulkSend(c *gin.Context) {
	actorID, ok := httpkit.CurrentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	var req BulkSendRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid request", nil)
		return
	}
	if err := h.val.Struct(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	result, err := h.svc.BulkSend(c.Request.Context(), req.TemplateKey, req.LeadIDs, actorID, httpkit.IsAdmin(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
