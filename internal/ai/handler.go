package ai

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"admissions_crm_backend/platform/httpkit"
)

// Handler handles AI assistant HTTP requests.
type Handler struct {
	svc *Service
}

// NewHandler creates a new AI handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Summarize generates a summary with next-step advice for a lead.
// POST /api/v1/leads/:id/ai/summary
func (h *Handler) Summarize(c *gin.Context) {
	h.run(c, h.svc.SummarizeLead)
}

// DraftFollowUp generates a follow-up message draft for a lead.
// POST /api/v1/leads/:id/ai/follow-up
func (h *Handler) DraftFollowUp(c *gin.Context) {
	h.run(c, h.svc.DraftFollowUp)
}

func (h *Handler) run(c *gin.Context, generate func(ctx context.Context, leadID, actorID uuid.UUID, isAdmin bool) (Insight, error)) {
	actorID, ok := httpkit.CurrentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead id", nil)
		return
	}

	insight, err := generate(c.Request.Context(), leadID, actorID, httpkit.IsAdmin(c))
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, insight)
}
