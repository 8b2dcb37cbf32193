package dashboard

import (
	"net/http"

	"admissions_crm_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the dashboard endpoints.
type Handler struct {
	svc *Service
}

// NewHandler creates a dashboard handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts dashboard routes on the provided group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/metrics", h.GetMetrics)
	rg.GET("/quick-filter", h.GetQuickFilterLeads)
}

// GetMetrics returns the aggregate metrics for the caller's visible leads.
func (h *Handler) GetMetrics(c *gin.Context) {
	advisorID, ok := httpkit.CurrentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	metrics, err := h.svc.Metrics(c.Request.Context(), advisorID, httpkit.IsAdmin(c))
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, metrics)
}

// GetQuickFilterLeads returns the ids of leads matching a quick filter.
// The client uses the ids to narrow its subsequent lead fetch; selecting a
// quick filter also forces the active tab and clears any status filter.
func (h *Handler) GetQuickFilterLeads(c *gin.Context) {
	advisorID, ok := httpkit.CurrentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	filter := QuickFilter(c.Query("filter"))
	if !filter.Valid() {
		httpkit.Error(c, http.StatusBadRequest, "unknown quick filter", nil)
		return
	}

	ids, err := h.svc.QuickFilterLeadIDs(c.Request.Context(), advisorID, httpkit.IsAdmin(c), filter)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, gin.H{"filter": filter, "leadIds": ids})
}
