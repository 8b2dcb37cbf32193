package exports

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/httpkit"
	"admissions_crm_backend/platform/logger"
)

// Handler handles export HTTP requests.
type Handler struct {
	svc *Service
	log *logger.Logger
}

// ExportLeads streams the caller's visible leads as a CSV download.
// GET /api/v1/exports/leads
func (h *Handler) ExportLeads(c *gin.Context) {
	actorID, ok := httpkit.CurrentUserID(c)
	if !ok {
		httpkit.Error(c, http.StatusUnauthorized, "unauthorized", nil)
		return
	}

	filename := fmt.Sprintf("leads-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	err := h.svc.WriteLeadsCSV(c.Request.Context(), c.Writer, actorID, httpkit.IsAdmin(c))
	if err != nil {
		// Headers may already be out; log instead of rewriting the response.
		h.log.Error("lead export failed", "error", err.Error())
		c.Abort()
	}
}

// Module is the exports module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the exports module.
func NewModule(leads LeadSource, statuses StatusSource, log *logger.Logger) *Module {
	return &Module{handler: &Handler{svc: New(leads, statuses, log), log: log}}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "exports"
}

// RegisterRoutes mounts export routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/exports/leads", m.handler.ExportLeads)
}

var _ apphttp.Module = (*Module)(nil)
