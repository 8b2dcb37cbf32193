// Package leads provides the lead pipeline bounded context module.
package leads

import (
	"admissions_crm_backend/internal/events"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/internal/leads/handler"
	"admissions_crm_backend/internal/leads/importer"
	"admissions_crm_backend/internal/leads/repository"
	"admissions_crm_backend/internal/leads/service"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the leads bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the leads module. The status catalog and
// advisor directory are ports wired from the catalog and identity modules.
func NewModule(pool *pgxpool.Pool, statuses service.StatusCatalog, advisors service.AdvisorDirectory, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, statuses, advisors, bus, log)
	imp := importer.New(svc, log)

	return &Module{
		handler: handler.New(svc, imp, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "leads"
}

// Service returns the leads service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts lead routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.GET("/:id", m.handler.Get)
	group.PUT("/:id", m.handler.Update)
	group.POST("/:id/status", m.handler.ChangeStatus)
	group.POST("/:id/transfer", m.handler.Transfer)
	group.POST("/transfer", m.handler.BulkTransfer)
	group.POST("/:id/followups", m.handler.AddFollowUp)
	group.DELETE("/:id/followups/:followUpId", m.handler.DeleteFollowUp)

	ctx.Admin.DELETE("/leads/:id", m.handler.Delete)
	ctx.Admin.POST("/leads/import", m.handler.Import)
}

var _ apphttp.Module = (*Module)(nil)
