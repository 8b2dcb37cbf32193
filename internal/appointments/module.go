// Package appointments provides the appointment scheduling bounded context
// module.
package appointments

import (
	"admissions_crm_backend/internal/appointments/handler"
	"admissions_crm_backend/internal/appointments/repository"
	"admissions_crm_backend/internal/appointments/service"
	"admissions_crm_backend/internal/events"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the appointments bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the appointments module. reminders may
// be nil when no reminder queue is configured.
func NewModule(pool *pgxpool.Pool, ownership service.LeadOwnership, reminders service.ReminderScheduler, bus events.Bus, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, ownership, reminders, bus, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "appointments"
}

// Service returns the appointments service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts appointment routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/appointments")
	group.GET("", m.handler.List)
	group.POST("", m.handler.Create)
	group.POST("/:id/complete", m.handler.Complete)
	group.POST("/:id/cancel", m.handler.Cancel)

	ctx.Protected.GET("/leads/:id/appointments", m.handler.ListByLead)
}

var _ apphttp.Module = (*Module)(nil)
