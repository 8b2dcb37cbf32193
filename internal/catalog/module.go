// Package catalog provides the pipeline catalog bounded context module.
package catalog

import (
	"admissions_crm_backend/internal/catalog/handler"
	"admissions_crm_backend/internal/catalog/repository"
	"admissions_crm_backend/internal/catalog/service"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the catalog bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
	repo    repository.Repository
}

// NewModule creates and initializes the catalog module.
func NewModule(pool *pgxpool.Pool, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
		repo:    repo,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "catalog"
}

// Service returns the service layer for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// Repository returns the repository for direct access if needed.
func (m *Module) Repository() repository.Repository {
	return m.repo
}

// RegisterRoutes mounts catalog routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.Protected.GET("/catalog/statuses", m.handler.ListStatuses)
	ctx.Protected.GET("/catalog/programs", m.handler.ListPrograms)
	ctx.Protected.GET("/catalog/sources", m.handler.ListSources)

	adminGroup := ctx.Admin.Group("/catalog")
	adminGroup.POST("/statuses", m.handler.CreateStatus)
	adminGroup.PUT("/statuses/:id", m.handler.UpdateStatus)
	adminGroup.DELETE("/statuses/:id", m.handler.DeleteStatus)
	adminGroup.POST("/programs", m.handler.CreateProgram)
	adminGroup.PUT("/programs/:id", m.handler.UpdateProgram)
	adminGroup.DELETE("/programs/:id", m.handler.DeleteProgram)
	adminGroup.POST("/sources", m.handler.CreateSource)
	adminGroup.PUT("/sources/:id", m.handler.UpdateSource)
	adminGroup.DELETE("/sources/:id", m.handler.DeleteSource)
}

var _ apphttp.Module = (*Module)(nil)
