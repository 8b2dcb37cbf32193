// Package identity provides the advisor accounts bounded context module.
package identity

import (
	"admissions_crm_backend/internal/identity/handler"
	"admissions_crm_backend/internal/identity/repository"
	"admissions_crm_backend/internal/identity/service"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Module is the identity bounded context module implementing http.Module.
type Module struct {
	handler *handler.Handler
	service *service.Service
}

// NewModule creates and initializes the identity module.
func NewModule(pool *pgxpool.Pool, cfg config.AuthServiceConfig, val *validator.Validator, log *logger.Logger) *Module {
	repo := repository.New(pool)
	svc := service.New(repo, cfg, log)

	return &Module{
		handler: handler.New(svc, val),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "identity"
}

// Service returns the identity service for external use.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts auth and advisor routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	auth := ctx.V1.Group("/auth")
	auth.POST("/login", ctx.AuthRateLimiter.RateLimit(), m.handler.Login)
	auth.GET("/me", ctx.AuthMiddleware, m.handler.Me)
	auth.POST("/change-password", ctx.AuthMiddleware, m.handler.ChangePassword)

	ctx.Protected.GET("/advisors", m.handler.ListAdvisors)

	ctx.Admin.POST("/advisors", m.handler.CreateAdvisor)
	ctx.Admin.PUT("/advisors/:id", m.handler.UpdateAdvisor)
}

var _ apphttp.Module = (*Module)(nil)
