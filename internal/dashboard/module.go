package dashboard

import (
	"time"

	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/logger"

	"github.com/redis/go-redis/v9"
)

// Module is the dashboard bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the dashboard module. rdb may be nil to
// run without memoization.
func NewModule(leads LeadSource, statuses StatusSource, advisors AdvisorSource, rdb *redis.Client, log *logger.Logger) *Module {
	var cache *Cache
	if rdb != nil {
		cache = NewCache(rdb, 5*time.Minute, log)
	}

	svc := New(leads, statuses, advisors, cache, log)
	return &Module{
		handler: NewHandler(svc),
		service: svc,
	}
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "dashboard"
}

// Service returns the dashboard service for external use.
func (m *Module) Service() *Service {
	return m.service
}

// RegisterRoutes mounts dashboard routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/dashboard")
	m.handler.RegisterRoutes(group)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
