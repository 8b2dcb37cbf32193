package messaging

import (
	"admissions_crm_backend/internal/events"
	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
	"admissions_crm_backend/platform/validator"
)

// Module is the messaging bounded context module implementing http.Module.
type Module struct {
	handler *Handler
	service *Service
}

// NewModule creates and initializes the messaging module. When outbound mail
// is disabled the module renders templates but only logs deliveries.
func NewModule(cfg config.MailConfig, leads LeadSource, advisors AdvisorNames, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	templates, err := LoadTemplates(cfg.GetMessageTemplatesPath())
	if err != nil {
		return nil, err
	}

	var sender Sender
	if cfg.GetMailEnabled() {
		sender = NewSMTPSender(cfg)
	} else {
		sender = NewDryRunSender(log)
	}

	svc := New(templates, sender, leads, advisors, log)
	svc.SubscribeWelcome(bus)
	return &Module{
		handler: NewHandler(svc, val),
		service: svc,
	}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "messaging"
}

// RegisterRoutes mounts messaging routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/messages")
	group.GET("/templates", m.handler.ListTemplates)
	group.POST("/bulk", m.handler.BulkSend)
}

var _ apphttp.Module = (*Module)(nil)
