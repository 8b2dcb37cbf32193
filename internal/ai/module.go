package ai

import (
	"context"

	apphttp "admissions_crm_backend/internal/http"
	"admissions_crm_backend/platform/config"
	"admissions_crm_backend/platform/logger"
)

// Module is the AI assistant module implementing http.Module.
type Module struct {
	handler *Handler
}

// NewModule creates the AI module. When no API key is configured the routes
// stay mounted but reject requests.
func NewModule(ctx context.Context, cfg config.AIConfig, leads LeadSource, statuses StatusSource, log *logger.Logger) (*Module, error) {
	var generator Generator
	if cfg.IsAIEnabled() {
		gemini, err := NewGeminiGenerator(ctx, cfg.GetGeminiAPIKey(), cfg.GetGeminiModel())
		if err != nil {
			return nil, err
		}
		generator = gemini
	} else {
		log.Info("AI assistant disabled, no Gemini API key configured")
	}

	svc := New(generator, leads, statuses, log)
	return &Module{handler: NewHandler(svc)}, nil
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "ai"
}

// RegisterRoutes mounts AI assistant routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.Protected.Group("/leads/:id/ai")
	group.POST("/summary", m.handler.Summarize)
	group.POST("/follow-up", m.handler.DraftFollowUp)
}

var _ apphttp.Module = (*Module)(nil)
