package render

import (
	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// New returns the Heldra client when a key is configured, otherwise the mock
func New(cfg *config.Config, log *logger.Logger) Renderer {
	log = log.With("component", "render")
	if !cfg.Providers.HasHeldra() {
		return NewMockRenderer(log)
	}
	return NewHeldraClient(HeldraConfig{
		APIKey:       cfg.Providers.Heldra.APIKey,
		BaseURL:      cfg.Providers.Heldra.BaseURL,
		Timeout:      cfg.Providers.Heldra.Timeout,
		PollInterval: cfg.Render.PollInterval,
		MaxAttempts:  cfg.Render.MaxAttempts,
	}, log)
}
