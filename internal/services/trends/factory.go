package trends

import (
	"github.com/mclantax/content-pipeline/internal/services/cache"
	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// New picks the trend source for the configuration. Without a SerpAPI key
// the fixture source is used directly.
func New(cfg *config.Config, c cache.Cache, log *logger.Logger) Source {
	log = log.With("component", "trends")
	if !cfg.Providers.HasSerpAPI() {
		return NewFixtureSource(log)
	}

	client := NewSerpAPIClient(SerpAPIConfig{
		APIKey:            cfg.Providers.SerpAPI.APIKey,
		BaseURL:           cfg.Providers.SerpAPI.BaseURL,
		Timeout:           cfg.Providers.SerpAPI.Timeout,
		RequestsPerMinute: cfg.RateLimit.Endpoints["serpapi"],
		MaxResults:        cfg.Trends.MaxResults,
	})
	var src Source = client
	if c != nil {
		src = NewCachedSource(client, c, cfg.Trends.CacheTTL, log)
	}
	return NewFallbackSource(src, log)
}
