package publisher

import (
	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// New builds the live publisher for the configured platforms. A platform
// without credentials, or any platform when liveMedia is false, gets a
// MockClient.
func New(cfg *config.Config, liveMedia bool, log *logger.Logger) *MultiPublisher {
	log = log.With("component", "publisher")
	timeout := cfg.Publishing.Timeout
	handle := cfg.Brand.Handle

	clients := make([]Client, 0, len(cfg.Pipeline.Platforms))
	for _, platform := range cfg.Pipeline.Platforms {
		if !liveMedia || !cfg.Providers.HasPlatform(platform) {
			clients = append(clients, NewMockClient(platform, handle, log))
			continue
		}
		switch platform {
		case "tiktok":
			clients = append(clients, NewTikTokClient(cfg.Providers.TikTok.AccessToken, cfg.Providers.TikTok.BaseURL, handle, timeout))
		case "instagram":
			clients = append(clients, NewInstagramClient(cfg.Providers.Instagram.AccessToken, cfg.Providers.Instagram.BaseURL, handle, timeout))
		case "youtube_shorts":
			clients = append(clients, NewYouTubeClient(cfg.Providers.YouTube.AccessToken, cfg.Providers.YouTube.BaseURL, handle, timeout))
		default:
			log.Warn("No client for platform", "platform", platform)
		}
	}

	return NewMultiPublisher(clients, cfg.Pipeline.Platforms, Options{
		MaxAttempts: cfg.Publishing.MaxAttempts,
		Backoff:     cfg.Publishing.Backoff,
		RatePerMin:  cfg.Publishing.RatePerMin,
		Timeout:     timeout,
	}, log)
}
