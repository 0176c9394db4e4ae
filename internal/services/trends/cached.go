package trends

import (
	"context"
	"strings"
	"time"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/cache"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// CachedSource remembers live results for a TTL. Fixture results are
// never stored so a recovered upstream is picked up on the next call.
type CachedSource struct {
	next  Source
	cache cache.Cache
	ttl   time.Duration
	log   *logger.Logger
}

func NewCachedSource(next Source, c cache.Cache, ttl time.Duration, log *logger.Logger) *CachedSource {
	return &CachedSource{next: next, cache: c, ttl: ttl, log: log}
}

func (s *CachedSource) Search(ctx context.Context, query string) ([]models.Topic, error) {
	key := cacheKey(query)

	var cached []models.Topic
	if cache.GetJSON(ctx, s.cache, key, &cached) {
		s.log.Debug("Trend cache hit", "query", query)
		return cached, nil
	}

	topics, err := s.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}
	if isLive(topics) {
		if err := cache.SetJSON(ctx, s.cache, key, topics, s.ttl); err != nil {
			s.log.Warn("Failed to cache trends", "query", query, "error", err)
		}
	}
	return topics, nil
}

func cacheKey(query string) string {
	return "trends:" + strings.ToLower(strings.Join(strings.Fields(query), " "))
}

func isLive(topics []models.Topic) bool {
	if len(topics) == 0 {
		return false
	}
	for _, t := range topics {
		if t.Source != models.TopicSourceSerpAPI {
			return false
		}
	}
	return true
}
