package trends

import (
	"context"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// MaxResults caps how many topics a search returns
const MaxResults = 5

// Source finds trending topics for a free-text query, most relevant first
type Source interface {
	Search(ctx context.Context, query string) ([]models.Topic, error)
}

var fixtureTopics = []models.Topic{
	{
		Title:       "Tax Season Memes Go Viral on TikTok",
		Description: "Young adults are creating humorous content about tax filing, making financial literacy fun and accessible.",
		Rationale:   "Perfect for baby tax content: combines trending memes with tax education",
	},
	{
		Title:       "Inflation Concerns Dominate Social Media",
		Description: "Rising costs of everyday items spark viral content about budgeting and financial planning.",
		Rationale:   "Great angle for a baby perspective on expensive diapers vs. tax breaks",
	},
	{
		Title:       "Cryptocurrency Tax Confusion",
		Description: "Many people are confused about how to report crypto gains on their taxes.",
		Rationale:   "Baby character explaining complex tax topics simply",
	},
	{
		Title:       "Work From Home Tax Deductions",
		Description: "Remote workers are discovering new tax deductions they can claim.",
		Rationale:   "Baby working from a home nursery: cute angle for tax tips",
	},
	{
		Title:       "Gen Z Financial Stress",
		Description: "Young adults are stressed about money management and tax responsibilities.",
		Rationale:   "Baby offering tax advice to stressed millennials and Gen Z",
	},
}

// Fixtures returns a copy of the built-in topic list, marked as fixture data
func Fixtures() []models.Topic {
	out := make([]models.Topic, len(fixtureTopics))
	for i, t := range fixtureTopics {
		t.Source = models.TopicSourceFixture
		out[i] = t
	}
	return out
}

// FixtureSource serves the built-in topics without any network access
type FixtureSource struct {
	log *logger.Logger
}

func NewFixtureSource(log *logger.Logger) *FixtureSource {
	return &FixtureSource{log: log}
}

func (s *FixtureSource) Search(_ context.Context, query string) ([]models.Topic, error) {
	s.log.Info("Using fixture trends", "query", query, "reason", "SERPAPI_API_KEY not configured")
	return Fixtures(), nil
}

// FallbackSource queries a live source and falls back to fixtures when it
// fails. The fallback is logged and the topics carry the fixture source tag.
type FallbackSource struct {
	live Source
	log  *logger.Logger
}

func NewFallbackSource(live Source, log *logger.Logger) *FallbackSource {
	return &FallbackSource{live: live, log: log}
}

func (s *FallbackSource) Search(ctx context.Context, query string) ([]models.Topic, error) {
	topics, err := s.live.Search(ctx, query)
	if err == nil && len(topics) > 0 {
		return topics, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if err == nil {
		s.log.Warn("Trend search returned no results, falling back to fixtures", "query", query)
	} else {
		s.log.Warn("Trend search failed, falling back to fixtures", "query", query, "error", err)
	}
	return Fixtures(), nil
}
