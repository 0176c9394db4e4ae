package trends

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/mclantax/content-pipeline/internal/models"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

const defaultSerpAPIURL = "https://serpapi.com/search"

// SerpAPIConfig configures SerpAPIClient
type SerpAPIConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	MaxResults        int
}

// SerpAPIClient searches Google through SerpAPI
type SerpAPIClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	config      SerpAPIConfig
}

type serpResponse struct {
	OrganicResults []struct {
		Title   string `json:"title"`
		Snippet string `json:"snippet"`
		Link    string `json:"link"`
	} `json:"organic_results"`
	Error string `json:"error"`
}

func NewSerpAPIClient(cfg SerpAPIConfig) *SerpAPIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultSerpAPIURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerMinute == 0 {
		cfg.RequestsPerMinute = 30
	}
	if cfg.MaxResults <= 0 || cfg.MaxResults > MaxResults {
		cfg.MaxResults = MaxResults
	}

	return &SerpAPIClient{
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		rateLimiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		config:      cfg,
	}
}

// Search returns the top organic results in upstream rank order
func (c *SerpAPIClient) Search(ctx context.Context, query string) ([]models.Topic, error) {
	if strings.TrimSpace(query) == "" {
		return nil, apperrors.ValidationError("query", "cannot be empty")
	}
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter wait: %w", err)
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("api_key", c.config.APIKey)
	params.Set("engine", "google")
	params.Set("num", "10")
	params.Set("gl", "us")
	params.Set("hl", "en")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.config.BaseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.UpstreamTransport("serpapi", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, apperrors.New(apperrors.ErrCodeRateLimited, "serpapi quota exceeded")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, apperrors.UpstreamRejected("serpapi", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result serpResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperrors.UpstreamTransport("serpapi", fmt.Errorf("decode response: %w", err))
	}
	if result.Error != "" {
		return nil, apperrors.UpstreamRejected("serpapi", resp.StatusCode, result.Error)
	}

	topics := make([]models.Topic, 0, c.config.MaxResults)
	for _, r := range result.OrganicResults {
		if len(topics) == c.config.MaxResults {
			break
		}
		if r.Title == "" {
			continue
		}
		topics = append(topics, models.Topic{
			Title:       r.Title,
			Description: r.Snippet,
			Link:        r.Link,
			Source:      models.TopicSourceSerpAPI,
		})
	}
	return topics, nil
}
