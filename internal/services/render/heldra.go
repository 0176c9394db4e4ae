package render

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mclantax/content-pipeline/internal/models"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

const (
	defaultHeldraURL    = "https://api.heldra.com/v1"
	defaultPollInterval = 5 * time.Second
	defaultMaxAttempts  = 60
)

// Job states reported by the status endpoint
const (
	jobCompleted = "completed"
	jobFailed    = "failed"
)

// HeldraConfig configures HeldraClient
type HeldraConfig struct {
	APIKey       string
	BaseURL      string
	Timeout      time.Duration
	PollInterval time.Duration
	MaxAttempts  int
}

// HeldraClient submits a render job and polls it until a terminal state
type HeldraClient struct {
	httpClient *http.Client
	config     HeldraConfig
	log        *logger.Logger
}

type voiceSettings struct {
	Style   VoiceStyle `json:"style"`
	Speed   float64    `json:"speed"`
	Pitch   string     `json:"pitch"`
	Emotion string     `json:"emotion"`
}

type visualSettings struct {
	Style       VisualStyle `json:"style"`
	AspectRatio string      `json:"aspect_ratio"`
	Duration    string      `json:"duration"`
	Background  string      `json:"background"`
	Character   string      `json:"character"`
}

type generateRequest struct {
	Script         string         `json:"script"`
	VoiceSettings  voiceSettings  `json:"voice_settings"`
	VisualSettings visualSettings `json:"visual_settings"`
	Format         string         `json:"format"`
	Quality        string         `json:"quality"`
}

type generateResponse struct {
	JobID string `json:"job_id"`
}

type statusResponse struct {
	Status   string  `json:"status"`
	VideoURL string  `json:"video_url"`
	Error    string  `json:"error"`
	Progress float64 `json:"progress"`
	Duration float64 `json:"duration"`
}

func NewHeldraClient(cfg HeldraConfig, log *logger.Logger) *HeldraClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultHeldraURL
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 30 * time.Second
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = defaultPollInterval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	return &HeldraClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		config:     cfg,
		log:        log,
	}
}

// Render submits the script and waits for the generated video
func (c *HeldraClient) Render(ctx context.Context, script models.Script, opts Options) (models.VideoAsset, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return models.VideoAsset{}, err
	}
	if script.Text == "" {
		return models.VideoAsset{}, apperrors.ValidationError("script", "cannot be empty")
	}

	jobID, err := c.submit(ctx, script.Text, opts)
	if err != nil {
		return models.VideoAsset{}, err
	}
	c.log.Info("Render job submitted", "job_id", jobID, "voice", opts.Voice, "visual", opts.Visual)

	status, err := c.poll(ctx, jobID)
	if err != nil {
		return models.VideoAsset{}, err
	}

	duration := status.Duration
	if duration == 0 {
		duration = script.EstimatedDurationSeconds
	}
	return models.VideoAsset{
		ID:              uuid.New().String(),
		SourceReference: status.VideoURL,
		Format:          "mp4",
		Resolution:      "1080x1920",
		AspectRatio:     "9:16",
		DurationSeconds: duration,
	}, nil
}

func (c *HeldraClient) submit(ctx context.Context, text string, opts Options) (string, error) {
	payload := generateRequest{
		Script: text,
		VoiceSettings: voiceSettings{
			Style:   opts.Voice,
			Speed:   1.1,
			Pitch:   "high",
			Emotion: "playful",
		},
		VisualSettings: visualSettings{
			Style:       opts.Visual,
			AspectRatio: "9:16",
			Duration:    "auto",
			Background:  "nursery_themed",
			Character:   "animated_baby",
		},
		Format:  "mp4",
		Quality: "1080p",
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	var out generateResponse
	if err := c.do(ctx, http.MethodPost, c.config.BaseURL+"/generate", body, &out); err != nil {
		return "", err
	}
	if out.JobID == "" {
		return "", apperrors.UpstreamRejected("heldra", http.StatusOK, "response has no job_id")
	}
	return out.JobID, nil
}

// poll checks the job status at the configured interval. Running out of
// attempts is a GenerationTimeout, distinct from an upstream failure.
func (c *HeldraClient) poll(ctx context.Context, jobID string) (*statusResponse, error) {
	statusURL := c.config.BaseURL + "/status/" + url.PathEscape(jobID)

	ticker := time.NewTicker(c.config.PollInterval)
	defer ticker.Stop()

	for attempt := 1; attempt <= c.config.MaxAttempts; attempt++ {
		var status statusResponse
		if err := c.do(ctx, http.MethodGet, statusURL, nil, &status); err != nil {
			return nil, err
		}

		switch status.Status {
		case jobCompleted:
			if status.VideoURL == "" {
				return nil, apperrors.UpstreamRejected("heldra", http.StatusOK, "completed job has no video_url")
			}
			c.log.Info("Render job completed", "job_id", jobID, "attempts", attempt, "url", status.VideoURL)
			return &status, nil
		case jobFailed:
			msg := status.Error
			if msg == "" {
				msg = "unknown error"
			}
			return nil, apperrors.UpstreamRejected("heldra", http.StatusOK, msg).WithDetail("job_id", jobID)
		}

		c.log.Debug("Render job pending", "job_id", jobID, "status", status.Status, "attempt", attempt)
		if attempt == c.config.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
	return nil, apperrors.GenerationTimeout("heldra", c.config.MaxAttempts, jobID)
}

func (c *HeldraClient) do(ctx context.Context, method, endpoint string, body []byte, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return apperrors.UpstreamTransport("heldra", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return apperrors.UpstreamRejected("heldra", resp.StatusCode, strings.TrimSpace(string(msg)))
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return apperrors.UpstreamTransport("heldra", fmt.Errorf("decode response: %w", err))
	}
	return nil
}
