package publisher

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/mclantax/content-pipeline/internal/models"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// Request describes one publish across platforms
type Request struct {
	VideoRef   string
	Copy       models.PlatformCopy
	Platforms  []string
	ScheduleAt *time.Time
}

// Publisher posts a video to social platforms and reports per-platform outcomes.
// A failure on one platform never affects another.
type Publisher interface {
	Publish(ctx context.Context, req Request) (models.PublishReport, error)
}

// Receipt identifies a created post
type Receipt struct {
	PostID string
	URL    string
}

// Client posts to a single platform
type Client interface {
	Platform() string
	Post(ctx context.Context, videoRef, caption string) (Receipt, error)
}

// Options tune retries and pacing
type Options struct {
	MaxAttempts int
	Backoff     time.Duration
	RatePerMin  int
	Timeout     time.Duration
}

// MultiPublisher fans a request out to one Client per platform
type MultiPublisher struct {
	clients   map[string]Client
	limiters  map[string]*rate.Limiter
	platforms []string
	opts      Options
	log       *logger.Logger
}

// NewMultiPublisher creates a publisher. platforms is the default target list.
func NewMultiPublisher(clients []Client, platforms []string, opts Options, log *logger.Logger) *MultiPublisher {
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 3
	}
	if opts.Backoff <= 0 {
		opts.Backoff = 2 * time.Second
	}
	if opts.RatePerMin <= 0 {
		opts.RatePerMin = 30
	}

	p := &MultiPublisher{
		clients:   make(map[string]Client, len(clients)),
		limiters:  make(map[string]*rate.Limiter, len(clients)),
		platforms: platforms,
		opts:      opts,
		log:       log,
	}
	for _, c := range clients {
		p.clients[c.Platform()] = c
		p.limiters[c.Platform()] = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RatePerMin)), 1)
	}
	return p
}

// Publish posts to every requested platform concurrently. The returned
// error is only non-nil for an invalid request; per-platform failures are
// reported in the results.
func (p *MultiPublisher) Publish(ctx context.Context, req Request) (models.PublishReport, error) {
	if req.VideoRef == "" {
		return models.PublishReport{}, apperrors.ValidationError("video", "reference is required")
	}
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = p.platforms
	}

	results := make([]models.PostResult, len(platforms))
	g, gctx := errgroup.WithContext(ctx)
	for i, platform := range platforms {
		g.Go(func() error {
			results[i] = p.publishOne(gctx, platform, req)
			return nil
		})
	}
	_ = g.Wait()

	report := models.PublishReport{Results: results}
	p.log.Info("Publish finished", "video", req.VideoRef,
		"succeeded", len(report.Succeeded()), "failed", len(report.Failed()))
	return report, nil
}

func (p *MultiPublisher) publishOne(ctx context.Context, platform string, req Request) models.PostResult {
	result := models.PostResult{Platform: platform}

	client, ok := p.clients[platform]
	if !ok {
		result.Status = models.PostStatusFailed
		result.Error = fmt.Sprintf("unsupported platform: %s", platform)
		return result
	}
	caption, ok := req.Copy[platform]
	if !ok {
		result.Status = models.PostStatusFailed
		result.Error = "no copy for platform"
		return result
	}

	if req.ScheduleAt != nil {
		at := req.ScheduleAt.UTC()
		result.Status = models.PostStatusScheduled
		result.ScheduledFor = &at
		result.Message = "Scheduled for " + at.Format("2006-01-02 15:04:05")
		return result
	}

	attempts := 0
	receipt, err := backoff.Retry(ctx, func() (Receipt, error) {
		attempts++
		if err := p.limiters[platform].Wait(ctx); err != nil {
			return Receipt{}, backoff.Permanent(err)
		}

		postCtx := ctx
		if p.opts.Timeout > 0 {
			var cancel context.CancelFunc
			postCtx, cancel = context.WithTimeout(ctx, p.opts.Timeout)
			defer cancel()
		}

		r, err := client.Post(postCtx, req.VideoRef, caption)
		if err != nil && !apperrors.IsRetryable(err) {
			return Receipt{}, backoff.Permanent(err)
		}
		return r, err
	},
		backoff.WithBackOff(newLinearBackOff(p.opts.Backoff)),
		backoff.WithMaxTries(uint(p.opts.MaxAttempts)),
		backoff.WithNotify(func(err error, d time.Duration) {
			p.log.Warn("Publish attempt failed, retrying", "platform", platform, "retry_in", d, "error", err)
		}),
	)

	result.Attempts = attempts
	if err != nil {
		p.log.Error("Publish failed", "platform", platform, "attempts", attempts, "error", err)
		result.Status = models.PostStatusFailed
		result.Error = err.Error()
		return result
	}

	result.Status = models.PostStatusPosted
	result.PostID = receipt.PostID
	result.URL = receipt.URL
	result.Message = "Posted successfully"
	return result
}

// HoldForReview records every platform as held. Generated videos go through
// it so they reach the review store as pending; posting happens on approval.
type HoldForReview struct {
	platforms []string
}

func NewHoldForReview(platforms []string) *HoldForReview {
	return &HoldForReview{platforms: platforms}
}

func (h *HoldForReview) Publish(_ context.Context, req Request) (models.PublishReport, error) {
	if req.VideoRef == "" {
		return models.PublishReport{}, apperrors.ValidationError("video", "reference is required")
	}
	platforms := req.Platforms
	if len(platforms) == 0 {
		platforms = h.platforms
	}
	results := make([]models.PostResult, 0, len(platforms))
	for _, platform := range platforms {
		results = append(results, models.PostResult{
			Platform: platform,
			Status:   models.PostStatusHeld,
			Message:  "Awaiting review",
		})
	}
	return models.PublishReport{Results: results}, nil
}

// linearBackOff waits step, 2*step, 3*step, ...
type linearBackOff struct {
	step time.Duration
	n    int
}

func newLinearBackOff(step time.Duration) *linearBackOff {
	return &linearBackOff{step: step}
}

func (b *linearBackOff) NextBackOff() time.Duration {
	b.n++
	return time.Duration(b.n) * b.step
}

func (b *linearBackOff) Reset() { b.n = 0 }
