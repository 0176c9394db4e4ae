package publisher

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/pkg/config"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// scriptedClient returns the queued errors in order, then succeeds
type scriptedClient struct {
	platform string
	errs     []error
	calls    atomic.Int32
}

func (s *scriptedClient) Platform() string { return s.platform }

func (s *scriptedClient) Post(ctx context.Context, videoRef, caption string) (Receipt, error) {
	n := int(s.calls.Add(1))
	if n <= len(s.errs) {
		return Receipt{}, s.errs[n-1]
	}
	return Receipt{PostID: s.platform + "_1", URL: "https://example.com/" + s.platform}, nil
}

var testCopy = models.PlatformCopy{
	models.PlatformTikTok:        "tt",
	models.PlatformInstagram:     "ig",
	models.PlatformYouTubeShorts: "yt",
}

var allPlatforms = []string{models.PlatformTikTok, models.PlatformInstagram, models.PlatformYouTubeShorts}

func fastOptions() Options {
	return Options{MaxAttempts: 3, Backoff: time.Millisecond, RatePerMin: 60000}
}

func resultFor(t *testing.T, r models.PublishReport, platform string) models.PostResult {
	t.Helper()
	for _, res := range r.Results {
		if res.Platform == platform {
			return res
		}
	}
	t.Fatalf("no result for %s", platform)
	return models.PostResult{}
}

func TestMultiPublisherPublish(t *testing.T) {
	transient := apperrors.UpstreamTransport("tiktok", errors.New("connection reset"))
	rejected := apperrors.UpstreamRejected("instagram", 400, "bad caption")

	tests := []struct {
		name         string
		clients      []*scriptedClient
		req          Request
		validateFunc func(t *testing.T, clients []*scriptedClient, r models.PublishReport)
	}{
		{
			name: "all platforms post",
			clients: []*scriptedClient{
				{platform: models.PlatformTikTok},
				{platform: models.PlatformInstagram},
				{platform: models.PlatformYouTubeShorts},
			},
			req: Request{VideoRef: "v.mp4", Copy: testCopy},
			validateFunc: func(t *testing.T, _ []*scriptedClient, r models.PublishReport) {
				require.Len(t, r.Results, 3)
				assert.ElementsMatch(t, allPlatforms, r.Succeeded())
				for i, p := range allPlatforms {
					assert.Equal(t, p, r.Results[i].Platform, "results keep request order")
				}
			},
		},
		{
			name: "transient failure is retried",
			clients: []*scriptedClient{
				{platform: models.PlatformTikTok, errs: []error{transient, transient}},
				{platform: models.PlatformInstagram},
				{platform: models.PlatformYouTubeShorts},
			},
			req: Request{VideoRef: "v.mp4", Copy: testCopy},
			validateFunc: func(t *testing.T, clients []*scriptedClient, r models.PublishReport) {
				res := resultFor(t, r, models.PlatformTikTok)
				assert.Equal(t, models.PostStatusPosted, res.Status)
				assert.Equal(t, 3, res.Attempts)
				assert.Equal(t, int32(3), clients[0].calls.Load())
			},
		},
		{
			name: "rejection is permanent and isolated",
			clients: []*scriptedClient{
				{platform: models.PlatformTikTok},
				{platform: models.PlatformInstagram, errs: []error{rejected}},
				{platform: models.PlatformYouTubeShorts},
			},
			req: Request{VideoRef: "v.mp4", Copy: testCopy},
			validateFunc: func(t *testing.T, clients []*scriptedClient, r models.PublishReport) {
				res := resultFor(t, r, models.PlatformInstagram)
				assert.Equal(t, models.PostStatusFailed, res.Status)
				assert.Equal(t, 1, res.Attempts)
				assert.Contains(t, res.Error, "bad caption")
				assert.ElementsMatch(t, []string{models.PlatformTikTok, models.PlatformYouTubeShorts}, r.Succeeded())
			},
		},
		{
			name: "gives up after max attempts",
			clients: []*scriptedClient{
				{platform: models.PlatformTikTok, errs: []error{transient, transient, transient, transient}},
			},
			req: Request{VideoRef: "v.mp4", Copy: testCopy, Platforms: []string{models.PlatformTikTok}},
			validateFunc: func(t *testing.T, clients []*scriptedClient, r models.PublishReport) {
				res := resultFor(t, r, models.PlatformTikTok)
				assert.Equal(t, models.PostStatusFailed, res.Status)
				assert.Equal(t, 3, res.Attempts)
				assert.Equal(t, int32(3), clients[0].calls.Load())
			},
		},
		{
			name: "schedule echoes time and posts nothing",
			clients: []*scriptedClient{
				{platform: models.PlatformTikTok},
				{platform: models.PlatformInstagram},
				{platform: models.PlatformYouTubeShorts},
			},
			req: func() Request {
				at := time.Date(2025, 4, 1, 9, 30, 0, 0, time.UTC)
				return Request{VideoRef: "v.mp4", Copy: testCopy, ScheduleAt: &at}
			}(),
			validateFunc: func(t *testing.T, clients []*scriptedClient, r models.PublishReport) {
				for _, res := range r.Results {
					assert.Equal(t, models.PostStatusScheduled, res.Status)
					require.NotNil(t, res.ScheduledFor)
					assert.Equal(t, "2025-04-01T09:30:00Z", res.ScheduledFor.Format(time.RFC3339))
				}
				for _, c := range clients {
					assert.Equal(t, int32(0), c.calls.Load())
				}
				assert.Len(t, r.Succeeded(), 3)
			},
		},
		{
			name:    "unknown platform fails alone",
			clients: []*scriptedClient{{platform: models.PlatformTikTok}},
			req:     Request{VideoRef: "v.mp4", Copy: testCopy, Platforms: []string{models.PlatformTikTok, "myspace"}},
			validateFunc: func(t *testing.T, _ []*scriptedClient, r models.PublishReport) {
				assert.Equal(t, models.PostStatusPosted, resultFor(t, r, models.PlatformTikTok).Status)
				assert.Equal(t, models.PostStatusFailed, resultFor(t, r, "myspace").Status)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clients := make([]Client, len(tt.clients))
			for i, c := range tt.clients {
				clients[i] = c
			}
			p := NewMultiPublisher(clients, allPlatforms, fastOptions(), logger.Nop())

			report, err := p.Publish(context.Background(), tt.req)
			require.NoError(t, err)
			tt.validateFunc(t, tt.clients, report)
		})
	}
}

func TestMultiPublisherRequiresVideo(t *testing.T) {
	p := NewMultiPublisher(nil, allPlatforms, fastOptions(), logger.Nop())
	_, err := p.Publish(context.Background(), Request{Copy: testCopy})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeValidation))
}

func TestHoldForReview(t *testing.T) {
	h := NewHoldForReview(allPlatforms)
	r, err := h.Publish(context.Background(), Request{VideoRef: "v.mp4", Copy: testCopy})
	require.NoError(t, err)
	require.Len(t, r.Results, 3)
	for _, res := range r.Results {
		assert.Equal(t, models.PostStatusHeld, res.Status)
	}
	assert.Empty(t, r.Succeeded())
	assert.Empty(t, r.Failed())
}

func TestMockClient(t *testing.T) {
	tests := []struct {
		platform string
		wantURL  string
	}{
		{models.PlatformTikTok, "https://tiktok.com/@mclantax/video/tiktok_1700000000"},
		{models.PlatformInstagram, "https://instagram.com/p/instagram_1700000000"},
		{models.PlatformYouTubeShorts, "https://youtube.com/shorts/youtube_shorts_1700000000"},
	}
	for _, tt := range tests {
		t.Run(tt.platform, func(t *testing.T) {
			m := NewMockClient(tt.platform, "@mclantax", logger.Nop())
			m.now = func() time.Time { return time.Unix(1700000000, 0) }
			r, err := m.Post(context.Background(), "captioned_video_1.mp4", "caption")
			require.NoError(t, err)
			assert.Equal(t, tt.platform+"_1700000000", r.PostID)
			assert.Equal(t, tt.wantURL, r.URL)
		})
	}
}

func TestLinearBackOff(t *testing.T) {
	b := newLinearBackOff(2 * time.Second)
	assert.Equal(t, 2*time.Second, b.NextBackOff())
	assert.Equal(t, 4*time.Second, b.NextBackOff())
	assert.Equal(t, 6*time.Second, b.NextBackOff())
	b.Reset()
	assert.Equal(t, 2*time.Second, b.NextBackOff())
}

func TestNew(t *testing.T) {
	cfg := &config.Config{}
	cfg.Brand.Handle = "@mclantax"
	cfg.Pipeline.Platforms = allPlatforms
	cfg.Providers.TikTok.AccessToken = "real-token"

	p := New(cfg, true, logger.Nop())
	assert.IsType(t, &TikTokClient{}, p.clients[models.PlatformTikTok])
	assert.IsType(t, &MockClient{}, p.clients[models.PlatformInstagram])

	p = New(cfg, false, logger.Nop())
	assert.IsType(t, &MockClient{}, p.clients[models.PlatformTikTok])
}
