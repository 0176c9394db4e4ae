package render

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sync"
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

var testScript = models.NewScript("Hey grownups! I heard you are stressed about taxes. Call McLan Tax!")

func TestOptionsNormalize(t *testing.T) {
	opts, err := Options{}.Normalize()
	require.NoError(t, err)
	assert.Equal(t, VoiceBaby, opts.Voice)
	assert.Equal(t, VisualCuteBaby, opts.Visual)

	_, err = Options{Voice: "robot"}.Normalize()
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))

	_, err = Options{Visual: "anime"}.Normalize()
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
}

func TestMockRendererMakesNoNetworkCalls(t *testing.T) {
	var hits atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))
	defer server.Close()

	// A config that only points at the server, with no key, selects the mock.
	cfg := &config.Config{}
	cfg.Providers.Heldra.BaseURL = server.URL
	r := New(cfg, logger.Nop())
	require.IsType(t, &MockRenderer{}, r)

	topic := models.Topic{Title: "Tax Season Memes Go Viral on TikTok"}
	asset, err := r.Render(context.Background(), models.NewScript("A baby talks about "+topic.Title), Options{})
	require.NoError(t, err)

	assert.Regexp(t, regexp.MustCompile(`^https://example\.com/videos/baby_tax_video_\d+\.mp4$`), asset.SourceReference)
	assert.True(t, asset.Mock)
	assert.Equal(t, "9:16", asset.AspectRatio)
	assert.Equal(t, int32(0), hits.Load())
}

func TestMockRendererTimestamp(t *testing.T) {
	m := NewMockRenderer(logger.Nop())
	m.now = func() time.Time { return time.Unix(1701234567, 0) }

	asset, err := m.Render(context.Background(), testScript, Options{Voice: VoiceToddler})
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/videos/baby_tax_video_1701234567.mp4", asset.SourceReference)
	assert.Equal(t, testScript.EstimatedDurationSeconds, asset.DurationSeconds)
}

type heldraStub struct {
	pendingPolls int
	final        map[string]any
	polls        atomic.Int32

	mu       sync.Mutex
	generate map[string]any
}

func (s *heldraStub) generated() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.generate
}

func (s *heldraStub) handler(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")

		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/generate":
			s.mu.Lock()
			assert.NoError(t, json.NewDecoder(r.Body).Decode(&s.generate))
			s.mu.Unlock()
			_ = json.NewEncoder(w).Encode(map[string]string{"job_id": "job-42"})
		case r.Method == http.MethodGet && r.URL.Path == "/status/job-42":
			n := int(s.polls.Add(1))
			if n <= s.pendingPolls {
				_ = json.NewEncoder(w).Encode(map[string]string{"status": "processing"})
				return
			}
			_ = json.NewEncoder(w).Encode(s.final)
		default:
			http.NotFound(w, r)
		}
	}
}

func newTestClient(url string, attempts int) *HeldraClient {
	return NewHeldraClient(HeldraConfig{
		APIKey:       "test-key",
		BaseURL:      url,
		PollInterval: time.Millisecond,
		MaxAttempts:  attempts,
	}, logger.Nop())
}

func TestHeldraClientRender(t *testing.T) {
	tests := []struct {
		name         string
		stub         *heldraStub
		attempts     int
		validateFunc func(t *testing.T, stub *heldraStub, asset models.VideoAsset, err error)
	}{
		{
			name:     "completes after polling",
			stub:     &heldraStub{pendingPolls: 2, final: map[string]any{"status": "completed", "video_url": "https://cdn.heldra.com/v/42.mp4"}},
			attempts: 5,
			validateFunc: func(t *testing.T, stub *heldraStub, asset models.VideoAsset, err error) {
				require.NoError(t, err)
				assert.Equal(t, "https://cdn.heldra.com/v/42.mp4", asset.SourceReference)
				assert.False(t, asset.Mock)
				assert.Equal(t, int32(3), stub.polls.Load())

				generated := stub.generated()
				assert.Equal(t, testScript.Text, generated["script"])
				voice := generated["voice_settings"].(map[string]any)
				assert.Equal(t, "baby", voice["style"])
				assert.Equal(t, 1.1, voice["speed"])
				assert.Equal(t, "high", voice["pitch"])
				visual := generated["visual_settings"].(map[string]any)
				assert.Equal(t, "9:16", visual["aspect_ratio"])
				assert.Equal(t, "animated_baby", visual["character"])
				assert.Equal(t, "1080p", generated["quality"])
			},
		},
		{
			name:     "failed job is an upstream rejection",
			stub:     &heldraStub{final: map[string]any{"status": "failed", "error": "content policy"}},
			attempts: 5,
			validateFunc: func(t *testing.T, _ *heldraStub, _ models.VideoAsset, err error) {
				require.Error(t, err)
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeUpstreamRejected))
				assert.Contains(t, err.Error(), "content policy")
			},
		},
		{
			name:     "attempts exhausted is a generation timeout",
			stub:     &heldraStub{pendingPolls: 100},
			attempts: 3,
			validateFunc: func(t *testing.T, stub *heldraStub, _ models.VideoAsset, err error) {
				assert.True(t, apperrors.Is(err, apperrors.ErrCodeGenerationTimeout))
				assert.False(t, apperrors.Is(err, apperrors.ErrCodeUpstreamRejected))
				assert.Equal(t, int32(3), stub.polls.Load())
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(tt.stub.handler(t))
			defer server.Close()

			asset, err := newTestClient(server.URL, tt.attempts).Render(context.Background(), testScript, Options{})
			tt.validateFunc(t, tt.stub, asset, err)
		})
	}
}

func TestHeldraClientSubmitRejected(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "invalid key", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := newTestClient(server.URL, 3).Render(context.Background(), testScript, Options{})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeUpstreamRejected))
	assert.False(t, apperrors.IsRetryable(err))
}

func TestHeldraClientHonoursCancellation(t *testing.T) {
	stub := &heldraStub{pendingPolls: 1000}
	server := httptest.NewServer(stub.handler(t))
	defer server.Close()

	client := NewHeldraClient(HeldraConfig{APIKey: "test-key", BaseURL: server.URL, PollInterval: time.Hour, MaxAttempts: 60}, logger.Nop())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := client.Render(ctx, testScript, Options{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 5*time.Second)
}

func TestHeldraClientInvalidOptions(t *testing.T) {
	_, err := newTestClient("http://127.0.0.1:1", 1).Render(context.Background(), testScript, Options{Voice: "robot"})
	assert.True(t, apperrors.Is(err, apperrors.ErrCodeInvalidInput))
}
