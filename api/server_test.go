package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/services/cache"
	"github.com/mclantax/content-pipeline/internal/services/videos"
	"github.com/mclantax/content-pipeline/pkg/config"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()
	return newTestServerWithCache(t, cfg, nil)
}

func newTestServerWithCache(t *testing.T, cfg *config.Config, c cache.Cache) *Server {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo, err := videos.NewFileRepository(filepath.Join(t.TempDir(), "videos.json"))
	require.NoError(t, err)

	s := NewServer(":0", cfg)
	s.SetDependencies(&types.Dependencies{
		VideoService: videos.NewService(repo, nil, logger.Nop()),
		Cache:        c,
		Mode:         types.ModeDemo,
		Version:      "test",
	})
	require.NoError(t, s.Initialize())
	t.Cleanup(s.rateLimiters.Stop)
	return s
}

func TestServerRoutes(t *testing.T) {
	s := newTestServer(t, &config.Config{
		Security: config.SecurityConfig{EnableCORS: true, CORSOrigins: []string{"*"}},
	})

	tests := []struct {
		name           string
		method         string
		path           string
		expectedStatus int
	}{
		{name: "health", method: http.MethodGet, path: "/health", expectedStatus: http.StatusOK},
		{name: "version", method: http.MethodGet, path: "/", expectedStatus: http.StatusOK},
		{name: "docs redirect", method: http.MethodGet, path: "/docs", expectedStatus: http.StatusMovedPermanently},
		{name: "stats", method: http.MethodGet, path: "/api/stats", expectedStatus: http.StatusOK},
		{name: "list videos", method: http.MethodGet, path: "/api/videos", expectedStatus: http.StatusOK},
		{name: "generate without queue", method: http.MethodPost, path: "/api/videos/generate", expectedStatus: http.StatusServiceUnavailable},
		{name: "unknown route", method: http.MethodGet, path: "/api/unknown", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			s.Engine().ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.NotEmpty(t, w.Header().Get(RequestIDHeader))
		})
	}
}

func TestServerNotFoundBody(t *testing.T) {
	s := newTestServer(t, &config.Config{})

	w := httptest.NewRecorder()
	s.Engine().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, w.Code)

	var resp types.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.Equal(t, "NOT_FOUND", resp.Error)
	assert.Contains(t, resp.Message, "/nope")
}

func TestServerRateLimitGroups(t *testing.T) {
	s := newTestServer(t, &config.Config{
		RateLimit: config.RateLimitConfig{
			Enabled:   true,
			Endpoints: map[string]int{"review": 1, "default": 100},
		},
	})

	do := func(path string) int {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.RemoteAddr = "10.0.0.1:1234"
		s.Engine().ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, do("/api/videos"))
	assert.Equal(t, http.StatusTooManyRequests, do("/api/videos"))
	assert.Equal(t, http.StatusOK, do("/api/stats"))
	assert.Equal(t, http.StatusOK, do("/health"))
}

func TestServerStatsResponseCache(t *testing.T) {
	mc := cache.NewMemoryCache(0)
	t.Cleanup(func() { _ = mc.Close() })
	s := newTestServerWithCache(t, &config.Config{
		Cache: config.CacheConfig{ResponseTTL: time.Minute},
	}, mc)

	first := httptest.NewRecorder()
	s.Engine().ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	second := httptest.NewRecorder()
	s.Engine().ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/api/stats", nil))

	assert.Equal(t, "MISS", first.Header().Get("X-Cache"))
	assert.Equal(t, "HIT", second.Header().Get("X-Cache"))
	assert.JSONEq(t, first.Body.String(), second.Body.String())

	// reviews are never cached
	list := httptest.NewRecorder()
	s.Engine().ServeHTTP(list, httptest.NewRequest(http.MethodGet, "/api/videos", nil))
	assert.Empty(t, list.Header().Get("X-Cache"))
}
