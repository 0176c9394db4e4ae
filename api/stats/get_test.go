package stats

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/videos"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

func TestGet(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	repo, err := videos.NewFileRepository(filepath.Join(t.TempDir(), "videos.json"))
	require.NoError(t, err)
	svc := videos.NewService(repo, nil, logger.Nop())

	for _, trend := range []string{"tax memes", "crypto", "inflation"} {
		require.NoError(t, svc.Create(ctx, &models.VideoRecord{Trend: trend}))
	}
	pending, err := svc.List(ctx, "pending", 1)
	require.NoError(t, err)
	_, err = svc.Reject(ctx, pending[0].ID)
	require.NoError(t, err)

	router := gin.New()
	RegisterRoutes(router.Group("/api/stats"), &types.Dependencies{VideoService: svc})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.StatsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(2), resp.Pending)
	assert.Equal(t, int64(0), resp.Approved)
	assert.Equal(t, int64(1), resp.Rejected)
	assert.Equal(t, int64(3), resp.RecentVideos)
	assert.Equal(t, int64(3), resp.TotalVideos)
	assert.Equal(t, resp.TotalVideos, resp.Pending+resp.Approved+resp.Rejected)
}

func TestGetWithoutStore(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	RegisterRoutes(router.Group("/api/stats"), &types.Dependencies{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
