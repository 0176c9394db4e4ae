package jobs

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/database"
	"github.com/mclantax/content-pipeline/internal/models"
	jobsvc "github.com/mclantax/content-pipeline/internal/services/jobs"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

func setup(t *testing.T) (*gin.Engine, jobsvc.Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate())

	svc := jobsvc.NewService(jobsvc.NewRepository(db.DB), logger.Nop())
	router := gin.New()
	RegisterRoutes(router.Group("/api/jobs"), &types.Dependencies{JobService: svc})
	return router, svc
}

func get(router *gin.Engine, id string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/jobs/"+id, nil))
	return w
}

func TestGetJobLifecycle(t *testing.T) {
	ctx := context.Background()
	router, svc := setup(t)

	job, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{"query": "tax"})
	require.NoError(t, err)
	id := strconv.FormatUint(uint64(job.ID), 10)

	tests := []struct {
		name             string
		advance          func()
		expectedStatus   string
		expectedProgress int
		expectResult     bool
		expectError      bool
	}{
		{
			name:           "queued",
			advance:        func() {},
			expectedStatus: "pending",
		},
		{
			name: "running",
			advance: func() {
				_, err := svc.ClaimNextJob(ctx, "worker-1", []models.JobType{models.JobTypePipelineRun})
				require.NoError(t, err)
				require.NoError(t, svc.UpdateProgress(ctx, job.ID, "render", 55))
			},
			expectedStatus:   "processing",
			expectedProgress: 55,
		},
		{
			name: "completed",
			advance: func() {
				require.NoError(t, svc.CompleteJob(ctx, job.ID, models.JobResult{"video_id": "abc"}))
			},
			expectedStatus:   "completed",
			expectedProgress: 100,
			expectResult:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.advance()

			w := get(router, id)
			require.Equal(t, http.StatusOK, w.Code)

			var resp types.JobResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.Equal(t, tt.expectedStatus, resp.Status)
			assert.Equal(t, id, resp.JobID)
			assert.Equal(t, "pipeline_run", resp.Type)
			assert.Equal(t, tt.expectedProgress, resp.Progress)
			assert.NotEmpty(t, resp.Message)
			if tt.expectResult {
				result, ok := resp.Result.(map[string]interface{})
				require.True(t, ok)
				assert.Equal(t, "abc", result["video_id"])
			} else {
				assert.Nil(t, resp.Result)
			}
			assert.Nil(t, resp.Error)
		})
	}
}

func TestGetFailedJob(t *testing.T) {
	ctx := context.Background()
	router, svc := setup(t)

	job, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{}, jobsvc.WithMaxRetries(1))
	require.NoError(t, err)
	_, err = svc.ClaimNextJob(ctx, "worker-1", []models.JobType{models.JobTypePipelineRun})
	require.NoError(t, err)
	require.NoError(t, svc.FailJobWithDetails(ctx, job.ID, models.ErrorTypeValidation, "INVALID_INPUT", "invalid voice", "stage=render"))

	w := get(router, strconv.FormatUint(uint64(job.ID), 10))
	require.Equal(t, http.StatusOK, w.Code)

	var resp types.JobResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "permanently_failed", resp.Status)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "validation", resp.Error.Type)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Equal(t, "invalid voice", resp.Error.Message)
	assert.Equal(t, "stage=render", resp.Error.Details)
}

func TestGetErrors(t *testing.T) {
	router, _ := setup(t)

	tests := []struct {
		name           string
		id             string
		expectedStatus int
	}{
		{name: "not a number", id: "abc", expectedStatus: http.StatusBadRequest},
		{name: "zero", id: "0", expectedStatus: http.StatusBadRequest},
		{name: "unknown", id: "999", expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := get(router, tt.id)
			assert.Equal(t, tt.expectedStatus, w.Code)

			var resp types.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}
