package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mclantax/content-pipeline/internal/database"
	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

func setupService(t *testing.T) (Service, *database.DB) {
	t.Helper()
	db, err := database.Initialize(":memory:", false)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate())
	return NewService(NewRepository(db.DB), logger.Nop()), db
}

func TestEnqueueAndClaim(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	low, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{"query": "tax"})
	require.NoError(t, err)
	high, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{"query": "crypto"}, WithPriority(5), WithCreatedBy("api"))
	require.NoError(t, err)
	assert.Equal(t, DefaultMaxRetries, low.MaxRetries)

	claimed, err := svc.ClaimNextJob(ctx, "worker-1", []models.JobType{models.JobTypePipelineRun})
	require.NoError(t, err)
	assert.Equal(t, high.ID, claimed.ID)
	assert.Equal(t, models.JobStatusProcessing, claimed.Status)
	assert.Equal(t, "worker-1", claimed.WorkerID)

	_, err = svc.ClaimNextJob(ctx, "worker-2", []models.JobType{models.JobTypePublish})
	assert.True(t, errors.Is(err, ErrNoJobsAvailable))

	require.NoError(t, svc.UpdateProgress(ctx, claimed.ID, "render", 55))
	got, err := svc.GetJob(ctx, claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, 55, got.Progress)
	assert.Equal(t, "render", got.Stage)
	assert.Equal(t, "api", got.CreatedBy)

	require.NoError(t, svc.CompleteJob(ctx, claimed.ID, models.JobResult{"video_id": "abc"}))
	status, err := svc.GetJobStatus(ctx, claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusCompleted, status)

	done, err := svc.GetJob(ctx, claimed.ID)
	require.NoError(t, err)
	assert.Equal(t, 100, done.Progress)
	assert.Equal(t, "abc", done.Result["video_id"])
}

func TestFailureRetryBudget(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	job, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{}, WithMaxRetries(2))
	require.NoError(t, err)

	_, err = svc.ClaimNextJob(ctx, "w", nil)
	require.NoError(t, err)
	require.NoError(t, svc.FailJobWithDetails(ctx, job.ID, models.ErrorTypeUpstream, "UPSTREAM_REJECTED", "heldra down", ""))

	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusFailed, got.Status)
	assert.Equal(t, 1, got.RetryCount)
	assert.True(t, got.IsRetryable())

	again, err := svc.ClaimNextJob(ctx, "w", nil)
	require.NoError(t, err)
	assert.Equal(t, job.ID, again.ID)
	assert.Equal(t, 1, again.RetryCount)

	require.NoError(t, svc.FailJob(ctx, job.ID, errors.New("still down")))
	got, err = svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPermanentlyFailed, got.Status)
	assert.Equal(t, string(models.ErrorTypeSystem), got.ErrorType)
	assert.NotNil(t, got.CompletedAt)

	_, err = svc.ClaimNextJob(ctx, "w", nil)
	assert.True(t, errors.Is(err, ErrNoJobsAvailable))

	retried, err := svc.RetryFailedJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, retried.Status)
	assert.Zero(t, retried.RetryCount)
	assert.Empty(t, retried.Error)
}

func TestRetryRejectsActiveJob(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	job, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{})
	require.NoError(t, err)

	_, err = svc.RetryFailedJob(ctx, job.ID)
	assert.True(t, errors.Is(err, ErrJobNotRetryable))

	_, err = svc.GetJob(ctx, 9999)
	assert.True(t, errors.Is(err, ErrJobNotFound))
}

func TestEnqueueUniqueJob(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	first, err := svc.EnqueueUniqueJob(ctx, models.JobTypePublish, models.JobPayload{"video_id": "v1"}, "video_id")
	require.NoError(t, err)
	second, err := svc.EnqueueUniqueJob(ctx, models.JobTypePublish, models.JobPayload{"video_id": "v1"}, "video_id")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	other, err := svc.EnqueueUniqueJob(ctx, models.JobTypePublish, models.JobPayload{"video_id": "v2"}, "video_id")
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, other.ID)

	_, err = svc.EnqueueUniqueJob(ctx, models.JobTypePublish, models.JobPayload{}, "video_id")
	assert.Error(t, err)
}

func TestReleaseJob(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	job, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{})
	require.NoError(t, err)
	_, err = svc.ClaimNextJob(ctx, "w", nil)
	require.NoError(t, err)

	require.NoError(t, svc.ReleaseJob(ctx, job.ID))
	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPending, got.Status)
	assert.Empty(t, got.WorkerID)

	assert.True(t, errors.Is(svc.ReleaseJob(ctx, job.ID), ErrJobNotFound))
}

func TestCleanupOldJobs(t *testing.T) {
	ctx := context.Background()
	svc, db := setupService(t)

	old, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{})
	require.NoError(t, err)
	fresh, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{})
	require.NoError(t, err)
	pending, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{})
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.Job{}).Where("id IN ?", []uint{old.ID, fresh.ID}).
		Update("status", models.JobStatusCompleted).Error)
	require.NoError(t, db.Model(&models.Job{}).Where("id IN ?", []uint{old.ID, pending.ID}).
		Update("created_at", time.Now().AddDate(0, 0, -30)).Error)

	_, err = svc.CleanupOldJobs(ctx, 0)
	assert.Error(t, err)

	deleted, err := svc.CleanupOldJobs(ctx, 7)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = svc.GetJob(ctx, old.ID)
	assert.True(t, errors.Is(err, ErrJobNotFound))
	_, err = svc.GetJob(ctx, pending.ID)
	assert.NoError(t, err)

	list, err := svc.ListJobs(ctx, models.JobStatusCompleted, 10)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, fresh.ID, list[0].ID)
}

func TestValidationFailureIsPermanent(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	job, err := svc.EnqueueJob(ctx, models.JobTypePipelineRun, models.JobPayload{}, WithMaxRetries(5))
	require.NoError(t, err)
	_, err = svc.ClaimNextJob(ctx, "w", nil)
	require.NoError(t, err)

	require.NoError(t, svc.FailJobWithDetails(ctx, job.ID, models.ErrorTypeValidation, "INVALID_INPUT", "invalid voice", ""))
	got, err := svc.GetJob(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, models.JobStatusPermanentlyFailed, got.Status)
	assert.Equal(t, "INVALID_INPUT", got.ErrorCode)
}
