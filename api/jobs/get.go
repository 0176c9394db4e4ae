package jobs

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/models"
	jobsvc "github.com/mclantax/content-pipeline/internal/services/jobs"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

// Get reports the status of a queued job
//
//	@Summary	Job status
//	@Tags		jobs
//	@Produce	json
//	@Param		id	path		int	true	"Job ID"
//	@Success	200	{object}	types.JobResponse
//	@Failure	400	{object}	types.ErrorResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/jobs/{id} [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.JobService == nil {
			types.SendServiceUnavailable(c, "Job queue is not configured")
			return
		}

		id, ok := jobID(c)
		if !ok {
			return
		}

		job, err := deps.JobService.GetJob(c.Request.Context(), id)
		if err != nil {
			sendJobError(c, id, err)
			return
		}

		c.JSON(http.StatusOK, toResponse(job))
	}
}

// jobID parses the :id path parameter, answering 400 when it is not a positive integer
func jobID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		types.SendBadRequest(c, "job id must be a positive integer")
		return 0, false
	}
	return uint(id), true
}

func sendJobError(c *gin.Context, id uint, err error) {
	if errors.Is(err, jobsvc.ErrJobNotFound) {
		types.SendError(c, apperrors.NotFound("job", id))
		return
	}
	types.SendError(c, err)
}

func toResponse(job *models.Job) types.JobResponse {
	resp := types.JobResponse{
		Status:   string(job.Status),
		JobID:    strconv.FormatUint(uint64(job.ID), 10),
		Type:     string(job.Type),
		Stage:    job.Stage,
		Progress: job.Progress,
		Message:  statusMessage(job),
	}
	if job.Status == models.JobStatusCompleted && len(job.Result) > 0 {
		resp.Result = job.Result
	}
	if job.Error != "" {
		resp.Error = &types.JobError{
			Type:    string(job.ErrorType),
			Code:    job.ErrorCode,
			Message: job.Error,
			Details: job.ErrorDetails,
		}
	}
	return resp
}

func statusMessage(job *models.Job) string {
	switch job.Status {
	case models.JobStatusPending:
		return "Job is queued"
	case models.JobStatusProcessing:
		if job.Stage != "" {
			return fmt.Sprintf("Running %s stage", job.Stage)
		}
		return "Job is running"
	case models.JobStatusCompleted:
		return "Job completed"
	case models.JobStatusFailed:
		return fmt.Sprintf("Job failed (attempt %d of %d), will retry", job.RetryCount, job.MaxRetries)
	case models.JobStatusPermanentlyFailed:
		return "Job failed"
	case models.JobStatusCancelled:
		return "Job was cancelled"
	default:
		return string(job.Status)
	}
}
