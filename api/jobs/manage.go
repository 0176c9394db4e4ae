package jobs

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/models"
	jobsvc "github.com/mclantax/content-pipeline/internal/services/jobs"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

var listableStatuses = []models.JobStatus{
	models.JobStatusPending,
	models.JobStatusProcessing,
	models.JobStatusCompleted,
	models.JobStatusFailed,
	models.JobStatusPermanentlyFailed,
	models.JobStatusCancelled,
}

// List returns jobs in one status, newest first
//
//	@Summary	List jobs
//	@Tags		jobs
//	@Produce	json
//	@Param		status	query		string	false	"Job status (default pending)"
//	@Param		limit	query		int		false	"Maximum jobs (default 20, max 100)"
//	@Success	200		{object}	types.JobListResponse
//	@Failure	400		{object}	types.ErrorResponse
//	@Router		/api/jobs [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.JobService == nil {
			types.SendServiceUnavailable(c, "Job queue is not configured")
			return
		}

		status, ok := parseStatus(c.DefaultQuery("status", string(models.JobStatusPending)))
		if !ok {
			allowed := make([]string, len(listableStatuses))
			for i, s := range listableStatuses {
				allowed[i] = string(s)
			}
			types.SendError(c, apperrors.InvalidInput("status", c.Query("status"), allowed))
			return
		}

		limit := defaultListLimit
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n <= 0 {
				types.SendBadRequest(c, "limit must be a positive integer")
				return
			}
			limit = min(n, maxListLimit)
		}

		list, err := deps.JobService.ListJobs(c.Request.Context(), status, limit)
		if err != nil {
			types.SendError(c, err)
			return
		}

		resp := types.JobListResponse{Status: string(status), Jobs: make([]types.JobResponse, 0, len(list))}
		for _, job := range list {
			resp.Jobs = append(resp.Jobs, toResponse(job))
		}
		resp.Count = len(resp.Jobs)
		c.JSON(http.StatusOK, resp)
	}
}

// Retry puts a failed job back on the queue with a fresh retry budget
//
//	@Summary	Retry a failed job
//	@Tags		jobs
//	@Produce	json
//	@Param		id	path		int	true	"Job ID"
//	@Success	202	{object}	types.JobResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Failure	409	{object}	types.ErrorResponse
//	@Router		/api/jobs/{id}/retry [post]
func Retry(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.JobService == nil {
			types.SendServiceUnavailable(c, "Job queue is not configured")
			return
		}
		id, ok := jobID(c)
		if !ok {
			return
		}

		job, err := deps.JobService.RetryFailedJob(c.Request.Context(), id)
		if errors.Is(err, jobsvc.ErrJobNotRetryable) {
			from := "active"
			if current, getErr := deps.JobService.GetJob(c.Request.Context(), id); getErr == nil {
				from = string(current.Status)
			}
			types.SendError(c, apperrors.InvalidTransition("job", from, string(models.JobStatusPending)).WithCause(err))
			return
		}
		if err != nil {
			sendJobError(c, id, err)
			return
		}

		deps.Log().Info("Job requeued", "job_id", id)
		c.JSON(http.StatusAccepted, toResponse(job))
	}
}

// Delete removes a permanently failed job
//
//	@Summary	Delete a permanently failed job
//	@Tags		jobs
//	@Produce	json
//	@Param		id	path		int	true	"Job ID"
//	@Success	200	{object}	types.ActionResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/jobs/{id} [delete]
func Delete(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.JobService == nil {
			types.SendServiceUnavailable(c, "Job queue is not configured")
			return
		}
		id, ok := jobID(c)
		if !ok {
			return
		}

		if err := deps.JobService.DeletePermanentlyFailedJob(c.Request.Context(), id); err != nil {
			sendJobError(c, id, err)
			return
		}
		c.JSON(http.StatusOK, types.ActionResponse{Success: true, Message: "Job deleted"})
	}
}

func parseStatus(raw string) (models.JobStatus, bool) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	for _, s := range listableStatuses {
		if string(s) == raw {
			return s, true
		}
	}
	return "", false
}
