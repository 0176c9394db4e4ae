package videos

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/jobs"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

// Approve publishes a pending video and marks it approved
//
//	@Summary		Approve video
//	@Description	Posts the video to every configured platform. Succeeds when at least one platform accepts it.
//	@Description	With async=true the post is queued as a publish job and 202 is returned.
//	@Tags			videos
//	@Produce		json
//	@Param			id		path		string	true	"Video ID"
//	@Param			async	query		bool	false	"Queue the publish instead of waiting"
//	@Success		200		{object}	types.ApproveResponse
//	@Success		202		{object}	types.GenerateResponse
//	@Failure		404		{object}	types.ErrorResponse
//	@Failure		409		{object}	types.ErrorResponse
//	@Failure		502		{object}	types.ErrorResponse
//	@Router			/api/videos/{id}/approve [post]
func Approve(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.VideoService == nil {
			types.SendServiceUnavailable(c, "Review store is not configured")
			return
		}
		id := c.Param("id")

		if strings.EqualFold(c.Query("async"), "true") && deps.JobService != nil {
			approveAsync(c, deps, id)
			return
		}

		result, err := deps.VideoService.Approve(c.Request.Context(), id)
		if err != nil {
			deps.Log().Warn("Approve failed", "video_id", id, "error", err)
			types.SendError(c, err)
			return
		}

		platforms := []string(result.Video.PostedPlatforms)
		c.JSON(http.StatusOK, types.ApproveResponse{
			Success:   true,
			Message:   fmt.Sprintf("Video approved and posted to %s", strings.Join(platforms, ", ")),
			Platforms: platforms,
			Results:   result.Report.Results,
		})
	}
}

func approveAsync(c *gin.Context, deps *types.Dependencies, id string) {
	record, err := deps.VideoService.Get(c.Request.Context(), id)
	if err != nil {
		types.SendError(c, err)
		return
	}
	if !record.CanTransition(models.VideoStatusApproved) {
		types.SendError(c, apperrors.InvalidTransition("video", string(record.Status), string(models.VideoStatusApproved)))
		return
	}

	job, err := deps.JobService.EnqueueUniqueJob(c.Request.Context(), models.JobTypePublish,
		models.JobPayload{"video_id": id}, "video_id",
		jobs.WithCreatedBy("api"), jobs.WithMaxRetries(1))
	if err != nil {
		types.SendError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, types.GenerateResponse{
		Success:   true,
		Message:   "Publish queued",
		JobID:     job.ID,
		StatusURL: fmt.Sprintf("/api/jobs/%d", job.ID),
	})
}

// Reject marks a pending video rejected
//
//	@Summary	Reject video
//	@Tags		videos
//	@Produce	json
//	@Param		id	path		string	true	"Video ID"
//	@Success	200	{object}	types.ActionResponse
//	@Failure	404	{object}	types.ErrorResponse
//	@Failure	409	{object}	types.ErrorResponse
//	@Router		/api/videos/{id}/reject [post]
func Reject(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.VideoService == nil {
			types.SendServiceUnavailable(c, "Review store is not configured")
			return
		}

		if _, err := deps.VideoService.Reject(c.Request.Context(), c.Param("id")); err != nil {
			types.SendError(c, err)
			return
		}
		c.JSON(http.StatusOK, types.ActionResponse{Success: true, Message: "Video rejected"})
	}
}
