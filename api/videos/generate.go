package videos

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/jobs"
	"github.com/mclantax/content-pipeline/internal/services/pipeline"
	"github.com/mclantax/content-pipeline/internal/services/workers"
)

// Generate queues a pipeline run
//
//	@Summary		Generate video
//	@Description	Queues a full pipeline run. Poll status_url for progress; the finished video lands in the review queue as pending.
//	@Tags			videos
//	@Accept			json
//	@Produce		json
//	@Param			request	body		types.GenerateRequest	false	"Run options"
//	@Success		202		{object}	types.GenerateResponse
//	@Failure		400		{object}	types.ErrorResponse
//	@Failure		503		{object}	types.ErrorResponse
//	@Router			/api/videos/generate [post]
func Generate(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.JobService == nil {
			types.SendServiceUnavailable(c, "Job queue is not configured")
			return
		}

		var req types.GenerateRequest
		if c.Request.ContentLength != 0 {
			if !types.BindJSONOrError(c, &req) {
				return
			}
		}

		opts := pipeline.RunOptions{
			Query:        req.Query,
			Voice:        req.Voice,
			Visual:       req.Visual,
			CaptionStyle: req.CaptionStyle,
		}
		if deps.Pipeline != nil {
			if err := deps.Pipeline.Validate(opts); err != nil {
				types.SendError(c, err)
				return
			}
		}

		job, err := deps.JobService.EnqueueJob(c.Request.Context(), models.JobTypePipelineRun,
			workers.PipelinePayload(opts), jobs.WithCreatedBy("api"))
		if err != nil {
			types.SendError(c, err)
			return
		}

		deps.Log().Info("Pipeline run queued", "job_id", job.ID, "query", opts.Query)
		c.JSON(http.StatusAccepted, types.GenerateResponse{
			Success:   true,
			Message:   "Video generation started",
			JobID:     job.ID,
			StatusURL: fmt.Sprintf("/api/jobs/%d", job.ID),
		})
	}
}
