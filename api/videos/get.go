package videos

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
)

// List returns review records filtered by status
//
//	@Summary		List videos
//	@Description	Lists review records newest first. Status defaults to pending.
//	@Tags			videos
//	@Produce		json
//	@Param			status	query		string	false	"pending, approved or rejected"	default(pending)
//	@Param			limit	query		int		false	"Maximum records (1-100)"		default(20)
//	@Success		200		{array}		models.VideoRecord
//	@Failure		400		{object}	types.ErrorResponse
//	@Router			/api/videos [get]
func List(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.VideoService == nil {
			types.SendServiceUnavailable(c, "Review store is not configured")
			return
		}

		limit := 0
		if raw := c.Query("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 1 {
				types.SendBadRequest(c, "limit must be a positive integer")
				return
			}
			limit = n
		}

		records, err := deps.VideoService.List(c.Request.Context(), c.Query("status"), limit)
		if err != nil {
			types.SendError(c, err)
			return
		}
		c.JSON(http.StatusOK, records)
	}
}

// GetByID returns one review record
//
//	@Summary	Get video
//	@Tags		videos
//	@Produce	json
//	@Param		id	path		string	true	"Video ID"
//	@Success	200	{object}	models.VideoRecord
//	@Failure	404	{object}	types.ErrorResponse
//	@Router		/api/videos/{id} [get]
func GetByID(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.VideoService == nil {
			types.SendServiceUnavailable(c, "Review store is not configured")
			return
		}

		record, err := deps.VideoService.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			types.SendError(c, err)
			return
		}
		c.JSON(http.StatusOK, record)
	}
}
