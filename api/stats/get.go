package stats

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
)

// Get returns review counts
//
//	@Summary		Review statistics
//	@Description	Counts by status plus videos created in the last seven days. pending+approved+rejected equals total_videos.
//	@Tags			stats
//	@Produce		json
//	@Success		200	{object}	types.StatsResponse
//	@Router			/api/stats [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if deps.VideoService == nil {
			types.SendServiceUnavailable(c, "Review store is not configured")
			return
		}

		s, err := deps.VideoService.Stats(c.Request.Context())
		if err != nil {
			types.SendError(c, err)
			return
		}
		c.JSON(http.StatusOK, types.StatsResponse{
			Pending:      s.Pending,
			Approved:     s.Approved,
			Rejected:     s.Rejected,
			RecentVideos: s.RecentVideos,
			TotalVideos:  s.TotalVideos,
		})
	}
}
