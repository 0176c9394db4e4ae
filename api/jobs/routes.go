package jobs

import (
	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
)

// RegisterRoutes registers job status routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", List(deps))
	router.GET("/:id", Get(deps))
	router.POST("/:id/retry", Retry(deps))
	router.DELETE("/:id", Delete(deps))
}
