package stats

import (
	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
)

// RegisterRoutes registers dashboard statistics routes
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies) {
	router.GET("", Get(deps))
}
