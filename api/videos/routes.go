package videos

import (
	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
)

// RegisterRoutes registers review routes. Generation gets its own, usually
// tighter, rate limit.
func RegisterRoutes(router *gin.RouterGroup, deps *types.Dependencies, reviewMiddleware, generateMiddleware gin.HandlerFunc) {
	router.GET("", reviewMiddleware, List(deps))
	router.POST("/generate", generateMiddleware, Generate(deps))
	router.GET("/:id", reviewMiddleware, GetByID(deps))
	router.POST("/:id/approve", reviewMiddleware, Approve(deps))
	router.POST("/:id/reject", reviewMiddleware, Reject(deps))
}
