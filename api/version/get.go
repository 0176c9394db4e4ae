package version

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
)

// DefaultVersion is reported when the build did not stamp one
const DefaultVersion = "dev"

// Get handles version requests
//
//	@Summary	Service information
//	@Tags		health
//	@Produce	json
//	@Success	200	{object}	map[string]interface{}
//	@Router		/ [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	v := DefaultVersion
	if deps != nil && deps.Version != "" {
		v = deps.Version
	}
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Content Pipeline API",
			"version":     v,
			"description": "Review and publish generated short-form videos",
			"status":      "running",
		})
	}
}
