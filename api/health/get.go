package health

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/mclantax/content-pipeline/api/types"
)

// Get handles health check requests
//
//	@Summary		Health check
//	@Description	Reports database connectivity and whether providers run live or mocked
//	@Tags			health
//	@Produce		json
//	@Success		200	{object}	map[string]interface{}
//	@Failure		503	{object}	map[string]interface{}
//	@Router			/health [get]
func Get(deps *types.Dependencies) gin.HandlerFunc {
	return func(c *gin.Context) {
		status := http.StatusOK
		response := gin.H{
			"status":    "healthy",
			"timestamp": time.Now().UTC().Format(time.RFC3339),
			"mode":      mode(deps),
		}

		dbStatus := getDatabaseStatus(c, deps)
		response["database"] = dbStatus
		if dbStatus["status"] == "error" {
			response["status"] = "unhealthy"
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, response)
	}
}

func mode(deps *types.Dependencies) string {
	if deps == nil || deps.Mode == "" {
		return types.ModeDemo
	}
	return deps.Mode
}

// getDatabaseStatus returns the database connection status
func getDatabaseStatus(c *gin.Context, deps *types.Dependencies) gin.H {
	if deps == nil || deps.DB == nil || deps.DB.DB == nil {
		return gin.H{"status": "not configured", "connected": false}
	}

	if err := deps.DB.HealthCheck(c.Request.Context()); err != nil {
		return gin.H{"status": "error", "connected": false, "error": err.Error()}
	}

	return gin.H{"status": "connected", "connected": true}
}
