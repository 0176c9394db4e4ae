package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/mclantax/content-pipeline/api/health"
	"github.com/mclantax/content-pipeline/api/jobs"
	"github.com/mclantax/content-pipeline/api/middleware"
	"github.com/mclantax/content-pipeline/api/stats"
	"github.com/mclantax/content-pipeline/api/types"
	"github.com/mclantax/content-pipeline/api/version"
	"github.com/mclantax/content-pipeline/api/videos"
	_ "github.com/mclantax/content-pipeline/docs/swagger"
	"github.com/mclantax/content-pipeline/pkg/config"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

// RegisterRoutes registers all API routes
func RegisterRoutes(engine *gin.Engine, deps *types.Dependencies, cfg *config.Config, limiters *RateLimiters) error {
	if deps == nil {
		deps = &types.Dependencies{}
	}
	if cfg == nil {
		cfg = &config.Config{}
	}

	// Public routes (no rate limiting)
	health.RegisterRoutes(engine, deps)
	version.RegisterRoutes(engine, deps)

	engine.GET("/docs", func(c *gin.Context) {
		c.Redirect(http.StatusMovedPermanently, "/docs/index.html")
	})
	docsGroup := engine.Group("/docs")
	docsGroup.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	engine.NoRoute(NotFoundHandler())

	limit := func(group string) gin.HandlerFunc {
		if !cfg.RateLimit.Enabled {
			return func(c *gin.Context) { c.Next() }
		}
		perMinute, ok := cfg.RateLimit.Endpoints[group]
		if !ok {
			perMinute = cfg.RateLimit.Endpoints["default"]
		}
		return PerClientRateLimit(limiters, group, perMinute, perMinute)
	}

	apiGroup := engine.Group("/api")

	videoGroup := apiGroup.Group("/videos")
	videos.RegisterRoutes(videoGroup, deps, limit("review"), limit("generate"))

	jobGroup := apiGroup.Group("/jobs")
	jobGroup.Use(limit("default"))
	jobs.RegisterRoutes(jobGroup, deps)

	statsGroup := apiGroup.Group("/stats")
	statsGroup.Use(limit("default"), middleware.ResponseCache(middleware.CacheOptions{
		Cache: deps.Cache,
		TTL:   cfg.Cache.ResponseTTL,
	}))
	stats.RegisterRoutes(statsGroup, deps)

	return nil
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusNotFound, types.ErrorResponse{
			Message: "The requested endpoint was not found: " + c.Request.URL.Path,
			Error:   string(apperrors.ErrCodeNotFound),
		})
	}
}
