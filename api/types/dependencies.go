package types

import (
	"github.com/mclantax/content-pipeline/internal/database"
	"github.com/mclantax/content-pipeline/internal/services/cache"
	"github.com/mclantax/content-pipeline/internal/services/jobs"
	"github.com/mclantax/content-pipeline/internal/services/pipeline"
	"github.com/mclantax/content-pipeline/internal/services/videos"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// Service modes reported by the health endpoint
const (
	ModeLive = "live"
	ModeDemo = "demo"
)

// RunValidator checks generation options before a job is queued
type RunValidator interface {
	Validate(ro pipeline.RunOptions) error
}

// Dependencies holds all the dependencies needed by handlers
type Dependencies struct {
	DB           *database.DB
	VideoService *videos.Service
	JobService   jobs.Service
	Pipeline     RunValidator
	Cache        cache.Cache
	Logger       *logger.Logger
	Mode         string
	Version      string
}

// Log returns the configured logger or a no-op one
func (d *Dependencies) Log() *logger.Logger {
	if d == nil || d.Logger == nil {
		return logger.Nop()
	}
	return d.Logger
}
