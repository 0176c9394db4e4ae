package cleanup

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/mclantax/content-pipeline/pkg/download"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// tempPatterns match the intermediate media files left in the work directory
var tempPatterns = []string{
	"render_*",
	"captions_*.srt",
	"output_with_captions_*.mp4",
}

// JobPruner deletes finished jobs past their retention
type JobPruner interface {
	CleanupOldJobs(ctx context.Context, retentionDays int) (int64, error)
}

// Service handles cleanup of temporary files and old jobs
type Service struct {
	workDir         string
	maxAge          time.Duration
	cleanupInterval time.Duration
	jobs            JobPruner
	retentionDays   int
	log             *logger.Logger
	cancel          context.CancelFunc
	wg              sync.WaitGroup
}

// NewService creates a new cleanup service. jobs may be nil.
func NewService(workDir string, maxAge, cleanupInterval time.Duration, jobs JobPruner, retentionDays int, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	if cleanupInterval <= 0 {
		cleanupInterval = time.Hour
	}
	return &Service{
		workDir:         workDir,
		maxAge:          maxAge,
		cleanupInterval: cleanupInterval,
		jobs:            jobs,
		retentionDays:   retentionDays,
		log:             log.With("component", "cleanup"),
	}
}

// Start runs one sweep immediately, then one per interval until Stop
func (s *Service) Start(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.RunOnce(ctx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.cleanupInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				s.RunOnce(ctx)
			case <-ctx.Done():
				s.log.Info("Cleanup service stopped")
				return
			}
		}
	}()

	s.log.Info("Cleanup service started", "interval", s.cleanupInterval, "max_age", s.maxAge)
}

// Stop stops the cleanup service
func (s *Service) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// RunOnce removes stale temp files and prunes old jobs. It returns the
// number of files removed.
func (s *Service) RunOnce(ctx context.Context) int {
	removed := s.cleanupFiles()
	if s.jobs != nil && s.retentionDays > 0 {
		if _, err := s.jobs.CleanupOldJobs(ctx, s.retentionDays); err != nil {
			s.log.Warn("Job cleanup failed", "error", err)
		}
	}
	return removed
}

func (s *Service) cleanupFiles() int {
	if s.workDir == "" || s.maxAge <= 0 {
		return 0
	}
	if _, err := os.Stat(s.workDir); os.IsNotExist(err) {
		return 0
	}

	removed := 0
	for _, pattern := range tempPatterns {
		n, err := download.CleanupOldTempFiles(s.workDir, pattern, s.maxAge)
		if err != nil {
			s.log.Error("Cleanup glob error", "pattern", pattern, "error", err)
			continue
		}
		removed += n
	}
	if removed > 0 {
		s.log.Info("Removed old temp files", "count", removed)
	}
	return removed
}
