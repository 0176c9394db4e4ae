package videos

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mclantax/content-pipeline/internal/fixtures"
	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/publisher"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
	RecentWindow     = 7 * 24 * time.Hour
)

// ApproveResult is the outcome of a successful approval
type ApproveResult struct {
	Video  *models.VideoRecord  `json:"video"`
	Report models.PublishReport `json:"report"`
}

// Service owns the review lifecycle of generated videos. All writes go
// through a single mutex so status transitions never interleave. Publishing
// runs outside the mutex; a record being published is tracked in publishing
// and cannot be approved or rejected until the publish finishes.
type Service struct {
	repo       Repository
	publisher  publisher.Publisher
	log        *logger.Logger
	mu         sync.Mutex
	publishing map[string]bool
	now        func() time.Time
}

// NewService creates a review service. pub is used when a record is approved.
func NewService(repo Repository, pub publisher.Publisher, log *logger.Logger) *Service {
	if log == nil {
		log = logger.Nop()
	}
	return &Service{
		repo:       repo,
		publisher:  pub,
		log:        log,
		publishing: make(map[string]bool),
		now:        time.Now,
	}
}

// List returns records in status (default pending), newest first
func (s *Service) List(ctx context.Context, status string, limit int) ([]models.VideoRecord, error) {
	st := models.VideoStatusPending
	if status != "" {
		parsed, ok := models.ParseVideoStatus(strings.ToLower(status))
		if !ok {
			return nil, apperrors.InvalidInput("status", status, []string{
				string(models.VideoStatusPending),
				string(models.VideoStatusApproved),
				string(models.VideoStatusRejected),
			})
		}
		st = parsed
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}

	out, err := s.repo.List(ctx, st, limit)
	if err != nil {
		return nil, apperrors.DatabaseError("list videos", err)
	}
	return out, nil
}

// Get returns a single record
func (s *Service) Get(ctx context.Context, id string) (*models.VideoRecord, error) {
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	return v, nil
}

// Create stores a new record, assigning an id and timestamp when absent.
// Records are stored pending unless they arrive approved with the
// platforms they were already posted to.
func (s *Service) Create(ctx context.Context, v *models.VideoRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if v.JobID != nil {
		existing, err := s.repo.GetByJobID(ctx, *v.JobID)
		if err == nil {
			s.log.Info("Video already stored for job", "video_id", existing.ID, "job_id", *v.JobID)
			*v = *existing
			return nil
		}
		if !errors.Is(err, ErrVideoNotFound) {
			return apperrors.DatabaseError("find video for job", err)
		}
	}

	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	if v.CreatedAt.IsZero() {
		v.CreatedAt = s.now().UTC()
	}
	if v.Captions == nil {
		v.Captions = models.Captions{}
	}
	if v.PostedPlatforms == nil {
		v.PostedPlatforms = []string{}
	}
	if v.Status == models.VideoStatusApproved && len(v.PostedPlatforms) > 0 {
		if v.ApprovedAt == nil {
			approvedAt := v.CreatedAt
			v.ApprovedAt = &approvedAt
		}
	} else {
		v.Status = models.VideoStatusPending
		v.ApprovedAt = nil
	}

	if err := s.repo.Create(ctx, v); err != nil {
		return apperrors.DatabaseError("create video", err)
	}
	s.log.Info("Stored video", "video_id", v.ID, "trend", v.Trend, "status", v.Status)
	return nil
}

// GetByJobID returns the record a queued run already stored
func (s *Service) GetByJobID(ctx context.Context, jobID uint) (*models.VideoRecord, error) {
	v, err := s.repo.GetByJobID(ctx, jobID)
	if err != nil {
		return nil, s.lookupError(fmt.Sprintf("job %d", jobID), err)
	}
	return v, nil
}

// Approve publishes a pending record and marks it approved. If no platform
// accepts the post the record stays pending.
func (s *Service) Approve(ctx context.Context, id string) (*ApproveResult, error) {
	v, err := s.claimForPublish(ctx, id)
	if err != nil {
		return nil, err
	}
	defer s.releasePublish(id)

	report, err := s.publisher.Publish(ctx, publisher.Request{
		VideoRef: v.VideoURL,
		Copy:     v.Captions.ToPlatformCopy(),
	})
	if err != nil {
		return nil, err
	}

	succeeded := report.Succeeded()
	if len(succeeded) == 0 {
		s.log.Warn("Approval publish failed on every platform", "video_id", id, "results", len(report.Results))
		return nil, apperrors.UpstreamRejected("publisher", http.StatusBadGateway, summarizeFailures(report)).
			WithDetail("results", report.Results)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now().UTC()
	v.Status = models.VideoStatusApproved
	v.ApprovedAt = &now
	v.PostedPlatforms = succeeded
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, apperrors.DatabaseError("approve video", err)
	}

	s.log.Info("Video approved", "video_id", id, "platforms", succeeded, "failed", len(report.Failed()))
	return &ApproveResult{Video: v, Report: report}, nil
}

// claimForPublish checks that id can be approved and marks it as publishing
func (s *Service) claimForPublish(ctx context.Context, id string) (*models.VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	if s.publishing[id] {
		return nil, apperrors.InvalidTransition("video", "publishing", string(models.VideoStatusApproved)).
			WithDetail("id", id)
	}
	if !v.CanTransition(models.VideoStatusApproved) {
		return nil, apperrors.InvalidTransition("video", string(v.Status), string(models.VideoStatusApproved)).
			WithDetail("id", id)
	}
	if s.publisher == nil {
		return nil, apperrors.New(apperrors.ErrCodeServiceDown, "publisher is not configured")
	}
	s.publishing[id] = true
	return v, nil
}

func (s *Service) releasePublish(id string) {
	s.mu.Lock()
	delete(s.publishing, id)
	s.mu.Unlock()
}

// Reject marks a pending record rejected
func (s *Service) Reject(ctx context.Context, id string) (*models.VideoRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, s.lookupError(id, err)
	}
	if s.publishing[id] {
		return nil, apperrors.InvalidTransition("video", "publishing", string(models.VideoStatusRejected)).
			WithDetail("id", id)
	}
	if !v.CanTransition(models.VideoStatusRejected) {
		return nil, apperrors.InvalidTransition("video", string(v.Status), string(models.VideoStatusRejected)).
			WithDetail("id", id)
	}

	v.Status = models.VideoStatusRejected
	if err := s.repo.Update(ctx, v); err != nil {
		return nil, apperrors.DatabaseError("reject video", err)
	}
	s.log.Info("Video rejected", "video_id", id)
	return v, nil
}

// Stats counts records by status plus those created in the last week
func (s *Service) Stats(ctx context.Context) (models.VideoStats, error) {
	stats, err := s.repo.Stats(ctx, s.now().UTC().Add(-RecentWindow))
	if err != nil {
		return stats, apperrors.DatabaseError("video stats", err)
	}
	return stats, nil
}

// Seed inserts the sample records when the store is empty and returns how
// many were written.
func (s *Service) Seed(ctx context.Context) (int, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, apperrors.DatabaseError("count videos", err)
	}
	if n > 0 {
		return 0, nil
	}

	samples := fixtures.SampleRecords()
	base := s.now().UTC()
	for i, sample := range samples {
		v := &models.VideoRecord{
			Trend:    sample.Trend,
			Script:   sample.Script,
			VideoURL: sample.VideoURL,
			Captions: sample.Captions,
			// first sample is the newest
			CreatedAt: base.Add(-time.Duration(i) * time.Minute),
		}
		if err := s.Create(ctx, v); err != nil {
			return i, err
		}
	}
	return len(samples), nil
}

func (s *Service) lookupError(id string, err error) error {
	if errors.Is(err, ErrVideoNotFound) {
		return apperrors.NotFound("video", id).WithCause(err)
	}
	return apperrors.DatabaseError("get video", err)
}

func summarizeFailures(report models.PublishReport) string {
	if len(report.Results) == 0 {
		return "no platforms configured"
	}
	parts := make([]string, 0, len(report.Results))
	for _, r := range report.Results {
		msg := r.Error
		if msg == "" {
			msg = string(r.Status)
		}
		parts = append(parts, fmt.Sprintf("%s: %s", r.Platform, msg))
	}
	return strings.Join(parts, "; ")
}
