package workers

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/jobs"
	"github.com/mclantax/content-pipeline/internal/services/pipeline"
	"github.com/mclantax/content-pipeline/internal/services/videos"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// Runner executes one pipeline run
type Runner interface {
	Run(ctx context.Context, opts pipeline.RunOptions) (*pipeline.Result, error)
}

// PipelineProcessor runs the content pipeline for pipeline_run jobs and
// stores the produced video for review
type PipelineProcessor struct {
	jobService jobs.Service
	runner     Runner
	videos     *videos.Service
	log        *logger.Logger
}

func NewPipelineProcessor(jobService jobs.Service, runner Runner, videoService *videos.Service, log *logger.Logger) *PipelineProcessor {
	if log == nil {
		log = logger.Nop()
	}
	return &PipelineProcessor{
		jobService: jobService,
		runner:     runner,
		videos:     videoService,
		log:        log.With("processor", "pipeline"),
	}
}

func (p *PipelineProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypePipelineRun
}

func (p *PipelineProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if !p.CanProcess(job.Type) {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}

	opts, err := RunOptionsFromPayload(job.Payload)
	if err != nil {
		return err
	}
	opts.Progress = func(stage pipeline.Stage, progress int) {
		if err := p.jobService.UpdateProgress(ctx, job.ID, string(stage), progress); err != nil {
			p.log.Warn("Failed to update job progress", "job_id", job.ID, "error", err)
		}
	}

	// A job that already stored its video completes without running again
	if existing, err := p.videos.GetByJobID(ctx, job.ID); err == nil {
		p.log.Info("Video already stored for job", "job_id", job.ID, "video_id", existing.ID)
		return p.jobService.CompleteJob(ctx, job.ID, models.JobResult{
			"video_id":  existing.ID,
			"trend":     existing.Trend,
			"video_url": existing.VideoURL,
		})
	} else if !apperrors.Is(err, apperrors.ErrCodeNotFound) {
		return err
	}

	p.log.Info("Running pipeline", "job_id", job.ID, "query", opts.Query)
	res, err := p.runner.Run(ctx, opts)
	if err != nil {
		return err
	}

	record := res.Video
	jobID := job.ID
	record.JobID = &jobID
	if err := p.videos.Create(ctx, &record); err != nil {
		return err
	}

	result := models.JobResult{
		"video_id":  record.ID,
		"trend":     record.Trend,
		"video_url": record.VideoURL,
		"duration":  res.Duration.String(),
	}
	return p.jobService.CompleteJob(ctx, job.ID, result)
}

// PublishProcessor approves and publishes a stored video outside the
// request cycle
type PublishProcessor struct {
	jobService jobs.Service
	videos     *videos.Service
	log        *logger.Logger
}

func NewPublishProcessor(jobService jobs.Service, videoService *videos.Service, log *logger.Logger) *PublishProcessor {
	if log == nil {
		log = logger.Nop()
	}
	return &PublishProcessor{jobService: jobService, videos: videoService, log: log.With("processor", "publish")}
}

func (p *PublishProcessor) CanProcess(jobType models.JobType) bool {
	return jobType == models.JobTypePublish
}

func (p *PublishProcessor) ProcessJob(ctx context.Context, job *models.Job) error {
	if !p.CanProcess(job.Type) {
		return fmt.Errorf("unsupported job type: %s", job.Type)
	}
	id, ok := job.GetPayloadString("video_id")
	if !ok || id == "" {
		return apperrors.ValidationError("video_id", "is required")
	}

	if err := p.jobService.UpdateProgress(ctx, job.ID, string(pipeline.StagePublish), 10); err != nil {
		p.log.Warn("Failed to update job progress", "job_id", job.ID, "error", err)
	}

	res, err := p.videos.Approve(ctx, id)
	if err != nil {
		return err
	}

	return p.jobService.CompleteJob(ctx, job.ID, models.JobResult{
		"video_id":         id,
		"posted_platforms": []string(res.Video.PostedPlatforms),
		"results":          res.Report.Results,
	})
}

// PipelinePayload builds a job payload from run options
func PipelinePayload(opts pipeline.RunOptions) models.JobPayload {
	payload := models.JobPayload{}
	set := func(key, value string) {
		if value != "" {
			payload[key] = value
		}
	}
	set("query", opts.Query)
	set("voice", opts.Voice)
	set("visual", opts.Visual)
	set("caption_style", opts.CaptionStyle)
	if opts.ScheduleAt != nil {
		payload["schedule_at"] = opts.ScheduleAt.UTC().Format(time.RFC3339)
	}
	return payload
}

// RunOptionsFromPayload is the inverse of PipelinePayload
func RunOptionsFromPayload(payload models.JobPayload) (pipeline.RunOptions, error) {
	var opts pipeline.RunOptions
	str := func(key string) string {
		s, _ := payload[key].(string)
		return s
	}
	opts.Query = str("query")
	opts.Voice = str("voice")
	opts.Visual = str("visual")
	opts.CaptionStyle = str("caption_style")
	if raw := str("schedule_at"); raw != "" {
		at, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return opts, apperrors.ValidationError("schedule_at", "must be RFC3339")
		}
		opts.ScheduleAt = &at
	}
	return opts, nil
}

// Classify maps an error onto the job error taxonomy
func Classify(err error) *models.StructuredJobError {
	var structured *models.StructuredJobError
	if errors.As(err, &structured) {
		return structured
	}

	details := ""
	var stageErr *pipeline.StageError
	if errors.As(err, &stageErr) {
		details = "stage=" + string(stageErr.Stage)
	}

	code := string(apperrors.GetCode(err))
	msg := err.Error()

	if errors.Is(err, context.DeadlineExceeded) {
		return models.NewTimeoutError("DEADLINE_EXCEEDED", msg, details, err)
	}

	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeValidation, apperrors.ErrCodeInvalidInput, apperrors.ErrCodeInvalidTransition:
		return models.NewValidationError(code, msg, details, err)
	case apperrors.ErrCodeNotFound:
		return models.NewNotFoundError(code, msg, details, err)
	case apperrors.ErrCodeGenerationTimeout:
		return models.NewTimeoutError(code, msg, details, err)
	case apperrors.ErrCodeUpstreamTransport, apperrors.ErrCodeUpstreamRejected, apperrors.ErrCodeRateLimited:
		return models.NewUpstreamError(code, msg, details, err)
	case apperrors.ErrCodeProcessing:
		return models.NewProcessingError(code, msg, details, err)
	default:
		return models.NewSystemError(code, msg, details, err)
	}
}
