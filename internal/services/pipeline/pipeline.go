package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/captions"
	"github.com/mclantax/content-pipeline/internal/services/copywriter"
	"github.com/mclantax/content-pipeline/internal/services/publisher"
	"github.com/mclantax/content-pipeline/internal/services/render"
	"github.com/mclantax/content-pipeline/internal/services/scripts"
	"github.com/mclantax/content-pipeline/internal/services/trends"
	"github.com/mclantax/content-pipeline/internal/telemetry"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// Stage names one step of a run
type Stage string

const (
	StageResearch Stage = "research"
	StageScript   Stage = "script"
	StageRender   Stage = "render"
	StageCaption  Stage = "caption"
	StageCopy     Stage = "copy"
	StagePublish  Stage = "publish"
)

// Stages lists every stage in execution order
func Stages() []Stage {
	return []Stage{StageResearch, StageScript, StageRender, StageCaption, StageCopy, StagePublish}
}

// stageProgress is the job progress reported once a stage completes
var stageProgress = map[Stage]int{
	StageResearch: 10,
	StageScript:   25,
	StageRender:   55,
	StageCaption:  75,
	StageCopy:     85,
	StagePublish:  95,
}

// StageError carries the first failing stage and its unmodified error
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// ProgressFunc is called after each stage with a 0-100 completion value
type ProgressFunc func(stage Stage, progress int)

// Dependencies are the stage implementations
type Dependencies struct {
	Trends    trends.Source
	Scripts   scripts.Composer
	Renderer  render.Renderer
	Captions  captions.Overlay
	Copy      copywriter.Generator
	Publisher publisher.Publisher
}

// Options hold run defaults
type Options struct {
	Query        string
	Voice        string
	Visual       string
	CaptionStyle string
	RunTimeout   time.Duration
}

// RunOptions override the defaults for one run
type RunOptions struct {
	Query        string       `json:"query,omitempty"`
	Voice        string       `json:"voice,omitempty"`
	Visual       string       `json:"visual,omitempty"`
	CaptionStyle string       `json:"caption_style,omitempty"`
	ScheduleAt   *time.Time   `json:"schedule_at,omitempty"`
	Progress     ProgressFunc `json:"-"`
}

// Result is everything one run produced
type Result struct {
	Video     models.VideoRecord      `json:"video"`
	Topic     models.Topic            `json:"topic"`
	Script    models.Script           `json:"script"`
	Rendered  models.VideoAsset       `json:"rendered"`
	Captioned models.VideoAsset       `json:"captioned"`
	Segments  []models.CaptionSegment `json:"segments"`
	Copy      models.PlatformCopy     `json:"copy"`
	Report    models.PublishReport    `json:"report"`
	Duration  time.Duration           `json:"duration"`
}

// Orchestrator runs the six stages strictly in order
type Orchestrator struct {
	deps Dependencies
	opts Options
	log  *logger.Logger
	now  func() time.Time
}

func New(deps Dependencies, opts Options, log *logger.Logger) *Orchestrator {
	if log == nil {
		log = logger.Nop()
	}
	return &Orchestrator{deps: deps, opts: opts, log: log.With("component", "pipeline"), now: time.Now}
}

func (o *Orchestrator) resolve(ro RunOptions) (RunOptions, render.Options, error) {
	if ro.Query == "" {
		ro.Query = o.opts.Query
	}
	if ro.Voice == "" {
		ro.Voice = o.opts.Voice
	}
	if ro.Visual == "" {
		ro.Visual = o.opts.Visual
	}
	if ro.CaptionStyle == "" {
		ro.CaptionStyle = o.opts.CaptionStyle
	}
	renderOpts, err := render.Options{
		Voice:  render.VoiceStyle(ro.Voice),
		Visual: render.VisualStyle(ro.Visual),
	}.Normalize()
	return ro, renderOpts, err
}

// Validate checks run options without running anything
func (o *Orchestrator) Validate(ro RunOptions) error {
	_, _, err := o.resolve(ro)
	return err
}

// Run executes research, script, render, caption, copy and publish. The
// first failing stage stops the run and is returned as a *StageError.
func (o *Orchestrator) Run(ctx context.Context, ro RunOptions) (*Result, error) {
	ro, renderOpts, err := o.resolve(ro)
	if err != nil {
		return nil, err
	}
	if o.opts.RunTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.opts.RunTimeout)
		defer cancel()
	}

	tracer := telemetry.Tracer("pipeline")
	ctx, runSpan := tracer.Start(ctx, "pipeline.run")
	runSpan.SetAttributes(attribute.String("pipeline.query", ro.Query))
	defer runSpan.End()

	start := o.now()
	res := &Result{}

	step := func(stage Stage, fn func(ctx context.Context) error) error {
		if err := ctx.Err(); err != nil {
			return &StageError{Stage: stage, Err: err}
		}
		sctx, span := tracer.Start(ctx, "pipeline."+string(stage))
		defer span.End()

		stageStart := time.Now()
		if err := fn(sctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			o.log.Error("Pipeline stage failed", "stage", stage, "error", err)
			return &StageError{Stage: stage, Err: err}
		}
		o.log.Debug("Pipeline stage finished", "stage", stage, "elapsed", time.Since(stageStart))
		if ro.Progress != nil {
			ro.Progress(stage, stageProgress[stage])
		}
		return nil
	}

	stages := []struct {
		stage Stage
		fn    func(ctx context.Context) error
	}{
		{StageResearch, func(ctx context.Context) error {
			topics, err := o.deps.Trends.Search(ctx, ro.Query)
			if err != nil {
				return err
			}
			if len(topics) == 0 {
				return apperrors.New(apperrors.ErrCodeNotFound, "no trending topics found").WithDetail("query", ro.Query)
			}
			res.Topic = topics[0]
			return nil
		}},
		{StageScript, func(ctx context.Context) error {
			s, err := o.deps.Scripts.Compose(ctx, res.Topic)
			res.Script = s
			return err
		}},
		{StageRender, func(ctx context.Context) error {
			asset, err := o.deps.Renderer.Render(ctx, res.Script, renderOpts)
			res.Rendered = asset
			return err
		}},
		{StageCaption, func(ctx context.Context) error {
			res.Segments = captions.Segment(res.Script.Text)
			asset, err := o.deps.Captions.Apply(ctx, res.Rendered, res.Script, ro.CaptionStyle)
			res.Captioned = asset
			return err
		}},
		{StageCopy, func(ctx context.Context) error {
			c, err := o.deps.Copy.Generate(ctx, res.Topic, res.Script)
			res.Copy = c
			return err
		}},
		{StagePublish, func(ctx context.Context) error {
			report, err := o.deps.Publisher.Publish(ctx, publisher.Request{
				VideoRef:   res.Captioned.SourceReference,
				Copy:       res.Copy,
				ScheduleAt: ro.ScheduleAt,
			})
			res.Report = report
			return err
		}},
	}

	for _, s := range stages {
		if err := step(s.stage, s.fn); err != nil {
			runSpan.RecordError(err)
			runSpan.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	res.Video = models.VideoRecord{
		ID:              uuid.NewString(),
		Trend:           res.Topic.Title,
		Script:          res.Script.Text,
		VideoURL:        res.Captioned.SourceReference,
		Captions:        res.Copy.ToCaptions(),
		Status:          models.VideoStatusPending,
		CreatedAt:       o.now().UTC(),
		PostedPlatforms: []string{},
	}
	// Posted or scheduled runs are stored approved
	if posted := res.Report.Succeeded(); len(posted) > 0 {
		approvedAt := res.Video.CreatedAt
		res.Video.Status = models.VideoStatusApproved
		res.Video.ApprovedAt = &approvedAt
		res.Video.PostedPlatforms = posted
	}
	res.Duration = o.now().Sub(start)

	runSpan.SetAttributes(attribute.String("pipeline.video_id", res.Video.ID))
	o.log.Info("Pipeline run complete", "video_id", res.Video.ID, "trend", res.Topic.Title, "duration", res.Duration)
	return res, nil
}
