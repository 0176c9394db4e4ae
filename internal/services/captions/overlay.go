package captions

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/mclantax/content-pipeline/internal/models"
	"github.com/mclantax/content-pipeline/internal/services/storage"
	"github.com/mclantax/content-pipeline/pkg/download"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/ffmpeg"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// Overlay burns script captions into a video and returns the new asset
type Overlay interface {
	Apply(ctx context.Context, asset models.VideoAsset, script models.Script, style string) (models.VideoAsset, error)
}

// Burner is the subset of ffmpeg used for captioning
type Burner interface {
	BurnSubtitles(ctx context.Context, input, srtPath, output string, style ffmpeg.SubtitleStyle) error
	GetVideoMetadata(ctx context.Context, path string) (*ffmpeg.VideoMetadata, error)
}

// Fetcher downloads remote media to a local file
type Fetcher interface {
	DownloadToTemp(ctx context.Context, url, prefix string) (*download.DownloadResult, error)
}

// FFmpegOverlay renders captions with ffmpeg and stores the result
type FFmpegOverlay struct {
	burner  Burner
	fetcher Fetcher
	store   storage.ObjectStore
	workDir string
	log     *logger.Logger
	now     func() time.Time
}

// NewFFmpegOverlay creates an overlay writing intermediate files to workDir
func NewFFmpegOverlay(burner Burner, fetcher Fetcher, store storage.ObjectStore, workDir string, log *logger.Logger) *FFmpegOverlay {
	return &FFmpegOverlay{
		burner:  burner,
		fetcher: fetcher,
		store:   store,
		workDir: workDir,
		log:     log,
		now:     time.Now,
	}
}

// Apply writes the SRT track, burns it into the source video and uploads the output
func (o *FFmpegOverlay) Apply(ctx context.Context, asset models.VideoAsset, script models.Script, style string) (models.VideoAsset, error) {
	segments := Segment(script.Text)
	if len(segments) == 0 {
		return models.VideoAsset{}, apperrors.ValidationError("script", "no words to caption")
	}
	styleName, subtitleStyle := ResolveStyle(style)

	if err := os.MkdirAll(o.workDir, 0755); err != nil {
		return models.VideoAsset{}, apperrors.Wrap(err, apperrors.ErrCodeProcessing, "failed to create work directory")
	}

	stamp := o.now().Unix()
	srtPath := filepath.Join(o.workDir, fmt.Sprintf("captions_%d_%s.srt", stamp, shortID()))
	if err := os.WriteFile(srtPath, []byte(SRT(segments)), 0644); err != nil {
		return models.VideoAsset{}, apperrors.Wrap(err, apperrors.ErrCodeProcessing, "failed to write subtitle file")
	}
	defer os.Remove(srtPath)

	input := asset.SourceReference
	if isRemote(input) {
		res, err := o.fetcher.DownloadToTemp(ctx, input, "render")
		if err != nil {
			return models.VideoAsset{}, apperrors.UpstreamTransport("video download", err)
		}
		defer download.CleanupTempFile(res.FilePath)
		input = res.FilePath
	}

	output := filepath.Join(o.workDir, fmt.Sprintf("output_with_captions_%d.mp4", stamp))
	o.log.Debug("Burning captions", "input", input, "segments", len(segments), "style", styleName)
	if err := o.burner.BurnSubtitles(ctx, input, srtPath, output, subtitleStyle); err != nil {
		_ = os.Remove(output)
		return models.VideoAsset{}, apperrors.Wrap(err, apperrors.ErrCodeProcessing, "caption burn-in failed")
	}

	captioned := models.VideoAsset{
		ID:              uuid.New().String(),
		Format:          "mp4",
		Resolution:      asset.Resolution,
		AspectRatio:     asset.AspectRatio,
		DurationSeconds: asset.DurationSeconds,
	}
	if meta, err := o.burner.GetVideoMetadata(ctx, output); err != nil {
		o.log.Warn("Could not probe captioned video", "path", output, "error", err)
	} else {
		if r := meta.Resolution(); r != "" {
			captioned.Resolution = r
		}
		captioned.DurationSeconds = meta.Duration
	}

	ref, err := o.store.Put(ctx, output, filepath.Base(output))
	if err != nil {
		_ = os.Remove(output)
		return models.VideoAsset{}, apperrors.Wrap(err, apperrors.ErrCodeProcessing, "failed to store captioned video")
	}
	captioned.SourceReference = ref

	o.log.Info("Captions applied", "video", ref, "segments", len(segments), "style", styleName)
	return captioned, nil
}

// MockOverlay computes captions without touching any media
type MockOverlay struct {
	log *logger.Logger
	now func() time.Time
}

// NewMockOverlay creates an overlay for demo runs
func NewMockOverlay(log *logger.Logger) *MockOverlay {
	return &MockOverlay{log: log, now: time.Now}
}

// Apply returns a captioned reference named after the current time
func (o *MockOverlay) Apply(_ context.Context, asset models.VideoAsset, script models.Script, style string) (models.VideoAsset, error) {
	segments := Segment(script.Text)
	if len(segments) == 0 {
		return models.VideoAsset{}, apperrors.ValidationError("script", "no words to caption")
	}
	styleName, _ := ResolveStyle(style)

	ref := fmt.Sprintf("captioned_video_%d.mp4", o.now().Unix())
	o.log.Info("Mock captions applied",
		"input", asset.SourceReference,
		"output", ref,
		"style", styleName,
		"segments", len(segments),
		"duration", script.EstimatedDurationSeconds)

	return models.VideoAsset{
		ID:              uuid.New().String(),
		SourceReference: ref,
		Format:          "mp4",
		Resolution:      asset.Resolution,
		AspectRatio:     asset.AspectRatio,
		DurationSeconds: asset.DurationSeconds,
		Mock:            true,
	}, nil
}

func isRemote(ref string) bool {
	return strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://")
}

func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}
