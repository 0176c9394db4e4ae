package render

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mclantax/content-pipeline/internal/models"
	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
	"github.com/mclantax/content-pipeline/pkg/logger"
)

// VoiceStyle selects the narration voice
type VoiceStyle string

const (
	VoiceBaby     VoiceStyle = "baby"
	VoiceToddler  VoiceStyle = "toddler"
	VoiceNarrator VoiceStyle = "narrator"
)

// VisualStyle selects the animated look
type VisualStyle string

const (
	VisualCuteBaby VisualStyle = "cute_baby"
	VisualCartoon  VisualStyle = "cartoon"
	VisualNursery  VisualStyle = "nursery"
)

// Voices lists the accepted voice styles
func Voices() []string {
	return []string{string(VoiceBaby), string(VoiceToddler), string(VoiceNarrator)}
}

// Visuals lists the accepted visual styles
func Visuals() []string {
	return []string{string(VisualCuteBaby), string(VisualCartoon), string(VisualNursery)}
}

// Options control a render. Empty fields take the defaults.
type Options struct {
	Voice  VoiceStyle  `json:"voice"`
	Visual VisualStyle `json:"visual"`
}

// Normalize fills defaults and rejects unknown styles
func (o Options) Normalize() (Options, error) {
	if o.Voice == "" {
		o.Voice = VoiceBaby
	}
	if o.Visual == "" {
		o.Visual = VisualCuteBaby
	}
	switch o.Voice {
	case VoiceBaby, VoiceToddler, VoiceNarrator:
	default:
		return o, apperrors.InvalidInput("voice", o.Voice, Voices())
	}
	switch o.Visual {
	case VisualCuteBaby, VisualCartoon, VisualNursery:
	default:
		return o, apperrors.InvalidInput("visual", o.Visual, Visuals())
	}
	return o, nil
}

// Renderer turns a script into a video asset
type Renderer interface {
	Render(ctx context.Context, script models.Script, opts Options) (models.VideoAsset, error)
}

// MockRenderer produces a placeholder asset without network access
type MockRenderer struct {
	log *logger.Logger
	now func() time.Time
}

func NewMockRenderer(log *logger.Logger) *MockRenderer {
	return &MockRenderer{log: log, now: time.Now}
}

func (m *MockRenderer) Render(_ context.Context, script models.Script, opts Options) (models.VideoAsset, error) {
	opts, err := opts.Normalize()
	if err != nil {
		return models.VideoAsset{}, err
	}
	if script.Text == "" {
		return models.VideoAsset{}, apperrors.ValidationError("script", "cannot be empty")
	}

	ref := fmt.Sprintf("https://example.com/videos/baby_tax_video_%d.mp4", m.now().Unix())
	m.log.Info("Mock video rendered", "url", ref, "voice", opts.Voice, "visual", opts.Visual,
		"duration", script.EstimatedDurationSeconds)

	return models.VideoAsset{
		ID:              uuid.New().String(),
		SourceReference: ref,
		Format:          "mp4",
		Resolution:      "1080x1920",
		AspectRatio:     "9:16",
		DurationSeconds: script.EstimatedDurationSeconds,
		Mock:            true,
	}, nil
}
