package ffmpeg

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// FFmpeg wraps ffmpeg and ffprobe functionality
type FFmpeg struct {
	ffmpegPath  string
	ffprobePath string
	timeout     time.Duration
}

// New creates a new FFmpeg instance
func New(ffmpegPath, ffprobePath string, timeout time.Duration) *FFmpeg {
	return &FFmpeg{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		timeout:     timeout,
	}
}

// ValidateBinaries checks if ffmpeg and ffprobe are available
func (f *FFmpeg) ValidateBinaries() error {
	if _, err := exec.LookPath(f.ffmpegPath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFmpegNotFound, f.ffmpegPath)
	}
	if _, err := exec.LookPath(f.ffprobePath); err != nil {
		return fmt.Errorf("%w: %s", ErrFFprobeNotFound, f.ffprobePath)
	}
	return nil
}

// BurnSubtitles renders an SRT track into the video frames. Audio is copied
// without re-encoding.
func (f *FFmpeg) BurnSubtitles(ctx context.Context, input, srtPath, output string, style SubtitleStyle) error {
	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, f.ffmpegPath, BurnArgs(input, srtPath, output, style)...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return NewProcessingError("subtitle_burn", input, ErrProcessingTimeout, stderr.String())
		}
		return NewProcessingError("subtitle_burn", input, err, stderr.String())
	}
	return nil
}

// BurnArgs builds the ffmpeg argument list for BurnSubtitles
func BurnArgs(input, srtPath, output string, style SubtitleStyle) []string {
	filter := fmt.Sprintf("subtitles=%s:force_style='%s'", escapeFilterPath(srtPath), style.ForceStyle())
	return []string{
		"-i", input,
		"-vf", filter,
		"-c:a", "copy",
		"-y",
		output,
	}
}

// escapeFilterPath quotes characters that the filtergraph parser treats as separators
func escapeFilterPath(path string) string {
	r := strings.NewReplacer(`\`, `/`, `:`, `\:`, `'`, `\'`, `,`, `\,`)
	return r.Replace(path)
}
