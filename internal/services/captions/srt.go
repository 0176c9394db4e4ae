package captions

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/mclantax/content-pipeline/internal/models"
)

// FormatSRTTime renders seconds as HH:MM:SS,mmm
func FormatSRTTime(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	ms := int64(math.Round(seconds * 1000))
	h := ms / 3_600_000
	ms -= h * 3_600_000
	m := ms / 60_000
	ms -= m * 60_000
	s := ms / 1000
	ms -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}

// WriteSRT writes segments in SubRip format
func WriteSRT(w io.Writer, segments []models.CaptionSegment) error {
	bw := bufio.NewWriter(w)
	for i, seg := range segments {
		if _, err := fmt.Fprintf(bw, "%d\n%s --> %s\n%s\n\n",
			i+1, FormatSRTTime(seg.Start), FormatSRTTime(seg.End), seg.Text); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// SRT returns segments as an SRT document
func SRT(segments []models.CaptionSegment) string {
	var sb strings.Builder
	_ = WriteSRT(&sb, segments)
	return sb.String()
}
