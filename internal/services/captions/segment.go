package captions

import (
	"strings"

	"github.com/mclantax/content-pipeline/internal/models"
)

// WordsPerSegment is the caption window size
const WordsPerSegment = 3

// Segment splits script text into timed caption cues of WordsPerSegment
// words. Each cue starts where the previous one ended.
func Segment(text string) []models.CaptionSegment {
	return SegmentWords(text, WordsPerSegment)
}

// SegmentWords is Segment with a custom window size
func SegmentWords(text string, size int) []models.CaptionSegment {
	if size <= 0 {
		size = WordsPerSegment
	}
	words := strings.Fields(text)
	segments := make([]models.CaptionSegment, 0, (len(words)+size-1)/size)

	for i := 0; i < len(words); i += size {
		end := i + size
		if end > len(words) {
			end = len(words)
		}
		segments = append(segments, models.CaptionSegment{
			Index: len(segments) + 1,
			Text:  strings.ToUpper(strings.Join(words[i:end], " ")),
			Start: float64(i) * models.SecondsPerWord,
			End:   float64(end) * models.SecondsPerWord,
		})
	}
	return segments
}
