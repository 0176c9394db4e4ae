package models

import (
	"strings"
	"time"
)

// SecondsPerWord is the speaking rate used for duration estimates and caption timing
const SecondsPerWord = 0.5

// Platform names as configured
const (
	PlatformTikTok        = "tiktok"
	PlatformInstagram     = "instagram"
	PlatformYouTubeShorts = "youtube_shorts"
)

// Topic sources
const (
	TopicSourceSerpAPI = "serpapi"
	TopicSourceFixture = "fixture"
)

// Topic is a candidate trend returned by research
type Topic struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Rationale   string `json:"rationale"`
	Link        string `json:"link,omitempty"`
	Source      string `json:"source"`
}

// Script is the persona-voiced text spoken in the video
type Script struct {
	Text                     string  `json:"text"`
	EstimatedDurationSeconds float64 `json:"estimated_duration_seconds"`
}

// WordCount counts whitespace separated words
func WordCount(text string) int {
	return len(strings.Fields(text))
}

// EstimateDuration returns the spoken length of text in seconds
func EstimateDuration(text string) float64 {
	return float64(WordCount(text)) * SecondsPerWord
}

// NewScript builds a script with its duration estimate filled in
func NewScript(text string) Script {
	text = strings.TrimSpace(text)
	return Script{Text: text, EstimatedDurationSeconds: EstimateDuration(text)}
}

// VideoAsset references a rendered or captioned video
type VideoAsset struct {
	ID              string  `json:"id"`
	SourceReference string  `json:"source_reference"`
	Format          string  `json:"format"`
	Resolution      string  `json:"resolution"`
	AspectRatio     string  `json:"aspect_ratio"`
	DurationSeconds float64 `json:"duration_seconds"`
	Mock            bool    `json:"mock"`
}

// CaptionSegment is one subtitle cue
type CaptionSegment struct {
	Index int     `json:"index"`
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// PlatformCopy maps configured platform names to caption text
type PlatformCopy map[string]string

// CaptionKey maps a platform name to the key used in stored captions
func CaptionKey(platform string) string {
	if platform == PlatformYouTubeShorts {
		return "youtube"
	}
	return platform
}

// PlatformForCaptionKey is the inverse of CaptionKey
func PlatformForCaptionKey(key string) string {
	if key == "youtube" {
		return PlatformYouTubeShorts
	}
	return key
}

// ToCaptions converts platform copy into the stored caption shape
func (p PlatformCopy) ToCaptions() Captions {
	out := make(Captions, len(p))
	for platform, text := range p {
		out[CaptionKey(platform)] = text
	}
	return out
}

// ToPlatformCopy converts stored captions back to platform copy
func (c Captions) ToPlatformCopy() PlatformCopy {
	out := make(PlatformCopy, len(c))
	for key, text := range c {
		out[PlatformForCaptionKey(key)] = text
	}
	return out
}

// PostStatus is the outcome of one platform publish attempt
type PostStatus string

const (
	PostStatusPosted    PostStatus = "posted"
	PostStatusScheduled PostStatus = "scheduled"
	PostStatusHeld      PostStatus = "held"
	PostStatusFailed    PostStatus = "failed"
)

// PostResult is the per-platform result of publishing
type PostResult struct {
	Platform     string     `json:"platform"`
	Status       PostStatus `json:"status"`
	PostID       string     `json:"post_id,omitempty"`
	URL          string     `json:"url,omitempty"`
	Message      string     `json:"message,omitempty"`
	ScheduledFor *time.Time `json:"scheduled_for,omitempty"`
	Attempts     int        `json:"attempts"`
	Error        string     `json:"error,omitempty"`
}

// PublishReport aggregates results across platforms
type PublishReport struct {
	Results []PostResult `json:"results"`
}

// Succeeded lists platforms that were posted or scheduled
func (r PublishReport) Succeeded() []string {
	var out []string
	for _, res := range r.Results {
		if res.Status == PostStatusPosted || res.Status == PostStatusScheduled {
			out = append(out, res.Platform)
		}
	}
	return out
}

// Failed lists results that did not go through
func (r PublishReport) Failed() []PostResult {
	var out []PostResult
	for _, res := range r.Results {
		if res.Status == PostStatusFailed {
			out = append(out, res)
		}
	}
	return out
}
