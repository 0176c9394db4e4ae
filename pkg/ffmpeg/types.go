package ffmpeg

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// VideoMetadata represents metadata extracted from a video file
type VideoMetadata struct {
	Duration float64 `json:"duration"` // seconds
	Width    int     `json:"width"`
	Height   int     `json:"height"`
	Codec    string  `json:"codec"`
	Format   string  `json:"format"`
	Size     int64   `json:"size"`
	HasAudio bool    `json:"has_audio"`
}

// Resolution formats the frame size as WxH
func (m *VideoMetadata) Resolution() string {
	if m.Width == 0 || m.Height == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", m.Width, m.Height)
}

// SubtitleStyle describes burned-in caption appearance. Colours use ffmpeg
// colour syntax: a name or RRGGBB hex, optionally suffixed with @opacity.
type SubtitleStyle struct {
	FontSize    int
	FontColor   string
	BoxColor    string
	BorderWidth int
}

var namedColours = map[string]string{
	"white":  "FFFFFF",
	"black":  "000000",
	"yellow": "FFFF00",
	"red":    "FF0000",
	"blue":   "0000FF",
}

// ForceStyle renders the style as an ASS force_style override. BorderStyle=3
// draws an opaque box behind the text.
func (s SubtitleStyle) ForceStyle() string {
	return fmt.Sprintf("FontSize=%d,PrimaryColour=%s,BorderStyle=3,Outline=%d,BackColour=%s",
		s.FontSize, ASSColour(s.FontColor), s.BorderWidth, ASSColour(s.BoxColor))
}

// ASSColour converts "name[@opacity]" or "RRGGBB[@opacity]" to &HAABBGGRR.
// Unknown colours fall back to white.
func ASSColour(colour string) string {
	name, opacity := colour, 1.0
	if i := strings.IndexByte(colour, '@'); i >= 0 {
		name = colour[:i]
		if o, err := strconv.ParseFloat(colour[i+1:], 64); err == nil && o >= 0 && o <= 1 {
			opacity = o
		}
	}

	hex, ok := namedColours[strings.ToLower(name)]
	if !ok {
		hex = strings.TrimPrefix(strings.ToUpper(name), "#")
		if _, err := strconv.ParseUint(hex, 16, 32); err != nil || len(hex) != 6 {
			hex = "FFFFFF"
		}
	}

	alpha := int(math.Round((1 - opacity) * 255))
	return fmt.Sprintf("&H%02X%s%s%s", alpha, hex[4:6], hex[2:4], hex[0:2])
}
