package captions

import "github.com/mclantax/content-pipeline/pkg/ffmpeg"

const (
	StyleViralMeme    = "viral_meme"
	StyleHighContrast = "high_contrast"
)

var styles = map[string]ffmpeg.SubtitleStyle{
	StyleViralMeme:    {FontSize: 60, FontColor: "white", BoxColor: "black@0.8", BorderWidth: 3},
	StyleHighContrast: {FontSize: 50, FontColor: "yellow", BoxColor: "black@0.9", BorderWidth: 2},
}

// ResolveStyle returns the named style. Unknown names use viral_meme.
func ResolveStyle(name string) (string, ffmpeg.SubtitleStyle) {
	if s, ok := styles[name]; ok {
		return name, s
	}
	return StyleViralMeme, styles[StyleViralMeme]
}

// StyleNames lists the available caption styles
func StyleNames() []string {
	return []string{StyleViralMeme, StyleHighContrast}
}
