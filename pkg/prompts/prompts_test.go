package prompts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	p := Default()
	assert.NotEmpty(t, p.System.Script)
	assert.NotEmpty(t, p.Script.Generate)
	for _, platform := range []string{"tiktok", "instagram", "youtube_shorts"} {
		assert.Contains(t, p.Copy, platform)
	}
}

func TestRenderScript(t *testing.T) {
	out, err := Default().RenderScript(ScriptParams{
		Topic:       "Cryptocurrency Tax Confusion",
		Description: "People are confused about crypto gains.",
		Brand:       "McLan Tax",
		MinSeconds:  3,
		MaxSeconds:  45,
		MaxWords:    90,
	})
	require.NoError(t, err)
	assert.Contains(t, out, "Cryptocurrency Tax Confusion")
	assert.Contains(t, out, "Context: People are confused")
	assert.Contains(t, out, "at most 90 words")
	assert.Contains(t, out, "McLan Tax")
}

func TestRenderScriptWithoutDescription(t *testing.T) {
	out, err := Default().RenderScript(ScriptParams{Topic: "Gen Z Financial Stress", Brand: "McLan Tax", MaxWords: 90})
	require.NoError(t, err)
	assert.NotContains(t, out, "Context:")
}

func TestRenderCopy(t *testing.T) {
	p := Default()

	out, err := p.RenderCopy(CopyParams{Platform: "tiktok", Topic: "t", Script: "s", Brand: "McLan Tax", Handle: "@mclantax", MaxLength: 2200})
	require.NoError(t, err)
	assert.Contains(t, out, "@mclantax")
	assert.Contains(t, out, "2200")

	_, err = p.RenderCopy(CopyParams{Platform: "myspace"})
	assert.Error(t, err)
}

func TestRenderSystem(t *testing.T) {
	out, err := Default().RenderCopySystem(BrandParams{Brand: "McLan Tax", Handle: "@mclantax"})
	require.NoError(t, err)
	assert.Contains(t, out, "McLan Tax (@mclantax)")
}

func TestLoadFrom(t *testing.T) {
	tests := []struct {
		name         string
		content      string
		validateFunc func(t *testing.T, p *Prompts, err error)
	}{
		{
			name:    "override keeps missing keys",
			content: "script:\n  generate: \"Write about {{.Topic}}\"\n",
			validateFunc: func(t *testing.T, p *Prompts, err error) {
				require.NoError(t, err)
				out, err := p.RenderScript(ScriptParams{Topic: "taxes"})
				require.NoError(t, err)
				assert.Equal(t, "Write about taxes", out)
				assert.NotEmpty(t, p.System.Copy)
				assert.Contains(t, p.Copy, "tiktok")
			},
		},
		{
			name:    "invalid yaml",
			content: "script: [",
			validateFunc: func(t *testing.T, p *Prompts, err error) {
				assert.Error(t, err)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "prompts.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.content), 0644))
			p, err := LoadFrom(path)
			tt.validateFunc(t, p, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadFrom(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.Error(t, err)
	})

	t.Run("empty path", func(t *testing.T) {
		p, err := LoadFrom("")
		require.NoError(t, err)
		assert.NotEmpty(t, p.Script.Generate)
	})
}

func TestRenderMissingField(t *testing.T) {
	_, err := render("{{.Nope}}", ScriptParams{})
	assert.Error(t, err)
}
