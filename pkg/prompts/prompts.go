package prompts

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"text/template"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultPrompts []byte

type Prompts struct {
	System SystemPrompts     `yaml:"system"`
	Script ScriptPrompts     `yaml:"script"`
	Copy   map[string]string `yaml:"copy"`
}

type SystemPrompts struct {
	Script string `yaml:"script"`
	Copy   string `yaml:"copy"`
}

type ScriptPrompts struct {
	Generate string `yaml:"generate"`
}

// BrandParams fill the system prompts
type BrandParams struct {
	Brand  string
	Handle string
}

type ScriptParams struct {
	Topic       string
	Description string
	Brand       string
	MinSeconds  float64
	MaxSeconds  float64
	MaxWords    int
}

type CopyParams struct {
	Platform  string
	Topic     string
	Script    string
	Brand     string
	Handle    string
	MaxLength int
}

// Default returns the built-in prompt set
func Default() *Prompts {
	p, err := parse(defaultPrompts)
	if err != nil {
		panic(fmt.Sprintf("embedded prompts are invalid: %v", err))
	}
	return p
}

// LoadFrom reads a prompt file. Keys missing from the file keep their
// built-in values. An empty path returns the defaults.
func LoadFrom(path string) (*Prompts, error) {
	p := Default()
	if path == "" {
		return p, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompts file: %w", err)
	}
	if err := yaml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse prompts file: %w", err)
	}
	return p, nil
}

func parse(data []byte) (*Prompts, error) {
	var p Prompts
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (p *Prompts) RenderScriptSystem(params BrandParams) (string, error) {
	return render(p.System.Script, params)
}

func (p *Prompts) RenderCopySystem(params BrandParams) (string, error) {
	return render(p.System.Copy, params)
}

func (p *Prompts) RenderScript(params ScriptParams) (string, error) {
	return render(p.Script.Generate, params)
}

// RenderCopy renders the copy prompt for params.Platform
func (p *Prompts) RenderCopy(params CopyParams) (string, error) {
	tmpl, ok := p.Copy[params.Platform]
	if !ok {
		return "", fmt.Errorf("no copy prompt for platform %q", params.Platform)
	}
	return render(tmpl, params)
}

func render(tmpl string, data any) (string, error) {
	t, err := template.New("prompt").Option("missingkey=error").Parse(tmpl)
	if err != nil {
		return "", fmt.Errorf("failed to parse template: %w", err)
	}

	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}
