package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/mclantax/content-pipeline/pkg/config"
)

// Completer turns a system and user prompt into a single text reply
type Completer interface {
	Complete(ctx context.Context, system, user string) (string, error)
	Name() string
}

// New builds the completer selected by cfg.Provider
func New(cfg config.LLMConfig) (Completer, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "openai":
		return NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, cfg.Timeout)
	case "groq":
		return NewGroqCompleter(cfg.GroqAPIKey, cfg.GroqModel, "", cfg.Timeout)
	default:
		return nil, fmt.Errorf("unsupported llm provider: %q", cfg.Provider)
	}
}

// clean strips wrapping quotes and whitespace models like to add
func clean(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		s = strings.TrimSpace(s[1 : len(s)-1])
	}
	return s
}
