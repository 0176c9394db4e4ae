package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/conneroisu/groq-go"

	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

// GroqCompleter calls Groq's chat completion endpoint
type GroqCompleter struct {
	client  *groq.Client
	model   groq.ChatModel
	timeout time.Duration
}

func NewGroqCompleter(apiKey, model, baseURL string, timeout time.Duration) (*GroqCompleter, error) {
	if apiKey == "" {
		return nil, apperrors.ConfigurationMissing("GROQ_API_KEY")
	}
	if model == "" {
		model = "llama-3.3-70b-versatile"
	}

	var (
		client *groq.Client
		err    error
	)
	if baseURL != "" {
		client, err = groq.NewClient(apiKey, groq.WithBaseURL(baseURL))
	} else {
		client, err = groq.NewClient(apiKey)
	}
	if err != nil {
		return nil, fmt.Errorf("create groq client: %w", err)
	}
	return &GroqCompleter{client: client, model: groq.ChatModel(model), timeout: timeout}, nil
}

func (g *GroqCompleter) Name() string { return "groq" }

func (g *GroqCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	resp, err := g.client.ChatCompletion(ctx, groq.ChatCompletionRequest{
		Model: g.model,
		Messages: []groq.ChatCompletionMessage{
			{Role: groq.RoleSystem, Content: system},
			{Role: groq.RoleUser, Content: user},
		},
	})
	if err != nil {
		return "", apperrors.UpstreamTransport("groq", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.UpstreamRejected("groq", 200, "no response")
	}

	content := clean(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperrors.UpstreamRejected("groq", 200, "empty response")
	}
	return content, nil
}
