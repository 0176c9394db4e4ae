package llm

import (
	"context"
	"errors"
	"time"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	apperrors "github.com/mclantax/content-pipeline/pkg/errors"
)

// OpenAICompleter calls the chat completions API
type OpenAICompleter struct {
	client  openai.Client
	model   string
	timeout time.Duration
}

func NewOpenAICompleter(apiKey, model, baseURL string, timeout time.Duration) (*OpenAICompleter, error) {
	if apiKey == "" {
		return nil, apperrors.ConfigurationMissing("OPENAI_API_KEY")
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(1)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	return &OpenAICompleter{client: openai.NewClient(opts...), model: model, timeout: timeout}, nil
}

func (o *OpenAICompleter) Name() string { return "openai" }

func (o *OpenAICompleter) Complete(ctx context.Context, system, user string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	resp, err := o.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) {
			return "", apperrors.UpstreamRejected("openai", apiErr.StatusCode, apiErr.Message).WithCause(err)
		}
		return "", apperrors.UpstreamTransport("openai", err)
	}
	if len(resp.Choices) == 0 {
		return "", apperrors.UpstreamRejected("openai", 200, "no choices in response")
	}

	content := clean(resp.Choices[0].Message.Content)
	if content == "" {
		return "", apperrors.UpstreamRejected("openai", 200, "empty response")
	}
	return content, nil
}
