package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
)

const DefaultOpenAIModel = openai.GPT4oMini

// OpenAI summarizes with the chat completions API.
type OpenAI struct {
	client *openai.Client
	caller
}

func NewOpenAI(apiKey string, cfg Config, metrics MetricsRecorder, logger *slog.Logger) *OpenAI {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultOpenAIModel
	}
	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	o := &OpenAI{client: openai.NewClientWithConfig(clientCfg)}
	o.caller = caller{
		provider: ProviderOpenAI,
		cfg:      cfg,
		breaker:  circuitbreaker.New(circuitbreaker.OpenAIAPIConfig()),
		retry:    retry.SummarizerConfig(),
		metrics:  metrics,
		logger:   logger,
		send:     o.send,
	}
	return o
}

func (o *OpenAI) Summarize(ctx context.Context, body string) (string, error) {
	return o.summarize(ctx, body)
}

func (o *OpenAI) send(ctx context.Context, prompt string) (string, error) {
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:     o.cfg.Model,
		MaxTokens: o.cfg.MaxTokens,
		Messages: []openai.ChatCompletionMessage{{
			Role:    openai.ChatMessageRoleUser,
			Content: prompt,
		}},
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", statusError(apiErr.HTTPStatusCode, fmt.Errorf("openai api: %w", err))
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", statusError(reqErr.HTTPStatusCode, fmt.Errorf("openai api: %w", err))
		}
		return "", fmt.Errorf("openai api: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", errors.New("openai api returned no choices")
	}
	out := strings.TrimSpace(resp.Choices[0].Message.Content)
	if out == "" {
		return "", errors.New("openai api returned no text")
	}
	return out, nil
}
