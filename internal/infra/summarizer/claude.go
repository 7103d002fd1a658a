package summarizer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"newshub/internal/resilience/circuitbreaker"
	"newshub/internal/resilience/retry"
)

const DefaultClaudeModel = string(anthropic.ModelClaudeSonnet4_5_20250929)

// Claude summarizes with the Anthropic Messages API.
type Claude struct {
	client anthropic.Client
	caller
}

func NewClaude(apiKey string, cfg Config, metrics MetricsRecorder, logger *slog.Logger) *Claude {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = nopMetrics{}
	}
	if cfg.Model == "" {
		cfg.Model = DefaultClaudeModel
	}
	opts := []option.RequestOption{option.WithAPIKey(apiKey), option.WithMaxRetries(0)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	c := &Claude{client: anthropic.NewClient(opts...)}
	c.caller = caller{
		provider: ProviderClaude,
		cfg:      cfg,
		breaker:  circuitbreaker.New(circuitbreaker.ClaudeAPIConfig()),
		retry:    retry.SummarizerConfig(),
		metrics:  metrics,
		logger:   logger,
		send:     c.send,
	}
	return c
}

func (c *Claude) Summarize(ctx context.Context, body string) (string, error) {
	return c.summarize(ctx, body)
}

func (c *Claude) send(ctx context.Context, prompt string) (string, error) {
	msg, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.cfg.Model),
		MaxTokens: int64(c.cfg.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", statusError(apiErr.StatusCode, fmt.Errorf("claude api: %w", err))
		}
		return "", fmt.Errorf("claude api: %w", err)
	}

	var b strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			b.WriteString(tb.Text)
		}
	}
	out := strings.TrimSpace(b.String())
	if out == "" {
		return "", errors.New("claude api returned no text")
	}
	return out, nil
}
