// Package summarizer drafts article summaries with an LLM. Claude and OpenAI
// adapters share the same prompt, character limit, retry and circuit breaker
// policy; NoOp truncates locally.
package summarizer

import (
	"fmt"
	"log/slog"
	"time"

	"newshub/internal/pkg/config"
)

const (
	ProviderClaude = "claude"
	ProviderOpenAI = "openai"
	ProviderNone   = "none"

	minCharLimit = 100
	maxCharLimit = 5000

	// maxInputRunes bounds the article text sent to a provider.
	maxInputRunes = 10000
)

type Config struct {
	// CharacterLimit is the requested summary length in characters.
	CharacterLimit int
	Language       string
	Model          string
	MaxTokens      int
	// Timeout bounds one Summarize call including retries.
	Timeout time.Duration
	// BaseURL overrides the provider endpoint. Empty uses the SDK default.
	BaseURL string
}

func DefaultConfig() Config {
	return Config{
		CharacterLimit: 400,
		Language:       "English",
		MaxTokens:      1024,
		Timeout:        60 * time.Second,
	}
}

// ValidateCharacterLimit accepts limits from 100 to 5000.
func ValidateCharacterLimit(limit int) error {
	if limit < minCharLimit {
		return fmt.Errorf("character limit %d is below minimum %d", limit, minCharLimit)
	}
	if limit > maxCharLimit {
		return fmt.Errorf("character limit %d exceeds maximum %d", limit, maxCharLimit)
	}
	return nil
}

// LoadConfig reads SUMMARIZER_CHAR_LIMIT, SUMMARIZER_LANGUAGE,
// SUMMARIZER_MODEL and SUMMARIZER_TIMEOUT. Invalid values keep the default.
func LoadConfig(logger *slog.Logger) Config {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := DefaultConfig()

	n := config.LoadInt("SUMMARIZER_CHAR_LIMIT", cfg.CharacterLimit, ValidateCharacterLimit)
	cfg.CharacterLimit = n.Value
	if n.FallbackApplied {
		logger.Warn("summarizer config fallback", slog.String("warning", n.Warning))
	}

	cfg.Language = config.LoadString("SUMMARIZER_LANGUAGE", cfg.Language, nil).Value
	cfg.Model = config.LoadString("SUMMARIZER_MODEL", "", nil).Value

	d := config.LoadDuration("SUMMARIZER_TIMEOUT", cfg.Timeout, func(v time.Duration) error {
		return config.ValidateDuration(v, 5*time.Second, 5*time.Minute)
	})
	cfg.Timeout = d.Value
	if d.FallbackApplied {
		logger.Warn("summarizer config fallback", slog.String("warning", d.Warning))
	}
	return cfg
}

func buildPrompt(cfg Config, body string) string {
	return fmt.Sprintf(
		"Summarize the following news article in %s in at most %d characters. "+
			"Write plain prose without headings or bullet points.\n\n%s",
		cfg.Language, cfg.CharacterLimit, body)
}
