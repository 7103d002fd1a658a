package summarizer

import (
	"fmt"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"newshub/internal/pkg/config"
	"newshub/internal/usecase/article"
)

// FromEnv picks a summarizer from SUMMARIZER_PROVIDER (claude, openai or
// none). A provider without its API key is an error; an empty provider
// selects claude when ANTHROPIC_API_KEY is set, then openai, then none.
func FromEnv(reg prometheus.Registerer, logger *slog.Logger) (article.Summarizer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	cfg := LoadConfig(logger)
	anthropicKey := config.LoadString("ANTHROPIC_API_KEY", "", nil).Value
	openaiKey := config.LoadString("OPENAI_API_KEY", "", nil).Value

	provider := config.LoadString("SUMMARIZER_PROVIDER", "", config.OneOf(ProviderClaude, ProviderOpenAI, ProviderNone)).Value
	if provider == "" {
		switch {
		case anthropicKey != "":
			provider = ProviderClaude
		case openaiKey != "":
			provider = ProviderOpenAI
		default:
			provider = ProviderNone
		}
	}

	logger.Info("summarizer configured",
		slog.String("provider", provider),
		slog.Int("character_limit", cfg.CharacterLimit),
		slog.String("language", cfg.Language))

	switch provider {
	case ProviderClaude:
		if anthropicKey == "" {
			return nil, fmt.Errorf("SUMMARIZER_PROVIDER=claude requires ANTHROPIC_API_KEY")
		}
		return NewClaude(anthropicKey, cfg, NewMetrics(reg), logger), nil
	case ProviderOpenAI:
		if openaiKey == "" {
			return nil, fmt.Errorf("SUMMARIZER_PROVIDER=openai requires OPENAI_API_KEY")
		}
		return NewOpenAI(openaiKey, cfg, NewMetrics(reg), logger), nil
	default:
		return NewNoOp(cfg.CharacterLimit), nil
	}
}
