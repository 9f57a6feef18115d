package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// ProviderConfig selects and configures one model provider.
type ProviderConfig struct {
	Provider    string
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float64
	Logger      zerolog.Logger
}

// NewCompleter builds the Completer for cfg.Provider ("gemini" or "openai").
func NewCompleter(ctx context.Context, cfg ProviderConfig) (Completer, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case providerGemini:
		return NewGeminiCompleter(ctx, GeminiConfig{
			APIKey:          cfg.APIKey,
			Model:           cfg.Model,
			BaseURL:         cfg.BaseURL,
			MaxOutputTokens: int32(cfg.MaxTokens),
			Temperature:     float32(cfg.Temperature),
			Logger:          cfg.Logger,
		})
	case providerOpenAI:
		return NewOpenAICompleter(OpenAIConfig{
			APIKey:      cfg.APIKey,
			Model:       cfg.Model,
			BaseURL:     cfg.BaseURL,
			MaxTokens:   cfg.MaxTokens,
			Temperature: float32(cfg.Temperature),
			Logger:      cfg.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}
