package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const providerOpenAI = "openai"

// OpenAIConfig defines configuration options for the OpenAI completer.
type OpenAIConfig struct {
	APIKey      string
	Model       string
	BaseURL     string
	MaxTokens   int
	Temperature float32
	Logger      zerolog.Logger
}

// OpenAICompleter implements Completer against the OpenAI chat completion API.
type OpenAICompleter struct {
	client *openai.Client
	cfg    OpenAIConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewOpenAICompleter builds a completer using the provided configuration.
func NewOpenAICompleter(cfg OpenAIConfig) (*OpenAICompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("openai api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gpt-4o-mini"
	}

	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 4096
	}

	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	}

	return &OpenAICompleter{
		client: openai.NewClientWithConfig(config),
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/hireform-api/pkg/ai/openai"),
		logger: cfg.Logger.With().Str("component", "openai_completer").Logger(),
	}, nil
}

// Complete sends the prompt as a single user message and returns the first choice.
func (c *OpenAICompleter) Complete(parent context.Context, prompt string) (string, error) {
	ctx, span := c.tracer.Start(parent, "openai.complete", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
		attribute.Int("prompt_chars", len(prompt)),
	))
	defer span.End()

	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are an HR assistant. Reply with a single JSON object and nothing else.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{Type: openai.ChatCompletionResponseFormatTypeJSONObject},
	})
	observeCompletion(providerOpenAI, c.cfg.Model, start)
	if err != nil {
		return "", recordFailure(span, providerOpenAI, c.cfg.Model, fmt.Errorf("create chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", recordFailure(span, providerOpenAI, c.cfg.Model, errors.New("no choices returned"))
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", recordFailure(span, providerOpenAI, c.cfg.Model, errors.New("empty completion"))
	}

	c.logger.Debug().
		Int("prompt_tokens", resp.Usage.PromptTokens).
		Int("completion_tokens", resp.Usage.CompletionTokens).
		Dur("latency", time.Since(start)).
		Msg("completion received")

	return content, nil
}
