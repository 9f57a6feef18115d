package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/genai"
)

const providerGemini = "gemini"

// GeminiConfig defines configuration options for the Gemini completer.
type GeminiConfig struct {
	APIKey string
	Model  string
	// BaseURL overrides the generativelanguage endpoint, e.g. for a proxy.
	BaseURL         string
	MaxOutputTokens int32
	Temperature     float32
	Logger          zerolog.Logger
}

// GeminiCompleter implements Completer against the Gemini generateContent API.
type GeminiCompleter struct {
	client *genai.Client
	cfg    GeminiConfig
	tracer trace.Tracer
	logger zerolog.Logger
}

// NewGeminiCompleter creates a Gemini API client.
func NewGeminiCompleter(ctx context.Context, cfg GeminiConfig) (*GeminiCompleter, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini api key is required")
	}

	if cfg.Model == "" {
		cfg.Model = "gemini-2.5-flash"
	}

	if cfg.MaxOutputTokens == 0 {
		cfg.MaxOutputTokens = 4096
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      cfg.APIKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{BaseURL: cfg.BaseURL},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	return &GeminiCompleter{
		client: client,
		cfg:    cfg,
		tracer: otel.Tracer("github.com/noah-isme/hireform-api/pkg/ai/gemini"),
		logger: cfg.Logger.With().Str("component", "gemini_completer").Logger(),
	}, nil
}

// Complete sends the prompt and returns the concatenated text of the first candidate.
func (c *GeminiCompleter) Complete(parent context.Context, prompt string) (string, error) {
	ctx, span := c.tracer.Start(parent, "gemini.complete", trace.WithAttributes(
		attribute.String("model", c.cfg.Model),
		attribute.Int("prompt_chars", len(prompt)),
	))
	defer span.End()

	temperature := c.cfg.Temperature
	start := time.Now()
	resp, err := c.client.Models.GenerateContent(ctx, c.cfg.Model, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature:      &temperature,
		MaxOutputTokens:  c.cfg.MaxOutputTokens,
		ResponseMIMEType: "application/json",
	})
	observeCompletion(providerGemini, c.cfg.Model, start)
	if err != nil {
		return "", recordFailure(span, providerGemini, c.cfg.Model, fmt.Errorf("generate content: %w", err))
	}

	if resp == nil || len(resp.Candidates) == 0 {
		return "", recordFailure(span, providerGemini, c.cfg.Model, errors.New("no candidates returned"))
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", recordFailure(span, providerGemini, c.cfg.Model, errors.New("empty completion"))
	}

	c.logger.Debug().Dur("latency", time.Since(start)).Msg("completion received")

	return text, nil
}
