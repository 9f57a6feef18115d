// Command evaluate scores résumé PDFs against job requirements from the shell,
// using the same pipeline as the API.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/noah-isme/hireform-api/internal/config"
	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/pkg/ai"
)

var (
	providerFlag string
	modelFlag    string
	verboseFlag  bool
)

var rootCmd = &cobra.Command{
	Use:           "evaluate",
	Short:         "Score résumés against job requirements",
	Long:          "Extracts, structures and scores PDF résumés with the configured language model provider.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&providerFlag, "provider", "", "Model provider, gemini or openai (overrides HIREFORM_AI_PROVIDER)")
	rootCmd.PersistentFlags().StringVar(&modelFlag, "model", "", "Model name (overrides HIREFORM_AI_MODEL)")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Log pipeline progress to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newLogger() zerolog.Logger {
	level := zerolog.WarnLevel
	if verboseFlag {
		level = zerolog.DebugLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).Level(level).With().Timestamp().Logger()
}

// newModel resolves configuration and flag overrides into a Completer.
func newModel(ctx context.Context, logger zerolog.Logger) (ai.Completer, error) {
	cfg, err := config.LoadEvaluator()
	if err != nil {
		return nil, err
	}

	if providerFlag != "" {
		cfg.AIProvider = providerFlag
	}
	if modelFlag != "" {
		cfg.AIModel = modelFlag
	}

	return ai.NewCompleter(ctx, ai.ProviderConfig{
		Provider:    cfg.AIProvider,
		APIKey:      cfg.AIAPIKey(),
		Model:       cfg.AIModel,
		BaseURL:     cfg.AIBaseURL(),
		MaxTokens:   cfg.AIMaxTokens,
		Temperature: cfg.AITemperature,
		Logger:      logger,
	})
}

func newPipeline(model ai.Completer, logger zerolog.Logger) *evaluation.Pipeline {
	return evaluation.NewPipeline(
		evaluation.NewPDFExtractor(),
		evaluation.NewStructurer(model, logger),
		evaluation.NewScorer(model, logger),
		logger,
	)
}
