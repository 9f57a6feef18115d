package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/hireform-api/internal/evaluation"
)

var (
	scoreRequirementsFile string
	scoreNoticePeriod     string
	scoreConcurrency      int
	scoreOutputFile       string
)

var scoreCmd = &cobra.Command{
	Use:   "score <resume.pdf>...",
	Short: "Score one or more résumés and print them best first",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runScore,
}

func init() {
	scoreCmd.Flags().StringVarP(&scoreRequirementsFile, "requirements", "r", "", "Path to job requirements (YAML or JSON)")
	scoreCmd.Flags().StringVar(&scoreNoticePeriod, "notice", "", "Candidate notice period applied to every résumé")
	scoreCmd.Flags().IntVarP(&scoreConcurrency, "concurrency", "c", 4, "Résumés evaluated in parallel")
	scoreCmd.Flags().StringVarP(&scoreOutputFile, "output", "o", "", "Write JSON results to this file instead of stdout")
	_ = scoreCmd.MarkFlagRequired("requirements")

	rootCmd.AddCommand(scoreCmd)
}

// Evaluator runs one résumé through the pipeline.
type Evaluator interface {
	Evaluate(ctx context.Context, input evaluation.Input) evaluation.Outcome
}

type scoreResult struct {
	File        string                       `json:"file"`
	State       evaluation.State             `json:"state"`
	FailedStage evaluation.Stage             `json:"failed_stage,omitempty"`
	Error       string                       `json:"error,omitempty"`
	DurationMS  int64                        `json:"duration_ms"`
	Resume      *evaluation.StructuredResume `json:"resume,omitempty"`
	Evaluation  *evaluation.ScoreBreakdown   `json:"evaluation"`
}

func runScore(cmd *cobra.Command, args []string) error {
	requirements, err := loadRequirements(scoreRequirementsFile)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger := newLogger()
	model, err := newModel(ctx, logger)
	if err != nil {
		return err
	}

	results, err := scoreDocuments(ctx, newPipeline(model, logger), args, requirements, scoreNoticePeriod, scoreConcurrency)
	if err != nil {
		return err
	}

	var out io.Writer = cmd.OutOrStdout()
	if scoreOutputFile != "" {
		file, err := os.Create(scoreOutputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer file.Close()
		out = file
	}

	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(results)
}

// loadRequirements reads a YAML document. JSON input parses as YAML too.
func loadRequirements(path string) (*evaluation.JobRequirements, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read requirements: %w", err)
	}

	var requirements evaluation.JobRequirements
	if err := yaml.Unmarshal(content, &requirements); err != nil {
		return nil, fmt.Errorf("failed to parse requirements %s: %w", filepath.Base(path), err)
	}

	requirements.Role = strings.TrimSpace(requirements.Role)
	if requirements.Role == "" {
		return nil, fmt.Errorf("requirements %s: role is required", filepath.Base(path))
	}

	return &requirements, nil
}

// scoreDocuments evaluates every file with at most concurrency runs in flight.
// Pipeline failures are reported per file; only unreadable paths abort the run.
func scoreDocuments(ctx context.Context, evaluator Evaluator, paths []string, requirements *evaluation.JobRequirements, notice string, concurrency int) ([]scoreResult, error) {
	if concurrency <= 0 {
		concurrency = 1
	}

	results := make([]scoreResult, len(paths))
	var mu sync.Mutex

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, path := range paths {
		g.Go(func() error {
			document, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}

			outcome := evaluator.Evaluate(gCtx, evaluation.Input{
				Document:     document,
				Requirements: requirements,
				NoticePeriod: notice,
			})

			result := scoreResult{
				File:        path,
				State:       outcome.State,
				FailedStage: outcome.FailedStage,
				DurationMS:  outcome.Duration.Milliseconds(),
				Resume:      outcome.Resume,
				Evaluation:  outcome.Evaluation,
			}
			if outcome.Err != nil {
				result.Error = outcome.Err.Error()
			}

			mu.Lock()
			results[i] = result
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(i, j int) bool {
		left, right := results[i].Evaluation, results[j].Evaluation
		switch {
		case left != nil && right != nil:
			return left.FinalScore > right.FinalScore
		default:
			return left != nil && right == nil
		}
	})

	return results, nil
}
