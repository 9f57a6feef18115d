package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hireform-api/internal/evaluation"
)

type scriptedEvaluator struct {
	mu     sync.Mutex
	scores map[string]float64
	inputs []evaluation.Input
}

func (s *scriptedEvaluator) Evaluate(_ context.Context, input evaluation.Input) evaluation.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inputs = append(s.inputs, input)

	score, ok := s.scores[string(input.Document)]
	if !ok {
		return evaluation.Outcome{State: evaluation.StateFailed, FailedStage: evaluation.StageExtracting, Err: evaluation.ErrUnreadableDocument}
	}
	return evaluation.Outcome{State: evaluation.StateDone, Evaluation: &evaluation.ScoreBreakdown{FinalScore: score}}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadRequirementsAcceptsYAMLAndJSON(t *testing.T) {
	dir := t.TempDir()

	yamlPath := writeFile(t, dir, "role.yaml", strings.Join([]string{
		"role: Data Engineer",
		"experience_required:",
		"  minimum: 3",
		"  maximum: 7",
		"required_skills: [Python, Spark]",
		"notice_period:",
		"  required: 30 days",
	}, "\n"))
	requirements, err := loadRequirements(yamlPath)
	require.NoError(t, err)
	require.Equal(t, "Data Engineer", requirements.Role)
	require.Equal(t, 3.0, requirements.ExperienceRequired.Minimum)
	require.Equal(t, []string{"Python", "Spark"}, requirements.RequiredSkills)
	require.Equal(t, "30 days", requirements.NoticePeriod.Required)

	jsonPath := writeFile(t, dir, "role.json", `{"role": " QA Lead ", "preferred_skills": ["Cypress"]}`)
	requirements, err = loadRequirements(jsonPath)
	require.NoError(t, err)
	require.Equal(t, "QA Lead", requirements.Role)
	require.Equal(t, []string{"Cypress"}, requirements.PreferredSkills)

	_, err = loadRequirements(writeFile(t, dir, "empty.yaml", "required_skills: [Go]"))
	require.ErrorContains(t, err, "role is required")

	_, err = loadRequirements(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
}

func TestScoreDocumentsOrdersBestFirst(t *testing.T) {
	dir := t.TempDir()
	low := writeFile(t, dir, "low.pdf", "low")
	high := writeFile(t, dir, "high.pdf", "high")
	broken := writeFile(t, dir, "broken.pdf", "broken")
	mid := writeFile(t, dir, "mid.pdf", "mid")

	evaluator := &scriptedEvaluator{scores: map[string]float64{"low": 40, "high": 92, "mid": 65}}
	requirements := &evaluation.JobRequirements{Role: "Engineer"}

	results, err := scoreDocuments(context.Background(), evaluator, []string{low, broken, high, mid}, requirements, "2 weeks", 2)
	require.NoError(t, err)
	require.Len(t, results, 4)

	require.Equal(t, high, results[0].File)
	require.Equal(t, mid, results[1].File)
	require.Equal(t, low, results[2].File)
	require.Equal(t, broken, results[3].File)
	require.Equal(t, evaluation.StageExtracting, results[3].FailedStage)
	require.NotEmpty(t, results[3].Error)

	require.Len(t, evaluator.inputs, 4)
	for _, input := range evaluator.inputs {
		require.Same(t, requirements, input.Requirements)
		require.Equal(t, "2 weeks", input.NoticePeriod)
	}
}

func TestScoreDocumentsFailsOnMissingFile(t *testing.T) {
	_, err := scoreDocuments(context.Background(), &scriptedEvaluator{}, []string{filepath.Join(t.TempDir(), "nope.pdf")}, nil, "", 0)
	require.ErrorContains(t, err, "failed to read")
}
