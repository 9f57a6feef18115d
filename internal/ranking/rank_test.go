package ranking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/models"
)

var baseTime = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func scored(id uint, final, skills float64, minutes int) models.Submission {
	return models.Submission{
		ID:          id,
		SubmittedAt: baseTime.Add(time.Duration(minutes) * time.Minute),
		AIEvaluation: &evaluation.ScoreBreakdown{
			FinalScore:  final,
			SkillsScore: skills,
		},
	}
}

func unscored(id uint, minutes int) models.Submission {
	return models.Submission{ID: id, SubmittedAt: baseTime.Add(time.Duration(minutes) * time.Minute)}
}

func ids(submissions []models.Submission) []uint {
	result := make([]uint, 0, len(submissions))
	for _, submission := range submissions {
		result = append(result, submission.ID)
	}
	return result
}

func TestRankByScoreDimensions(t *testing.T) {
	submissions := []models.Submission{
		scored(1, 70, 95, 0),
		unscored(2, 1),
		scored(3, 88, 60, 2),
		scored(4, 70, 80, 3),
	}

	assert.Equal(t, []uint{3, 1, 4, 2}, ids(Rank(submissions, FinalScore)))
	assert.Equal(t, []uint{1, 4, 3, 2}, ids(Rank(submissions, SkillsScore)))
	assert.Equal(t, []uint{4, 3, 2, 1}, ids(Rank(submissions, SubmissionDate)))
}

func TestRankKeepsUnevaluatedSubmissionsLast(t *testing.T) {
	submissions := []models.Submission{
		unscored(1, 5),
		scored(2, 0, 0, 0),
		unscored(3, 1),
		scored(4, 10, 10, 2),
	}

	ranked := Rank(submissions, FinalScore)
	require.Len(t, ranked, 4)
	assert.Equal(t, []uint{4, 2, 1, 3}, ids(ranked))
}

func TestRankIsIdempotentAndPure(t *testing.T) {
	submissions := []models.Submission{
		scored(1, 50, 0, 0),
		scored(2, 90, 0, 1),
		unscored(3, 2),
		scored(4, 50, 0, 3),
		scored(5, 90, 0, 4),
	}
	original := ids(submissions)

	once := Rank(submissions, FinalScore)
	twice := Rank(once, FinalScore)

	assert.Equal(t, ids(once), ids(twice))
	assert.Equal(t, []uint{2, 5, 1, 4, 3}, ids(once))
	assert.Equal(t, original, ids(submissions))
}

func TestDefaultDimension(t *testing.T) {
	assert.Equal(t, SubmissionDate, DefaultDimension(nil))
	assert.Equal(t, SubmissionDate, DefaultDimension([]models.Submission{unscored(1, 0)}))
	assert.Equal(t, FinalScore, DefaultDimension([]models.Submission{unscored(1, 0), scored(2, 1, 1, 1)}))

	unevaluated := []models.Submission{unscored(1, 0), unscored(2, 5)}
	assert.Equal(t, []uint{2, 1}, ids(Rank(unevaluated, "")))
}

func TestParseDimension(t *testing.T) {
	cases := map[string]Dimension{
		"":                    "",
		"finalScore":          FinalScore,
		"final_score":         FinalScore,
		"NOTICE_PERIOD_SCORE": NoticePeriodScore,
		"overallProfileScore": OverallProfileScore,
		" submissionDate ":    SubmissionDate,
	}
	for input, expected := range cases {
		dimension, err := ParseDimension(input)
		require.NoError(t, err, input)
		assert.Equal(t, expected, dimension, input)
	}

	_, err := ParseDimension("salary")
	require.ErrorIs(t, err, ErrUnknownDimension)
}
