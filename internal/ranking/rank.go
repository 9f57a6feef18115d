// Package ranking orders stored submissions for the HR dashboard.
package ranking

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/models"
)

// Dimension is the field submissions are ordered by. Every dimension sorts descending.
type Dimension string

const (
	FinalScore          Dimension = "finalScore"
	SkillsScore         Dimension = "skillsScore"
	ExperienceScore     Dimension = "experienceScore"
	EducationScore      Dimension = "educationScore"
	NoticePeriodScore   Dimension = "noticePeriodScore"
	OverallProfileScore Dimension = "overallProfileScore"
	SubmissionDate      Dimension = "submissionDate"
)

// ErrUnknownDimension is returned by ParseDimension for unsupported names.
var ErrUnknownDimension = errors.New("unknown ranking dimension")

var scoreOf = map[Dimension]func(evaluation.ScoreBreakdown) float64{
	FinalScore:          func(b evaluation.ScoreBreakdown) float64 { return b.FinalScore },
	SkillsScore:         func(b evaluation.ScoreBreakdown) float64 { return b.SkillsScore },
	ExperienceScore:     func(b evaluation.ScoreBreakdown) float64 { return b.ExperienceScore },
	EducationScore:      func(b evaluation.ScoreBreakdown) float64 { return b.EducationScore },
	NoticePeriodScore:   func(b evaluation.ScoreBreakdown) float64 { return b.NoticePeriodScore },
	OverallProfileScore: func(b evaluation.ScoreBreakdown) float64 { return b.OverallProfileScore },
}

// Dimensions lists every supported dimension.
func Dimensions() []Dimension {
	return []Dimension{
		FinalScore,
		SkillsScore,
		ExperienceScore,
		EducationScore,
		NoticePeriodScore,
		OverallProfileScore,
		SubmissionDate,
	}
}

// ParseDimension accepts camelCase names and their snake_case aliases.
// An empty value returns an empty Dimension, meaning "use the default".
func ParseDimension(value string) (Dimension, error) {
	normalized := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(value), "_", ""))
	if normalized == "" {
		return "", nil
	}

	for _, dimension := range Dimensions() {
		if strings.ToLower(string(dimension)) == normalized {
			return dimension, nil
		}
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownDimension, value)
}

// DefaultDimension is FinalScore when any submission is evaluated, SubmissionDate otherwise.
func DefaultDimension(submissions []models.Submission) Dimension {
	for _, submission := range submissions {
		if submission.IsEvaluated() {
			return FinalScore
		}
	}
	return SubmissionDate
}

// Resolve returns dimension, or the default for submissions when dimension is empty or unknown.
func Resolve(submissions []models.Submission, dimension Dimension) Dimension {
	if _, ok := scoreOf[dimension]; ok || dimension == SubmissionDate {
		return dimension
	}
	return DefaultDimension(submissions)
}

// Rank returns a new slice ordered by dimension, highest first. Submissions
// without an evaluation score 0, sort after evaluated ones with an equal score
// and are never dropped. Remaining ties keep their input order, so ranking an
// already ranked slice is a no-op.
func Rank(submissions []models.Submission, dimension Dimension) []models.Submission {
	dimension = Resolve(submissions, dimension)

	entries := make([]entry, len(submissions))
	for i, submission := range submissions {
		entries[i] = entry{submission: submission, evaluated: submission.IsEvaluated()}
		if dimension != SubmissionDate && submission.AIEvaluation != nil {
			entries[i].score = scoreOf[dimension](*submission.AIEvaluation)
		}
	}

	sort.SliceStable(entries, func(i, j int) bool {
		if dimension == SubmissionDate {
			return entries[i].submission.SubmittedAt.After(entries[j].submission.SubmittedAt)
		}
		if entries[i].score != entries[j].score {
			return entries[i].score > entries[j].score
		}
		return entries[i].evaluated && !entries[j].evaluated
	})

	ranked := make([]models.Submission, len(entries))
	for i, item := range entries {
		ranked[i] = item.submission
	}
	return ranked
}

type entry struct {
	submission models.Submission
	score      float64
	evaluated  bool
}
