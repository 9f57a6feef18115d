package evaluation

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/noah-isme/hireform-api/pkg/ai"
)

// Scorer compares a StructuredResume against JobRequirements via a language model.
type Scorer struct {
	model  ai.Completer
	logger zerolog.Logger
}

// NewScorer constructs a scorer backed by model.
func NewScorer(model ai.Completer, logger zerolog.Logger) *Scorer {
	return &Scorer{
		model:  model,
		logger: logger.With().Str("component", "resume_scorer").Logger(),
	}
}

// Score returns the five-factor breakdown. FinalScore is always recomputed
// from the factors, whatever the model replied.
func (s *Scorer) Score(ctx context.Context, resume StructuredResume, requirements *JobRequirements) (ScoreBreakdown, error) {
	prompt, err := BuildScoringPrompt(resume, requirements)
	if err != nil {
		return ScoreBreakdown{}, err
	}

	reply, err := s.model.Complete(ctx, prompt)
	if err != nil {
		return ScoreBreakdown{}, fmt.Errorf("score resume: %w", err)
	}

	breakdown, err := ParseScoreBreakdown(reply)
	if err != nil {
		s.logger.Debug().Err(err).Int("reply_chars", len(reply)).Msg("scoring reply rejected")
		return ScoreBreakdown{}, err
	}

	return breakdown, nil
}

// BuildScoringPrompt embeds the résumé and requirements as JSON together with
// the per-factor rubric.
func BuildScoringPrompt(resume StructuredResume, requirements *JobRequirements) (string, error) {
	if requirements == nil {
		return "", &ScoringError{Reason: "job requirements missing"}
	}

	requirementsJSON, err := json.MarshalIndent(requirements, "", "  ")
	if err != nil {
		return "", &ScoringError{Reason: "encode job requirements", Err: err}
	}

	resumeJSON, err := json.MarshalIndent(resume, "", "  ")
	if err != nil {
		return "", &ScoringError{Reason: "encode resume", Err: err}
	}

	var builder strings.Builder
	builder.WriteString("You are an HR assistant. Score this candidate's résumé against the job requirements.\n")
	builder.WriteString("Score each factor strictly from 0 to 100. The final score is the average of the five factors.\n\n")
	builder.WriteString("Job requirements:\n")
	builder.Write(requirementsJSON)
	builder.WriteString("\n\nCandidate résumé:\n")
	builder.Write(resumeJSON)
	builder.WriteString(`

Factors:
1. Skills (0-100): reward exact or close matches with required_skills and preferred_skills. Deduct for missing critical required skills.
2. Experience (0-100): compare total_experience_years with experience_required.minimum and maximum. Weigh the relevance of past roles and industry match against preferred_industry.
3. Education (0-100): degree relevance to qualifications and institution tier. Certifications count as a bonus.
4. Notice period (0-100): full marks when the candidate's notice_period matches notice_period.required. Deduct proportionally as it exceeds the requirement. Credit immediate availability when notice_period.preferred asks for it.
5. Overall profile (0-100): project relevance, industry alignment and achievements not covered above.

Return only valid JSON in this format:
{
  "breakdown": {
    "skills_score": number,
    "experience_score": number,
    "education_score": number,
    "notice_period_score": number,
    "overall_profile_score": number
  },
  "final_score": number,
  "detailed_reasoning": {
    "skills_analysis": string,
    "experience_analysis": string,
    "education_analysis": string,
    "notice_period_analysis": string,
    "overall_analysis": string
  }
}`)

	return builder.String(), nil
}

// ParseScoreBreakdown strips fences from a model reply, validates it and
// returns a normalized breakdown.
func ParseScoreBreakdown(reply string) (ScoreBreakdown, error) {
	var raw struct {
		Breakdown struct {
			SkillsScore         float64 `json:"skills_score"`
			ExperienceScore     float64 `json:"experience_score"`
			EducationScore      float64 `json:"education_score"`
			NoticePeriodScore   float64 `json:"notice_period_score"`
			OverallProfileScore float64 `json:"overall_profile_score"`
		} `json:"breakdown"`
		DetailedReasoning struct {
			SkillsAnalysis       flexString `json:"skills_analysis"`
			ExperienceAnalysis   flexString `json:"experience_analysis"`
			EducationAnalysis    flexString `json:"education_analysis"`
			NoticePeriodAnalysis flexString `json:"notice_period_analysis"`
			OverallAnalysis      flexString `json:"overall_analysis"`
		} `json:"detailed_reasoning"`
	}

	if reason, err := decodeValidated(scoreSchema, StripFences(reply), &raw); err != nil {
		return ScoreBreakdown{}, &ScoringError{Reason: reason, Err: err}
	}

	breakdown := ScoreBreakdown{
		SkillsScore:         raw.Breakdown.SkillsScore,
		ExperienceScore:     raw.Breakdown.ExperienceScore,
		EducationScore:      raw.Breakdown.EducationScore,
		NoticePeriodScore:   raw.Breakdown.NoticePeriodScore,
		OverallProfileScore: raw.Breakdown.OverallProfileScore,
		DetailedReasoning: Reasoning{
			SkillsAnalysis:       string(raw.DetailedReasoning.SkillsAnalysis),
			ExperienceAnalysis:   string(raw.DetailedReasoning.ExperienceAnalysis),
			EducationAnalysis:    string(raw.DetailedReasoning.EducationAnalysis),
			NoticePeriodAnalysis: string(raw.DetailedReasoning.NoticePeriodAnalysis),
			OverallAnalysis:      string(raw.DetailedReasoning.OverallAnalysis),
		},
	}
	breakdown.Normalize()

	return breakdown, nil
}
