package evaluation

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/noah-isme/hireform-api/internal/observability"
)

// Stage names a processing step of the pipeline.
type Stage string

const (
	StageExtracting  Stage = "extracting"
	StageStructuring Stage = "structuring"
	StageScoring     Stage = "scoring"
)

// State is the terminal state of one pipeline run.
type State string

const (
	// StateSkipped means no document or no job requirements; nothing was attempted.
	StateSkipped State = "skipped"
	// StateFailed means a stage failed and no evaluation is available.
	StateFailed State = "failed"
	// StateDone means the résumé was scored.
	StateDone State = "done"
)

// Input is everything one evaluation needs.
type Input struct {
	Document     []byte
	Requirements *JobRequirements
	// NoticePeriod is the candidate's stated notice period, if the form asked for it.
	NoticePeriod string
}

// Outcome reports how far a run got. Evaluation is nil unless State is StateDone.
type Outcome struct {
	State       State
	FailedStage Stage
	Err         error
	Resume      *StructuredResume
	Evaluation  *ScoreBreakdown
	Duration    time.Duration
}

// Evaluated reports whether the run produced a score breakdown.
func (o Outcome) Evaluated() bool {
	return o.State == StateDone && o.Evaluation != nil
}

// Pipeline sequences extraction, structuring and scoring for one document.
type Pipeline struct {
	extractor  Extractor
	structurer *Structurer
	scorer     *Scorer
	logger     zerolog.Logger
	tracer     trace.Tracer
	now        func() time.Time
}

// NewPipeline wires the three stages.
func NewPipeline(extractor Extractor, structurer *Structurer, scorer *Scorer, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		structurer: structurer,
		scorer:     scorer,
		logger:     logger.With().Str("component", "evaluation_pipeline").Logger(),
		tracer:     otel.Tracer("github.com/noah-isme/hireform-api/internal/evaluation"),
		now:        time.Now,
	}
}

// Evaluate runs the stages in order and absorbs every failure into the Outcome.
// It never calls the model when the document or the requirements are missing.
func (p *Pipeline) Evaluate(parent context.Context, input Input) Outcome {
	if len(input.Document) == 0 || input.Requirements == nil {
		return Outcome{State: StateSkipped}
	}

	ctx, span := p.tracer.Start(parent, "evaluation.pipeline", trace.WithAttributes(
		attribute.Int("document_bytes", len(input.Document)),
		attribute.String("role", input.Requirements.Role),
	))
	defer span.End()

	start := p.now()
	outcome := p.run(ctx, input)
	outcome.Duration = p.now().Sub(start)

	observability.PipelineLatency().WithLabelValues(string(outcome.State)).Observe(outcome.Duration.Seconds())
	span.SetAttributes(attribute.String("state", string(outcome.State)))
	if outcome.Err != nil {
		span.RecordError(outcome.Err)
		span.SetStatus(codes.Error, string(outcome.FailedStage))
	}

	return outcome
}

func (p *Pipeline) run(ctx context.Context, input Input) Outcome {
	text, err := p.extractor.Extract(ctx, input.Document)
	if err != nil {
		return p.fail(StageExtracting, err)
	}
	p.succeed(StageExtracting)

	resume, err := p.structurer.Structure(ctx, text)
	if err != nil {
		return p.fail(StageStructuring, err)
	}
	if input.NoticePeriod != "" {
		resume.NoticePeriod = input.NoticePeriod
	}
	p.succeed(StageStructuring)

	breakdown, err := p.scorer.Score(ctx, resume, input.Requirements)
	if err != nil {
		outcome := p.fail(StageScoring, err)
		outcome.Resume = &resume
		return outcome
	}
	p.succeed(StageScoring)

	p.logger.Info().
		Float64("final_score", breakdown.FinalScore).
		Float64("experience_years", resume.TotalExperienceYears).
		Msg("resume evaluated")

	return Outcome{
		State:      StateDone,
		Resume:     &resume,
		Evaluation: &breakdown,
	}
}

func (p *Pipeline) succeed(stage Stage) {
	observability.PipelineStages().WithLabelValues(string(stage), "ok").Inc()
}

func (p *Pipeline) fail(stage Stage, err error) Outcome {
	observability.PipelineStages().WithLabelValues(string(stage), "error").Inc()
	p.logger.Warn().Err(err).Str("stage", string(stage)).Msg("evaluation stage failed")

	return Outcome{
		State:       StateFailed,
		FailedStage: stage,
		Err:         err,
	}
}
