package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/noah-isme/hireform-api/internal/dto"
	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/events"
	"github.com/noah-isme/hireform-api/internal/export"
	"github.com/noah-isme/hireform-api/internal/models"
	"github.com/noah-isme/hireform-api/internal/observability"
	"github.com/noah-isme/hireform-api/internal/ranking"
	"github.com/noah-isme/hireform-api/internal/repository"
)

var (
	// ErrInvalidResponses indicates the answers do not satisfy the form.
	ErrInvalidResponses = errors.New("invalid form responses")
	// ErrDocumentTooLarge indicates the résumé exceeded the configured limit.
	ErrDocumentTooLarge = errors.New("resume exceeds maximum allowed size")
	// ErrUpload matches every UploadError.
	ErrUpload = errors.New("resume upload failed")
	// errNoBlobStore is reported when a document arrives but no store is configured.
	errNoBlobStore = errors.New("no blob store configured")
)

// UploadError reports a failed résumé upload. It never fails a submission.
type UploadError struct {
	Key string
	Err error
}

func (e *UploadError) Error() string {
	return fmt.Sprintf("upload %s: %v", e.Key, e.Err)
}

func (e *UploadError) Unwrap() error { return e.Err }

func (e *UploadError) Is(target error) bool { return target == ErrUpload }

// Evaluator scores one résumé. Implementations absorb their own failures.
type Evaluator interface {
	Evaluate(ctx context.Context, input evaluation.Input) evaluation.Outcome
}

// BlobStore persists documents and returns a retrievable URL.
type BlobStore interface {
	Put(ctx context.Context, data []byte, contentType, key string) (string, error)
}

// SubmissionPublisher announces stored submissions.
type SubmissionPublisher interface {
	PublishSubmissionCreated(event events.SubmissionCreated) error
}

// SubmissionService handles candidate intake and the HR ranking views.
type SubmissionService interface {
	Submit(ctx context.Context, publicID string, payload dto.SubmissionCreateRequest, resume *multipart.FileHeader) (dto.SubmissionReceipt, error)
	Ranked(ctx context.Context, ownerID, formID uint, sort string) (dto.RankedSubmissionsResponse, error)
	Export(ctx context.Context, ownerID, formID uint, sort string) (dto.SubmissionExport, error)
}

// SubmissionServiceConfig carries the tunables of the submission service.
type SubmissionServiceConfig struct {
	MaxDocumentBytes int64
	CacheTTL         time.Duration
}

type submissionService struct {
	forms       repository.FormRepository
	submissions repository.SubmissionRepository
	evaluator   Evaluator
	blobs       BlobStore
	publisher   SubmissionPublisher
	cache       *redis.Client
	cacheTTL    time.Duration
	maxBytes    int64
	validator   *validator.Validate
	sanitizer   *bluemonday.Policy
	logger      zerolog.Logger
	now         func() time.Time
}

// NewSubmissionService constructs a SubmissionService. blobs, publisher and
// cache may be nil.
func NewSubmissionService(
	forms repository.FormRepository,
	submissions repository.SubmissionRepository,
	evaluator Evaluator,
	blobs BlobStore,
	publisher SubmissionPublisher,
	cache *redis.Client,
	validate *validator.Validate,
	cfg SubmissionServiceConfig,
	logger zerolog.Logger,
) SubmissionService {
	if cfg.MaxDocumentBytes <= 0 {
		cfg.MaxDocumentBytes = 10 << 20
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 2 * time.Minute
	}

	return &submissionService{
		forms:       forms,
		submissions: submissions,
		evaluator:   evaluator,
		blobs:       blobs,
		publisher:   publisher,
		cache:       cache,
		cacheTTL:    cfg.CacheTTL,
		maxBytes:    cfg.MaxDocumentBytes,
		validator:   validate,
		sanitizer:   bluemonday.StrictPolicy(),
		logger:      logger.With().Str("component", "submission_service").Logger(),
		now:         time.Now,
	}
}

func (s *submissionService) Submit(ctx context.Context, publicID string, payload dto.SubmissionCreateRequest, resume *multipart.FileHeader) (dto.SubmissionReceipt, error) {
	form, err := publicForm(ctx, s.forms, publicID)
	if err != nil {
		return dto.SubmissionReceipt{}, err
	}

	if err := s.validator.Struct(payload); err != nil {
		return dto.SubmissionReceipt{}, err
	}

	responses, err := s.collectResponses(form, payload.Responses, resume != nil)
	if err != nil {
		return dto.SubmissionReceipt{}, err
	}

	document, contentType, err := s.readDocument(resume)
	if err != nil {
		return dto.SubmissionReceipt{}, err
	}

	submission := models.Submission{
		FormID:       form.ID,
		Responses:    responses,
		ResumeStatus: models.ResumeStatusNone,
	}

	if len(document) > 0 {
		outcome := s.evaluate(ctx, form, submission, document)
		submission.AIEvaluation = outcome.Evaluation
		submission.ParsedResume = outcome.Resume
		submission.EvaluationError = string(outcome.FailedStage)

		url, uploadErr := s.upload(ctx, document, contentType, resume.Filename)
		if uploadErr != nil {
			submission.ResumeStatus = models.ResumeStatusUploadFailed
			s.logger.Warn().Err(uploadErr).Uint("form_id", form.ID).Msg("resume upload failed")
		} else {
			submission.ResumeStatus = models.ResumeStatusStored
			submission.ResumeURL = &url
		}
	}

	submission.SubmittedAt = s.now().UTC()
	if err := s.submissions.Create(ctx, &submission); err != nil {
		return dto.SubmissionReceipt{}, fmt.Errorf("store submission: %w", err)
	}

	observability.Submissions().
		WithLabelValues(submission.ResumeStatus, strconv.FormatBool(submission.IsEvaluated())).
		Inc()

	s.logger.Info().
		Uint("submission_id", submission.ID).
		Uint("form_id", form.ID).
		Str("resume_status", submission.ResumeStatus).
		Bool("evaluated", submission.IsEvaluated()).
		Msg("submission stored")

	s.publishCreated(submission)
	s.invalidateRanking(ctx, form.ID)

	return dto.NewSubmissionReceipt(submission), nil
}

// collectResponses checks the answers against the form and sanitizes them.
// Unknown and repeated field ids are rejected; blank required answers are too.
func (s *submissionService) collectResponses(form models.Form, input []dto.ResponseItem, hasDocument bool) ([]models.Response, error) {
	known := make(map[string]models.FormField, len(form.Fields))
	for _, field := range form.Fields {
		known[field.ID] = field
	}

	answers := make(map[string]string, len(input))
	responses := make([]models.Response, 0, len(input))
	for _, item := range input {
		fieldID := strings.TrimSpace(item.FieldID)
		if _, ok := known[fieldID]; !ok {
			return nil, fmt.Errorf("%w: unknown field %q", ErrInvalidResponses, fieldID)
		}
		if _, repeated := answers[fieldID]; repeated {
			return nil, fmt.Errorf("%w: duplicate answer for field %q", ErrInvalidResponses, fieldID)
		}

		value := strings.TrimSpace(s.sanitizer.Sanitize(strings.TrimSpace(item.Value)))
		answers[fieldID] = value
		responses = append(responses, models.Response{FieldID: fieldID, Value: value})
	}

	for _, field := range form.Fields {
		if !field.Required {
			continue
		}
		if field.Type == models.FieldTypeFile {
			if !hasDocument {
				return nil, fmt.Errorf("%w: field %q requires a resume", ErrInvalidResponses, field.ID)
			}
			continue
		}
		if answers[field.ID] == "" {
			return nil, fmt.Errorf("%w: field %q is required", ErrInvalidResponses, field.ID)
		}
	}

	return responses, nil
}

// readDocument buffers the upload once, bounded by maxBytes.
func (s *submissionService) readDocument(file *multipart.FileHeader) ([]byte, string, error) {
	if file == nil {
		return nil, "", nil
	}
	if file.Size > s.maxBytes {
		return nil, "", ErrDocumentTooLarge
	}

	handle, err := file.Open()
	if err != nil {
		return nil, "", fmt.Errorf("open resume: %w", err)
	}
	defer handle.Close()

	buf := bytes.NewBuffer(make([]byte, 0, file.Size))
	if _, err := io.Copy(buf, io.LimitReader(handle, s.maxBytes+1)); err != nil {
		return nil, "", fmt.Errorf("read resume: %w", err)
	}
	if int64(buf.Len()) > s.maxBytes {
		return nil, "", ErrDocumentTooLarge
	}

	contentType := strings.TrimSpace(file.Header.Get("Content-Type"))
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = mimetype.Detect(buf.Bytes()).String()
	}
	if index := strings.Index(contentType, ";"); index >= 0 {
		contentType = strings.TrimSpace(contentType[:index])
	}

	return buf.Bytes(), contentType, nil
}

func (s *submissionService) evaluate(ctx context.Context, form models.Form, submission models.Submission, document []byte) evaluation.Outcome {
	if s.evaluator == nil {
		return evaluation.Outcome{State: evaluation.StateSkipped}
	}

	input := evaluation.Input{
		Document:     document,
		Requirements: form.JobRequirements,
	}
	if fieldID, ok := form.NoticePeriodFieldID(); ok {
		input.NoticePeriod, _ = submission.ResponseValue(fieldID)
	}

	return s.evaluator.Evaluate(ctx, input)
}

var unsafeKeyChars = regexp.MustCompile(`[^a-zA-Z0-9.-]`)

// ResumeKey is the blob key for a résumé uploaded at now.
func ResumeKey(now time.Time, filename string) string {
	name := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "resume"
	}
	return fmt.Sprintf("resumes/%d-%s", now.UnixNano(), unsafeKeyChars.ReplaceAllString(name, "_"))
}

func (s *submissionService) upload(ctx context.Context, document []byte, contentType, filename string) (string, error) {
	key := ResumeKey(s.now(), filename)
	if s.blobs == nil {
		return "", &UploadError{Key: key, Err: errNoBlobStore}
	}

	url, err := s.blobs.Put(ctx, document, contentType, key)
	if err != nil {
		return "", &UploadError{Key: key, Err: err}
	}
	return url, nil
}

func (s *submissionService) publishCreated(submission models.Submission) {
	if s.publisher == nil {
		return
	}

	event := events.SubmissionCreated{
		SubmissionID: submission.ID,
		FormID:       submission.FormID,
		Evaluated:    submission.IsEvaluated(),
		ResumeStatus: submission.ResumeStatus,
		SubmittedAt:  submission.SubmittedAt,
	}
	if submission.AIEvaluation != nil {
		score := submission.AIEvaluation.FinalScore
		event.FinalScore = &score
	}

	if err := s.publisher.PublishSubmissionCreated(event); err != nil {
		s.logger.Warn().Err(err).Uint("submission_id", submission.ID).Msg("failed to publish submission event")
	}
}

func (s *submissionService) Ranked(ctx context.Context, ownerID, formID uint, sort string) (dto.RankedSubmissionsResponse, error) {
	dimension, err := ranking.ParseDimension(sort)
	if err != nil {
		return dto.RankedSubmissionsResponse{}, err
	}

	form, err := ownedForm(ctx, s.forms, ownerID, formID)
	if err != nil {
		return dto.RankedSubmissionsResponse{}, err
	}

	// The key carries the form's ranking generation, so a ranking computed
	// before a concurrent submission is stored under a key no reader uses.
	cacheKey := ""
	if generation, ok := s.rankingGeneration(ctx, formID); ok {
		cacheKey = rankingCacheKey(formID, generation, dimension)
	}
	if cached, ok := s.cachedRanking(ctx, cacheKey); ok {
		return cached, nil
	}

	resolved, ranked, err := s.rank(ctx, formID, dimension)
	if err != nil {
		return dto.RankedSubmissionsResponse{}, err
	}

	evaluated := 0
	for _, submission := range ranked {
		if submission.IsEvaluated() {
			evaluated++
		}
	}

	response := dto.RankedSubmissionsResponse{
		FormID:                 form.ID,
		FormTitle:              form.Title,
		Dimension:              string(resolved),
		Total:                  len(ranked),
		Evaluated:              evaluated,
		Submissions:            dto.NewSubmissionViews(ranked),
		JobRequirementsSummary: dto.NewJobRequirementsSummary(form.JobRequirements),
	}

	s.storeRanking(ctx, cacheKey, response)
	return response, nil
}

func (s *submissionService) Export(ctx context.Context, ownerID, formID uint, sort string) (dto.SubmissionExport, error) {
	dimension, err := ranking.ParseDimension(sort)
	if err != nil {
		return dto.SubmissionExport{}, err
	}

	form, err := ownedForm(ctx, s.forms, ownerID, formID)
	if err != nil {
		return dto.SubmissionExport{}, err
	}

	resolved, ranked, err := s.rank(ctx, formID, dimension)
	if err != nil {
		return dto.SubmissionExport{}, err
	}

	content, err := export.RankedWorkbook(form, resolved, ranked)
	if err != nil {
		return dto.SubmissionExport{}, fmt.Errorf("render export: %w", err)
	}

	return dto.SubmissionExport{
		FileName:    export.FileName(form, resolved),
		ContentType: export.ContentType,
		Content:     content,
	}, nil
}

func (s *submissionService) rank(ctx context.Context, formID uint, dimension ranking.Dimension) (ranking.Dimension, []models.Submission, error) {
	submissions, err := s.submissions.ListByForm(ctx, formID)
	if err != nil {
		return "", nil, fmt.Errorf("list submissions: %w", err)
	}

	resolved := ranking.Resolve(submissions, dimension)
	return resolved, ranking.Rank(submissions, resolved), nil
}

func rankingCacheKey(formID uint, generation int64, dimension ranking.Dimension) string {
	suffix := string(dimension)
	if suffix == "" {
		suffix = "default"
	}
	return fmt.Sprintf("ranking:form:%d:g%d:%s", formID, generation, suffix)
}

func rankingGenerationKey(formID uint) string {
	return fmt.Sprintf("ranking:form:%d:generation", formID)
}

// rankingGeneration reads the form's ranking generation. A missing counter is
// generation zero; ok is false when the cache is absent or unreadable.
func (s *submissionService) rankingGeneration(ctx context.Context, formID uint) (int64, bool) {
	if s.cache == nil {
		return 0, false
	}

	generation, err := s.cache.Get(ctx, rankingGenerationKey(formID)).Int64()
	switch {
	case errors.Is(err, redis.Nil):
		return 0, true
	case err != nil:
		s.logger.Warn().Err(err).Uint("form_id", formID).Msg("failed to read ranking generation")
		return 0, false
	}
	return generation, true
}

func (s *submissionService) cachedRanking(ctx context.Context, key string) (dto.RankedSubmissionsResponse, bool) {
	if s.cache == nil || key == "" {
		return dto.RankedSubmissionsResponse{}, false
	}

	cached, err := s.cache.Get(ctx, key).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			s.logger.Warn().Err(err).Str("key", key).Msg("failed to read ranking cache")
		}
		observability.RankingCacheLookups().WithLabelValues("miss").Inc()
		return dto.RankedSubmissionsResponse{}, false
	}

	var response dto.RankedSubmissionsResponse
	if err := json.Unmarshal([]byte(cached), &response); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("discarding corrupt ranking cache entry")
		observability.RankingCacheLookups().WithLabelValues("miss").Inc()
		return dto.RankedSubmissionsResponse{}, false
	}

	observability.RankingCacheLookups().WithLabelValues("hit").Inc()
	response.CacheHit = true
	return response, true
}

func (s *submissionService) storeRanking(ctx context.Context, key string, response dto.RankedSubmissionsResponse) {
	if s.cache == nil || key == "" {
		return
	}

	payload, err := json.Marshal(response)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to encode ranking cache entry")
		return
	}
	if err := s.cache.Set(ctx, key, payload, s.cacheTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("failed to store ranking cache")
	}
}

func (s *submissionService) invalidateRanking(ctx context.Context, formID uint) {
	if s.cache == nil {
		return
	}

	// Entries of earlier generations are never read again and expire by TTL.
	if err := s.cache.Incr(ctx, rankingGenerationKey(formID)).Err(); err != nil {
		s.logger.Warn().Err(err).Uint("form_id", formID).Msg("failed to invalidate ranking cache")
	}
}
