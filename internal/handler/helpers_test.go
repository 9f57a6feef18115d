package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strconv"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/hireform-api/internal/config"
	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/handler"
	"github.com/noah-isme/hireform-api/internal/models"
	"github.com/noah-isme/hireform-api/internal/repository"
	"github.com/noah-isme/hireform-api/internal/router"
	"github.com/noah-isme/hireform-api/internal/service"
)

type stubEvaluator struct {
	mu      sync.Mutex
	outcome evaluation.Outcome
	calls   int
}

func (s *stubEvaluator) Evaluate(context.Context, evaluation.Input) evaluation.Outcome {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	return s.outcome
}

type stubBlobStore struct{}

func (stubBlobStore) Put(_ context.Context, _ []byte, _ string, key string) (string, error) {
	return "https://files.test/" + key, nil
}

type testApp struct {
	app       *fiber.App
	db        *gorm.DB
	evaluator *stubEvaluator
}

// setupApp wires the real services over sqlite. Authenticated requests carry
// the caller in X-Test-User and X-Test-Role headers.
func setupApp(t *testing.T) *testApp {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Form{}, &models.Submission{}))

	validate := validator.New(validator.WithRequiredStructEnabled())
	logger := zerolog.New(io.Discard)
	evaluator := &stubEvaluator{outcome: evaluation.Outcome{State: evaluation.StateSkipped}}

	formRepo := repository.NewFormRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)

	formService := service.NewFormService(formRepo, validate, logger)
	submissionService := service.NewSubmissionService(
		formRepo,
		submissionRepo,
		evaluator,
		stubBlobStore{},
		nil,
		nil,
		validate,
		service.SubmissionServiceConfig{MaxDocumentBytes: 1 << 20},
		logger,
	)

	app := fiber.New()
	router.Register(app, config.Config{AppName: "Test"}, router.Dependencies{
		FormHandler:       handler.NewFormHandler(formService, logger),
		SubmissionHandler: handler.NewSubmissionHandler(submissionService, logger),
		JWTMiddleware: func(c *fiber.Ctx) error {
			id, err := strconv.ParseUint(c.Get("X-Test-User"), 10, 64)
			if err != nil {
				return c.SendStatus(fiber.StatusUnauthorized)
			}
			c.Locals("user_id", uint(id))
			c.Locals("user_role", c.Get("X-Test-Role", "hr"))
			return c.Next()
		},
	})

	return &testApp{app: app, db: db, evaluator: evaluator}
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Meta    json.RawMessage `json:"meta"`
	Details json.RawMessage `json:"details"`
}

func (a *testApp) do(t *testing.T, req *http.Request) (int, envelope) {
	t.Helper()

	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var payload envelope
	if len(body) > 0 {
		require.NoError(t, json.Unmarshal(body, &payload), string(body))
	}
	return resp.StatusCode, payload
}

func asOwner(req *http.Request, ownerID uint) *http.Request {
	req.Header.Set("X-Test-User", strconv.FormatUint(uint64(ownerID), 10))
	return req
}

func jsonRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()

	raw, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return req
}

type resumeFile struct {
	name        string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, path, responses string, resume *resumeFile) *http.Request {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	require.NoError(t, writer.WriteField("responses", responses))

	if resume != nil {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, resume.name))
		header.Set("Content-Type", resume.contentType)
		part, err := writer.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(resume.data)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set(fiber.HeaderContentType, writer.FormDataContentType())
	return req
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()

	var value T
	require.NoError(t, json.Unmarshal(raw, &value))
	return value
}
