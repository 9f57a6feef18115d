package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/textproto"
	"sync"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/noah-isme/hireform-api/internal/evaluation"
	"github.com/noah-isme/hireform-api/internal/events"
	"github.com/noah-isme/hireform-api/internal/models"
)

func setupServiceDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Form{}, &models.Submission{}))
	return db
}

func newValidator() *validator.Validate {
	return validator.New(validator.WithRequiredStructEnabled())
}

func resumeHeader(t *testing.T, filename, contentType string, data []byte) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="resume"; filename="%s"`, filename))
	if contentType != "" {
		header.Set("Content-Type", contentType)
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	form, err := multipart.NewReader(body, writer.Boundary()).ReadForm(32 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })

	require.Len(t, form.File["resume"], 1)
	return form.File["resume"][0]
}

type fakeEvaluator struct {
	mu      sync.Mutex
	outcome evaluation.Outcome
	inputs  []evaluation.Input
}

func (f *fakeEvaluator) Evaluate(_ context.Context, input evaluation.Input) evaluation.Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.inputs = append(f.inputs, input)
	return f.outcome
}

type fakeBlobStore struct {
	mu           sync.Mutex
	err          error
	keys         []string
	contentTypes []string
	sizes        []int
}

func (f *fakeBlobStore) Put(_ context.Context, data []byte, contentType, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	f.contentTypes = append(f.contentTypes, contentType)
	f.sizes = append(f.sizes, len(data))
	if f.err != nil {
		return "", f.err
	}
	return "https://files.example.com/" + key, nil
}

type fakePublisher struct {
	mu     sync.Mutex
	err    error
	events []events.SubmissionCreated
}

func (f *fakePublisher) PublishSubmissionCreated(event events.SubmissionCreated) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, event)
	return f.err
}

// countingModel fails every call and counts them.
type countingModel struct {
	mu    sync.Mutex
	count int
}

func (m *countingModel) Complete(context.Context, string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.count++
	return "", errors.New("model unavailable")
}

func (m *countingModel) calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.count
}
