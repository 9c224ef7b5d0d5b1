// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"testing"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/services"
	"github.com/quillhq/inkwell/internal/stream"
)

// MockService is a test double for [services.Service]. Zero value returns
// empty results; set fields to script behavior.
type MockService struct {
	Projects []models.Project
	Project  *models.Project
	Outline  *models.NovelOutline
	Batch    *models.ChapterBatchResult
	Task     *models.GenerationTask

	// Events are replayed to the onEvent callback before a generation call
	// returns its terminal result.
	Events []stream.Event

	// Err, when set, is returned by every method.
	Err error
}

func (m *MockService) Authenticate(ctx context.Context, credentials map[string]string) error {
	return m.Err
}

func (m *MockService) GetProjects(ctx context.Context) ([]models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Projects, nil
}

func (m *MockService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Project, nil
}

func (m *MockService) CreateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Project != nil {
		return m.Project, nil
	}
	return project, nil
}

func (m *MockService) UpdateProject(ctx context.Context, project *models.Project) (*models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return project, nil
}

func (m *MockService) DeleteProject(ctx context.Context, projectID string) error {
	return m.Err
}

func (m *MockService) GetOutline(ctx context.Context, projectID string) (*models.NovelOutline, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Outline, nil
}

func (m *MockService) GetChapters(ctx context.Context, projectID string) ([]models.GeneratedChapter, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Batch == nil {
		return nil, nil
	}
	return m.Batch.Generated, nil
}

func (m *MockService) GenerateOutline(ctx context.Context, projectID string, req *services.OutlineRequest, onEvent stream.ProgressFunc) (*models.NovelOutline, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.replay(onEvent)
	if m.Outline == nil {
		return nil, stream.ErrNoResult
	}
	return m.Outline, nil
}

func (m *MockService) GenerateChapters(ctx context.Context, projectID string, req *services.ChapterBatchRequest, onEvent stream.ProgressFunc) (*models.ChapterBatchResult, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.replay(onEvent)
	if m.Batch == nil {
		return nil, stream.ErrNoResult
	}
	return m.Batch, nil
}

func (m *MockService) TaskStatus(ctx context.Context, projectID string) (*models.GenerationTask, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Task, nil
}

func (m *MockService) Health(ctx context.Context) error { return m.Err }

func (m *MockService) Name() string { return "mock" }

func (m *MockService) replay(onEvent stream.ProgressFunc) {
	if onEvent == nil {
		return
	}
	for _, ev := range m.Events {
		onEvent(ev)
	}
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// LimitedWriter fails after a certain number of writes
type LimitedWriter struct {
	maxWrites int
	written   int
	target    io.Writer
}

func (l *LimitedWriter) Write(p []byte) (n int, err error) {
	if l.written >= l.maxWrites {
		return 0, errors.New("write limit exceeded")
	}
	l.written++
	return l.target.Write(p)
}

func NewLimitedWriter(maxWrites, written int, target io.Writer) LimitedWriter {
	return LimitedWriter{maxWrites: maxWrites, written: written, target: target}
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path exists but is not a directory: %s", path)
	}
}
