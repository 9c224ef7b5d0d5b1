package tasks

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/services"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/stream"
	tu "github.com/quillhq/inkwell/internal/testing"
)

// fakeAPI scripts responses per path for Snapshot tests.
type fakeAPI struct {
	responses map[string]*services.APIResponse
	errs      map[string]error
}

func (f *fakeAPI) Get(ctx context.Context, path string) (*services.APIResponse, error) {
	if err, ok := f.errs[path]; ok {
		return nil, err
	}
	if resp, ok := f.responses[path]; ok {
		return resp, nil
	}
	return &services.APIResponse{StatusCode: 404}, nil
}

func jsonResponse(data any) *services.APIResponse {
	return &services.APIResponse{StatusCode: 200, IsJSON: true, JSONData: data}
}

// recordingCacher collects cached chapters and optionally fails.
type recordingCacher struct {
	cached []models.GeneratedChapter
	err    error
}

func (c *recordingCacher) CacheChapter(projectID string, chapter models.GeneratedChapter) error {
	if c.err != nil {
		return c.err
	}
	c.cached = append(c.cached, chapter)
	return nil
}

func drain(progress chan ProgressUpdate) []ProgressUpdate {
	var updates []ProgressUpdate
	for {
		select {
		case u := <-progress:
			updates = append(updates, u)
		default:
			return updates
		}
	}
}

func TestNovelEngine(t *testing.T) {
	t.Run("Outline", func(t *testing.T) {
		t.Run("Successful Run", func(t *testing.T) {
			svc := &tu.MockService{
				Project: &models.Project{ID: "p1", Title: "Ash and Ember"},
				Outline: &models.NovelOutline{TotalChapters: 120, Volumes: []models.VolumeOutline{{Index: 1}}},
				Events: []stream.Event{
					{Type: stream.EventStart},
					{Type: stream.EventProgress, Message: "Planning"},
				},
			}
			engine := NewNovelEngine(svc, nil)
			progress := make(chan ProgressUpdate, 32)

			result, err := engine.Outline(context.Background(), progress, "p1", &services.OutlineRequest{TotalChapters: 120})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.Outline.TotalChapters != 120 {
				t.Errorf("unexpected outline: %+v", result.Outline)
			}
			if result.Events != 2 {
				t.Errorf("expected 2 stream events, got %d", result.Events)
			}

			updates := drain(progress)
			if len(updates) == 0 {
				t.Fatal("expected progress updates")
			}
			last := updates[len(updates)-1]
			if last.Phase != StreamOutline || last.Data == nil {
				t.Errorf("expected terminal outline update, got %+v", last)
			}
		})

		t.Run("Missing Service", func(t *testing.T) {
			engine := NewNovelEngine(nil, nil)
			if _, err := engine.Outline(context.Background(), nil, "p1", nil); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})

		t.Run("Stream Failure", func(t *testing.T) {
			svc := &tu.MockService{
				Project: &models.Project{ID: "p1", Title: "Ash and Ember"},
				// no Outline configured, mock reports a missing terminal result
			}
			engine := NewNovelEngine(svc, nil)

			if _, err := engine.Outline(context.Background(), nil, "p1", nil); !errors.Is(err, stream.ErrNoResult) {
				t.Errorf("expected ErrNoResult, got %v", err)
			}
		})
	})

	t.Run("Chapters", func(t *testing.T) {
		t.Run("Successful Run With Caching", func(t *testing.T) {
			svc := &tu.MockService{
				Project: &models.Project{ID: "p1", Title: "Ash and Ember"},
				Batch: &models.ChapterBatchResult{
					Generated: []models.GeneratedChapter{
						{Chapter: 1, Title: "A"},
						{Chapter: 2, Title: "B"},
					},
					FailedChapters: []int{3},
				},
			}
			cacher := &recordingCacher{}
			engine := NewNovelEngine(svc, nil).WithCacher(cacher)

			result, err := engine.Chapters(context.Background(), nil, "p1", &services.ChapterBatchRequest{Count: 3})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(result.Generated) != 2 || len(result.FailedChapters) != 1 {
				t.Errorf("unexpected result: %+v", result)
			}
			if result.SuccessRate < 66 || result.SuccessRate > 67 {
				t.Errorf("unexpected success rate: %f", result.SuccessRate)
			}
			if len(cacher.cached) != 2 {
				t.Errorf("expected 2 cached chapters, got %d", len(cacher.cached))
			}
		})

		t.Run("Cache Failure Does Not Abort", func(t *testing.T) {
			svc := &tu.MockService{
				Project: &models.Project{ID: "p1"},
				Batch:   &models.ChapterBatchResult{Generated: []models.GeneratedChapter{{Chapter: 1, Title: "A"}}},
			}
			engine := NewNovelEngine(svc, nil).WithCacher(&recordingCacher{err: errors.New("disk full")})

			result, err := engine.Chapters(context.Background(), nil, "p1", &services.ChapterBatchRequest{Count: 1})
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(result.Generated) != 1 {
				t.Errorf("unexpected result: %+v", result)
			}
		})

		t.Run("Rejects Non-Positive Count", func(t *testing.T) {
			engine := NewNovelEngine(&tu.MockService{}, nil)
			if _, err := engine.Chapters(context.Background(), nil, "p1", &services.ChapterBatchRequest{}); !errors.Is(err, shared.ErrInvalidArgument) {
				t.Errorf("expected ErrInvalidArgument, got %v", err)
			}
		})
	})

	t.Run("Snapshot", func(t *testing.T) {
		t.Run("Collects Endpoints And Tasks", func(t *testing.T) {
			api := &fakeAPI{responses: map[string]*services.APIResponse{
				"/health": jsonResponse(map[string]any{"status": "ok"}),
				"/api/projects": jsonResponse(map[string]any{
					"projects": []any{
						map[string]any{"id": "p1", "title": "Ash and Ember"},
					},
				}),
				"/api/projects/p1/task": jsonResponse(map[string]any{"status": "running"}),
			}}
			engine := NewNovelEngine(&tu.MockService{}, api)

			result, err := engine.Snapshot(context.Background(), nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if result.Health == nil || result.Projects == nil {
				t.Errorf("expected health and projects: %+v", result)
			}
			if _, ok := result.Tasks["p1"]; !ok {
				t.Errorf("expected task state for p1, got %v", result.Tasks)
			}
			if len(result.Errors) != 0 {
				t.Errorf("expected no endpoint errors, got %v", result.Errors)
			}
		})

		t.Run("Records Endpoint Failures", func(t *testing.T) {
			api := &fakeAPI{
				responses: map[string]*services.APIResponse{
					"/api/projects": jsonResponse(map[string]any{"projects": []any{}}),
				},
				errs: map[string]error{"/health": fmt.Errorf("connection refused")},
			}
			engine := NewNovelEngine(&tu.MockService{}, api)

			result, err := engine.Snapshot(context.Background(), nil)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(result.Errors) != 1 || result.Errors[0].Endpoint != "/health" {
				t.Errorf("expected /health failure recorded, got %v", result.Errors)
			}
		})

		t.Run("Missing API Client", func(t *testing.T) {
			engine := NewNovelEngine(&tu.MockService{}, nil)
			if _, err := engine.Snapshot(context.Background(), nil); !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("Progress Never Blocks", func(t *testing.T) {
		svc := &tu.MockService{
			Project: &models.Project{ID: "p1"},
			Outline: &models.NovelOutline{TotalChapters: 1},
			Events:  []stream.Event{{Type: stream.EventProgress, Message: "a"}, {Type: stream.EventProgress, Message: "b"}},
		}
		engine := NewNovelEngine(svc, nil)

		// unbuffered channel with no reader; sends must be dropped, not block
		progress := make(chan ProgressUpdate)
		done := make(chan struct{})
		go func() {
			defer close(done)
			engine.Outline(context.Background(), progress, "p1", nil)
		}()

		<-done
	})
}
