// package tasks orchestrates generation runs against the platform.
//
// The core abstraction is GenerationEngine, which drives outline and chapter
// generation streams, account snapshots, and bulk exports. Operations emit
// progress updates via channels for non-blocking status reporting to CLI/UI
// layers.
package tasks

import (
	"context"
	"fmt"
	"sync"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/services"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/stream"
	"golang.org/x/sync/errgroup"
)

// OutlineRunResult contains all data from an outline generation run.
type OutlineRunResult struct {
	Project *models.Project      // Project the outline belongs to
	Outline *models.NovelOutline // Terminal outline from the stream
	Events  int                  // Number of stream events observed
}

// ChapterRunResult contains all data from a chapter batch generation run.
type ChapterRunResult struct {
	Project        *models.Project            // Project the chapters belong to
	Generated      []models.GeneratedChapter  // Chapters the server confirmed
	FailedChapters []int                      // Chapter indices the server gave up on
	Requested      int                        // Batch size that was requested
	Events         int                        // Number of stream events observed
	SuccessRate    float64                    // Confirmed / requested as percentage
	Result         *models.ChapterBatchResult // Raw terminal result
}

// EndpointResult represents the result of fetching data from a single API endpoint.
type EndpointResult struct {
	Endpoint string
	Data     any
	Error    error
}

// SnapshotResult contains all account data fetched from the platform.
type SnapshotResult struct {
	Health   any              // Health status
	Projects any              // Project list
	Tasks    map[string]any   // Per-project generation task state
	Errors   []EndpointResult // Failed endpoint fetches
}

type endpointOperation struct {
	name    string
	path    string
	target  *any
	phase   Phase
	message string
}

// GenerationEngine defines long-running operations against the platform.
type GenerationEngine interface {
	// Outline runs an outline generation stream to its terminal result,
	// forwarding stream events as progress updates.
	Outline(ctx context.Context, progress chan<- ProgressUpdate, projectID string, req *services.OutlineRequest) (*OutlineRunResult, error)

	// Chapters runs a chapter batch generation stream to its terminal result,
	// caching confirmed chapters when a cacher is attached.
	Chapters(ctx context.Context, progress chan<- ProgressUpdate, projectID string, req *services.ChapterBatchRequest) (*ChapterRunResult, error)

	// Snapshot fetches account-wide state: health, projects, and per-project task status.
	Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*SnapshotResult, error)
}

// ChapterCacher persists confirmed chapters during generation runs.
// Implemented by repositories.ChapterRepository.
type ChapterCacher interface {
	CacheChapter(projectID string, chapter models.GeneratedChapter) error
}

// APIClient defines the interface for making raw API requests to the platform.
// This abstraction allows for easier testing and decoupling from concrete implementation.
type APIClient interface {
	Get(ctx context.Context, path string) (*services.APIResponse, error)
}

// NovelEngine implements GenerationEngine for the Inkwell platform.
type NovelEngine struct {
	platform services.Service
	api      APIClient
	cacher   ChapterCacher
}

// NewNovelEngine creates a new NovelEngine with the provided service and API client.
func NewNovelEngine(platform services.Service, api APIClient) *NovelEngine {
	return &NovelEngine{
		platform: platform,
		api:      api,
	}
}

// WithCacher attaches a chapter cache. Caching failures are logged nowhere and
// never interrupt a run.
func (e *NovelEngine) WithCacher(cacher ChapterCacher) *NovelEngine {
	e.cacher = cacher
	return e
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *NovelEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Outline runs an outline generation stream to its terminal result.
func (e *NovelEngine) Outline(ctx context.Context, progress chan<- ProgressUpdate, projectID string, req *services.OutlineRequest) (*OutlineRunResult, error) {
	if e.platform == nil {
		return nil, fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchProjectUpdate(1, 2))
	project, err := e.platform.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	result := &OutlineRunResult{Project: project}

	e.sendProgress(progress, streamStartedUpdate(StreamOutline, 2, 2, project.Title))
	outline, err := e.platform.GenerateOutline(ctx, projectID, req, func(ev stream.Event) {
		result.Events++
		e.sendProgress(progress, streamEventUpdate(StreamOutline, ev))
	})
	if err != nil {
		return result, err
	}

	result.Outline = outline
	e.sendProgress(progress, outlineDoneUpdate(outline))
	return result, nil
}

// Chapters runs a chapter batch generation stream to its terminal result.
func (e *NovelEngine) Chapters(ctx context.Context, progress chan<- ProgressUpdate, projectID string, req *services.ChapterBatchRequest) (*ChapterRunResult, error) {
	if e.platform == nil {
		return nil, fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}
	if req == nil || req.Count <= 0 {
		return nil, fmt.Errorf("%w: chapter count must be positive", shared.ErrInvalidArgument)
	}

	e.sendProgress(progress, fetchProjectUpdate(1, 2))
	project, err := e.platform.GetProject(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch project: %w", err)
	}

	result := &ChapterRunResult{Project: project, Requested: req.Count}

	e.sendProgress(progress, streamStartedUpdate(StreamChapters, 2, 2, project.Title))
	batch, err := e.platform.GenerateChapters(ctx, projectID, req, func(ev stream.Event) {
		result.Events++
		e.sendProgress(progress, streamEventUpdate(StreamChapters, ev))
	})
	if err != nil {
		return result, err
	}

	result.Result = batch
	result.Generated = batch.Generated
	result.FailedChapters = batch.FailedChapters
	if result.Requested > 0 {
		result.SuccessRate = float64(len(batch.Generated)) / float64(result.Requested) * 100
	}

	if e.cacher != nil {
		for _, chapter := range batch.Generated {
			// cache failures never interrupt a run
			_ = e.cacher.CacheChapter(projectID, chapter)
		}
	}

	e.sendProgress(progress, chaptersDoneUpdate(len(batch.Generated), len(batch.FailedChapters)))
	return result, nil
}

// Snapshot fetches account-wide state from the platform.
func (e *NovelEngine) Snapshot(ctx context.Context, progress chan<- ProgressUpdate) (*SnapshotResult, error) {
	if e.api == nil {
		return nil, fmt.Errorf("%w: API client not initialized", shared.ErrServiceUnavailable)
	}

	result := &SnapshotResult{
		Tasks:  map[string]any{},
		Errors: []EndpointResult{},
	}

	endpoints := []endpointOperation{
		{name: "health", path: "/health", target: &result.Health, phase: FetchHealth, message: "Fetching health status..."},
		{name: "projects", path: "/api/projects", target: &result.Projects, phase: FetchProjects, message: "Fetching projects..."},
	}

	totalSteps := len(endpoints)

	for i, endpoint := range endpoints {
		e.sendProgress(progress, operationUpdate(endpoint, i+1, totalSteps))

		resp, err := e.api.Get(ctx, endpoint.path)
		if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
			errMsg := ""
			if err != nil {
				errMsg = err.Error()
			} else {
				errMsg = fmt.Sprintf("status %d", resp.StatusCode)
			}
			result.Errors = append(result.Errors, EndpointResult{
				Endpoint: endpoint.path,
				Error:    fmt.Errorf("%s", errMsg),
			})
		} else {
			*endpoint.target = resp.JSONData
		}
	}

	// best-effort task state for every listed project, fetched concurrently
	if projects, ok := result.Projects.(map[string]any); ok {
		if list, ok := projects["projects"].([]any); ok {
			var mu sync.Mutex
			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(4)

			for _, entry := range list {
				project, ok := entry.(map[string]any)
				if !ok {
					continue
				}
				id, ok := project["id"].(string)
				if !ok || id == "" {
					continue
				}

				g.Go(func() error {
					e.sendProgress(progress, fetchTaskUpdate(id))
					resp, err := e.api.Get(gctx, fmt.Sprintf("/api/projects/%s/task", id))
					if err != nil || resp.StatusCode < 200 || resp.StatusCode >= 300 {
						return nil
					}
					mu.Lock()
					result.Tasks[id] = resp.JSONData
					mu.Unlock()
					return nil
				})
			}

			// workers never return errors; Wait is for completion only
			_ = g.Wait()
		}
	}

	return result, nil
}
