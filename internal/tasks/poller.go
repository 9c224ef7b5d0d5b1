package tasks

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
	"github.com/quillhq/inkwell/internal/models"
)

// DefaultPollInterval is the task poll cadence used when none is configured.
const DefaultPollInterval = 8 * time.Second

// TaskFetcher fetches a project's generation task state.
// Satisfied by [services.Service].
type TaskFetcher interface {
	TaskStatus(ctx context.Context, projectID string) (*models.GenerationTask, error)
}

// TaskPoller periodically fetches a project's generation task state so the UI
// can resynchronize while no stream is attached (after a disconnect, or when
// watching a run started elsewhere).
//
// Polling is best-effort: fetch failures are logged at debug level and the
// next tick proceeds normally. The poller stops on its own once the task
// reaches a terminal status.
type TaskPoller struct {
	platform  TaskFetcher
	projectID string
	interval  time.Duration
	logger    *log.Logger
}

// NewTaskPoller creates a poller for the given project. A non-positive
// interval falls back to [DefaultPollInterval].
func NewTaskPoller(platform TaskFetcher, projectID string, interval time.Duration, logger *log.Logger) *TaskPoller {
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &TaskPoller{
		platform:  platform,
		projectID: projectID,
		interval:  interval,
		logger:    logger,
	}
}

// Run polls immediately and then on every interval tick, sending one
// [ProgressUpdate] per successful fetch. It returns nil when the task reaches
// a terminal status and ctx.Err() when canceled. The ticker is always
// released before returning; a canceled Run never fires again.
func (p *TaskPoller) Run(ctx context.Context, progress chan<- ProgressUpdate) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		if terminal := p.poll(ctx, progress); terminal {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

// poll performs one status fetch. Returns true when the task is terminal.
func (p *TaskPoller) poll(ctx context.Context, progress chan<- ProgressUpdate) bool {
	task, err := p.platform.TaskStatus(ctx, p.projectID)
	if err != nil {
		if ctx.Err() != nil {
			return false
		}
		if p.logger != nil {
			p.logger.Debug("task poll failed", "project", p.projectID, "err", err)
		}
		return false
	}
	if task == nil {
		return false
	}

	p.send(progress, pollUpdate(task))
	return task.Status.Terminal()
}

// send mirrors the engine's non-blocking progress semantics: a slow consumer
// drops intermediate updates rather than stalling the poll loop.
func (p *TaskPoller) send(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}
