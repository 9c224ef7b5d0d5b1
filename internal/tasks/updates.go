package tasks

import (
	"fmt"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/stream"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchProject Phase = iota
	FetchHealth
	FetchProjects
	FetchTask
	StreamOutline
	StreamChapters
	PollTask
	ExportProject
)

func (p Phase) String() string {
	switch p {
	case FetchProject:
		return "fetch_project"
	case FetchHealth:
		return "fetch_health"
	case FetchProjects:
		return "fetch_projects"
	case FetchTask:
		return "fetch_task"
	case StreamOutline:
		return "stream_outline"
	case StreamChapters:
		return "stream_chapters"
	case PollTask:
		return "poll_task"
	case ExportProject:
		return "export_project"
	default:
		return ""
	}
}

func fetchProjectUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchProject,
		Step:    step,
		Total:   total,
		Message: "Fetching project from platform...",
	}
}

func fetchTaskUpdate(projectID string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchTask,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching task state for %s...", projectID),
	}
}

func operationUpdate(endpoint endpointOperation, step int, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   endpoint.phase,
		Step:    step,
		Total:   total,
		Message: endpoint.message,
	}
}

func streamStartedUpdate(phase Phase, step, total int, title string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   phase,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Generating for: %s", title),
	}
}

// streamEventUpdate translates a stream event into a display update. Heartbeats
// pass through with an empty message so UIs can show liveness without text.
func streamEventUpdate(phase Phase, ev stream.Event) ProgressUpdate {
	update := ProgressUpdate{Phase: phase, Data: ev}

	switch ev.Type {
	case stream.EventHeartbeat:
	case stream.EventChapterComplete:
		update.Step = ev.ChapterIndex
		update.Message = fmt.Sprintf("Chapter %d complete: %s", ev.ChapterIndex, ev.Title)
	case stream.EventChapterError:
		update.Step = ev.ChapterIndex
		update.Message = fmt.Sprintf("Chapter %d failed", ev.ChapterIndex)
	case stream.EventVolumeComplete:
		update.Step = ev.VolumeIndex
		update.Total = ev.TotalVolumes
		update.Message = fmt.Sprintf("Volume %d/%d: %s", ev.VolumeIndex, ev.TotalVolumes, ev.VolumeTitle)
	default:
		update.Message = ev.Message
	}

	return update
}

func outlineDoneUpdate(outline *models.NovelOutline) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StreamOutline,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Outline received: %d chapters across %d volumes", outline.TotalChapters, len(outline.Volumes)),
		Data:    outline,
	}
}

func chaptersDoneUpdate(generated, failed int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   StreamChapters,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Batch complete: %d generated, %d failed", generated, failed),
	}
}

func pollUpdate(task *models.GenerationTask) ProgressUpdate {
	return ProgressUpdate{
		Phase:   PollTask,
		Step:    len(task.CompletedChapters),
		Total:   task.TargetCount,
		Message: task.CurrentMessage,
		Data:    task,
	}
}

func exportingProjectUpdate(step, total int, name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportProject,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Exporting: %s...", step, total, name),
	}
}

func exportCompletedUpdate(step, total int, name string, filesCount int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportProject,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s (%d files)", step, total, name, filesCount),
	}
}

func exportFailedUpdate(step, total int, name string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExportProject,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s: %v", step, total, name, err),
	}
}
