package stream

import (
	"github.com/quillhq/inkwell/internal/models"
)

// EventType discriminates stream records.
type EventType string

const (
	EventHeartbeat       EventType = "heartbeat"
	EventStart           EventType = "start"
	EventProgress        EventType = "progress"
	EventMasterOutline   EventType = "master_outline"
	EventVolumeComplete  EventType = "volume_complete"
	EventChapterComplete EventType = "chapter_complete"
	EventChapterError    EventType = "chapter_error"
	EventDone            EventType = "done"
	EventError           EventType = "error"
	EventTaskResumed     EventType = "task_resumed"
	EventTaskCreated     EventType = "task_created"
)

// Known reports whether the type is part of the protocol's event set.
// Unknown types still flow to the progress callback as informational no-ops.
func (t EventType) Known() bool {
	switch t {
	case EventHeartbeat, EventStart, EventProgress, EventMasterOutline,
		EventVolumeComplete, EventChapterComplete, EventChapterError,
		EventDone, EventError, EventTaskResumed, EventTaskCreated:
		return true
	}
	return false
}

// Terminal reports whether the type ends a stream session.
func (t EventType) Terminal() bool {
	return t == EventDone || t == EventError
}

// Event is one decoded stream record. Fields beyond Type are type-specific;
// absent fields keep their zero value.
type Event struct {
	Type    EventType `json:"type"`
	Message string    `json:"message,omitempty"`

	// volume_complete
	VolumeIndex  int    `json:"volumeIndex,omitempty"`
	TotalVolumes int    `json:"totalVolumes,omitempty"`
	VolumeTitle  string `json:"volumeTitle,omitempty"`

	// chapter_complete / chapter_error
	ChapterIndex int    `json:"chapterIndex,omitempty"`
	Title        string `json:"title,omitempty"`

	// done / error. Success is a pointer so the whole-body fallback can
	// distinguish an explicit false from an absent field.
	Success        *bool                     `json:"success,omitempty"`
	Outline        *models.NovelOutline      `json:"outline,omitempty"`
	Generated      []models.GeneratedChapter `json:"generated,omitempty"`
	FailedChapters []int                     `json:"failedChapters,omitempty"`
	Error          string                    `json:"error,omitempty"`
}

// Succeeded reports whether the event carries an explicit success=true.
func (e Event) Succeeded() bool {
	return e.Success != nil && *e.Success
}

// ProgressFunc observes each decoded event as it arrives. Invoked
// synchronously from the read loop; implementations must not block.
type ProgressFunc func(Event)
