package models

import "time"

// Project represents a novel project held by the generation platform.
type Project struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Genre           string `json:"genre,omitempty"`
	Premise         string `json:"premise,omitempty"`
	TotalChapters   int    `json:"totalChapters"`
	TargetWordCount int    `json:"targetWordCount"`
	Status          string `json:"status,omitempty"`
}

// NovelOutline is the terminal result of an outline generation stream.
type NovelOutline struct {
	TotalChapters   int             `json:"totalChapters"`
	TargetWordCount int             `json:"targetWordCount"`
	Volumes         []VolumeOutline `json:"volumes"`
	MainGoal        string          `json:"mainGoal"`
	Milestones      []string        `json:"milestones"`
}

// VolumeOutline covers a contiguous chapter range within an outline.
type VolumeOutline struct {
	Index        int           `json:"index"`
	Title        string        `json:"title"`
	StartChapter int           `json:"startChapter"`
	EndChapter   int           `json:"endChapter"`
	Chapters     []ChapterStub `json:"chapters"`
}

// ChapterStub is the per-chapter planning entry inside a volume outline.
type ChapterStub struct {
	Chapter int    `json:"chapter"`
	Title   string `json:"title"`
	Summary string `json:"summary,omitempty"`
}

// GeneratedChapter identifies one chapter produced by a batch generation run.
type GeneratedChapter struct {
	Chapter int    `json:"chapter"`
	Title   string `json:"title"`
}

// ChapterBatchResult is the terminal result of a chapter-batch generation stream.
type ChapterBatchResult struct {
	Generated      []GeneratedChapter `json:"generated"`
	FailedChapters []int              `json:"failedChapters"`
}

// ProjectExport bundles a project with its outline and generated chapters
// for local export.
type ProjectExport struct {
	Project  Project            `json:"project"`
	Outline  *NovelOutline      `json:"outline,omitempty"`
	Chapters []GeneratedChapter `json:"chapters,omitempty"`
}

// TaskStatus enumerates server-side generation task states.
type TaskStatus string

const (
	TaskRunning   TaskStatus = "running"
	TaskPaused    TaskStatus = "paused"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// Terminal reports whether the task has stopped making progress.
func (s TaskStatus) Terminal() bool {
	return s == TaskCompleted || s == TaskFailed
}

// GenerationTask is the server-held job state observed by the out-of-band poller.
//
// The client never mutates it; it is read via GET and used to resynchronize
// UI state when no stream is active.
type GenerationTask struct {
	ID                string     `json:"id"`
	TargetCount       int        `json:"targetCount"`
	CompletedChapters []int      `json:"completedChapters"`
	FailedChapters    []int      `json:"failedChapters"`
	CurrentProgress   float64    `json:"currentProgress"`
	CurrentMessage    string     `json:"currentMessage"`
	Status            TaskStatus `json:"status"`
	UpdatedAt         time.Time  `json:"updatedAt"`
}
