package models

import (
	"fmt"
	"time"
)

// base carries the fields shared by all persisted models.
type base struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func (b *base) ID() string                  { return b.id }
func (b *base) SetID(id string)             { b.id = id }
func (b *base) Sequence() int               { return b.sequence }
func (b *base) CreatedAt() time.Time        { return b.createdAt }
func (b *base) UpdatedAt() time.Time        { return b.updatedAt }
func (b *base) SetUpdatedAt(t time.Time)    { b.updatedAt = t }
func (b *base) DeletedAt() *time.Time       { return b.deletedAt }
func (b *base) SetDeletedAt(t *time.Time)   { b.deletedAt = t }
func (b *base) SetCreatedAt(t time.Time)    { b.createdAt = t }

// PersistedProject is a locally cached copy of a remote [Project].
type PersistedProject struct {
	base
	remoteID string
	project  Project
}

// NewPersistedProject creates a cached project row from a remote project DTO.
func NewPersistedProject(sequence int, remoteID string, dto Project) *PersistedProject {
	now := time.Now()
	p := &PersistedProject{
		remoteID: remoteID,
		project:  dto,
	}
	p.sequence = sequence
	p.createdAt = now
	p.updatedAt = now
	return p
}

func (p *PersistedProject) RemoteID() string     { return p.remoteID }
func (p *PersistedProject) Title() string        { return p.project.Title }
func (p *PersistedProject) Genre() string        { return p.project.Genre }
func (p *PersistedProject) Premise() string      { return p.project.Premise }
func (p *PersistedProject) TotalChapters() int   { return p.project.TotalChapters }
func (p *PersistedProject) TargetWordCount() int { return p.project.TargetWordCount }
func (p *PersistedProject) Status() string       { return p.project.Status }

// Project returns the remote DTO this row caches.
func (p *PersistedProject) Project() Project { return p.project }

// Validate checks required fields before persistence.
func (p *PersistedProject) Validate() error {
	if p.remoteID == "" {
		return fmt.Errorf("persisted project requires a remote ID")
	}
	if p.project.Title == "" {
		return fmt.Errorf("persisted project requires a title")
	}
	return nil
}

// RunKind discriminates what a recorded generation run produced.
type RunKind string

const (
	RunOutline  RunKind = "outline"
	RunChapters RunKind = "chapters"
)

// GenerationRun records one generation invocation in the local history.
//
// Runs are written when a stream opens and finalized when it ends, so the
// history survives disconnects: an interrupted run stays "running" until the
// task poller observes its true outcome.
type GenerationRun struct {
	base
	projectID    string
	kind         RunKind
	status       string
	requested    int
	generated    int
	failed       int
	errorMessage string
	startedAt    *time.Time
	completedAt  *time.Time
}

// NewGenerationRun creates a history row for a run that is starting now.
func NewGenerationRun(sequence int, projectID string, kind RunKind, requested int) *GenerationRun {
	now := time.Now()
	r := &GenerationRun{
		projectID: projectID,
		kind:      kind,
		status:    "running",
		requested: requested,
		startedAt: &now,
	}
	r.sequence = sequence
	r.createdAt = now
	r.updatedAt = now
	return r
}

func (r *GenerationRun) ProjectID() string       { return r.projectID }
func (r *GenerationRun) Kind() RunKind           { return r.kind }
func (r *GenerationRun) Status() string          { return r.status }
func (r *GenerationRun) Requested() int          { return r.requested }
func (r *GenerationRun) Generated() int          { return r.generated }
func (r *GenerationRun) Failed() int             { return r.failed }
func (r *GenerationRun) ErrorMessage() string    { return r.errorMessage }
func (r *GenerationRun) StartedAt() *time.Time   { return r.startedAt }
func (r *GenerationRun) CompletedAt() *time.Time { return r.completedAt }

// Setters used when rehydrating rows from the database.
func (r *GenerationRun) SetStatus(status string)         { r.status = status }
func (r *GenerationRun) SetCounts(generated, failed int) { r.generated, r.failed = generated, failed }
func (r *GenerationRun) SetErrorMessage(message string)  { r.errorMessage = message }
func (r *GenerationRun) SetStartedAt(t *time.Time)       { r.startedAt = t }
func (r *GenerationRun) SetCompletedAt(t *time.Time)     { r.completedAt = t }

// Complete marks the run finished with its final counts.
func (r *GenerationRun) Complete(generated, failed int) {
	now := time.Now()
	r.status = "completed"
	r.generated = generated
	r.failed = failed
	r.completedAt = &now
}

// Fail marks the run failed with the server's error message.
func (r *GenerationRun) Fail(message string) {
	now := time.Now()
	r.status = "failed"
	r.errorMessage = message
	r.completedAt = &now
}

// Validate checks required fields before persistence.
func (r *GenerationRun) Validate() error {
	if r.projectID == "" {
		return fmt.Errorf("generation run requires a project ID")
	}
	if r.kind != RunOutline && r.kind != RunChapters {
		return fmt.Errorf("generation run requires a valid kind, got %q", r.kind)
	}
	return nil
}

// PersistedChapter is a locally cached generated chapter.
type PersistedChapter struct {
	base
	projectID    string
	chapterIndex int
	title        string
	wordCount    int
}

// NewPersistedChapter creates a cached chapter row for the given project.
func NewPersistedChapter(sequence int, projectID string, chapter GeneratedChapter) *PersistedChapter {
	now := time.Now()
	c := &PersistedChapter{
		projectID:    projectID,
		chapterIndex: chapter.Chapter,
		title:        chapter.Title,
	}
	c.sequence = sequence
	c.createdAt = now
	c.updatedAt = now
	return c
}

func (c *PersistedChapter) ProjectID() string      { return c.projectID }
func (c *PersistedChapter) ChapterIndex() int      { return c.chapterIndex }
func (c *PersistedChapter) Title() string          { return c.title }
func (c *PersistedChapter) WordCount() int         { return c.wordCount }
func (c *PersistedChapter) SetWordCount(n int)     { c.wordCount = n }
func (c *PersistedChapter) SetTitle(title string)  { c.title = title }

// Generated returns the chapter as the wire-format DTO.
func (c *PersistedChapter) Generated() GeneratedChapter {
	return GeneratedChapter{Chapter: c.chapterIndex, Title: c.title}
}

// Validate checks required fields before persistence.
func (c *PersistedChapter) Validate() error {
	if c.projectID == "" {
		return fmt.Errorf("persisted chapter requires a project ID")
	}
	if c.chapterIndex <= 0 {
		return fmt.Errorf("persisted chapter requires a positive chapter index")
	}
	return nil
}
