// package services defines interface Service for interacting with the
// generation platform API
package services

import (
	"context"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/stream"
)

// Service defines the interface for novel generation platforms that can manage
// projects and stream outline and chapter generation.
type Service interface {
	// Authenticate performs OAuth or session-header authentication with the platform.
	// Returns an error if authentication fails.
	Authenticate(ctx context.Context, credentials map[string]string) error

	// GetProjects retrieves all novel projects for the authenticated user.
	GetProjects(ctx context.Context) ([]models.Project, error)

	// GetProject retrieves a specific project by ID.
	GetProject(ctx context.Context, projectID string) (*models.Project, error)

	// CreateProject registers a new project on the platform.
	CreateProject(ctx context.Context, project *models.Project) (*models.Project, error)

	// UpdateProject pushes changed project metadata to the platform.
	UpdateProject(ctx context.Context, project *models.Project) (*models.Project, error)

	// DeleteProject removes a project from the platform.
	DeleteProject(ctx context.Context, projectID string) error

	// GetOutline retrieves the stored outline for a project, if one exists.
	GetOutline(ctx context.Context, projectID string) (*models.NovelOutline, error)

	// GetChapters retrieves the generated chapters recorded for a project.
	GetChapters(ctx context.Context, projectID string) ([]models.GeneratedChapter, error)

	// GenerateOutline streams outline generation for a project and returns the
	// terminal outline. Intermediate events are forwarded to onEvent when non-nil.
	GenerateOutline(ctx context.Context, projectID string, req *OutlineRequest, onEvent stream.ProgressFunc) (*models.NovelOutline, error)

	// GenerateChapters streams batch chapter generation for a project and
	// returns the terminal batch result.
	GenerateChapters(ctx context.Context, projectID string, req *ChapterBatchRequest, onEvent stream.ProgressFunc) (*models.ChapterBatchResult, error)

	// TaskStatus retrieves the server-held generation task state for a project.
	TaskStatus(ctx context.Context, projectID string) (*models.GenerationTask, error)

	// Health checks whether the platform API is reachable.
	Health(ctx context.Context) error

	// Name returns the name of the platform (e.g., "Inkwell Platform")
	Name() string
}

// OutlineRequest is the request body for an outline generation stream.
type OutlineRequest struct {
	Genre           string `json:"genre,omitempty"`
	Premise         string `json:"premise,omitempty"`
	TotalChapters   int    `json:"totalChapters,omitempty"`
	TargetWordCount int    `json:"targetWordCount,omitempty"`
}

// ChapterBatchRequest is the request body for a chapter batch generation stream.
type ChapterBatchRequest struct {
	// Count is the number of chapters to generate in this batch.
	Count int `json:"count"`
	// StartChapter optionally pins the first chapter index of the batch.
	// Zero lets the server continue from its own cursor.
	StartChapter int `json:"startChapter,omitempty"`
}
