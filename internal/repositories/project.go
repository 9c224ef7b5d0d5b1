package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
)

// ProjectRepository implements models.Repository[*models.PersistedProject] for project caching.
//
// Handles project CRUD operations with soft delete support and remote-ID lookups.
type ProjectRepository struct {
	db *sql.DB
}

// NewProjectRepository creates a new ProjectRepository with the given database connection
func NewProjectRepository(db *sql.DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project into the database with generated ID and sequence
func (r *ProjectRepository) Create(project *models.PersistedProject) error {
	sequence, err := NextSequence(r.db, "projects")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	project.SetID(id)

	if err := project.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO projects (id, sequence, remote_id, title, genre, premise, total_chapters, target_word_count, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		project.RemoteID(),
		project.Title(),
		project.Genre(),
		project.Premise(),
		project.TotalChapters(),
		project.TargetWordCount(),
		project.Status(),
		project.CreatedAt(),
		project.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	return nil
}

// Get retrieves a project by ID, excluding soft-deleted projects
func (r *ProjectRepository) Get(id string) (*models.PersistedProject, error) {
	query := `
		SELECT id, sequence, remote_id, title, genre, premise, total_chapters, target_word_count, status, created_at, updated_at, deleted_at
		FROM projects
		WHERE id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, id))
}

// GetByRemoteID retrieves a project by its platform-side ID
func (r *ProjectRepository) GetByRemoteID(remoteID string) (*models.PersistedProject, error) {
	query := `
		SELECT id, sequence, remote_id, title, genre, premise, total_chapters, target_word_count, status, created_at, updated_at, deleted_at
		FROM projects
		WHERE remote_id = ? AND deleted_at IS NULL
	`

	return r.scanOne(r.db.QueryRow(query, remoteID))
}

// Update modifies an existing project in the database
func (r *ProjectRepository) Update(project *models.PersistedProject) error {
	if err := project.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	project.SetUpdatedAt(now)

	query := `
		UPDATE projects
		SET title = ?, genre = ?, premise = ?, total_chapters = ?, target_word_count = ?, status = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		project.Title(),
		project.Genre(),
		project.Premise(),
		project.TotalChapters(),
		project.TargetWordCount(),
		project.Status(),
		now,
		project.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project not found or already deleted: %s", project.ID())
	}

	return nil
}

// Delete soft-deletes a project by ID
func (r *ProjectRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE projects
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("project not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all projects matching the given criteria, excluding soft-deleted projects
func (r *ProjectRepository) List(criteria map[string]any) ([]*models.PersistedProject, error) {
	query := `
		SELECT id, sequence, remote_id, title, genre, premise, total_chapters, target_word_count, status, created_at, updated_at, deleted_at
		FROM projects
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if genre, ok := criteria["genre"].(string); ok && genre != "" {
		query += " AND genre = ?"
		args = append(args, genre)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query projects: %w", err)
	}
	defer rows.Close()

	var projects []*models.PersistedProject
	for rows.Next() {
		project, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		projects = append(projects, project)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return projects, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

// scanOne scans a single row into a [models.PersistedProject]
func (r *ProjectRepository) scanOne(row *sql.Row) (*models.PersistedProject, error) {
	project, err := r.scan(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("project not found")
	}
	return project, err
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedProject]
func (r *ProjectRepository) scanRow(rows *sql.Rows) (*models.PersistedProject, error) {
	return r.scan(rows)
}

func (r *ProjectRepository) scan(s rowScanner) (*models.PersistedProject, error) {
	var (
		id              string
		sequence        int
		remoteID        string
		title           string
		genre           string
		premise         string
		totalChapters   int
		targetWordCount int
		status          string
		createdAt       time.Time
		updatedAt       time.Time
		deletedAt       sql.NullTime
	)

	err := s.Scan(&id, &sequence, &remoteID, &title, &genre, &premise, &totalChapters, &targetWordCount, &status, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan project: %w", err)
	}

	dto := models.Project{
		ID:              remoteID,
		Title:           title,
		Genre:           genre,
		Premise:         premise,
		TotalChapters:   totalChapters,
		TargetWordCount: targetWordCount,
		Status:          status,
	}

	project := models.NewPersistedProject(sequence, remoteID, dto)
	project.SetID(id)
	project.SetCreatedAt(createdAt)
	project.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		project.SetDeletedAt(&deletedAt.Time)
	}

	return project, nil
}
