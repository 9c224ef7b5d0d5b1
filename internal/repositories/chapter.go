package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
)

// ChapterRepository implements models.Repository[*models.PersistedChapter] for chapter caching.
//
// Handles chapter CRUD operations with soft delete support and per-project listings.
type ChapterRepository struct {
	db *sql.DB
}

// NewChapterRepository creates a new ChapterRepository with the given database connection
func NewChapterRepository(db *sql.DB) *ChapterRepository {
	return &ChapterRepository{db: db}
}

// Create inserts a new chapter into the database with generated ID and sequence
func (r *ChapterRepository) Create(chapter *models.PersistedChapter) error {
	sequence, err := NextSequence(r.db, "chapters")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	chapter.SetID(id)

	if err := chapter.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO chapters (id, sequence, project_id, chapter_index, title, word_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		chapter.ProjectID(),
		chapter.ChapterIndex(),
		chapter.Title(),
		chapter.WordCount(),
		chapter.CreatedAt(),
		chapter.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert chapter: %w", err)
	}

	return nil
}

// Get retrieves a chapter by ID, excluding soft-deleted chapters
func (r *ChapterRepository) Get(id string) (*models.PersistedChapter, error) {
	query := `
		SELECT id, sequence, project_id, chapter_index, title, word_count, created_at, updated_at, deleted_at
		FROM chapters
		WHERE id = ? AND deleted_at IS NULL
	`

	chapter, err := r.scan(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chapter not found")
	}
	return chapter, err
}

// GetByIndex retrieves a chapter by project and chapter index
func (r *ChapterRepository) GetByIndex(projectID string, chapterIndex int) (*models.PersistedChapter, error) {
	query := `
		SELECT id, sequence, project_id, chapter_index, title, word_count, created_at, updated_at, deleted_at
		FROM chapters
		WHERE project_id = ? AND chapter_index = ? AND deleted_at IS NULL
	`

	chapter, err := r.scan(r.db.QueryRow(query, projectID, chapterIndex))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("chapter not found")
	}
	return chapter, err
}

// Update modifies an existing chapter in the database
func (r *ChapterRepository) Update(chapter *models.PersistedChapter) error {
	if err := chapter.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	chapter.SetUpdatedAt(now)

	query := `
		UPDATE chapters
		SET title = ?, word_count = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		chapter.Title(),
		chapter.WordCount(),
		now,
		chapter.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update chapter: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("chapter not found or already deleted: %s", chapter.ID())
	}

	return nil
}

// Delete soft-deletes a chapter by ID
func (r *ChapterRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE chapters
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete chapter: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("chapter not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all chapters matching the given criteria, excluding soft-deleted chapters.
// Results are ordered by chapter index within a project.
func (r *ChapterRepository) List(criteria map[string]any) ([]*models.PersistedChapter, error) {
	query := `
		SELECT id, sequence, project_id, chapter_index, title, word_count, created_at, updated_at, deleted_at
		FROM chapters
		WHERE deleted_at IS NULL
	`

	args := []any{}

	if projectID, ok := criteria["project_id"].(string); ok && projectID != "" {
		query += " AND project_id = ?"
		args = append(args, projectID)
	}

	query += " ORDER BY project_id ASC, chapter_index ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query chapters: %w", err)
	}
	defer rows.Close()

	var chapters []*models.PersistedChapter
	for rows.Next() {
		chapter, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		chapters = append(chapters, chapter)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return chapters, nil
}

// ListByProject retrieves all cached chapters for a project in index order.
func (r *ChapterRepository) ListByProject(projectID string) ([]*models.PersistedChapter, error) {
	return r.List(map[string]any{"project_id": projectID})
}

func (r *ChapterRepository) scan(s rowScanner) (*models.PersistedChapter, error) {
	var (
		id           string
		sequence     int
		projectID    string
		chapterIndex int
		title        string
		wordCount    int
		createdAt    time.Time
		updatedAt    time.Time
		deletedAt    sql.NullTime
	)

	err := s.Scan(&id, &sequence, &projectID, &chapterIndex, &title, &wordCount, &createdAt, &updatedAt, &deletedAt)
	if err == sql.ErrNoRows {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan chapter: %w", err)
	}

	chapter := models.NewPersistedChapter(sequence, projectID, models.GeneratedChapter{
		Chapter: chapterIndex,
		Title:   title,
	})
	chapter.SetID(id)
	chapter.SetWordCount(wordCount)
	chapter.SetCreatedAt(createdAt)
	chapter.SetUpdatedAt(updatedAt)
	if deletedAt.Valid {
		chapter.SetDeletedAt(&deletedAt.Time)
	}

	return chapter, nil
}
