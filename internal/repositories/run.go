package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
)

// GenerationRunRepository implements models.Repository[*models.GenerationRun] for run history.
//
// Each streaming generation (outline or chapter batch) is recorded as a run so
// past activity can be inspected after the fact. Nullable columns (error_message,
// started_at, completed_at) are converted to nil before insert.
type GenerationRunRepository struct {
	db *sql.DB
}

// NewGenerationRunRepository creates a new GenerationRunRepository with the given database connection
func NewGenerationRunRepository(db *sql.DB) *GenerationRunRepository {
	return &GenerationRunRepository{db: db}
}

// Create inserts a new generation run into the database with generated ID and sequence
func (r *GenerationRunRepository) Create(run *models.GenerationRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	run.SetID(id)

	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	var errorMessage any = run.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	var startedAt any
	if run.StartedAt() != nil {
		startedAt = *run.StartedAt()
	}

	var completedAt any
	if run.CompletedAt() != nil {
		completedAt = *run.CompletedAt()
	}

	query := `
		INSERT INTO runs (id, sequence, project_id, kind, status, requested, generated, failed, error_message, started_at, completed_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		run.ProjectID(),
		run.Kind(),
		run.Status(),
		run.Requested(),
		run.Generated(),
		run.Failed(),
		errorMessage,
		startedAt,
		completedAt,
		run.CreatedAt(),
		run.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a generation run by ID, excluding soft-deleted runs
func (r *GenerationRunRepository) Get(id string) (*models.GenerationRun, error) {
	query := `
		SELECT id, sequence, project_id, kind, status, requested, generated, failed, error_message, started_at, completed_at, created_at, updated_at, deleted_at
		FROM runs
		WHERE id = ? AND deleted_at IS NULL
	`

	run, err := r.scan(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	return run, err
}

// Update modifies an existing generation run in the database
func (r *GenerationRunRepository) Update(run *models.GenerationRun) error {
	if err := run.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	run.SetUpdatedAt(now)

	var errorMessage any = run.ErrorMessage()
	if errorMessage == "" {
		errorMessage = nil
	}

	var completedAt any
	if run.CompletedAt() != nil {
		completedAt = *run.CompletedAt()
	}

	query := `
		UPDATE runs
		SET status = ?, generated = ?, failed = ?, error_message = ?, completed_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		run.Status(),
		run.Generated(),
		run.Failed(),
		errorMessage,
		completedAt,
		now,
		run.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", run.ID())
	}

	return nil
}

// Delete soft deletes a generation run by setting deleted_at timestamp
func (r *GenerationRunRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE runs
		SET deleted_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves generation runs matching the given criteria, most recent first.
// Supported criteria keys: project_id, status, kind.
func (r *GenerationRunRepository) List(criteria map[string]interface{}) ([]*models.GenerationRun, error) {
	query := `
		SELECT id, sequence, project_id, kind, status, requested, generated, failed, error_message, started_at, completed_at, created_at, updated_at, deleted_at
		FROM runs
		WHERE deleted_at IS NULL
	`
	args := []interface{}{}

	if projectID, ok := criteria["project_id"]; ok {
		query += " AND project_id = ?"
		args = append(args, projectID)
	}

	if status, ok := criteria["status"]; ok {
		query += " AND status = ?"
		args = append(args, status)
	}

	if kind, ok := criteria["kind"]; ok {
		query += " AND kind = ?"
		args = append(args, kind)
	}

	query += " ORDER BY sequence DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.GenerationRun
	for rows.Next() {
		run, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	return runs, rows.Err()
}

func (r *GenerationRunRepository) scan(s rowScanner) (*models.GenerationRun, error) {
	var id, projectID, kind, status string
	var sequence, requested, generated, failed int
	var errorMessage sql.NullString
	var startedAt, completedAt, deletedAt sql.NullTime
	var createdAt, updatedAt time.Time

	err := s.Scan(&id, &sequence, &projectID, &kind, &status, &requested, &generated, &failed,
		&errorMessage, &startedAt, &completedAt, &createdAt, &updatedAt, &deletedAt)
	if err != nil {
		return nil, err
	}

	run := models.NewGenerationRun(sequence, projectID, models.RunKind(kind), requested)
	run.SetID(id)
	run.SetStatus(status)
	run.SetCounts(generated, failed)
	run.SetCreatedAt(createdAt)
	run.SetUpdatedAt(updatedAt)

	if errorMessage.Valid {
		run.SetErrorMessage(errorMessage.String)
	}
	if startedAt.Valid {
		t := startedAt.Time
		run.SetStartedAt(&t)
	} else {
		run.SetStartedAt(nil)
	}
	if completedAt.Valid {
		t := completedAt.Time
		run.SetCompletedAt(&t)
	}
	if deletedAt.Valid {
		run.SetDeletedAt(&deletedAt.Time)
	}

	return run, nil
}
