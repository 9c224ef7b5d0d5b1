package models

import "time"

// Model is the common shape of everything stored in the local cache.
// [PersistedProject], [PersistedChapter] and [GenerationRun] implement it.
type Model interface {
	// ID returns the unique identifier for this record.
	ID() string
	// CreatedAt returns when the record was first stored.
	CreatedAt() time.Time
	// UpdatedAt returns when the record was last written.
	UpdatedAt() time.Time
	// Validate reports whether the record's data is usable.
	Validate() error
}

// Repository abstracts CRUD access to one model type. Every concrete
// repository in the repositories package satisfies this interface.
type Repository[T Model] interface {
	// Create inserts a new record.
	Create(model T) error
	// Get retrieves a record by its ID.
	Get(id string) (T, error)
	// Update rewrites an existing record.
	Update(model T) error
	// Delete soft-deletes a record by its ID.
	Delete(id string) error
	// List retrieves all records matching the given criteria.
	List(criteria map[string]any) ([]T, error)
}
