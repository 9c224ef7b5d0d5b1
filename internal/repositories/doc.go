// Package repositories implements SQLite persistence for all domain entities.
//
// Each repository handles CRUD operations with atomic sequence generation for human-readable ordering.
// All repositories support soft deletes via deleted_at timestamps and exclude deleted records from queries by default.
//
// Key Implementations:
//   - [ProjectRepository] : Local project mirror with remote ID lookups
//   - [ChapterRepository] : Generated chapter caching with per-project index queries
//   - [GenerationRunRepository] : Generation run history with status tracking
//   - [ChapterCacheAdapter] : Deduplicating cache bridge used during chapter streaming
//
// Sequence numbers provide stable, human-readable ordering (e.g., project #42, run #15) independent of UUIDs and creation timestamps.
// The [NextSequence] function atomically increments per-table sequence counters in dedicated sequence tables.
package repositories
