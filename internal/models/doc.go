// Package models defines the domain model shared across the client.
//
// Two families of types live here:
//
//   - Wire DTOs ([Project], [NovelOutline], [ChapterBatchResult],
//     [GenerationTask]) matching the platform's JSON shapes. Outline and
//     chapter-batch values are constructed exactly once, at the terminal
//     event of a generation stream.
//   - Persisted models ([PersistedProject], [PersistedChapter]) implementing
//     [Model] for the local SQLite cache, with soft-delete support.
//
// The generic [Repository] interface is implemented in internal/repositories.
package models
