// Package tasks orchestrates generation and export operations against the platform with real-time progress reporting.
//
// # Core Operations
//
// The [GenerationEngine] interface defines three operations:
//
//  1. [GenerationEngine.Outline] : Outline generation run
//     - Fetches the project, then opens an outline generation stream
//     - Forwards every stream event as a progress update
//     - Returns the terminal outline with event counts
//
//  2. [GenerationEngine.Chapters] : Chapter batch generation run
//     - Opens a chapter generation stream for a requested batch size
//     - Caches confirmed chapters through the optional [ChapterCacher]
//     - Returns confirmed chapters, failed indices, and the success rate
//
//  3. [GenerationEngine.Snapshot] : Account-wide state fetch
//     - Retrieves health, project list, and per-project task state
//     - Returns structured data for backup or inspection
//
// # Progress Reporting
//
// # All operations use non-blocking channels for progress updates
//
// The [ProgressUpdate] struct contains phase, step counters, messages, and optional data for advanced UI rendering.
// Updates use select with default to prevent blocking.
//
// # Out-of-band Polling
//
// [TaskPoller] resynchronizes task state when no stream is attached, polling
// GET task status on a fixed cadence. Fetch failures are swallowed (logged at
// debug level) and the poller stops itself when the task turns terminal.
//
// # Bulk Export
//
// [NovelEngine.BulkExport] exports projects concurrently through a worker pool
// bounded by a [rate.Limiter], writing per-project files via the formatter
// package plus a manifest summarizing the run.
//
// # Implementation
//
// [NovelEngine] implements [GenerationEngine] with dependencies on:
//   - [services.Service] : platform API client
//   - [APIClient] : raw HTTP client for snapshot endpoints
//   - [ChapterCacher] : Optional persistence layer (repositories.ChapterRepository)
package tasks
