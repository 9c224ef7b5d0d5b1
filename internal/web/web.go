// Package web implements an HTMX-based web application mirroring the TUI functionality.
//
// # HTMX Web Application Implementation Plan
//
// # Architecture
//
// The web app replicates the TUI workflow using server-side rendering with
// HTMX for dynamic updates. Each view corresponds to a template and handler:
//
//  1. Project List: Server-rendered table with hx-get for outline preview
//  2. Outline Preview: HTMX partial swap showing volumes + generate button
//  3. Generate Confirm: Modal confirmation with hx-post trigger
//  4. Progress Monitor: SSE (Server-Sent Events) relaying generation progress
//  5. Results Display: Final status with generated/failed chapters breakdown
//
// Core Components
//
//   - HTTP Server: net/http server with html/template rendering
//   - Service Integration: Uses same services.Service and tasks.NovelEngine as TUI
//   - Session Management: Cookie-based sessions for OAuth state and user tracking
//   - SSE Handler: Re-streams platform generation events to the browser
//
// Routes
//
//	GET  /                       → Project list view (requires auth)
//	GET  /auth/login             → OAuth initiation
//	GET  /auth/callback          → OAuth completion
//	GET  /projects/{id}/outline  → HTMX partial: outline preview
//	POST /generate               → Start generation, return SSE endpoint
//	GET  /generate/{id}/stream   → SSE progress stream
//	GET  /generate/{id}/result   → Final result view
//
// Templates
//
//   - base.html: Layout with navigation, auth status
//   - projects.html: Table with hx-get on rows
//   - outline.html: Partial template for outline preview
//   - progress.html: SSE consumer with progress bar
//   - results.html: Generated/failed chapter breakdown
//
// # State Management
//
// Unlike the TUI's in-memory state, the web app persists state in:
//   - Session cookies: Authentication tokens, user ID
//   - GenerationRun records: Run progress across requests
//   - In-memory channels: SSE connections for active generations
//
// # Progress Streaming
//
// Generation progress uses Server-Sent Events:
//  1. POST /generate creates GenerationRun, returns run ID
//  2. Client opens SSE connection to /generate/{id}/stream
//  3. Handler launches goroutine running NovelEngine.Chapters
//  4. Progress channel updates stream as SSE events
//  5. On completion, send "done" event with redirect URL
//
// Authentication Flow
//
//  1. User visits /, redirected to /auth/login if not authenticated
//  2. OAuth dance stores tokens in session
//  3. Session middleware validates tokens on protected routes
//  4. Expired tokens trigger reauthorization flow
//
// Dependencies
//
//   - html/template: Server-side rendering
//   - net/http: HTTP server and SSE
//   - gorilla/sessions or similar: Cookie management
//
// Implementation Tasks
//
//  1. HTTP server setup with route registration
//  2. Template structure with HTMX integration
//  3. Session middleware for auth state
//  4. Project list handler with service integration
//  5. Outline preview handler (HTMX partial)
//  6. Generate endpoint creating GenerationRun
//  7. SSE handler re-streaming progress updates
//  8. Result handler displaying GenerationRun outcome
//  9. OAuth handlers wrapping existing platform auth
//  10. Error handling and validation
//
// # Testing Strategy
//
// Use httptest:
//   - Mock services.Service for project/outline data
//   - Mock tasks.NovelEngine for generations
//   - Validate HTMX headers and response structure
//   - Test SSE stream formatting
package web
