// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for chapter generation:
//  1. [ProjectListView] : Browse and select novel projects
//  2. [OutlineView] : Preview the outline's volumes before generating
//  3. [ConfirmView] : Confirm the generation run
//  4. [GenerateView] : Monitor real-time progress updates
//  5. [ResultView] : Display confirmed chapters and failures
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern, receiving messages via the Msg union type.
// Progress updates flow through a channel from the NovelEngine, providing non-blocking status reporting during streams.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
