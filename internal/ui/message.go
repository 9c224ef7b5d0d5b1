package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgProjectsFetched MsgKind = iota
	MsgOutlineFetched
	MsgProgressUpdate
	MsgGenerateComplete
)

type projectsPayload struct {
	projects []models.Project
	err      error
}

type outlinePayload struct {
	outline *models.NovelOutline
	err     error
}

type completePayload struct {
	result *tasks.ChapterRunResult
	err    error
}

// projectsFetchedMsg is the constructor for [MsgProjectsFetched]
func projectsFetchedMsg(projects []models.Project, err error) Msg {
	return Msg{kind: MsgProjectsFetched, data: projectsPayload{projects, err}}
}

// outlineFetchedMsg is the constructor for [MsgOutlineFetched]
func outlineFetchedMsg(outline *models.NovelOutline, err error) Msg {
	return Msg{kind: MsgOutlineFetched, data: outlinePayload{outline, err}}
}

// progressUpdateMsg is the constructor for [MsgProgressUpdate]
func progressUpdateMsg(update tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgressUpdate, data: update}
}

// generateCompleteMsg is the constructor for [MsgGenerateComplete]
func generateCompleteMsg(result *tasks.ChapterRunResult, err error) Msg {
	return Msg{kind: MsgGenerateComplete, data: completePayload{result, err}}
}
