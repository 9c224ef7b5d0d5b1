package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/services"
	"github.com/quillhq/inkwell/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	ProjectListView ViewState = iota
	OutlineView
	ConfirmView
	GenerateView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx             context.Context
	view            ViewState
	platform        services.Service
	engine          *tasks.NovelEngine
	batchSize       int
	width           int
	height          int
	projectList     list.Model
	projects        []models.Project
	volumeList      list.Model
	outline         *models.NovelOutline
	selectedProject *models.Project
	progressChan    chan tasks.ProgressUpdate
	progress        tasks.ProgressUpdate
	result          *tasks.ChapterRunResult
	err             error
	help            help.Model
	keys            keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
// batchSize is the number of chapters requested per generation run.
func NewModel(ctx context.Context, platform services.Service, engine *tasks.NovelEngine, batchSize int) *Model {
	if batchSize <= 0 {
		batchSize = 5
	}
	return &Model{
		ctx:       ctx,
		view:      ProjectListView,
		platform:  platform,
		engine:    engine,
		batchSize: batchSize,
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching projects from the platform.
func (m *Model) Init() tea.Cmd {
	return m.fetchProjects()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.projectList.Width() == 0 {
			m.projectList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.volumeList.Width() == 0 {
			m.volumeList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case ProjectListView:
			return m.handleProjectListKeys(msg)
		case OutlineView:
			return m.handleOutlineKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case Msg:
		return m.handleAppMsg(msg)
	}

	return m.updateLists(msg)
}

func (m *Model) handleAppMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgProjectsFetched:
		payload := msg.data.(projectsPayload)
		if payload.err != nil {
			m.err = payload.err
			return m, tea.Quit
		}
		m.projects = payload.projects
		items := make([]list.Item, len(payload.projects))
		for i, project := range payload.projects {
			items[i] = projectItem{project: project}
		}
		m.projectList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.projectList.Title = "Novel Projects"
		m.projectList.SetSize(m.width-4, m.height-8)
		return m, nil

	case MsgOutlineFetched:
		payload := msg.data.(outlinePayload)
		if payload.err != nil {
			m.err = payload.err
			m.view = ProjectListView
			return m, nil
		}
		m.outline = payload.outline
		items := make([]list.Item, len(payload.outline.Volumes))
		for i, volume := range payload.outline.Volumes {
			items[i] = volumeItem{volume: volume}
		}
		m.volumeList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.volumeList.Title = fmt.Sprintf("Outline for '%s'", m.selectedProject.Title)
		m.volumeList.SetSize(m.width-4, m.height-8)
		m.view = OutlineView
		return m, nil

	case MsgProgressUpdate:
		m.progress = msg.data.(tasks.ProgressUpdate)
		return m, m.waitForProgress()

	case MsgGenerateComplete:
		payload := msg.data.(completePayload)
		m.result = payload.result
		m.err = payload.err
		m.view = ResultView
		m.progressChan = nil
		return m, nil
	}

	return m, nil
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case ProjectListView:
		return m.renderProjectList()
	case OutlineView:
		return m.renderOutline()
	case ConfirmView:
		return m.renderConfirm()
	case GenerateView:
		return m.renderGenerate()
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handleProjectListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.projectList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(projectItem); ok {
				project := item.project
				m.selectedProject = &project
				return m, m.fetchOutline(project.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.projectList, cmd = m.projectList.Update(msg)
	return m, cmd
}

func (m *Model) handleOutlineKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ProjectListView
		return m, nil
	case "enter":
		m.view = ConfirmView
		return m, nil
	}

	var cmd tea.Cmd
	m.volumeList, cmd = m.volumeList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "n":
		m.view = OutlineView
		return m, nil
	case "y":
		m.view = GenerateView
		return m, m.startGeneration()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = ProjectListView
		m.selectedProject = nil
		m.outline = nil
		m.result = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case ProjectListView:
		m.projectList, cmd = m.projectList.Update(msg)
	case OutlineView:
		m.volumeList, cmd = m.volumeList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchProjects() tea.Cmd {
	return func() tea.Msg {
		projects, err := m.platform.GetProjects(m.ctx)
		return projectsFetchedMsg(projects, err)
	}
}

func (m *Model) fetchOutline(projectID string) tea.Cmd {
	return func() tea.Msg {
		outline, err := m.platform.GetOutline(m.ctx, projectID)
		return outlineFetchedMsg(outline, err)
	}
}

func (m *Model) startGeneration() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func() {
		result, err := m.engine.Chapters(m.ctx, m.progressChan, m.selectedProject.ID, &services.ChapterBatchRequest{Count: m.batchSize})
		m.result = result
		m.err = err
		close(m.progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return generateCompleteMsg(m.result, m.err)
		}

		update, ok := <-m.progressChan
		if !ok {
			return generateCompleteMsg(m.result, m.err)
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderProjectList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.projectList.View(), helpView)
}

func (m *Model) renderOutline() string {
	generateKey := key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "generate"),
	)
	helpKeys := []key.Binding{generateKey, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.volumeList.View(), helpView)
}

func (m *Model) renderConfirm() string {
	title := styles.title.Render(fmt.Sprintf("Generate %d chapters of '%s'?", m.batchSize, m.selectedProject.Title))
	info := fmt.Sprintf("\nProject: %s\nPlanned chapters: %d\n", m.selectedProject.Title, m.selectedProject.TotalChapters)

	helpKeys := []key.Binding{m.keys.yes, m.keys.no, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderGenerate() string {
	title := styles.title.Render("Generating Chapters")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchProject:
		phase = "Fetching project..."
	case tasks.StreamChapters:
		if m.progress.Total > 0 {
			phase = fmt.Sprintf("Writing chapters (%d/%d)", m.progress.Step, m.progress.Total)
		} else {
			phase = "Writing chapters..."
		}
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderResult() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Generation failed: %v\n\nPress r to start over, q to quit", m.err))
	}

	if m.result == nil {
		return styles.err.Render("No result available\n\nPress r to start over, q to quit")
	}

	title := styles.ok.Render("✓ Generation Complete!")
	info := fmt.Sprintf(
		"\nProject: %s\nConfirmed: %d/%d chapters (%.1f%%)",
		m.selectedProject.Title,
		len(m.result.Generated),
		m.result.Requested,
		m.result.SuccessRate,
	)

	var failed string
	if len(m.result.FailedChapters) > 0 {
		failed = fmt.Sprintf("\n\n%s", styles.warn.Render(fmt.Sprintf("Failed chapters (%d):", len(m.result.FailedChapters))))
		for _, chapter := range m.result.FailedChapters {
			failed += fmt.Sprintf("\n  • chapter %d", chapter)
		}
	}

	helpKeys := []key.Binding{m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, failed, helpView)
}
