package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for browsing projects and
// running chapter generation.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: generation engine not initialized", shared.ErrServiceUnavailable)
	}

	batchSize := int(cmd.Int("batch"))
	if batchSize <= 0 {
		batchSize = r.config.Generation.BatchSize
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger("./tmp/inkwell-tui.log")
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	model := ui.NewModel(ctx, r.platform, r.engine, batchSize)
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal UI",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "batch",
				Aliases: []string{"b"},
				Usage:   "Chapters to generate per batch",
			},
		},
		Action: r.TUI,
	}
}
