package main

import (
	"context"
	"fmt"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/services"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/tasks"
	"github.com/urfave/cli/v3"
)

// GenerateOutline runs an outline generation stream for a project.
func (r *Runner) GenerateOutline(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.StringArg("id")
	if projectID == "" {
		return fmt.Errorf("%w: project ID is required", shared.ErrMissingArgument)
	}

	req := &services.OutlineRequest{
		Genre:           cmd.String("genre"),
		Premise:         cmd.String("premise"),
		TotalChapters:   int(cmd.Int("chapters")),
		TargetWordCount: int(cmd.Int("words")),
	}

	r.logger.Info("starting outline generation", "project", projectID)
	r.writePlain("Generating outline...\n\n")

	run := r.recordRun(projectID, models.RunOutline, 1)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.printProgress(update)
		}
	}()

	result, err := r.engine.Outline(ctx, progressCh, projectID, req)
	close(progressCh)
	<-done

	if err != nil {
		r.finishRun(run, 0, 0, err)
		return err
	}
	r.finishRun(run, 1, 0, nil)

	outline := result.Outline

	r.writePlain("\n")
	r.writePlainHeader("Outline Complete!")
	r.writePlain("Project: %s\n", result.Project.Title)
	r.writePlain("Chapters: %d across %d volumes\n", outline.TotalChapters, len(outline.Volumes))
	if outline.MainGoal != "" {
		r.writePlain("Goal: %s\n", outline.MainGoal)
	}
	for _, volume := range outline.Volumes {
		r.writePlain("  Volume %d: %s (chapters %d-%d)\n", volume.Index, volume.Title, volume.StartChapter, volume.EndChapter)
	}

	return nil
}

// GenerateChapters runs a chapter batch generation stream for a project.
func (r *Runner) GenerateChapters(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.StringArg("id")
	if projectID == "" {
		return fmt.Errorf("%w: project ID is required", shared.ErrMissingArgument)
	}

	count := int(cmd.Int("count"))
	req := &services.ChapterBatchRequest{
		Count:        count,
		StartChapter: int(cmd.Int("start")),
	}

	r.logger.Info("starting chapter generation", "project", projectID, "count", count)
	r.writePlain("Generating %d chapters...\n\n", count)

	run := r.recordRun(projectID, models.RunChapters, count)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.printProgress(update)
		}
	}()

	result, err := r.engine.Chapters(ctx, progressCh, projectID, req)
	close(progressCh)
	<-done

	if err != nil {
		r.finishRun(run, 0, 0, err)
		return err
	}
	r.finishRun(run, len(result.Generated), len(result.FailedChapters), nil)

	r.writePlain("\n")
	r.writePlainHeader("Generation Complete!")
	r.writePlain("Project: %s\n", result.Project.Title)
	r.writePlain("Confirmed: %d/%d chapters (%.1f%%)\n", len(result.Generated), result.Requested, result.SuccessRate)

	if len(result.FailedChapters) > 0 {
		r.writePlain("\nFailed chapters (%d):\n", len(result.FailedChapters))
		for _, chapter := range result.FailedChapters {
			r.writePlain("  - chapter %d\n", chapter)
		}
		r.writePlain("\nRe-run the batch to retry; confirmed chapters stay cached.\n")
	}

	return nil
}

// printProgress renders one engine progress update to the terminal.
func (r *Runner) printProgress(update tasks.ProgressUpdate) {
	if update.Message == "" {
		return
	}

	switch update.Phase {
	case tasks.FetchProject:
		r.writePlain("📥 %s\n", update.Message)
	case tasks.StreamOutline, tasks.StreamChapters:
		if update.Step == 0 {
			r.writePlain("\n✍️  %s\n", update.Message)
		} else {
			r.writePlain("   %s\n", update.Message)
		}
	default:
		r.writePlain("   %s\n", update.Message)
	}
}

// recordRun opens a run history row when the local cache is attached.
func (r *Runner) recordRun(projectID string, kind models.RunKind, requested int) *models.GenerationRun {
	repo := r.runRepository()
	if repo == nil {
		return nil
	}

	run := models.NewGenerationRun(0, projectID, kind, requested)
	if err := repo.Create(run); err != nil {
		r.logger.Warn("failed to record run", "error", err)
		return nil
	}
	return run
}

// finishRun closes out a run history row, best effort.
func (r *Runner) finishRun(run *models.GenerationRun, generated, failed int, runErr error) {
	if run == nil {
		return
	}
	repo := r.runRepository()
	if repo == nil {
		return
	}

	if runErr != nil {
		run.Fail(runErr.Error())
	} else {
		run.Complete(generated, failed)
	}

	if err := repo.Update(run); err != nil {
		r.logger.Warn("failed to finalize run record", "error", err)
	}
}

// generateCommand handles streaming generation operations
func generateCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "generate",
		Aliases: []string{"gen"},
		Usage:   "Stream outline and chapter generation",
		Commands: []*cli.Command{
			{
				Name:  "outline",
				Usage: "Generate a project's master outline",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Genre hint for the outline",
					},
					&cli.StringFlag{
						Name:  "premise",
						Usage: "Premise hint for the outline",
					},
					&cli.IntFlag{
						Name:  "chapters",
						Usage: "Planned chapter count",
					},
					&cli.IntFlag{
						Name:  "words",
						Usage: "Target word count",
					},
				},
				Action: r.GenerateOutline,
			},
			{
				Name:  "chapters",
				Usage: "Generate the next batch of chapters",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:     "count",
						Usage:    "Number of chapters to generate",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "start",
						Usage: "First chapter of the batch (0 = server decides)",
					},
				},
				Action: r.GenerateChapters,
			},
		},
	}
}
