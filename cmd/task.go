package main

import (
	"context"
	"fmt"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TaskStatus fetches and prints a project's server-side task state once.
func (r *Runner) TaskStatus(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")

	if projectID == "" {
		return fmt.Errorf("%w: project ID is required", shared.ErrMissingArgument)
	}
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	task, err := r.platform.TaskStatus(ctx, projectID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if useJSON {
		return r.writeJSON(task, true)
	}

	r.printTask(task)
	return nil
}

// TaskWatch polls a project's task state until it reaches a terminal status.
func (r *Runner) TaskWatch(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.StringArg("id")
	if projectID == "" {
		return fmt.Errorf("%w: project ID is required", shared.ErrMissingArgument)
	}
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	interval := r.config.Generation.PollInterval()
	poller := tasks.NewTaskPoller(r.platform, projectID, interval, r.logger)

	r.writePlain("Watching task for project %s (every %s, ctrl+c to stop)...\n\n", projectID, interval)

	progressCh := make(chan tasks.ProgressUpdate, 10)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if task, ok := update.Data.(*models.GenerationTask); ok {
				r.writePlain("[%s] %d/%d chapters", task.Status, update.Step, update.Total)
				if update.Message != "" {
					r.writePlain(" • %s", update.Message)
				}
				r.writePlain("\n")
			}
		}
	}()

	err := poller.Run(ctx, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n✓ Task finished\n")
	return nil
}

// TaskHistory lists recorded generation runs from the local cache.
func (r *Runner) TaskHistory(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.String("project")
	useJSON := cmd.Bool("json")

	repo := r.runRepository()
	if repo == nil {
		return fmt.Errorf("%w: database not initialized, run 'inkwell setup database' first", shared.ErrServiceUnavailable)
	}

	criteria := map[string]interface{}{}
	if projectID != "" {
		criteria["project_id"] = projectID
	}

	runs, err := repo.List(criteria)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if useJSON {
		type runRow struct {
			ID        string `json:"id"`
			ProjectID string `json:"projectId"`
			Kind      string `json:"kind"`
			Status    string `json:"status"`
			Requested int    `json:"requested"`
			Generated int    `json:"generated"`
			Failed    int    `json:"failed"`
			Error     string `json:"error,omitempty"`
		}
		rows := make([]runRow, 0, len(runs))
		for _, run := range runs {
			rows = append(rows, runRow{
				ID:        run.ID(),
				ProjectID: run.ProjectID(),
				Kind:      string(run.Kind()),
				Status:    run.Status(),
				Requested: run.Requested(),
				Generated: run.Generated(),
				Failed:    run.Failed(),
				Error:     run.ErrorMessage(),
			})
		}
		return r.writeJSON(rows, true)
	}

	if len(runs) == 0 {
		r.writePlain("No recorded runs.\n")
		return nil
	}

	r.writePlain("Found %d runs:\n\n", len(runs))
	for _, run := range runs {
		r.writePlain("#%d %s %s", run.Sequence(), run.Kind(), run.Status())
		if run.Kind() == models.RunChapters {
			r.writePlain(" (%d/%d confirmed)", run.Generated(), run.Requested())
		}
		if run.StartedAt() != nil {
			r.writePlain(" started %s", run.StartedAt().Format("2006-01-02 15:04"))
		}
		r.writePlain("\n")
		if run.ErrorMessage() != "" {
			r.writePlain("   error: %s\n", run.ErrorMessage())
		}
	}

	return nil
}

// printTask renders one task snapshot.
func (r *Runner) printTask(task *models.GenerationTask) {
	r.writePlain("Task: %s\n", task.ID)
	r.writePlain("Status: %s\n", task.Status)
	r.writePlain("Progress: %d/%d chapters (%.1f%%)\n", len(task.CompletedChapters), task.TargetCount, task.CurrentProgress)
	if task.CurrentMessage != "" {
		r.writePlain("Message: %s\n", task.CurrentMessage)
	}
	if len(task.FailedChapters) > 0 {
		r.writePlain("Failed chapters: %v\n", task.FailedChapters)
	}
}

// taskCommand handles out-of-band task status operations
func taskCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "task",
		Usage: "Inspect server-side generation tasks",
		Commands: []*cli.Command{
			{
				Name:  "status",
				Usage: "Fetch a project's task state once",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TaskStatus,
			},
			{
				Name:  "watch",
				Usage: "Poll a project's task state until it finishes",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.TaskWatch,
			},
			{
				Name:  "history",
				Usage: "List recorded generation runs from the local cache",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "project",
						Usage: "Filter by remote project ID",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.TaskHistory,
			},
		},
	}
}
