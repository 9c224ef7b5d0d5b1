package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/urfave/cli/v3"
)

// ProjectsList lists the account's novel projects.
func (r *Runner) ProjectsList(ctx context.Context, cmd *cli.Command) error {
	limit := int(cmd.Int("limit"))
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")
	save := cmd.Bool("save")
	cached := cmd.Bool("cached")

	r.logger.Infof("listing projects with limit %v", limit)

	var projects []models.Project
	if cached {
		repo, err := r.projectRepository()
		if err != nil {
			return err
		}
		rows, err := repo.List(nil)
		if err != nil {
			return fmt.Errorf("failed to read cached projects: %w", err)
		}
		for _, row := range rows {
			project := row.Project()
			project.ID = row.RemoteID()
			projects = append(projects, project)
		}
	} else {
		if r.platform == nil {
			return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
		}
		remote, err := r.platform.GetProjects(ctx)
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		projects = remote
	}

	if limit > 0 && limit < len(projects) {
		projects = projects[:limit]
	}

	if save {
		saveFile := "inkwell_projects.json"
		data, err := shared.MarshalJSON(projects, true)
		if err != nil {
			return fmt.Errorf("failed to marshal projects: %w", err)
		}
		if err := os.WriteFile(saveFile, data, 0644); err != nil {
			r.logger.Warn("failed to save projects", "error", err)
		} else {
			r.logger.Info("projects saved", "file", saveFile)
		}
	}

	if useJSON {
		return r.writeJSON(projects, pretty)
	}

	r.writePlain("Found %d projects:\n\n", len(projects))
	for i, p := range projects {
		r.writePlain("%d. %s\n", i+1, p.Title)
		if p.Genre != "" {
			r.writePlain("   Genre: %s\n", p.Genre)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Chapters: %d planned", p.TotalChapters)
		if p.TargetWordCount > 0 {
			r.writePlain(" (%s)", shared.FormatWordCount(p.TargetWordCount))
		}
		r.writePlain("\n")
		if p.Status != "" {
			r.writePlain("   Status: %s\n", p.Status)
		}
		r.writePlain("\n")
	}

	return nil
}

// ProjectsShow fetches one project with its outline summary.
func (r *Runner) ProjectsShow(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.StringArg("id")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if projectID == "" {
		return fmt.Errorf("%w: project ID is required", shared.ErrMissingArgument)
	}
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	project, err := r.platform.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	// The outline may not exist yet; show the project regardless.
	outline, outlineErr := r.platform.GetOutline(ctx, projectID)

	if useJSON {
		return r.writeJSON(models.ProjectExport{Project: *project, Outline: outline}, pretty)
	}

	r.writePlainHeader(project.Title)
	if project.Genre != "" {
		r.writePlain("Genre: %s\n", project.Genre)
	}
	if project.Premise != "" {
		r.writePlain("Premise: %s\n", project.Premise)
	}
	r.writePlain("Planned: %d chapters", project.TotalChapters)
	if project.TargetWordCount > 0 {
		r.writePlain(", %s", shared.FormatWordCount(project.TargetWordCount))
	}
	r.writePlain("\n")
	if project.Status != "" {
		r.writePlain("Status: %s\n", project.Status)
	}

	if outlineErr != nil {
		r.writePlain("\nNo outline yet. Generate one with 'inkwell generate outline %s'\n", projectID)
		return nil
	}

	r.writePlain("\nOutline: %d volumes\n", len(outline.Volumes))
	if outline.MainGoal != "" {
		r.writePlain("Goal: %s\n", outline.MainGoal)
	}
	for _, volume := range outline.Volumes {
		r.writePlain("  Volume %d: %s (chapters %d-%d)\n", volume.Index, volume.Title, volume.StartChapter, volume.EndChapter)
	}

	return nil
}

// ProjectsCreate creates a new project on the platform.
func (r *Runner) ProjectsCreate(ctx context.Context, cmd *cli.Command) error {
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	project := &models.Project{
		Title:           cmd.String("title"),
		Genre:           cmd.String("genre"),
		Premise:         cmd.String("premise"),
		TotalChapters:   int(cmd.Int("chapters")),
		TargetWordCount: int(cmd.Int("words")),
	}

	if project.Title == "" {
		return fmt.Errorf("%w: --title is required", shared.ErrMissingArgument)
	}

	created, err := r.platform.CreateProject(ctx, project)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Project created: %s\n", created.Title)
	r.writePlain("  ID: %s\n", created.ID)
	return nil
}

// ProjectsUpdate updates an existing project's metadata.
func (r *Runner) ProjectsUpdate(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.StringArg("id")
	if projectID == "" {
		return fmt.Errorf("%w: project ID is required", shared.ErrMissingArgument)
	}
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	project, err := r.platform.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if title := cmd.String("title"); title != "" {
		project.Title = title
	}
	if genre := cmd.String("genre"); genre != "" {
		project.Genre = genre
	}
	if premise := cmd.String("premise"); premise != "" {
		project.Premise = premise
	}
	if chapters := int(cmd.Int("chapters")); chapters > 0 {
		project.TotalChapters = chapters
	}
	if words := int(cmd.Int("words")); words > 0 {
		project.TargetWordCount = words
	}

	updated, err := r.platform.UpdateProject(ctx, project)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Project updated: %s\n", updated.Title)
	return nil
}

// ProjectsDelete deletes a project on the platform.
func (r *Runner) ProjectsDelete(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.StringArg("id")
	if projectID == "" {
		return fmt.Errorf("%w: project ID is required", shared.ErrMissingArgument)
	}
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	if err := r.platform.DeleteProject(ctx, projectID); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Project deleted: %s\n", projectID)
	return nil
}

// ProjectsPull mirrors remote projects into the local cache database.
func (r *Runner) ProjectsPull(ctx context.Context, cmd *cli.Command) error {
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	repo, err := r.projectRepository()
	if err != nil {
		return err
	}

	projects, err := r.platform.GetProjects(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	var created, updated int
	for _, project := range projects {
		existing, getErr := repo.GetByRemoteID(project.ID)
		if getErr == nil && existing != nil {
			refreshed := models.NewPersistedProject(existing.Sequence(), project.ID, project)
			refreshed.SetID(existing.ID())
			if err := repo.Update(refreshed); err != nil {
				r.logger.Warn("failed to refresh cached project", "id", project.ID, "error", err)
				continue
			}
			updated++
			continue
		}

		if err := repo.Create(models.NewPersistedProject(0, project.ID, project)); err != nil {
			r.logger.Warn("failed to cache project", "id", project.ID, "error", err)
			continue
		}
		created++
	}

	r.writePlain("✓ Pulled %d projects (%d new, %d refreshed)\n", len(projects), created, updated)
	return nil
}

// projectsCommand handles project CRUD and local mirroring
func projectsCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "projects",
		Aliases: []string{"proj"},
		Usage:   "Manage novel projects",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List projects on the platform",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of projects to return",
						Value: 50,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
					&cli.BoolFlag{
						Name:  "save",
						Usage: "Save API response locally",
					},
					&cli.BoolFlag{
						Name:  "cached",
						Usage: "Read from the local cache instead of the platform",
					},
				},
				Action: r.ProjectsList,
			},
			{
				Name:  "show",
				Usage: "Show a project and its outline summary",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.ProjectsShow,
			},
			{
				Name:  "create",
				Usage: "Create a new project",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:     "title",
						Usage:    "Project title",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Genre tag",
					},
					&cli.StringFlag{
						Name:  "premise",
						Usage: "One-paragraph premise",
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
				Action: r.ProjectsCreate,
			},
			{
				Name:  "update",
				Usage: "Update a project's metadata",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "title",
						Usage: "Project title",
					},
					&cli.StringFlag{
						Name:  "genre",
						Usage: "Genre tag",
					},
					&cli.StringFlag{
						Name:  "premise",
						Usage: "One-paragraph premise",
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
				Action: r.ProjectsUpdate,
			},
			{
				Name:  "delete",
				Usage: "Delete a project",
				Arguments: []cli.Argument{
					&cli.StringArg{Name: "id"},
				},
				Action: r.ProjectsDelete,
			},
			{
				Name:  "pull",
				Usage: "Mirror remote projects into the local cache",
				Action: r.ProjectsPull,
			},
		},
	}
}
