package main

import (
	"context"
	"fmt"
	"os"

	"github.com/quillhq/inkwell/internal/formatter"
	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
	"github.com/quillhq/inkwell/internal/tasks"
	"github.com/urfave/cli/v3"
)

// ExportProject exports a single project with its outline and chapters.
func (r *Runner) ExportProject(ctx context.Context, cmd *cli.Command) error {
	projectID := cmd.StringArg("id")
	format := cmd.String("format")
	outputFile := cmd.String("output")

	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("exporting project %v as %v", projectID, format)

	project, err := r.platform.GetProject(ctx, projectID)
	if err != nil {
		return fmt.Errorf("failed to fetch project: %w", err)
	}

	export := &models.ProjectExport{Project: *project}

	// The outline and chapters may not exist yet; export whatever is there.
	if outline, err := r.platform.GetOutline(ctx, projectID); err == nil {
		export.Outline = outline
	}
	if chapters, err := r.platform.GetChapters(ctx, projectID); err == nil {
		export.Chapters = chapters
	}

	switch format {
	case "json":
		if outputFile == "" {
			outputFile = fmt.Sprintf("inkwell_%s.json", project.ID)
		}
		data, err := shared.MarshalJSON(export, true)
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}
		if err := os.WriteFile(outputFile, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		r.writePlain("✓ Project exported to %s\n", outputFile)
	case "csv":
		if outputFile == "" {
			outputFile = fmt.Sprintf("inkwell_%s", project.ID)
		}
		result, err := formatter.WriteCSVExport(export, outputFile)
		if err != nil {
			return fmt.Errorf("failed to write CSV export: %w", err)
		}
		r.writePlain("✓ Metadata written to %s\n", result.MetadataFile)
		if result.ChaptersFile != "" {
			r.writePlain("✓ Chapters written to %s\n", result.ChaptersFile)
		}
	case "markdown", "md":
		if outputFile == "" {
			outputFile = fmt.Sprintf("inkwell_%s", project.ID)
		}
		result, err := formatter.WriteMarkdownExport(export, outputFile)
		if err != nil {
			return fmt.Errorf("failed to write Markdown export: %w", err)
		}
		r.writePlain("✓ Wrote %d file(s) under %s\n", len(result.Files), result.Directory)
	case "txt", "text":
		if outputFile == "" {
			outputFile = fmt.Sprintf("inkwell_%s.txt", project.ID)
		}
		path, err := formatter.WriteTextExport(export, outputFile)
		if err != nil {
			return fmt.Errorf("failed to write text export: %w", err)
		}
		r.writePlain("✓ Manuscript written to %s\n", path)
	default:
		return fmt.Errorf("%w: unsupported format '%s' (must be json, csv, markdown, or txt)", shared.ErrInvalidArgument, format)
	}

	r.writePlain("  Project: %s\n", project.Title)
	if export.Outline != nil {
		r.writePlain("  Volumes: %d\n", len(export.Outline.Volumes))
	}
	r.writePlain("  Chapters: %d\n", len(export.Chapters))
	return nil
}

// ExportBulk exports several projects concurrently through the engine's
// worker pool. Project IDs come from positional args, or from the server
// when --all is set.
func (r *Runner) ExportBulk(ctx context.Context, cmd *cli.Command) error {
	if r.platform == nil {
		return fmt.Errorf("%w: platform service not initialized", shared.ErrServiceUnavailable)
	}
	if r.engine == nil {
		return fmt.Errorf("%w: generation engine not initialized", shared.ErrServiceUnavailable)
	}

	ids := cmd.StringArgs("ids")
	if cmd.Bool("all") {
		projects, err := r.platform.GetProjects(ctx)
		if err != nil {
			return fmt.Errorf("failed to list projects: %w", err)
		}
		ids = ids[:0]
		for _, project := range projects {
			ids = append(ids, project.ID)
		}
	}
	if len(ids) == 0 {
		return fmt.Errorf("%w: no project IDs given (pass IDs or --all)", shared.ErrInvalidArgument)
	}

	opts := tasks.BulkExportOpts{
		Format:     cmd.String("format"),
		OutputDir:  cmd.String("output-dir"),
		NumWorkers: int(cmd.Int("workers")),
		RateLimit:  cmd.Float("rate-limit"),
	}

	r.logger.Infof("bulk exporting %d projects as %v", len(ids), opts.Format)
	r.writePlain("Exporting %d project(s)...\n\n", len(ids))

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.writePlain("  %s\n", update.Message)
		}
	}()

	result, err := r.engine.BulkExport(ctx, progressCh, r.platform, ids, opts)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete!")
	r.writePlain("Projects: %d\n", result.TotalProjects)
	r.writePlain("Succeeded: %d\n", result.SuccessfulExports)
	r.writePlain("Failed: %d\n", result.FailedExports)
	r.writePlain("Output: %s\n", result.OutputDirectory)
	if result.ManifestPath != "" {
		r.writePlain("Manifest: %s\n", result.ManifestPath)
	}

	if result.FailedExports > 0 {
		r.writePlain("\nFailed exports:\n")
		for _, res := range result.Results {
			if !res.Success {
				r.writePlain("  - %s", res.ProjectTitle)
				if res.Error != nil {
					r.writePlain(": %v", res.Error)
				}
				r.writePlain("\n")
			}
		}
	}

	return nil
}

// exportCommand handles project export operations.
func exportCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Export projects to local files",
		Commands: []*cli.Command{
			{
				Name:  "project",
				Usage: "Export a single project",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name:      "id",
						UsageText: "Project ID to export",
					},
				},
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file or directory (default derives from the project ID)",
					},
				},
				Action: r.ExportProject,
			},
			{
				Name:  "bulk",
				Usage: "Export several projects concurrently",
				Arguments: []cli.Argument{
					&cli.StringArgs{
						Name:      "ids",
						UsageText: "Project IDs to export",
						Min:       0,
						Max:       -1,
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Export every project on the account",
					},
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format (json, csv, markdown, txt)",
						Value:   "json",
					},
					&cli.StringFlag{
						Name:  "output-dir",
						Usage: "Output directory (default: inkwell_export_{timestamp})",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent export workers (max 10)",
						Value: 5,
					},
					&cli.FloatFlag{
						Name:  "rate-limit",
						Usage: "API requests per second",
						Value: 5,
					},
				},
				Action: r.ExportBulk,
			},
		},
	}
}
