package tasks

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/quillhq/inkwell/internal/formatter"
	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/services"
	"github.com/quillhq/inkwell/internal/shared"
	"golang.org/x/time/rate"
)

// BulkExportOpts contains configuration for bulk project exports.
type BulkExportOpts struct {
	Format     string  // Export format: json, csv, markdown, txt
	OutputDir  string  // Base output directory (default: inkwell_export_{epoch})
	NumWorkers int     // Concurrent workers (default: 5)
	RateLimit  float64 // Requests per second (default: 5)
}

// ProjectExportJob is one unit of work for the export worker pool.
type ProjectExportJob struct {
	ProjectID string
	Export    *models.ProjectExport
}

// ProjectExportResult records the outcome of exporting a single project.
type ProjectExportResult struct {
	ProjectID    string   `json:"project_id"`
	ProjectTitle string   `json:"project_title"`
	Success      bool     `json:"success"`
	Files        []string `json:"files,omitempty"`
	Error        error    `json:"-"`
}

// BulkExportResult summarizes a bulk export run.
type BulkExportResult struct {
	TotalProjects     int                   `json:"total_projects"`
	SuccessfulExports int                   `json:"successful_exports"`
	FailedExports     int                   `json:"failed_exports"`
	OutputDirectory   string                `json:"output_directory"`
	ManifestPath      string                `json:"manifest_path,omitempty"`
	Results           []ProjectExportResult `json:"results"`
}

// BulkExport exports multiple projects concurrently with rate limiting and progress tracking.
//
// This method implements a worker pool pattern to efficiently export multiple
// projects. It respects API rate limits, handles partial failures gracefully,
// and generates a manifest file summarizing the export results.
func (e *NovelEngine) BulkExport(
	ctx context.Context,
	prog chan<- ProgressUpdate,
	srv services.Service,
	ids []string,
	opts BulkExportOpts,
) (*BulkExportResult, error) {
	if srv == nil {
		return nil, fmt.Errorf("%w: service not initialized", shared.ErrServiceUnavailable)
	}

	if opts.OutputDir == "" {
		opts.OutputDir = fmt.Sprintf("inkwell_export_%d", time.Now().Unix())
	}
	if opts.NumWorkers <= 0 {
		opts.NumWorkers = 5
	}
	if opts.NumWorkers > 10 {
		opts.NumWorkers = 10
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = 5.0
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &BulkExportResult{
		TotalProjects:   len(ids),
		OutputDirectory: opts.OutputDir,
		Results:         make([]ProjectExportResult, 0, len(ids)),
	}

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)

	jobs := make(chan ProjectExportJob, len(ids))
	results := make(chan ProjectExportResult, len(ids))

	var wg sync.WaitGroup
	for i := 0; i < opts.NumWorkers; i++ {
		wg.Add(1)
		go e.exportWorker(ctx, &wg, jobs, results, opts)
	}

	go func() {
		for i, projectID := range ids {
			select {
			case <-ctx.Done():
				close(jobs)
				return
			default:
			}

			if err := limiter.Wait(ctx); err != nil {
				close(jobs)
				return
			}

			export, err := e.fetchExport(ctx, srv, projectID)
			if err != nil {
				results <- ProjectExportResult{
					ProjectID:    projectID,
					ProjectTitle: fmt.Sprintf("Unknown (%s)", projectID),
					Success:      false,
					Error:        fmt.Errorf("failed to fetch project: %w", err),
				}
				continue
			}

			jobs <- ProjectExportJob{
				ProjectID: projectID,
				Export:    export,
			}

			e.sendProgress(prog, exportingProjectUpdate(i+1, len(ids), export.Project.Title))
		}
		close(jobs)
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	completed := 0
	for res := range results {
		completed++
		result.Results = append(result.Results, res)

		if res.Success {
			result.SuccessfulExports++
			e.sendProgress(prog, exportCompletedUpdate(
				completed,
				len(ids),
				res.ProjectTitle,
				len(res.Files),
			))
		} else {
			result.FailedExports++
			e.sendProgress(prog, exportFailedUpdate(
				completed,
				len(ids),
				res.ProjectTitle,
				res.Error,
			))
		}
	}

	manifestPath := filepath.Join(opts.OutputDir, "export_manifest.json")
	if err := formatter.WriteBulkExportManifest(result, opts.Format, manifestPath); err != nil {
		return result, fmt.Errorf("export completed but failed to write manifest: %w", err)
	}
	result.ManifestPath = manifestPath
	return result, nil
}

// fetchExport assembles a project export bundle. The outline and chapter list
// are optional server-side; their absence is not an error.
func (e *NovelEngine) fetchExport(ctx context.Context, srv services.Service, projectID string) (*models.ProjectExport, error) {
	project, err := srv.GetProject(ctx, projectID)
	if err != nil {
		return nil, err
	}

	export := &models.ProjectExport{Project: *project}
	if outline, err := srv.GetOutline(ctx, projectID); err == nil {
		export.Outline = outline
	}
	if chapters, err := srv.GetChapters(ctx, projectID); err == nil {
		export.Chapters = chapters
	}
	return export, nil
}

// exportWorker is a worker goroutine that exports projects from the jobs channel.
func (e *NovelEngine) exportWorker(
	ctx context.Context,
	wg *sync.WaitGroup,
	jobs <-chan ProjectExportJob,
	results chan<- ProjectExportResult,
	opts BulkExportOpts,
) {
	defer wg.Done()

	for job := range jobs {
		select {
		case <-ctx.Done():
			return
		default:
		}

		res := e.exportSingleProject(job, opts)
		results <- res
	}
}

// exportSingleProject exports a single project to the appropriate format.
func (e *NovelEngine) exportSingleProject(j ProjectExportJob, opts BulkExportOpts) ProjectExportResult {
	result := ProjectExportResult{
		ProjectID:    j.ProjectID,
		ProjectTitle: j.Export.Project.Title,
		Success:      false,
		Files:        []string{},
	}

	switch opts.Format {
	case "csv":
		baseFilepath := filepath.Join(opts.OutputDir, j.Export.Project.ID)
		csvRes, err := formatter.WriteCSVExport(j.Export, baseFilepath)
		if err != nil {
			result.Error = fmt.Errorf("CSV export failed: %w", err)
			return result
		}
		result.Files = []string{csvRes.ChaptersFile, csvRes.MetadataFile}
		result.Success = true

	case "markdown":
		outputDir := filepath.Join(opts.OutputDir, j.Export.Project.ID)
		mdRes, err := formatter.WriteMarkdownExport(j.Export, outputDir)
		if err != nil {
			result.Error = fmt.Errorf("markdown export failed: %w", err)
			return result
		}
		result.Files = mdRes.Files
		result.Success = true

	case "txt":
		txtPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s_outline.txt", j.Export.Project.ID))
		filepath, err := formatter.WriteTextExport(j.Export, txtPath)
		if err != nil {
			result.Error = fmt.Errorf("text export failed: %w", err)
			return result
		}
		result.Files = []string{filepath}
		result.Success = true
	case "json":
		fallthrough
	default:
		jsonPath := filepath.Join(opts.OutputDir, fmt.Sprintf("%s.json", j.Export.Project.ID))
		data, err := shared.MarshalJSON(j.Export, true)
		if err != nil {
			result.Error = fmt.Errorf("JSON marshal failed: %w", err)
			return result
		}
		if err := os.WriteFile(jsonPath, data, 0644); err != nil {
			result.Error = fmt.Errorf("JSON write failed: %w", err)
			return result
		}
		result.Files = []string{jsonPath}
		result.Success = true
	}
	return result
}
