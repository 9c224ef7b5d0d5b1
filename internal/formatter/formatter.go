// package formatter provides functions to export project data to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
)

// ExportToCSV converts a ProjectExport's generated chapters to CSV format with columns: Chapter, Title
func ExportToCSV(export *models.ProjectExport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Chapter", "Title"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, chapter := range export.Chapters {
		record := []string{
			strconv.Itoa(chapter.Chapter),
			chapter.Title,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown converts a ProjectExport to Markdown format with the
// outline rendered as nested sections.
func ExportToMarkdown(export *models.ProjectExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", export.Project.Title))

	if export.Project.Genre != "" {
		buf.WriteString(fmt.Sprintf("**Genre**: %s\n", export.Project.Genre))
	}
	if export.Project.Premise != "" {
		buf.WriteString(fmt.Sprintf("**Premise**: %s\n", export.Project.Premise))
	}
	buf.WriteString(fmt.Sprintf("**Planned**: %d chapters, %s\n\n",
		export.Project.TotalChapters,
		shared.FormatWordCount(export.Project.TargetWordCount)))

	if outline := export.Outline; outline != nil {
		buf.WriteString("## Outline\n\n")
		if outline.MainGoal != "" {
			buf.WriteString(fmt.Sprintf("**Goal**: %s\n\n", outline.MainGoal))
		}
		for _, milestone := range outline.Milestones {
			buf.WriteString(fmt.Sprintf("- %s\n", milestone))
		}
		if len(outline.Milestones) > 0 {
			buf.WriteString("\n")
		}

		for _, volume := range outline.Volumes {
			buf.WriteString(fmt.Sprintf("### Volume %d: %s (chapters %d-%d)\n\n",
				volume.Index, volume.Title, volume.StartChapter, volume.EndChapter))
			for _, stub := range volume.Chapters {
				if stub.Summary != "" {
					buf.WriteString(fmt.Sprintf("%d. %s — %s\n", stub.Chapter, stub.Title, stub.Summary))
				} else {
					buf.WriteString(fmt.Sprintf("%d. %s\n", stub.Chapter, stub.Title))
				}
			}
			buf.WriteString("\n")
		}
	}

	if len(export.Chapters) > 0 {
		buf.WriteString("## Generated Chapters\n\n")
		for _, chapter := range export.Chapters {
			buf.WriteString(fmt.Sprintf("%d. %s\n", chapter.Chapter, chapter.Title))
		}
	}

	return buf.Bytes(), nil
}

// ExportToText converts a ProjectExport to plain text format
func ExportToText(export *models.ProjectExport) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Project: %s\n", export.Project.Title))
	if export.Project.Premise != "" {
		buf.WriteString(fmt.Sprintf("Premise: %s\n", export.Project.Premise))
	}
	buf.WriteString(fmt.Sprintf("Chapters: %d\n\n", len(export.Chapters)))

	if outline := export.Outline; outline != nil {
		for _, volume := range outline.Volumes {
			buf.WriteString(fmt.Sprintf("Volume %d: %s\n", volume.Index, volume.Title))
			for _, stub := range volume.Chapters {
				buf.WriteString(fmt.Sprintf("  %d. %s\n", stub.Chapter, stub.Title))
			}
		}
		buf.WriteString("\n")
	}

	for _, chapter := range export.Chapters {
		buf.WriteString(fmt.Sprintf("%d. %s\n", chapter.Chapter, chapter.Title))
	}

	return buf.Bytes(), nil
}

// ToMetadataJSON generates a JSON representation of project metadata (without outline or chapters)
func ToMetadataJSON(project models.Project) ([]byte, error) {
	return shared.MarshalJSON(project, true)
}

// CSVExportResult contains the paths of files created by WriteCSVExport
type CSVExportResult struct {
	ChaptersFile string
	MetadataFile string
}

// WriteCSVExport exports a project to CSV format with accompanying metadata JSON file.
//
// Defaults to project ID as the base filename & creates {base}_chapters.csv and {base}_metadata.json
func WriteCSVExport(export *models.ProjectExport, baseFilepath string) (*CSVExportResult, error) {
	if baseFilepath == "" {
		baseFilepath = export.Project.ID
	}

	csvData, err := ExportToCSV(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSV: %w", err)
	}

	chaptersFile := baseFilepath + "_chapters.csv"
	if err := os.WriteFile(chaptersFile, csvData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write CSV file: %w", err)
	}

	metadataJSON, err := ToMetadataJSON(export.Project)
	if err != nil {
		return nil, fmt.Errorf("failed to generate metadata JSON: %w", err)
	}

	metadataFile := baseFilepath + "_metadata.json"
	if err := os.WriteFile(metadataFile, metadataJSON, 0644); err != nil {
		return nil, fmt.Errorf("failed to write metadata file: %w", err)
	}

	return &CSVExportResult{
		ChaptersFile: chaptersFile,
		MetadataFile: metadataFile,
	}, nil
}

// MarkdownExportResult contains information about files created by WriteMarkdownExport
type MarkdownExportResult struct {
	Directory string
	Files     []string
}

// WriteMarkdownExport exports a project to Markdown format in a dedicated directory.
//
// Directory name defaults to the project ID.
// Creates a directory structure: {dir}/README.md
func WriteMarkdownExport(export *models.ProjectExport, outputDir string) (*MarkdownExportResult, error) {
	if outputDir == "" {
		outputDir = export.Project.ID
	}

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	result := &MarkdownExportResult{
		Directory: outputDir,
		Files:     []string{},
	}

	mdData, err := ExportToMarkdown(export)
	if err != nil {
		return nil, fmt.Errorf("failed to generate Markdown: %w", err)
	}

	mdFile := fmt.Sprintf("%s/README.md", outputDir)
	if err := os.WriteFile(mdFile, mdData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write Markdown file: %w", err)
	}

	result.Files = append(result.Files, mdFile)

	return result, nil
}

// WriteTextExport exports a project to plain text format.
//
// Defaults to {project.ID}_outline.txt as the filename.
func WriteTextExport(export *models.ProjectExport, filepath string) (string, error) {
	if filepath == "" {
		filepath = fmt.Sprintf("%s_outline.txt", export.Project.ID)
	}

	textData, err := ExportToText(export)
	if err != nil {
		return "", fmt.Errorf("failed to generate text: %w", err)
	}

	if err := os.WriteFile(filepath, textData, 0644); err != nil {
		return "", fmt.Errorf("failed to write text file: %w", err)
	}

	return filepath, nil
}

// manifest is the envelope written by WriteBulkExportManifest.
type manifest struct {
	Format      string    `json:"format"`
	GeneratedAt time.Time `json:"generated_at"`
	Result      any       `json:"result"`
}

// WriteBulkExportManifest writes a JSON summary of a bulk export run.
func WriteBulkExportManifest(result any, format string, path string) error {
	data, err := shared.MarshalJSON(manifest{
		Format:      format,
		GeneratedAt: time.Now().UTC(),
		Result:      result,
	}, true)
	if err != nil {
		return fmt.Errorf("failed to generate manifest JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write manifest file: %w", err)
	}

	return nil
}
