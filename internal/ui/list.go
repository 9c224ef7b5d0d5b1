package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
)

var (
	_ list.Item = projectItem{}
	_ list.Item = volumeItem{}
)

// projectItem wraps [models.Project] to implement [list.Item].
type projectItem struct {
	project models.Project
}

func (i projectItem) FilterValue() string { return i.project.Title }
func (i projectItem) Title() string       { return i.project.Title }
func (i projectItem) Description() string {
	desc := fmt.Sprintf("%d chapters planned", i.project.TotalChapters)
	if i.project.TargetWordCount > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatWordCount(i.project.TargetWordCount))
	}
	if i.project.Status != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.project.Status)
	}
	return desc
}

// volumeItem wraps [models.VolumeOutline] to implement [list.Item].
type volumeItem struct {
	volume models.VolumeOutline
}

func (i volumeItem) FilterValue() string { return i.volume.Title }
func (i volumeItem) Title() string {
	return fmt.Sprintf("Volume %d: %s", i.volume.Index, i.volume.Title)
}
func (i volumeItem) Description() string {
	return fmt.Sprintf("chapters %d-%d", i.volume.StartChapter, i.volume.EndChapter)
}
