package repositories

import (
	"fmt"
	"strings"

	"github.com/quillhq/inkwell/internal/models"
)

// ChapterCacheAdapter implements tasks.ChapterCacher using ChapterRepository.
//
// Provides automatic chapter caching with deduplication on project+index.
// A chapter reported again (after a resumed run) updates the cached title
// instead of inserting a duplicate row.
type ChapterCacheAdapter struct {
	repo *ChapterRepository
}

// NewChapterCacheAdapter creates a new ChapterCacheAdapter with the given repository
func NewChapterCacheAdapter(repo *ChapterRepository) *ChapterCacheAdapter {
	return &ChapterCacheAdapter{repo: repo}
}

// CacheChapter caches a confirmed chapter for a project.
// Re-confirmed chapters update in place; only actual failures return errors.
func (a *ChapterCacheAdapter) CacheChapter(projectID string, chapter models.GeneratedChapter) error {
	existing, err := a.repo.GetByIndex(projectID, chapter.Chapter)
	if err == nil && existing != nil {
		if existing.Title() == chapter.Title {
			return nil
		}
		existing.SetTitle(chapter.Title)
		if err := a.repo.Update(existing); err != nil {
			return fmt.Errorf("failed to refresh cached chapter: %w", err)
		}
		return nil
	}

	persisted := models.NewPersistedChapter(0, projectID, chapter)

	if err := a.repo.Create(persisted); err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint") {
			return nil
		}
		return fmt.Errorf("failed to cache chapter: %w", err)
	}

	return nil
}
