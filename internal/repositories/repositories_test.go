package repositories

import (
	"database/sql"
	"testing"

	"github.com/quillhq/inkwell/internal/models"
	"github.com/quillhq/inkwell/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleProject(remoteID string) *models.PersistedProject {
	return models.NewPersistedProject(0, remoteID, models.Project{
		ID:              remoteID,
		Title:           "Ash and Ember",
		Genre:           "fantasy",
		Premise:         "A kingdom rebuilt from volcanic ruin",
		TotalChapters:   120,
		TargetWordCount: 300000,
		Status:          "draft",
	})
}

func TestProjectRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := sampleProject("proj_1")

		if err := repo.Create(project); err != nil {
			t.Fatalf("failed to create project: %v", err)
		}

		if project.ID() == "" {
			t.Error("project ID should be set after creation")
		}

		if project.Sequence() == 0 {
			t.Error("project sequence should be assigned after creation")
		}
	})

	t.Run("Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := sampleProject("proj_1")

		if err := repo.Create(project); err != nil {
			t.Fatalf("failed to create project: %v", err)
		}

		retrieved, err := repo.Get(project.ID())
		if err != nil {
			t.Fatalf("failed to get project: %v", err)
		}

		if retrieved.RemoteID() != "proj_1" {
			t.Errorf("expected remote ID proj_1, got %s", retrieved.RemoteID())
		}

		if retrieved.Title() != "Ash and Ember" {
			t.Errorf("expected title Ash and Ember, got %s", retrieved.Title())
		}

		if retrieved.TargetWordCount() != 300000 {
			t.Errorf("expected target word count 300000, got %d", retrieved.TargetWordCount())
		}
	})

	t.Run("GetByRemoteID", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := sampleProject("proj_remote")

		if err := repo.Create(project); err != nil {
			t.Fatalf("failed to create project: %v", err)
		}

		retrieved, err := repo.GetByRemoteID("proj_remote")
		if err != nil {
			t.Fatalf("failed to get project by remote ID: %v", err)
		}

		if retrieved.ID() != project.ID() {
			t.Errorf("expected ID %s, got %s", project.ID(), retrieved.ID())
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := sampleProject("proj_1")

		if err := repo.Create(project); err != nil {
			t.Fatalf("failed to create project: %v", err)
		}

		updated := models.NewPersistedProject(project.Sequence(), "proj_1", models.Project{
			ID:              "proj_1",
			Title:           "Ash and Ember: Revised",
			Genre:           "fantasy",
			TotalChapters:   140,
			TargetWordCount: 350000,
			Status:          "outlined",
		})
		updated.SetID(project.ID())

		if err := repo.Update(updated); err != nil {
			t.Fatalf("failed to update project: %v", err)
		}

		retrieved, err := repo.Get(project.ID())
		if err != nil {
			t.Fatalf("failed to get project: %v", err)
		}

		if retrieved.Title() != "Ash and Ember: Revised" {
			t.Errorf("expected updated title, got %s", retrieved.Title())
		}

		if retrieved.Status() != "outlined" {
			t.Errorf("expected status outlined, got %s", retrieved.Status())
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)
		project := sampleProject("proj_1")

		if err := repo.Create(project); err != nil {
			t.Fatalf("failed to create project: %v", err)
		}

		if err := repo.Delete(project.ID()); err != nil {
			t.Fatalf("failed to delete project: %v", err)
		}

		if _, err := repo.Get(project.ID()); err == nil {
			t.Error("expected error when getting deleted project")
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewProjectRepository(db)

		first := sampleProject("proj_1")
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create first project: %v", err)
		}

		second := models.NewPersistedProject(0, "proj_2", models.Project{
			ID:     "proj_2",
			Title:  "Salt Roads",
			Genre:  "historical",
			Status: "generating",
		})
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create second project: %v", err)
		}

		all, err := repo.List(nil)
		if err != nil {
			t.Fatalf("failed to list projects: %v", err)
		}

		if len(all) != 2 {
			t.Fatalf("expected 2 projects, got %d", len(all))
		}

		if all[0].RemoteID() != "proj_1" {
			t.Errorf("expected sequence ordering, got %s first", all[0].RemoteID())
		}

		byGenre, err := repo.List(map[string]interface{}{"genre": "historical"})
		if err != nil {
			t.Fatalf("failed to list projects by genre: %v", err)
		}

		if len(byGenre) != 1 || byGenre[0].Title() != "Salt Roads" {
			t.Errorf("expected only Salt Roads for genre historical, got %d projects", len(byGenre))
		}
	})
}

func TestChapterRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewChapterRepository(db)
		chapter := models.NewPersistedChapter(0, "proj_1", models.GeneratedChapter{Chapter: 3, Title: "The Crossing"})

		if err := repo.Create(chapter); err != nil {
			t.Fatalf("failed to create chapter: %v", err)
		}

		retrieved, err := repo.Get(chapter.ID())
		if err != nil {
			t.Fatalf("failed to get chapter: %v", err)
		}

		if retrieved.ChapterIndex() != 3 {
			t.Errorf("expected chapter index 3, got %d", retrieved.ChapterIndex())
		}

		if retrieved.Title() != "The Crossing" {
			t.Errorf("expected title The Crossing, got %s", retrieved.Title())
		}
	})

	t.Run("GetByIndex", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewChapterRepository(db)
		chapter := models.NewPersistedChapter(0, "proj_1", models.GeneratedChapter{Chapter: 7, Title: "Ambush"})

		if err := repo.Create(chapter); err != nil {
			t.Fatalf("failed to create chapter: %v", err)
		}

		retrieved, err := repo.GetByIndex("proj_1", 7)
		if err != nil {
			t.Fatalf("failed to get chapter by index: %v", err)
		}

		if retrieved.ID() != chapter.ID() {
			t.Errorf("expected ID %s, got %s", chapter.ID(), retrieved.ID())
		}
	})

	t.Run("ListByProject", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewChapterRepository(db)

		for i, title := range []string{"One", "Two", "Three"} {
			chapter := models.NewPersistedChapter(0, "proj_1", models.GeneratedChapter{Chapter: i + 1, Title: title})
			if err := repo.Create(chapter); err != nil {
				t.Fatalf("failed to create chapter %d: %v", i+1, err)
			}
		}

		other := models.NewPersistedChapter(0, "proj_2", models.GeneratedChapter{Chapter: 1, Title: "Elsewhere"})
		if err := repo.Create(other); err != nil {
			t.Fatalf("failed to create chapter for other project: %v", err)
		}

		chapters, err := repo.ListByProject("proj_1")
		if err != nil {
			t.Fatalf("failed to list chapters: %v", err)
		}

		if len(chapters) != 3 {
			t.Fatalf("expected 3 chapters, got %d", len(chapters))
		}

		for i, chapter := range chapters {
			if chapter.ChapterIndex() != i+1 {
				t.Errorf("expected chapter index %d at position %d, got %d", i+1, i, chapter.ChapterIndex())
			}
		}
	})

	t.Run("Update", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewChapterRepository(db)
		chapter := models.NewPersistedChapter(0, "proj_1", models.GeneratedChapter{Chapter: 1, Title: "Draft Title"})

		if err := repo.Create(chapter); err != nil {
			t.Fatalf("failed to create chapter: %v", err)
		}

		chapter.SetTitle("Final Title")
		chapter.SetWordCount(2500)

		if err := repo.Update(chapter); err != nil {
			t.Fatalf("failed to update chapter: %v", err)
		}

		retrieved, err := repo.Get(chapter.ID())
		if err != nil {
			t.Fatalf("failed to get chapter: %v", err)
		}

		if retrieved.Title() != "Final Title" {
			t.Errorf("expected updated title, got %s", retrieved.Title())
		}

		if retrieved.WordCount() != 2500 {
			t.Errorf("expected word count 2500, got %d", retrieved.WordCount())
		}
	})
}

func TestGenerationRunRepository(t *testing.T) {
	t.Run("Create And Get", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGenerationRunRepository(db)
		run := models.NewGenerationRun(0, "proj_1", models.RunChapters, 10)

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		retrieved, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}

		if retrieved.Kind() != models.RunChapters {
			t.Errorf("expected kind %s, got %s", models.RunChapters, retrieved.Kind())
		}

		if retrieved.Status() != "running" {
			t.Errorf("expected status running, got %s", retrieved.Status())
		}

		if retrieved.Requested() != 10 {
			t.Errorf("expected 10 requested, got %d", retrieved.Requested())
		}

		if retrieved.StartedAt() == nil {
			t.Error("expected started_at to round-trip")
		}

		if retrieved.CompletedAt() != nil {
			t.Error("expected completed_at to be nil for a running run")
		}
	})

	t.Run("Update Completion", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGenerationRunRepository(db)
		run := models.NewGenerationRun(0, "proj_1", models.RunChapters, 10)

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		run.Complete(8, 2)

		if err := repo.Update(run); err != nil {
			t.Fatalf("failed to update run: %v", err)
		}

		retrieved, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}

		if retrieved.Status() != "completed" {
			t.Errorf("expected status completed, got %s", retrieved.Status())
		}

		if retrieved.Generated() != 8 || retrieved.Failed() != 2 {
			t.Errorf("expected counts 8/2, got %d/%d", retrieved.Generated(), retrieved.Failed())
		}

		if retrieved.CompletedAt() == nil {
			t.Error("expected completed_at to be set after completion")
		}
	})

	t.Run("Update Failure", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGenerationRunRepository(db)
		run := models.NewGenerationRun(0, "proj_1", models.RunOutline, 1)

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		run.Fail("model backend unavailable")

		if err := repo.Update(run); err != nil {
			t.Fatalf("failed to update run: %v", err)
		}

		retrieved, err := repo.Get(run.ID())
		if err != nil {
			t.Fatalf("failed to get run: %v", err)
		}

		if retrieved.Status() != "failed" {
			t.Errorf("expected status failed, got %s", retrieved.Status())
		}

		if retrieved.ErrorMessage() != "model backend unavailable" {
			t.Errorf("expected error message to round-trip, got %q", retrieved.ErrorMessage())
		}
	})

	t.Run("List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGenerationRunRepository(db)

		outline := models.NewGenerationRun(0, "proj_1", models.RunOutline, 1)
		if err := repo.Create(outline); err != nil {
			t.Fatalf("failed to create outline run: %v", err)
		}

		chapters := models.NewGenerationRun(0, "proj_1", models.RunChapters, 5)
		chapters.Complete(5, 0)
		if err := repo.Create(chapters); err != nil {
			t.Fatalf("failed to create chapter run: %v", err)
		}

		other := models.NewGenerationRun(0, "proj_2", models.RunChapters, 3)
		if err := repo.Create(other); err != nil {
			t.Fatalf("failed to create run for other project: %v", err)
		}

		byProject, err := repo.List(map[string]interface{}{"project_id": "proj_1"})
		if err != nil {
			t.Fatalf("failed to list runs: %v", err)
		}

		if len(byProject) != 2 {
			t.Fatalf("expected 2 runs for proj_1, got %d", len(byProject))
		}

		if byProject[0].Kind() != models.RunChapters {
			t.Errorf("expected most recent run first, got %s", byProject[0].Kind())
		}

		completed, err := repo.List(map[string]interface{}{"status": "completed"})
		if err != nil {
			t.Fatalf("failed to list completed runs: %v", err)
		}

		if len(completed) != 1 {
			t.Errorf("expected 1 completed run, got %d", len(completed))
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewGenerationRunRepository(db)
		run := models.NewGenerationRun(0, "proj_1", models.RunOutline, 1)

		if err := repo.Create(run); err != nil {
			t.Fatalf("failed to create run: %v", err)
		}

		if err := repo.Delete(run.ID()); err != nil {
			t.Fatalf("failed to delete run: %v", err)
		}

		if _, err := repo.Get(run.ID()); err == nil {
			t.Error("expected error when getting deleted run")
		}
	})
}

func TestChapterCacheAdapter(t *testing.T) {
	t.Run("Caches New Chapter", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewChapterRepository(db)
		cache := NewChapterCacheAdapter(repo)

		if err := cache.CacheChapter("proj_1", models.GeneratedChapter{Chapter: 1, Title: "Opening"}); err != nil {
			t.Fatalf("failed to cache chapter: %v", err)
		}

		retrieved, err := repo.GetByIndex("proj_1", 1)
		if err != nil {
			t.Fatalf("failed to get cached chapter: %v", err)
		}

		if retrieved.Title() != "Opening" {
			t.Errorf("expected title Opening, got %s", retrieved.Title())
		}
	})

	t.Run("Deduplicates Repeated Chapter", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewChapterRepository(db)
		cache := NewChapterCacheAdapter(repo)

		chapter := models.GeneratedChapter{Chapter: 4, Title: "The Siege"}

		if err := cache.CacheChapter("proj_1", chapter); err != nil {
			t.Fatalf("failed to cache chapter: %v", err)
		}

		if err := cache.CacheChapter("proj_1", chapter); err != nil {
			t.Fatalf("re-caching identical chapter should be a no-op: %v", err)
		}

		chapters, err := repo.ListByProject("proj_1")
		if err != nil {
			t.Fatalf("failed to list chapters: %v", err)
		}

		if len(chapters) != 1 {
			t.Errorf("expected 1 cached chapter after dedupe, got %d", len(chapters))
		}
	})

	t.Run("Refreshes Changed Title", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewChapterRepository(db)
		cache := NewChapterCacheAdapter(repo)

		if err := cache.CacheChapter("proj_1", models.GeneratedChapter{Chapter: 4, Title: "The Siege"}); err != nil {
			t.Fatalf("failed to cache chapter: %v", err)
		}

		if err := cache.CacheChapter("proj_1", models.GeneratedChapter{Chapter: 4, Title: "The Siege of Dawnhold"}); err != nil {
			t.Fatalf("failed to refresh chapter: %v", err)
		}

		retrieved, err := repo.GetByIndex("proj_1", 4)
		if err != nil {
			t.Fatalf("failed to get cached chapter: %v", err)
		}

		if retrieved.Title() != "The Siege of Dawnhold" {
			t.Errorf("expected refreshed title, got %s", retrieved.Title())
		}

		chapters, err := repo.ListByProject("proj_1")
		if err != nil {
			t.Fatalf("failed to list chapters: %v", err)
		}

		if len(chapters) != 1 {
			t.Errorf("expected single row after refresh, got %d", len(chapters))
		}
	})
}
